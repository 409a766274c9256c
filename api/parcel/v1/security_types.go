// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v1

import (
	"github.com/pkg/errors"
	"go.githedgehog.com/catalystwan/api/meta"
)

type ReplayWindow string

func (ReplayWindow) Choices() []string {
	return []string{"64", "128", "256", "512", "1024", "2048", "4096", "8192"}
}

type IntegrityType string

const (
	IntegrityTypeESP      IntegrityType = "esp"
	IntegrityTypeIPUDPESP IntegrityType = "ip-udp-esp"
	IntegrityTypeNone     IntegrityType = "none"
	IntegrityTypeESPRS    IntegrityType = "ip-udp-esp-no-id"
)

func (IntegrityType) Choices() []string {
	return []string{"esp", "ip-udp-esp", "none", "ip-udp-esp-no-id"}
}

type SecurityKeychain struct {
	Name meta.Value[string] `json:"name,omitzero"`
	ID   meta.Value[uint32] `json:"id,omitzero"`
}

type SecurityKey struct {
	ID                meta.Value[uint8]  `json:"id,omitzero"`
	Name              meta.Value[string] `json:"name,omitzero"`
	SendID            meta.Value[uint8]  `json:"sendId,omitzero"`
	RecvID            meta.Value[uint8]  `json:"recvId,omitzero"`
	IncludeTCPOptions meta.Value[bool]   `json:"includeTcpOptions,omitzero"`
	AcceptAOMismatch  meta.Value[bool]   `json:"acceptAoMismatch,omitzero"`
	KeyString         meta.Value[string] `json:"keyString,omitzero"`
}

// SecurityData defines IPsec data plane security settings
type SecurityData struct {
	// Rekey is the rekey interval in seconds
	Rekey meta.Value[uint32] `json:"rekey,omitzero"`
	// ReplayWindow is the anti-replay window size
	ReplayWindow meta.Value[ReplayWindow] `json:"replayWindow,omitzero"`
	// ExtendedARWindow is the extended anti-replay window in milliseconds
	ExtendedARWindow meta.Value[uint16] `json:"extendedArWindow,omitzero"`
	// IntegrityType is the list of the allowed authentication types
	IntegrityType meta.Value[[]IntegrityType] `json:"integrityType,omitzero"`
	// PairwiseKeying enables the pairwise IPsec keys
	PairwiseKeying meta.Value[bool]   `json:"pairwiseKeying,omitzero"`
	Keychain       []SecurityKeychain `json:"keychain,omitempty"`
	Key            []SecurityKey      `json:"key,omitempty"`
}

type Security struct {
	Base `json:",inline"`
	Data SecurityData `json:"data"`
}

var _ Parcel = (*Security)(nil)

func init() {
	register(TypeSecurity, func() Parcel { return &Security{} })
}

func (p *Security) ParcelType() Type {
	return TypeSecurity
}

func (p *Security) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *Security) Default() {
	p.defaultBase()

	p.Data.Rekey = p.Data.Rekey.OrDefault(86400)
	p.Data.ReplayWindow = p.Data.ReplayWindow.OrDefault("512")
	p.Data.ExtendedARWindow = p.Data.ExtendedARWindow.OrDefault(256)
	p.Data.IntegrityType = p.Data.IntegrityType.OrDefault([]IntegrityType{IntegrityTypeIPUDPESP, IntegrityTypeESP})
	p.Data.PairwiseKeying = p.Data.PairwiseKeying.OrDefault(false)
}

func (p *Security) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	if err := meta.ValidateRange("rekey", p.Data.Rekey, 10, 1209600); err != nil {
		return err
	}
	if err := meta.ValidateChoice("replayWindow", p.Data.ReplayWindow); err != nil {
		return err
	}
	if err := meta.ValidateRange("extendedArWindow", p.Data.ExtendedARWindow, 10, 2048); err != nil {
		return err
	}
	if err := meta.ValidateChoices("integrityType", p.Data.IntegrityType); err != nil {
		return err
	}

	keychains := map[string]bool{}
	for idx, kc := range p.Data.Keychain {
		if err := meta.ValidateRequired("keychain.name", kc.Name); err != nil {
			return errors.Wrapf(err, "keychain %d", idx)
		}
		if name, ok := kc.Name.Get(); ok {
			keychains[name] = true
		}
	}

	for idx, key := range p.Data.Key {
		if err := meta.ValidateRequired("key.id", key.ID); err != nil {
			return errors.Wrapf(err, "key %d", idx)
		}
		if name, ok := key.Name.Get(); ok && !keychains[name] {
			return errors.Errorf("key %d: unknown keychain %q", idx, name)
		}
	}

	return nil
}
