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

type NTPServer struct {
	Name            meta.Value[string] `json:"name,omitzero"`
	Key             meta.Value[uint32] `json:"key,omitzero"`
	VPN             meta.Value[uint16] `json:"vpn,omitzero"`
	Version         meta.Value[uint8]  `json:"version,omitzero"`
	SourceInterface meta.Value[string] `json:"sourceInterface,omitzero"`
	PreferThisNTP   meta.Value[bool]   `json:"preferThisNtpServer,omitzero"`
}

type NTPAuthenticationKey struct {
	KeyID    meta.Value[uint32] `json:"keyId,omitzero"`
	MD5Value meta.Value[string] `json:"md5Value,omitzero"`
}

type NTPAuthentication struct {
	AuthenticationKeys []NTPAuthenticationKey `json:"authenticationKeys,omitempty"`
	TrustedKeys        meta.Value[[]uint32]   `json:"trustedKeys,omitzero"`
}

// NTPLeader makes the device the authoritative NTP server
type NTPLeader struct {
	Enable  meta.Value[bool]   `json:"enable,omitzero"`
	Stratum meta.Value[uint8]  `json:"stratum,omitzero"`
	Source  meta.Value[string] `json:"source,omitzero"`
}

// NTPData defines the NTP servers the device syncs the time with
type NTPData struct {
	// Server is the list of the NTP servers
	Server []NTPServer `json:"server,omitempty"`
	// Authentication is the NTP authentication keys configuration
	Authentication NTPAuthentication `json:"authentication"`
	// Leader is the NTP leader (master) configuration
	Leader NTPLeader `json:"leader"`
}

type NTP struct {
	Base `json:",inline"`
	Data NTPData `json:"data"`
}

var _ Parcel = (*NTP)(nil)

func init() {
	register(TypeNTP, func() Parcel { return &NTP{} })
}

func (p *NTP) ParcelType() Type {
	return TypeNTP
}

func (p *NTP) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *NTP) Default() {
	p.defaultBase()

	for idx := range p.Data.Server {
		srv := &p.Data.Server[idx]
		srv.VPN = srv.VPN.OrDefault(0)
		srv.Version = srv.Version.OrDefault(4)
		srv.PreferThisNTP = srv.PreferThisNTP.OrDefault(false)
	}

	p.Data.Leader.Enable = p.Data.Leader.Enable.OrDefault(false)
}

func (p *NTP) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	for idx, srv := range p.Data.Server {
		if err := meta.ValidateRequired("server.name", srv.Name); err != nil {
			return errors.Wrapf(err, "server %d", idx)
		}
		if err := meta.ValidateRange("server.key", srv.Key, 1, 65535); err != nil {
			return errors.Wrapf(err, "server %d", idx)
		}
		if err := meta.ValidateRange("server.vpn", srv.VPN, 0, 65530); err != nil {
			return errors.Wrapf(err, "server %d", idx)
		}
		if err := meta.ValidateRange("server.version", srv.Version, 1, 4); err != nil {
			return errors.Wrapf(err, "server %d", idx)
		}
	}

	for idx, key := range p.Data.Authentication.AuthenticationKeys {
		if err := meta.ValidateRequired("authenticationKeys.keyId", key.KeyID); err != nil {
			return errors.Wrapf(err, "authentication key %d", idx)
		}
		if err := meta.ValidateRequired("authenticationKeys.md5Value", key.MD5Value); err != nil {
			return errors.Wrapf(err, "authentication key %d", idx)
		}
	}

	if err := meta.ValidateRange("leader.stratum", p.Data.Leader.Stratum, 1, 15); err != nil {
		return err
	}

	return nil
}
