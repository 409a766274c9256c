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

type BFDColor struct {
	Color         meta.Value[Color]  `json:"color,omitzero"`
	HelloInterval meta.Value[uint32] `json:"helloInterval,omitzero"`
	Multiplier    meta.Value[uint8]  `json:"multiplier,omitzero"`
	PMTUDiscovery meta.Value[bool]   `json:"pmtuDiscovery,omitzero"`
	DSCP          meta.Value[uint8]  `json:"dscp,omitzero"`
}

// BFDData defines the BFD timers for the data plane tunnels
type BFDData struct {
	// Multiplier is the number of the missed hello packets to declare the tunnel down
	Multiplier meta.Value[uint8] `json:"multiplier,omitzero"`
	// PollInterval is the interval (ms) to poll the tunnels for the path MTU and SLA metrics
	PollInterval meta.Value[uint32] `json:"pollInterval,omitzero"`
	// DefaultDSCP is the DSCP value of the BFD packets
	DefaultDSCP meta.Value[uint8] `json:"defaultDscp,omitzero"`
	// Colors is the per color timers
	Colors []BFDColor `json:"colors,omitempty"`
}

type BFD struct {
	Base `json:",inline"`
	Data BFDData `json:"data"`
}

var _ Parcel = (*BFD)(nil)

func init() {
	register(TypeBFD, func() Parcel { return &BFD{} })
}

func (p *BFD) ParcelType() Type {
	return TypeBFD
}

func (p *BFD) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *BFD) Default() {
	p.defaultBase()

	d := &p.Data
	d.Multiplier = d.Multiplier.OrDefault(6)
	d.PollInterval = d.PollInterval.OrDefault(600000)
	d.DefaultDSCP = d.DefaultDSCP.OrDefault(48)

	for idx := range d.Colors {
		color := &d.Colors[idx]
		color.HelloInterval = color.HelloInterval.OrDefault(1000)
		color.Multiplier = color.Multiplier.OrDefault(7)
		color.PMTUDiscovery = color.PMTUDiscovery.OrDefault(true)
		color.DSCP = color.DSCP.OrDefault(48)
	}
}

func (p *BFD) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	d := &p.Data
	if err := meta.ValidateRange("multiplier", d.Multiplier, 1, 60); err != nil {
		return err
	}
	if err := meta.ValidateRange("pollInterval", d.PollInterval, 1, 4294967295); err != nil {
		return err
	}
	if err := meta.ValidateRange("defaultDscp", d.DefaultDSCP, 0, 63); err != nil {
		return err
	}

	seen := map[Color]bool{}
	for idx, color := range d.Colors {
		if err := meta.ValidateRequired("colors.color", color.Color); err != nil {
			return errors.Wrapf(err, "color %d", idx)
		}
		if err := meta.ValidateChoice("colors.color", color.Color); err != nil {
			return errors.Wrapf(err, "color %d", idx)
		}
		if err := meta.ValidateRange("colors.helloInterval", color.HelloInterval, 100, 300000); err != nil {
			return errors.Wrapf(err, "color %d", idx)
		}
		if err := meta.ValidateRange("colors.multiplier", color.Multiplier, 1, 60); err != nil {
			return errors.Wrapf(err, "color %d", idx)
		}
		if err := meta.ValidateRange("colors.dscp", color.DSCP, 0, 63); err != nil {
			return errors.Wrapf(err, "color %d", idx)
		}
		if val, ok := color.Color.Get(); ok {
			if seen[val] {
				return errors.Errorf("color %d: duplicate color %s", idx, val)
			}
			seen[val] = true
		}
	}

	return nil
}
