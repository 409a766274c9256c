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
	"go.githedgehog.com/catalystwan/api/meta"
)

type ConsoleBaudRate string

func (ConsoleBaudRate) Choices() []string {
	return []string{"1200", "2400", "4800", "9600", "19200", "38400", "57600", "115200"}
}

// BasicClock defines the system clock settings
type BasicClock struct {
	Timezone meta.Value[string] `json:"timezone,omitzero"`
}

// BasicGPS defines the device physical location
type BasicGPS struct {
	Longitude meta.Value[float64] `json:"longitude,omitzero"`
	Latitude  meta.Value[float64] `json:"latitude,omitzero"`
}

// BasicData defines the basic system settings of the device
type BasicData struct {
	// Clock is the timezone configuration
	Clock BasicClock `json:"clock"`
	// Description is the device description
	Description meta.Value[string] `json:"description,omitzero"`
	// Location is the device location description
	Location meta.Value[string] `json:"location,omitzero"`
	// GPSLocation is the device geo location
	GPSLocation BasicGPS `json:"gpsLocation"`
	// ConsoleBaudRate is the console speed
	ConsoleBaudRate meta.Value[ConsoleBaudRate] `json:"consoleBaudRate,omitzero"`
	// MaxOMPSessions is the number of OMP sessions to the controllers
	MaxOMPSessions meta.Value[uint16] `json:"maxOmpSessions,omitzero"`
	// PortHop enables port hopping on the TLOC ports
	PortHop meta.Value[bool] `json:"portHop,omitzero"`
	// PortOffset is the port offset for the TLOC ports
	PortOffset meta.Value[uint8] `json:"portOffset,omitzero"`
	// ControlSessionPPS is the control session packet rate
	ControlSessionPPS meta.Value[uint16] `json:"controlSessionPps,omitzero"`
	// TrackTransport enables regular tracking of the controller reachability
	TrackTransport meta.Value[bool] `json:"trackTransport,omitzero"`
	// TrackDefaultGateway enables tracking of the default gateway
	TrackDefaultGateway meta.Value[bool] `json:"trackDefaultGateway,omitzero"`
	// AdminTechOnFailure enables admin-tech collection on reboot
	AdminTechOnFailure meta.Value[bool] `json:"adminTechOnFailure,omitzero"`
	// IdleTimeout is the idle timeout for the CLI sessions in minutes
	IdleTimeout meta.Value[uint8] `json:"idleTimeout,omitzero"`
	// OnDemandEnable enables on demand tunnels
	OnDemandEnable meta.Value[bool] `json:"onDemandEnable,omitzero"`
	// OnDemandIdleTimeout is the idle timeout for on demand tunnels in minutes
	OnDemandIdleTimeout meta.Value[uint32] `json:"onDemandIdleTimeout,omitzero"`
	// AffinityGroupNumber is the affinity group of the device
	AffinityGroupNumber meta.Value[uint8] `json:"affinityGroupNumber,omitzero"`
}

type Basic struct {
	Base `json:",inline"`
	Data BasicData `json:"data"`
}

var _ Parcel = (*Basic)(nil)

func init() {
	register(TypeBasic, func() Parcel { return &Basic{} })
}

func (p *Basic) ParcelType() Type {
	return TypeBasic
}

func (p *Basic) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *Basic) Default() {
	p.defaultBase()

	d := &p.Data
	d.Clock.Timezone = d.Clock.Timezone.OrDefault("UTC")
	d.ConsoleBaudRate = d.ConsoleBaudRate.OrDefault("9600")
	d.MaxOMPSessions = d.MaxOMPSessions.OrDefault(2)
	d.PortHop = d.PortHop.OrDefault(true)
	d.PortOffset = d.PortOffset.OrDefault(0)
	d.ControlSessionPPS = d.ControlSessionPPS.OrDefault(300)
	d.TrackTransport = d.TrackTransport.OrDefault(true)
	d.TrackDefaultGateway = d.TrackDefaultGateway.OrDefault(true)
	d.AdminTechOnFailure = d.AdminTechOnFailure.OrDefault(true)
	d.IdleTimeout = d.IdleTimeout.OrDefault(10)
	d.OnDemandEnable = d.OnDemandEnable.OrDefault(false)
	d.OnDemandIdleTimeout = d.OnDemandIdleTimeout.OrDefault(10)
}

func (p *Basic) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	d := &p.Data
	if err := meta.ValidateChoice("consoleBaudRate", d.ConsoleBaudRate); err != nil {
		return err
	}
	if err := meta.ValidateRange("maxOmpSessions", d.MaxOMPSessions, 1, 2); err != nil {
		return err
	}
	if err := meta.ValidateRange("portOffset", d.PortOffset, 0, 19); err != nil {
		return err
	}
	if err := meta.ValidateRange("controlSessionPps", d.ControlSessionPPS, 1, 65535); err != nil {
		return err
	}
	if err := meta.ValidateRange("affinityGroupNumber", d.AffinityGroupNumber, 1, 63); err != nil {
		return err
	}

	return nil
}
