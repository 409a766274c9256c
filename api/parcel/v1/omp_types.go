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

// OMPAdvertise is the set of the route sources advertised into OMP
type OMPAdvertise struct {
	BGP       meta.Value[bool] `json:"bgp,omitzero"`
	OSPF      meta.Value[bool] `json:"ospf,omitzero"`
	OSPFv3    meta.Value[bool] `json:"ospfv3,omitzero"`
	Connected meta.Value[bool] `json:"connected,omitzero"`
	Static    meta.Value[bool] `json:"static,omitzero"`
	EIGRP     meta.Value[bool] `json:"eigrp,omitzero"`
	LISP      meta.Value[bool] `json:"lisp,omitzero"`
	ISIS      meta.Value[bool] `json:"isis,omitzero"`
}

// OMPData defines the Overlay Management Protocol settings
type OMPData struct {
	// GracefulRestart enables OMP graceful restart
	GracefulRestart meta.Value[bool] `json:"gracefulRestart,omitzero"`
	// OverlayAS is the AS number advertised by OMP to the BGP neighbors
	OverlayAS meta.Value[uint32] `json:"overlayAs,omitzero"`
	// SendPathLimit is the max number of the equal cost paths advertised to the controller
	SendPathLimit meta.Value[uint8] `json:"sendPathLimit,omitzero"`
	// ECMPLimit is the max number of the equal cost paths installed to the routing table
	ECMPLimit meta.Value[uint8] `json:"ecmpLimit,omitzero"`
	// Shutdown disables OMP
	Shutdown meta.Value[bool] `json:"shutdown,omitzero"`
	// OMPAdminDistanceIPv4 is the admin distance for the IPv4 OMP routes
	OMPAdminDistanceIPv4 meta.Value[uint8] `json:"ompAdminDistanceIpv4,omitzero"`
	// OMPAdminDistanceIPv6 is the admin distance for the IPv6 OMP routes
	OMPAdminDistanceIPv6 meta.Value[uint8] `json:"ompAdminDistanceIpv6,omitzero"`
	// AdvertisementInterval is the interval (seconds) between the OMP updates
	AdvertisementInterval meta.Value[uint16] `json:"advertisementInterval,omitzero"`
	// GracefulRestartTimer is the graceful restart timeout in seconds
	GracefulRestartTimer meta.Value[uint32] `json:"gracefulRestartTimer,omitzero"`
	// EORTimer is the end of RIB timer in seconds
	EORTimer meta.Value[uint16] `json:"eorTimer,omitzero"`
	// Holdtime is the OMP hold time in seconds
	Holdtime meta.Value[uint16] `json:"holdtime,omitzero"`
	// AdvertiseIPv4 is the IPv4 route sources advertised to OMP
	AdvertiseIPv4 OMPAdvertise `json:"advertiseIpv4"`
	// AdvertiseIPv6 is the IPv6 route sources advertised to OMP
	AdvertiseIPv6 OMPAdvertise `json:"advertiseIpv6"`
	// IgnoreRegionPathLength ignores region path length in the best path selection
	IgnoreRegionPathLength meta.Value[bool] `json:"ignoreRegionPathLength,omitzero"`
	// TransportGateway is the transport gateway path behavior
	TransportGateway meta.Value[OMPTransportGateway] `json:"transportGateway,omitzero"`
}

type OMPTransportGateway string

func (OMPTransportGateway) Choices() []string {
	return []string{"prefer", "ecmp-with-direct-path"}
}

type OMP struct {
	Base `json:",inline"`
	Data OMPData `json:"data"`
}

var _ Parcel = (*OMP)(nil)

func init() {
	register(TypeOMP, func() Parcel { return &OMP{} })
}

func (p *OMP) ParcelType() Type {
	return TypeOMP
}

func (p *OMP) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (a *OMPAdvertise) defaults() {
	a.BGP = a.BGP.OrDefault(false)
	a.OSPF = a.OSPF.OrDefault(false)
	a.OSPFv3 = a.OSPFv3.OrDefault(false)
	a.Connected = a.Connected.OrDefault(true)
	a.Static = a.Static.OrDefault(true)
	a.EIGRP = a.EIGRP.OrDefault(false)
	a.LISP = a.LISP.OrDefault(false)
	a.ISIS = a.ISIS.OrDefault(false)
}

func (p *OMP) Default() {
	p.defaultBase()

	d := &p.Data
	d.GracefulRestart = d.GracefulRestart.OrDefault(true)
	d.SendPathLimit = d.SendPathLimit.OrDefault(4)
	d.ECMPLimit = d.ECMPLimit.OrDefault(4)
	d.Shutdown = d.Shutdown.OrDefault(false)
	d.OMPAdminDistanceIPv4 = d.OMPAdminDistanceIPv4.OrDefault(251)
	d.OMPAdminDistanceIPv6 = d.OMPAdminDistanceIPv6.OrDefault(251)
	d.AdvertisementInterval = d.AdvertisementInterval.OrDefault(1)
	d.GracefulRestartTimer = d.GracefulRestartTimer.OrDefault(43200)
	d.EORTimer = d.EORTimer.OrDefault(300)
	d.Holdtime = d.Holdtime.OrDefault(60)
	d.IgnoreRegionPathLength = d.IgnoreRegionPathLength.OrDefault(false)
	d.TransportGateway = d.TransportGateway.OrDefault("prefer")
	d.AdvertiseIPv4.defaults()
	d.AdvertiseIPv6.defaults()
}

func (p *OMP) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	d := &p.Data
	if err := meta.ValidateRange("overlayAs", d.OverlayAS, 1, 4294967295); err != nil {
		return err
	}
	if err := meta.ValidateRange("sendPathLimit", d.SendPathLimit, 1, 16); err != nil {
		return err
	}
	if err := meta.ValidateRange("ecmpLimit", d.ECMPLimit, 1, 16); err != nil {
		return err
	}
	if err := meta.ValidateRange("ompAdminDistanceIpv4", d.OMPAdminDistanceIPv4, 1, 255); err != nil {
		return err
	}
	if err := meta.ValidateRange("ompAdminDistanceIpv6", d.OMPAdminDistanceIPv6, 1, 255); err != nil {
		return err
	}
	if err := meta.ValidateRange("advertisementInterval", d.AdvertisementInterval, 0, 65535); err != nil {
		return err
	}
	if err := meta.ValidateRange("gracefulRestartTimer", d.GracefulRestartTimer, 1, 604800); err != nil {
		return err
	}
	if err := meta.ValidateRange("holdtime", d.Holdtime, 0, 65535); err != nil {
		return err
	}

	return meta.ValidateChoice("transportGateway", d.TransportGateway)
}
