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

const (
	TransportVPNID  = 0
	ManagementVPNID = 512
)

// RouteGateway is the kind of the static route next hop
type RouteGateway string

const (
	RouteGatewayNextHop RouteGateway = "nextHop"
	RouteGatewayNull0   RouteGateway = "null0"
	RouteGatewayDHCP    RouteGateway = "dhcp"
)

func (RouteGateway) Choices() []string {
	return []string{"nextHop", "null0", "dhcp"}
}

type IPv6RouteGateway string

const (
	IPv6RouteGatewayNextHop IPv6RouteGateway = "nextHop"
	IPv6RouteGatewayNull0   IPv6RouteGateway = "null0"
	IPv6RouteGatewayNAT     IPv6RouteGateway = "nat"
)

func (IPv6RouteGateway) Choices() []string {
	return []string{"nextHop", "null0", "nat"}
}

type DNSIPv4 struct {
	PrimaryDNSAddress   meta.Value[string] `json:"primaryDnsAddressIpv4,omitzero"`
	SecondaryDNSAddress meta.Value[string] `json:"secondaryDnsAddressIpv4,omitzero"`
}

type DNSIPv6 struct {
	PrimaryDNSAddress   meta.Value[string] `json:"primaryDnsAddressIpv6,omitzero"`
	SecondaryDNSAddress meta.Value[string] `json:"secondaryDnsAddressIpv6,omitzero"`
}

type HostMapping struct {
	HostName meta.Value[string]   `json:"hostName,omitzero"`
	ListOfIP meta.Value[[]string] `json:"listOfIp,omitzero"`
}

type NextHop struct {
	Address  meta.Value[string] `json:"address,omitzero"`
	Distance meta.Value[uint8]  `json:"distance,omitzero"`
}

// IPv4Route is the static route, next hops are only allowed with the nextHop gateway
type IPv4Route struct {
	Prefix   Prefix                   `json:"prefix"`
	Gateway  meta.Value[RouteGateway] `json:"gateway,omitzero"`
	NextHop  []NextHop                `json:"nextHop,omitempty"`
	Distance meta.Value[uint8]        `json:"distance,omitzero"`
}

type IPv6NextHop struct {
	Address  meta.Value[string] `json:"address,omitzero"`
	Distance meta.Value[uint8]  `json:"distance,omitzero"`
}

type IPv6Route struct {
	Prefix  meta.Value[string]           `json:"prefix,omitzero"`
	Gateway meta.Value[IPv6RouteGateway] `json:"gateway,omitzero"`
	NextHop []IPv6NextHop                `json:"nextHop,omitempty"`
}

// VPNCommon is the part of the VPN data shared by transport, management and service VPNs
type VPNCommon struct {
	DNSIPv4        DNSIPv4       `json:"dnsIpv4,omitzero"`
	DNSIPv6        DNSIPv6       `json:"dnsIpv6,omitzero"`
	NewHostMapping []HostMapping `json:"newHostMapping,omitempty"`
	IPv4Route      []IPv4Route   `json:"ipv4Route,omitempty"`
	IPv6Route      []IPv6Route   `json:"ipv6Route,omitempty"`
}

func (c *VPNCommon) defaultCommon() {
	for idx := range c.IPv4Route {
		route := &c.IPv4Route[idx]
		if len(route.NextHop) > 0 {
			route.Gateway = route.Gateway.OrDefault(RouteGatewayNextHop)
		} else {
			route.Gateway = route.Gateway.OrDefault(RouteGatewayNull0)
		}
		for nhIdx := range route.NextHop {
			route.NextHop[nhIdx].Distance = route.NextHop[nhIdx].Distance.OrDefault(1)
		}
	}
	for idx := range c.IPv6Route {
		route := &c.IPv6Route[idx]
		if len(route.NextHop) > 0 {
			route.Gateway = route.Gateway.OrDefault(IPv6RouteGatewayNextHop)
		} else {
			route.Gateway = route.Gateway.OrDefault(IPv6RouteGatewayNull0)
		}
	}
}

func (c *VPNCommon) validateCommon() error {
	if err := validateIPv4("dnsIpv4.primaryDnsAddressIpv4", c.DNSIPv4.PrimaryDNSAddress); err != nil {
		return err
	}
	if err := validateIPv4("dnsIpv4.secondaryDnsAddressIpv4", c.DNSIPv4.SecondaryDNSAddress); err != nil {
		return err
	}
	if err := validateIPv6("dnsIpv6.primaryDnsAddressIpv6", c.DNSIPv6.PrimaryDNSAddress); err != nil {
		return err
	}
	if err := validateIPv6("dnsIpv6.secondaryDnsAddressIpv6", c.DNSIPv6.SecondaryDNSAddress); err != nil {
		return err
	}

	for idx, host := range c.NewHostMapping {
		if err := meta.ValidateRequired("newHostMapping.hostName", host.HostName); err != nil {
			return errors.Wrapf(err, "host mapping %d", idx)
		}
		if err := validateIPv4List("newHostMapping.listOfIp", host.ListOfIP); err != nil {
			return errors.Wrapf(err, "host mapping %d", idx)
		}
	}

	for idx, route := range c.IPv4Route {
		if err := route.Prefix.Validate("ipv4Route.prefix"); err != nil {
			return errors.Wrapf(err, "ipv4 route %d", idx)
		}
		if err := meta.ValidateChoice("ipv4Route.gateway", route.Gateway); err != nil {
			return errors.Wrapf(err, "ipv4 route %d", idx)
		}

		gw, _ := route.Gateway.Get()
		if gw == RouteGatewayNextHop && len(route.NextHop) == 0 {
			return errors.Errorf("ipv4 route %d: next hop is required for gateway %s", idx, gw)
		}
		if gw != RouteGatewayNextHop && len(route.NextHop) > 0 {
			return errors.Errorf("ipv4 route %d: next hop isn't allowed for gateway %s", idx, gw)
		}
		for nhIdx, nh := range route.NextHop {
			if err := meta.ValidateRequired("nextHop.address", nh.Address); err != nil {
				return errors.Wrapf(err, "ipv4 route %d next hop %d", idx, nhIdx)
			}
			if err := validateIPv4("nextHop.address", nh.Address); err != nil {
				return errors.Wrapf(err, "ipv4 route %d next hop %d", idx, nhIdx)
			}
			if err := meta.ValidateRange("nextHop.distance", nh.Distance, 1, 255); err != nil {
				return errors.Wrapf(err, "ipv4 route %d next hop %d", idx, nhIdx)
			}
		}
	}

	for idx, route := range c.IPv6Route {
		if err := meta.ValidateRequired("ipv6Route.prefix", route.Prefix); err != nil {
			return errors.Wrapf(err, "ipv6 route %d", idx)
		}
		if err := meta.ValidateChoice("ipv6Route.gateway", route.Gateway); err != nil {
			return errors.Wrapf(err, "ipv6 route %d", idx)
		}
		for nhIdx, nh := range route.NextHop {
			if err := validateIPv6("nextHop.address", nh.Address); err != nil {
				return errors.Wrapf(err, "ipv6 route %d next hop %d", idx, nhIdx)
			}
		}
	}

	return nil
}

// TransportVPNData defines the transport VPN (VPN 0)
type TransportVPNData struct {
	VPNCommon `json:",inline"`

	EnhanceECMPKeying meta.Value[bool] `json:"enhanceEcmpKeying,omitzero"`
}

type TransportVPN struct {
	Base `json:",inline"`
	Data TransportVPNData `json:"data"`
}

var _ Parcel = (*TransportVPN)(nil)

func init() {
	register(TypeTransportVPN, func() Parcel { return &TransportVPN{} })
}

func (p *TransportVPN) ParcelType() Type {
	return TypeTransportVPN
}

func (p *TransportVPN) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeTransport}
}

func (p *TransportVPN) Default() {
	p.defaultBase()
	p.Data.defaultCommon()

	p.Data.EnhanceECMPKeying = p.Data.EnhanceECMPKeying.OrDefault(false)
}

func (p *TransportVPN) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	return p.Data.validateCommon()
}

// ManagementVPNData defines the out of band management VPN (VPN 512)
type ManagementVPNData struct {
	VPNCommon `json:",inline"`

	Name meta.Value[string] `json:"vpnName,omitzero"`
}

type ManagementVPN struct {
	Base `json:",inline"`
	Data ManagementVPNData `json:"data"`
}

var _ Parcel = (*ManagementVPN)(nil)

func init() {
	register(TypeManagementVPN, func() Parcel { return &ManagementVPN{} })
}

func (p *ManagementVPN) ParcelType() Type {
	return TypeManagementVPN
}

func (p *ManagementVPN) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeTransport}
}

func (p *ManagementVPN) Default() {
	p.defaultBase()
	p.Data.defaultCommon()
}

func (p *ManagementVPN) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	return p.Data.validateCommon()
}

// ServiceVPNData defines the service side (LAN) VPN
type ServiceVPNData struct {
	VPNCommon `json:",inline"`

	VPNID                meta.Value[uint16] `json:"vpnId,omitzero"`
	Name                 meta.Value[string] `json:"name,omitzero"`
	OMPAdminDistance     meta.Value[uint8]  `json:"ompAdminDistance,omitzero"`
	OMPAdminDistanceIPv6 meta.Value[uint8]  `json:"ompAdminDistanceIpv6,omitzero"`
}

type ServiceVPN struct {
	Base `json:",inline"`
	Data ServiceVPNData `json:"data"`
}

var _ Parcel = (*ServiceVPN)(nil)

func init() {
	register(TypeServiceVPN, func() Parcel { return &ServiceVPN{} })
}

func (p *ServiceVPN) ParcelType() Type {
	return TypeServiceVPN
}

func (p *ServiceVPN) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeService}
}

func (p *ServiceVPN) Default() {
	p.defaultBase()
	p.Data.defaultCommon()
}

func (p *ServiceVPN) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	if err := meta.ValidateRequired("vpnId", p.Data.VPNID); err != nil {
		return err
	}
	if id, ok := p.Data.VPNID.Get(); ok && (id == TransportVPNID || id == ManagementVPNID || id > 65527) {
		return errors.Errorf("vpnId: %d is not allowed for the service VPN", id)
	}
	if err := meta.ValidateRange("ompAdminDistance", p.Data.OMPAdminDistance, 1, 255); err != nil {
		return err
	}
	if err := meta.ValidateRange("ompAdminDistanceIpv6", p.Data.OMPAdminDistanceIPv6, 1, 255); err != nil {
		return err
	}

	return p.Data.validateCommon()
}
