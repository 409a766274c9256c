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
	"go.githedgehog.com/catalystwan/pkg/util/iputil"
)

type StaticIPv4Address struct {
	IPAddress  meta.Value[string] `json:"ipAddress,omitzero"`
	SubnetMask meta.Value[string] `json:"subnetMask,omitzero"`
}

func (a *StaticIPv4Address) Validate(field string) error {
	if err := meta.ValidateRequired(field+".ipAddress", a.IPAddress); err != nil {
		return err
	}
	if err := validateIPv4(field+".ipAddress", a.IPAddress); err != nil {
		return err
	}
	if mask, ok := a.SubnetMask.Get(); ok && !iputil.IsIPv4Mask(mask) {
		return errors.Errorf("%s.subnetMask: %q is not a valid mask", field, mask)
	}

	return nil
}

type StaticIPv4 struct {
	Primary   StaticIPv4Address   `json:"staticIpV4AddressPrimary"`
	Secondary []StaticIPv4Address `json:"staticIpV4AddressSecondary,omitempty"`
}

type DynamicIPv4 struct {
	DHCPDistance meta.Value[uint8] `json:"dynamicDhcpDistance,omitzero"`
}

// InterfaceIPv4Address is either static or dynamic (DHCP client) address, exactly one should be set
type InterfaceIPv4Address struct {
	Static  *StaticIPv4  `json:"staticConfig,omitempty"`
	Dynamic *DynamicIPv4 `json:"dynamic,omitempty"`
}

func (a InterfaceIPv4Address) IsZero() bool {
	return a.Static == nil && a.Dynamic == nil
}

func (a InterfaceIPv4Address) Validate() error {
	if a.Static != nil && a.Dynamic != nil {
		return errors.New("intfIpAddress: static and dynamic are mutually exclusive")
	}

	if a.Static != nil {
		if err := a.Static.Primary.Validate("intfIpAddress.staticIpV4AddressPrimary"); err != nil {
			return err
		}
		for idx, sec := range a.Static.Secondary {
			if err := sec.Validate("intfIpAddress.staticIpV4AddressSecondary"); err != nil {
				return errors.Wrapf(err, "secondary address %d", idx)
			}
		}
	}

	if a.Dynamic != nil {
		if err := meta.ValidateRange("intfIpAddress.dynamicDhcpDistance", a.Dynamic.DHCPDistance, 1, 255); err != nil {
			return err
		}
	}

	return nil
}

// InterfaceCommon is the part of the ethernet interface data shared by all VPN kinds
type InterfaceCommon struct {
	Shutdown      meta.Value[bool]     `json:"shutdown,omitzero"`
	InterfaceName meta.Value[string]   `json:"interfaceName,omitzero"`
	Description   meta.Value[string]   `json:"description,omitzero"`
	IntfIPAddress InterfaceIPv4Address `json:"intfIpAddress,omitzero"`
	MTU           meta.Value[uint16]   `json:"mtu,omitzero"`
	IPMTU         meta.Value[uint16]   `json:"ipMtu,omitzero"`
	TCPMSS        meta.Value[uint16]   `json:"tcpMss,omitzero"`
	MACAddress    meta.Value[string]   `json:"macAddress,omitzero"`
}

func (c *InterfaceCommon) defaultCommon() {
	c.Shutdown = c.Shutdown.OrDefault(false)
	c.MTU = c.MTU.OrDefault(1500)
	if c.IntfIPAddress.Dynamic != nil {
		c.IntfIPAddress.Dynamic.DHCPDistance = c.IntfIPAddress.Dynamic.DHCPDistance.OrDefault(1)
	}
}

func (c *InterfaceCommon) validateCommon() error {
	if err := meta.ValidateRequired("interfaceName", c.InterfaceName); err != nil {
		return err
	}
	if err := c.IntfIPAddress.Validate(); err != nil {
		return err
	}
	if err := meta.ValidateRange("mtu", c.MTU, 1500, 9216); err != nil {
		return err
	}
	if err := meta.ValidateRange("ipMtu", c.IPMTU, 576, 9216); err != nil {
		return err
	}

	return meta.ValidateRange("tcpMss", c.TCPMSS, 500, 1460)
}

type Carrier string

func (Carrier) Choices() []string {
	return []string{
		"default", "carrier1", "carrier2", "carrier3", "carrier4",
		"carrier5", "carrier6", "carrier7", "carrier8",
	}
}

// Tunnel is the SD-WAN tunnel interface settings of the WAN interface
type Tunnel struct {
	PerTunnelQoS                meta.Value[bool]     `json:"perTunnelQos,omitzero"`
	Color                       meta.Value[Color]    `json:"color,omitzero"`
	Restrict                    meta.Value[bool]     `json:"mode,omitzero"`
	Group                       meta.Value[uint32]   `json:"group,omitzero"`
	Border                      meta.Value[bool]     `json:"border,omitzero"`
	MaxControlConnections       meta.Value[uint8]    `json:"maxControlConnections,omitzero"`
	VBondAsStunServer           meta.Value[bool]     `json:"vBondAsStunServer,omitzero"`
	ExcludeControllerGroupList  meta.Value[[]uint32] `json:"excludeControllerGroupList,omitzero"`
	VManageConnectionPreference meta.Value[uint8]    `json:"vManageConnectionPreference,omitzero"`
	PortHop                     meta.Value[bool]     `json:"portHop,omitzero"`
	LowBandwidthLink            meta.Value[bool]     `json:"lowBandwidthLink,omitzero"`
	TunnelTCPMSS                meta.Value[uint16]   `json:"tunnelTcpMss,omitzero"`
	ClearDontFragment           meta.Value[bool]     `json:"clearDontFragment,omitzero"`
	NetworkBroadcast            meta.Value[bool]     `json:"networkBroadcast,omitzero"`
	Carrier                     meta.Value[Carrier]  `json:"carrier,omitzero"`
	BindLoopbackTunnel          meta.Value[string]   `json:"bind,omitzero"`
	LastResortCircuit           meta.Value[bool]     `json:"lastResortCircuit,omitzero"`
	HelloInterval               meta.Value[uint32]   `json:"helloInterval,omitzero"`
	HelloTolerance              meta.Value[uint16]   `json:"helloTolerance,omitzero"`
	NATRefreshInterval          meta.Value[uint8]    `json:"natRefreshInterval,omitzero"`
}

// AllowService is the set of services allowed on the tunnel interface
type AllowService struct {
	All     meta.Value[bool] `json:"all,omitzero"`
	BGP     meta.Value[bool] `json:"bgp,omitzero"`
	DHCP    meta.Value[bool] `json:"dhcp,omitzero"`
	NTP     meta.Value[bool] `json:"ntp,omitzero"`
	SSH     meta.Value[bool] `json:"ssh,omitzero"`
	DNS     meta.Value[bool] `json:"dns,omitzero"`
	ICMP    meta.Value[bool] `json:"icmp,omitzero"`
	HTTPS   meta.Value[bool] `json:"https,omitzero"`
	OSPF    meta.Value[bool] `json:"ospf,omitzero"`
	STUN    meta.Value[bool] `json:"stun,omitzero"`
	SNMP    meta.Value[bool] `json:"snmp,omitzero"`
	Netconf meta.Value[bool] `json:"netconf,omitzero"`
	BFD     meta.Value[bool] `json:"bfd,omitzero"`
}

type EncapType string

const (
	EncapGRE   EncapType = "gre"
	EncapIPsec EncapType = "ipsec"
)

func (EncapType) Choices() []string {
	return []string{"gre", "ipsec"}
}

type Encapsulation struct {
	Encap      meta.Value[EncapType] `json:"encap,omitzero"`
	Preference meta.Value[uint32]    `json:"preference,omitzero"`
	Weight     meta.Value[uint8]     `json:"weight,omitzero"`
}

type Bandwidth struct {
	Upstream   meta.Value[uint32] `json:"bandwidthUpstream,omitzero"`
	Downstream meta.Value[uint32] `json:"bandwidthDownstream,omitzero"`
}

// WANInterfaceData defines the transport VPN ethernet interface
type WANInterfaceData struct {
	InterfaceCommon `json:",inline"`

	// TunnelInterface marks the interface as the SD-WAN transport
	TunnelInterface meta.Value[bool] `json:"tunnelInterface,omitzero"`
	Tunnel          Tunnel           `json:"tunnel,omitzero"`
	AllowService    AllowService     `json:"allowService,omitzero"`
	Encapsulation   []Encapsulation  `json:"encapsulation,omitempty"`
	NAT             meta.Value[bool] `json:"nat,omitzero"`
	Bandwidth       Bandwidth        `json:"bandwidth,omitzero"`
	// AutoDetectBandwidth measures the link bandwidth
	AutoDetectBandwidth meta.Value[bool] `json:"autoDetectBandwidth,omitzero"`
}

type WANInterface struct {
	Base `json:",inline"`
	Data WANInterfaceData `json:"data"`
}

var _ SubParcel = (*WANInterface)(nil)

func init() {
	register(TypeTransportInterfaceEthernet, func() Parcel { return &WANInterface{} })
}

func (p *WANInterface) ParcelType() Type {
	return TypeTransportInterfaceEthernet
}

func (p *WANInterface) ParentType() Type {
	return TypeTransportVPN
}

func (p *WANInterface) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeTransport}
}

func (p *WANInterface) Default() {
	p.defaultBase()
	p.Data.defaultCommon()

	p.Data.TunnelInterface = p.Data.TunnelInterface.OrDefault(false)
	p.Data.NAT = p.Data.NAT.OrDefault(false)

	if tunnel, _ := p.Data.TunnelInterface.Get(); tunnel {
		t := &p.Data.Tunnel
		t.Color = t.Color.OrDefault(ColorDefault)
		t.Restrict = t.Restrict.OrDefault(false)
		t.Border = t.Border.OrDefault(false)
		t.MaxControlConnections = t.MaxControlConnections.OrDefault(2)
		t.VManageConnectionPreference = t.VManageConnectionPreference.OrDefault(5)
		t.PortHop = t.PortHop.OrDefault(true)
		t.LowBandwidthLink = t.LowBandwidthLink.OrDefault(false)
		t.Carrier = t.Carrier.OrDefault("default")
		t.LastResortCircuit = t.LastResortCircuit.OrDefault(false)
		t.HelloInterval = t.HelloInterval.OrDefault(1000)
		t.HelloTolerance = t.HelloTolerance.OrDefault(12)
		t.NATRefreshInterval = t.NATRefreshInterval.OrDefault(5)

		s := &p.Data.AllowService
		s.All = s.All.OrDefault(false)
		s.DHCP = s.DHCP.OrDefault(true)
		s.DNS = s.DNS.OrDefault(true)
		s.ICMP = s.ICMP.OrDefault(true)
		s.HTTPS = s.HTTPS.OrDefault(true)
		s.NTP = s.NTP.OrDefault(true)

		if len(p.Data.Encapsulation) == 0 {
			p.Data.Encapsulation = []Encapsulation{{Encap: meta.Global(EncapIPsec)}}
		}
	}

	for idx := range p.Data.Encapsulation {
		encap := &p.Data.Encapsulation[idx]
		encap.Preference = encap.Preference.OrDefault(0)
		encap.Weight = encap.Weight.OrDefault(1)
	}
}

func (p *WANInterface) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}
	if err := p.Data.validateCommon(); err != nil {
		return err
	}

	tunnel, _ := p.Data.TunnelInterface.Get()
	if !tunnel && len(p.Data.Encapsulation) > 0 {
		return errors.New("encapsulation requires tunnel interface")
	}
	if err := meta.ValidateChoice("tunnel.color", p.Data.Tunnel.Color); err != nil {
		return err
	}
	if err := meta.ValidateChoice("tunnel.carrier", p.Data.Tunnel.Carrier); err != nil {
		return err
	}
	if err := meta.ValidateRange("tunnel.vManageConnectionPreference", p.Data.Tunnel.VManageConnectionPreference, 0, 8); err != nil {
		return err
	}

	seen := map[EncapType]bool{}
	for idx, encap := range p.Data.Encapsulation {
		if err := meta.ValidateRequired("encapsulation.encap", encap.Encap); err != nil {
			return errors.Wrapf(err, "encapsulation %d", idx)
		}
		if err := meta.ValidateChoice("encapsulation.encap", encap.Encap); err != nil {
			return errors.Wrapf(err, "encapsulation %d", idx)
		}
		if val, ok := encap.Encap.Get(); ok {
			if seen[val] {
				return errors.Errorf("encapsulation %d: duplicate %s", idx, val)
			}
			seen[val] = true
		}
	}

	return nil
}

// ManagementInterfaceData defines the management VPN ethernet interface
type ManagementInterfaceData struct {
	InterfaceCommon `json:",inline"`

	ARPTimeout meta.Value[uint32] `json:"arpTimeout,omitzero"`
}

type ManagementInterface struct {
	Base `json:",inline"`
	Data ManagementInterfaceData `json:"data"`
}

var _ SubParcel = (*ManagementInterface)(nil)

func init() {
	register(TypeManagementInterface, func() Parcel { return &ManagementInterface{} })
}

func (p *ManagementInterface) ParcelType() Type {
	return TypeManagementInterface
}

func (p *ManagementInterface) ParentType() Type {
	return TypeManagementVPN
}

func (p *ManagementInterface) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeTransport}
}

func (p *ManagementInterface) Default() {
	p.defaultBase()
	p.Data.defaultCommon()

	p.Data.ARPTimeout = p.Data.ARPTimeout.OrDefault(1200)
}

func (p *ManagementInterface) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	return p.Data.validateCommon()
}

type ARPEntry struct {
	IPAddress  meta.Value[string] `json:"ipAddress,omitzero"`
	MACAddress meta.Value[string] `json:"macAddress,omitzero"`
}

type VRRPGroup struct {
	GroupID   meta.Value[uint8]  `json:"groupId,omitzero"`
	Priority  meta.Value[uint8]  `json:"priority,omitzero"`
	Timer     meta.Value[uint32] `json:"timer,omitzero"`
	TrackOMP  meta.Value[bool]   `json:"trackOmp,omitzero"`
	IPAddress meta.Value[string] `json:"ipAddress,omitzero"`
}

// LANInterfaceData defines the service VPN ethernet interface
type LANInterfaceData struct {
	InterfaceCommon `json:",inline"`

	DHCPHelper meta.Value[[]string] `json:"dhcpHelper,omitzero"`
	ARP        []ARPEntry           `json:"arp,omitempty"`
	VRRP       []VRRPGroup          `json:"vrrp,omitempty"`
}

type LANInterface struct {
	Base `json:",inline"`
	Data LANInterfaceData `json:"data"`
}

var _ SubParcel = (*LANInterface)(nil)

func init() {
	register(TypeServiceInterfaceEthernet, func() Parcel { return &LANInterface{} })
}

func (p *LANInterface) ParcelType() Type {
	return TypeServiceInterfaceEthernet
}

func (p *LANInterface) ParentType() Type {
	return TypeServiceVPN
}

func (p *LANInterface) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeService}
}

func (p *LANInterface) Default() {
	p.defaultBase()
	p.Data.defaultCommon()

	for idx := range p.Data.VRRP {
		vrrp := &p.Data.VRRP[idx]
		vrrp.Priority = vrrp.Priority.OrDefault(100)
		vrrp.Timer = vrrp.Timer.OrDefault(1000)
		vrrp.TrackOMP = vrrp.TrackOMP.OrDefault(false)
	}
}

func (p *LANInterface) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}
	if err := p.Data.validateCommon(); err != nil {
		return err
	}
	if err := validateIPv4List("dhcpHelper", p.Data.DHCPHelper); err != nil {
		return err
	}

	for idx, arp := range p.Data.ARP {
		if err := meta.ValidateRequired("arp.ipAddress", arp.IPAddress); err != nil {
			return errors.Wrapf(err, "arp %d", idx)
		}
		if err := validateIPv4("arp.ipAddress", arp.IPAddress); err != nil {
			return errors.Wrapf(err, "arp %d", idx)
		}
	}

	for idx, vrrp := range p.Data.VRRP {
		if err := meta.ValidateRange("vrrp.groupId", vrrp.GroupID, 1, 255); err != nil {
			return errors.Wrapf(err, "vrrp %d", idx)
		}
		if err := meta.ValidateRange("vrrp.priority", vrrp.Priority, 1, 254); err != nil {
			return errors.Wrapf(err, "vrrp %d", idx)
		}
		if err := validateIPv4("vrrp.ipAddress", vrrp.IPAddress); err != nil {
			return errors.Wrapf(err, "vrrp %d", idx)
		}
	}

	return nil
}
