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

package convert

import (
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
	"go.githedgehog.com/catalystwan/pkg/util/iputil"
)

func init() {
	register(interfaceConverter{})
}

type interfaceConverter struct{}

func (interfaceConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeVPNInterface}
}

// Convert picks the parcel by the parent VPN id from the context, if it's unknown the interface with the tunnel
// configured is considered WAN one and the rest are LAN ones
func (interfaceConverter) Convert(ctx *Context, vals *Values) (parcelapi.Parcel, error) {
	vpn, known := ctx.parentVPN()
	if !known {
		vpn = -1
		if vals.Has("tunnel-interface") {
			vpn = parcelapi.TransportVPNID
		}
	}

	common := interfaceCommon(vals)

	switch vpn {
	case parcelapi.TransportVPNID:
		return wanInterface(vals, common), nil
	case parcelapi.ManagementVPNID:
		p := &parcelapi.ManagementInterface{}
		p.Data.InterfaceCommon = common
		p.Data.ARPTimeout = Lookup[uint32](vals, "arp-timeout")

		return p, nil
	default:
		p := &parcelapi.LANInterface{}
		p.Data.InterfaceCommon = common
		p.Data.DHCPHelper = vals.Strings("dhcp-helper")

		for _, arp := range vals.List("arp/ip") {
			p.Data.ARP = append(p.Data.ARP, parcelapi.ARPEntry{
				IPAddress:  arp.String("addr"),
				MACAddress: arp.String("mac"),
			})
		}

		for _, vrrp := range vals.List("vrrp") {
			p.Data.VRRP = append(p.Data.VRRP, parcelapi.VRRPGroup{
				GroupID:   Lookup[uint8](vrrp, "grp-id"),
				Priority:  Lookup[uint8](vrrp, "priority"),
				Timer:     Lookup[uint32](vrrp, "timer"),
				TrackOMP:  vrrp.Bool("track-omp"),
				IPAddress: vrrp.String("ipv4/address", "address"),
			})
		}

		return p, nil
	}
}

func interfaceCommon(vals *Values) parcelapi.InterfaceCommon {
	res := parcelapi.InterfaceCommon{
		Shutdown:      vals.Bool("shutdown"),
		InterfaceName: vals.String("if-name"),
		Description:   vals.String("description"),
		MTU:           Lookup[uint16](vals, "intrf-mtu"),
		IPMTU:         Lookup[uint16](vals, "mtu"),
		TCPMSS:        Lookup[uint16](vals, "tcp-mss-adjust"),
		MACAddress:    vals.String("mac-address"),
	}

	if raw, ok := vals.Pop("ip/address"); ok {
		addr, mask := splitAddr(vals, "ip/address", raw, iputil.AddressAndMask)
		static := &parcelapi.StaticIPv4{
			Primary: parcelapi.StaticIPv4Address{IPAddress: addr, SubnetMask: mask},
		}

		for _, sec := range vals.List("ip/secondary-address") {
			raw, ok := sec.Pop("address")
			if !ok {
				continue
			}

			addr, mask := splitAddr(sec, "address", raw, iputil.AddressAndMask)
			static.Secondary = append(static.Secondary, parcelapi.StaticIPv4Address{IPAddress: addr, SubnetMask: mask})
		}

		res.IntfIPAddress.Static = static
	}

	dhcp := vals.Bool("ip/dhcp-client", "dhcp-client")
	distance := Lookup[uint8](vals, "ip/dhcp-distance", "dhcp-distance")
	if enabled, _ := dhcp.Get(); enabled || dhcp.IsVariable() {
		// static and dynamic addresses are mutually exclusive, explicit static address wins
		if res.IntfIPAddress.Static != nil {
			vals.Issuef("ip/dhcp-client", "DHCP client dropped in favor of static address")

			return res
		}

		if dhcp.IsVariable() {
			vals.Issuef("ip/dhcp-client", "device variable isn't supported, DHCP client enabled")
		}

		res.IntfIPAddress.Dynamic = &parcelapi.DynamicIPv4{DHCPDistance: distance}
	}

	return res
}

var allowServices = map[string]func(*parcelapi.AllowService) *meta.Value[bool]{
	"all":     func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.All },
	"bgp":     func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.BGP },
	"dhcp":    func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.DHCP },
	"ntp":     func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.NTP },
	"sshd":    func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.SSH },
	"dns":     func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.DNS },
	"icmp":    func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.ICMP },
	"https":   func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.HTTPS },
	"ospf":    func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.OSPF },
	"stun":    func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.STUN },
	"snmp":    func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.SNMP },
	"netconf": func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.Netconf },
	"bfd":     func(s *parcelapi.AllowService) *meta.Value[bool] { return &s.BFD },
}

func wanInterface(vals *Values, common parcelapi.InterfaceCommon) *parcelapi.WANInterface {
	p := &parcelapi.WANInterface{}
	p.Data.InterfaceCommon = common
	p.Data.Bandwidth.Upstream = Lookup[uint32](vals, "bandwidth-upstream")
	p.Data.Bandwidth.Downstream = Lookup[uint32](vals, "bandwidth-downstream")
	p.Data.AutoDetectBandwidth = vals.Bool("auto-detect-bandwidth")

	if vals.Has("nat") {
		p.Data.NAT = meta.Global(true)
		vals.Consume("nat")
	}

	if !vals.Has("tunnel-interface") {
		return p
	}

	tun := vals.Sub("tunnel-interface")
	p.Data.TunnelInterface = meta.Global(true)

	t := &p.Data.Tunnel
	t.PerTunnelQoS = tun.Bool("per-tunnel-qos")
	t.Color = Lookup[parcelapi.Color](tun, "color/value")
	t.Restrict = tun.Bool("color/restrict")
	t.Group = Lookup[uint32](tun, "group")
	t.Border = tun.Bool("border")
	t.MaxControlConnections = Lookup[uint8](tun, "max-control-connections")
	t.VBondAsStunServer = tun.Bool("vbond-as-stun-server")
	t.ExcludeControllerGroupList = Lookup[[]uint32](tun, "exclude-controller-group-list")
	t.VManageConnectionPreference = Lookup[uint8](tun, "vmanage-connection-preference")
	t.PortHop = tun.Bool("port-hop")
	t.LowBandwidthLink = tun.Bool("low-bandwidth-link")
	t.TunnelTCPMSS = Lookup[uint16](tun, "tunnel-tcp-mss-adjust")
	t.ClearDontFragment = tun.Bool("clear-dont-fragment")
	t.NetworkBroadcast = tun.Bool("network-broadcast")
	t.Carrier = Lookup[parcelapi.Carrier](tun, "carrier")
	t.BindLoopbackTunnel = tun.String("bind")
	t.LastResortCircuit = tun.Bool("last-resort-circuit")
	t.HelloInterval = Lookup[uint32](tun, "hello-interval")
	t.HelloTolerance = Lookup[uint16](tun, "hello-tolerance")
	t.NATRefreshInterval = Lookup[uint8](tun, "nat-refresh-interval")

	services := tun.Sub("allow-service")
	for name, field := range allowServices {
		if val := services.Bool(name); !val.IsZero() {
			*field(&p.Data.AllowService) = val
		}
	}

	for _, encap := range tun.List("encapsulation") {
		p.Data.Encapsulation = append(p.Data.Encapsulation, parcelapi.Encapsulation{
			Encap:      Lookup[parcelapi.EncapType](encap, "encap"),
			Preference: Lookup[uint32](encap, "preference"),
			Weight:     Lookup[uint8](encap, "weight"),
		})
	}

	return p
}
