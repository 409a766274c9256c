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
)

func init() {
	register(vpnConverter{})
}

// VPNID returns the VPN id of the VPN template values, false if it's missing or a device variable
func VPNID(vals *Values) (int, bool) {
	raw, ok := vals.Get("vpn-id")
	if !ok {
		return 0, false
	}

	id, err := CastInteger[int](raw)

	return id, err == nil
}

// TemplateVPNID returns the VPN id of the VPN feature template, see VPNID
func TemplateVPNID(tmpl *ftapi.FeatureTemplate) (int, bool) {
	if tmpl.TemplateType != ftapi.TemplateTypeVPN {
		return 0, false
	}

	raw, err := tmpl.Values()
	if err != nil {
		return 0, false
	}

	return VPNID(NewValues(raw))
}

type vpnConverter struct{}

func (vpnConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeVPN}
}

// Convert picks the parcel by the VPN id: transport for 0, management for 512 and service for the rest including
// VPN id provided by the device variable
func (vpnConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	id, known := VPNID(vals)
	if !known && vals.IsVariable("vpn-id") {
		vals.Issuef("vpn-id", "device variable, assuming service VPN")
	}

	common := vpnCommon(vals)

	switch {
	case known && id == parcelapi.TransportVPNID:
		vals.Consume("vpn-id", "name")

		p := &parcelapi.TransportVPN{}
		p.Data.VPNCommon = common
		p.Data.EnhanceECMPKeying = vals.Bool("ecmp-hash-key/layer4")

		return p, nil
	case known && id == parcelapi.ManagementVPNID:
		vals.Consume("vpn-id")

		p := &parcelapi.ManagementVPN{}
		p.Data.VPNCommon = common
		p.Data.Name = vals.String("name")

		return p, nil
	default:
		p := &parcelapi.ServiceVPN{}
		p.Data.VPNCommon = common
		p.Data.VPNID = Lookup[uint16](vals, "vpn-id")
		p.Data.Name = vals.String("name")
		p.Data.OMPAdminDistance = Lookup[uint8](vals, "omp-admin-distance-ipv4")
		p.Data.OMPAdminDistanceIPv6 = Lookup[uint8](vals, "omp-admin-distance-ipv6")

		return p, nil
	}
}

func vpnCommon(vals *Values) parcelapi.VPNCommon {
	res := parcelapi.VPNCommon{}

	res.DNSIPv4.PrimaryDNSAddress, res.DNSIPv4.SecondaryDNSAddress = dnsServers(vals.List("dns"))
	res.DNSIPv6.PrimaryDNSAddress, res.DNSIPv6.SecondaryDNSAddress = dnsServers(vals.List("dns-ipv6"))

	for _, host := range vals.List("host") {
		res.NewHostMapping = append(res.NewHostMapping, parcelapi.HostMapping{
			HostName: host.String("hostname"),
			ListOfIP: host.Strings("ip"),
		})
	}

	for _, route := range vals.List("ip/route") {
		prefix := popPrefix(route, "prefix", "address", "mask")
		if !prefixSet(prefix) {
			route.Issuef("prefix", "route without prefix dropped")
			route.ConsumeAll()

			continue
		}

		r := parcelapi.IPv4Route{Prefix: prefix}
		for _, nh := range route.List("next-hop") {
			r.NextHop = append(r.NextHop, parcelapi.NextHop{
				Address:  nh.String("address"),
				Distance: Lookup[uint8](nh, "distance"),
			})
		}

		null0, _ := route.Bool("null0").Get()
		switch {
		case len(r.NextHop) > 0:
			r.Gateway = meta.Global(parcelapi.RouteGatewayNextHop)
		case null0:
			r.Gateway = meta.Global(parcelapi.RouteGatewayNull0)
			r.Distance = Lookup[uint8](route, "distance")
		case route.Has("dhcp"):
			route.Consume("dhcp")
			r.Gateway = meta.Global(parcelapi.RouteGatewayDHCP)
		default:
			route.Issuef("prefix", "route without next hop dropped")
			route.ConsumeAll()

			continue
		}

		res.IPv4Route = append(res.IPv4Route, r)
	}

	for _, route := range vals.List("ipv6/route") {
		r := parcelapi.IPv6Route{Prefix: route.String("prefix")}
		for _, nh := range route.List("next-hop") {
			r.NextHop = append(r.NextHop, parcelapi.IPv6NextHop{
				Address:  nh.String("address"),
				Distance: Lookup[uint8](nh, "distance"),
			})
		}

		null0, _ := route.Bool("null0").Get()
		switch {
		case len(r.NextHop) > 0:
			r.Gateway = meta.Global(parcelapi.IPv6RouteGatewayNextHop)
		case null0:
			r.Gateway = meta.Global(parcelapi.IPv6RouteGatewayNull0)
		case route.Has("nat"):
			route.Consume("nat")
			r.Gateway = meta.Global(parcelapi.IPv6RouteGatewayNAT)
		}

		res.IPv6Route = append(res.IPv6Route, r)
	}

	return res
}

// dnsServers returns primary and secondary DNS servers, servers without role are primary then secondary in order
func dnsServers(items []*Values) (meta.Value[string], meta.Value[string]) {
	var primary, secondary meta.Value[string]

	for idx, item := range items {
		addr := item.String("dns-addr", "address")
		role, _ := item.String("role").Get()

		switch {
		case role == "primary" || role == "" && idx == 0:
			primary = addr
		case role == "secondary" || role == "" && idx == 1:
			secondary = addr
		default:
			item.Issuef("dns-addr", "only primary and secondary DNS servers are supported")
		}
	}

	return primary, secondary
}
