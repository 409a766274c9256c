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
	register(bgpConverter{})
	register(ospfConverter{})
}

func redistribute(items []*Values) []parcelapi.Redistribute {
	res := []parcelapi.Redistribute{}
	for _, item := range items {
		res = append(res, parcelapi.Redistribute{
			Protocol:    Lookup[parcelapi.RedistributeProtocol](item, "protocol"),
			RoutePolicy: item.String("route-policy"),
		})
	}
	if len(res) == 0 {
		return nil
	}

	return res
}

type bgpConverter struct{}

func (bgpConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeBGP}
}

func (bgpConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	b := vals.Sub("bgp")

	p := &parcelapi.BGP{}
	d := &p.Data
	d.ASNum = Lookup[uint32](b, "as-num")
	d.Shutdown = b.Bool("shutdown")
	d.RouterID = b.String("router-id")
	d.PropagateASPath = b.Bool("propagate-aspath")
	d.PropagateCommunity = b.Bool("propagate-community")
	d.ExternalDistance = Lookup[uint8](b, "distance/external")
	d.InternalDistance = Lookup[uint8](b, "distance/internal")
	d.LocalDistance = Lookup[uint8](b, "distance/local")
	d.Keepalive = Lookup[uint16](b, "timers/keepalive")
	d.Holdtime = Lookup[uint16](b, "timers/holdtime")
	d.AlwaysCompare = b.Bool("best-path/med/always-compare")
	d.Deterministic = b.Bool("best-path/med/deterministic")
	d.MissingAsWorst = b.Bool("best-path/med/missing-as-worst")
	d.CompareRouterID = b.Bool("best-path/compare-router-id")
	d.MultipathRelax = b.Bool("best-path/as-path/multipath-relax")
	d.Neighbor = bgpNeighbors(b.List("neighbor"))
	d.IPv6Neighbor = bgpNeighbors(b.List("ipv6-neighbor"))

	for _, af := range b.List("address-family") {
		family, _ := Lookup[parcelapi.BGPFamilyType](af, "family-type").Get()

		switch family {
		case "ipv4-unicast":
			d.AddressFamily = bgpAddressFamily(af)
		case "ipv6-unicast":
			d.IPv6AddressFamily = bgpIPv6AddressFamily(af)
		default:
			af.Issuef("family-type", "address family %q isn't supported", family)
			af.ConsumeAll()
		}
	}

	return p, nil
}

func bgpNeighbors(items []*Values) []parcelapi.BGPNeighbor {
	res := []parcelapi.BGPNeighbor{}
	for _, item := range items {
		n := parcelapi.BGPNeighbor{
			Address:          item.String("address"),
			Description:      item.String("description"),
			Shutdown:         item.Bool("shutdown"),
			RemoteAS:         Lookup[uint32](item, "remote-as"),
			LocalAS:          Lookup[uint32](item, "local-as"),
			Keepalive:        Lookup[uint16](item, "timers/keepalive"),
			Holdtime:         Lookup[uint16](item, "timers/holdtime"),
			IfName:           item.String("update-source/if-name"),
			NextHopSelf:      item.Bool("next-hop-self"),
			SendCommunity:    item.Bool("send-community"),
			SendExtCommunity: item.Bool("send-ext-community"),
			EBGPMultihop:     Lookup[uint8](item, "ebgp-multihop"),
			Password:         item.String("password"),
			SendLabel:        item.Bool("send-label"),
			ASOverride:       item.Bool("as-override"),
			AllowASIn:        Lookup[uint8](item, "allowas-in/as-number"),
		}

		for _, af := range item.List("address-family") {
			naf := parcelapi.BGPNeighborAddressFamily{
				FamilyType:     Lookup[parcelapi.BGPFamilyType](af, "family-type"),
				MaxPrefixLimit: Lookup[uint32](af, "maximum-prefixes/prefix-num"),
			}

			for _, pol := range af.List("route-policy") {
				switch dir, _ := pol.String("direction").Get(); dir {
				case "in":
					naf.InRoutePolicy = pol.String("pol-name")
				case "out":
					naf.OutRoutePolicy = pol.String("pol-name")
				default:
					pol.Issuef("direction", "unknown route policy direction %q", dir)
					pol.ConsumeAll()
				}
			}

			n.AddressFamily = append(n.AddressFamily, naf)
		}

		res = append(res, n)
	}
	if len(res) == 0 {
		return nil
	}

	return res
}

func bgpAddressFamily(af *Values) parcelapi.BGPAddressFamily {
	res := parcelapi.BGPAddressFamily{
		Paths:             Lookup[uint8](af, "maximum-paths/paths"),
		OriginateDefault:  af.Bool("default-information/originate"),
		Redistribute:      redistribute(af.List("redistribute")),
		FilterRoutePolicy: af.String("table-map/name"),
	}

	for _, agg := range af.List("aggregate-address") {
		res.AggregateAddress = append(res.AggregateAddress, parcelapi.BGPAggregateAddress{
			Prefix:      popPrefix(agg, "prefix", "address", "mask"),
			ASSet:       agg.Bool("as-set"),
			SummaryOnly: agg.Bool("summary-only"),
		})
	}

	for _, network := range af.List("network") {
		res.Network = append(res.Network, parcelapi.BGPNetwork{
			Prefix: popPrefix(network, "prefix", "address", "mask"),
		})
	}

	return res
}

func bgpIPv6AddressFamily(af *Values) parcelapi.BGPIPv6AddressFamily {
	res := parcelapi.BGPIPv6AddressFamily{
		Paths:            Lookup[uint8](af, "maximum-paths/paths"),
		OriginateDefault: af.Bool("default-information/originate"),
		Redistribute:     redistribute(af.List("redistribute")),
	}

	for _, agg := range af.List("ipv6-aggregate-address", "aggregate-address") {
		res.AggregateAddress = append(res.AggregateAddress, parcelapi.BGPIPv6AggregateAddress{
			Prefix:      agg.String("prefix"),
			ASSet:       agg.Bool("as-set"),
			SummaryOnly: agg.Bool("summary-only"),
		})
	}

	for _, network := range af.List("ipv6-network", "network") {
		res.Network = append(res.Network, parcelapi.BGPIPv6Network{
			Prefix: network.String("prefix"),
		})
	}

	return res
}

type ospfConverter struct{}

func (ospfConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeOSPF}
}

func (ospfConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	o := vals.Sub("ospf")

	p := &parcelapi.OSPF{}
	d := &p.Data
	d.RouterID = o.String("router-id")
	d.ReferenceBandwidth = Lookup[uint32](o, "auto-cost/reference-bandwidth")
	d.RFC1583 = o.Bool("compatible/rfc1583")
	d.External = Lookup[uint8](o, "distance/external")
	d.InterArea = Lookup[uint8](o, "distance/inter-area")
	d.IntraArea = Lookup[uint8](o, "distance/intra-area")
	d.Delay = Lookup[uint32](o, "timers/spf/delay")
	d.InitialHold = Lookup[uint32](o, "timers/spf/initial-hold")
	d.MaxHold = Lookup[uint32](o, "timers/spf/max-hold")
	d.Redistribute = redistribute(o.List("redistribute"))

	// originate is either the flag or the container with the details
	if raw, ok := o.Get("default-information/originate"); ok {
		if isMap(raw) {
			orig := o.Sub("default-information/originate")
			d.Originate = meta.Global(true)
			d.Always = orig.Bool("always")
			d.Metric = Lookup[uint32](orig, "metric")
			d.MetricType = Lookup[parcelapi.OSPFMetricType](orig, "metric-type")
			o.Consume("default-information/originate")
		} else {
			d.Originate = o.Bool("default-information/originate")
		}
	}

	for _, lsa := range o.List("max-metric/router-lsa") {
		d.RouterLSA = append(d.RouterLSA, parcelapi.OSPFRouterLSA{
			AdType: Lookup[parcelapi.OSPFRouterLSAType](lsa, "ad-type"),
			Time:   Lookup[uint16](lsa, "time"),
		})
	}

	for idx, pol := range o.List("route-policy") {
		if idx > 0 {
			pol.Issuef("pol-name", "only one route policy is supported")
			pol.ConsumeAll()

			continue
		}
		d.RoutePolicy = pol.String("pol-name")
	}

	for _, area := range o.List("area") {
		d.Area = append(d.Area, ospfArea(area))
	}

	return p, nil
}

func ospfArea(area *Values) parcelapi.OSPFArea {
	res := parcelapi.OSPFArea{
		AreaNumber: Lookup[uint32](area, "a-num"),
	}

	for _, typ := range []parcelapi.OSPFAreaType{parcelapi.OSPFAreaStub, parcelapi.OSPFAreaNSSA} {
		if !area.Has(string(typ)) {
			continue
		}

		res.AreaType = meta.Global(typ)
		res.NoSummary = area.Bool(string(typ) + "/no-summary")
		area.Consume(string(typ))

		break
	}

	for _, intf := range area.List("interface") {
		res.Interface = append(res.Interface, parcelapi.OSPFInterface{
			IfName:             intf.String("name"),
			HelloInterval:      Lookup[uint16](intf, "hello-interval"),
			DeadInterval:       Lookup[uint32](intf, "dead-interval"),
			RetransmitInterval: Lookup[uint16](intf, "retransmit-interval"),
			Cost:               Lookup[uint16](intf, "cost"),
			Priority:           Lookup[uint8](intf, "priority"),
			Network:            Lookup[parcelapi.OSPFNetworkType](intf, "network"),
			PassiveInterface:   intf.Bool("passive-interface"),
			Authentication: parcelapi.OSPFAuthentication{
				AuthType:         Lookup[parcelapi.OSPFAuthType](intf, "authentication/type"),
				MessageDigestKey: intf.String("authentication/message-digest/md5"),
				KeyID:            Lookup[uint8](intf, "authentication/message-digest/message-digest-key"),
			},
		})
	}

	for _, rng := range area.List("range") {
		res.Range = append(res.Range, parcelapi.OSPFRange{
			Address:     popPrefix(rng, "address", "ip", "mask"),
			Cost:        Lookup[uint32](rng, "cost"),
			NoAdvertise: rng.Bool("no-advertise"),
		})
	}

	return res
}
