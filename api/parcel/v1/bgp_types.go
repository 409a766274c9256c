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

type BGPFamilyType string

func (BGPFamilyType) Choices() []string {
	return []string{"ipv4-unicast", "vpnv4-unicast", "vpnv6-unicast", "ipv6-unicast"}
}

type BGPNeighborAddressFamily struct {
	FamilyType     meta.Value[BGPFamilyType] `json:"familyType,omitzero"`
	InRoutePolicy  meta.Value[string]        `json:"inRoutePolicyId,omitzero"`
	OutRoutePolicy meta.Value[string]        `json:"outRoutePolicyId,omitzero"`
	MaxPrefixLimit meta.Value[uint32]        `json:"maxPrefixLimit,omitzero"`
}

type BGPNeighbor struct {
	Address          meta.Value[string]         `json:"address,omitzero"`
	Description      meta.Value[string]         `json:"description,omitzero"`
	Shutdown         meta.Value[bool]           `json:"shutdown,omitzero"`
	RemoteAS         meta.Value[uint32]         `json:"remoteAs,omitzero"`
	LocalAS          meta.Value[uint32]         `json:"localAs,omitzero"`
	Keepalive        meta.Value[uint16]         `json:"keepalive,omitzero"`
	Holdtime         meta.Value[uint16]         `json:"holdtime,omitzero"`
	IfName           meta.Value[string]         `json:"ifName,omitzero"`
	NextHopSelf      meta.Value[bool]           `json:"nextHopSelf,omitzero"`
	SendCommunity    meta.Value[bool]           `json:"sendCommunity,omitzero"`
	SendExtCommunity meta.Value[bool]           `json:"sendExtCommunity,omitzero"`
	EBGPMultihop     meta.Value[uint8]          `json:"ebgpMultihop,omitzero"`
	Password         meta.Value[string]         `json:"password,omitzero"`
	SendLabel        meta.Value[bool]           `json:"sendLabel,omitzero"`
	ASOverride       meta.Value[bool]           `json:"asOverride,omitzero"`
	AllowASIn        meta.Value[uint8]          `json:"asNumber,omitzero"`
	AddressFamily    []BGPNeighborAddressFamily `json:"addressFamily,omitempty"`
}

type BGPAggregateAddress struct {
	Prefix      Prefix           `json:"prefix"`
	ASSet       meta.Value[bool] `json:"asSet,omitzero"`
	SummaryOnly meta.Value[bool] `json:"summaryOnly,omitzero"`
}

type BGPNetwork struct {
	Prefix Prefix `json:"prefix"`
}

type BGPAddressFamily struct {
	AggregateAddress  []BGPAggregateAddress `json:"aggregateAddress,omitempty"`
	Network           []BGPNetwork          `json:"network,omitempty"`
	Paths             meta.Value[uint8]     `json:"paths,omitzero"`
	OriginateDefault  meta.Value[bool]      `json:"originate,omitzero"`
	Redistribute      []Redistribute        `json:"redistribute,omitempty"`
	FilterRoutePolicy meta.Value[string]    `json:"filter,omitzero"`
}

type BGPIPv6AggregateAddress struct {
	Prefix      meta.Value[string] `json:"prefix,omitzero"`
	ASSet       meta.Value[bool]   `json:"asSet,omitzero"`
	SummaryOnly meta.Value[bool]   `json:"summaryOnly,omitzero"`
}

type BGPIPv6Network struct {
	Prefix meta.Value[string] `json:"prefix,omitzero"`
}

type BGPIPv6AddressFamily struct {
	AggregateAddress []BGPIPv6AggregateAddress `json:"ipv6AggregateAddress,omitempty"`
	Network          []BGPIPv6Network          `json:"ipv6Network,omitempty"`
	Paths            meta.Value[uint8]         `json:"paths,omitzero"`
	OriginateDefault meta.Value[bool]          `json:"originate,omitzero"`
	Redistribute     []Redistribute            `json:"redistribute,omitempty"`
}

// BGPData defines BGP routing settings
type BGPData struct {
	ASNum              meta.Value[uint32]   `json:"asNum,omitzero"`
	Shutdown           meta.Value[bool]     `json:"shutdown,omitzero"`
	RouterID           meta.Value[string]   `json:"routerId,omitzero"`
	PropagateASPath    meta.Value[bool]     `json:"propagateAspath,omitzero"`
	PropagateCommunity meta.Value[bool]     `json:"propagateCommunity,omitzero"`
	ExternalDistance   meta.Value[uint8]    `json:"external,omitzero"`
	InternalDistance   meta.Value[uint8]    `json:"internal,omitzero"`
	LocalDistance      meta.Value[uint8]    `json:"local,omitzero"`
	Keepalive          meta.Value[uint16]   `json:"keepalive,omitzero"`
	Holdtime           meta.Value[uint16]   `json:"holdtime,omitzero"`
	AlwaysCompare      meta.Value[bool]     `json:"alwaysCompare,omitzero"`
	Deterministic      meta.Value[bool]     `json:"deterministic,omitzero"`
	MissingAsWorst     meta.Value[bool]     `json:"missingAsWorst,omitzero"`
	CompareRouterID    meta.Value[bool]     `json:"compareRouterId,omitzero"`
	MultipathRelax     meta.Value[bool]     `json:"multipathRelax,omitzero"`
	Neighbor           []BGPNeighbor        `json:"neighbor,omitempty"`
	IPv6Neighbor       []BGPNeighbor        `json:"ipv6Neighbor,omitempty"`
	AddressFamily      BGPAddressFamily     `json:"addressFamily,omitzero"`
	IPv6AddressFamily  BGPIPv6AddressFamily `json:"ipv6AddressFamily,omitzero"`
}

type BGP struct {
	Base `json:",inline"`
	Data BGPData `json:"data"`
}

var _ Parcel = (*BGP)(nil)

func init() {
	register(TypeRoutingBGP, func() Parcel { return &BGP{} })
}

func (p *BGP) ParcelType() Type {
	return TypeRoutingBGP
}

func (p *BGP) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeTransport, ProfileTypeService}
}

func (p *BGP) Default() {
	p.defaultBase()

	d := &p.Data
	d.Shutdown = d.Shutdown.OrDefault(false)
	d.PropagateASPath = d.PropagateASPath.OrDefault(false)
	d.PropagateCommunity = d.PropagateCommunity.OrDefault(false)
	d.ExternalDistance = d.ExternalDistance.OrDefault(20)
	d.InternalDistance = d.InternalDistance.OrDefault(200)
	d.LocalDistance = d.LocalDistance.OrDefault(20)
	d.Keepalive = d.Keepalive.OrDefault(60)
	d.Holdtime = d.Holdtime.OrDefault(180)

	for _, neighbors := range [][]BGPNeighbor{d.Neighbor, d.IPv6Neighbor} {
		for idx := range neighbors {
			n := &neighbors[idx]
			n.Shutdown = n.Shutdown.OrDefault(false)
			n.Keepalive = n.Keepalive.OrDefault(60)
			n.Holdtime = n.Holdtime.OrDefault(180)
			n.NextHopSelf = n.NextHopSelf.OrDefault(false)
			n.SendCommunity = n.SendCommunity.OrDefault(true)
			n.SendExtCommunity = n.SendExtCommunity.OrDefault(true)
			n.EBGPMultihop = n.EBGPMultihop.OrDefault(1)
		}
	}
}

func validateBGPNeighbor(field string, n BGPNeighbor, v6 bool) error {
	if err := meta.ValidateRequired(field+".address", n.Address); err != nil {
		return err
	}
	if v6 {
		if err := validateIPv6(field+".address", n.Address); err != nil {
			return err
		}
	} else if err := validateIPv4(field+".address", n.Address); err != nil {
		return err
	}
	if err := meta.ValidateRequired(field+".remoteAs", n.RemoteAS); err != nil {
		return err
	}
	if err := meta.ValidateRange(field+".ebgpMultihop", n.EBGPMultihop, 1, 255); err != nil {
		return err
	}
	if err := meta.ValidateRange(field+".asNumber", n.AllowASIn, 1, 10); err != nil {
		return err
	}

	for idx, af := range n.AddressFamily {
		if err := meta.ValidateChoice(field+".addressFamily.familyType", af.FamilyType); err != nil {
			return errors.Wrapf(err, "address family %d", idx)
		}
	}

	return nil
}

func (p *BGP) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	d := &p.Data
	if err := meta.ValidateRequired("asNum", d.ASNum); err != nil {
		return err
	}
	if err := validateIPv4("routerId", d.RouterID); err != nil {
		return err
	}
	if ka, ok := d.Keepalive.Get(); ok {
		if ht, ok := d.Holdtime.Get(); ok && ht != 0 && ka > ht {
			return errors.Errorf("keepalive %d is greater than holdtime %d", ka, ht)
		}
	}

	for idx, n := range d.Neighbor {
		if err := validateBGPNeighbor("neighbor", n, false); err != nil {
			return errors.Wrapf(err, "neighbor %d", idx)
		}
	}
	for idx, n := range d.IPv6Neighbor {
		if err := validateBGPNeighbor("ipv6Neighbor", n, true); err != nil {
			return errors.Wrapf(err, "ipv6 neighbor %d", idx)
		}
	}

	for idx, agg := range d.AddressFamily.AggregateAddress {
		if err := agg.Prefix.Validate("addressFamily.aggregateAddress.prefix"); err != nil {
			return errors.Wrapf(err, "aggregate address %d", idx)
		}
	}
	for idx, net := range d.AddressFamily.Network {
		if err := net.Prefix.Validate("addressFamily.network.prefix"); err != nil {
			return errors.Wrapf(err, "network %d", idx)
		}
	}
	for idx, r := range d.AddressFamily.Redistribute {
		if err := r.Validate("addressFamily.redistribute"); err != nil {
			return errors.Wrapf(err, "redistribute %d", idx)
		}
	}
	for idx, r := range d.IPv6AddressFamily.Redistribute {
		if err := r.Validate("ipv6AddressFamily.redistribute"); err != nil {
			return errors.Wrapf(err, "ipv6 redistribute %d", idx)
		}
	}

	return nil
}
