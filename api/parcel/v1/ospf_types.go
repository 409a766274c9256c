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

// OSPFAreaType is the area type, summary suppression is only valid for stub and nssa areas
type OSPFAreaType string

const (
	OSPFAreaNormal OSPFAreaType = "normal"
	OSPFAreaStub   OSPFAreaType = "stub"
	OSPFAreaNSSA   OSPFAreaType = "nssa"
)

func (OSPFAreaType) Choices() []string {
	return []string{"normal", "stub", "nssa"}
}

type OSPFNetworkType string

func (OSPFNetworkType) Choices() []string {
	return []string{"broadcast", "point-to-point", "non-broadcast", "point-to-multipoint"}
}

type OSPFAuthType string

func (OSPFAuthType) Choices() []string {
	return []string{"message-digest", "null"}
}

type OSPFMetricType string

func (OSPFMetricType) Choices() []string {
	return []string{"type1", "type2"}
}

type OSPFRouterLSAType string

func (OSPFRouterLSAType) Choices() []string {
	return []string{"administrative", "on-startup"}
}

type OSPFAuthentication struct {
	AuthType         meta.Value[OSPFAuthType] `json:"authType,omitzero"`
	MessageDigestKey meta.Value[string]       `json:"messageDigestKey,omitzero"`
	KeyID            meta.Value[uint8]        `json:"keyId,omitzero"`
}

type OSPFInterface struct {
	IfName             meta.Value[string]          `json:"ifName,omitzero"`
	HelloInterval      meta.Value[uint16]          `json:"helloInterval,omitzero"`
	DeadInterval       meta.Value[uint32]          `json:"deadInterval,omitzero"`
	RetransmitInterval meta.Value[uint16]          `json:"retransmitInterval,omitzero"`
	Cost               meta.Value[uint16]          `json:"cost,omitzero"`
	Priority           meta.Value[uint8]           `json:"priority,omitzero"`
	Network            meta.Value[OSPFNetworkType] `json:"network,omitzero"`
	PassiveInterface   meta.Value[bool]            `json:"passiveInterface,omitzero"`
	Authentication     OSPFAuthentication          `json:"authenticationConfig,omitzero"`
}

type OSPFRange struct {
	Address     Prefix             `json:"address"`
	Cost        meta.Value[uint32] `json:"cost,omitzero"`
	NoAdvertise meta.Value[bool]   `json:"noAdvertise,omitzero"`
}

type OSPFArea struct {
	AreaNumber meta.Value[uint32]       `json:"aNum,omitzero"`
	AreaType   meta.Value[OSPFAreaType] `json:"aType,omitzero"`
	NoSummary  meta.Value[bool]         `json:"noSummary,omitzero"`
	Interface  []OSPFInterface          `json:"interface,omitempty"`
	Range      []OSPFRange              `json:"range,omitempty"`
}

type OSPFRouterLSA struct {
	AdType meta.Value[OSPFRouterLSAType] `json:"adType,omitzero"`
	Time   meta.Value[uint16]            `json:"time,omitzero"`
}

// OSPFData defines OSPF routing settings
type OSPFData struct {
	RouterID           meta.Value[string]         `json:"routerId,omitzero"`
	ReferenceBandwidth meta.Value[uint32]         `json:"referenceBandwidth,omitzero"`
	RFC1583            meta.Value[bool]           `json:"rfc1583,omitzero"`
	Originate          meta.Value[bool]           `json:"originate,omitzero"`
	Always             meta.Value[bool]           `json:"always,omitzero"`
	Metric             meta.Value[uint32]         `json:"metric,omitzero"`
	MetricType         meta.Value[OSPFMetricType] `json:"metricType,omitzero"`
	External           meta.Value[uint8]          `json:"external,omitzero"`
	InterArea          meta.Value[uint8]          `json:"interArea,omitzero"`
	IntraArea          meta.Value[uint8]          `json:"intraArea,omitzero"`
	Delay              meta.Value[uint32]         `json:"delay,omitzero"`
	InitialHold        meta.Value[uint32]         `json:"initialHold,omitzero"`
	MaxHold            meta.Value[uint32]         `json:"maxHold,omitzero"`
	Redistribute       []Redistribute             `json:"redistribute,omitempty"`
	RouterLSA          []OSPFRouterLSA            `json:"routerLsa,omitempty"`
	RoutePolicy        meta.Value[string]         `json:"routePolicy,omitzero"`
	Area               []OSPFArea                 `json:"area,omitempty"`
}

type OSPF struct {
	Base `json:",inline"`
	Data OSPFData `json:"data"`
}

var _ Parcel = (*OSPF)(nil)

func init() {
	register(TypeRoutingOSPF, func() Parcel { return &OSPF{} })
}

func (p *OSPF) ParcelType() Type {
	return TypeRoutingOSPF
}

func (p *OSPF) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeTransport, ProfileTypeService}
}

func (p *OSPF) Default() {
	p.defaultBase()

	d := &p.Data
	d.ReferenceBandwidth = d.ReferenceBandwidth.OrDefault(100)
	d.RFC1583 = d.RFC1583.OrDefault(true)
	d.Originate = d.Originate.OrDefault(false)
	d.External = d.External.OrDefault(110)
	d.InterArea = d.InterArea.OrDefault(110)
	d.IntraArea = d.IntraArea.OrDefault(110)
	d.Delay = d.Delay.OrDefault(200)
	d.InitialHold = d.InitialHold.OrDefault(1000)
	d.MaxHold = d.MaxHold.OrDefault(10000)

	for idx := range d.Area {
		area := &d.Area[idx]
		area.AreaType = area.AreaType.OrDefault(OSPFAreaNormal)
		for ifIdx := range area.Interface {
			intf := &area.Interface[ifIdx]
			intf.HelloInterval = intf.HelloInterval.OrDefault(10)
			intf.DeadInterval = intf.DeadInterval.OrDefault(40)
			intf.RetransmitInterval = intf.RetransmitInterval.OrDefault(5)
			intf.Priority = intf.Priority.OrDefault(1)
			intf.Network = intf.Network.OrDefault("broadcast")
			intf.PassiveInterface = intf.PassiveInterface.OrDefault(false)
		}
	}
}

func (p *OSPF) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	d := &p.Data
	if err := validateIPv4("routerId", d.RouterID); err != nil {
		return err
	}
	if err := meta.ValidateChoice("metricType", d.MetricType); err != nil {
		return err
	}
	for idx, r := range d.Redistribute {
		if err := r.Validate("redistribute"); err != nil {
			return errors.Wrapf(err, "redistribute %d", idx)
		}
	}
	for idx, lsa := range d.RouterLSA {
		if err := meta.ValidateChoice("routerLsa.adType", lsa.AdType); err != nil {
			return errors.Wrapf(err, "router lsa %d", idx)
		}
	}

	areas := map[uint32]bool{}
	for idx, area := range d.Area {
		if err := meta.ValidateRequired("area.aNum", area.AreaNumber); err != nil {
			return errors.Wrapf(err, "area %d", idx)
		}
		if num, ok := area.AreaNumber.Get(); ok {
			if areas[num] {
				return errors.Errorf("area %d: duplicate area number %d", idx, num)
			}
			areas[num] = true
		}
		if err := meta.ValidateChoice("area.aType", area.AreaType); err != nil {
			return errors.Wrapf(err, "area %d", idx)
		}
		if typ, ok := area.AreaType.Get(); ok && typ == OSPFAreaNormal {
			if noSummary, ok := area.NoSummary.Get(); ok && noSummary {
				return errors.Errorf("area %d: noSummary is only allowed for stub and nssa areas", idx)
			}
		}

		for ifIdx, intf := range area.Interface {
			if err := meta.ValidateRequired("interface.ifName", intf.IfName); err != nil {
				return errors.Wrapf(err, "area %d interface %d", idx, ifIdx)
			}
			if err := meta.ValidateChoice("interface.network", intf.Network); err != nil {
				return errors.Wrapf(err, "area %d interface %d", idx, ifIdx)
			}
			if err := meta.ValidateChoice("interface.authenticationConfig.authType", intf.Authentication.AuthType); err != nil {
				return errors.Wrapf(err, "area %d interface %d", idx, ifIdx)
			}
		}
		for rIdx, rng := range area.Range {
			if err := rng.Address.Validate("range.address"); err != nil {
				return errors.Wrapf(err, "area %d range %d", idx, rIdx)
			}
		}
	}

	return nil
}
