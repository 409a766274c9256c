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

// Prefix is IPv4 network address with dotted mask
type Prefix struct {
	Address meta.Value[string] `json:"address,omitzero"`
	Mask    meta.Value[string] `json:"mask,omitzero"`
}

func (p *Prefix) Validate(field string) error {
	if err := meta.ValidateRequired(field+".address", p.Address); err != nil {
		return err
	}
	if err := meta.ValidateRequired(field+".mask", p.Mask); err != nil {
		return err
	}
	if err := validateIPv4(field+".address", p.Address); err != nil {
		return err
	}
	if mask, ok := p.Mask.Get(); ok && !iputil.IsIPv4Mask(mask) {
		return errors.Errorf("%s.mask: %q is not a valid mask", field, mask)
	}

	return nil
}

// Color is the TLOC color
type Color string

const (
	ColorDefault        Color = "default"
	ColorMPLS           Color = "mpls"
	ColorMetroEthernet  Color = "metro-ethernet"
	ColorBizInternet    Color = "biz-internet"
	ColorPublicInternet Color = "public-internet"
	ColorLTE            Color = "lte"
	Color3G             Color = "3g"
	ColorRed            Color = "red"
	ColorGreen          Color = "green"
	ColorBlue           Color = "blue"
	ColorGold           Color = "gold"
	ColorSilver         Color = "silver"
	ColorBronze         Color = "bronze"
	ColorCustom1        Color = "custom1"
	ColorCustom2        Color = "custom2"
	ColorCustom3        Color = "custom3"
	ColorPrivate1       Color = "private1"
	ColorPrivate2       Color = "private2"
	ColorPrivate3       Color = "private3"
	ColorPrivate4       Color = "private4"
	ColorPrivate5       Color = "private5"
	ColorPrivate6       Color = "private6"
)

func (Color) Choices() []string {
	return []string{
		"default", "mpls", "metro-ethernet", "biz-internet", "public-internet", "lte", "3g",
		"red", "green", "blue", "gold", "silver", "bronze", "custom1", "custom2", "custom3",
		"private1", "private2", "private3", "private4", "private5", "private6",
	}
}

// RedistributeProtocol is the routing protocol to redistribute routes from
type RedistributeProtocol string

func (RedistributeProtocol) Choices() []string {
	return []string{"static", "connected", "omp", "nat", "ospf", "ospfv3", "eigrp", "bgp", "lisp", "isis"}
}

// Redistribute is the routes redistribution entry of the routing protocols
type Redistribute struct {
	Protocol    meta.Value[RedistributeProtocol] `json:"protocol,omitzero"`
	RoutePolicy meta.Value[string]               `json:"routePolicy,omitzero"`
}

func (r *Redistribute) Validate(field string) error {
	if err := meta.ValidateRequired(field+".protocol", r.Protocol); err != nil {
		return err
	}

	return meta.ValidateChoice(field+".protocol", r.Protocol)
}

func validateIPv4(field string, v meta.Value[string]) error {
	if addr, ok := v.Get(); ok && !iputil.IsIPv4(addr) {
		return errors.Errorf("%s: %q is not a valid IPv4 address", field, addr)
	}

	return nil
}

func validateIPv4List(field string, v meta.Value[[]string]) error {
	addrs, ok := v.Get()
	if !ok {
		return nil
	}

	for _, addr := range addrs {
		if !iputil.IsIPv4(addr) {
			return errors.Errorf("%s: %q is not a valid IPv4 address", field, addr)
		}
	}

	return nil
}

func validateIPv6(field string, v meta.Value[string]) error {
	if addr, ok := v.Get(); ok && !iputil.IsIPv6(addr) {
		return errors.Errorf("%s: %q is not a valid IPv6 address", field, addr)
	}

	return nil
}
