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
	"fmt"

	"github.com/samber/lo"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
)

func init() {
	register(aaaConverter{})
}

type aaaConverter struct{}

func (aaaConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeAAA, ftapi.TemplateTypeCEdgeAAA}
}

func (aaaConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.AAA{}

	for _, user := range vals.List("user") {
		u := parcelapi.AAAUser{
			Name:      user.String("name"),
			Password:  user.String("password", "secret"),
			Privilege: Lookup[parcelapi.AAAPrivilege](user, "privilege"),
		}
		for _, key := range user.List("pubkey-chain") {
			u.PubkeyChain = append(u.PubkeyChain, parcelapi.AAAPubkey{
				KeyString: key.String("key-string"),
				KeyType:   key.String("key-type"),
			})
		}
		p.Data.User = append(p.Data.User, u)
	}

	for idx, group := range vals.List("radius") {
		g := parcelapi.AAARadiusGroup{
			GroupName:       group.String("group-name"),
			VPN:             Lookup[uint16](group, "vpn"),
			SourceInterface: group.String("source-interface"),
		}
		if g.GroupName.IsZero() {
			g.GroupName = meta.Global(fmt.Sprintf("radius-%d", idx))
		}
		for _, srv := range group.List("server") {
			g.Server = append(g.Server, parcelapi.AAARadiusServer{
				Address:    srv.String("address"),
				AuthPort:   Lookup[uint16](srv, "auth-port"),
				AcctPort:   Lookup[uint16](srv, "acct-port"),
				Timeout:    Lookup[uint16](srv, "timeout"),
				Retransmit: Lookup[uint8](srv, "retransmit"),
				Key:        srv.String("key", "secret-key"),
			})
		}
		p.Data.Radius = append(p.Data.Radius, g)
	}

	for idx, group := range vals.List("tacacs") {
		g := parcelapi.AAATacacsGroup{
			GroupName:       group.String("group-name"),
			VPN:             Lookup[uint16](group, "vpn"),
			SourceInterface: group.String("source-interface"),
		}
		if g.GroupName.IsZero() {
			g.GroupName = meta.Global(fmt.Sprintf("tacacs-%d", idx))
		}
		for _, srv := range group.List("server") {
			g.Server = append(g.Server, parcelapi.AAATacacsServer{
				Address: srv.String("address"),
				Port:    Lookup[uint16](srv, "port", "auth-port"),
				Timeout: Lookup[uint16](srv, "timeout"),
				Key:     srv.String("key", "secret-key"),
			})
		}
		p.Data.Tacacs = append(p.Data.Tacacs, g)
	}

	p.Data.AuthenticationGroup = vals.Bool("authentication-group")
	p.Data.AccountingGroup = vals.Bool("accounting-group")
	p.Data.ServerAuthOrder = Lookup[[]parcelapi.AAAAuthOrder](vals, "server-auth-order", "auth-order")

	// methods without servers are dropped from the order
	if order, ok := p.Data.ServerAuthOrder.Get(); ok {
		configured := lo.Filter(order, func(method parcelapi.AAAAuthOrder, _ int) bool {
			switch method {
			case "radius":
				return len(p.Data.Radius) > 0
			case "tacacs":
				return len(p.Data.Tacacs) > 0
			}

			return true
		})

		if len(configured) != len(order) {
			vals.Issuef("server-auth-order", "methods without servers dropped: %v", lo.Without(order, configured...))
		}
		if len(configured) == 0 {
			configured = []parcelapi.AAAAuthOrder{"local"}
		}

		p.Data.ServerAuthOrder = meta.Global(configured)
	}

	return p, nil
}
