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
	"slices"

	"github.com/pkg/errors"
	"go.githedgehog.com/catalystwan/api/meta"
)

type AAAAuthOrder string

func (AAAAuthOrder) Choices() []string {
	return []string{"local", "radius", "tacacs"}
}

type AAAPrivilege string

func (AAAPrivilege) Choices() []string {
	return []string{"1", "15"}
}

type AAAUser struct {
	Name        meta.Value[string]       `json:"name,omitzero"`
	Password    meta.Value[string]       `json:"password,omitzero"`
	Privilege   meta.Value[AAAPrivilege] `json:"privilege,omitzero"`
	PubkeyChain []AAAPubkey              `json:"pubkeyChain,omitempty"`
}

type AAAPubkey struct {
	KeyString meta.Value[string] `json:"keyString,omitzero"`
	KeyType   meta.Value[string] `json:"keyType,omitzero"`
}

type AAARadiusServer struct {
	Address    meta.Value[string] `json:"address,omitzero"`
	AuthPort   meta.Value[uint16] `json:"authPort,omitzero"`
	AcctPort   meta.Value[uint16] `json:"acctPort,omitzero"`
	Timeout    meta.Value[uint16] `json:"timeout,omitzero"`
	Retransmit meta.Value[uint8]  `json:"retransmit,omitzero"`
	Key        meta.Value[string] `json:"key,omitzero"`
}

type AAARadiusGroup struct {
	GroupName       meta.Value[string] `json:"groupName,omitzero"`
	VPN             meta.Value[uint16] `json:"vpn,omitzero"`
	SourceInterface meta.Value[string] `json:"sourceInterface,omitzero"`
	Server          []AAARadiusServer  `json:"server,omitempty"`
}

type AAATacacsServer struct {
	Address meta.Value[string] `json:"address,omitzero"`
	Port    meta.Value[uint16] `json:"port,omitzero"`
	Timeout meta.Value[uint16] `json:"timeout,omitzero"`
	Key     meta.Value[string] `json:"key,omitzero"`
}

type AAATacacsGroup struct {
	GroupName       meta.Value[string] `json:"groupName,omitzero"`
	VPN             meta.Value[uint16] `json:"vpn,omitzero"`
	SourceInterface meta.Value[string] `json:"sourceInterface,omitzero"`
	Server          []AAATacacsServer  `json:"server,omitempty"`
}

// AAAData defines the local users and the remote authentication servers
type AAAData struct {
	// AuthenticationGroup enables 802.1x authentication group
	AuthenticationGroup meta.Value[bool] `json:"authenticationGroup,omitzero"`
	// AccountingGroup enables accounting group
	AccountingGroup meta.Value[bool] `json:"accountingGroup,omitzero"`
	// ServerAuthOrder is the order of the authentication methods
	ServerAuthOrder meta.Value[[]AAAAuthOrder] `json:"serverAuthOrder,omitzero"`
	// User is the list of the local users
	User []AAAUser `json:"user,omitempty"`
	// Radius is the list of the RADIUS server groups
	Radius []AAARadiusGroup `json:"radius,omitempty"`
	// Tacacs is the list of the TACACS+ server groups
	Tacacs []AAATacacsGroup `json:"tacacs,omitempty"`
}

type AAA struct {
	Base `json:",inline"`
	Data AAAData `json:"data"`
}

var _ Parcel = (*AAA)(nil)

func init() {
	register(TypeAAA, func() Parcel { return &AAA{} })
}

func (p *AAA) ParcelType() Type {
	return TypeAAA
}

func (p *AAA) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *AAA) Default() {
	p.defaultBase()

	d := &p.Data
	d.AuthenticationGroup = d.AuthenticationGroup.OrDefault(false)
	d.AccountingGroup = d.AccountingGroup.OrDefault(false)
	d.ServerAuthOrder = d.ServerAuthOrder.OrDefault([]AAAAuthOrder{"local"})

	for idx := range d.User {
		d.User[idx].Privilege = d.User[idx].Privilege.OrDefault("15")
	}

	for gIdx := range d.Radius {
		group := &d.Radius[gIdx]
		group.VPN = group.VPN.OrDefault(0)
		for sIdx := range group.Server {
			srv := &group.Server[sIdx]
			srv.AuthPort = srv.AuthPort.OrDefault(1812)
			srv.AcctPort = srv.AcctPort.OrDefault(1813)
			srv.Timeout = srv.Timeout.OrDefault(5)
			srv.Retransmit = srv.Retransmit.OrDefault(3)
		}
	}

	for gIdx := range d.Tacacs {
		group := &d.Tacacs[gIdx]
		group.VPN = group.VPN.OrDefault(0)
		for sIdx := range group.Server {
			srv := &group.Server[sIdx]
			srv.Port = srv.Port.OrDefault(49)
			srv.Timeout = srv.Timeout.OrDefault(5)
		}
	}
}

func (p *AAA) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	d := &p.Data
	if err := meta.ValidateChoices("serverAuthOrder", d.ServerAuthOrder); err != nil {
		return err
	}

	if order, ok := d.ServerAuthOrder.Get(); ok {
		if len(order) == 0 {
			return errors.New("serverAuthOrder should contain at least one method")
		}
		if slices.Contains(order, "radius") && len(d.Radius) == 0 {
			return errors.New("serverAuthOrder contains radius but no radius groups defined")
		}
		if slices.Contains(order, "tacacs") && len(d.Tacacs) == 0 {
			return errors.New("serverAuthOrder contains tacacs but no tacacs groups defined")
		}
	}

	for idx, user := range d.User {
		if err := meta.ValidateRequired("user.name", user.Name); err != nil {
			return errors.Wrapf(err, "user %d", idx)
		}
		if err := meta.ValidateChoice("user.privilege", user.Privilege); err != nil {
			return errors.Wrapf(err, "user %d", idx)
		}
	}

	for idx, group := range d.Radius {
		for sIdx, srv := range group.Server {
			if err := meta.ValidateRequired("radius.server.address", srv.Address); err != nil {
				return errors.Wrapf(err, "radius group %d server %d", idx, sIdx)
			}
			if err := meta.ValidateRequired("radius.server.key", srv.Key); err != nil {
				return errors.Wrapf(err, "radius group %d server %d", idx, sIdx)
			}
		}
	}

	for idx, group := range d.Tacacs {
		for sIdx, srv := range group.Server {
			if err := meta.ValidateRequired("tacacs.server.address", srv.Address); err != nil {
				return errors.Wrapf(err, "tacacs group %d server %d", idx, sIdx)
			}
			if err := meta.ValidateRequired("tacacs.server.key", srv.Key); err != nil {
				return errors.Wrapf(err, "tacacs group %d server %d", idx, sIdx)
			}
		}
	}

	return nil
}
