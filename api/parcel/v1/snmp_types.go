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

type SNMPAuthorization string

func (SNMPAuthorization) Choices() []string {
	return []string{"read-only", "read-write"}
}

type SNMPSecurityLevel string

func (SNMPSecurityLevel) Choices() []string {
	return []string{"no-auth-no-priv", "auth-no-priv", "auth-priv"}
}

type SNMPAuthProtocol string

func (SNMPAuthProtocol) Choices() []string {
	return []string{"sha"}
}

type SNMPPrivProtocol string

func (SNMPPrivProtocol) Choices() []string {
	return []string{"aes-cfb-128", "aes-256-cfb-128"}
}

type SNMPOID struct {
	ID      meta.Value[string] `json:"id,omitzero"`
	Exclude meta.Value[bool]   `json:"exclude,omitzero"`
}

type SNMPView struct {
	Name meta.Value[string] `json:"name,omitzero"`
	OID  []SNMPOID          `json:"oid,omitempty"`
}

type SNMPCommunity struct {
	Name          meta.Value[string]            `json:"name,omitzero"`
	UserLabel     meta.Value[string]            `json:"userLabel,omitzero"`
	View          meta.Value[string]            `json:"view,omitzero"`
	Authorization meta.Value[SNMPAuthorization] `json:"authorization,omitzero"`
}

type SNMPGroup struct {
	Name          meta.Value[string]            `json:"name,omitzero"`
	SecurityLevel meta.Value[SNMPSecurityLevel] `json:"securityLevel,omitzero"`
	View          meta.Value[string]            `json:"view,omitzero"`
}

type SNMPUser struct {
	Name         meta.Value[string]           `json:"name,omitzero"`
	AuthProtocol meta.Value[SNMPAuthProtocol] `json:"auth,omitzero"`
	AuthPassword meta.Value[string]           `json:"authPassword,omitzero"`
	PrivProtocol meta.Value[SNMPPrivProtocol] `json:"priv,omitzero"`
	PrivPassword meta.Value[string]           `json:"privPassword,omitzero"`
	Group        meta.Value[string]           `json:"group,omitzero"`
}

type SNMPTarget struct {
	VPNID           meta.Value[uint16] `json:"vpnId,omitzero"`
	IP              meta.Value[string] `json:"ip,omitzero"`
	Port            meta.Value[uint16] `json:"port,omitzero"`
	UserLabel       meta.Value[string] `json:"userLabel,omitzero"`
	User            meta.Value[string] `json:"user,omitzero"`
	SourceInterface meta.Value[string] `json:"sourceInterface,omitzero"`
}

// SNMPData defines SNMP agent settings
type SNMPData struct {
	// Shutdown disables the SNMP agent
	Shutdown meta.Value[bool] `json:"shutdown,omitzero"`
	// Contact is the system contact
	Contact meta.Value[string] `json:"contact,omitzero"`
	// Location is the system location
	Location meta.Value[string] `json:"location,omitzero"`
	// View is the list of the MIB views
	View []SNMPView `json:"view,omitempty"`
	// Community is the list of the SNMPv2 communities
	Community []SNMPCommunity `json:"community,omitempty"`
	// Group is the list of the SNMPv3 groups
	Group []SNMPGroup `json:"group,omitempty"`
	// User is the list of the SNMPv3 users
	User []SNMPUser `json:"user,omitempty"`
	// Target is the list of the trap receivers
	Target []SNMPTarget `json:"target,omitempty"`
}

type SNMP struct {
	Base `json:",inline"`
	Data SNMPData `json:"data"`
}

var _ Parcel = (*SNMP)(nil)

func init() {
	register(TypeSNMP, func() Parcel { return &SNMP{} })
}

func (p *SNMP) ParcelType() Type {
	return TypeSNMP
}

func (p *SNMP) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *SNMP) Default() {
	p.defaultBase()

	p.Data.Shutdown = p.Data.Shutdown.OrDefault(false)
	for idx := range p.Data.Community {
		comm := &p.Data.Community[idx]
		comm.Authorization = comm.Authorization.OrDefault("read-only")
	}
	for idx := range p.Data.Group {
		group := &p.Data.Group[idx]
		group.SecurityLevel = group.SecurityLevel.OrDefault("no-auth-no-priv")
	}
	for idx := range p.Data.Target {
		target := &p.Data.Target[idx]
		target.Port = target.Port.OrDefault(162)
	}
}

func (p *SNMP) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	views := map[string]bool{}
	for idx, view := range p.Data.View {
		if err := meta.ValidateRequired("view.name", view.Name); err != nil {
			return errors.Wrapf(err, "view %d", idx)
		}
		if name, ok := view.Name.Get(); ok {
			views[name] = true
		}
	}

	for idx, comm := range p.Data.Community {
		if err := meta.ValidateRequired("community.name", comm.Name); err != nil {
			return errors.Wrapf(err, "community %d", idx)
		}
		if err := meta.ValidateChoice("community.authorization", comm.Authorization); err != nil {
			return errors.Wrapf(err, "community %d", idx)
		}
		if view, ok := comm.View.Get(); ok && !views[view] {
			return errors.Errorf("community %d: unknown view %q", idx, view)
		}
	}

	groups := map[string]bool{}
	for idx, group := range p.Data.Group {
		if err := meta.ValidateRequired("group.name", group.Name); err != nil {
			return errors.Wrapf(err, "group %d", idx)
		}
		if err := meta.ValidateChoice("group.securityLevel", group.SecurityLevel); err != nil {
			return errors.Wrapf(err, "group %d", idx)
		}
		if name, ok := group.Name.Get(); ok {
			groups[name] = true
		}
	}

	for idx, user := range p.Data.User {
		if err := meta.ValidateRequired("user.name", user.Name); err != nil {
			return errors.Wrapf(err, "user %d", idx)
		}
		if err := meta.ValidateChoice("user.auth", user.AuthProtocol); err != nil {
			return errors.Wrapf(err, "user %d", idx)
		}
		if err := meta.ValidateChoice("user.priv", user.PrivProtocol); err != nil {
			return errors.Wrapf(err, "user %d", idx)
		}
		if group, ok := user.Group.Get(); ok && !groups[group] {
			return errors.Errorf("user %d: unknown group %q", idx, group)
		}
	}

	for idx, target := range p.Data.Target {
		if err := meta.ValidateRequired("target.ip", target.IP); err != nil {
			return errors.Wrapf(err, "target %d", idx)
		}
		if err := meta.ValidateRequired("target.vpnId", target.VPNID); err != nil {
			return errors.Wrapf(err, "target %d", idx)
		}
	}

	return nil
}
