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
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
)

func init() {
	register(snmpConverter{})
}

type snmpConverter struct{}

func (snmpConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeSNMP}
}

func (snmpConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.SNMP{}

	p.Data.Shutdown = vals.Bool("shutdown")
	p.Data.Contact = vals.String("contact")
	p.Data.Location = vals.String("location")
	vals.Consume("name")

	for _, view := range vals.List("view") {
		v := parcelapi.SNMPView{Name: view.String("name")}
		for _, oid := range view.List("oid") {
			v.OID = append(v.OID, parcelapi.SNMPOID{
				ID:      oid.String("id"),
				Exclude: oid.Bool("exclude"),
			})
		}
		p.Data.View = append(p.Data.View, v)
	}

	for _, comm := range vals.List("community") {
		p.Data.Community = append(p.Data.Community, parcelapi.SNMPCommunity{
			Name:          comm.String("name"),
			UserLabel:     comm.String("user-label"),
			View:          comm.String("view"),
			Authorization: Lookup[parcelapi.SNMPAuthorization](comm, "authorization"),
		})
	}

	for _, group := range vals.List("group") {
		p.Data.Group = append(p.Data.Group, parcelapi.SNMPGroup{
			Name:          group.String("name"),
			SecurityLevel: Lookup[parcelapi.SNMPSecurityLevel](group, "security-level"),
			View:          group.String("view"),
		})
	}

	for _, user := range vals.List("user") {
		p.Data.User = append(p.Data.User, parcelapi.SNMPUser{
			Name:         user.String("name"),
			AuthProtocol: Lookup[parcelapi.SNMPAuthProtocol](user, "auth"),
			AuthPassword: user.String("auth-password"),
			PrivProtocol: Lookup[parcelapi.SNMPPrivProtocol](user, "priv"),
			PrivPassword: user.String("priv-password"),
			Group:        user.String("group"),
		})
	}

	for _, target := range vals.List("trap/target", "target") {
		p.Data.Target = append(p.Data.Target, parcelapi.SNMPTarget{
			VPNID:           Lookup[uint16](target, "vpn-id"),
			IP:              target.String("ip"),
			Port:            Lookup[uint16](target, "port"),
			UserLabel:       target.String("community-name", "user-label"),
			User:            target.String("user"),
			SourceInterface: target.String("source-interface"),
		})
	}

	return p, nil
}
