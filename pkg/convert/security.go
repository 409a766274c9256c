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
	"github.com/samber/lo"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
)

func init() {
	register(globalConverter{})
	register(securityConverter{})
}

type globalConverter struct{}

func (globalConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeCEdgeGlobal}
}

func (globalConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.Global{}
	s := &p.Data.Services

	for path, field := range map[string]*meta.Value[bool]{
		"http-server":          &s.HTTPServer,
		"https-server":         &s.HTTPSServer,
		"ftp-passive":          &s.FTPPassive,
		"domain-lookup":        &s.DomainLookup,
		"arp-proxy":            &s.ARPProxy,
		"rsh-rcp":              &s.RCMD,
		"line-vty":             &s.LineVTY,
		"cdp":                  &s.CDP,
		"lldp":                 &s.LLDP,
		"tcp-keepalives-in":    &s.TCPKeepalivesIn,
		"tcp-keepalives-out":   &s.TCPKeepalivesOut,
		"tcp-small-servers":    &s.TCPSmallServers,
		"udp-small-servers":    &s.UDPSmallServers,
		"console-logging":      &s.ConsoleLogging,
		"ip-source-routing":    &s.IPSourceRoute,
		"vty-logging":          &s.VTYLineLogging,
		"snmp-ifindex-persist": &s.SNMPIfindexPersist,
		"bootp":                &s.IgnoreBOOTP,
	} {
		*field = vals.Bool(path, "services-ip/"+path, "other-settings/"+path)
	}

	s.SourceIntrf = vals.String("source-intrf", "services-ip/source-intrf")
	s.HTTPAuthentication = vals.String("http-authentication")
	s.SSHVersion = Lookup[uint8](vals, "ssh-version")

	return p, nil
}

type securityConverter struct{}

func (securityConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeSecurity}
}

// integrityTypes maps legacy authentication types to the integrity types
var integrityTypes = map[string]parcelapi.IntegrityType{
	"none":             parcelapi.IntegrityTypeNone,
	"esp":              parcelapi.IntegrityTypeESP,
	"sha1-hmac":        parcelapi.IntegrityTypeESP,
	"ip-udp-esp":       parcelapi.IntegrityTypeIPUDPESP,
	"ah-sha1-hmac":     parcelapi.IntegrityTypeIPUDPESP,
	"ip-udp-esp-no-id": parcelapi.IntegrityTypeESPRS,
	"ah-no-id":         parcelapi.IntegrityTypeESPRS,
}

func (securityConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.Security{}

	p.Data.Rekey = Lookup[uint32](vals, "rekey")
	p.Data.ReplayWindow = Lookup[parcelapi.ReplayWindow](vals, "replay-window")
	p.Data.ExtendedARWindow = Lookup[uint16](vals, "extended-ar-window")
	p.Data.PairwiseKeying = vals.Bool("pairwise-keying")

	auth := vals.Strings("integrity-type", "authentication-type")
	if auth.IsVariable() {
		p.Data.IntegrityType = meta.Variable[[]parcelapi.IntegrityType](auth.Variable)
	} else if types, ok := auth.Get(); ok {
		res := []parcelapi.IntegrityType{}
		for _, typ := range types {
			integrity, ok := integrityTypes[typ]
			if !ok {
				vals.Issuef("authentication-type", "unknown type %q", typ)

				continue
			}
			res = append(res, integrity)
		}
		if res = lo.Uniq(res); len(res) > 0 {
			p.Data.IntegrityType = meta.Global(res)
		}
	}

	for _, kc := range vals.List("keychain", "key-chain") {
		p.Data.Keychain = append(p.Data.Keychain, parcelapi.SecurityKeychain{
			Name: kc.String("name"),
			ID:   Lookup[uint32](kc, "keyid", "id"),
		})
	}

	for _, key := range vals.List("key") {
		p.Data.Key = append(p.Data.Key, parcelapi.SecurityKey{
			ID:                Lookup[uint8](key, "id"),
			Name:              key.String("chain-name", "name"),
			SendID:            Lookup[uint8](key, "send-id"),
			RecvID:            Lookup[uint8](key, "recv-id"),
			IncludeTCPOptions: key.Bool("include-tcp-options"),
			AcceptAOMismatch:  key.Bool("accept-ao-mismatch"),
			KeyString:         key.String("key-string"),
		})
	}

	return p, nil
}
