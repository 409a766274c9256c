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
	register(dhcpServerConverter{})
}

type dhcpServerConverter struct{}

func (dhcpServerConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeDHCPServer}
}

func (dhcpServerConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.DHCPServer{}
	d := &p.Data
	d.AddressPool = popPrefix(vals, "address-pool", "address-pool/address", "address-pool/mask")
	d.Exclude = vals.Strings("exclude")
	d.LeaseTime = Lookup[uint32](vals, "lease-time")
	d.InterfaceMTU = Lookup[uint16](vals, "options/interface-mtu", "if-mtu")
	d.DomainName = vals.String("options/domain-name", "domain-name")
	d.DefaultGateway = vals.String("options/default-gateway", "default-gateway")
	d.DNSServers = vals.Strings("options/dns-servers", "dns-servers")
	d.TFTPServers = vals.Strings("options/tftp-servers", "tftp-servers")

	for _, lease := range vals.List("static-lease") {
		d.StaticLease = append(d.StaticLease, parcelapi.DHCPStaticLease{
			MACAddress: lease.String("mac-address"),
			IP:         lease.String("ip"),
		})
	}

	for _, opt := range vals.List("options/option-code", "option-code") {
		o := parcelapi.DHCPOption{
			Code:  Lookup[uint8](opt, "code"),
			ASCII: opt.String("ascii"),
			Hex:   opt.String("hex"),
			IP:    opt.Strings("ip"),
		}
		if o.Kind() == "" {
			opt.Issuef("code", "exactly one of ascii, hex or ip value is expected, option dropped")

			continue
		}

		d.OptionCode = append(d.OptionCode, o)
	}

	return p, nil
}
