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
	"strings"

	"github.com/pkg/errors"
	"go.githedgehog.com/catalystwan/api/meta"
	"go.githedgehog.com/catalystwan/pkg/util/iputil"
)

type DHCPStaticLease struct {
	MACAddress meta.Value[string] `json:"macAddress,omitzero"`
	IP         meta.Value[string] `json:"ip,omitzero"`
}

type DHCPOptionKind string

const (
	DHCPOptionASCII DHCPOptionKind = "ascii"
	DHCPOptionHex   DHCPOptionKind = "hex"
	DHCPOptionIP    DHCPOptionKind = "ip"
)

// DHCPOption is the custom DHCP option, exactly one of the ascii, hex or ip values should be set
type DHCPOption struct {
	Code  meta.Value[uint8]    `json:"code,omitzero"`
	ASCII meta.Value[string]   `json:"ascii,omitzero"`
	Hex   meta.Value[string]   `json:"hex,omitzero"`
	IP    meta.Value[[]string] `json:"ip,omitzero"`
}

// Kind returns the option variant or empty string if there is no single one
func (o *DHCPOption) Kind() DHCPOptionKind {
	kinds := []DHCPOptionKind{}
	if !o.ASCII.IsZero() {
		kinds = append(kinds, DHCPOptionASCII)
	}
	if !o.Hex.IsZero() {
		kinds = append(kinds, DHCPOptionHex)
	}
	if !o.IP.IsZero() {
		kinds = append(kinds, DHCPOptionIP)
	}

	if len(kinds) != 1 {
		return ""
	}

	return kinds[0]
}

// DHCPServerData defines the DHCP server of the service VPN interface
type DHCPServerData struct {
	AddressPool    Prefix               `json:"addressPool"`
	Exclude        meta.Value[[]string] `json:"exclude,omitzero"`
	LeaseTime      meta.Value[uint32]   `json:"leaseTime,omitzero"`
	InterfaceMTU   meta.Value[uint16]   `json:"interfaceMtu,omitzero"`
	DomainName     meta.Value[string]   `json:"domainName,omitzero"`
	DefaultGateway meta.Value[string]   `json:"defaultGateway,omitzero"`
	DNSServers     meta.Value[[]string] `json:"dnsServers,omitzero"`
	TFTPServers    meta.Value[[]string] `json:"tftpServers,omitzero"`
	StaticLease    []DHCPStaticLease    `json:"staticLease,omitempty"`
	OptionCode     []DHCPOption         `json:"optionCode,omitempty"`
}

type DHCPServer struct {
	Base `json:",inline"`
	Data DHCPServerData `json:"data"`
}

var _ Parcel = (*DHCPServer)(nil)

func init() {
	register(TypeDHCPServer, func() Parcel { return &DHCPServer{} })
}

func (p *DHCPServer) ParcelType() Type {
	return TypeDHCPServer
}

func (p *DHCPServer) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeService}
}

func (p *DHCPServer) Default() {
	p.defaultBase()

	p.Data.LeaseTime = p.Data.LeaseTime.OrDefault(86400)
	p.Data.InterfaceMTU = p.Data.InterfaceMTU.OrDefault(1500)
}

func (p *DHCPServer) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	d := &p.Data
	if err := d.AddressPool.Validate("addressPool"); err != nil {
		return err
	}
	if err := meta.ValidateRange("leaseTime", d.LeaseTime, 60, 31536000); err != nil {
		return err
	}
	if err := meta.ValidateRange("interfaceMtu", d.InterfaceMTU, 68, 65535); err != nil {
		return err
	}
	if err := validateIPv4("defaultGateway", d.DefaultGateway); err != nil {
		return err
	}
	if err := validateIPv4List("dnsServers", d.DNSServers); err != nil {
		return err
	}
	if err := validateIPv4List("tftpServers", d.TFTPServers); err != nil {
		return err
	}

	pool := ""
	if addr, ok := d.AddressPool.Address.Get(); ok {
		if mask, ok := d.AddressPool.Mask.Get(); ok {
			prefix, err := iputil.PrefixFromAddrMask(addr, mask)
			if err != nil {
				return errors.Wrapf(err, "addressPool")
			}
			pool = prefix
		}
	}

	if excludes, ok := d.Exclude.Get(); ok && pool != "" {
		for _, exclude := range excludes {
			in, err := iputil.Contains(pool, exclude)
			if err != nil {
				return errors.Wrapf(err, "exclude")
			}
			if !in {
				return errors.Errorf("exclude: %q is outside of the pool %s", exclude, pool)
			}
		}
	}

	for idx, lease := range d.StaticLease {
		if err := meta.ValidateRequired("staticLease.macAddress", lease.MACAddress); err != nil {
			return errors.Wrapf(err, "static lease %d", idx)
		}
		if err := meta.ValidateRequired("staticLease.ip", lease.IP); err != nil {
			return errors.Wrapf(err, "static lease %d", idx)
		}
		if err := validateIPv4("staticLease.ip", lease.IP); err != nil {
			return errors.Wrapf(err, "static lease %d", idx)
		}
	}

	for idx, opt := range d.OptionCode {
		if err := meta.ValidateRequired("optionCode.code", opt.Code); err != nil {
			return errors.Wrapf(err, "option %d", idx)
		}
		if err := meta.ValidateRange("optionCode.code", opt.Code, 1, 254); err != nil {
			return errors.Wrapf(err, "option %d", idx)
		}

		switch opt.Kind() {
		case DHCPOptionASCII:
		case DHCPOptionHex:
			if hex, ok := opt.Hex.Get(); ok && strings.Trim(strings.ToLower(hex), "0123456789abcdef") != "" {
				return errors.Errorf("option %d: %q is not a hex string", idx, hex)
			}
		case DHCPOptionIP:
			if err := validateIPv4List("optionCode.ip", opt.IP); err != nil {
				return errors.Wrapf(err, "option %d", idx)
			}
		default:
			return errors.Errorf("option %d: exactly one of ascii, hex or ip is required", idx)
		}
	}

	return nil
}
