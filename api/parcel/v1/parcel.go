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
	"encoding/json"
	"slices"
	"sort"

	"github.com/pkg/errors"
	"go.githedgehog.com/catalystwan/api/meta"
)

// ProfileType is the kind of the feature profile the parcel belongs to
type ProfileType string

const (
	ProfileTypeSystem    ProfileType = "system"
	ProfileTypeTransport ProfileType = "transport"
	ProfileTypeService   ProfileType = "service"
)

var ProfileTypes = []ProfileType{
	ProfileTypeSystem,
	ProfileTypeTransport,
	ProfileTypeService,
}

// Type is the parcel type, it's also a path suffix of the parcel API endpoint
type Type string

const (
	TypeAAA      Type = "aaa"
	TypeBanner   Type = "banner"
	TypeBasic    Type = "basic"
	TypeBFD      Type = "bfd"
	TypeGlobal   Type = "global"
	TypeLogging  Type = "logging"
	TypeNTP      Type = "ntp"
	TypeOMP      Type = "omp"
	TypeSecurity Type = "security"
	TypeSNMP     Type = "snmp"

	TypeTransportVPN               Type = "wan/vpn"
	TypeTransportInterfaceEthernet Type = "wan/vpn/interface/ethernet"
	TypeManagementVPN              Type = "management/vpn"
	TypeManagementInterface        Type = "management/vpn/interface/ethernet"

	TypeServiceVPN               Type = "lan/vpn"
	TypeServiceInterfaceEthernet Type = "lan/vpn/interface/ethernet"
	TypeDHCPServer               Type = "dhcp-server"

	TypeRoutingBGP  Type = "routing/bgp"
	TypeRoutingOSPF Type = "routing/ospf"
)

// Parcel is a single configuration object of the feature profile
type Parcel interface {
	meta.Defaultable
	meta.Validatable

	ParcelType() Type
	ProfileTypes() []ProfileType
	GetName() string
	GetDescription() string
	SetName(name, description string)
}

// SubParcel is a parcel that could be only created under the parent parcel (e.g. interface under VPN)
type SubParcel interface {
	Parcel

	ParentType() Type
}

// Base contains the fields common for all parcels
type Base struct {
	// Name is the parcel name, unique within the profile
	Name string `json:"name"`
	// Description is the parcel description, Manager requires it to be non empty
	Description string `json:"description,omitempty"`
}

func (b *Base) GetName() string {
	return b.Name
}

func (b *Base) GetDescription() string {
	return b.Description
}

func (b *Base) SetName(name, description string) {
	b.Name = name
	b.Description = description
}

const MaxNameLength = 128

func (b *Base) defaultBase() {
	if b.Description == "" {
		b.Description = b.Name
	}
}

func (b *Base) validateBase() error {
	if b.Name == "" {
		return errors.New("name is required")
	}
	if len(b.Name) > MaxNameLength {
		return errors.Errorf("name is longer than %d", MaxNameLength)
	}

	return nil
}

type typeInfo struct {
	profiles []ProfileType
	new      func() Parcel
}

var registry = map[Type]typeInfo{}

func register(typ Type, newFn func() Parcel) {
	if _, exists := registry[typ]; exists {
		panic("parcel type already registered: " + string(typ))
	}

	registry[typ] = typeInfo{
		profiles: newFn().ProfileTypes(),
		new:      newFn,
	}
}

// Types returns all known parcel types sorted
func Types() []Type {
	res := make([]Type, 0, len(registry))
	for typ := range registry {
		res = append(res, typ)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })

	return res
}

// New returns empty parcel of the given type
func New(typ Type) (Parcel, error) {
	info, ok := registry[typ]
	if !ok {
		return nil, errors.Errorf("unknown parcel type %q", typ)
	}

	return info.new(), nil
}

// Decode resolves the parcel type and parses the payload into it
func Decode(typ Type, payload []byte) (Parcel, error) {
	p, err := New(typ)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, p); err != nil {
		return nil, errors.Wrapf(err, "parsing %s parcel", typ)
	}

	return p, nil
}

// SupportedIn checks if parcel type could be created in the profile type
func SupportedIn(typ Type, profile ProfileType) bool {
	info, ok := registry[typ]

	return ok && slices.Contains(info.profiles, profile)
}

// Envelope is the Manager representation of the parcel returned by the GET requests
type Envelope struct {
	ParcelID      string          `json:"parcelId,omitempty"`
	ParcelType    Type            `json:"parcelType,omitempty"`
	CreatedBy     string          `json:"createdBy,omitempty"`
	LastUpdatedBy string          `json:"lastUpdatedBy,omitempty"`
	LastUpdatedOn int64           `json:"lastUpdatedOn,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// Parcel decodes payload based on the parcel type
func (e *Envelope) Parcel() (Parcel, error) {
	return Decode(e.ParcelType, e.Payload)
}
