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
	"go.githedgehog.com/catalystwan/api/meta"
)

// GlobalServices is the set of the global device services
type GlobalServices struct {
	HTTPServer         meta.Value[bool]   `json:"servicesGlobalServicesIpHttpServer,omitzero"`
	HTTPSServer        meta.Value[bool]   `json:"servicesGlobalServicesIpHttpsServer,omitzero"`
	FTPPassive         meta.Value[bool]   `json:"servicesGlobalServicesIpFtpPassive,omitzero"`
	DomainLookup       meta.Value[bool]   `json:"servicesGlobalServicesIpDomainLookup,omitzero"`
	ARPProxy           meta.Value[bool]   `json:"servicesGlobalServicesArpProxy,omitzero"`
	RCMD               meta.Value[bool]   `json:"servicesGlobalServicesIpRcmd,omitzero"`
	LineVTY            meta.Value[bool]   `json:"servicesGlobalServicesIpLineVty,omitzero"`
	CDP                meta.Value[bool]   `json:"servicesGlobalServicesCdp,omitzero"`
	LLDP               meta.Value[bool]   `json:"servicesGlobalServicesLldp,omitzero"`
	SourceIntrf        meta.Value[string] `json:"servicesGlobalServicesSourceIntrf,omitzero"`
	TCPKeepalivesIn    meta.Value[bool]   `json:"globalOtherSettingsTcpKeepalivesIn,omitzero"`
	TCPKeepalivesOut   meta.Value[bool]   `json:"globalOtherSettingsTcpKeepalivesOut,omitzero"`
	TCPSmallServers    meta.Value[bool]   `json:"globalOtherSettingsTcpSmallServers,omitzero"`
	UDPSmallServers    meta.Value[bool]   `json:"globalOtherSettingsUdpSmallServers,omitzero"`
	ConsoleLogging     meta.Value[bool]   `json:"globalOtherSettingsConsoleLogging,omitzero"`
	IPSourceRoute      meta.Value[bool]   `json:"globalOtherSettingsIPSourceRoute,omitzero"`
	VTYLineLogging     meta.Value[bool]   `json:"globalOtherSettingsVtyLineLogging,omitzero"`
	SNMPIfindexPersist meta.Value[bool]   `json:"globalOtherSettingsSnmpIfindexPersist,omitzero"`
	IgnoreBOOTP        meta.Value[bool]   `json:"globalOtherSettingsIgnoreBootp,omitzero"`
	HTTPAuthentication meta.Value[string] `json:"globalSettingsHttpAuthentication,omitzero"`
	SSHVersion         meta.Value[uint8]  `json:"globalSettingsSSHVersion,omitzero"`
}

// GlobalData defines global device services
type GlobalData struct {
	Services GlobalServices `json:"servicesIp"`
}

type Global struct {
	Base `json:",inline"`
	Data GlobalData `json:"data"`
}

var _ Parcel = (*Global)(nil)

func init() {
	register(TypeGlobal, func() Parcel { return &Global{} })
}

func (p *Global) ParcelType() Type {
	return TypeGlobal
}

func (p *Global) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *Global) Default() {
	p.defaultBase()

	s := &p.Data.Services
	s.HTTPServer = s.HTTPServer.OrDefault(false)
	s.HTTPSServer = s.HTTPSServer.OrDefault(false)
	s.FTPPassive = s.FTPPassive.OrDefault(false)
	s.DomainLookup = s.DomainLookup.OrDefault(false)
	s.ARPProxy = s.ARPProxy.OrDefault(false)
	s.RCMD = s.RCMD.OrDefault(false)
	s.LineVTY = s.LineVTY.OrDefault(false)
	s.CDP = s.CDP.OrDefault(true)
	s.LLDP = s.LLDP.OrDefault(true)
	s.TCPKeepalivesIn = s.TCPKeepalivesIn.OrDefault(true)
	s.TCPKeepalivesOut = s.TCPKeepalivesOut.OrDefault(true)
	s.TCPSmallServers = s.TCPSmallServers.OrDefault(false)
	s.UDPSmallServers = s.UDPSmallServers.OrDefault(false)
	s.ConsoleLogging = s.ConsoleLogging.OrDefault(true)
	s.IPSourceRoute = s.IPSourceRoute.OrDefault(false)
	s.VTYLineLogging = s.VTYLineLogging.OrDefault(false)
	s.SNMPIfindexPersist = s.SNMPIfindexPersist.OrDefault(true)
	s.IgnoreBOOTP = s.IgnoreBOOTP.OrDefault(true)
}

func (p *Global) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	return meta.ValidateRange("globalSettingsSSHVersion", p.Data.Services.SSHVersion, 1, 2)
}
