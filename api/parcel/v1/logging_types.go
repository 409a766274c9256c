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

type TLSVersion string

func (TLSVersion) Choices() []string {
	return []string{"TLSv1.1", "TLSv1.2"}
}

type TLSAuthType string

func (TLSAuthType) Choices() []string {
	return []string{"Server", "Mutual"}
}

type LoggingPriority string

func (LoggingPriority) Choices() []string {
	return []string{"informational", "debugging", "notice", "warn", "error", "critical", "alert", "emergency"}
}

type LoggingDisk struct {
	DiskEnable meta.Value[bool] `json:"diskEnable,omitzero"`
	DiskFile   LoggingDiskFile  `json:"file"`
}

type LoggingDiskFile struct {
	DiskFileSize   meta.Value[uint16] `json:"diskFileSize,omitzero"`
	DiskFileRotate meta.Value[uint8]  `json:"diskFileRotate,omitzero"`
}

type LoggingTLSProfile struct {
	Profile     meta.Value[string]      `json:"profile,omitzero"`
	TLSVersion  meta.Value[TLSVersion]  `json:"tlsVersion,omitzero"`
	AuthType    meta.Value[TLSAuthType] `json:"authType,omitzero"`
	CipherSuite meta.Value[[]string]    `json:"cipherSuiteList,omitzero"`
}

type LoggingServer struct {
	Name                meta.Value[string]          `json:"name,omitzero"`
	VPN                 meta.Value[uint16]          `json:"vpn,omitzero"`
	SourceInterface     meta.Value[string]          `json:"sourceInterface,omitzero"`
	Priority            meta.Value[LoggingPriority] `json:"priority,omitzero"`
	TLSEnable           meta.Value[bool]            `json:"tlsEnable,omitzero"`
	TLSPropertiesCustom meta.Value[bool]            `json:"tlsPropertiesCustomProfile,omitzero"`
	TLSProfile          meta.Value[string]          `json:"tlsPropertiesProfile,omitzero"`
}

// LoggingData defines local and remote logging of the device
type LoggingData struct {
	// Disk is the local logging configuration
	Disk LoggingDisk `json:"disk"`
	// TLSProfile is the list of the TLS profiles used by the servers
	TLSProfile []LoggingTLSProfile `json:"tlsProfile,omitempty"`
	// Server is the list of the IPv4 syslog servers
	Server []LoggingServer `json:"server,omitempty"`
	// IPv6Server is the list of the IPv6 syslog servers
	IPv6Server []LoggingServer `json:"ipv6Server,omitempty"`
}

type Logging struct {
	Base `json:",inline"`
	Data LoggingData `json:"data"`
}

var _ Parcel = (*Logging)(nil)

func init() {
	register(TypeLogging, func() Parcel { return &Logging{} })
}

func (p *Logging) ParcelType() Type {
	return TypeLogging
}

func (p *Logging) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *Logging) Default() {
	p.defaultBase()

	d := &p.Data
	d.Disk.DiskEnable = d.Disk.DiskEnable.OrDefault(true)
	d.Disk.DiskFile.DiskFileSize = d.Disk.DiskFile.DiskFileSize.OrDefault(10)
	d.Disk.DiskFile.DiskFileRotate = d.Disk.DiskFile.DiskFileRotate.OrDefault(10)

	for idx := range d.TLSProfile {
		prof := &d.TLSProfile[idx]
		prof.TLSVersion = prof.TLSVersion.OrDefault("TLSv1.1")
		prof.AuthType = prof.AuthType.OrDefault("Server")
	}

	for _, servers := range [][]LoggingServer{d.Server, d.IPv6Server} {
		for idx := range servers {
			srv := &servers[idx]
			srv.VPN = srv.VPN.OrDefault(0)
			srv.Priority = srv.Priority.OrDefault("informational")
			srv.TLSEnable = srv.TLSEnable.OrDefault(false)
		}
	}
}

func (p *Logging) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	d := &p.Data
	if err := meta.ValidateRange("disk.file.diskFileSize", d.Disk.DiskFile.DiskFileSize, 1, 20); err != nil {
		return err
	}
	if err := meta.ValidateRange("disk.file.diskFileRotate", d.Disk.DiskFile.DiskFileRotate, 1, 10); err != nil {
		return err
	}

	profiles := map[string]bool{}
	for idx, prof := range d.TLSProfile {
		if err := meta.ValidateRequired("tlsProfile.profile", prof.Profile); err != nil {
			return errors.Wrapf(err, "tls profile %d", idx)
		}
		if err := meta.ValidateChoice("tlsProfile.tlsVersion", prof.TLSVersion); err != nil {
			return errors.Wrapf(err, "tls profile %d", idx)
		}
		if err := meta.ValidateChoice("tlsProfile.authType", prof.AuthType); err != nil {
			return errors.Wrapf(err, "tls profile %d", idx)
		}
		if name, ok := prof.Profile.Get(); ok {
			profiles[name] = true
		}
	}

	for _, servers := range [][]LoggingServer{d.Server, d.IPv6Server} {
		for idx, srv := range servers {
			if err := meta.ValidateRequired("server.name", srv.Name); err != nil {
				return errors.Wrapf(err, "server %d", idx)
			}
			if err := meta.ValidateChoice("server.priority", srv.Priority); err != nil {
				return errors.Wrapf(err, "server %d", idx)
			}
			if name, ok := srv.TLSProfile.Get(); ok && !profiles[name] {
				return errors.Errorf("server %d: unknown tls profile %q", idx, name)
			}
		}
	}

	return nil
}
