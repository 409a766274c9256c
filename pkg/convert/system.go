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
	"log/slog"

	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
)

func init() {
	register(bannerConverter{})
	register(basicConverter{})
	register(ntpConverter{})
	register(loggingConverter{})
	register(bfdConverter{})
	register(ompConverter{})
}

type bannerConverter struct{}

func (bannerConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeBanner}
}

func (bannerConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.Banner{}
	p.Data.Login = vals.String("login")
	p.Data.MOTD = vals.String("motd")

	return p, nil
}

type basicConverter struct{}

// systemDeviceValues are configured per device outside of the basic parcel
var systemDeviceValues = []string{
	"host-name", "system-ip", "site-id", "device-groups", "controller-group-list",
	"overlay-id", "region-id", "secondary-region", "role", "sp-organization-name", "organization-name",
}

func (basicConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeSystem}
}

func (basicConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.Basic{}

	for _, key := range systemDeviceValues {
		if vals.Has(key) {
			slog.Debug("Skipping device specific system value", "key", key)
			vals.Consume(key)
		}
	}

	p.Data.Clock.Timezone = vals.String("clock/timezone", "timezone")
	p.Data.GPSLocation.Latitude = Lookup[float64](vals, "gps-location/latitude", "latitude")
	p.Data.GPSLocation.Longitude = Lookup[float64](vals, "gps-location/longitude", "longitude")
	p.Data.OnDemandEnable = vals.Bool("on-demand/enable")
	p.Data.OnDemandIdleTimeout = Lookup[uint32](vals, "on-demand/idle-timeout")
	p.Data.AffinityGroupNumber = Lookup[uint8](vals, "affinity-group/affinity-group-number")

	if err := vals.Into(&p.Data); err != nil {
		return nil, err
	}

	return p, nil
}

type ntpConverter struct{}

func (ntpConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeNTP}
}

func (ntpConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.NTP{}

	for _, srv := range vals.List("server") {
		p.Data.Server = append(p.Data.Server, parcelapi.NTPServer{
			Name:            srv.String("name"),
			Key:             Lookup[uint32](srv, "key"),
			VPN:             Lookup[uint16](srv, "vpn"),
			Version:         Lookup[uint8](srv, "version"),
			SourceInterface: srv.String("source-interface"),
			PreferThisNTP:   srv.Bool("prefer"),
		})
	}

	for _, key := range vals.List("keys/authentication") {
		p.Data.Authentication.AuthenticationKeys = append(p.Data.Authentication.AuthenticationKeys, parcelapi.NTPAuthenticationKey{
			KeyID:    Lookup[uint32](key, "id", "number"),
			MD5Value: key.String("md5"),
		})
	}
	p.Data.Authentication.TrustedKeys = Lookup[[]uint32](vals, "keys/trusted")

	p.Data.Leader.Enable = vals.Bool("master/enable")
	p.Data.Leader.Stratum = Lookup[uint8](vals, "master/stratum")
	p.Data.Leader.Source = vals.String("master/source")

	return p, nil
}

type loggingConverter struct{}

func (loggingConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeLogging}
}

func (loggingConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.Logging{}

	p.Data.Disk.DiskEnable = vals.Bool("disk/enable")
	p.Data.Disk.DiskFile.DiskFileSize = Lookup[uint16](vals, "disk/file/size")
	p.Data.Disk.DiskFile.DiskFileRotate = Lookup[uint8](vals, "disk/file/rotate")

	for _, prof := range vals.List("tls-profile") {
		p.Data.TLSProfile = append(p.Data.TLSProfile, parcelapi.LoggingTLSProfile{
			Profile:     prof.String("profile"),
			TLSVersion:  Lookup[parcelapi.TLSVersion](prof, "version", "tls-version"),
			AuthType:    Lookup[parcelapi.TLSAuthType](prof, "auth-type"),
			CipherSuite: prof.Strings("ciphersuite/ciphersuite-list", "cipher-suite-list"),
		})
	}

	p.Data.Server = loggingServers(vals.List("server"))
	p.Data.IPv6Server = loggingServers(vals.List("ipv6-server"))

	return p, nil
}

func loggingServers(items []*Values) []parcelapi.LoggingServer {
	res := []parcelapi.LoggingServer{}
	for _, srv := range items {
		res = append(res, parcelapi.LoggingServer{
			Name:                srv.String("name"),
			VPN:                 Lookup[uint16](srv, "vpn"),
			SourceInterface:     srv.String("source-interface"),
			Priority:            Lookup[parcelapi.LoggingPriority](srv, "priority", "logging-level"),
			TLSEnable:           srv.Bool("tls/enable-tls", "enable-tls"),
			TLSPropertiesCustom: srv.Bool("tls/tls-properties/custom-profile", "custom-profile"),
			TLSProfile:          srv.String("tls/tls-properties/profile", "profile"),
		})
	}

	return res
}

type bfdConverter struct{}

func (bfdConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeBFD}
}

func (bfdConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.BFD{}

	p.Data.Multiplier = Lookup[uint8](vals, "app-route/multiplier", "multiplier")
	p.Data.PollInterval = Lookup[uint32](vals, "app-route/poll-interval", "poll-interval")
	p.Data.DefaultDSCP = Lookup[uint8](vals, "default-dscp")

	for _, color := range vals.List("color") {
		p.Data.Colors = append(p.Data.Colors, parcelapi.BFDColor{
			Color:         Lookup[parcelapi.Color](color, "color"),
			HelloInterval: Lookup[uint32](color, "hello-interval"),
			Multiplier:    Lookup[uint8](color, "multiplier"),
			PMTUDiscovery: color.Bool("pmtu-discovery"),
			DSCP:          Lookup[uint8](color, "dscp"),
		})
	}

	return p, nil
}

type ompConverter struct{}

func (ompConverter) TemplateTypes() []ftapi.TemplateType {
	return []ftapi.TemplateType{ftapi.TemplateTypeOMP}
}

func (ompConverter) Convert(_ *Context, vals *Values) (parcelapi.Parcel, error) {
	p := &parcelapi.OMP{}

	p.Data.AdvertisementInterval = Lookup[uint16](vals, "timers/advertisement-interval")
	p.Data.GracefulRestartTimer = Lookup[uint32](vals, "timers/graceful-restart-timer")
	p.Data.EORTimer = Lookup[uint16](vals, "timers/eor-timer")
	p.Data.Holdtime = Lookup[uint16](vals, "timers/holdtime")

	if vals.Has("advertise") {
		p.Data.AdvertiseIPv4 = ompAdvertise(vals, vals.List("advertise"))
	}
	if vals.Has("ipv6-advertise") {
		p.Data.AdvertiseIPv6 = ompAdvertise(vals, vals.List("ipv6-advertise"))
	}

	if err := vals.Into(&p.Data); err != nil {
		return nil, err
	}

	return p, nil
}

// ompAdvertise converts list of the advertised protocols into the flags, protocols not listed aren't advertised
func ompAdvertise(vals *Values, items []*Values) parcelapi.OMPAdvertise {
	res := parcelapi.OMPAdvertise{}
	flags := map[string]*meta.Value[bool]{
		"bgp":       &res.BGP,
		"ospf":      &res.OSPF,
		"ospfv3":    &res.OSPFv3,
		"connected": &res.Connected,
		"static":    &res.Static,
		"eigrp":     &res.EIGRP,
		"lisp":      &res.LISP,
		"isis":      &res.ISIS,
	}
	for _, flag := range flags {
		*flag = meta.Global(false)
	}

	for _, item := range items {
		if route, ok := item.Pop("route"); ok {
			item.Issuef("route", "route selection %v isn't supported, all routes advertised", route)
		}

		proto := Lookup[string](item, "protocol")
		name, ok := proto.Get()
		if !ok {
			if proto.IsVariable() {
				item.Issuef("protocol", "variable isn't supported")
			}

			continue
		}

		flag, ok := flags[meta.CanonicalKey(name)]
		if !ok {
			vals.Issuef("advertise", "protocol %q isn't supported", name)

			continue
		}
		*flag = meta.Global(true)
	}

	return res
}
