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

package manager_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	gg "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
	"go.githedgehog.com/catalystwan/pkg/manager"
	"go.githedgehog.com/catalystwan/pkg/manager/managertest"
)

var _ = gg.Describe("Session", func() {
	var fake *managertest.Server

	gg.BeforeEach(func() {
		fake = managertest.NewServer(managertest.Options{})
		gg.DeferCleanup(fake.Close)
	})

	connect := func(ctx context.Context, reg prometheus.Registerer) *manager.Session {
		s, err := manager.NewSession(ctx, manager.Options{
			URL:        fake.URL,
			Username:   managertest.DefaultUsername,
			Password:   managertest.DefaultPassword,
			Registerer: reg,
		})
		g.Expect(err).ToNot(g.HaveOccurred())

		return s
	}

	gg.Describe("Login", func() {
		gg.It("should detect the Manager version", func(ctx context.Context) {
			s := connect(ctx, nil)
			g.Expect(s.Version().String()).To(g.Equal("20.12.2"))
			g.Expect(s.RequireVersion(manager.MinParcelVersion)).To(g.Succeed())
			g.Expect(s.RequireVersion(">= 20.15")).ToNot(g.Succeed())
			g.Expect(fake.Logins()).To(g.Equal(1))
		})

		gg.It("should fail with wrong credentials", func(ctx context.Context) {
			_, err := manager.NewSession(ctx, manager.Options{
				URL:      fake.URL,
				Username: managertest.DefaultUsername,
				Password: "wrong",
			})
			g.Expect(err).To(g.MatchError(manager.ErrLoginFailed))
		})

		gg.It("should require credentials", func(ctx context.Context) {
			_, err := manager.NewSession(ctx, manager.Options{URL: fake.URL})
			g.Expect(err).To(g.HaveOccurred())
		})

		gg.It("should reject non http urls", func(ctx context.Context) {
			_, err := manager.NewSession(ctx, manager.Options{URL: "ftp://manager", Username: "a", Password: "b"})
			g.Expect(err).To(g.HaveOccurred())
		})

		gg.It("should log in again once the session is expired", func(ctx context.Context) {
			s := connect(ctx, nil)
			fake.ExpireSessions()

			wg := sync.WaitGroup{}
			for range 5 {
				wg.Add(1)
				go func() {
					defer gg.GinkgoRecover()
					defer wg.Done()

					_, err := s.ListFeatureTemplates(ctx)
					g.Expect(err).ToNot(g.HaveOccurred())
				}()
			}
			wg.Wait()

			g.Expect(fake.Logins()).To(g.BeNumerically(">=", 2))
			g.Expect(fake.Logins()).To(g.BeNumerically("<=", 6))
		})

		gg.It("should count requests", func(ctx context.Context) {
			reg := prometheus.NewRegistry()
			s := connect(ctx, reg)

			_, err := s.ListDeviceTemplates(ctx)
			g.Expect(err).ToNot(g.HaveOccurred())

			count, err := testutil.GatherAndCount(reg, "catalystwan_session_requests_total")
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(count).To(g.BeNumerically(">", 0))
		})
	})

	gg.Describe("Templates", func() {
		gg.It("should list and get feature templates", func(ctx context.Context) {
			id := fake.AddFeatureTemplate(&ftapi.FeatureTemplate{
				FeatureTemplateInfo: ftapi.FeatureTemplateInfo{
					Name:         "banner",
					TemplateType: ftapi.TemplateTypeBanner,
				},
				Definition: json.RawMessage(`{"login":{"vipType":"constant","vipValue":"hello","vipObjectType":"object"}}`),
			})

			s := connect(ctx, nil)

			list, err := s.ListFeatureTemplates(ctx)
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(list).To(g.HaveLen(1))
			g.Expect(list[0].TemplateID).To(g.Equal(id))

			tmpl, err := s.GetFeatureTemplate(ctx, id)
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(tmpl.TemplateType).To(g.Equal(ftapi.TemplateTypeBanner))

			vals, err := tmpl.Values()
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(vals).To(g.HaveKeyWithValue("login", "hello"))
		})

		gg.It("should return APIError for the missing template", func(ctx context.Context) {
			s := connect(ctx, nil)

			_, err := s.GetDeviceTemplate(ctx, "missing")
			g.Expect(manager.IsStatus(err, http.StatusNotFound)).To(g.BeTrue())

			apiErr := &manager.APIError{}
			g.Expect(errors.As(err, &apiErr)).To(g.BeTrue())
			g.Expect(apiErr.Message).To(g.Equal("device template not found"))
		})

		gg.It("should get device template with the CLI configuration", func(ctx context.Context) {
			id := fake.AddDeviceTemplate(&ftapi.DeviceTemplate{
				DeviceTemplateInfo: ftapi.DeviceTemplateInfo{
					Name:       "cli",
					ConfigType: ftapi.ConfigTypeFile,
				},
				Configuration: "hostname edge\n",
			})

			s := connect(ctx, nil)
			tmpl, err := s.GetDeviceTemplate(ctx, id)
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(tmpl.Configuration).To(g.Equal("hostname edge\n"))
		})
	})

	gg.Describe("Feature profiles", func() {
		gg.It("should create parcels and sub-parcels", func(ctx context.Context) {
			s := connect(ctx, nil)

			profileID, err := s.CreateFeatureProfile(ctx, parcelapi.ProfileTypeTransport, "transport", "")
			g.Expect(err).ToNot(g.HaveOccurred())

			profiles, err := s.ListFeatureProfiles(ctx, parcelapi.ProfileTypeTransport)
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(profiles).To(g.HaveLen(1))
			g.Expect(profiles[0].Name).To(g.Equal("transport"))

			vpn := &parcelapi.TransportVPN{}
			vpn.SetName("vpn0", "")
			vpn.Default()
			vpnID, err := s.CreateParcel(ctx, parcelapi.ProfileTypeTransport, profileID, vpn)
			g.Expect(err).ToNot(g.HaveOccurred())

			iface := &parcelapi.WANInterface{}
			iface.SetName("ge0-0", "")
			iface.Data.InterfaceName = meta.Global("GigabitEthernet0/0/0")
			iface.Default()
			ifaceID, err := s.CreateSubParcel(ctx, parcelapi.ProfileTypeTransport, profileID, vpnID, iface)
			g.Expect(err).ToNot(g.HaveOccurred())

			parcels := fake.Parcels(profileID)
			g.Expect(parcels).To(g.HaveLen(2))
			g.Expect(parcels[0].Type).To(g.Equal(parcelapi.TypeTransportVPN))
			g.Expect(parcels[1].Type).To(g.Equal(parcelapi.TypeTransportInterfaceEthernet))
			g.Expect(parcels[1].ParentID).To(g.Equal(vpnID))

			env, err := s.GetParcel(ctx, parcelapi.ProfileTypeTransport, profileID, parcelapi.TypeTransportVPN, vpnID)
			g.Expect(err).ToNot(g.HaveOccurred())
			p, err := env.Parcel()
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(p.GetName()).To(g.Equal("vpn0"))

			_, err = s.CreateParcel(ctx, parcelapi.ProfileTypeTransport, profileID, iface)
			g.Expect(err).To(g.HaveOccurred())

			g.Expect(s.DeleteParcel(ctx, parcelapi.ProfileTypeTransport, profileID, parcelapi.TypeTransportVPN, vpnID)).To(g.Succeed())
			g.Expect(fake.Parcels(profileID)).To(g.BeEmpty())
			g.Expect(ifaceID).ToNot(g.BeEmpty())

			g.Expect(s.DeleteFeatureProfile(ctx, parcelapi.ProfileTypeTransport, profileID)).To(g.Succeed())
			g.Expect(fake.Profiles()).To(g.BeEmpty())
		})

		gg.It("should reject parcels not supported in the profile", func(ctx context.Context) {
			s := connect(ctx, nil)

			profileID, err := s.CreateFeatureProfile(ctx, parcelapi.ProfileTypeSystem, "system", "")
			g.Expect(err).ToNot(g.HaveOccurred())

			vpn := &parcelapi.TransportVPN{}
			vpn.SetName("vpn0", "")
			_, err = s.CreateParcel(ctx, parcelapi.ProfileTypeSystem, profileID, vpn)
			g.Expect(err).To(g.HaveOccurred())
		})

		gg.It("should report conflicts", func(ctx context.Context) {
			s := connect(ctx, nil)

			_, err := s.CreateFeatureProfile(ctx, parcelapi.ProfileTypeSystem, "system", "")
			g.Expect(err).ToNot(g.HaveOccurred())
			_, err = s.CreateFeatureProfile(ctx, parcelapi.ProfileTypeSystem, "system", "")
			g.Expect(manager.IsStatus(err, http.StatusConflict)).To(g.BeTrue())
		})

		gg.It("should require the minimal Manager version", func(ctx context.Context) {
			old := managertest.NewServer(managertest.Options{Version: "20.9.4-li"})
			defer old.Close()

			s, err := manager.NewSession(ctx, manager.Options{
				URL:      old.URL,
				Username: managertest.DefaultUsername,
				Password: managertest.DefaultPassword,
			})
			g.Expect(err).ToNot(g.HaveOccurred())

			_, err = s.CreateFeatureProfile(ctx, parcelapi.ProfileTypeSystem, "system", "")
			g.Expect(err).To(g.HaveOccurred())
			g.Expect(old.Profiles()).To(g.BeEmpty())
		})
	})
})
