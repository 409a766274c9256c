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

package migrate_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
	"go.githedgehog.com/catalystwan/pkg/manager"
	"go.githedgehog.com/catalystwan/pkg/manager/managertest"
	"go.githedgehog.com/catalystwan/pkg/migrate"
)

func newSession(t *testing.T) (*managertest.Server, *manager.Session) {
	t.Helper()

	fake := managertest.NewServer(managertest.Options{})
	t.Cleanup(fake.Close)

	for _, ft := range testUX1(t).FeatureTemplates {
		fake.AddFeatureTemplate(ft)
	}
	for _, dt := range testUX1(t).DeviceTemplates {
		fake.AddDeviceTemplate(dt)
	}

	session, err := manager.NewSession(t.Context(), manager.Options{
		URL:      fake.URL,
		Username: managertest.DefaultUsername,
		Password: managertest.DefaultPassword,
	})
	require.NoError(t, err)

	return fake, session
}

func TestCollect(t *testing.T) {
	_, session := newSession(t)

	ux1, err := migrate.Collect(t.Context(), session, migrate.CollectOptions{MaxConcurrency: 2})
	require.NoError(t, err)
	require.Len(t, ux1.FeatureTemplates, 8)
	require.Len(t, ux1.DeviceTemplates, 2)
	require.Equal(t, "BGP", ux1.FeatureTemplates[0].Name)
	require.Equal(t, "Branch", ux1.DeviceTemplates[0].Name)

	ft, ok := ux1.FeatureTemplate("ft-vpn10")
	require.True(t, ok)
	require.NotEmpty(t, ft.Definition)

	ux1, err = migrate.Collect(t.Context(), session, migrate.CollectOptions{SkipUnsupported: true})
	require.NoError(t, err)
	require.Len(t, ux1.FeatureTemplates, 7)
}

func TestCollectAndPush(t *testing.T) {
	fake, session := newSession(t)

	ux1, err := migrate.Collect(t.Context(), session, migrate.CollectOptions{})
	require.NoError(t, err)

	ux2 := migrate.Transform(ux1, migrate.TransformOptions{})

	res, err := migrate.Push(t.Context(), session, ux2, migrate.PushOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, res.Failed)
	require.Equal(t, 3+6, res.Created)

	profiles := fake.Profiles()
	require.Len(t, profiles, 3)
	require.Equal(t, "Branch_service", profiles[0].Name)
	require.Equal(t, "Branch_system", profiles[1].Name)
	require.Equal(t, "Branch_transport", profiles[2].Name)

	service := fake.Parcels(profiles[0].ID)
	require.Len(t, service, 3)
	require.Equal(t, parcelapi.TypeServiceVPN, service[0].Type)
	require.Equal(t, parcelapi.TypeServiceInterfaceEthernet, service[1].Type)
	require.Equal(t, service[0].ID, service[1].ParentID)
	require.Equal(t, parcelapi.TypeRoutingBGP, service[2].Type)

	// pushing again conflicts on the profile names
	res, err = migrate.Push(t.Context(), session, ux2, migrate.PushOptions{})
	require.ErrorIs(t, err, migrate.ErrPushFailed)
	require.Equal(t, 3+6, res.Failed)
	require.NotEmpty(t, res.Profiles[0].Error)
}

type recordingTarget struct {
	calls      []string
	failParcel parcelapi.Type
}

func (r *recordingTarget) CreateFeatureProfile(_ context.Context, typ parcelapi.ProfileType, name, _ string) (string, error) {
	r.calls = append(r.calls, "profile "+string(typ)+" "+name)

	return "profile-" + name, nil
}

func (r *recordingTarget) CreateParcel(_ context.Context, _ parcelapi.ProfileType, profileID string, p parcelapi.Parcel) (string, error) {
	r.calls = append(r.calls, "parcel "+profileID+" "+string(p.ParcelType()))
	if p.ParcelType() == r.failParcel {
		return "", errors.New("rejected")
	}

	return "parcel-" + p.GetName(), nil
}

func (r *recordingTarget) CreateSubParcel(_ context.Context, _ parcelapi.ProfileType, _, parentID string, p parcelapi.SubParcel) (string, error) {
	r.calls = append(r.calls, "sub-parcel "+parentID+" "+string(p.ParcelType()))

	return "parcel-" + p.GetName(), nil
}

func TestPushDryRun(t *testing.T) {
	target := &recordingTarget{}
	ux2 := migrate.Transform(testUX1(t), migrate.TransformOptions{})

	res, err := migrate.Push(t.Context(), target, ux2, migrate.PushOptions{DryRun: true})
	require.NoError(t, err)
	require.True(t, res.DryRun)
	require.Empty(t, target.calls)
	require.Equal(t, 3+6, res.Created)
	require.Len(t, res.Profiles, 3)
	require.Empty(t, res.Profiles[0].ID)
}

func TestPushOrder(t *testing.T) {
	target := &recordingTarget{}
	ux2 := migrate.Transform(testUX1(t), migrate.TransformOptions{})

	_, err := migrate.Push(t.Context(), target, ux2, migrate.PushOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{
		"profile system Branch_system",
		"parcel profile-Branch_system banner",
		"profile transport Branch_transport",
		"parcel profile-Branch_transport wan/vpn",
		"sub-parcel parcel-VPN0 wan/vpn/interface/ethernet",
		"profile service Branch_service",
		"parcel profile-Branch_service lan/vpn",
		"parcel profile-Branch_service routing/bgp",
		"sub-parcel parcel-VPN10 lan/vpn/interface/ethernet",
	}, target.calls)
}

func TestPushParentFailed(t *testing.T) {
	target := &recordingTarget{failParcel: parcelapi.TypeTransportVPN}
	ux2 := migrate.Transform(testUX1(t), migrate.TransformOptions{})

	res, err := migrate.Push(t.Context(), target, ux2, migrate.PushOptions{})
	require.ErrorIs(t, err, migrate.ErrPushFailed)
	require.Equal(t, 2, res.Failed)

	transport := res.Profiles[1]
	require.Equal(t, "rejected", transport.Parcels[0].Error)
	require.Equal(t, "parent VPN0 wasn't created", transport.Parcels[1].Error)
	require.NotContains(t, target.calls, "sub-parcel parcel-VPN0 wan/vpn/interface/ethernet")
}
