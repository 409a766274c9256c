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

package migrate

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
	"go.githedgehog.com/catalystwan/pkg/convert"
)

// Parcel is the converted parcel placed into the profile, sub-parcels are created under it
type Parcel struct {
	TemplateID string           `json:"templateId,omitempty"`
	Parcel     parcelapi.Parcel `json:"parcel"`
	SubParcels []*Parcel        `json:"subParcels,omitempty"`
}

func (p *Parcel) Name() string {
	return p.Parcel.GetName()
}

func (p *Parcel) Type() parcelapi.Type {
	return p.Parcel.ParcelType()
}

// Profile is the feature profile built out of the device template
type Profile struct {
	Name             string                `json:"name"`
	Description      string                `json:"description,omitempty"`
	Type             parcelapi.ProfileType `json:"type"`
	DeviceTemplateID string                `json:"deviceTemplateId,omitempty"`
	Parcels          []*Parcel             `json:"parcels,omitempty"`
}

// ParcelCount returns the number of parcels including sub-parcels
func (p *Profile) ParcelCount() int {
	count := 0
	for _, parcel := range p.Parcels {
		count += 1 + len(parcel.SubParcels)
	}

	return count
}

// Entry is the conversion result of the feature template in the specific context
type Entry struct {
	*convert.Result `json:",inline"`

	DeviceTemplates []string `json:"deviceTemplates,omitempty"`
}

// Skipped is the template or parcel that wasn't migrated
type Skipped struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

type Report struct {
	Entries []*Entry  `json:"entries,omitempty"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Summary returns the number of the conversion results by status
func (r *Report) Summary() map[convert.Status]int {
	res := map[convert.Status]int{}
	for _, status := range convert.Statuses {
		res[status] = 0
	}
	for _, entry := range r.Entries {
		res[entry.Status]++
	}

	return res
}

func (r *Report) skip(kind, name, reason string, args ...any) {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}

	slog.Debug("Skipped", "kind", kind, "name", name, "reason", reason)

	r.Skipped = append(r.Skipped, Skipped{Name: name, Kind: kind, Reason: reason})
}

// UX2 is the feature profile based configuration ready to be pushed to the Manager
type UX2 struct {
	Profiles []*Profile `json:"profiles,omitempty"`
	Report   *Report    `json:"report"`
}

type TransformOptions struct {
	// ProfilePrefix is added to the names of all profiles
	ProfilePrefix string
}

const (
	KindDeviceTemplate  = "device-template"
	KindFeatureTemplate = "feature-template"
	KindParcel          = "parcel"
)

// anyServiceVPN is used as the parent VPN of the templates attached to the service VPN with the id set by variable
const anyServiceVPN = 1

type convKey struct {
	templateID string
	vpn        int
	hasVPN     bool
}

type transformer struct {
	ux1     *UX1
	opts    TransformOptions
	report  *Report
	entries map[convKey]*Entry
}

// Transform converts the attached feature templates of each device template into the system, transport and service
// profiles, each feature template is converted once per parent VPN, feature templates not attached to any device
// template are converted and reported only
func Transform(ux1 *UX1, opts TransformOptions) *UX2 {
	t := &transformer{
		ux1:     ux1,
		opts:    opts,
		report:  &Report{},
		entries: map[convKey]*Entry{},
	}

	ux2 := &UX2{Report: t.report}
	attached := map[string]bool{}

	for _, dt := range ux1.DeviceTemplates {
		if dt.ConfigType == ftapi.ConfigTypeFile {
			t.report.skip(KindDeviceTemplate, dt.Name, "cli template, use cli compare")

			continue
		}

		profiles, err := t.deviceTemplate(dt, attached)
		if err != nil {
			t.report.skip(KindDeviceTemplate, dt.Name, "%s", err.Error())

			continue
		}

		ux2.Profiles = append(ux2.Profiles, profiles...)
	}

	for _, ft := range ux1.FeatureTemplates {
		if attached[ft.TemplateID] || ft.FactoryDefault {
			continue
		}

		t.convert(ft, nil, "")
	}

	summary := t.report.Summary()
	slog.Info("Transformed templates", "profiles", len(ux2.Profiles),
		"complete", summary[convert.StatusComplete], "partial", summary[convert.StatusPartial],
		"failed", summary[convert.StatusFailed], "skipped", len(t.report.Skipped))

	return ux2
}

func (t *transformer) convert(ft *ftapi.FeatureTemplate, vpn *int, deviceTemplate string) *Entry {
	key := convKey{templateID: ft.TemplateID}
	if vpn != nil {
		key.vpn, key.hasVPN = *vpn, true
	}

	entry, exists := t.entries[key]
	if !exists {
		entry = &Entry{Result: convert.ParcelFromTemplate(&convert.Context{ParentVPN: vpn}, ft)}
		t.entries[key] = entry
		t.report.Entries = append(t.report.Entries, entry)
	}

	if deviceTemplate != "" && !slices.Contains(entry.DeviceTemplates, deviceTemplate) {
		entry.DeviceTemplates = append(entry.DeviceTemplates, deviceTemplate)
	}

	return entry
}

func (t *transformer) deviceTemplate(dt *ftapi.DeviceTemplate, attached map[string]bool) ([]*Profile, error) {
	profiles := map[parcelapi.ProfileType]*Profile{}
	placed := map[*ftapi.GeneralTemplate]*Parcel{}
	vpns := map[*ftapi.GeneralTemplate]int{}

	if err := dt.Walk(func(parent, gt *ftapi.GeneralTemplate) error {
		if gt.TemplateID == "" {
			return errors.Errorf("%s template reference without id", gt.TemplateType)
		}

		attached[gt.TemplateID] = true

		ft, ok := t.ux1.FeatureTemplate(gt.TemplateID)
		if !ok {
			t.report.skip(KindFeatureTemplate, gt.TemplateID, "attached to %s but not found", dt.Name)

			return nil
		}

		var parentVPN *int
		if parent != nil {
			if vpn, ok := vpns[parent]; ok {
				parentVPN = &vpn
			}
		}

		entry := t.convert(ft, parentVPN, dt.Name)
		if entry.Status == convert.StatusFailed {
			return nil
		}

		item := &Parcel{TemplateID: ft.TemplateID, Parcel: entry.Parcel}
		if vpn, ok := parcelVPN(entry.Parcel); ok {
			vpns[gt] = vpn
		}

		if sub, ok := entry.Parcel.(parcelapi.SubParcel); ok {
			parentItem := placed[parent]
			if parentItem == nil || parentItem.Type() != sub.ParentType() {
				t.report.skip(KindParcel, item.Name(), "%s requires parent %s in %s", sub.ParcelType(), sub.ParentType(), dt.Name)

				return nil
			}

			if slices.ContainsFunc(parentItem.SubParcels, func(p *Parcel) bool { return p.Type() == item.Type() && p.Name() == item.Name() }) {
				t.report.skip(KindParcel, item.Name(), "duplicate %s in %s", item.Type(), parentItem.Name())

				return nil
			}

			parentItem.SubParcels = append(parentItem.SubParcels, item)

			return nil
		}

		profileType := profileTypeFor(entry.Parcel, parentVPN)
		profile, exists := profiles[profileType]
		if !exists {
			profile = &Profile{
				Name:             t.opts.ProfilePrefix + convert.ParcelName(dt.Name) + "_" + string(profileType),
				Description:      "Migrated from device template " + dt.Name,
				Type:             profileType,
				DeviceTemplateID: dt.TemplateID,
			}
			profiles[profileType] = profile
		}

		if slices.ContainsFunc(profile.Parcels, func(p *Parcel) bool { return p.Type() == item.Type() && p.Name() == item.Name() }) {
			t.report.skip(KindParcel, item.Name(), "duplicate %s in %s", item.Type(), profile.Name)

			return nil
		}

		profile.Parcels = append(profile.Parcels, item)
		placed[gt] = item

		return nil
	}); err != nil {
		return nil, err
	}

	return lo.FilterMap(parcelapi.ProfileTypes, func(typ parcelapi.ProfileType, _ int) (*Profile, bool) {
		profile, ok := profiles[typ]

		return profile, ok
	}), nil
}

// parcelVPN returns the VPN id the templates attached under the VPN parcel should be converted with
func parcelVPN(p parcelapi.Parcel) (int, bool) {
	switch p := p.(type) {
	case *parcelapi.TransportVPN:
		return parcelapi.TransportVPNID, true
	case *parcelapi.ManagementVPN:
		return parcelapi.ManagementVPNID, true
	case *parcelapi.ServiceVPN:
		if id, ok := p.Data.VPNID.Get(); ok {
			return int(id), true
		}

		return anyServiceVPN, true
	}

	return 0, false
}

func profileTypeFor(p parcelapi.Parcel, parentVPN *int) parcelapi.ProfileType {
	types := p.ProfileTypes()
	if len(types) == 1 {
		return types[0]
	}

	if parentVPN != nil && *parentVPN != parcelapi.TransportVPNID && *parentVPN != parcelapi.ManagementVPNID &&
		slices.Contains(types, parcelapi.ProfileTypeService) {
		return parcelapi.ProfileTypeService
	}
	if slices.Contains(types, parcelapi.ProfileTypeTransport) {
		return parcelapi.ProfileTypeTransport
	}

	return types[0]
}
