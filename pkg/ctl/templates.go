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

package ctl

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/pkg/convert"
)

type TemplateLister interface {
	ListFeatureTemplates(ctx context.Context) ([]ftapi.FeatureTemplateInfo, error)
	ListDeviceTemplates(ctx context.Context) ([]ftapi.DeviceTemplateInfo, error)
}

type TemplatesIn struct {
	// Type filters feature templates by type
	Type string
	// SkipDefault hides factory default templates
	SkipDefault bool
}

type TemplatesOut struct {
	FeatureTemplates []ftapi.FeatureTemplateInfo `json:"featureTemplates"`
	DeviceTemplates  []ftapi.DeviceTemplateInfo  `json:"deviceTemplates"`
}

func (out *TemplatesOut) MarshalText(now time.Time) (string, error) {
	str := &strings.Builder{}
	supported := convert.SupportedTemplateTypes()
	red := colorFor(color.FgRed)

	data := [][]string{}
	for _, t := range out.FeatureTemplates {
		conv := yesNo(slices.Contains(supported, t.TemplateType))
		if conv == "no" {
			conv = red(conv)
		}

		data = append(data, []string{
			t.Name,
			string(t.TemplateType),
			fmt.Sprint(t.DevicesAttached),
			yesNo(t.FactoryDefault),
			conv,
			HumanizeTime(now, t.LastUpdated()),
		})
	}
	str.WriteString("Feature templates:\n")
	str.WriteString(RenderTable([]string{"Name", "Type", "Devices", "Default", "Convertible", "Updated"}, data))

	data = [][]string{}
	for _, t := range out.DeviceTemplates {
		data = append(data, []string{
			t.Name,
			t.DeviceType,
			string(t.ConfigType),
			yesNo(t.FactoryDefault),
			HumanizeTime(now, t.LastUpdated()),
		})
	}
	str.WriteString("\nDevice templates:\n")
	str.WriteString(RenderTable([]string{"Name", "Device", "Config", "Default", "Updated"}, data))

	return str.String(), nil
}

// Templates returns a Func listing the templates using the lister, e.g. manager.Session
func Templates(lister TemplateLister) Func[TemplatesIn, *TemplatesOut] {
	return func(ctx context.Context, in TemplatesIn) (*TemplatesOut, error) {
		fts, err := lister.ListFeatureTemplates(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "listing feature templates")
		}

		dts, err := lister.ListDeviceTemplates(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "listing device templates")
		}

		out := &TemplatesOut{
			FeatureTemplates: slices.DeleteFunc(fts, func(t ftapi.FeatureTemplateInfo) bool {
				return (in.Type != "" && string(t.TemplateType) != in.Type) || (in.SkipDefault && t.FactoryDefault)
			}),
			DeviceTemplates: slices.DeleteFunc(dts, func(t ftapi.DeviceTemplateInfo) bool {
				return in.SkipDefault && t.FactoryDefault
			}),
		}

		slices.SortFunc(out.FeatureTemplates, func(a, b ftapi.FeatureTemplateInfo) int {
			return convert.CompareNatural(a.Name, b.Name)
		})
		slices.SortFunc(out.DeviceTemplates, func(a, b ftapi.DeviceTemplateInfo) int {
			return convert.CompareNatural(a.Name, b.Name)
		})

		return out, nil
	}
}
