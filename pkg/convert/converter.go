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
	"regexp"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
)

var ErrUnsupportedTemplate = errors.New("unsupported template type")

// Context is the information about the place the template is used in, it affects the resulting parcel type
type Context struct {
	// ParentVPN is the VPN id of the VPN template the converted template is attached to, nil if unknown
	ParentVPN *int
}

func (c *Context) parentVPN() (int, bool) {
	if c == nil || c.ParentVPN == nil {
		return 0, false
	}

	return *c.ParentVPN, true
}

// Converter converts flattened feature template values into the parcel
type Converter interface {
	TemplateTypes() []ftapi.TemplateType
	Convert(ctx *Context, vals *Values) (parcelapi.Parcel, error)
}

var converters = map[ftapi.TemplateType]Converter{}

func register(conv Converter) {
	for _, typ := range conv.TemplateTypes() {
		if _, exists := converters[typ]; exists {
			panic("converter already registered for " + string(typ))
		}

		converters[typ] = conv
	}
}

// Get returns converter for the template type or ErrUnsupportedTemplate
func Get(typ ftapi.TemplateType) (Converter, error) {
	conv, ok := converters[typ]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedTemplate, "%s", typ)
	}

	return conv, nil
}

// SupportedTemplateTypes returns all template types that could be converted, sorted
func SupportedTemplateTypes() []ftapi.TemplateType {
	res := lo.Keys(converters)
	slices.Sort(res)

	return res
}

type Status string

const (
	// StatusComplete means all template values are converted
	StatusComplete Status = "complete"
	// StatusPartial means parcel is created but some of the values are dropped, see Result.Info
	StatusPartial Status = "partial"
	// StatusFailed means parcel can't be created
	StatusFailed Status = "failed"
)

var Statuses = []Status{
	StatusComplete,
	StatusPartial,
	StatusFailed,
}

// Result is the outcome of the single feature template conversion
type Result struct {
	TemplateID   string             `json:"templateId,omitempty"`
	TemplateName string             `json:"templateName,omitempty"`
	TemplateType ftapi.TemplateType `json:"templateType,omitempty"`
	ParcelType   parcelapi.Type     `json:"parcelType,omitempty"`
	Parcel       parcelapi.Parcel   `json:"parcel,omitempty"`
	Status       Status             `json:"status"`
	Info         []string           `json:"info,omitempty"`

	// Err is the failure reason for the failed results
	Err error `json:"-"`
}

func (r *Result) fail(err error) *Result {
	r.Status = StatusFailed
	r.Err = err
	r.Info = append(r.Info, err.Error())

	slog.Debug("Template conversion failed", "name", r.TemplateName, "type", r.TemplateType, "err", err)

	return r
}

var parcelNameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// ParcelName makes the parcel name out of the template name
func ParcelName(name string) string {
	res := parcelNameDisallowed.ReplaceAllString(name, "_")
	if len(res) > parcelapi.MaxNameLength {
		res = res[:parcelapi.MaxNameLength]
	}

	return res
}

// ParcelFromTemplate converts feature template into the parcel, it never returns nil
func ParcelFromTemplate(ctx *Context, tmpl *ftapi.FeatureTemplate) *Result {
	res := &Result{
		TemplateID:   tmpl.TemplateID,
		TemplateName: tmpl.Name,
		TemplateType: tmpl.TemplateType,
	}

	conv, err := Get(tmpl.TemplateType)
	if err != nil {
		return res.fail(err)
	}

	raw, err := tmpl.Values()
	if err != nil {
		return res.fail(err)
	}

	vals := NewValues(raw)
	p, err := conv.Convert(ctx, vals)
	if err != nil {
		return res.fail(errors.Wrapf(err, "converting %s", tmpl.TemplateType))
	}

	p.SetName(ParcelName(tmpl.Name), tmpl.Description)
	p.Default()
	if err := p.Validate(); err != nil {
		return res.fail(errors.Wrapf(err, "validating %s parcel", p.ParcelType()))
	}

	res.Parcel = p
	res.ParcelType = p.ParcelType()
	res.Info = append(vals.Issues(), lo.Map(vals.Unconsumed(), func(path string, _ int) string {
		return path + ": not converted"
	})...)
	res.Status = StatusComplete
	if len(res.Info) > 0 {
		res.Status = StatusPartial
	}

	slog.Debug("Template converted", "name", tmpl.Name, "type", tmpl.TemplateType, "parcel", res.ParcelType, "status", res.Status)

	return res
}
