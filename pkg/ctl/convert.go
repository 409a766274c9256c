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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/pkg/convert"
	kyaml "sigs.k8s.io/yaml"
)

type ConvertIn struct {
	// Path is the JSON or YAML file with the feature template, list of templates or the Manager response with them
	// in the data field
	Path string
	// ParentVPN is the VPN the templates are attached to, nil if unknown
	ParentVPN *int
}

type ConvertOut struct {
	Results []*convert.Result `json:"results"`
}

func (out *ConvertOut) Summary() map[convert.Status]int {
	res := lo.SliceToMap(convert.Statuses, func(s convert.Status) (convert.Status, int) { return s, 0 })
	for _, r := range out.Results {
		res[r.Status]++
	}

	return res
}

func (out *ConvertOut) MarshalText(_ time.Time) (string, error) {
	str := &strings.Builder{}

	data := [][]string{}
	for _, r := range out.Results {
		data = append(data, []string{
			r.TemplateName,
			string(r.TemplateType),
			string(r.ParcelType),
			colorStatus(r.Status),
			strings.Join(r.Info, "\n"),
		})
	}
	str.WriteString(RenderTable([]string{"Template", "Type", "Parcel", "Status", "Info"}, data))

	summary := out.Summary()
	fmt.Fprintf(str, "\nComplete: %d, partial: %d, failed: %d\n",
		summary[convert.StatusComplete], summary[convert.StatusPartial], summary[convert.StatusFailed])

	return str.String(), nil
}

var _ Func[ConvertIn, *ConvertOut] = Convert

// Convert converts feature templates from the file without connecting to the Manager
func Convert(_ context.Context, in ConvertIn) (*ConvertOut, error) {
	if in.Path == "" {
		return nil, errors.New("templates file is required")
	}

	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading templates file %s", in.Path)
	}

	tmpls, err := ParseFeatureTemplates(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing templates file %s", in.Path)
	}

	cctx := &convert.Context{ParentVPN: in.ParentVPN}
	out := &ConvertOut{}
	for _, tmpl := range tmpls {
		out.Results = append(out.Results, convert.ParcelFromTemplate(cctx, tmpl))
	}

	return out, nil
}

// ParseFeatureTemplates accepts JSON or YAML with a single template, list of templates or {"data": [...]}
func ParseFeatureTemplates(data []byte) ([]*ftapi.FeatureTemplate, error) {
	data, err := kyaml.YAMLToJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "converting to json")
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("no templates")
	}

	tmpls := []*ftapi.FeatureTemplate{}
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &tmpls); err != nil {
			return nil, errors.Wrapf(err, "parsing template list")
		}
	case '{':
		wrapped := struct {
			Data []*ftapi.FeatureTemplate `json:"data"`
		}{}
		if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Data != nil {
			tmpls = wrapped.Data

			break
		}

		tmpl := &ftapi.FeatureTemplate{}
		if err := json.Unmarshal(data, tmpl); err != nil {
			return nil, errors.Wrapf(err, "parsing template")
		}
		tmpls = append(tmpls, tmpl)
	default:
		return nil, errors.New("expected template object or list")
	}

	for idx, tmpl := range tmpls {
		if tmpl == nil || tmpl.TemplateType == "" {
			return nil, errors.Errorf("template %d: templateType is required", idx)
		}
		if tmpl.Name == "" {
			tmpl.Name = fmt.Sprintf("%s-%d", tmpl.TemplateType, idx)
		}
	}

	return tmpls, nil
}
