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

// Package clitemplate handles CLI (file based) device templates and compares them with the running configs
package clitemplate

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
)

const DefaultContextLines = 3

type Template struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DeviceModel string `json:"deviceModel,omitempty"`
	Config      string `json:"config"`
}

// Load reads the CLI config from the file, template is named after the file
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading cli config %s", path)
	}

	return &Template{
		Name:   path,
		Config: string(data),
	}, nil
}

// FromDeviceTemplate returns the CLI template of the device template with the file config type
func FromDeviceTemplate(dt *ftapi.DeviceTemplate) (*Template, error) {
	if dt == nil {
		return nil, errors.New("device template is nil")
	}
	if dt.ConfigType != ftapi.ConfigTypeFile {
		return nil, errors.Errorf("device template %s isn't a cli template (config type %q)", dt.Name, dt.ConfigType)
	}

	return &Template{
		Name:        dt.Name,
		Description: dt.Description,
		DeviceModel: dt.DeviceType,
		Config:      dt.Configuration,
	}, nil
}

// Normalize drops comment (!) and empty lines and trailing spaces so only meaningful config lines are compared
func Normalize(config string) string {
	config = strings.ReplaceAll(config, "\r\n", "\n")

	b := strings.Builder{}
	for _, line := range strings.Split(config, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "!") {
			continue
		}

		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

// Compare returns the unified diff from the template config to the other config, empty if they're the same
func (t *Template) Compare(other *Template, contextLines int) (string, error) {
	return Compare(t, other, contextLines)
}

// Compare returns the unified diff between normalized configs of two templates, empty if they're the same
func Compare(a, b *Template, contextLines int) (string, error) {
	if a == nil || b == nil {
		return "", errors.New("both templates are required")
	}
	if contextLines < 0 {
		contextLines = DefaultContextLines
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(Normalize(a.Config)),
		B:        difflib.SplitLines(Normalize(b.Config)),
		FromFile: a.Name,
		ToFile:   b.Name,
		Context:  contextLines,
	})
	if err != nil {
		return "", errors.Wrapf(err, "comparing %s and %s", a.Name, b.Name)
	}

	return diff, nil
}
