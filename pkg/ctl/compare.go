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
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/pkg/clitemplate"
)

type DeviceTemplateGetter interface {
	GetDeviceTemplate(ctx context.Context, id string) (*ftapi.DeviceTemplate, error)
}

type CompareIn struct {
	// TemplatePath is the file with the CLI template, alternative to DeviceTemplateID
	TemplatePath string
	// DeviceTemplateID is the CLI device template on the Manager
	DeviceTemplateID string
	// RunningPath is the file with the running config of the device
	RunningPath string
	Context     int
}

type CompareOut struct {
	Template string `json:"template"`
	Running  string `json:"running"`
	Same     bool   `json:"same"`
	Diff     string `json:"diff,omitempty"`
}

func (out *CompareOut) MarshalText(_ time.Time) (string, error) {
	if out.Same {
		return "No differences between " + out.Template + " and " + out.Running + "\n", nil
	}

	red := colorFor(color.FgRed)
	green := colorFor(color.FgGreen)
	cyan := colorFor(color.FgCyan)

	str := &strings.Builder{}
	for _, line := range strings.SplitAfter(out.Diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			str.WriteString(line)
		case strings.HasPrefix(line, "@@"):
			str.WriteString(cyan(strings.TrimSuffix(line, "\n")) + "\n")
		case strings.HasPrefix(line, "-"):
			str.WriteString(red(strings.TrimSuffix(line, "\n")) + "\n")
		case strings.HasPrefix(line, "+"):
			str.WriteString(green(strings.TrimSuffix(line, "\n")) + "\n")
		default:
			str.WriteString(line)
		}
	}

	return str.String(), nil
}

// Compare returns a Func comparing the CLI template with the running config, getter is only needed if the template
// is loaded from the Manager
func Compare(getter DeviceTemplateGetter) Func[CompareIn, *CompareOut] {
	return func(ctx context.Context, in CompareIn) (*CompareOut, error) {
		if in.RunningPath == "" {
			return nil, errors.New("running config file is required")
		}

		var tmpl *clitemplate.Template
		switch {
		case in.TemplatePath != "" && in.DeviceTemplateID != "":
			return nil, errors.New("template file and device template are mutually exclusive")
		case in.TemplatePath != "":
			var err error
			tmpl, err = clitemplate.Load(in.TemplatePath)
			if err != nil {
				return nil, errors.Wrapf(err, "loading template")
			}
		case in.DeviceTemplateID != "":
			if getter == nil {
				return nil, errors.New("manager connection is required for device template")
			}

			dt, err := getter.GetDeviceTemplate(ctx, in.DeviceTemplateID)
			if err != nil {
				return nil, errors.Wrapf(err, "getting device template")
			}

			tmpl, err = clitemplate.FromDeviceTemplate(dt)
			if err != nil {
				return nil, err //nolint:wrapcheck
			}
		default:
			return nil, errors.New("template file or device template is required")
		}

		running, err := clitemplate.Load(in.RunningPath)
		if err != nil {
			return nil, errors.Wrapf(err, "loading running config")
		}

		diff, err := tmpl.Compare(running, in.Context)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return &CompareOut{
			Template: tmpl.Name,
			Running:  running.Name,
			Same:     diff == "",
			Diff:     diff,
		}, nil
	}
}
