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
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"go.githedgehog.com/catalystwan/pkg/convert"
	"go.githedgehog.com/catalystwan/pkg/migrate"
)

// Migrator is where templates are collected from and profiles are pushed to, e.g. manager.Session
type Migrator interface {
	migrate.Source
	migrate.Target
}

type MigrateIn struct {
	DryRun         bool
	ProfilePrefix  string
	MaxConcurrency int
}

type MigrateOut struct {
	Profiles []*migrate.Profile  `json:"profiles,omitempty"`
	Report   *migrate.Report     `json:"report"`
	Push     *migrate.PushResult `json:"push,omitempty"`

	pushErr error
}

func (out *MigrateOut) Errors() []error {
	if out.pushErr != nil {
		return []error{out.pushErr}
	}

	return nil
}

func (out *MigrateOut) MarshalText(_ time.Time) (string, error) {
	str := &strings.Builder{}
	red := colorFor(color.FgRed)

	data := [][]string{}
	for _, e := range out.Report.Entries {
		data = append(data, []string{
			e.TemplateName,
			string(e.TemplateType),
			string(e.ParcelType),
			colorStatus(e.Status),
			strings.Join(e.DeviceTemplates, "\n"),
			strings.Join(e.Info, "\n"),
		})
	}
	str.WriteString("Conversions:\n")
	str.WriteString(RenderTable([]string{"Template", "Type", "Parcel", "Status", "Device templates", "Info"}, data))

	if len(out.Report.Skipped) > 0 {
		data = [][]string{}
		for _, s := range out.Report.Skipped {
			data = append(data, []string{s.Kind, s.Name, s.Reason})
		}
		str.WriteString("\nSkipped:\n")
		str.WriteString(RenderTable([]string{"Kind", "Name", "Reason"}, data))
	}

	data = [][]string{}
	if out.Push != nil {
		for _, p := range out.Push.Profiles {
			status := "created"
			if out.Push.DryRun {
				status = "dry-run"
			}
			failed := 0
			for _, parcel := range p.Parcels {
				if parcel.Error != "" {
					failed++
				}
			}
			if p.Error != "" {
				status = red(p.Error)
			} else if failed > 0 {
				status = red(fmt.Sprintf("%d parcels failed", failed))
			}

			data = append(data, []string{p.Name, string(p.Type), fmt.Sprint(len(p.Parcels)), p.ID, status})
		}
	} else {
		for _, p := range out.Profiles {
			data = append(data, []string{p.Name, string(p.Type), fmt.Sprint(p.ParcelCount()), "", ""})
		}
	}
	str.WriteString("\nProfiles:\n")
	str.WriteString(RenderTable([]string{"Name", "Type", "Parcels", "ID", "Status"}, data))

	summary := out.Report.Summary()
	fmt.Fprintf(str, "\nTemplates complete: %d, partial: %d, failed: %d, skipped: %d\n",
		summary[convert.StatusComplete], summary[convert.StatusPartial], summary[convert.StatusFailed], len(out.Report.Skipped))
	if out.Push != nil {
		fmt.Fprintf(str, "Objects created: %d, failed: %d\n", out.Push.Created, out.Push.Failed)
	}

	return str.String(), nil
}

// Migrate returns a Func collecting the templates, transforming them into profiles and pushing them
func Migrate(m Migrator) Func[MigrateIn, *MigrateOut] {
	return func(ctx context.Context, in MigrateIn) (*MigrateOut, error) {
		ux1, err := migrate.Collect(ctx, m, migrate.CollectOptions{MaxConcurrency: in.MaxConcurrency})
		if err != nil {
			return nil, errors.Wrapf(err, "collecting")
		}

		ux2 := migrate.Transform(ux1, migrate.TransformOptions{ProfilePrefix: in.ProfilePrefix})

		out := &MigrateOut{
			Profiles: ux2.Profiles,
			Report:   ux2.Report,
		}

		out.Push, out.pushErr = migrate.Push(ctx, m, ux2, migrate.PushOptions{DryRun: in.DryRun})
		if out.pushErr != nil && !errors.Is(out.pushErr, migrate.ErrPushFailed) {
			return nil, errors.Wrapf(out.pushErr, "pushing")
		}

		return out, nil
	}
}
