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

// Package migrate moves feature and device templates into feature profiles and parcels
package migrate

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/pkg/convert"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxConcurrency = 4

// Source is where templates are collected from, it's implemented by manager.Session
type Source interface {
	ListFeatureTemplates(ctx context.Context) ([]ftapi.FeatureTemplateInfo, error)
	GetFeatureTemplate(ctx context.Context, id string) (*ftapi.FeatureTemplate, error)
	ListDeviceTemplates(ctx context.Context) ([]ftapi.DeviceTemplateInfo, error)
	GetDeviceTemplate(ctx context.Context, id string) (*ftapi.DeviceTemplate, error)
}

// UX1 is the legacy configuration collected from the Manager
type UX1 struct {
	FeatureTemplates []*ftapi.FeatureTemplate `json:"featureTemplates,omitempty"`
	DeviceTemplates  []*ftapi.DeviceTemplate  `json:"deviceTemplates,omitempty"`
}

func (ux1 *UX1) FeatureTemplate(id string) (*ftapi.FeatureTemplate, bool) {
	idx := slices.IndexFunc(ux1.FeatureTemplates, func(t *ftapi.FeatureTemplate) bool { return t.TemplateID == id })
	if idx < 0 {
		return nil, false
	}

	return ux1.FeatureTemplates[idx], true
}

type CollectOptions struct {
	MaxConcurrency int
	// SkipUnsupported doesn't fetch definitions of the feature templates that couldn't be converted
	SkipUnsupported bool
}

// Collect fetches all feature templates with definitions and all device templates
func Collect(ctx context.Context, src Source, opts CollectOptions) (*UX1, error) {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}

	start := time.Now()

	ftInfos, err := src.ListFeatureTemplates(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "collecting feature templates")
	}

	dtInfos, err := src.ListDeviceTemplates(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "collecting device templates")
	}

	supported := convert.SupportedTemplateTypes()

	ux1 := &UX1{}
	lock := sync.Mutex{}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.MaxConcurrency)

	for _, info := range ftInfos {
		if opts.SkipUnsupported && !slices.Contains(supported, info.TemplateType) {
			slog.Debug("Skipping unsupported feature template", "name", info.Name, "type", info.TemplateType)

			continue
		}

		eg.Go(func() error {
			tmpl, err := src.GetFeatureTemplate(egCtx, info.TemplateID)
			if err != nil {
				return err //nolint:wrapcheck
			}
			if tmpl.TemplateType == "" {
				tmpl.FeatureTemplateInfo = info
			}

			lock.Lock()
			ux1.FeatureTemplates = append(ux1.FeatureTemplates, tmpl)
			lock.Unlock()

			return nil
		})
	}

	for _, info := range dtInfos {
		eg.Go(func() error {
			tmpl, err := src.GetDeviceTemplate(egCtx, info.TemplateID)
			if err != nil {
				return err //nolint:wrapcheck
			}
			if tmpl.Name == "" {
				tmpl.DeviceTemplateInfo = info
			}

			lock.Lock()
			ux1.DeviceTemplates = append(ux1.DeviceTemplates, tmpl)
			lock.Unlock()

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, errors.Wrapf(err, "collecting templates")
	}

	slices.SortFunc(ux1.FeatureTemplates, func(a, b *ftapi.FeatureTemplate) int {
		return convert.CompareNatural(a.Name, b.Name)
	})
	slices.SortFunc(ux1.DeviceTemplates, func(a, b *ftapi.DeviceTemplate) int {
		return convert.CompareNatural(a.Name, b.Name)
	})

	slog.Info("Collected templates", "feature", len(ux1.FeatureTemplates), "device", len(ux1.DeviceTemplates), "took", time.Since(start))

	return ux1, nil
}
