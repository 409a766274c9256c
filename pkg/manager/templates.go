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

package manager

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
)

const (
	FeatureTemplatesPath = "/dataservice/template/feature"
	DeviceTemplatesPath  = "/dataservice/template/device"
)

func (s *Session) ListFeatureTemplates(ctx context.Context) ([]ftapi.FeatureTemplateInfo, error) {
	resp := &dataResponse[[]ftapi.FeatureTemplateInfo]{}
	if err := s.Get(ctx, FeatureTemplatesPath, resp); err != nil {
		return nil, errors.Wrapf(err, "listing feature templates")
	}

	return resp.Data, nil
}

// GetFeatureTemplate returns the feature template including its definition
func (s *Session) GetFeatureTemplate(ctx context.Context, id string) (*ftapi.FeatureTemplate, error) {
	tmpl := &ftapi.FeatureTemplate{}
	if err := s.Get(ctx, FeatureTemplatesPath+"/object/"+url.PathEscape(id), tmpl); err != nil {
		return nil, errors.Wrapf(err, "getting feature template %s", id)
	}
	if tmpl.TemplateID == "" {
		tmpl.TemplateID = id
	}

	return tmpl, nil
}

func (s *Session) ListDeviceTemplates(ctx context.Context) ([]ftapi.DeviceTemplateInfo, error) {
	resp := &dataResponse[[]ftapi.DeviceTemplateInfo]{}
	if err := s.Get(ctx, DeviceTemplatesPath, resp); err != nil {
		return nil, errors.Wrapf(err, "listing device templates")
	}

	return resp.Data, nil
}

// GetDeviceTemplate returns the device template with the attached feature templates or the CLI configuration
func (s *Session) GetDeviceTemplate(ctx context.Context, id string) (*ftapi.DeviceTemplate, error) {
	tmpl := &ftapi.DeviceTemplate{}
	if err := s.Get(ctx, DeviceTemplatesPath+"/object/"+url.PathEscape(id), tmpl); err != nil {
		return nil, errors.Wrapf(err, "getting device template %s", id)
	}
	if tmpl.TemplateID == "" {
		tmpl.TemplateID = id
	}

	return tmpl, nil
}
