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

package v1

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// TemplateType is the feature template type as reported by Manager, e.g. "cisco_banner"
type TemplateType string

const (
	TemplateTypeAAA          TemplateType = "cisco_aaa"
	TemplateTypeCEdgeAAA     TemplateType = "cedge_aaa"
	TemplateTypeBanner       TemplateType = "cisco_banner"
	TemplateTypeBFD          TemplateType = "cisco_bfd"
	TemplateTypeBGP          TemplateType = "cisco_bgp"
	TemplateTypeDHCPServer   TemplateType = "cisco_dhcp_server"
	TemplateTypeCEdgeGlobal  TemplateType = "cedge_global"
	TemplateTypeLogging      TemplateType = "cisco_logging"
	TemplateTypeNTP          TemplateType = "cisco_ntp"
	TemplateTypeOMP          TemplateType = "cisco_omp"
	TemplateTypeOSPF         TemplateType = "cisco_ospf"
	TemplateTypeSecurity     TemplateType = "cisco_security"
	TemplateTypeSNMP         TemplateType = "cisco_snmp"
	TemplateTypeSystem       TemplateType = "cisco_system"
	TemplateTypeVPN          TemplateType = "cisco_vpn"
	TemplateTypeVPNInterface TemplateType = "cisco_vpn_interface"
)

// ConfigType is the device template kind, either built from feature templates or a plain CLI config
type ConfigType string

const (
	ConfigTypeTemplate ConfigType = "template"
	ConfigTypeFile     ConfigType = "file"
)

// FeatureTemplateInfo is an entry of the feature template list
type FeatureTemplateInfo struct {
	// TemplateID is the Manager assigned template identifier
	TemplateID string `json:"templateId,omitempty"`
	// Name is the unique template name
	Name string `json:"templateName,omitempty"`
	// Description is the template description
	Description string `json:"templateDescription,omitempty"`
	// TemplateType is the feature type, e.g. cisco_vpn
	TemplateType TemplateType `json:"templateType,omitempty"`
	// DeviceTypes is the list of the device models the template is applicable to
	DeviceTypes []string `json:"deviceType,omitempty"`
	// FactoryDefault marks built-in templates
	FactoryDefault bool `json:"factoryDefault,omitempty"`
	// DevicesAttached is number of the devices the template is attached to
	DevicesAttached int `json:"devicesAttached,omitempty"`
	// MinVersion is the minimal template schema version
	MinVersion string `json:"templateMinVersion,omitempty"`
	// LastUpdatedBy is the user that updated the template last time
	LastUpdatedBy string `json:"lastUpdatedBy,omitempty"`
	// LastUpdatedOn is the last update timestamp in milliseconds
	LastUpdatedOn int64 `json:"lastUpdatedOn,omitempty"`
}

func (info *FeatureTemplateInfo) LastUpdated() time.Time {
	return time.UnixMilli(info.LastUpdatedOn)
}

// FeatureTemplate is the full feature template including its definition
type FeatureTemplate struct {
	FeatureTemplateInfo `json:",inline"`

	// Definition is the raw template definition with vip* encoded values, see Flatten
	Definition json.RawMessage `json:"templateDefinition,omitempty"`
}

// Values returns flattened template definition, see Flatten
func (t *FeatureTemplate) Values() (map[string]any, error) {
	if len(t.Definition) == 0 {
		return map[string]any{}, nil
	}

	def := map[string]any{}
	if err := json.Unmarshal(t.Definition, &def); err != nil {
		return nil, errors.Wrapf(err, "parsing definition of template %s", t.Name)
	}

	return Flatten(def), nil
}

// DeviceTemplateInfo is an entry of the device template list
type DeviceTemplateInfo struct {
	TemplateID     string     `json:"templateId,omitempty"`
	Name           string     `json:"templateName,omitempty"`
	Description    string     `json:"templateDescription,omitempty"`
	DeviceType     string     `json:"deviceType,omitempty"`
	DeviceRole     string     `json:"deviceRole,omitempty"`
	ConfigType     ConfigType `json:"configType,omitempty"`
	FactoryDefault bool       `json:"factoryDefault,omitempty"`
	LastUpdatedBy  string     `json:"lastUpdatedBy,omitempty"`
	LastUpdatedOn  int64      `json:"lastUpdatedOn,omitempty"`
}

func (info *DeviceTemplateInfo) LastUpdated() time.Time {
	return time.UnixMilli(info.LastUpdatedOn)
}

// GeneralTemplate is a reference to the feature template from the device template, it could have sub templates
// attached (e.g. VPN interfaces attached to the VPN)
type GeneralTemplate struct {
	TemplateID   string            `json:"templateId,omitempty"`
	TemplateType TemplateType      `json:"templateType,omitempty"`
	SubTemplates []GeneralTemplate `json:"subTemplates,omitempty"`
}

// DeviceTemplate is the full device template, for the CLI (file) templates Configuration contains the config text
type DeviceTemplate struct {
	DeviceTemplateInfo `json:",inline"`

	GeneralTemplates []GeneralTemplate `json:"generalTemplates,omitempty"`
	Configuration    string            `json:"templateConfiguration,omitempty"`
}

// Walk calls fn for each (sub)template reference with its parent reference (nil for the top level ones)
func (dt *DeviceTemplate) Walk(fn func(parent, tmpl *GeneralTemplate) error) error {
	var walk func(parent *GeneralTemplate, tmpls []GeneralTemplate) error
	walk = func(parent *GeneralTemplate, tmpls []GeneralTemplate) error {
		for idx := range tmpls {
			tmpl := &tmpls[idx]
			if err := fn(parent, tmpl); err != nil {
				return err
			}
			if err := walk(tmpl, tmpl.SubTemplates); err != nil {
				return err
			}
		}

		return nil
	}

	return walk(nil, dt.GeneralTemplates)
}

// DeviceVariable is a value that will be provided per device during the template attachment
type DeviceVariable struct {
	Name string `json:"name"`
}
