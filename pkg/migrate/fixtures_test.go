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

package migrate_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/pkg/migrate"
)

// vip encodes plain values the way the Manager stores the feature template definitions
func vip(t *testing.T, values map[string]any) json.RawMessage {
	t.Helper()

	var encode func(in map[string]any) map[string]any
	encode = func(in map[string]any) map[string]any {
		out := map[string]any{}
		for key, val := range in {
			if nested, ok := val.(map[string]any); ok {
				out[key] = encode(nested)

				continue
			}

			out[key] = map[string]any{
				"vipObjectType": "object",
				"vipType":       "constant",
				"vipValue":      val,
			}
		}

		return out
	}

	data, err := json.Marshal(encode(values))
	require.NoError(t, err)

	return data
}

func featureTemplate(t *testing.T, id, name string, typ ftapi.TemplateType, values map[string]any) *ftapi.FeatureTemplate {
	t.Helper()

	return &ftapi.FeatureTemplate{
		FeatureTemplateInfo: ftapi.FeatureTemplateInfo{
			TemplateID:   id,
			Name:         name,
			TemplateType: typ,
		},
		Definition: vip(t, values),
	}
}

// testUX1 is a single branch device template with system, transport and service parts, a CLI device template and
// a couple of standalone feature templates
func testUX1(t *testing.T) *migrate.UX1 {
	t.Helper()

	return &migrate.UX1{
		FeatureTemplates: []*ftapi.FeatureTemplate{
			featureTemplate(t, "ft-banner", "Banner", ftapi.TemplateTypeBanner, map[string]any{
				"login": "Authorized access only",
			}),
			featureTemplate(t, "ft-vpn0", "VPN0", ftapi.TemplateTypeVPN, map[string]any{
				"vpn-id": 0,
				"name":   "Transport",
			}),
			featureTemplate(t, "ft-wan", "WAN IF", ftapi.TemplateTypeVPNInterface, map[string]any{
				"if-name": "GigabitEthernet1",
				"tunnel-interface": map[string]any{
					"color": map[string]any{"value": "biz-internet"},
				},
			}),
			featureTemplate(t, "ft-vpn10", "VPN10", ftapi.TemplateTypeVPN, map[string]any{
				"vpn-id": 10,
				"name":   "Corporate",
			}),
			featureTemplate(t, "ft-lan", "LAN IF", ftapi.TemplateTypeVPNInterface, map[string]any{
				"if-name": "GigabitEthernet2",
				"ip":      map[string]any{"address": "10.10.0.1/24"},
			}),
			featureTemplate(t, "ft-bgp", "BGP", ftapi.TemplateTypeBGP, map[string]any{
				"bgp": map[string]any{"as-num": 65000},
			}),
			featureTemplate(t, "ft-standalone", "Standalone Banner", ftapi.TemplateTypeBanner, map[string]any{
				"motd": "Unused",
			}),
			featureTemplate(t, "ft-wireless", "Wireless", "cisco_wireless_lan", map[string]any{
				"ssid": "corp",
			}),
		},
		DeviceTemplates: []*ftapi.DeviceTemplate{
			{
				DeviceTemplateInfo: ftapi.DeviceTemplateInfo{
					TemplateID: "dt-branch",
					Name:       "Branch",
					ConfigType: ftapi.ConfigTypeTemplate,
				},
				GeneralTemplates: []ftapi.GeneralTemplate{
					{TemplateID: "ft-banner", TemplateType: ftapi.TemplateTypeBanner},
					{
						TemplateID:   "ft-vpn0",
						TemplateType: ftapi.TemplateTypeVPN,
						SubTemplates: []ftapi.GeneralTemplate{
							{TemplateID: "ft-wan", TemplateType: ftapi.TemplateTypeVPNInterface},
						},
					},
					{
						TemplateID:   "ft-vpn10",
						TemplateType: ftapi.TemplateTypeVPN,
						SubTemplates: []ftapi.GeneralTemplate{
							{TemplateID: "ft-lan", TemplateType: ftapi.TemplateTypeVPNInterface},
							{TemplateID: "ft-bgp", TemplateType: ftapi.TemplateTypeBGP},
						},
					},
					{TemplateID: "ft-missing", TemplateType: ftapi.TemplateTypeNTP},
				},
			},
			{
				DeviceTemplateInfo: ftapi.DeviceTemplateInfo{
					TemplateID: "dt-cli",
					Name:       "CLI",
					ConfigType: ftapi.ConfigTypeFile,
				},
				Configuration: "hostname cli\n",
			},
		},
	}
}
