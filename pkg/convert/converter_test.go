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

package convert_test

import (
	"encoding/json"
	"flag"
	"os"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
	"go.githedgehog.com/catalystwan/pkg/convert"
	"go.githedgehog.com/catalystwan/pkg/util/pointer"
)

var update = flag.Bool("update", false, "update the golden files of this test")

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

func assertGolden(t *testing.T, name string, actual []byte) {
	t.Helper()

	file := "testdata/" + name

	if *update {
		if err := os.WriteFile(file, actual, 0o644); err != nil { //nolint:gosec
			t.Fatalf("Error writing golden file %s: %s", file, err)
		}
	}

	expected, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("Error reading golden file %s: %s", file, err)
	}

	if string(expected) != string(actual) {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(expected)),
			B:        difflib.SplitLines(string(actual)),
			FromFile: "Expected",
			ToFile:   "Actual",
			Context:  3,
		})
		if err != nil {
			t.Fatalf("Error generating diff: %s", err)
		}

		t.Fatalf("Golden file %s does not match, re-generate with -update if expected:\n%s", name, diff)
	}
}

const ntpDefinition = `{
  "keys": {
    "trusted": {"vipObjectType": "list", "vipType": "constant", "vipValue": ["1", "2"]},
    "authentication": {
      "vipType": "constant",
      "vipObjectType": "tree",
      "vipPrimaryKey": ["id"],
      "vipValue": [
        {
          "id": {"vipObjectType": "object", "vipType": "constant", "vipValue": 1},
          "md5": {"vipObjectType": "object", "vipType": "variableName", "vipValue": "", "vipVariableName": "ntp_key_md5"},
          "priority-order": ["id", "md5"]
        }
      ]
    }
  },
  "server": {
    "vipType": "constant",
    "vipObjectType": "tree",
    "vipPrimaryKey": ["name"],
    "vipValue": [
      {
        "name": {"vipObjectType": "object", "vipType": "constant", "vipValue": "time.example.com"},
        "vpn": {"vipObjectType": "object", "vipType": "constant", "vipValue": 512},
        "prefer": {"vipObjectType": "object", "vipType": "constant", "vipValue": "false"},
        "source-interface": {"vipObjectType": "object", "vipType": "ignore", "vipValue": ""},
        "priority-order": ["name", "vpn", "prefer", "source-interface"]
      }
    ]
  },
  "master": {
    "enable": {"vipObjectType": "node-only", "vipType": "ignore", "vipValue": "false"},
    "stratum": {"vipObjectType": "object", "vipType": "constant", "vipValue": ""}
  }
}`

func TestParcelFromTemplateGolden(t *testing.T) {
	tmpl := &ftapi.FeatureTemplate{}
	tmpl.TemplateID = "3c1a7e52-0d2b-4d5e-9a51-8f6f4f0a2b11"
	tmpl.Name = "ntp"
	tmpl.TemplateType = ftapi.TemplateTypeNTP
	tmpl.Definition = json.RawMessage(ntpDefinition)

	res := convert.ParcelFromTemplate(nil, tmpl)
	require.Equal(t, convert.StatusComplete, res.Status, "info: %v", res.Info)

	data, err := json.MarshalIndent(res, "", "  ")
	require.NoError(t, err)

	assertGolden(t, "ntp.golden", append(data, '\n'))
}

func TestParcelFromTemplate(t *testing.T) {
	for _, tt := range []struct {
		name       string
		tmpl       *ftapi.FeatureTemplate
		status     convert.Status
		parcelType parcelapi.Type
		info       []string
		err        error
	}{
		{
			name: "banner",
			tmpl: &ftapi.FeatureTemplate{
				FeatureTemplateInfo: ftapi.FeatureTemplateInfo{Name: "my banner", TemplateType: ftapi.TemplateTypeBanner},
				Definition: json.RawMessage(`{
					"login": {"vipObjectType": "object", "vipType": "constant", "vipValue": "Hello"}
				}`),
			},
			status:     convert.StatusComplete,
			parcelType: parcelapi.TypeBanner,
		},
		{
			name: "banner-unknown-field",
			tmpl: &ftapi.FeatureTemplate{
				FeatureTemplateInfo: ftapi.FeatureTemplateInfo{Name: "banner", TemplateType: ftapi.TemplateTypeBanner},
				Definition: json.RawMessage(`{
					"login": {"vipObjectType": "object", "vipType": "constant", "vipValue": "Hello"},
					"exec": {"vipObjectType": "object", "vipType": "constant", "vipValue": "Bye"}
				}`),
			},
			status:     convert.StatusPartial,
			parcelType: parcelapi.TypeBanner,
			info:       []string{"exec: not converted"},
		},
		{
			name: "system-unknown-field",
			tmpl: &ftapi.FeatureTemplate{
				FeatureTemplateInfo: ftapi.FeatureTemplateInfo{Name: "system", TemplateType: ftapi.TemplateTypeSystem},
				Definition: json.RawMessage(`{
					"site-id": {"vipObjectType": "object", "vipType": "variableName", "vipVariableName": "system_site_id"},
					"console-baud-rate": {"vipObjectType": "object", "vipType": "constant", "vipValue": "115200"},
					"tracker-knob": {"vipObjectType": "object", "vipType": "constant", "vipValue": "on"}
				}`),
			},
			status:     convert.StatusPartial,
			parcelType: parcelapi.TypeBasic,
			info:       []string{"tracker-knob: unknown field"},
		},
		{
			name: "unsupported",
			tmpl: &ftapi.FeatureTemplate{
				FeatureTemplateInfo: ftapi.FeatureTemplateInfo{Name: "wifi", TemplateType: "cisco_wifi"},
				Definition:          json.RawMessage(`{}`),
			},
			status: convert.StatusFailed,
			err:    convert.ErrUnsupportedTemplate,
		},
		{
			name: "invalid",
			tmpl: &ftapi.FeatureTemplate{
				FeatureTemplateInfo: ftapi.FeatureTemplateInfo{Name: "ntp", TemplateType: ftapi.TemplateTypeNTP},
				Definition: json.RawMessage(`{
					"master": {
						"enable": {"vipObjectType": "object", "vipType": "constant", "vipValue": "true"},
						"stratum": {"vipObjectType": "object", "vipType": "constant", "vipValue": 16}
					}
				}`),
			},
			status: convert.StatusFailed,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			res := convert.ParcelFromTemplate(nil, tt.tmpl)
			require.Equal(t, tt.status, res.Status, "info: %v", res.Info)
			require.Equal(t, tt.tmpl.TemplateType, res.TemplateType)

			if tt.status == convert.StatusFailed {
				require.Error(t, res.Err)
				require.Nil(t, res.Parcel)
				if tt.err != nil {
					require.ErrorIs(t, res.Err, tt.err)
				}

				return
			}

			require.NoError(t, res.Err)
			require.NotNil(t, res.Parcel)
			require.Equal(t, tt.parcelType, res.ParcelType)
			require.Equal(t, convert.ParcelName(tt.tmpl.Name), res.Parcel.GetName())
			require.Equal(t, tt.info, res.Info)
		})
	}
}

func TestParcelName(t *testing.T) {
	require.Equal(t, "my_banner_v2.1", convert.ParcelName("my banner/v2.1"))
	require.Equal(t, "vpn-0", convert.ParcelName("vpn-0"))
	require.Len(t, convert.ParcelName(string(make([]byte, 200))), parcelapi.MaxNameLength)
}

func TestSupportedTemplateTypes(t *testing.T) {
	types := convert.SupportedTemplateTypes()
	require.Contains(t, types, ftapi.TemplateTypeVPN)
	require.Contains(t, types, ftapi.TemplateTypeCEdgeAAA)
	require.Len(t, types, 16)

	for _, typ := range types {
		conv, err := convert.Get(typ)
		require.NoError(t, err)
		require.Contains(t, conv.TemplateTypes(), typ)
	}
}

func convertValues(t *testing.T, ctx *convert.Context, typ ftapi.TemplateType, values map[string]any) (parcelapi.Parcel, *convert.Values) {
	t.Helper()

	conv, err := convert.Get(typ)
	require.NoError(t, err)

	vals := convert.NewValues(values)
	p, err := conv.Convert(ctx, vals)
	require.NoError(t, err)

	p.SetName("test", "")
	p.Default()
	require.NoError(t, p.Validate())

	return p, vals
}

func TestVPNConverter(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		p, vals := convertValues(t, nil, ftapi.TemplateTypeVPN, map[string]any{
			"vpn-id": float64(0),
			"name":   "Transport VPN",
			"dns": []any{
				map[string]any{"dns-addr": "8.8.8.8", "role": "primary"},
				map[string]any{"dns-addr": "1.1.1.1", "role": "secondary"},
			},
			"ip": map[string]any{
				"route": []any{
					map[string]any{
						"prefix":   "0.0.0.0/0",
						"next-hop": []any{map[string]any{"address": "192.0.2.1"}},
					},
					map[string]any{
						"prefix": "10.0.0.0/8",
						"null0":  "true",
					},
				},
			},
			"ecmp-hash-key": map[string]any{"layer4": "true"},
		})

		vpn, ok := p.(*parcelapi.TransportVPN)
		require.True(t, ok, "got %T", p)
		require.Empty(t, vals.Unconsumed())
		require.Empty(t, vals.Issues())

		require.Equal(t, meta.Global("8.8.8.8"), vpn.Data.DNSIPv4.PrimaryDNSAddress)
		require.Equal(t, meta.Global("1.1.1.1"), vpn.Data.DNSIPv4.SecondaryDNSAddress)
		require.Equal(t, meta.Global(true), vpn.Data.EnhanceECMPKeying)
		require.Len(t, vpn.Data.IPv4Route, 2)

		def := vpn.Data.IPv4Route[0]
		require.Equal(t, meta.Global("0.0.0.0"), def.Prefix.Address)
		require.Equal(t, meta.Global("0.0.0.0"), def.Prefix.Mask)
		require.Equal(t, meta.Global(parcelapi.RouteGatewayNextHop), def.Gateway)
		require.Equal(t, []parcelapi.NextHop{{Address: meta.Global("192.0.2.1"), Distance: meta.Default[uint8](1)}}, def.NextHop)

		null0 := vpn.Data.IPv4Route[1]
		require.Equal(t, meta.Global("255.0.0.0"), null0.Prefix.Mask)
		require.Equal(t, meta.Global(parcelapi.RouteGatewayNull0), null0.Gateway)
	})

	t.Run("management", func(t *testing.T) {
		p, _ := convertValues(t, nil, ftapi.TemplateTypeVPN, map[string]any{
			"vpn-id": "512",
			"name":   "mgmt",
		})

		vpn, ok := p.(*parcelapi.ManagementVPN)
		require.True(t, ok, "got %T", p)
		require.Equal(t, meta.Global("mgmt"), vpn.Data.Name)
	})

	t.Run("service", func(t *testing.T) {
		p, vals := convertValues(t, nil, ftapi.TemplateTypeVPN, map[string]any{
			"vpn-id":                  float64(10),
			"omp-admin-distance-ipv4": float64(5),
			"ip": map[string]any{
				"route": []any{
					map[string]any{"prefix": "not-a-prefix", "null0": "true"},
				},
			},
		})

		vpn, ok := p.(*parcelapi.ServiceVPN)
		require.True(t, ok, "got %T", p)
		require.Equal(t, meta.Global[uint16](10), vpn.Data.VPNID)
		require.Equal(t, meta.Global[uint8](5), vpn.Data.OMPAdminDistance)
		require.Empty(t, vpn.Data.IPv4Route)
		require.Len(t, vals.Issues(), 2)
		require.Empty(t, vals.Unconsumed())
	})

	t.Run("variable-vpn-id", func(t *testing.T) {
		p, vals := convertValues(t, nil, ftapi.TemplateTypeVPN, map[string]any{
			"vpn-id": ftapi.DeviceVariable{Name: "vpn_id"},
		})

		vpn, ok := p.(*parcelapi.ServiceVPN)
		require.True(t, ok, "got %T", p)
		require.True(t, vpn.Data.VPNID.IsVariable())
		require.Equal(t, []string{"vpn-id: device variable, assuming service VPN"}, vals.Issues())
	})
}

func TestTemplateVPNID(t *testing.T) {
	tmpl := &ftapi.FeatureTemplate{
		FeatureTemplateInfo: ftapi.FeatureTemplateInfo{TemplateType: ftapi.TemplateTypeVPN},
		Definition:          json.RawMessage(`{"vpn-id": {"vipObjectType": "object", "vipType": "constant", "vipValue": 512}}`),
	}

	id, ok := convert.TemplateVPNID(tmpl)
	require.True(t, ok)
	require.Equal(t, 512, id)

	tmpl.TemplateType = ftapi.TemplateTypeBanner
	_, ok = convert.TemplateVPNID(tmpl)
	require.False(t, ok)
}

func TestInterfaceConverter(t *testing.T) {
	t.Run("wan", func(t *testing.T) {
		p, vals := convertValues(t, &convert.Context{ParentVPN: pointer.To(0)}, ftapi.TemplateTypeVPNInterface, map[string]any{
			"if-name": "GigabitEthernet1",
			"ip":      map[string]any{"address": "192.0.2.10/24"},
			"tunnel-interface": map[string]any{
				"color":         map[string]any{"value": "biz-internet", "restrict": "true"},
				"encapsulation": []any{map[string]any{"encap": "ipsec", "weight": float64(2)}},
				"allow-service": map[string]any{"sshd": "true", "all": "false"},
			},
			"nat": map[string]any{},
		})

		wan, ok := p.(*parcelapi.WANInterface)
		require.True(t, ok, "got %T", p)
		require.Empty(t, vals.Unconsumed())

		require.Equal(t, meta.Global("GigabitEthernet1"), wan.Data.InterfaceName)
		require.NotNil(t, wan.Data.IntfIPAddress.Static)
		require.Equal(t, meta.Global("192.0.2.10"), wan.Data.IntfIPAddress.Static.Primary.IPAddress)
		require.Equal(t, meta.Global("255.255.255.0"), wan.Data.IntfIPAddress.Static.Primary.SubnetMask)
		require.Equal(t, meta.Global(true), wan.Data.TunnelInterface)
		require.Equal(t, meta.Global(true), wan.Data.NAT)
		require.Equal(t, meta.Global(parcelapi.ColorBizInternet), wan.Data.Tunnel.Color)
		require.Equal(t, meta.Global(true), wan.Data.Tunnel.Restrict)
		require.Equal(t, meta.Global(true), wan.Data.AllowService.SSH)
		require.Equal(t, meta.Global(false), wan.Data.AllowService.All)
		require.Equal(t, meta.Default(true), wan.Data.AllowService.DNS)
		require.Equal(t, []parcelapi.Encapsulation{{
			Encap:      meta.Global(parcelapi.EncapIPsec),
			Preference: meta.Default[uint32](0),
			Weight:     meta.Global[uint8](2),
		}}, wan.Data.Encapsulation)
	})

	t.Run("management", func(t *testing.T) {
		p, _ := convertValues(t, &convert.Context{ParentVPN: pointer.To(512)}, ftapi.TemplateTypeVPNInterface, map[string]any{
			"if-name":     "GigabitEthernet8",
			"ip":          map[string]any{"dhcp-client": "true"},
			"arp-timeout": "1200",
		})

		mgmt, ok := p.(*parcelapi.ManagementInterface)
		require.True(t, ok, "got %T", p)
		require.Nil(t, mgmt.Data.IntfIPAddress.Static)
		require.Equal(t, &parcelapi.DynamicIPv4{DHCPDistance: meta.Default[uint8](1)}, mgmt.Data.IntfIPAddress.Dynamic)
		require.Equal(t, meta.Global[uint32](1200), mgmt.Data.ARPTimeout)
	})

	t.Run("lan-without-context", func(t *testing.T) {
		p, vals := convertValues(t, nil, ftapi.TemplateTypeVPNInterface, map[string]any{
			"if-name":     "GigabitEthernet3",
			"ip":          map[string]any{"address": ftapi.DeviceVariable{Name: "lan_ip"}},
			"dhcp-helper": "10.0.0.1, 10.0.0.2",
			"vrrp": []any{
				map[string]any{"grp-id": float64(1), "priority": float64(110), "ipv4": map[string]any{"address": "10.1.1.1"}},
			},
		})

		lan, ok := p.(*parcelapi.LANInterface)
		require.True(t, ok, "got %T", p)
		require.Empty(t, vals.Unconsumed())

		require.Equal(t, meta.Variable[string]("lan_ip"), lan.Data.IntfIPAddress.Static.Primary.IPAddress)
		require.Equal(t, meta.Variable[string]("lan_ip_mask"), lan.Data.IntfIPAddress.Static.Primary.SubnetMask)
		require.Equal(t, meta.Global([]string{"10.0.0.1", "10.0.0.2"}), lan.Data.DHCPHelper)
		require.Len(t, lan.Data.VRRP, 1)
		require.Equal(t, meta.Global("10.1.1.1"), lan.Data.VRRP[0].IPAddress)
		require.Equal(t, meta.Global[uint8](110), lan.Data.VRRP[0].Priority)
	})

	t.Run("static-address-wins-over-dhcp", func(t *testing.T) {
		p, vals := convertValues(t, &convert.Context{ParentVPN: pointer.To(1)}, ftapi.TemplateTypeVPNInterface, map[string]any{
			"if-name": "GigabitEthernet3",
			"ip": map[string]any{
				"address":       "10.0.0.1/24",
				"dhcp-client":   "true",
				"dhcp-distance": float64(5),
			},
		})

		lan, ok := p.(*parcelapi.LANInterface)
		require.True(t, ok, "got %T", p)
		require.Empty(t, vals.Unconsumed())
		require.Equal(t, []string{"ip/dhcp-client: DHCP client dropped in favor of static address"}, vals.Issues())

		require.NotNil(t, lan.Data.IntfIPAddress.Static)
		require.Nil(t, lan.Data.IntfIPAddress.Dynamic)
		require.Equal(t, meta.Global("10.0.0.1"), lan.Data.IntfIPAddress.Static.Primary.IPAddress)
		require.Equal(t, meta.Global("255.255.255.0"), lan.Data.IntfIPAddress.Static.Primary.SubnetMask)
	})
}

func TestBGPConverter(t *testing.T) {
	p, vals := convertValues(t, nil, ftapi.TemplateTypeBGP, map[string]any{
		"bgp": map[string]any{
			"as-num": "65001",
			"timers": map[string]any{"keepalive": float64(30), "holdtime": float64(90)},
			"neighbor": []any{
				map[string]any{
					"address":   "192.0.2.2",
					"remote-as": float64(65002),
					"address-family": []any{
						map[string]any{
							"family-type": "ipv4-unicast",
							"route-policy": []any{
								map[string]any{"direction": "in", "pol-name": "IMPORT"},
								map[string]any{"direction": "out", "pol-name": "EXPORT"},
							},
						},
					},
				},
			},
			"address-family": []any{
				map[string]any{
					"family-type":   "ipv4-unicast",
					"network":       []any{map[string]any{"prefix": "10.10.0.0/16"}},
					"maximum-paths": map[string]any{"paths": float64(4)},
					"redistribute":  []any{map[string]any{"protocol": "connected"}},
				},
				map[string]any{
					"family-type": "vpnv4-unicast",
					"network":     []any{map[string]any{"prefix": "10.20.0.0/16"}},
				},
			},
		},
	})

	bgp, ok := p.(*parcelapi.BGP)
	require.True(t, ok, "got %T", p)
	require.Empty(t, vals.Unconsumed())
	require.Equal(t, []string{`bgp/address-family/1/family-type: address family "vpnv4-unicast" isn't supported`}, vals.Issues())

	require.Equal(t, meta.Global[uint32](65001), bgp.Data.ASNum)
	require.Equal(t, meta.Global[uint16](90), bgp.Data.Holdtime)
	require.Len(t, bgp.Data.Neighbor, 1)
	require.Equal(t, []parcelapi.BGPNeighborAddressFamily{{
		FamilyType:     meta.Global[parcelapi.BGPFamilyType]("ipv4-unicast"),
		InRoutePolicy:  meta.Global("IMPORT"),
		OutRoutePolicy: meta.Global("EXPORT"),
	}}, bgp.Data.Neighbor[0].AddressFamily)
	require.Equal(t, meta.Global[uint8](4), bgp.Data.AddressFamily.Paths)
	require.Equal(t, meta.Global("255.255.0.0"), bgp.Data.AddressFamily.Network[0].Prefix.Mask)
	require.Equal(t, []parcelapi.Redistribute{{Protocol: meta.Global[parcelapi.RedistributeProtocol]("connected")}}, bgp.Data.AddressFamily.Redistribute)
}

func TestOSPFConverter(t *testing.T) {
	p, vals := convertValues(t, nil, ftapi.TemplateTypeOSPF, map[string]any{
		"ospf": map[string]any{
			"router-id": "192.0.2.1",
			"default-information": map[string]any{
				"originate": map[string]any{"always": "true", "metric-type": "type1"},
			},
			"area": []any{
				map[string]any{
					"a-num": float64(0),
					"interface": []any{
						map[string]any{"name": "GigabitEthernet2", "cost": float64(10)},
					},
				},
				map[string]any{
					"a-num": float64(1),
					"stub":  map[string]any{"no-summary": "true"},
					"range": []any{map[string]any{"address": "10.1.0.0/16", "no-advertise": "false"}},
				},
			},
		},
	})

	ospf, ok := p.(*parcelapi.OSPF)
	require.True(t, ok, "got %T", p)
	require.Empty(t, vals.Unconsumed())

	require.Equal(t, meta.Global(true), ospf.Data.Originate)
	require.Equal(t, meta.Global(true), ospf.Data.Always)
	require.Equal(t, meta.Global[parcelapi.OSPFMetricType]("type1"), ospf.Data.MetricType)
	require.Len(t, ospf.Data.Area, 2)
	require.Equal(t, meta.Default(parcelapi.OSPFAreaNormal), ospf.Data.Area[0].AreaType)
	require.Equal(t, meta.Global("GigabitEthernet2"), ospf.Data.Area[0].Interface[0].IfName)
	require.Equal(t, meta.Global(parcelapi.OSPFAreaStub), ospf.Data.Area[1].AreaType)
	require.Equal(t, meta.Global(true), ospf.Data.Area[1].NoSummary)
	require.Equal(t, meta.Global("10.1.0.0"), ospf.Data.Area[1].Range[0].Address.Address)
}

func TestDHCPServerConverter(t *testing.T) {
	p, vals := convertValues(t, nil, ftapi.TemplateTypeDHCPServer, map[string]any{
		"address-pool": "10.1.1.0/24",
		"exclude":      "10.1.1.1-10.1.1.10, 10.1.1.254",
		"lease-time":   float64(3600),
		"options": map[string]any{
			"default-gateway": "10.1.1.1",
			"dns-servers":     []any{"8.8.8.8"},
			"option-code": []any{
				map[string]any{"code": float64(150), "ip": []any{"10.0.0.5"}},
				map[string]any{"code": float64(43), "ascii": "x", "hex": "0a"},
			},
		},
		"static-lease": []any{
			map[string]any{"mac-address": "00:11:22:33:44:55", "ip": "10.1.1.20"},
		},
	})

	dhcp, ok := p.(*parcelapi.DHCPServer)
	require.True(t, ok, "got %T", p)
	require.Empty(t, vals.Unconsumed())
	require.Len(t, vals.Issues(), 1)

	require.Equal(t, meta.Global("10.1.1.0"), dhcp.Data.AddressPool.Address)
	require.Equal(t, meta.Global("255.255.255.0"), dhcp.Data.AddressPool.Mask)
	require.Equal(t, meta.Global([]string{"10.1.1.1-10.1.1.10", "10.1.1.254"}), dhcp.Data.Exclude)
	require.Equal(t, meta.Global("10.1.1.1"), dhcp.Data.DefaultGateway)
	require.Len(t, dhcp.Data.OptionCode, 1)
	require.Equal(t, parcelapi.DHCPOptionIP, dhcp.Data.OptionCode[0].Kind())
	require.Len(t, dhcp.Data.StaticLease, 1)
}

func TestBasicConverter(t *testing.T) {
	p, vals := convertValues(t, nil, ftapi.TemplateTypeSystem, map[string]any{
		"host-name":         "branch-1",
		"system-ip":         ftapi.DeviceVariable{Name: "system_ip"},
		"site-id":           float64(100),
		"clock":             map[string]any{"timezone": "Europe/London"},
		"gps-location":      map[string]any{"latitude": float64(50.1), "longitude": float64(14.4)},
		"console-baud-rate": "115200",
		"max-omp-sessions":  float64(1),
		"description":       "Branch router",
		"tracker-knob":      "on",
	})

	basic, ok := p.(*parcelapi.Basic)
	require.True(t, ok, "got %T", p)
	require.Empty(t, vals.Unconsumed())
	require.Equal(t, []string{"tracker-knob: unknown field"}, vals.Issues())

	require.Equal(t, meta.Global("Europe/London"), basic.Data.Clock.Timezone)
	require.Equal(t, meta.Global(50.1), basic.Data.GPSLocation.Latitude)
	require.Equal(t, meta.Global(14.4), basic.Data.GPSLocation.Longitude)
	require.Equal(t, meta.Global[parcelapi.ConsoleBaudRate]("115200"), basic.Data.ConsoleBaudRate)
	require.Equal(t, meta.Global[uint16](1), basic.Data.MaxOMPSessions)
	require.Equal(t, meta.Global("Branch router"), basic.Data.Description)
	require.Equal(t, meta.Default(true), basic.Data.PortHop)
}

func TestOMPConverter(t *testing.T) {
	t.Run("advertise", func(t *testing.T) {
		p, vals := convertValues(t, nil, ftapi.TemplateTypeOMP, map[string]any{
			"graceful-restart": "false",
			"overlay-as":       float64(65000),
			"timers":           map[string]any{"holdtime": float64(90)},
			"advertise": []any{
				map[string]any{"protocol": "bgp"},
				map[string]any{"protocol": "ospf", "route": "external"},
				map[string]any{"protocol": "connected"},
			},
			"ipv6-advertise": []any{
				map[string]any{"protocol": "static"},
			},
		})

		omp, ok := p.(*parcelapi.OMP)
		require.True(t, ok, "got %T", p)
		require.Empty(t, vals.Unconsumed())
		require.Equal(t, []string{
			"advertise/1/route: route selection external isn't supported, all routes advertised",
		}, vals.Issues())

		require.Equal(t, meta.Global(false), omp.Data.GracefulRestart)
		require.Equal(t, meta.Global[uint32](65000), omp.Data.OverlayAS)
		require.Equal(t, meta.Global[uint16](90), omp.Data.Holdtime)
		require.Equal(t, meta.Default[uint16](300), omp.Data.EORTimer)

		require.Equal(t, meta.Global(true), omp.Data.AdvertiseIPv4.BGP)
		require.Equal(t, meta.Global(true), omp.Data.AdvertiseIPv4.OSPF)
		require.Equal(t, meta.Global(true), omp.Data.AdvertiseIPv4.Connected)
		require.Equal(t, meta.Global(false), omp.Data.AdvertiseIPv4.Static)
		require.Equal(t, meta.Global(true), omp.Data.AdvertiseIPv6.Static)
		require.Equal(t, meta.Global(false), omp.Data.AdvertiseIPv6.Connected)
	})

	t.Run("unsupported-protocol", func(t *testing.T) {
		p, vals := convertValues(t, nil, ftapi.TemplateTypeOMP, map[string]any{
			"advertise": []any{
				map[string]any{"protocol": "rip"},
				map[string]any{"protocol": "static"},
			},
		})

		omp, ok := p.(*parcelapi.OMP)
		require.True(t, ok, "got %T", p)
		require.Equal(t, []string{`advertise: protocol "rip" isn't supported`}, vals.Issues())
		require.Equal(t, meta.Global(true), omp.Data.AdvertiseIPv4.Static)
		require.Equal(t, meta.Global(false), omp.Data.AdvertiseIPv4.Connected)
		require.Equal(t, meta.Default(true), omp.Data.AdvertiseIPv6.Connected)
	})
}

func TestBFDConverter(t *testing.T) {
	t.Run("colors", func(t *testing.T) {
		p, vals := convertValues(t, nil, ftapi.TemplateTypeBFD, map[string]any{
			"app-route": map[string]any{"multiplier": float64(3), "poll-interval": float64(120000)},
			"color": []any{
				map[string]any{"color": "biz_internet", "hello-interval": float64(500)},
				map[string]any{"color": "MPLS", "pmtu-discovery": "false"},
			},
		})

		bfd, ok := p.(*parcelapi.BFD)
		require.True(t, ok, "got %T", p)
		require.Empty(t, vals.Unconsumed())
		require.Empty(t, vals.Issues())

		require.Equal(t, meta.Global[uint8](3), bfd.Data.Multiplier)
		require.Equal(t, meta.Global[uint32](120000), bfd.Data.PollInterval)
		require.Len(t, bfd.Data.Colors, 2)
		require.Equal(t, meta.Global(parcelapi.ColorBizInternet), bfd.Data.Colors[0].Color)
		require.Equal(t, meta.Global[uint32](500), bfd.Data.Colors[0].HelloInterval)
		require.Equal(t, meta.Global[parcelapi.Color]("mpls"), bfd.Data.Colors[1].Color)
		require.Equal(t, meta.Global(false), bfd.Data.Colors[1].PMTUDiscovery)
		require.Equal(t, meta.Default[uint32](1000), bfd.Data.Colors[1].HelloInterval)
	})

	t.Run("unknown-color", func(t *testing.T) {
		conv, err := convert.Get(ftapi.TemplateTypeBFD)
		require.NoError(t, err)

		vals := convert.NewValues(map[string]any{
			"color": []any{map[string]any{"color": "purple"}},
		})
		p, err := conv.Convert(nil, vals)
		require.NoError(t, err)

		issues := vals.Issues()
		require.Len(t, issues, 1)
		require.Contains(t, issues[0], `color/0/color: "purple" is not one of`)

		p.SetName("test", "")
		p.Default()
		require.Error(t, p.Validate())
	})
}

func TestAAAConverter(t *testing.T) {
	for _, tt := range []struct {
		name   string
		typ    ftapi.TemplateType
		values map[string]any
		order  []parcelapi.AAAAuthOrder
		issues []string
	}{
		{
			name: "drop-methods-without-servers",
			typ:  ftapi.TemplateTypeCEdgeAAA,
			values: map[string]any{
				"user": []any{map[string]any{"name": "admin", "password": "secret", "privilege": "15"}},
				"radius": []any{map[string]any{
					"vpn":    float64(512),
					"server": []any{map[string]any{"address": "192.0.2.5", "key": "radkey"}},
				}},
				"server-auth-order": []any{"radius", "tacacs", "local"},
			},
			order:  []parcelapi.AAAAuthOrder{"radius", "local"},
			issues: []string{"server-auth-order: methods without servers dropped: [tacacs]"},
		},
		{
			name: "fallback-to-local",
			typ:  ftapi.TemplateTypeAAA,
			values: map[string]any{
				"user":              []any{map[string]any{"name": "admin", "password": "secret"}},
				"server-auth-order": "tacacs",
			},
			order:  []parcelapi.AAAAuthOrder{"local"},
			issues: []string{"server-auth-order: methods without servers dropped: [tacacs]"},
		},
		{
			name: "order-kept",
			typ:  ftapi.TemplateTypeCEdgeAAA,
			values: map[string]any{
				"tacacs": []any{map[string]any{
					"group-name": "tac",
					"server":     []any{map[string]any{"address": "192.0.2.6", "key": "tackey"}},
				}},
				"server-auth-order": "tacacs,local",
			},
			order: []parcelapi.AAAAuthOrder{"tacacs", "local"},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p, vals := convertValues(t, nil, tt.typ, tt.values)

			aaa, ok := p.(*parcelapi.AAA)
			require.True(t, ok, "got %T", p)
			require.Empty(t, vals.Unconsumed())
			require.Equal(t, meta.Global(tt.order), aaa.Data.ServerAuthOrder)
			if tt.issues == nil {
				require.Empty(t, vals.Issues())
			} else {
				require.Equal(t, tt.issues, vals.Issues())
			}

			for idx, group := range aaa.Data.Radius {
				require.False(t, group.GroupName.IsZero(), "radius group %d", idx)
			}
		})
	}
}

func TestAAAConverterGroupNames(t *testing.T) {
	p, _ := convertValues(t, nil, ftapi.TemplateTypeAAA, map[string]any{
		"radius": []any{
			map[string]any{"server": []any{map[string]any{"address": "192.0.2.5", "key": "k1"}}},
			map[string]any{"group-name": "backup", "server": []any{map[string]any{"address": "192.0.2.7", "key": "k2"}}},
		},
	})

	aaa, ok := p.(*parcelapi.AAA)
	require.True(t, ok, "got %T", p)
	require.Len(t, aaa.Data.Radius, 2)
	require.Equal(t, meta.Global("radius-0"), aaa.Data.Radius[0].GroupName)
	require.Equal(t, meta.Global("backup"), aaa.Data.Radius[1].GroupName)
	require.Equal(t, meta.Default[uint16](1812), aaa.Data.Radius[0].Server[0].AuthPort)
	require.Equal(t, meta.Default([]parcelapi.AAAAuthOrder{"local"}), aaa.Data.ServerAuthOrder)
}

func TestLoggingConverter(t *testing.T) {
	p, vals := convertValues(t, nil, ftapi.TemplateTypeLogging, map[string]any{
		"disk": map[string]any{
			"enable": "true",
			"file":   map[string]any{"size": float64(5), "rotate": float64(3)},
		},
		"tls-profile": []any{map[string]any{
			"profile":     "syslog-tls",
			"version":     "TLSv1.2",
			"ciphersuite": map[string]any{"ciphersuite-list": "aes-128-cbc-sha aes-256-cbc-sha"},
		}},
		"server": []any{map[string]any{
			"name":     "10.0.0.9",
			"vpn":      float64(512),
			"priority": "error",
			"tls":      map[string]any{"enable-tls": "true", "tls-properties": map[string]any{"profile": "syslog-tls"}},
		}},
	})

	logging, ok := p.(*parcelapi.Logging)
	require.True(t, ok, "got %T", p)
	require.Empty(t, vals.Unconsumed())
	require.Empty(t, vals.Issues())

	require.Equal(t, meta.Global(true), logging.Data.Disk.DiskEnable)
	require.Equal(t, meta.Global[uint16](5), logging.Data.Disk.DiskFile.DiskFileSize)
	require.Equal(t, meta.Global[uint8](3), logging.Data.Disk.DiskFile.DiskFileRotate)

	require.Len(t, logging.Data.TLSProfile, 1)
	require.Equal(t, meta.Global[parcelapi.TLSVersion]("TLSv1.2"), logging.Data.TLSProfile[0].TLSVersion)
	require.Equal(t, meta.Global([]string{"aes-128-cbc-sha", "aes-256-cbc-sha"}), logging.Data.TLSProfile[0].CipherSuite)

	require.Len(t, logging.Data.Server, 1)
	require.Equal(t, meta.Global("10.0.0.9"), logging.Data.Server[0].Name)
	require.Equal(t, meta.Global[uint16](512), logging.Data.Server[0].VPN)
	require.Equal(t, meta.Global[parcelapi.LoggingPriority]("error"), logging.Data.Server[0].Priority)
	require.Equal(t, meta.Global(true), logging.Data.Server[0].TLSEnable)
	require.Equal(t, meta.Global("syslog-tls"), logging.Data.Server[0].TLSProfile)
	require.Empty(t, logging.Data.IPv6Server)
}

func TestSNMPConverter(t *testing.T) {
	p, vals := convertValues(t, nil, ftapi.TemplateTypeSNMP, map[string]any{
		"shutdown": "false",
		"contact":  "noc@example.com",
		"name":     "branch-1",
		"view": []any{map[string]any{
			"name": "all",
			"oid":  []any{map[string]any{"id": "1.3.6.1"}},
		}},
		"community": []any{map[string]any{"name": "public", "view": "all", "authorization": "read-only"}},
		"trap": map[string]any{
			"target": []any{map[string]any{
				"vpn-id":         float64(512),
				"ip":             "10.0.0.7",
				"port":           float64(1162),
				"community-name": "public",
			}},
		},
	})

	snmp, ok := p.(*parcelapi.SNMP)
	require.True(t, ok, "got %T", p)
	require.Empty(t, vals.Unconsumed())
	require.Empty(t, vals.Issues())

	require.Equal(t, meta.Global(false), snmp.Data.Shutdown)
	require.Equal(t, meta.Global("noc@example.com"), snmp.Data.Contact)
	require.Len(t, snmp.Data.View, 1)
	require.Equal(t, meta.Global("1.3.6.1"), snmp.Data.View[0].OID[0].ID)
	require.Len(t, snmp.Data.Community, 1)
	require.Equal(t, meta.Global[parcelapi.SNMPAuthorization]("read-only"), snmp.Data.Community[0].Authorization)
	require.Len(t, snmp.Data.Target, 1)
	require.Equal(t, meta.Global[uint16](512), snmp.Data.Target[0].VPNID)
	require.Equal(t, meta.Global[uint16](1162), snmp.Data.Target[0].Port)
	require.Equal(t, meta.Global("public"), snmp.Data.Target[0].UserLabel)
}

func TestGlobalConverter(t *testing.T) {
	p, vals := convertValues(t, nil, ftapi.TemplateTypeCEdgeGlobal, map[string]any{
		"http-server":    "true",
		"services-ip":    map[string]any{"http-server": "false", "source-intrf": "Loopback0"},
		"other-settings": map[string]any{"cdp": "false", "tcp-keepalives-in": "false"},
		"ssh-version":    float64(2),
	})

	global, ok := p.(*parcelapi.Global)
	require.True(t, ok, "got %T", p)
	require.Empty(t, vals.Unconsumed())
	require.Equal(t, []string{"services-ip/http-server: ignored in favor of http-server"}, vals.Issues())

	s := global.Data.Services
	require.Equal(t, meta.Global(true), s.HTTPServer)
	require.Equal(t, meta.Global(false), s.CDP)
	require.Equal(t, meta.Global(false), s.TCPKeepalivesIn)
	require.Equal(t, meta.Global("Loopback0"), s.SourceIntrf)
	require.Equal(t, meta.Global[uint8](2), s.SSHVersion)
	require.Equal(t, meta.Default(true), s.LLDP)
}

func TestSecurityConverter(t *testing.T) {
	t.Run("legacy-authentication-types", func(t *testing.T) {
		p, vals := convertValues(t, nil, ftapi.TemplateTypeSecurity, map[string]any{
			"rekey":               float64(3600),
			"replay-window":       "1024",
			"authentication-type": []any{"sha1-hmac", "ah-sha1-hmac", "ah-no-id", "esp", "md5"},
			"keychain":            []any{map[string]any{"name": "kc1", "keyid": float64(1)}},
			"key": []any{map[string]any{
				"id":         float64(1),
				"chain-name": "kc1",
				"send-id":    float64(2),
				"recv-id":    float64(3),
				"key-string": "secret",
			}},
		})

		sec, ok := p.(*parcelapi.Security)
		require.True(t, ok, "got %T", p)
		require.Empty(t, vals.Unconsumed())
		require.Equal(t, []string{`authentication-type: unknown type "md5"`}, vals.Issues())

		require.Equal(t, meta.Global[uint32](3600), sec.Data.Rekey)
		require.Equal(t, meta.Global[parcelapi.ReplayWindow]("1024"), sec.Data.ReplayWindow)
		require.Equal(t, meta.Global([]parcelapi.IntegrityType{
			parcelapi.IntegrityTypeESP, parcelapi.IntegrityTypeIPUDPESP, parcelapi.IntegrityTypeESPRS,
		}), sec.Data.IntegrityType)
		require.Len(t, sec.Data.Key, 1)
		require.Equal(t, meta.Global("kc1"), sec.Data.Key[0].Name)
		require.Equal(t, meta.Global[uint8](2), sec.Data.Key[0].SendID)
	})

	t.Run("variable-integrity-type", func(t *testing.T) {
		p, _ := convertValues(t, nil, ftapi.TemplateTypeSecurity, map[string]any{
			"integrity-type": ftapi.DeviceVariable{Name: "ipsec_integrity"},
		})

		sec, ok := p.(*parcelapi.Security)
		require.True(t, ok, "got %T", p)
		require.Equal(t, meta.Variable[[]parcelapi.IntegrityType]("ipsec_integrity"), sec.Data.IntegrityType)
		require.Equal(t, meta.Default[uint32](86400), sec.Data.Rekey)
	})
}
