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

package meta

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type testColor string

func (testColor) Choices() []string {
	return []string{"default", "biz-internet", "public-internet", "mpls"}
}

func TestValueJSON(t *testing.T) {
	type payload struct {
		Name   Value[string]   `json:"name,omitzero"`
		Port   Value[uint16]   `json:"port,omitzero"`
		Colors Value[[]string] `json:"colors,omitzero"`
		Unset  Value[bool]     `json:"unset,omitzero"`
	}

	in := payload{
		Name:   Variable[string]("host name"),
		Port:   Global[uint16](8443),
		Colors: Default([]string{"mpls"}),
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"name": {"optionType": "variable", "value": "{{host_name}}"},
		"port": {"optionType": "global", "value": 8443},
		"colors": {"optionType": "default", "value": ["mpls"]}
	}`, string(data))

	out := payload{}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, in, out)
}

func TestValueUnmarshalErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   string
	}{
		{name: "no-option-type", in: `{"value": 1}`},
		{name: "unknown-option-type", in: `{"optionType": "constant", "value": 1}`},
		{name: "bad-variable", in: `{"optionType": "variable", "value": "system_ip"}`},
		{name: "type-mismatch", in: `{"optionType": "global", "value": "abc"}`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			v := Value[int]{}
			require.Error(t, json.Unmarshal([]byte(tt.in), &v))
		})
	}
}

func TestValueOrDefault(t *testing.T) {
	require.Equal(t, Default(3), Value[int]{}.OrDefault(3))
	require.Equal(t, Global(5), Global(5).OrDefault(3))

	val, ok := Variable[int]("x").Get()
	require.False(t, ok)
	require.Zero(t, val)
}

func TestVariableName(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want string
	}{
		{in: "system_ip", want: "{{system_ip}}"},
		{in: "{{system_ip}}", want: "{{system_ip}}"},
		{in: "vpn0 inet/if name", want: "{{vpn0_inet/if_name}}"},
		{in: "  banner:motd ", want: "{{banner_motd}}"},
	} {
		t.Run(tt.in, func(t *testing.T) {
			got := VariableName(tt.in)
			require.Equal(t, tt.want, got)
			require.True(t, IsVariableName(got))
		})
	}
}

func TestCheckVariableName(t *testing.T) {
	for _, tt := range []struct {
		in  string
		err bool
	}{
		{in: "system_ip"},
		{in: "{{system_ip}}"},
		{in: "if name"},
		{in: "", err: true},
		{in: "  ", err: true},
		{in: "{{}}", err: true},
	} {
		t.Run(tt.in, func(t *testing.T) {
			err := CheckVariableName(tt.in)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidVariableName)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMatchChoice(t *testing.T) {
	choices := testColor("").Choices()

	got, ok := MatchChoice(choices, "biz-internet")
	require.True(t, ok)
	require.Equal(t, "biz-internet", got)

	got, ok = MatchChoice(choices, "Public_Internet")
	require.True(t, ok)
	require.Equal(t, "public-internet", got)

	_, ok = MatchChoice(choices, "lte")
	require.False(t, ok)
}

func TestValidateChoice(t *testing.T) {
	require.NoError(t, ValidateChoice("color", Global(testColor("mpls"))))
	require.NoError(t, ValidateChoice("color", Variable[testColor]("color")))
	require.NoError(t, ValidateChoice("color", Value[testColor]{}))
	require.Error(t, ValidateChoice("color", Global(testColor("lte"))))
	require.Error(t, ValidateChoices("colors", Global([]testColor{"mpls", "lte"})))
}

func TestValidateRange(t *testing.T) {
	require.NoError(t, ValidateRange("mtu", Global[uint16](1500), 576, 9216))
	require.Error(t, ValidateRange("mtu", Global[uint16](100), 576, 9216))
	require.NoError(t, ValidateRange("mtu", Variable[uint16]("mtu"), 576, 9216))
}

func TestParseVersion(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want string
		err  bool
	}{
		{in: "20.12.1", want: "20.12.1"},
		{in: "20.15.1.1", want: "20.15.1"},
		{in: "20.9.4-li", want: "20.9.4"},
		{in: "20.12", want: "20.12.0"},
		{in: "", err: true},
		{in: "abc", err: true},
	} {
		t.Run(tt.in, func(t *testing.T) {
			ver, err := ParseVersion(tt.in)
			if tt.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, ver.String())
		})
	}
}

func TestCheckVersion(t *testing.T) {
	ver, err := ParseVersion("20.12.2")
	require.NoError(t, err)

	require.NoError(t, CheckVersion(ver, ">=20.12"))
	require.Error(t, CheckVersion(ver, ">=20.13"))
	require.Error(t, CheckVersion(nil, ">=20.12"))
}
