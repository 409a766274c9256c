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
	"testing"

	"github.com/stretchr/testify/require"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
	"go.githedgehog.com/catalystwan/pkg/convert"
)

func sampleValues() *convert.Values {
	return convert.NewValues(map[string]any{
		"a": map[string]any{
			"b": "1",
			"c": ftapi.DeviceVariable{Name: "var_c"},
		},
		"list": []any{
			map[string]any{"x": "1"},
			map[string]any{"x": "2", "y": "3"},
		},
		"alias1": "p",
		"alias2": "q",
		"items":  "s",
	})
}

func TestValuesLookup(t *testing.T) {
	vals := sampleValues()

	raw, ok := vals.Get("list/1/y")
	require.True(t, ok)
	require.Equal(t, "3", raw)
	_, ok = vals.Get("list/2/y")
	require.False(t, ok)

	require.Equal(t, meta.Global(1), convert.Lookup[int](vals, "a/b"))
	require.True(t, vals.IsVariable("a/c"))
	require.Equal(t, meta.Variable[string]("var_c"), vals.String("a/c"))
	require.False(t, vals.Has("a/b", "a/c"))

	// consumed values are not returned again
	require.True(t, convert.Lookup[int](vals, "a/b").IsZero())

	require.True(t, convert.Lookup[int](vals, "items").IsZero())
	require.Equal(t, []string{`items: "s" is not a valid int`}, vals.Issues())
}

func TestValuesPopAliases(t *testing.T) {
	vals := sampleValues()

	raw, ok := vals.Pop("alias1", "alias2")
	require.True(t, ok)
	require.Equal(t, "p", raw)
	require.False(t, vals.Has("alias2"))
	require.Equal(t, []string{"alias2: ignored in favor of alias1"}, vals.Issues())

	_, ok = vals.Pop("missing")
	require.False(t, ok)
}

func TestValuesListAndRest(t *testing.T) {
	vals := sampleValues()
	vals.Consume("a", "alias1", "alias2")

	items := vals.List("list")
	require.Len(t, items, 2)
	require.Equal(t, meta.Global("1"), items[0].String("x"))

	require.Equal(t, []string{"items", "list/1/x", "list/1/y"}, vals.Unconsumed())
	require.Equal(t, map[string]any{"items": "s"}, vals.Rest())

	items[1].ConsumeAll()
	require.Equal(t, []string{"items"}, vals.Unconsumed())

	single := convert.NewValues(map[string]any{"host": map[string]any{"name": "a"}}).List("host")
	require.Len(t, single, 1)
	require.Equal(t, meta.Global("a"), single[0].String("name"))
}

func TestValuesSubIssuePrefix(t *testing.T) {
	vals := convert.NewValues(map[string]any{
		"timers": map[string]any{"hold": "x"},
	})

	sub := vals.Sub("timers")
	require.True(t, convert.Lookup[uint16](sub, "hold").IsZero())
	require.Equal(t, []string{`timers/hold: "x" is not a valid uint16`}, vals.Issues())

	missing := vals.Sub("missing")
	require.False(t, missing.Has("anything"))
}

func TestValuesBlankVariable(t *testing.T) {
	vals := convert.NewValues(map[string]any{
		"name":    ftapi.DeviceVariable{Name: " "},
		"contact": ftapi.DeviceVariable{Name: "snmp_contact"},
	})

	require.True(t, vals.String("name").IsZero())
	require.Equal(t, meta.Variable[string]("snmp_contact"), vals.String("contact"))
	require.Equal(t, []string{`name: " ": invalid variable name`}, vals.Issues())
	require.Empty(t, vals.Unconsumed())

	_, err := convert.ToValue[string](ftapi.DeviceVariable{Name: ""})
	require.ErrorIs(t, err, meta.ErrInvalidVariableName)
}

func TestValuesInto(t *testing.T) {
	vals := convert.NewValues(map[string]any{
		"login": "hi",
		"foo":   "bar",
		"motd":  ftapi.DeviceVariable{Name: "motd"},
	})
	vals.Consume("motd")

	data := &parcelapi.BannerData{}
	require.NoError(t, vals.Into(data))
	require.Equal(t, meta.Global("hi"), data.Login)
	require.True(t, data.MOTD.IsZero())
	require.Equal(t, []string{"foo: unknown field"}, vals.Issues())
	require.Empty(t, vals.Unconsumed())
}
