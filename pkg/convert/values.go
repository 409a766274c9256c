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

package convert

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/maruel/natural"
	"github.com/samber/lo"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
)

// Values is the flattened feature template definition with the data path access and consumption tracking.
// Paths are "/" separated keys of the nested maps, list items are addressed by index.
type Values struct {
	data   map[string]any
	prefix string
	state  *valuesState
}

type valuesState struct {
	consumed map[string]bool
	issues   []string
}

func NewValues(data map[string]any) *Values {
	if data == nil {
		data = map[string]any{}
	}

	return &Values{
		data:  data,
		state: &valuesState{consumed: map[string]bool{}},
	}
}

// Raw returns underlying data, it shouldn't be modified
func (v *Values) Raw() map[string]any {
	return v.data
}

func (v *Values) full(path string) string {
	return joinPath(v.prefix, path)
}

func (v *Values) isConsumed(path string) bool {
	full := v.full(path)
	for {
		if v.state.consumed[full] {
			return true
		}

		idx := strings.LastIndex(full, "/")
		if idx < 0 {
			return false
		}
		full = full[:idx]
	}
}

func (v *Values) hasConsumedUnder(path string) bool {
	full := v.full(path) + "/"
	for key := range v.state.consumed {
		if strings.HasPrefix(key, full) {
			return true
		}
	}

	return false
}

// Consume marks paths as used without reading them, e.g. for the values intentionally ignored
func (v *Values) Consume(paths ...string) {
	for _, path := range paths {
		v.state.consumed[v.full(path)] = true
	}
}

// ConsumeAll marks all values as used, e.g. when the whole list item is dropped
func (v *Values) ConsumeAll() {
	v.state.consumed[v.prefix] = true
}

// Issuef records a conversion issue, e.g. value that was dropped
func (v *Values) Issuef(path string, format string, args ...any) {
	v.state.issues = append(v.state.issues, v.full(path)+": "+fmt.Sprintf(format, args...))
}

// Issues returns all recorded conversion issues
func (v *Values) Issues() []string {
	return slices.Clone(v.state.issues)
}

// Get returns the value by the data path regardless if it was consumed or not
func (v *Values) Get(path string) (any, bool) {
	var cur any = v.data
	for _, key := range strings.Split(path, "/") {
		switch node := cur.(type) {
		case map[string]any:
			val, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = val
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}

	return cur, true
}

// Has checks if any of the paths is present and not consumed yet
func (v *Values) Has(paths ...string) bool {
	_, _, ok := v.find(paths...)

	return ok
}

func (v *Values) find(paths ...string) (string, any, bool) {
	for _, path := range paths {
		if v.isConsumed(path) {
			continue
		}
		if val, ok := v.Get(path); ok {
			return path, val, true
		}
	}

	return "", nil, false
}

// Pop returns the value of the first present path (aliases) and marks all of them consumed
func (v *Values) Pop(paths ...string) (any, bool) {
	found, val, ok := v.find(paths...)
	if !ok {
		return nil, false
	}

	for _, path := range paths {
		if path == found || v.isConsumed(path) {
			continue
		}
		if _, exists := v.Get(path); exists {
			v.Issuef(path, "ignored in favor of %s", v.full(found))
		}
	}

	v.Consume(paths...)

	return val, true
}

// IsVariable checks if the value is a device variable
func (v *Values) IsVariable(paths ...string) bool {
	_, val, ok := v.find(paths...)
	if !ok {
		return false
	}
	_, isVar := val.(ftapi.DeviceVariable)

	return isVar
}

// Lookup pops the value and converts it into the parcel value, device variables become parcel variables. Values
// that can't be converted are reported as issues and result in the unset value.
func Lookup[T any](v *Values, paths ...string) meta.Value[T] {
	found, _, _ := v.find(paths...)

	raw, ok := v.Pop(paths...)
	if !ok {
		return meta.Value[T]{}
	}

	res, err := ToValue[T](raw)
	if err != nil {
		v.Issuef(found, "%s", err.Error())

		return meta.Value[T]{}
	}

	return res
}

// ToValue converts a single template value into the global or variable parcel value
func ToValue[T any](raw any) (meta.Value[T], error) {
	if dv, ok := raw.(ftapi.DeviceVariable); ok {
		if err := meta.CheckVariableName(dv.Name); err != nil {
			return meta.Value[T]{}, err //nolint:wrapcheck
		}

		return meta.Variable[T](dv.Name), nil
	}

	rv, err := coerce(raw, reflect.TypeFor[T]())
	if err != nil {
		return meta.Value[T]{}, err
	}

	return meta.Global(rv.Interface().(T)), nil //nolint:forcetypeassert
}

func (v *Values) String(paths ...string) meta.Value[string] {
	return Lookup[string](v, paths...)
}

func (v *Values) Bool(paths ...string) meta.Value[bool] {
	return Lookup[bool](v, paths...)
}

func (v *Values) Strings(paths ...string) meta.Value[[]string] {
	return Lookup[[]string](v, paths...)
}

// Sub returns the nested map values, empty if there is no such path
func (v *Values) Sub(paths ...string) *Values {
	found, val, ok := v.find(paths...)
	if m, isMap := val.(map[string]any); ok && isMap {
		return &Values{data: m, prefix: v.full(found), state: v.state}
	}

	return &Values{data: map[string]any{}, prefix: v.full(lo.FirstOrEmpty(paths)), state: v.state}
}

// List returns values of each list item, a single map is considered a list of one item
func (v *Values) List(paths ...string) []*Values {
	found, val, ok := v.find(paths...)
	if !ok {
		return nil
	}

	if m, ok := val.(map[string]any); ok {
		return []*Values{{data: m, prefix: v.full(found), state: v.state}}
	}

	items, ok := val.([]any)
	if !ok {
		v.Issuef(found, "expected list, got %T", val)
		v.Consume(found)

		return nil
	}

	res := make([]*Values, 0, len(items))
	for idx, item := range items {
		itemPath := joinPath(found, strconv.Itoa(idx))

		m, ok := item.(map[string]any)
		if !ok {
			v.Issuef(itemPath, "expected object, got %T", item)
			v.Consume(itemPath)

			continue
		}

		res = append(res, &Values{data: m, prefix: v.full(itemPath), state: v.state})
	}

	if len(items) == 0 {
		v.Consume(found)
	}

	return res
}

// Rest returns a copy of the values that are not consumed yet, lists with partially consumed items are skipped
func (v *Values) Rest() map[string]any {
	return v.rest("", v.data)
}

func (v *Values) rest(path string, data map[string]any) map[string]any {
	res := map[string]any{}
	for key, val := range data {
		keyPath := joinPath(path, key)
		if v.isConsumed(keyPath) {
			continue
		}

		if m, ok := val.(map[string]any); ok && v.hasConsumedUnder(keyPath) {
			if sub := v.rest(keyPath, m); len(sub) > 0 {
				res[key] = sub
			}

			continue
		}

		if _, ok := val.([]any); ok && v.hasConsumedUnder(keyPath) {
			continue
		}

		res[key] = val
	}

	return res
}

// Into decodes all values not consumed yet into the target struct (see Into) and marks them consumed
func (v *Values) Into(target any) error {
	rest := v.Rest()
	if len(rest) == 0 {
		return nil
	}

	issues, err := Into(rest, target)
	if err != nil {
		return err
	}

	for key := range rest {
		v.Consume(key)
	}
	for _, issue := range issues {
		v.state.issues = append(v.state.issues, v.full(issue))
	}

	return nil
}

// Unconsumed returns leaf paths that weren't read by the converter, naturally sorted
func (v *Values) Unconsumed() []string {
	res := []string{}

	var walk func(path string, val any)
	walk = func(path string, val any) {
		if path != "" && v.isConsumed(path) {
			return
		}

		switch node := val.(type) {
		case map[string]any:
			for key, sub := range node {
				walk(joinPath(path, key), sub)
			}
		case []any:
			allMaps := lo.EveryBy(node, func(item any) bool {
				_, ok := item.(map[string]any)

				return ok
			})
			if len(node) > 0 && allMaps {
				for idx, sub := range node {
					walk(joinPath(path, strconv.Itoa(idx)), sub)
				}

				return
			}

			res = append(res, v.full(path))
		default:
			res = append(res, v.full(path))
		}
	}
	walk("", v.data)

	slices.SortFunc(res, CompareNatural)

	return res
}

func CompareNatural(a, b string) int {
	if a == b {
		return 0
	} else if natural.Less(a, b) {
		return -1
	}

	return 1
}
