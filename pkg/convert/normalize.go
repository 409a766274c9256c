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
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	"golang.org/x/exp/constraints"
)

var (
	optionType  = reflect.TypeFor[meta.Option]()
	chooserType = reflect.TypeFor[meta.Chooser]()

	TrueVals  = []string{"true", "yes", "on", "enable", "enabled", "1"}
	FalseVals = []string{"false", "no", "off", "disable", "disabled", "0"}
)

// Normalizer reshapes loosely typed values into the shape of the model struct.
// Keys are matched canonically (case and separators ignored) against the model json field names and values are
// coerced into the declared field types.
type Normalizer struct {
	// Strict drops unknown and not convertible fields and reports them in Issues instead of keeping them unchanged
	Strict bool
	Issues []string
}

// Normalize returns values renamed and coerced to match the model (pointer to struct or reflect.Type), values that
// can't be coerced are returned unchanged
func Normalize(values map[string]any, model any) map[string]any {
	return (&Normalizer{}).Normalize(values, model)
}

func (n *Normalizer) Normalize(values map[string]any, model any) map[string]any {
	t, ok := model.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(model)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return values
	}

	return n.normalizeStruct("", values, t)
}

func (n *Normalizer) issuef(path string, format string, args ...any) {
	n.Issues = append(n.Issues, path+": "+fmt.Sprintf(format, args...))
}

func joinPath(base string, elems ...string) string {
	parts := make([]string, 0, len(elems)+1)
	if base != "" {
		parts = append(parts, base)
	}

	return strings.Join(append(parts, elems...), "/")
}

func (n *Normalizer) normalizeStruct(path string, values map[string]any, t reflect.Type) map[string]any {
	fields := modelFields(t)
	res := make(map[string]any, len(values))

	keys := lo.Keys(values)
	slices.Sort(keys)

	for _, key := range keys {
		val := values[key]
		keyPath := joinPath(path, key)

		field, ok := fields[meta.CanonicalKey(key)]
		if !ok {
			if n.Strict {
				n.issuef(keyPath, "unknown field")

				continue
			}

			res[key] = val

			continue
		}

		if _, exists := res[field.name]; exists {
			n.issuef(keyPath, "duplicate value for %s", field.name)
		}

		out, err := n.normalizeValue(keyPath, val, field.typ)
		if err != nil {
			if n.Strict {
				n.issuef(keyPath, "%s", err.Error())

				continue
			}

			out = val
		}

		res[field.name] = out
	}

	return res
}

func isStruct(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct && !t.Implements(optionType)
}

func (n *Normalizer) normalizeValue(path string, val any, t reflect.Type) (any, error) {
	if t.Implements(optionType) {
		return normalizeOption(val, t)
	}

	switch t.Kind() { //nolint:exhaustive
	case reflect.Pointer:
		return n.normalizeValue(path, val, t.Elem())
	case reflect.Struct:
		m, ok := val.(map[string]any)
		if !ok {
			return nil, errors.Errorf("expected object, got %T", val)
		}

		return n.normalizeStruct(path, m, t), nil
	case reflect.Slice:
		if isStruct(t.Elem()) {
			items := listItems(val)
			res := make([]any, 0, len(items))
			for idx, item := range items {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, errors.Errorf("item %d: expected object, got %T", idx, item)
				}

				out, err := n.normalizeValue(joinPath(path, strconv.Itoa(idx)), m, t.Elem())
				if err != nil {
					return nil, errors.Wrapf(err, "item %d", idx)
				}
				res = append(res, out)
			}

			return res, nil
		}
	}

	if _, ok := val.(ftapi.DeviceVariable); ok {
		return nil, errors.Errorf("variable isn't supported for %s", t)
	}

	rv, err := coerce(val, t)
	if err != nil {
		return nil, err
	}

	return rv.Interface(), nil
}

// normalizeOption converts the value into the {"optionType": ..., "value": ...} shape of the meta.Value
func normalizeOption(val any, t reflect.Type) (any, error) {
	if m, ok := val.(map[string]any); ok {
		if _, ok := m["optionType"]; ok {
			return m, nil
		}
	}

	if v, ok := val.(ftapi.DeviceVariable); ok {
		if err := meta.CheckVariableName(v.Name); err != nil {
			return nil, err //nolint:wrapcheck
		}

		return map[string]any{
			"optionType": string(meta.OptionTypeVariable),
			"value":      meta.VariableName(v.Name),
		}, nil
	}

	elem := reflect.Zero(t).Interface().(meta.Option).ElemType()
	rv, err := coerce(val, elem)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"optionType": string(meta.OptionTypeGlobal),
		"value":      rv.Interface(),
	}, nil
}

// coerce converts loosely typed value into the value of the given type, in order: literal (enum), bool, list, cast
func coerce(raw any, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.String && t.Implements(chooserType) {
		str, ok := toString(raw)
		if !ok {
			return reflect.Value{}, errors.Errorf("can't convert %T to %s", raw, t)
		}

		choices := reflect.Zero(t).Interface().(meta.Chooser).Choices()
		choice, ok := meta.MatchChoice(choices, str)
		if !ok {
			return reflect.Value{}, errors.Errorf("%q is not one of %v", str, choices)
		}

		return reflect.ValueOf(choice).Convert(t), nil
	}

	switch t.Kind() { //nolint:exhaustive
	case reflect.Bool:
		b, err := toBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Slice:
		items := listItems(raw)
		res := reflect.MakeSlice(t, 0, len(items))
		for idx, item := range items {
			if _, ok := item.(ftapi.DeviceVariable); ok {
				return reflect.Value{}, errors.Errorf("item %d: variable isn't supported inside the list", idx)
			}

			rv, err := coerce(item, t.Elem())
			if err != nil {
				return reflect.Value{}, errors.Wrapf(err, "item %d", idx)
			}
			res = reflect.Append(res, rv)
		}

		return res, nil
	case reflect.String:
		str, ok := toString(raw)
		if !ok {
			return reflect.Value{}, errors.Errorf("can't convert %T to %s", raw, t)
		}

		return reflect.ValueOf(str).Convert(t), nil
	case reflect.Int:
		return castTo[int](raw, t)
	case reflect.Int8:
		return castTo[int8](raw, t)
	case reflect.Int16:
		return castTo[int16](raw, t)
	case reflect.Int32:
		return castTo[int32](raw, t)
	case reflect.Int64:
		return castTo[int64](raw, t)
	case reflect.Uint:
		return castTo[uint](raw, t)
	case reflect.Uint8:
		return castTo[uint8](raw, t)
	case reflect.Uint16:
		return castTo[uint16](raw, t)
	case reflect.Uint32:
		return castTo[uint32](raw, t)
	case reflect.Uint64:
		return castTo[uint64](raw, t)
	case reflect.Float32:
		return castFloatTo[float32](raw, t)
	case reflect.Float64:
		return castFloatTo[float64](raw, t)
	case reflect.Interface:
		return reflect.ValueOf(&raw).Elem(), nil
	}

	return reflect.Value{}, errors.Errorf("unsupported type %s", t)
}

func castTo[T constraints.Integer](raw any, t reflect.Type) (reflect.Value, error) {
	val, err := CastInteger[T](raw)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(val).Convert(t), nil
}

func castFloatTo[T constraints.Float](raw any, t reflect.Type) (reflect.Value, error) {
	str, ok := toString(raw)
	if !ok {
		return reflect.Value{}, errors.Errorf("can't convert %T to %s", raw, t)
	}

	var zero T
	val, err := strconv.ParseFloat(strings.TrimSpace(str), reflect.TypeOf(zero).Bits())
	if err != nil {
		return reflect.Value{}, errors.Errorf("%q is not a number", str)
	}

	return reflect.ValueOf(T(val)).Convert(t), nil
}

// CastInteger converts number or numeric string into the integer of the given type checking its range
func CastInteger[T constraints.Integer](raw any) (T, error) {
	if _, ok := raw.(bool); ok {
		return 0, errors.Errorf("can't convert bool to %T", T(0))
	}

	str, ok := toString(raw)
	if !ok {
		return 0, errors.Errorf("can't convert %T to %T", raw, T(0))
	}
	str = strings.TrimSpace(str)

	var zero T
	bits := reflect.TypeOf(zero).Bits()

	if zero-1 < zero {
		val, err := strconv.ParseInt(str, 10, bits)
		if err != nil {
			return 0, errors.Errorf("%q is not a valid %T", str, zero)
		}

		return T(val), nil
	}

	val, err := strconv.ParseUint(str, 10, bits)
	if err != nil {
		return 0, errors.Errorf("%q is not a valid %T", str, zero)
	}

	return T(val), nil
}

func toString(raw any) (string, bool) {
	switch val := raw.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(val), true
	case json.Number:
		return val.String(), true
	}

	return "", false
}

func toBool(raw any) (bool, error) {
	if b, ok := raw.(bool); ok {
		return b, nil
	}

	str, ok := toString(raw)
	if !ok {
		return false, errors.Errorf("can't convert %T to bool", raw)
	}

	str = strings.ToLower(strings.TrimSpace(str))
	if slices.Contains(TrueVals, str) {
		return true, nil
	}
	if slices.Contains(FalseVals, str) {
		return false, nil
	}

	return false, errors.Errorf("%q is not a boolean", str)
}

// listItems returns list as is, splits string by commas and spaces and wraps other scalars into the list
func listItems(raw any) []any {
	switch val := raw.(type) {
	case nil:
		return nil
	case []any:
		return val
	case []string:
		return lo.ToAnySlice(val)
	case string:
		return lo.ToAnySlice(strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}))
	}

	return []any{raw}
}

type modelField struct {
	name string
	typ  reflect.Type
}

var fieldsCache sync.Map

// modelFields returns json fields of the struct by the canonical key, embedded structs are flattened
func modelFields(t reflect.Type) map[string]modelField {
	if cached, ok := fieldsCache.Load(t); ok {
		return cached.(map[string]modelField) //nolint:forcetypeassert
	}

	res := map[string]modelField{}
	for idx := 0; idx < t.NumField(); idx++ {
		f := t.Field(idx)
		if !f.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}

		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			for key, field := range modelFields(f.Type) {
				if _, exists := res[key]; !exists {
					res[key] = field
				}
			}

			continue
		}

		if name == "" {
			name = f.Name
		}

		res[meta.CanonicalKey(name)] = modelField{name: name, typ: f.Type}
	}

	fieldsCache.Store(t, res)

	return res
}

func strictUnmarshal(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	return dec.Decode(target) //nolint:wrapcheck
}

// Into normalizes values against the target struct and decodes them into it. Fields that can't be normalized or
// decoded are dropped one by one and reported, so the result is a partial success rather than a failure.
func Into(values map[string]any, target any) ([]string, error) {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, errors.Errorf("target should be a pointer to struct, got %T", target)
	}

	n := &Normalizer{Strict: true}
	norm := n.Normalize(values, target)
	issues := n.Issues

	data, err := json.Marshal(norm)
	if err != nil {
		return nil, errors.Wrapf(err, "marshaling normalized values")
	}

	if err := strictUnmarshal(data, reflect.New(t.Elem()).Interface()); err == nil {
		if err := json.Unmarshal(data, target); err != nil {
			return nil, errors.Wrapf(err, "decoding normalized values")
		}
	} else {
		keys := lo.Keys(norm)
		slices.Sort(keys)

		for _, key := range keys {
			data, err := json.Marshal(map[string]any{key: norm[key]})
			if err != nil {
				issues = append(issues, fmt.Sprintf("%s: dropped: %v", key, err))

				continue
			}
			if err := strictUnmarshal(data, reflect.New(t.Elem()).Interface()); err != nil {
				issues = append(issues, fmt.Sprintf("%s: dropped: %v", key, err))

				continue
			}
			if err := json.Unmarshal(data, target); err != nil {
				return nil, errors.Wrapf(err, "decoding %s", key)
			}
		}
	}

	if d, ok := target.(meta.Defaultable); ok {
		d.Default()
	}

	return issues, nil
}
