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
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
)

type Defaultable interface {
	Default()
}

type Validatable interface {
	Validate() error
}

// OptionType is the kind of the parcel value, it defines how the value is resolved on the device
type OptionType string

const (
	OptionTypeUnset    OptionType = ""
	OptionTypeGlobal   OptionType = "global"
	OptionTypeVariable OptionType = "variable"
	OptionTypeDefault  OptionType = "default"
)

var OptionTypes = []OptionType{
	OptionTypeGlobal,
	OptionTypeVariable,
	OptionTypeDefault,
}

// Option is implemented by all Value types and allows to inspect them without knowing the element type
type Option interface {
	OptionKind() OptionType
	ElemType() reflect.Type
	IsZero() bool
}

// Value is a single parcel value, serialized as {"optionType": "...", "value": ...}.
// Variable values carry the variable reference (e.g. "{{system_ip}}") instead of the value itself.
type Value[T any] struct {
	OptionType OptionType
	Value      T
	Variable   string
}

var _ Option = Value[string]{}

func Global[T any](val T) Value[T] {
	return Value[T]{OptionType: OptionTypeGlobal, Value: val}
}

func Default[T any](val T) Value[T] {
	return Value[T]{OptionType: OptionTypeDefault, Value: val}
}

func Variable[T any](name string) Value[T] {
	return Value[T]{OptionType: OptionTypeVariable, Variable: VariableName(name)}
}

func (v Value[T]) OptionKind() OptionType {
	return v.OptionType
}

func (v Value[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (v Value[T]) IsZero() bool {
	return v.OptionType == OptionTypeUnset
}

func (v Value[T]) IsGlobal() bool {
	return v.OptionType == OptionTypeGlobal
}

func (v Value[T]) IsVariable() bool {
	return v.OptionType == OptionTypeVariable
}

func (v Value[T]) IsDefault() bool {
	return v.OptionType == OptionTypeDefault
}

// Get returns the value if it's global or default one
func (v Value[T]) Get() (T, bool) {
	if v.OptionType == OptionTypeGlobal || v.OptionType == OptionTypeDefault {
		return v.Value, true
	}

	var zero T

	return zero, false
}

// OrDefault returns the value itself if it's set or the default value otherwise
func (v Value[T]) OrDefault(val T) Value[T] {
	if v.IsZero() {
		return Default(val)
	}

	return v
}

type rawValue struct {
	OptionType OptionType      `json:"optionType"`
	Value      json.RawMessage `json:"value,omitempty"`
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	switch v.OptionType {
	case OptionTypeUnset:
		return []byte("null"), nil
	case OptionTypeVariable:
		return json.Marshal(struct {
			OptionType OptionType `json:"optionType"`
			Value      string     `json:"value"`
		}{OptionTypeVariable, v.Variable})
	case OptionTypeGlobal, OptionTypeDefault:
		return json.Marshal(struct {
			OptionType OptionType `json:"optionType"`
			Value      T          `json:"value"`
		}{v.OptionType, v.Value})
	default:
		return nil, errors.Errorf("unknown option type %q", v.OptionType)
	}
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value[T]{}

		return nil
	}

	raw := rawValue{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrapf(err, "parsing option value")
	}

	res := Value[T]{OptionType: raw.OptionType}
	switch raw.OptionType {
	case OptionTypeVariable:
		if err := json.Unmarshal(raw.Value, &res.Variable); err != nil {
			return errors.Wrapf(err, "parsing variable name")
		}
		if !IsVariableName(res.Variable) {
			return errors.Errorf("invalid variable name %q", res.Variable)
		}
	case OptionTypeGlobal, OptionTypeDefault:
		if len(raw.Value) > 0 {
			if err := json.Unmarshal(raw.Value, &res.Value); err != nil {
				return errors.Wrapf(err, "parsing %s value", raw.OptionType)
			}
		}
	case OptionTypeUnset:
		return errors.New("optionType is required")
	default:
		return errors.Errorf("unknown option type %q", raw.OptionType)
	}

	*v = res

	return nil
}
