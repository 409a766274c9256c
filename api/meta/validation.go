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
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

var (
	variableChecker   = regexp.MustCompile(`^\{\{[./\[\]a-zA-Z0-9_-]+\}\}$`)
	variableForbidden = regexp.MustCompile(`[^./\[\]a-zA-Z0-9_-]`)
)

// Chooser is implemented by string enums to expose the list of the allowed values
type Chooser interface {
	Choices() []string
}

// VariableName converts device variable name into the parcel variable reference, e.g. "system_ip" to "{{system_ip}}"
func VariableName(name string) string {
	if IsVariableName(name) {
		return name
	}

	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(strings.TrimPrefix(name, "{{"), "}}")
	name = variableForbidden.ReplaceAllString(name, "_")

	return "{{" + name + "}}"
}

func IsVariableName(name string) bool {
	return variableChecker.MatchString(name)
}

var ErrInvalidVariableName = errors.New("invalid variable name")

// CheckVariableName returns an error if the device variable name can't be turned into the parcel variable, e.g. blank
func CheckVariableName(name string) error {
	if !IsVariableName(VariableName(name)) {
		return errors.Wrapf(ErrInvalidVariableName, "%q", name)
	}

	return nil
}

// MatchChoice looks up the canonical choice ignoring case and "-", "_" and " " separators
func MatchChoice(choices []string, val string) (string, bool) {
	if slices.Contains(choices, val) {
		return val, true
	}

	canonical := CanonicalKey(val)
	for _, choice := range choices {
		if CanonicalKey(choice) == canonical {
			return choice, true
		}
	}

	return "", false
}

// CanonicalKey lowercases the key and drops separators so "system-ip", "system_ip" and "systemIp" are the same
func CanonicalKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ', '.':
			return -1
		}

		return r
	}, strings.ToLower(key))
}

// ValidateChoice checks that the global or default value is one of the enum choices
func ValidateChoice[T interface {
	~string
	Chooser
}](field string, v Value[T]) error {
	val, ok := v.Get()
	if !ok {
		return nil
	}

	if !slices.Contains(val.Choices(), string(val)) {
		return errors.Errorf("%s: %q is not one of %v", field, val, val.Choices())
	}

	return nil
}

// ValidateChoices is the same as ValidateChoice but for list values
func ValidateChoices[T interface {
	~string
	Chooser
}](field string, v Value[[]T]) error {
	vals, ok := v.Get()
	if !ok {
		return nil
	}

	for _, val := range vals {
		if !slices.Contains(val.Choices(), string(val)) {
			return errors.Errorf("%s: %q is not one of %v", field, val, val.Choices())
		}
	}

	return nil
}

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func ValidateRange[T Number](field string, v Value[T], from, to T) error {
	val, ok := v.Get()
	if !ok {
		return nil
	}

	if val < from || val > to {
		return errors.Errorf("%s: %d is out of range %d-%d", field, val, from, to)
	}

	return nil
}

func ValidateRequired[T any](field string, v Value[T]) error {
	if v.IsZero() {
		return errors.Errorf("%s is required", field)
	}

	return nil
}

func ValidateMaxLen(field string, v Value[string], maxLen int) error {
	val, ok := v.Get()
	if !ok {
		return nil
	}

	if len(val) > maxLen {
		return errors.Errorf("%s: length %d exceeds %d", field, len(val), maxLen)
	}

	return nil
}
