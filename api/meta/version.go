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
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// MinFeatureProfileVersion is the first Manager release exposing v1 feature profiles and parcels
var MinFeatureProfileVersion = semver.MustParse("20.12.0")

// ParseVersion parses Manager version strings like "20.12.1", "20.15.1.1" or "20.9.4-li" keeping
// only the first three numeric components
func ParseVersion(raw string) (*semver.Version, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty version")
	}

	if idx := strings.IndexAny(raw, "-+ "); idx > 0 {
		raw = raw[:idx]
	}

	parts := strings.Split(raw, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}

	ver, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing version %q", raw)
	}

	return ver, nil
}

// CheckVersion returns an error if the version doesn't satisfy constraint (e.g. ">=20.12")
func CheckVersion(ver *semver.Version, constraint string) error {
	if ver == nil {
		return errors.New("version is unknown")
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "parsing version constraint %q", constraint)
	}

	if !c.Check(ver) {
		return errors.Errorf("version %s doesn't satisfy %s", ver, constraint)
	}

	return nil
}
