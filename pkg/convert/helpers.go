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
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
	"go.githedgehog.com/catalystwan/pkg/util/iputil"
)

// popPrefix reads IPv4 prefix either from the CIDR value at the path or from the separate address and mask values
func popPrefix(vals *Values, path, addrPath, maskPath string) parcelapi.Prefix {
	if raw, ok := vals.Get(path); ok && !isMap(raw) && vals.Has(path) {
		vals.Consume(path)
		addr, mask := splitAddr(vals, path, raw, iputil.NetworkAndMask)

		return parcelapi.Prefix{Address: addr, Mask: mask}
	}

	return parcelapi.Prefix{Address: vals.String(addrPath), Mask: vals.String(maskPath)}
}

// splitAddr splits CIDR value into the address and mask, device variable becomes pair of variables
func splitAddr(vals *Values, path string, raw any, split func(string) (string, string, error)) (meta.Value[string], meta.Value[string]) {
	switch val := raw.(type) {
	case ftapi.DeviceVariable:
		if err := meta.CheckVariableName(val.Name); err != nil {
			vals.Issuef(path, "%s", err.Error())

			return meta.Value[string]{}, meta.Value[string]{}
		}

		return meta.Variable[string](val.Name), meta.Variable[string](val.Name + "_mask")
	case string:
		addr, mask, err := split(val)
		if err != nil {
			vals.Issuef(path, "%s", err.Error())

			return meta.Value[string]{}, meta.Value[string]{}
		}

		return meta.Global(addr), meta.Global(mask)
	}

	vals.Issuef(path, "expected prefix, got %T", raw)

	return meta.Value[string]{}, meta.Value[string]{}
}

func prefixSet(p parcelapi.Prefix) bool {
	return !p.Address.IsZero() && !p.Mask.IsZero()
}

func isMap(raw any) bool {
	_, ok := raw.(map[string]any)

	return ok
}
