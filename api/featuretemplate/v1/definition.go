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

package v1

import "strings"

const (
	vipType         = "vipType"
	vipObjectType   = "vipObjectType"
	vipValue        = "vipValue"
	vipVariableName = "vipVariableName"

	vipTypeIgnore       = "ignore"
	vipTypeVariableName = "variableName"
	vipTypeVariable     = "variable"
)

// bookkeeping keys of the tree entries that are not part of the config
var skippedKeys = map[string]bool{
	"priority-order":  true,
	"vipPrimaryKey":   true,
	"vipOptional":     true,
	"vipDynamic":      true,
	"vipNeedsEncrypt": true,
}

// Flatten converts Manager feature template definition into the plain nested map.
//
// Every vip encoded node is replaced by its value:
//   - "ignore" nodes are dropped so the parcel default is used,
//   - "variableName" nodes become DeviceVariable,
//   - "tree" nodes become list of flattened maps,
//   - "list" nodes become list of scalars,
//   - "object" and "node-only" nodes become scalars.
//
// Plain (non vip) maps keep their key and nesting, empty ones included (e.g. OSPF stub area).
// Empty string values and blank variable names are considered unset, false and 0 are kept.
func Flatten(definition map[string]any) map[string]any {
	return flattenContainer(definition)
}

func isVipNode(node map[string]any) bool {
	_, hasType := node[vipType]
	_, hasObjType := node[vipObjectType]

	return hasType || hasObjType
}

func flattenNode(node map[string]any) (any, bool) {
	if !isVipNode(node) {
		return flattenContainer(node), true
	}

	typ, _ := node[vipType].(string)
	switch typ {
	case vipTypeIgnore:
		return nil, false
	case vipTypeVariableName, vipTypeVariable:
		name, _ := node[vipVariableName].(string)
		if strings.TrimSpace(name) == "" {
			return nil, false
		}

		return DeviceVariable{Name: name}, true
	}

	switch val := node[vipValue].(type) {
	case nil:
		return nil, false
	case string:
		if val == "" {
			return nil, false
		}

		return val, true
	case []any:
		res := make([]any, 0, len(val))
		for _, item := range val {
			if itemMap, ok := item.(map[string]any); ok {
				if flat, ok := flattenNode(itemMap); ok {
					res = append(res, flat)
				}

				continue
			}

			if str, ok := item.(string); ok && str == "" {
				continue
			}

			res = append(res, item)
		}

		return res, len(res) > 0
	case map[string]any:
		res := flattenContainer(val)

		return res, len(res) > 0
	default:
		return val, true
	}
}

func flattenContainer(container map[string]any) map[string]any {
	res := map[string]any{}

	for key, raw := range container {
		if skippedKeys[key] {
			continue
		}

		switch val := raw.(type) {
		case map[string]any:
			if flat, ok := flattenNode(val); ok {
				res[key] = flat
			}
		case nil:
		case string:
			if val != "" {
				res[key] = val
			}
		default:
			res[key] = val
		}
	}

	return res
}
