// Copyright 2025 The TCell Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

import (
	"strconv"
	"strings"

	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/keycode"
)

const maxCustomID = 0xFE

func parseVirtualKey(pos position, s string) (keycode.Code, *ParseError) {
	name, ok := strings.CutPrefix(s, "VK_")
	if !ok {
		return 0, pos.err(MissingPrefix, func(e *ParseError) {
			e.Key = s
			e.Context = "virtual key"
		})
	}
	code, found := keycode.ParseName(name)
	if !found {
		return 0, pos.err(InvalidPrefix, func(e *ParseError) {
			e.Expected = "valid key name"
			e.Got = s
			e.Context = "virtual key parsing"
		})
	}
	return code, nil
}

func parseModifierID(pos position, s string) (uint8, *ParseError) {
	idPart, ok := strings.CutPrefix(s, "MD_")
	if !ok {
		return 0, pos.err(MissingPrefix, func(e *ParseError) {
			e.Key = s
			e.Context = "custom modifier"
		})
	}
	if keycode.IsPhysicalModifierName(idPart) {
		return 0, pos.err(PhysicalModifierInMD, func(e *ParseError) {
			e.Name = idPart
		})
	}
	id, err := strconv.ParseUint(idPart, 16, 16)
	if err != nil {
		return 0, pos.err(InvalidPrefix, func(e *ParseError) {
			e.Expected = "MD_XX (hex, 00-FE)"
			e.Got = s
			e.Context = "custom modifier ID"
		})
	}
	if id > maxCustomID {
		return 0, pos.err(ModifierIDOutOfRange, func(e *ParseError) {
			e.GotID = uint16(id)
			e.MaxID = maxCustomID
		})
	}
	return uint8(id), nil
}

func parseLockID(pos position, s string) (uint8, *ParseError) {
	idPart, ok := strings.CutPrefix(s, "LK_")
	if !ok {
		return 0, pos.err(MissingPrefix, func(e *ParseError) {
			e.Key = s
			e.Context = "custom lock"
		})
	}
	id, err := strconv.ParseUint(idPart, 16, 16)
	if err != nil {
		return 0, pos.err(InvalidPrefix, func(e *ParseError) {
			e.Expected = "LK_XX (hex, 00-FE)"
			e.Got = s
			e.Context = "custom lock ID"
		})
	}
	if id > maxCustomID {
		return 0, pos.err(LockIDOutOfRange, func(e *ParseError) {
			e.GotID = uint16(id)
			e.MaxID = maxCustomID
		})
	}
	return uint8(id), nil
}

// parseConditionString parses a single "MD_XX" or "LK_XX" token into a
// Condition. Conjunctions are built by the caller from multiple tokens
// (see parseWhenExpr).
func parseConditionString(pos position, s string) (config.Condition, *ParseError) {
	switch {
	case strings.HasPrefix(s, "MD_"):
		id, err := parseModifierID(pos, s)
		if err != nil {
			return config.Condition{}, err
		}
		return config.NewModifierActiveCondition(id), nil
	case strings.HasPrefix(s, "LK_"):
		id, err := parseLockID(pos, s)
		if err != nil {
			return config.Condition{}, err
		}
		return config.NewLockActiveCondition(id), nil
	default:
		return config.Condition{}, pos.err(InvalidPrefix, func(e *ParseError) {
			e.Expected = "MD_XX or LK_XX"
			e.Got = s
			e.Context = "condition"
		})
	}
}

// parseWhenExpr parses a when_start condition expression: a single
// MD_XX/LK_XX token, or several joined with "&&" (conjunction, lowered to
// AllActive).
func parseWhenExpr(pos position, expr string) (config.Condition, *ParseError) {
	parts := strings.Split(expr, "&&")
	if len(parts) == 1 {
		return parseConditionString(pos, strings.TrimSpace(parts[0]))
	}
	items := make([]config.Condition, 0, len(parts))
	for _, p := range parts {
		cond, err := parseConditionString(pos, strings.TrimSpace(p))
		if err != nil {
			return config.Condition{}, err
		}
		items = append(items, cond)
	}
	return config.NewAllActiveCondition(items...), nil
}
