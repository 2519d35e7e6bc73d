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
	"path/filepath"
	"strings"

	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/keycode"
)

// importer resolves and flattens import(path) calls into a single call
// stream ("textual inclusion", spec §4.3), detecting cycles and bounding
// the import graph.
type importer struct {
	loader     FileLoader
	searchDirs []string
	chain      []string
	fileCount  int
}

const maxImportedFiles = 256

func (im *importer) expand(path string) ([]call, *ParseError) {
	resolved, searched, found := im.resolve(path)
	if !found {
		return nil, position{File: path}.err(ImportNotFound, func(e *ParseError) {
			e.Got = path
			e.SearchedPaths = searched
		})
	}
	for _, c := range im.chain {
		if c == resolved {
			chain := append(append([]string{}, im.chain...), resolved)
			return nil, position{File: resolved}.err(CircularImport, func(e *ParseError) {
				e.Chain = chain
			})
		}
	}

	im.fileCount++
	if im.fileCount > maxImportedFiles {
		return nil, position{File: resolved}.err(ResourceLimitExceeded, func(e *ParseError) {
			e.LimitType = "import graph size"
		})
	}

	src, err := im.loader.Read(resolved)
	if err != nil {
		return nil, position{File: resolved}.syntaxErr("failed to read import: " + err.Error())
	}

	calls, perr := parseCalls(resolved, src)
	if perr != nil {
		return nil, perr
	}

	im.chain = append(im.chain, resolved)
	defer func() { im.chain = im.chain[:len(im.chain)-1] }()

	out := make([]call, 0, len(calls))
	for _, c := range calls {
		if c.name != "import" {
			out = append(out, c)
			continue
		}
		if len(c.args) != 1 || c.args[0].kind != tokString {
			return nil, c.pos.syntaxErr("import() takes exactly one string path")
		}
		nested, perr := im.expand(c.args[0].text)
		if perr != nil {
			return nil, perr
		}
		out = append(out, nested...)
	}
	return out, nil
}

// resolve searches searchDirs, in order, for path; a path that is itself
// absolute or already exists relative to the working directory is
// returned unchanged.
func (im *importer) resolve(path string) (resolved string, searched []string, found bool) {
	if filepath.IsAbs(path) && im.loader.Exists(path) {
		return path, nil, true
	}
	if im.loader.Exists(path) {
		return path, nil, true
	}
	for _, dir := range im.searchDirs {
		candidate := filepath.Join(dir, path)
		searched = append(searched, candidate)
		if im.loader.Exists(candidate) {
			return candidate, searched, true
		}
	}
	return "", searched, false
}

type blockKind uint8

const (
	blockDevice blockKind = iota
	blockWhen
	blockWhenDevice
)

type openBlock struct {
	kind     blockKind
	pos      position
	pattern  string
	cond     config.Condition
	mappings []config.KeyMapping
	bases    []config.BaseKeyMapping
}

// Compile reads entryPath (resolved via loader and searchDirs), expands
// its imports, and lowers the resulting call stream into a ConfigRoot.
func Compile(entryPath string, searchDirs []string, loader FileLoader) (config.ConfigRoot, *ParseError) {
	im := &importer{loader: loader, searchDirs: searchDirs}
	calls, err := im.expand(entryPath)
	if err != nil {
		return config.ConfigRoot{}, err
	}
	return lowerCalls(calls)
}

// CompileString lowers src (named file, for error messages only) without
// touching the filesystem; it cannot contain import() calls.
func CompileString(file, src string) (config.ConfigRoot, *ParseError) {
	calls, err := parseCalls(file, src)
	if err != nil {
		return config.ConfigRoot{}, err
	}
	for _, c := range calls {
		if c.name == "import" {
			return config.ConfigRoot{}, c.pos.syntaxErr("import() is not available when compiling from a string")
		}
	}
	return lowerCalls(calls)
}

func lowerCalls(calls []call) (config.ConfigRoot, *ParseError) {
	var devices []config.DeviceConfig
	var stack []openBlock

	for _, c := range calls {
		switch c.name {
		case "device_start":
			if len(stack) != 0 {
				return config.ConfigRoot{}, c.pos.syntaxErr("device_start cannot be nested")
			}
			pattern, err := stringArg(c, 0)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			stack = append(stack, openBlock{kind: blockDevice, pos: c.pos, pattern: pattern})

		case "device_end":
			top, rest, err := pop(stack, c.pos, blockDevice)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			stack = rest
			devices = append(devices, config.NewDeviceConfig(top.pattern, top.mappings...))

		case "when_start":
			if len(stack) != 1 || stack[0].kind != blockDevice {
				return config.ConfigRoot{}, c.pos.syntaxErr("when_start must appear directly inside device_start/device_end")
			}
			if len(stack) >= maxNestingDepth {
				return config.ConfigRoot{}, c.pos.err(ResourceLimitExceeded, func(e *ParseError) { e.LimitType = "nesting depth" })
			}
			expr, err := stringArg(c, 0)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			cond, perr := parseWhenExpr(c.pos, expr)
			if perr != nil {
				return config.ConfigRoot{}, perr
			}
			stack = append(stack, openBlock{kind: blockWhen, pos: c.pos, cond: cond})

		case "when_end":
			top, rest, err := pop(stack, c.pos, blockWhen)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			stack = rest
			appendClosedConditional(&stack[len(stack)-1], top)

		case "when_device_start":
			if len(stack) != 1 || stack[0].kind != blockDevice {
				return config.ConfigRoot{}, c.pos.syntaxErr("when_device_start must appear directly inside device_start/device_end")
			}
			pattern, err := stringArg(c, 0)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			stack = append(stack, openBlock{
				kind: blockWhenDevice,
				pos:  c.pos,
				cond: config.NewDeviceMatchesCondition(pattern),
			})

		case "when_device_end":
			top, rest, err := pop(stack, c.pos, blockWhenDevice)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			stack = rest
			appendClosedConditional(&stack[len(stack)-1], top)

		case "map":
			base, err := lowerMap(c)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			if err := appendBase(stack, c.pos, base); err != nil {
				return config.ConfigRoot{}, err
			}

		case "tap_hold":
			base, err := lowerTapHold(c)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			if err := appendBase(stack, c.pos, base); err != nil {
				return config.ConfigRoot{}, err
			}

		case "import":
			return config.ConfigRoot{}, c.pos.syntaxErr("import() must be resolved before lowering")

		default:
			return config.ConfigRoot{}, c.pos.syntaxErr("unknown directive: " + c.name)
		}
	}

	if len(stack) != 0 {
		return config.ConfigRoot{}, stack[len(stack)-1].pos.syntaxErr("unclosed block at end of file")
	}

	root := config.NewConfigRoot(devices...)
	if err := root.Validate(); err != nil {
		return config.ConfigRoot{}, position{}.err(SyntaxError, func(e *ParseError) { e.Message = err.Error() })
	}
	return root, nil
}

func pop(stack []openBlock, pos position, want blockKind) (openBlock, []openBlock, *ParseError) {
	if len(stack) == 0 || stack[len(stack)-1].kind != want {
		return openBlock{}, nil, pos.syntaxErr("mismatched block close")
	}
	top := stack[len(stack)-1]
	return top, stack[:len(stack)-1], nil
}

func appendClosedConditional(parent *openBlock, closed openBlock) {
	parent.mappings = append(parent.mappings, config.NewConditionalMapping(closed.cond, closed.bases...))
}

func appendBase(stack []openBlock, pos position, base config.BaseKeyMapping) *ParseError {
	if len(stack) == 0 {
		return pos.syntaxErr("map/tap_hold must appear inside device_start/device_end")
	}
	top := &stack[len(stack)-1]
	switch top.kind {
	case blockDevice:
		top.mappings = append(top.mappings, config.NewBaseMapping(base))
	case blockWhen, blockWhenDevice:
		top.bases = append(top.bases, base)
	}
	return nil
}

func stringArg(c call, i int) (string, *ParseError) {
	if i >= len(c.args) || c.args[i].kind != tokString {
		return "", c.pos.syntaxErr(c.name + "() expects a string argument")
	}
	return c.args[i].text, nil
}

func numberArg(c call, i int) (uint64, *ParseError) {
	if i >= len(c.args) || c.args[i].kind != tokNumber {
		return 0, c.pos.syntaxErr(c.name + "() expects a numeric argument")
	}
	return c.args[i].num, nil
}

func parseFromKey(pos position, name string) (keycode.Code, *ParseError) {
	code, ok := keycode.ParseName(name)
	if !ok {
		return 0, pos.err(InvalidPrefix, func(e *ParseError) {
			e.Expected = "valid key name"
			e.Got = name
			e.Context = "map() from key"
		})
	}
	return code, nil
}

// modifierFlagKeys names the physical modifiers recognized as chord
// flags in a ModifiedOutput "to" spec, in the fixed emission order §4.7
// requires: Shift, Ctrl, Alt, then Meta (the "win" flag).
var modifierFlagKeys = []string{"VK_LShift", "VK_LCtrl", "VK_LAlt", "VK_LMeta"}

func lowerMap(c call) (config.BaseKeyMapping, *ParseError) {
	fromName, err := stringArg(c, 0)
	if err != nil {
		return nil, err
	}
	to, err := stringArg(c, 1)
	if err != nil {
		return nil, err
	}
	from, perr := parseFromKey(c.pos, fromName)
	if perr != nil {
		return nil, perr
	}

	if strings.Contains(to, "+") {
		return lowerModifiedOutput(c.pos, from, to)
	}

	switch {
	case strings.HasPrefix(to, "VK_"):
		code, perr := parseVirtualKey(c.pos, to)
		if perr != nil {
			return nil, perr
		}
		return config.SimpleMapping{FromKey: from, To: code}, nil
	case strings.HasPrefix(to, "MD_"):
		id, perr := parseModifierID(c.pos, to)
		if perr != nil {
			return nil, perr
		}
		return config.ModifierMapping{FromKey: from, ModifierID: id}, nil
	case strings.HasPrefix(to, "LK_"):
		id, perr := parseLockID(c.pos, to)
		if perr != nil {
			return nil, perr
		}
		return config.LockMapping{FromKey: from, LockID: id}, nil
	default:
		return nil, c.pos.err(MissingPrefix, func(e *ParseError) {
			e.Key = to
			e.Context = "map() to key"
		})
	}
}

// lowerModifiedOutput parses a "+"-joined chord spec such as
// "VK_LShift+VK_LCtrl+VK_Z" into a ModifiedOutputMapping. Every token but
// the last must be one of the four recognized physical modifier flags;
// the last must be a VK_ key.
func lowerModifiedOutput(pos position, from keycode.Code, spec string) (config.BaseKeyMapping, *ParseError) {
	parts := strings.Split(spec, "+")
	out := config.ModifiedOutputMapping{FromKey: from}
	for i, part := range parts {
		last := i == len(parts)-1
		if last {
			code, perr := parseVirtualKey(pos, part)
			if perr != nil {
				return nil, perr
			}
			out.To = code
			continue
		}
		switch part {
		case "VK_LShift":
			out.Shift = true
		case "VK_LCtrl":
			out.Ctrl = true
		case "VK_LAlt":
			out.Alt = true
		case "VK_LMeta":
			out.Win = true
		default:
			return nil, pos.err(InvalidPrefix, func(e *ParseError) {
				e.Expected = strings.Join(modifierFlagKeys, "|")
				e.Got = part
				e.Context = "modified-output chord flag"
			})
		}
	}
	return out, nil
}

func lowerTapHold(c call) (config.BaseKeyMapping, *ParseError) {
	fromName, err := stringArg(c, 0)
	if err != nil {
		return nil, err
	}
	tapName, err := stringArg(c, 1)
	if err != nil {
		return nil, err
	}
	holdName, err := stringArg(c, 2)
	if err != nil {
		return nil, err
	}
	threshold, err := numberArg(c, 3)
	if err != nil {
		return nil, err
	}

	from, perr := parseFromKey(c.pos, fromName)
	if perr != nil {
		return nil, perr
	}
	tap, perr := parseVirtualKey(c.pos, tapName)
	if perr != nil {
		return nil, perr
	}
	hold, perr := parseModifierID(c.pos, holdName)
	if perr != nil {
		return nil, perr
	}
	if threshold > 0xFFFF {
		return nil, c.pos.err(ResourceLimitExceeded, func(e *ParseError) { e.LimitType = "tap-hold threshold" })
	}
	return config.TapHoldMapping{
		FromKey:      from,
		Tap:          tap,
		HoldModifier: hold,
		ThresholdMS:  uint16(threshold),
	}, nil
}
