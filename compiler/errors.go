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

// Package compiler lowers DSL source text into a config.ConfigRoot and
// serializes/deserializes the resulting ruleset as a content-addressed
// binary artifact.
package compiler

import (
	"fmt"
	"path/filepath"
)

// ParseError is a structured compile-time error. Every variant carries
// enough context to render both a human-readable message (Error) and a
// stable machine-readable code (Code), mirroring the two renderings
// §7 requires of the compiler.
type ParseError struct {
	Kind    ParseErrorKind
	File    string
	Line    int
	Column  int
	Message string

	// Populated depending on Kind.
	Expected      string
	Got           string
	Context       string
	GotID         uint16
	MaxID         uint8
	Name          string
	Key           string
	SearchedPaths []string
	Chain         []string
	LimitType     string
}

// ParseErrorKind discriminates the ParseError variants named in §7.
type ParseErrorKind uint8

const (
	SyntaxError ParseErrorKind = iota
	InvalidPrefix
	ModifierIDOutOfRange
	LockIDOutOfRange
	PhysicalModifierInMD
	MissingPrefix
	ImportNotFound
	CircularImport
	ResourceLimitExceeded
)

// Code returns a stable machine-readable error code, independent of
// Error()'s human-readable wording.
func (k ParseErrorKind) Code() string {
	switch k {
	case SyntaxError:
		return "E_SYNTAX"
	case InvalidPrefix:
		return "E_INVALID_PREFIX"
	case ModifierIDOutOfRange:
		return "E_MODIFIER_ID_RANGE"
	case LockIDOutOfRange:
		return "E_LOCK_ID_RANGE"
	case PhysicalModifierInMD:
		return "E_PHYSICAL_MODIFIER_IN_MD"
	case MissingPrefix:
		return "E_MISSING_PREFIX"
	case ImportNotFound:
		return "E_IMPORT_NOT_FOUND"
	case CircularImport:
		return "E_CIRCULAR_IMPORT"
	case ResourceLimitExceeded:
		return "E_RESOURCE_LIMIT"
	default:
		return "E_UNKNOWN"
	}
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
	switch e.Kind {
	case SyntaxError:
		return fmt.Sprintf("%s: syntax error: %s", loc, e.Message)
	case InvalidPrefix:
		return fmt.Sprintf("%s: invalid prefix: expected %s, got %q (%s)", loc, e.Expected, e.Got, e.Context)
	case ModifierIDOutOfRange:
		return fmt.Sprintf("%s: modifier id %d (%#x) exceeds max %#x", loc, e.GotID, e.GotID, e.MaxID)
	case LockIDOutOfRange:
		return fmt.Sprintf("%s: lock id %d (%#x) exceeds max %#x", loc, e.GotID, e.GotID, e.MaxID)
	case PhysicalModifierInMD:
		return fmt.Sprintf("%s: physical modifier %q cannot be used as a custom MD_ id", loc, e.Name)
	case MissingPrefix:
		return fmt.Sprintf("%s: key %q is missing a VK_/MD_/LK_ prefix (%s)", loc, e.Key, e.Context)
	case ImportNotFound:
		return fmt.Sprintf("%s: import %q not found, searched: %v", loc, e.Got, e.SearchedPaths)
	case CircularImport:
		return fmt.Sprintf("%s: circular import: %s", loc, filepath.Join(e.Chain...))
	case ResourceLimitExceeded:
		return fmt.Sprintf("%s: resource limit exceeded: %s", loc, e.LimitType)
	default:
		return fmt.Sprintf("%s: %s", loc, e.Message)
	}
}

// SerializeError wraps a failure while writing an artifact.
type SerializeError struct {
	Op  string
	Err error
}

func (e *SerializeError) Error() string { return fmt.Sprintf("serialize: %s: %v", e.Op, e.Err) }
func (e *SerializeError) Unwrap() error { return e.Err }

// DeserializeErrorKind discriminates DeserializeError variants.
type DeserializeErrorKind uint8

const (
	InvalidMagic DeserializeErrorKind = iota
	VersionMismatch
	HashMismatch
	TruncatedPayload
	IOError
)

// DeserializeError reports why a ruleset artifact failed to load.
// Readers fail closed: there is no best-effort path (invariant I6).
type DeserializeError struct {
	Kind             DeserializeErrorKind
	ExpectedMagic    [4]byte
	GotMagic         [4]byte
	ExpectedVersion  uint32
	GotVersion       uint32
	ExpectedHash     [32]byte
	ComputedHash     [32]byte
	Err              error
}

func (e *DeserializeError) Error() string {
	switch e.Kind {
	case InvalidMagic:
		return fmt.Sprintf("invalid magic bytes: expected %x, got %x", e.ExpectedMagic, e.GotMagic)
	case VersionMismatch:
		return fmt.Sprintf("version mismatch: expected %d, got %d", e.ExpectedVersion, e.GotVersion)
	case HashMismatch:
		return fmt.Sprintf("hash mismatch (data corruption detected): expected %x, computed %x", e.ExpectedHash, e.ComputedHash)
	case TruncatedPayload:
		return "artifact payload is shorter than its declared header"
	case IOError:
		return fmt.Sprintf("i/o error: %v", e.Err)
	default:
		return "deserialize: unknown error"
	}
}

func (e *DeserializeError) Unwrap() error { return e.Err }
