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

package keycode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func allValidCodes() []Code {
	var out []Code
	for c := Unknown + 1; c < count; c++ {
		out = append(out, c)
	}
	return out
}

func TestRoundTripNativeMapping(t *testing.T) {
	for _, c := range allValidCodes() {
		native, mapped := toNative[c]
		if !mapped {
			continue // not every key has a native identifier on every platform
		}
		got, ok := FromNative(native)
		require.Truef(t, ok, "FromNative(%v) for %v should resolve", native, c)
		require.Equalf(t, c, got, "round trip for %v via native %v", c, native)
	}
}

func TestFromNativeUnknownIsPassThrough(t *testing.T) {
	_, ok := FromNative(Native(0xFFFF))
	require.False(t, ok)
}

func TestToNativeIsTotal(t *testing.T) {
	for _, c := range allValidCodes() {
		require.NotPanics(t, func() { ToNative(c) })
	}
}

func TestParseNameAliases(t *testing.T) {
	cases := map[string]Code{
		"Esc":    Escape,
		"Escape": Escape,
		"Return": Enter,
		"Enter":  Enter,
		"Del":    Delete,
		"Delete": Delete,
		"Num0":   Numpad0,
		"esc":    Escape,
	}
	for name, want := range cases {
		got, ok := ParseName(name)
		require.Truef(t, ok, "ParseName(%q)", name)
		require.Equal(t, want, got)
	}
}

func TestParseNameUnknown(t *testing.T) {
	_, ok := ParseName("NotAKey")
	require.False(t, ok)
}

func TestIsPhysicalModifierName(t *testing.T) {
	require.True(t, IsPhysicalModifierName("LShift"))
	require.True(t, IsPhysicalModifierName("RMeta"))
	require.False(t, IsPhysicalModifierName("lshift"))
	require.False(t, IsPhysicalModifierName("A"))
}

func TestCodeStringAndValid(t *testing.T) {
	require.True(t, A.Valid())
	require.Equal(t, "A", A.String())
	require.False(t, Unknown.Valid())
	require.Equal(t, "Unknown", Unknown.String())
	require.False(t, Code(9999).Valid())
}
