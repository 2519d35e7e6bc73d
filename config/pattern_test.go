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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchPatternWildcardStar(t *testing.T) {
	require.True(t, MatchPattern("*", "anything-at-all"))
	require.True(t, MatchPattern("*", ""))
}

func TestMatchPatternPrefix(t *testing.T) {
	require.True(t, MatchPattern("Logitech*", "Logitech G915"))
	require.False(t, MatchPattern("Logitech*", "Razer Logitech"))
}

func TestMatchPatternSuffix(t *testing.T) {
	require.True(t, MatchPattern("*Keyboard", "Dell USB Keyboard"))
	require.False(t, MatchPattern("*Keyboard", "Keyboard Dell USB"))
}

func TestMatchPatternContains(t *testing.T) {
	require.True(t, MatchPattern("*usb*", "vendor-USB-device"))
	require.False(t, MatchPattern("*usb*", "vendor-device"))
}

func TestMatchPatternExact(t *testing.T) {
	require.True(t, MatchPattern("exact-id", "Exact-ID"))
	require.False(t, MatchPattern("exact-id", "exact-id-extra"))
}

func TestMatchPatternCaseInsensitive(t *testing.T) {
	require.True(t, MatchPattern("LOGITECH*", "logitech g915"))
}
