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

	"github.com/keyrx/keyrx/keycode"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedRoot(t *testing.T) {
	root := NewConfigRoot(
		NewDeviceConfig("*",
			NewBaseMapping(SimpleMapping{FromKey: keycode.CapsLock, To: keycode.Escape}),
			NewBaseMapping(ModifierMapping{FromKey: keycode.A, ModifierID: 3}),
			NewConditionalMapping(NewModifierActiveCondition(3),
				SimpleMapping{FromKey: keycode.J, To: keycode.Down},
			),
		),
	)
	require.NoError(t, root.Validate())
}

func TestValidateRejectsReservedModifierID(t *testing.T) {
	root := NewConfigRoot(
		NewDeviceConfig("*",
			NewBaseMapping(ModifierMapping{FromKey: keycode.A, ModifierID: ReservedID}),
		),
	)
	require.ErrorIs(t, root.Validate(), ErrReservedModifierID)
}

func TestValidateRejectsReservedLockID(t *testing.T) {
	root := NewConfigRoot(
		NewDeviceConfig("*",
			NewBaseMapping(LockMapping{FromKey: keycode.CapsLock, LockID: ReservedID}),
		),
	)
	require.ErrorIs(t, root.Validate(), ErrReservedLockID)
}

func TestValidateRejectsReservedIDInConditionTree(t *testing.T) {
	root := NewConfigRoot(
		NewDeviceConfig("*",
			NewConditionalMapping(
				NewAllActiveCondition(
					NewModifierActiveCondition(1),
					NewLockActiveCondition(ReservedID),
				),
				SimpleMapping{FromKey: keycode.J, To: keycode.Down},
			),
		),
	)
	require.ErrorIs(t, root.Validate(), ErrReservedLockID)
}

func TestValidateRejectsReservedHoldModifier(t *testing.T) {
	root := NewConfigRoot(
		NewDeviceConfig("*",
			NewBaseMapping(TapHoldMapping{
				FromKey:      keycode.CapsLock,
				Tap:          keycode.Escape,
				HoldModifier: ReservedID,
				ThresholdMS:  200,
			}),
		),
	)
	require.ErrorIs(t, root.Validate(), ErrReservedModifierID)
}
