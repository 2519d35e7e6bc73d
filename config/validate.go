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
	"errors"
	"fmt"
)

// Sentinel errors returned by Validate. The compiler wraps these with
// source position information; callers constructing a ConfigRoot
// directly (tests, embedders) see these bare.
var (
	ErrReservedModifierID = errors.New("config: modifier id 0xFF is reserved")
	ErrReservedLockID     = errors.New("config: lock id 0xFF is reserved")
	ErrThresholdOverflow  = errors.New("config: tap-hold threshold does not fit in 16 bits")
)

// Validate performs the cheap, construction-time bounds checks invariant
// I1 and I4 require: modifier/lock ids never equal ReservedID, and
// tap-hold thresholds fit in a uint16. It does not check richer
// structural invariants (import cycles, resource limits) -- those belong
// to the compiler, which has the source position needed to report them
// usefully.
func (c ConfigRoot) Validate() error {
	for di, dev := range c.Devices {
		for mi, km := range dev.Mappings {
			bases := km.Mappings
			if !km.IsConditional() {
				bases = []BaseKeyMapping{km.Base}
			}
			for _, base := range bases {
				if err := validateBase(base); err != nil {
					return fmt.Errorf("device[%d].mapping[%d]: %w", di, mi, err)
				}
			}
			if km.IsConditional() {
				if err := validateCondition(*km.Condition); err != nil {
					return fmt.Errorf("device[%d].mapping[%d]: %w", di, mi, err)
				}
			}
		}
	}
	return nil
}

func validateBase(base BaseKeyMapping) error {
	switch m := base.(type) {
	case ModifierMapping:
		if m.ModifierID == ReservedID {
			return ErrReservedModifierID
		}
	case LockMapping:
		if m.LockID == ReservedID {
			return ErrReservedLockID
		}
	case TapHoldMapping:
		if m.HoldModifier == ReservedID {
			return ErrReservedModifierID
		}
	}
	return nil
}

func validateCondition(cond Condition) error {
	switch cond.Kind {
	case ModifierActive:
		if cond.ID == ReservedID {
			return ErrReservedModifierID
		}
	case LockActive:
		if cond.ID == ReservedID {
			return ErrReservedLockID
		}
	case AllActive:
		for _, item := range cond.Items {
			if err := validateCondition(item); err != nil {
				return err
			}
		}
	}
	return nil
}
