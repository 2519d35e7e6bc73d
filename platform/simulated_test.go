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

package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keyrx/keyrx/event"
	"github.com/keyrx/keyrx/keycode"
)

func TestSimulatedEnumerateAndOpen(t *testing.T) {
	sim := NewSimulated(ExclusiveGrab)
	id := sim.AddDevice(DeviceInfo{ID: "usb-keyboard-1", Name: "Test Keyboard"})

	infos, err := sim.Enumerate()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, id, infos[0].ID)

	cap, err := sim.Open(id)
	require.NoError(t, err)
	require.Equal(t, ExclusiveGrab, cap.Model())
	require.Equal(t, id, cap.Info().ID)
}

func TestSimulatedCaptureOneTimesOutWhenEmpty(t *testing.T) {
	sim := NewSimulated(ExclusiveGrab)
	id := sim.AddDevice(DeviceInfo{ID: "kbd"})
	cap, err := sim.Open(id)
	require.NoError(t, err)

	_, ok, err := cap.CaptureOne(10 * time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSimulatedCaptureOneReturnsPushedEvent(t *testing.T) {
	sim := NewSimulated(ExclusiveGrab)
	id := sim.AddDevice(DeviceInfo{ID: "kbd"})
	sim.Push(id, event.NewPressEvent(keycode.A))

	cap, err := sim.Open(id)
	require.NoError(t, err)

	ev, ok, err := cap.CaptureOne(10 * time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, keycode.A, ev.Code)
	require.True(t, ev.IsPress())
	require.Equal(t, id, ev.DeviceID)
}

func TestSimulatedInjectRecordsOutput(t *testing.T) {
	sim := NewSimulated(ExclusiveGrab)
	id := sim.AddDevice(DeviceInfo{ID: "kbd"})
	cap, err := sim.Open(id)
	require.NoError(t, err)

	require.NoError(t, cap.Inject(event.NewPressEvent(keycode.B)))
	require.NoError(t, cap.Inject(event.NewReleaseEvent(keycode.B)))

	got := sim.Injected(id)
	require.Len(t, got, 2)
	require.Equal(t, keycode.B, got[0].Code)
	require.True(t, got[0].IsPress())
	require.True(t, got[1].IsRelease())
}

func TestSimulatedCloseRejectsFurtherUse(t *testing.T) {
	sim := NewSimulated(ExclusiveGrab)
	id := sim.AddDevice(DeviceInfo{ID: "kbd"})
	cap, err := sim.Open(id)
	require.NoError(t, err)
	require.NoError(t, cap.Close())

	_, _, err = cap.CaptureOne(time.Millisecond)
	require.ErrorIs(t, err, ErrDeviceGone)

	err = cap.Inject(event.NewPressEvent(keycode.A))
	require.ErrorIs(t, err, ErrDeviceGone)
}
