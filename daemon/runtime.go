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

package daemon

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/keyrx/keyrx/compiler"
	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/devicemgr"
	"github.com/keyrx/keyrx/engine"
	"github.com/keyrx/keyrx/event"
	"github.com/keyrx/keyrx/platform"
)

// deviceRuntime is one open logical device: its capture handle and the
// engine state that processes its events. lookup is nil for a "no
// rules" pass-through stub (spec §4.9).
type deviceRuntime struct {
	info    platform.DeviceInfo
	capture platform.Capture
	lookup  *engine.LookupIndex
	state   *engine.DeviceState
}

// Runtime is the daemon event pump (C10): it owns every open device's
// capture handle and per-device engine state, drives the hot loop, and
// services reload/shutdown requests from the Broker. Grounded on
// tcell's tscreen.go inputLoop — a single goroutine that repeatedly
// captures, translates, and forwards, with a select-driven escape
// hatch for control signals — generalized from one input source to N
// independently-stated devices.
type Runtime struct {
	cfg     Config
	backend platform.Backend
	broker  *Broker
	log     zerolog.Logger

	mu           sync.RWMutex
	root         config.ConfigRoot
	devices      []*deviceRuntime
	artifactPath string

	shutdownRequested atomic.Bool
	reloadSignal      chan struct{}
}

// New builds a Runtime. backend is the platform capture/inject
// implementation (platform.DefaultBackend() in production,
// platform.NewSimulated(...) in tests).
func New(cfg Config, backend platform.Backend, broker *Broker, log zerolog.Logger) *Runtime {
	return &Runtime{
		cfg:          cfg,
		backend:      backend,
		broker:       broker,
		log:          log.With().Str("component", "daemon").Logger(),
		reloadSignal: make(chan struct{}, 1),
	}
}

// RequestReload is the atomic-flag reload trigger non-POSIX platforms
// use exclusively, and POSIX platforms use alongside their signal
// (spec §6). Safe to call from any goroutine.
func (r *Runtime) RequestReload() {
	select {
	case r.reloadSignal <- struct{}{}:
	default:
	}
}

// RequestShutdown sets the single atomic flag the loop polls each turn
// (spec §4.10: "a single atomic flag checked each loop turn").
func (r *Runtime) RequestShutdown() {
	r.shutdownRequested.Store(true)
}

// LoadInitial compiles/loads path and opens every matched device for
// the first time. Call this once before Run.
func (r *Runtime) LoadInitial(path string) error {
	root, err := loadArtifact(path)
	if err != nil {
		return err
	}
	drs, err := r.openDevices(root)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.root = root
	r.devices = drs
	r.artifactPath = path
	r.mu.Unlock()

	r.broker.SetConfigPath(path)
	r.broker.SetActiveProfile(profileName(path))
	r.broker.SetDeviceCount(len(drs))
	return nil
}

func loadArtifact(path string) (config.ConfigRoot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.ConfigRoot{}, fmt.Errorf("daemon: reading artifact %s: %w", path, err)
	}
	root, derr := compiler.Deserialize(data)
	if derr != nil {
		return config.ConfigRoot{}, fmt.Errorf("daemon: loading artifact %s: %w", path, derr)
	}
	return root, nil
}

func profileName(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			base = path[i+1:]
			break
		}
	}
	return base
}

func (r *Runtime) openDevices(root config.ConfigRoot) ([]*deviceRuntime, error) {
	sels, err := devicemgr.Select(r.backend, root)
	if err != nil {
		return nil, err
	}
	drs := make([]*deviceRuntime, 0, len(sels))
	for _, sel := range sels {
		c, err := r.backend.Open(sel.Info.ID)
		if err != nil {
			r.log.Warn().Err(err).Str("device", sel.Info.ID).Msg("could not open device, skipping")
			continue
		}
		drs = append(drs, &deviceRuntime{info: sel.Info, capture: c, lookup: sel.Lookup, state: sel.State})
	}
	return drs, nil
}

// Reload builds the new ruleset and device selection fully before
// swapping it in (SPEC_FULL.md supplemented feature 4: "build-then-
// swap, never swap-then-build"), so a bad artifact never disrupts the
// active one (spec §7: "Reload errors are surfaced without disrupting
// the active ruleset"). Devices already open keep their DeviceState
// (modifiers, locks, press-tracking) across the swap; only the
// LookupIndex and tap-hold configuration rebind to the new rules. An
// open "no rules" stub, which has no DeviceState, takes the new
// selection's state.
func (r *Runtime) Reload(path string) error {
	root, err := loadArtifact(path)
	if err != nil {
		r.log.Warn().Err(err).Msg("reload failed, keeping active ruleset")
		return err
	}

	sels, err := devicemgr.Select(r.backend, root)
	if err != nil {
		r.log.Warn().Err(err).Msg("reload failed enumerating devices, keeping active ruleset")
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[string]*deviceRuntime, len(r.devices))
	for _, dr := range r.devices {
		existing[dr.info.ID] = dr
	}

	next := make([]*deviceRuntime, 0, len(sels))
	for _, sel := range sels {
		if dr, ok := existing[sel.Info.ID]; ok {
			if dr.state == nil {
				dr.state = sel.State
			} else {
				dr.state.Rebind(configOrEmpty(sel.Config))
			}
			dr.lookup = sel.Lookup
			next = append(next, dr)
			delete(existing, sel.Info.ID)
			continue
		}
		c, err := r.backend.Open(sel.Info.ID)
		if err != nil {
			r.log.Warn().Err(err).Str("device", sel.Info.ID).Msg("could not open newly matched device")
			continue
		}
		next = append(next, &deviceRuntime{info: sel.Info, capture: c, lookup: sel.Lookup, state: sel.State})
	}
	// Anything left in existing is no longer enumerated; close it.
	for _, dr := range existing {
		dr.capture.Close()
	}

	r.root = root
	r.devices = next
	r.artifactPath = path

	r.broker.SetConfigPath(path)
	r.broker.SetActiveProfile(profileName(path))
	r.broker.SetDeviceCount(len(next))
	r.log.Info().Str("path", path).Int("devices", len(next)).Msg("reload applied")
	return nil
}

func configOrEmpty(dev *config.DeviceConfig) config.DeviceConfig {
	if dev == nil {
		return config.DeviceConfig{}
	}
	return *dev
}

func (r *Runtime) snapshotDevices() []*deviceRuntime {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*deviceRuntime, len(r.devices))
	copy(out, r.devices)
	return out
}

// Run drives the hot loop until ctx is cancelled or shutdown is
// requested. It never suspends on I/O beyond each device's bounded
// CaptureOne timeout (spec §5).
func (r *Runtime) Run(ctx context.Context) error {
	r.broker.SetRunning(true)
	defer r.broker.SetRunning(false)

	defer r.shutdownCleanup()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if r.shutdownRequested.Load() {
			return nil
		}
		select {
		case <-r.reloadSignal:
			r.maybeReload()
		default:
		}
		if r.broker.TakeReloadRequest() {
			r.maybeReload()
		}

		drs := r.snapshotDevices()
		if len(drs) == 0 {
			time.Sleep(r.cfg.TickInterval)
			continue
		}

		perDeviceTimeout := r.cfg.TickInterval / time.Duration(len(drs))
		if perDeviceTimeout <= 0 {
			perDeviceTimeout = time.Millisecond
		}

		idle := true
		for _, dr := range drs {
			ev, ok, err := dr.capture.CaptureOne(perDeviceTimeout)
			if err != nil {
				r.log.Warn().Err(err).Str("device", dr.info.ID).Msg("capture error")
				continue
			}
			if !ok {
				continue
			}
			idle = false
			r.handleEvent(dr, ev)
		}

		if idle {
			nowUS := uint64(time.Now().UnixMicro())
			for _, dr := range drs {
				if dr.state == nil || !dr.state.TapHold.HasPending() {
					continue
				}
				for _, out := range dr.state.TapHold.Tick(nowUS) {
					if out.Kind == engine.OutputActivateModifier {
						dr.state.SetModifier(out.ModifierID)
					}
				}
			}
		}
	}
}

func (r *Runtime) maybeReload() {
	r.mu.RLock()
	path := r.artifactPath
	r.mu.RUnlock()
	if path == "" {
		return
	}
	if err := r.Reload(path); err != nil {
		r.log.Warn().Err(err).Msg("scheduled reload failed")
	}
}

// handleEvent runs one device's captured event through the engine (or
// straight through for a "no rules" stub) and injects the result under
// this device's capture model (spec §4.10: exclusive-grab always
// injects; low-level-hook injects only when a mapping fired).
func (r *Runtime) handleEvent(dr *deviceRuntime, ev event.KeyEvent) {
	var outputs []event.KeyEvent
	if dr.lookup == nil {
		outputs = []event.KeyEvent{ev}
	} else {
		nowUS := uint64(time.Now().UnixMicro())
		outputs = engine.Process(ev, dr.lookup, dr.state, nowUS)
	}

	triggered := !isPassthrough(ev, outputs)

	switch dr.capture.Model() {
	case platform.ExclusiveGrab:
		for _, out := range outputs {
			if err := dr.capture.Inject(out); err != nil {
				r.log.Warn().Err(err).Str("device", dr.info.ID).Msg("injection failed")
			}
		}
	case platform.LowLevelHook:
		if !triggered {
			return
		}
		for _, out := range outputs {
			if err := dr.capture.Inject(out); err != nil {
				r.log.Warn().Err(err).Str("device", dr.info.ID).Msg("injection failed")
			}
		}
		if err := dr.capture.Consume(); err != nil {
			r.log.Warn().Err(err).Str("device", dr.info.ID).Msg("consume failed")
		}
	}
}

// isPassthrough reports whether outputs is exactly the single,
// unmodified input event, the signal the hook model uses to decide
// "let the original proceed, inject nothing" (spec §4.8's "the
// engine's mapping triggered? signal").
func isPassthrough(ev event.KeyEvent, outputs []event.KeyEvent) bool {
	return len(outputs) == 1 && outputs[0].Kind == ev.Kind && outputs[0].Code == ev.Code
}

// shutdownCleanup synthesizes releases for every input key each
// device's press-tracking still considers down, best-effort, before
// Run returns (spec §4.10).
func (r *Runtime) shutdownCleanup() {
	for _, dr := range r.snapshotDevices() {
		if dr.state == nil {
			continue
		}
		for _, code := range dr.state.PressedInputs() {
			outs, ok := dr.state.TrackedOutputsFor(code)
			if !ok {
				continue
			}
			for i := len(outs) - 1; i >= 0; i-- {
				_ = dr.capture.Inject(event.NewReleaseEvent(outs[i]).WithDeviceID(dr.info.ID))
			}
			dr.state.ClearPress(code)
		}
		dr.capture.Close()
	}
}
