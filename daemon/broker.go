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
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Broker is the single process-wide observation surface spec §6/§9
// describes: the only approved form of shared state, safe to read
// concurrently from the (out-of-core) control surface without ever
// blocking the hot path that writes it. Numeric/boolean fields are
// plain atomics; the two string-valued fields use a small dedicated
// mutex: lock-free atomics plus fine-grained locks for string
// fields.
type Broker struct {
	instanceID string

	running         atomic.Bool
	deviceCount     atomic.Int64
	reloadRequested atomic.Bool
	startTime       time.Time

	strMu         sync.Mutex
	activeProfile string
	configPath    string
}

// NewBroker creates a broker stamped with a fresh per-process instance
// id (SPEC_FULL.md DOMAIN STACK: google/uuid, "a stable per-process
// instance id surfaced for observation/debugging").
func NewBroker() *Broker {
	return &Broker{instanceID: uuid.NewString(), startTime: time.Now()}
}

// InstanceID returns this process's stable observation id.
func (b *Broker) InstanceID() string { return b.instanceID }

// SetRunning records whether the event loop is currently active.
func (b *Broker) SetRunning(v bool) { b.running.Store(v) }

// Running reports whether the event loop is currently active.
func (b *Broker) Running() bool { return b.running.Load() }

// SetDeviceCount records how many logical devices are currently open.
func (b *Broker) SetDeviceCount(n int) { b.deviceCount.Store(int64(n)) }

// DeviceCount reports how many logical devices are currently open.
func (b *Broker) DeviceCount() int { return int(b.deviceCount.Load()) }

// RequestReload sets the reload flag; non-POSIX platforms use this as
// their only reload trigger (spec §6 "Signals / reload triggers").
func (b *Broker) RequestReload() { b.reloadRequested.Store(true) }

// TakeReloadRequest reports and clears the reload flag in one step
// (spec §6: "reload_requested (bool, read-and-clear)").
func (b *Broker) TakeReloadRequest() bool {
	return b.reloadRequested.Swap(false)
}

// SetActiveProfile records the name of the currently active ruleset.
func (b *Broker) SetActiveProfile(name string) {
	b.strMu.Lock()
	defer b.strMu.Unlock()
	b.activeProfile = name
}

// ActiveProfile returns the name of the currently active ruleset, or
// "" if none has loaded yet.
func (b *Broker) ActiveProfile() string {
	b.strMu.Lock()
	defer b.strMu.Unlock()
	return b.activeProfile
}

// SetConfigPath records the filesystem path of the active artifact.
func (b *Broker) SetConfigPath(path string) {
	b.strMu.Lock()
	defer b.strMu.Unlock()
	b.configPath = path
}

// ConfigPath returns the filesystem path of the active artifact.
func (b *Broker) ConfigPath() string {
	b.strMu.Lock()
	defer b.strMu.Unlock()
	return b.configPath
}

// UptimeSeconds reports how long the broker has existed.
func (b *Broker) UptimeSeconds() uint64 {
	return uint64(time.Since(b.startTime).Seconds())
}

// Snapshot is an immutable copy of every observable field, for a
// control surface that wants a single consistent read (spec §6
// Observation).
type Snapshot struct {
	Running         bool
	ActiveProfile   string
	ConfigPath      string
	DeviceCount     int
	UptimeSeconds   uint64
	ReloadRequested bool
	InstanceID      string
}

// Snapshot takes a point-in-time read of every field without clearing
// ReloadRequested (use TakeReloadRequest for the read-and-clear form).
func (b *Broker) Snapshot() Snapshot {
	return Snapshot{
		Running:         b.Running(),
		ActiveProfile:   b.ActiveProfile(),
		ConfigPath:      b.ConfigPath(),
		DeviceCount:     b.DeviceCount(),
		UptimeSeconds:   b.UptimeSeconds(),
		ReloadRequested: b.reloadRequested.Load(),
		InstanceID:      b.instanceID,
	}
}
