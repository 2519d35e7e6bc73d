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
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/keyrx/keyrx/config"
	"github.com/keyrx/keyrx/keycode"
)

// ArtifactMagic and ArtifactVersion identify the on-disk ruleset format
// (spec §6): 4 bytes magic, 4 bytes LE version, 32 byte hash, then the
// deterministic ConfigRoot payload. The exact byte layout is a wire
// contract, not a convenience format, so it is hand-encoded rather than
// handed to a general-purpose serializer (see DESIGN.md).
var ArtifactMagic = [4]byte{'K', 'R', 'X', '\n'}

const ArtifactVersion uint32 = 1

const (
	headerLen = 4 + 4 + 32
)

// Serialize produces a ruleset artifact: magic, version, hash, payload.
func Serialize(root config.ConfigRoot) ([]byte, error) {
	payload, err := encodeConfigRoot(root)
	if err != nil {
		return nil, &SerializeError{Op: "encode", Err: err}
	}
	hash := sha256.Sum256(payload)

	buf := make([]byte, 0, headerLen+len(payload))
	buf = append(buf, ArtifactMagic[:]...)
	var versionBytes [4]byte
	binary.LittleEndian.PutUint32(versionBytes[:], ArtifactVersion)
	buf = append(buf, versionBytes[:]...)
	buf = append(buf, hash[:]...)
	buf = append(buf, payload...)
	return buf, nil
}

// Deserialize verifies magic, version and hash before decoding the
// payload. It fails closed: any mismatch is a *DeserializeError and the
// payload is never partially trusted (invariant I6).
func Deserialize(data []byte) (config.ConfigRoot, *DeserializeError) {
	if len(data) < headerLen {
		return config.ConfigRoot{}, &DeserializeError{Kind: TruncatedPayload}
	}
	var gotMagic [4]byte
	copy(gotMagic[:], data[0:4])
	if gotMagic != ArtifactMagic {
		return config.ConfigRoot{}, &DeserializeError{Kind: InvalidMagic, ExpectedMagic: ArtifactMagic, GotMagic: gotMagic}
	}

	gotVersion := binary.LittleEndian.Uint32(data[4:8])
	if gotVersion != ArtifactVersion {
		return config.ConfigRoot{}, &DeserializeError{Kind: VersionMismatch, ExpectedVersion: ArtifactVersion, GotVersion: gotVersion}
	}

	var expectedHash [32]byte
	copy(expectedHash[:], data[8:40])
	payload := data[40:]
	computed := sha256.Sum256(payload)
	if computed != expectedHash {
		return config.ConfigRoot{}, &DeserializeError{Kind: HashMismatch, ExpectedHash: expectedHash, ComputedHash: computed}
	}

	root, err := decodeConfigRoot(payload)
	if err != nil {
		return config.ConfigRoot{}, &DeserializeError{Kind: IOError, Err: err}
	}
	return root, nil
}

// --- deterministic payload codec ---

const (
	baseTagSimple uint8 = iota
	baseTagModifier
	baseTagLock
	baseTagTapHold
	baseTagModifiedOutput
)

const (
	mappingTagBase uint8 = iota
	mappingTagConditional
)

const (
	condTagModifierActive uint8 = iota
	condTagLockActive
	condTagDeviceMatches
	condTagAllActive
)

func encodeConfigRoot(root config.ConfigRoot) ([]byte, error) {
	var buf bytes.Buffer
	writeU32(&buf, uint32(len(root.Devices)))
	for _, dev := range root.Devices {
		writeString(&buf, dev.Pattern)
		writeU32(&buf, uint32(len(dev.Mappings)))
		for _, km := range dev.Mappings {
			if err := encodeKeyMapping(&buf, km); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

func encodeKeyMapping(buf *bytes.Buffer, km config.KeyMapping) error {
	if !km.IsConditional() {
		buf.WriteByte(mappingTagBase)
		return encodeBase(buf, km.Base)
	}
	buf.WriteByte(mappingTagConditional)
	if err := encodeCondition(buf, *km.Condition); err != nil {
		return err
	}
	writeU32(buf, uint32(len(km.Mappings)))
	for _, base := range km.Mappings {
		if err := encodeBase(buf, base); err != nil {
			return err
		}
	}
	return nil
}

func encodeCondition(buf *bytes.Buffer, cond config.Condition) error {
	switch cond.Kind {
	case config.ModifierActive:
		buf.WriteByte(condTagModifierActive)
		buf.WriteByte(cond.ID)
	case config.LockActive:
		buf.WriteByte(condTagLockActive)
		buf.WriteByte(cond.ID)
	case config.DeviceMatches:
		buf.WriteByte(condTagDeviceMatches)
		writeString(buf, cond.Pattern)
	case config.AllActive:
		buf.WriteByte(condTagAllActive)
		writeU32(buf, uint32(len(cond.Items)))
		for _, item := range cond.Items {
			if err := encodeCondition(buf, item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("artifact: unknown condition kind %d", cond.Kind)
	}
	return nil
}

func encodeBase(buf *bytes.Buffer, base config.BaseKeyMapping) error {
	switch m := base.(type) {
	case config.SimpleMapping:
		buf.WriteByte(baseTagSimple)
		writeCode(buf, m.FromKey)
		writeCode(buf, m.To)
	case config.ModifierMapping:
		buf.WriteByte(baseTagModifier)
		writeCode(buf, m.FromKey)
		buf.WriteByte(m.ModifierID)
	case config.LockMapping:
		buf.WriteByte(baseTagLock)
		writeCode(buf, m.FromKey)
		buf.WriteByte(m.LockID)
	case config.TapHoldMapping:
		buf.WriteByte(baseTagTapHold)
		writeCode(buf, m.FromKey)
		writeCode(buf, m.Tap)
		buf.WriteByte(m.HoldModifier)
		writeU16(buf, m.ThresholdMS)
	case config.ModifiedOutputMapping:
		buf.WriteByte(baseTagModifiedOutput)
		writeCode(buf, m.FromKey)
		writeCode(buf, m.To)
		writeBool(buf, m.Shift)
		writeBool(buf, m.Ctrl)
		writeBool(buf, m.Alt)
		writeBool(buf, m.Win)
	default:
		return fmt.Errorf("artifact: unknown base mapping type %T", base)
	}
	return nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeCode(buf *bytes.Buffer, c keycode.Code) { writeU16(buf, uint16(c)) }

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) u32() (uint32, error) {
	if d.pos+4 > len(d.data) {
		return 0, fmt.Errorf("artifact: truncated payload reading u32")
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos : d.pos+4])
	d.pos += 4
	return v, nil
}

func (d *decoder) u16() (uint16, error) {
	if d.pos+2 > len(d.data) {
		return 0, fmt.Errorf("artifact: truncated payload reading u16")
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos : d.pos+2])
	d.pos += 2
	return v, nil
}

func (d *decoder) byte() (uint8, error) {
	if d.pos+1 > len(d.data) {
		return 0, fmt.Errorf("artifact: truncated payload reading byte")
	}
	v := d.data[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) bool() (bool, error) {
	b, err := d.byte()
	return b != 0, err
}

func (d *decoder) code() (keycode.Code, error) {
	v, err := d.u16()
	return keycode.Code(v), err
}

func (d *decoder) string() (string, error) {
	n, err := d.u32()
	if err != nil {
		return "", err
	}
	if d.pos+int(n) > len(d.data) {
		return "", fmt.Errorf("artifact: truncated payload reading string")
	}
	s := string(d.data[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

func decodeConfigRoot(payload []byte) (config.ConfigRoot, error) {
	d := &decoder{data: payload}
	count, err := d.u32()
	if err != nil {
		return config.ConfigRoot{}, err
	}
	devices := make([]config.DeviceConfig, 0, count)
	for i := uint32(0); i < count; i++ {
		pattern, err := d.string()
		if err != nil {
			return config.ConfigRoot{}, err
		}
		mcount, err := d.u32()
		if err != nil {
			return config.ConfigRoot{}, err
		}
		mappings := make([]config.KeyMapping, 0, mcount)
		for j := uint32(0); j < mcount; j++ {
			km, err := decodeKeyMapping(d)
			if err != nil {
				return config.ConfigRoot{}, err
			}
			mappings = append(mappings, km)
		}
		devices = append(devices, config.DeviceConfig{Pattern: pattern, Mappings: mappings})
	}
	return config.ConfigRoot{Devices: devices}, nil
}

func decodeKeyMapping(d *decoder) (config.KeyMapping, error) {
	tag, err := d.byte()
	if err != nil {
		return config.KeyMapping{}, err
	}
	if tag == mappingTagBase {
		base, err := decodeBase(d)
		if err != nil {
			return config.KeyMapping{}, err
		}
		return config.NewBaseMapping(base), nil
	}
	cond, err := decodeCondition(d)
	if err != nil {
		return config.KeyMapping{}, err
	}
	count, err := d.u32()
	if err != nil {
		return config.KeyMapping{}, err
	}
	bases := make([]config.BaseKeyMapping, 0, count)
	for i := uint32(0); i < count; i++ {
		base, err := decodeBase(d)
		if err != nil {
			return config.KeyMapping{}, err
		}
		bases = append(bases, base)
	}
	return config.NewConditionalMapping(cond, bases...), nil
}

func decodeCondition(d *decoder) (config.Condition, error) {
	tag, err := d.byte()
	if err != nil {
		return config.Condition{}, err
	}
	switch tag {
	case condTagModifierActive:
		id, err := d.byte()
		if err != nil {
			return config.Condition{}, err
		}
		return config.NewModifierActiveCondition(id), nil
	case condTagLockActive:
		id, err := d.byte()
		if err != nil {
			return config.Condition{}, err
		}
		return config.NewLockActiveCondition(id), nil
	case condTagDeviceMatches:
		pattern, err := d.string()
		if err != nil {
			return config.Condition{}, err
		}
		return config.NewDeviceMatchesCondition(pattern), nil
	case condTagAllActive:
		count, err := d.u32()
		if err != nil {
			return config.Condition{}, err
		}
		items := make([]config.Condition, 0, count)
		for i := uint32(0); i < count; i++ {
			item, err := decodeCondition(d)
			if err != nil {
				return config.Condition{}, err
			}
			items = append(items, item)
		}
		return config.NewAllActiveCondition(items...), nil
	default:
		return config.Condition{}, fmt.Errorf("artifact: unknown condition tag %d", tag)
	}
}

func decodeBase(d *decoder) (config.BaseKeyMapping, error) {
	tag, err := d.byte()
	if err != nil {
		return nil, err
	}
	from, err := d.code()
	if err != nil {
		return nil, err
	}
	switch tag {
	case baseTagSimple:
		to, err := d.code()
		if err != nil {
			return nil, err
		}
		return config.SimpleMapping{FromKey: from, To: to}, nil
	case baseTagModifier:
		id, err := d.byte()
		if err != nil {
			return nil, err
		}
		return config.ModifierMapping{FromKey: from, ModifierID: id}, nil
	case baseTagLock:
		id, err := d.byte()
		if err != nil {
			return nil, err
		}
		return config.LockMapping{FromKey: from, LockID: id}, nil
	case baseTagTapHold:
		tap, err := d.code()
		if err != nil {
			return nil, err
		}
		hold, err := d.byte()
		if err != nil {
			return nil, err
		}
		threshold, err := d.u16()
		if err != nil {
			return nil, err
		}
		return config.TapHoldMapping{FromKey: from, Tap: tap, HoldModifier: hold, ThresholdMS: threshold}, nil
	case baseTagModifiedOutput:
		to, err := d.code()
		if err != nil {
			return nil, err
		}
		shift, err := d.bool()
		if err != nil {
			return nil, err
		}
		ctrl, err := d.bool()
		if err != nil {
			return nil, err
		}
		alt, err := d.bool()
		if err != nil {
			return nil, err
		}
		win, err := d.bool()
		if err != nil {
			return nil, err
		}
		return config.ModifiedOutputMapping{FromKey: from, To: to, Shift: shift, Ctrl: ctrl, Alt: alt, Win: win}, nil
	default:
		return nil, fmt.Errorf("artifact: unknown base mapping tag %d", tag)
	}
}
