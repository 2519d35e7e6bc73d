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
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// FileLoader abstracts reading DSL source files, so tests can exercise
// the compiler against an in-memory fixture set instead of touching the
// filesystem (mirrors platform.Simulated for the capture/inject layer).
type FileLoader interface {
	Read(path string) (string, error)
	Exists(path string) bool
}

// sourceEncodings records the encodings registered through
// RegisterSourceEncoding. osFileLoader.Read does not consult it: a file
// whose bytes are not valid UTF-8 is always decoded as fallbackEncoding
// (Windows-1252).
var (
	sourceEncodings   = map[string]encoding.Encoding{"ISO8859-1": charmap.ISO8859_1}
	sourceEncodingsMu sync.Mutex
	fallbackEncoding  = charmap.Windows1252
)

// RegisterSourceEncoding records enc under name in sourceEncodings. The
// recorded encodings are not used when reading DSL files; non-UTF-8
// input is always transcoded from Windows-1252.
func RegisterSourceEncoding(name string, enc encoding.Encoding) {
	sourceEncodingsMu.Lock()
	defer sourceEncodingsMu.Unlock()
	sourceEncodings[name] = enc
}

// osFileLoader reads files from disk, transcoding non-UTF-8 content.
type osFileLoader struct{}

// DefaultFileLoader reads DSL source from the local filesystem.
var DefaultFileLoader FileLoader = osFileLoader{}

func (osFileLoader) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, _ := fallbackEncoding.NewDecoder().Bytes(data)
	return string(decoded), nil
}

func (osFileLoader) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
