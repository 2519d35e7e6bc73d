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

//go:build !linux && !windows

package keycode

// Neither the exclusive-grab nor the low-level-hook platform contract
// applies here (see spec §4.8); there is no native table, so every
// lookup is the "pass through unchanged" case.
var toNative = map[Code]Native{}

var fromNative = map[Native]Code{}
