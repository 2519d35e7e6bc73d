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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keyrx/keyrx/compiler"
)

func newCompileCommand() *cobra.Command {
	var outputPath string
	var searchDirs []string

	cmd := &cobra.Command{
		Use:   "compile <entry.krx>",
		Short: "compile a DSL ruleset to a deterministic binary artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileRuleset(args[0], outputPath, searchDirs)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output artifact path (default: <entry>.krxc)")
	cmd.Flags().StringSliceVar(&searchDirs, "import-dir", nil, "additional directories searched for imports")
	return cmd
}

func compileRuleset(entryPath, outputPath string, searchDirs []string) error {
	root, perr := compiler.Compile(entryPath, searchDirs, compiler.DefaultFileLoader)
	if perr != nil {
		return configErr(fmt.Errorf("%s", perr.Error()))
	}

	data, err := compiler.Serialize(root)
	if err != nil {
		return runtimeErr(fmt.Errorf("serializing artifact: %w", err))
	}

	if outputPath == "" {
		outputPath = entryPath + "c"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return runtimeErr(fmt.Errorf("writing artifact %s: %w", outputPath, err))
	}
	fmt.Printf("compiled %s -> %s (%d bytes)\n", entryPath, outputPath, len(data))
	return nil
}
