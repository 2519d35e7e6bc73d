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

	"github.com/spf13/cobra"

	"github.com/keyrx/keyrx/daemon"
)

func newReloadCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "ask a running keyrxd instance to reload its ruleset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reloadRunning(*configPath)
		},
	}
}

func reloadRunning(configPath string) error {
	cfg, err := loadDaemonConfig(configPath)
	if err != nil {
		return err
	}

	pid, err := daemon.NewPIDFile(cfg.ConfigDir).ReadPID()
	if err != nil {
		return runtimeErr(fmt.Errorf("no running keyrxd instance found: %w", err))
	}
	if err := daemon.SendReloadSignal(pid); err != nil {
		return runtimeErr(fmt.Errorf("signaling pid %d: %w", pid, err))
	}
	fmt.Printf("reload requested (pid %d)\n", pid)
	return nil
}
