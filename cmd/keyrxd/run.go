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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyrx/keyrx/daemon"
	"github.com/keyrx/keyrx/platform"
)

func newRunCommand(configPath *string) *cobra.Command {
	var artifactPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(*configPath, artifactPath)
		},
	}
	cmd.Flags().StringVar(&artifactPath, "artifact", "", "path to the compiled ruleset artifact (required)")
	cmd.MarkFlagRequired("artifact")
	return cmd
}

func runDaemon(configPath, artifactPath string) error {
	cfg, err := loadDaemonConfig(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	pidFile := daemon.NewPIDFile(cfg.ConfigDir)
	if err := pidFile.Acquire(); err != nil {
		return permErr(fmt.Errorf("acquiring single-instance lock: %w", err))
	}
	defer pidFile.Release()

	backend := platform.DefaultBackend()
	broker := daemon.NewBroker()
	rt := daemon.New(cfg, backend, broker, log)

	if err := rt.LoadInitial(artifactPath); err != nil {
		return configErr(fmt.Errorf("loading initial ruleset: %w", err))
	}

	stop := daemon.WatchSignals(rt)
	defer stop()

	log.Info().Str("artifact", artifactPath).Str("instance", broker.InstanceID()).Msg("keyrxd starting")

	if err := rt.Run(context.Background()); err != nil {
		return runtimeErr(err)
	}
	log.Info().Msg("keyrxd stopped")
	return nil
}
