// Copyright 2025 go-histeq Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command histeq equalizes the per-channel histograms of an image.
//
// Usage:
//
//	histeq equalize in.png out.png
//	histeq equalize --roi 10,10,200,100 --workers 4 in.ppm out.ppm.zst
//	histeq equalize --compare expected.ppm in.ppm out.ppm
//	histeq compare a.ppm b.ppm
//	histeq cpuinfo
//
// Settings default to the HISTEQ_* environment variables (see
// internal/config); flags override them.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-histeq/internal/config"
	"github.com/ajroetker/go-histeq/internal/logging"
)

// app holds what the subcommands share once flags and environment are read.
type app struct {
	cfg config.Config
	log zerolog.Logger
	out io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{cfg: config.Default(), log: zerolog.Nop(), out: stdout}

	var logLevel string
	root := &cobra.Command{
		Use:           "histeq",
		Short:         "Per-channel histogram equalization of images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.log = logging.NewConsole(stderr, logging.ParseLevel(cfg.LogLevel))
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"debug, info, warn, error or disabled (default $"+config.EnvLogLevel+" or info)")

	root.AddCommand(a.equalizeCmd(), a.compareCmd(), a.cpuinfoCmd())
	return root
}

func main() {
	logging.ConfigureDurations()
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
