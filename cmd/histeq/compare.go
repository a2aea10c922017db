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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-histeq/codec"
	"github.com/ajroetker/go-histeq/compare"
	"github.com/ajroetker/go-histeq/workerpool"
)

func (a *app) compareCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "compare A B",
		Short: "Report the per-sample differences between two images",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			applyWorkers(cmd.Flags(), workers, &cfg.Workers, &cfg.Sequential)
			pool := workerpool.New(cfg.EffectiveWorkers())
			defer pool.Close()
			return a.compareFiles(args[0], args[1], pool)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker goroutines, <= 0 for GOMAXPROCS (default $HISTEQ_WORKERS)")
	return cmd
}

// compareFiles loads both images, prints the report and logs it.
func (a *app) compareFiles(pathA, pathB string, pool *workerpool.Pool) error {
	imgA, err := codec.Open(pathA)
	if err != nil {
		return err
	}
	imgB, err := codec.Open(pathB)
	if err != nil {
		return err
	}

	rep, err := compare.Buffers(imgA, imgB, pool)
	if err != nil {
		return fmt.Errorf("%s vs %s: %w", pathA, pathB, err)
	}

	verdict := "images differ"
	if rep.Identical() {
		verdict = "images are identical"
	}
	fmt.Fprintf(a.out, "%s: %s\n", verdict, rep)
	a.log.Debug().Str("a", pathA).Str("b", pathB).EmbedObject(rep).Msg("compared")
	return nil
}
