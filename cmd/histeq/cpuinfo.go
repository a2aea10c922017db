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
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
)

type cpuFeature struct {
	name string
	on   bool
}

// cpuFeatures lists the vector extensions golang.org/x/sys/cpu detects on
// the running machine.
func cpuFeatures() []cpuFeature {
	switch runtime.GOARCH {
	case "amd64":
		return []cpuFeature{
			{"sse2", cpu.X86.HasSSE2},
			{"sse41", cpu.X86.HasSSE41},
			{"sse42", cpu.X86.HasSSE42},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"fma", cpu.X86.HasFMA},
			{"avx512f", cpu.X86.HasAVX512F},
			{"avx512bw", cpu.X86.HasAVX512BW},
			{"avx512vl", cpu.X86.HasAVX512VL},
		}
	case "arm64":
		return []cpuFeature{
			{"asimd", cpu.ARM64.HasASIMD},
			{"fp", cpu.ARM64.HasFP},
			{"fphp", cpu.ARM64.HasFPHP},
			{"asimdhp", cpu.ARM64.HasASIMDHP},
			{"asimdfhm", cpu.ARM64.HasASIMDFHM},
			{"sve", cpu.ARM64.HasSVE},
			{"sve2", cpu.ARM64.HasSVE2},
			{"atomics", cpu.ARM64.HasATOMICS},
		}
	}
	return nil
}

func (a *app) cpuinfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpuinfo",
		Short: "Print the CPU and the worker settings histeq would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := a.out
			fmt.Fprintf(w, "GOOS:        %s\n", runtime.GOOS)
			fmt.Fprintf(w, "GOARCH:      %s\n", runtime.GOARCH)
			fmt.Fprintf(w, "NumCPU:      %d\n", runtime.NumCPU())
			fmt.Fprintf(w, "GOMAXPROCS:  %d\n", runtime.GOMAXPROCS(0))
			fmt.Fprintf(w, "Workers:     %d\n", a.cfg.EffectiveWorkers())
			fmt.Fprintf(w, "Resolution:  %d\n", a.cfg.Resolution)

			enabled := lo.FilterMap(cpuFeatures(), func(f cpuFeature, _ int) (string, bool) {
				return f.name, f.on
			})
			if len(enabled) == 0 {
				enabled = []string{"none detected"}
			}
			fmt.Fprintf(w, "Features:    %s\n", strings.Join(enabled, " "))
			return nil
		},
	}
}
