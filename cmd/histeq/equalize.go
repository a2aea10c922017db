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
	"github.com/ajroetker/go-histeq/equalize"
	"github.com/ajroetker/go-histeq/histogram"
	"github.com/ajroetker/go-histeq/internal/logging"
	"github.com/ajroetker/go-histeq/workerpool"
)

type equalizeOptions struct {
	roi        regionFlag
	workers    int
	resolution int
	reference  string
}

func (a *app) equalizeCmd() *cobra.Command {
	var opts equalizeOptions
	cmd := &cobra.Command{
		Use:   "equalize IN OUT",
		Short: "Equalize each channel of IN inside a region and write OUT",
		Long: `Equalize loads IN, equalizes the red, green and blue histograms inside
the region given by --roi (the whole image by default) and saves the result
to OUT. The output format follows OUT's extension; a trailing .zst compresses
it with zstd.

With --compare, OUT is read back and compared with a reference image.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			applyWorkers(cmd.Flags(), opts.workers, &cfg.Workers, &cfg.Sequential)
			if cmd.Flags().Changed("resolution") {
				cfg.Resolution = opts.resolution
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			return a.equalize(args[0], args[1], &opts)
		},
	}

	f := cmd.Flags()
	f.Var(&opts.roi, "roi", "region to equalize (default whole image)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "worker goroutines per pass, <= 0 for GOMAXPROCS (default $HISTEQ_WORKERS)")
	f.IntVar(&opts.resolution, "resolution", histogram.DefaultResolution, "number of histogram buckets (default $HISTEQ_RESOLUTION)")
	f.StringVar(&opts.reference, "compare", "", "reference image to compare OUT with")
	return cmd
}

func (a *app) equalize(in, out string, opts *equalizeOptions) error {
	defer logging.Timer(a.log, "overall")()

	pool := workerpool.New(a.cfg.EffectiveWorkers())
	defer pool.Close()

	stop := logging.Timer(a.log, "load")
	buf, err := codec.Open(in)
	stop()
	if err != nil {
		return err
	}

	region := opts.roi.or(buf.Bounds())
	eq := equalize.New(
		equalize.WithPool(pool),
		equalize.WithResolution(a.cfg.Resolution),
		equalize.WithLogger(a.log),
	)

	stop = logging.Timer(a.log, "equalize")
	err = eq.Equalize(buf, region)
	stop()
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	stop = logging.Timer(a.log, "save")
	err = codec.Save(out, buf)
	stop()
	if err != nil {
		return err
	}

	a.log.Info().
		Str("in", in).
		Str("out", out).
		Int("width", buf.Width()).
		Int("height", buf.Height()).
		Stringer("region", region).
		Int("workers", eq.Workers()).
		Int("resolution", eq.Resolution()).
		Msg("saved")

	if opts.reference == "" {
		return nil
	}
	return a.compareFiles(out, opts.reference, pool)
}
