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
	"runtime"

	"github.com/spf13/pflag"

	"github.com/ajroetker/go-histeq/pixel"
)

// regionFlag is a --roi value in "x,y,w,h" form. It stays nil until set.
type regionFlag struct {
	r *pixel.Region
}

var _ pflag.Value = (*regionFlag)(nil)

func (f *regionFlag) String() string {
	if f.r == nil {
		return ""
	}
	return f.r.String()
}

func (f *regionFlag) Set(s string) error {
	r, err := pixel.ParseRegion(s)
	if err != nil {
		return err
	}
	f.r = &r
	return nil
}

func (f *regionFlag) Type() string {
	return "x,y,w,h"
}

// or returns the parsed region, or def when the flag was not given.
func (f *regionFlag) or(def pixel.Region) pixel.Region {
	if f.r == nil {
		return def
	}
	return *f.r
}

// applyWorkers overrides the configured worker count when the flag was set.
// n <= 0 means GOMAXPROCS.
func applyWorkers(flags *pflag.FlagSet, n int, workers *int, sequential *bool) {
	if !flags.Changed("workers") {
		return
	}
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	*workers = n
	*sequential = false
}
