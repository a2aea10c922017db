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

package histogram

// Table is a cumulative-frequency table: Table[i] is the number of counted
// pixels whose bucket is <= i.
type Table []uint64

// Cumulative computes the inclusive prefix sum of h.
// Result[i] = h[0] + h[1] + ... + h[i]
//
// Example:
//
//	h := Histogram{1, 0, 2, 1}
//	Cumulative(h) // Table{1, 1, 3, 4}
func Cumulative(h Histogram) Table {
	t := make(Table, len(h))
	var carry uint64
	for i, n := range h {
		carry += n
		t[i] = carry
	}
	return t
}

// Resolution returns the number of buckets.
func (t Table) Resolution() int {
	return len(t)
}

// Total returns the number of pixels the table was built from.
func (t Table) Total() uint64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1]
}

// Monotonic reports whether the table never decreases.
func (t Table) Monotonic() bool {
	for i := 1; i < len(t); i++ {
		if t[i] < t[i-1] {
			return false
		}
	}
	return true
}

// Mapper returns the equalization transfer function of the table:
//
//	f(v) = t[bucket(v)] / area
//
// area is normally t.Total(). The result is in [0, 1] whenever area >= Total.
func (t Table) Mapper(area uint64) func(v float64) float64 {
	q := newQuantizer(len(t))
	inv := 1 / float64(area)
	return func(v float64) float64 {
		return float64(t[q.bucket(v)]) * inv
	}
}
