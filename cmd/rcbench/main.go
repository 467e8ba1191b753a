// Copyright (C) 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Command rcbench measures compression ratio and decode throughput for
// the range coder against the other Compressor/Decompressor
// implementations in package compr, the way cmd/iguanabench measures the
// ANS coder it is modeled on.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/arcorange/rangecoder/compr"
	"github.com/arcorange/rangecoder/ints"
)

func fatalf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

type result struct {
	name       string
	ratio      float64
	decodeGBps float64
}

func bench(name string, buf []byte, deadline time.Duration) result {
	comp := compr.Compression(name)
	dec := compr.Decompression(name)
	if comp == nil || dec == nil {
		fatalf("no such compression algorithm %q", name)
	}

	compressed := comp.Compress(buf, nil)
	dst := make([]byte, len(buf))

	start := time.Now()
	end := start.Add(deadline)
	min := time.Duration(math.MaxInt64)
	for time.Now().Before(end) {
		istart := time.Now()
		if err := dec.Decompress(compressed, dst); err != nil {
			fatalf("%s: decompression error: %s", name, err)
		}
		min = ints.Min(min, time.Since(istart))
	}

	return result{
		name:       name,
		ratio:      float64(len(buf)) / float64(len(compressed)),
		decodeGBps: float64(len(buf)) / min.Seconds() / 1e9,
	}
}

func main() {
	var deadline time.Duration
	flag.DurationVar(&deadline, "d", 2*time.Second, "per-algorithm decode measurement window")
	algos := flag.String("algos", "rc,s2,zstd", "comma-separated list of algorithms to compare")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fatalf("usage: %s [-d duration] [-algos rc,s2,zstd] <file>", os.Args[0])
	}

	buf, err := os.ReadFile(args[0])
	if err != nil {
		fatalf("reading file: %s", err)
	}

	names := splitCSV(*algos)
	for _, name := range names {
		r := bench(name, buf, deadline)
		fmt.Printf("%-6s %dB -> %.3gx  decode %.3g GB/s\n", r.name, len(buf), r.ratio, r.decodeGBps)
	}
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
