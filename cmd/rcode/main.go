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

// Command rcode compresses and decompresses files through the adaptive
// range coder, framing each output file as a single container.Frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/arcorange/rangecoder/container"
	"github.com/arcorange/rangecoder/rcconfig"
)

var (
	dashv      bool
	dashconfig string
	dasho      string
)

func init() {
	flag.BoolVar(&dashv, "v", false, "verbose logging")
	flag.StringVar(&dashconfig, "config", "", "path to a YAML config file (default: built-in defaults)")
	flag.StringVar(&dasho, "o", "", "output file (default: input filename with .rc appended, or .rc stripped; .out appended if it has no .rc suffix)")
}

func exitf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func loadConfig() rcconfig.Config {
	if dashconfig == "" {
		return rcconfig.Default()
	}
	cfg, err := rcconfig.Load(dashconfig)
	if err != nil {
		exitf("%s", err)
	}
	return *cfg
}

func compress(cfg rcconfig.Config, inPath, outPath string) {
	src, err := os.ReadFile(inPath)
	if err != nil {
		exitf("reading %s: %s", inPath, err)
	}
	frame, err := container.Encode(src, cfg.AlphabetSize, cfg.EOMSymbol)
	if err != nil {
		exitf("compressing %s: %s", inPath, err)
	}
	if err := os.WriteFile(outPath, frame, 0o644); err != nil {
		exitf("writing %s: %s", outPath, err)
	}
	if dashv {
		log.Printf("%s: %d -> %d bytes", inPath, len(src), len(frame))
	}
}

func decompress(inPath, outPath string) {
	frame, err := os.ReadFile(inPath)
	if err != nil {
		exitf("reading %s: %s", inPath, err)
	}
	out, err := container.Decode(frame)
	if err != nil {
		exitf("decompressing %s: %s", inPath, err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		exitf("writing %s: %s", outPath, err)
	}
	if dashv {
		log.Printf("%s: %d -> %d bytes", inPath, len(frame), len(out))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "    %s [-config cfg.yaml] [-o out] compress <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "    %s [-o out] decompress <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "flag usage:\n")
	flag.Usage()
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(1)
	}

	cmd, inPath := args[0], args[1]
	outPath := dasho
	switch cmd {
	case "compress":
		if outPath == "" {
			outPath = inPath + ".rc"
		}
		compress(loadConfig(), inPath, outPath)
	case "decompress":
		if outPath == "" {
			outPath = trimRCSuffix(inPath)
		}
		decompress(inPath, outPath)
	default:
		usage()
		os.Exit(1)
	}
}

func trimRCSuffix(path string) string {
	const suffix = ".rc"
	if len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix {
		return path[:len(path)-len(suffix)]
	}
	return path + ".out"
}
