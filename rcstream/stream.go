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

// Package rcstream is the minimal caller collaborator for package
// rangecoder: it drives a Coder and a model.Model across a whole message,
// implementing the two end-of-stream conventions the core leaves out of
// band (known length, and a reserved end-of-message symbol).
package rcstream

import (
	"github.com/arcorange/rangecoder/model"
	"github.com/arcorange/rangecoder/rangecoder"
)

// EncodeKnownLength encodes every byte of src through pm and sink, then
// flushes. The decoder side must already know len(src) out of band
// (DecodeKnownLength's n argument).
func EncodeKnownLength(pm *model.Model, sink rangecoder.ByteSink, src []byte) error {
	var c rangecoder.Coder
	c.InitEncoder(sink)
	for _, b := range src {
		if err := c.Encode(pm, b); err != nil {
			return err
		}
	}
	return c.Flush()
}

// DecodeKnownLength decodes exactly n symbols from source through pm.
func DecodeKnownLength(pm *model.Model, source rangecoder.ByteSource, n int) ([]byte, error) {
	var c rangecoder.Coder
	if err := c.InitDecoder(source); err != nil {
		return nil, err
	}
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		sym, err := c.Decode(pm)
		if err != nil {
			return out, err
		}
		out = append(out, sym)
	}
	return out, nil
}

// EncodeWithEOM encodes every byte of src through pm and sink, then
// encodes eom once as a sentinel and flushes. Per the alphabet reservation
// rule, eom must not otherwise appear in src and must be < pm's k.
func EncodeWithEOM(pm *model.Model, sink rangecoder.ByteSink, src []byte, eom byte) error {
	var c rangecoder.Coder
	c.InitEncoder(sink)
	for _, b := range src {
		if err := c.Encode(pm, b); err != nil {
			return err
		}
	}
	if err := c.Encode(pm, eom); err != nil {
		return err
	}
	return c.Flush()
}

// DecodeWithEOM decodes symbols through pm until it decodes eom, which it
// does not append to the returned slice, or until an error occurs.
func DecodeWithEOM(pm *model.Model, source rangecoder.ByteSource, eom byte) ([]byte, error) {
	var c rangecoder.Coder
	if err := c.InitDecoder(source); err != nil {
		return nil, err
	}
	var out []byte
	for {
		sym, err := c.Decode(pm)
		if err != nil {
			return out, err
		}
		if sym == eom {
			return out, nil
		}
		out = append(out, sym)
	}
}
