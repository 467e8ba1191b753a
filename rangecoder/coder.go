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

// Package rangecoder implements an adaptive binary range coder over a
// byte alphabet, driven one symbol at a time by a probability model from
// package model. It is a faithful port of a 64-bit low/range/code
// arithmetic-coder design: the encoder and a decoder seeded with the same
// initial model stay bit-exactly synchronized for the entire stream.
//
// The coder owns no buffers, files, or threads: it only calls the
// ByteSink/ByteSource it is given, one byte at a time, and never touches
// either after its sticky error field is set.
package rangecoder

import "github.com/arcorange/rangecoder/model"

const (
	topShift = 56
	byteMask = 0xFF
	rangeMax = ^uint64(0)
)

// Coder holds the shared (low, range, code) arithmetic state for a single
// compressed stream plus its sticky error and I/O capability. The zero
// value is not usable; call InitEncoder or InitDecoder.
//
// A Coder is not safe for concurrent use without external synchronization.
// Multiple independent probability models may be driven over one Coder to
// interleave distinct symbol streams (see model.Model); the caller must
// visit them in the same order on the encode and decode sides.
type Coder struct {
	low, rng, code uint64
	err            ErrorCode
	sink           ByteSink
	source         ByteSource
}

// InitEncoder prepares c to encode into sink. Per the coder's contract,
// low starts at 0 and range starts at its maximum extent.
func (c *Coder) InitEncoder(sink ByteSink) {
	c.sink = sink
	c.source = nil
	c.low = 0
	c.rng = rangeMax
	c.code = 0
	c.err = ErrNone
}

// InitDecoder prepares c to decode from source. It pulls exactly 8 bytes
// from source up front, assembling them MSB-first into the initial code
// register; this balances the 8 trailing bytes Flush writes, so the
// decoder consumes exactly as many bytes as the encoder emitted.
func (c *Coder) InitDecoder(source ByteSource) error {
	c.source = source
	c.sink = nil
	c.low = 0
	c.rng = rangeMax
	c.err = ErrNone

	var code uint64
	for i := 0; i < 8; i++ {
		b, err := source.ReadByte()
		if err != nil {
			c.err = ErrIO
			break
		}
		code = (code << 8) | uint64(b)
	}
	c.code = code
	return c.err.asError()
}

// Err returns the coder's sticky error, or nil if none has occurred.
func (c *Coder) Err() error {
	return c.err.asError()
}

// SetErr injects a sticky error from outside the coder, short-circuiting
// any further Encode/Decode calls. This is the cooperative cancellation
// path: no partial-state rollback is offered.
func (c *Coder) SetErr(e ErrorCode) {
	if c.err == ErrNone {
		c.err = e
	}
}

// State returns the coder's current (low, range) tuple, for comparing
// encoder and decoder synchrony in tests.
func (c *Coder) State() (low, rng uint64) {
	return c.low, c.rng
}

// emitByte writes the top byte of low to the sink, then slides the window
// left by one byte. It is a no-op once c.err is set.
func (c *Coder) emitByte() {
	if c.err != ErrNone {
		return
	}
	b := byte(c.low >> topShift)
	if err := c.sink.WriteByte(b); err != nil {
		c.err = ErrIO
		return
	}
	c.low <<= 8
	c.rng <<= 8
}

// consumeByte reads one byte from the source into the bottom of code,
// sliding the window left by one byte in lockstep with emitByte. It is a
// no-op once c.err is set; a source failure sets ErrIO and leaves code,
// low and range unshifted.
func (c *Coder) consumeByte() {
	if c.err != ErrNone {
		return
	}
	b, err := c.source.ReadByte()
	if err != nil {
		c.err = ErrIO
		return
	}
	c.code = (c.code << 8) + uint64(b)
	c.low <<= 8
	c.rng <<= 8
}

// topByteStable reports whether low and low+range currently share the
// same top byte, i.e. that byte has stabilized and can be renormalized
// out of the working interval.
func (c *Coder) topByteStable() bool {
	return (c.low >> topShift) == ((c.low + c.rng) >> topShift)
}

// Encode narrows the working interval to sym's slice of pm's current
// distribution, updates pm, and emits any bytes of low that have
// stabilized. Precondition: pm.Freq(sym) > 0 and the coder's range is
// already >= pm.Total() (true immediately after InitEncoder; the
// underflow recovery below, run before every symbol in the same position
// Decode runs its mirror check, is what maintains it).
func (c *Coder) Encode(pm *model.Model, sym byte) error {
	if c.err != ErrNone {
		return c.err.asError()
	}
	total := pm.Total()
	if total < 1 || pm.Freq(sym) == 0 {
		c.err = ErrInvalid
		return c.err.asError()
	}

	if c.rng < total {
		c.emitByte()
		c.emitByte()
		c.rng = rangeMax - c.low
	}
	if c.err != ErrNone {
		return c.err.asError()
	}

	start := pm.PrefixSumOf(sym)
	size := pm.Freq(sym)

	c.rng /= total
	c.low += start * c.rng
	c.rng *= size

	pm.Update(sym, 1)

	for c.err == ErrNone && c.topByteStable() {
		c.emitByte()
	}
	return c.err.asError()
}

// Decode narrows the working interval using pm's current distribution to
// recover the symbol the matching Encode call narrowed it with, updates
// pm identically, and consumes any bytes needed to keep range precise.
// It returns ErrData if the compressed stream is detectably corrupt.
func (c *Coder) Decode(pm *model.Model) (byte, error) {
	if c.err != ErrNone {
		return 0, c.err.asError()
	}
	total := pm.Total()
	if total < 1 {
		c.err = ErrData
		return 0, c.err.asError()
	}

	if c.rng < total {
		c.consumeByte()
		c.consumeByte()
		c.rng = rangeMax - c.low
	}
	if c.err != ErrNone {
		return 0, c.err.asError()
	}

	divisor := c.rng / total
	if divisor == 0 {
		c.err = ErrData
		return 0, c.err.asError()
	}
	cum := (c.code - c.low) / divisor
	sym := pm.SymbolOf(cum)
	if sym < 0 || pm.Freq(byte(sym)) == 0 {
		c.err = ErrData
		return 0, c.err.asError()
	}

	start := pm.PrefixSumOf(byte(sym))
	size := pm.Freq(byte(sym))
	if size == 0 || c.rng < total {
		c.err = ErrData
		return 0, c.err.asError()
	}

	c.rng = divisor
	c.low += start * c.rng
	c.rng *= size

	pm.Update(byte(sym), 1)

	for c.err == ErrNone && c.topByteStable() {
		c.consumeByte()
	}
	if c.err != ErrNone {
		return 0, c.err.asError()
	}
	return byte(sym), nil
}

// Flush writes the 8 trailing bytes that pin down the final interval,
// resetting range to its maximum extent before each emission so that the
// byte written is always the top byte of low. Call Flush exactly once,
// after the last Encode call.
func (c *Coder) Flush() error {
	for i := 0; i < 8; i++ {
		c.rng = rangeMax
		c.emitByte()
	}
	return c.err.asError()
}
