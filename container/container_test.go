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

package container

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTripKnownLength(t *testing.T) {
	src := []byte("the quick brown fox jumps over the lazy dog, 0123456789")
	frame, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripWithEOM(t *testing.T) {
	src := []byte("a message with an end-of-message marker")
	frame, err := Encode(src, 256, 255)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	f, out, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch")
	}
	if f.EOMSymbol != 255 {
		t.Fatalf("EOMSymbol = %d, want 255", f.EOMSymbol)
	}
	if f.AlphabetSize != 256 {
		t.Fatalf("AlphabetSize = %d, want 256", f.AlphabetSize)
	}
	if f.UncompressedLen != len(src) {
		t.Fatalf("UncompressedLen = %d, want %d", f.UncompressedLen, len(src))
	}
}

func TestAlphabetSize256RoundTripsOnWire(t *testing.T) {
	src := []byte("a 256-symbol alphabet must not collide with the empty frame on the wire")
	frame, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// the wire byte for alphabet size 256 is 0, not 256; check the raw
	// frame rather than just the round-tripped value so a regression to
	// byte(alphabetSize) truncation is caught even if it happened to
	// decode back to something that looks right.
	wireByte := frame[4+1+16]
	if wireByte != 0 {
		t.Fatalf("wire alphabet size byte = %d, want 0 (256 wraps to 0 on the wire)", wireByte)
	}
	f, out, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if f.AlphabetSize != 256 {
		t.Fatalf("AlphabetSize = %d, want 256", f.AlphabetSize)
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch")
	}
}

func TestDistinctFramesGetDistinctStreamIDs(t *testing.T) {
	src := []byte("same payload")
	a, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	fa, _, err := DecodeFrame(a)
	if err != nil {
		t.Fatalf("DecodeFrame a: %v", err)
	}
	fb, _, err := DecodeFrame(b)
	if err != nil {
		t.Fatalf("DecodeFrame b: %v", err)
	}
	if fa.StreamID == fb.StreamID {
		t.Fatalf("two Encode calls produced the same stream ID")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	src := []byte("hello")
	frame, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame[0] ^= 0xff
	if _, err := Decode(frame); err != ErrBadMagic {
		t.Fatalf("Decode = %v, want ErrBadMagic", err)
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	src := []byte("hello")
	frame, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame[4] = 99
	if _, err := Decode(frame); err != ErrBadVersion {
		t.Fatalf("Decode = %v, want ErrBadVersion", err)
	}
}

func TestDecodeRejectsTruncatedFrame(t *testing.T) {
	src := []byte("a somewhat longer message to survive truncation")
	frame, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(frame[:len(frame)-20]); err == nil {
		t.Fatalf("Decode succeeded on a truncated frame")
	}
}

func TestDecodeRejectsChecksumMismatch(t *testing.T) {
	src := []byte("checksum coverage message")
	frame, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Flip a bit inside the payload region, after the fixed-size header
	// and before the trailing 8-byte checksum.
	payloadIdx := len(frame) - 8 - 1
	frame[payloadIdx] ^= 0x01
	if _, err := Decode(frame); err != ErrChecksumMismatch {
		t.Fatalf("Decode = %v, want ErrChecksumMismatch", err)
	}
}

func TestEncodeRejectsBadAlphabetSize(t *testing.T) {
	if _, err := Encode([]byte("x"), 1, EOMNone); err == nil {
		t.Fatalf("Encode accepted alphabet size 1")
	}
	if _, err := Encode([]byte("x"), 257, EOMNone); err == nil {
		t.Fatalf("Encode accepted alphabet size 257")
	}
}

func TestEncodeRejectsBadEOMSymbol(t *testing.T) {
	if _, err := Encode([]byte("x"), 4, 4); err == nil {
		t.Fatalf("Encode accepted eom symbol equal to alphabet size")
	}
	if _, err := Encode([]byte("x"), 4, -2); err == nil {
		t.Fatalf("Encode accepted eom symbol < EOMNone")
	}
}

func TestRoundTripLargePayload(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	src := make([]byte, 64*1024)
	rng.Read(src)
	frame, err := Encode(src, 256, EOMNone)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch on large payload")
	}
}
