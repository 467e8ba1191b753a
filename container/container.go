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

// Package container wraps the headerless range-coder byte stream in a
// self-delimiting frame: a magic/version preamble, a stream identifier,
// the alphabet parameters the model was built with, varuint-encoded
// lengths, the coded payload, and a SipHash-2-4 checksum over that
// payload keyed by the stream identifier.
//
// The checksum exists to catch accidental corruption (truncated files,
// bit flips in transit); it is not a cryptographic integrity mechanism,
// since the key is carried in the frame itself rather than kept secret.
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
	"github.com/google/uuid"

	"github.com/arcorange/rangecoder/model"
	"github.com/arcorange/rangecoder/rangecoder"
	"github.com/arcorange/rangecoder/rcstream"
)

// magic identifies the frame format. version lets a reader reject frames
// from an incompatible future revision outright rather than misparse them.
var magic = [4]byte{'r', 'c', 'o', 'd'}

const version = 1

// EOMNone means a Frame was built with known-length framing: the decoder
// reads exactly UncompressedLen symbols rather than watching for a
// sentinel.
const EOMNone = -1

// Frame is the decoded representation of one container-framed message.
type Frame struct {
	StreamID        uuid.UUID
	AlphabetSize    int
	EOMSymbol       int // EOMNone when the frame uses known-length framing
	UncompressedLen int
	Payload         []byte // the headerless range-coder byte stream
}

// ErrChecksumMismatch is returned by Decode when the frame's checksum does
// not match its payload.
var ErrChecksumMismatch = fmt.Errorf("container: checksum mismatch")

// ErrBadMagic is returned by Decode when the input does not begin with
// the expected magic bytes.
var ErrBadMagic = fmt.Errorf("container: bad magic")

// ErrBadVersion is returned by Decode when the frame declares a version
// this package does not understand.
var ErrBadVersion = fmt.Errorf("container: unsupported version")

// ErrTruncated is returned by Decode when the input ends before a
// length-prefixed field it declares can be read in full.
var ErrTruncated = fmt.Errorf("container: truncated frame")

func checksumKey(id uuid.UUID) (k0, k1 uint64) {
	return binary.BigEndian.Uint64(id[0:8]), binary.BigEndian.Uint64(id[8:16])
}

// encodeAlphabetSize maps a model.Symbols-range alphabet size onto the
// single wire byte: 256 does not fit in a byte, so it is written as 0,
// the one value an alphabet size can otherwise never take (Encode rejects
// alphabetSize < 2).
func encodeAlphabetSize(alphabetSize int) byte {
	if alphabetSize == model.Symbols {
		return 0
	}
	return byte(alphabetSize)
}

// decodeAlphabetSize reverses encodeAlphabetSize.
func decodeAlphabetSize(wire byte) int {
	if wire == 0 {
		return model.Symbols
	}
	return int(wire)
}

// Encode compresses src through an adaptive model over the first
// alphabetSize symbols and wraps the result in a Frame, identified by a
// freshly generated stream ID. eom selects end-of-message framing when
// 0 <= eom < alphabetSize; pass EOMNone for known-length framing.
func Encode(src []byte, alphabetSize, eom int) ([]byte, error) {
	if alphabetSize < 2 || alphabetSize > model.Symbols {
		return nil, fmt.Errorf("container: alphabet size %d out of range", alphabetSize)
	}
	if eom != EOMNone && (eom < 0 || eom >= alphabetSize) {
		return nil, fmt.Errorf("container: eom symbol %d out of range for alphabet size %d", eom, alphabetSize)
	}

	id := uuid.New()
	sink := rangecoder.NewSliceSink(len(src))
	var pm model.Model
	pm.Init(alphabetSize)

	var err error
	if eom == EOMNone {
		err = rcstream.EncodeKnownLength(&pm, sink, src)
	} else {
		err = rcstream.EncodeWithEOM(&pm, sink, src, byte(eom))
	}
	if err != nil {
		return nil, fmt.Errorf("container: encode: %w", err)
	}
	payload := sink.Bytes()

	k0, k1 := checksumKey(id)
	sum := siphash.Hash(k0, k1, payload)

	out := make([]byte, 0, 4+1+16+1+2+10+10+len(payload)+8)
	out = append(out, magic[:]...)
	out = append(out, byte(version))
	out = append(out, id[:]...)
	out = append(out, encodeAlphabetSize(alphabetSize))
	out = appendInt16(out, int16(eom))
	out = appendVarUint(out, uint64(len(src)))
	out = appendVarUint(out, uint64(len(payload)))
	out = append(out, payload...)
	out = appendUint64(out, sum)
	return out, nil
}

// Decode parses a container frame and decompresses its payload back into
// the original bytes. It verifies the checksum before touching the
// range coder, so a corrupt frame is rejected before any decode attempt
// could be made to run past its logical end.
func Decode(frame []byte) ([]byte, error) {
	_, out, err := DecodeFrame(frame)
	return out, err
}

// DecodeFrame is Decode but additionally returns the parsed frame header,
// for callers that want the stream ID or framing mode without re-parsing.
func DecodeFrame(frame []byte) (Frame, []byte, error) {
	r := reader{buf: frame}

	gotMagic, err := r.take(4)
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}
	if !bytesEqual(gotMagic, magic[:]) {
		return Frame{}, nil, ErrBadMagic
	}
	ver, err := r.byte()
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}
	if ver != version {
		return Frame{}, nil, ErrBadVersion
	}
	idBytes, err := r.take(16)
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}
	var id uuid.UUID
	copy(id[:], idBytes)

	wireAlphabetSize, err := r.byte()
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}
	alphabetSize := decodeAlphabetSize(wireAlphabetSize)
	eom16, err := r.int16()
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}
	uncompressedLen, err := r.varUint()
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}
	payloadLen, err := r.varUint()
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}
	payload, err := r.take(int(payloadLen))
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}
	checksum, err := r.uint64()
	if err != nil {
		return Frame{}, nil, ErrTruncated
	}

	k0, k1 := checksumKey(id)
	want := siphash.Hash(k0, k1, payload)
	if want != checksum {
		return Frame{}, nil, ErrChecksumMismatch
	}

	f := Frame{
		StreamID:        id,
		AlphabetSize:    alphabetSize,
		EOMSymbol:       int(eom16),
		UncompressedLen: int(uncompressedLen),
		Payload:         payload,
	}

	var pm model.Model
	pm.Init(alphabetSize)
	source := rangecoder.NewSliceSource(payload)

	var out []byte
	if f.EOMSymbol == EOMNone {
		out, err = rcstream.DecodeKnownLength(&pm, source, f.UncompressedLen)
	} else {
		out, err = rcstream.DecodeWithEOM(&pm, source, byte(f.EOMSymbol))
	}
	if err != nil {
		return Frame{}, nil, fmt.Errorf("container: decode: %w", err)
	}
	return f, out, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
