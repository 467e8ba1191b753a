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

import "encoding/binary"

// reader is a bounds-checked cursor over a frame buffer, in the style of
// the stream cursor type package iguana uses to fetch its own self
// describing fields (ion/zion/iguana/stream.go), generalized here to a
// standard LEB128 varuint rather than iguana's base-254 scheme, since a
// container payload length is not bounded to iguana's 3-byte window.
type reader struct {
	buf    []byte
	cursor int
}

func (r *reader) checkFetch(n int) error {
	if r.cursor+n > len(r.buf) {
		return ErrTruncated
	}
	return nil
}

func (r *reader) take(n int) ([]byte, error) {
	if err := r.checkFetch(n); err != nil {
		return nil, err
	}
	b := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return b, nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) int16() (int16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// varUint reads a LEB128-encoded unsigned integer: 7 payload bits per
// byte, low-to-high, with the top bit of each byte set on every byte but
// the last.
func (r *reader) varUint() (uint64, error) {
	var v uint64
	var shift uint
	for {
		b, err := r.byte()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrTruncated
		}
	}
}

func appendVarUint(s []byte, v uint64) []byte {
	for v >= 0x80 {
		s = append(s, byte(v)|0x80)
		v >>= 7
	}
	return append(s, byte(v))
}

func appendInt16(s []byte, v int16) []byte {
	return binary.BigEndian.AppendUint16(s, uint16(v))
}

func appendUint64(s []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(s, v)
}
