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

package rangecoder

// ByteSink is the write-side capability a Coder drives one byte at a time.
// A failing WriteByte should return a non-nil error exactly once; Coder
// will not call WriteByte again afterward.
type ByteSink interface {
	WriteByte(b byte) error
}

// ByteSource is the read-side capability a Coder drives one byte at a
// time. A failing ReadByte should return a non-nil error; Coder ignores the
// returned byte in that case and will not call ReadByte again.
type ByteSource interface {
	ReadByte() (byte, error)
}

// SliceSink is a ByteSink backed by an in-memory byte slice, analogous to
// the teacher's stream cursor type (ion/zion/iguana/stream.go) but for
// writing rather than fetching.
type SliceSink struct {
	buf []byte
}

// NewSliceSink returns a SliceSink that appends to an internal buffer
// starting from the given capacity hint.
func NewSliceSink(capHint int) *SliceSink {
	return &SliceSink{buf: make([]byte, 0, capHint)}
}

// WriteByte implements ByteSink.
func (s *SliceSink) WriteByte(b byte) error {
	s.buf = append(s.buf, b)
	return nil
}

// Bytes returns the accumulated output.
func (s *SliceSink) Bytes() []byte {
	return s.buf
}

// Len returns the number of bytes written so far.
func (s *SliceSink) Len() int {
	return len(s.buf)
}

// SliceSource is a ByteSource that reads sequentially from an in-memory
// byte slice and reports io.EOF-equivalent exhaustion once consumed.
type SliceSource struct {
	buf    []byte
	cursor int
}

// NewSliceSource returns a SliceSource reading from buf.
func NewSliceSource(buf []byte) *SliceSource {
	return &SliceSource{buf: buf}
}

// ErrExhausted is returned by SliceSource.ReadByte once the backing slice
// has been fully consumed.
var ErrExhausted = ErrIO

// ReadByte implements ByteSource.
func (s *SliceSource) ReadByte() (byte, error) {
	if s.cursor >= len(s.buf) {
		return 0, ErrExhausted
	}
	b := s.buf[s.cursor]
	s.cursor++
	return b, nil
}

// Remaining returns the number of unread bytes.
func (s *SliceSource) Remaining() int {
	return len(s.buf) - s.cursor
}
