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

// ErrorCode is the sticky error kind surfaced on Coder.Err. The zero value,
// ErrNone, means no error has occurred.
type ErrorCode uint32

const (
	// ErrNone means the coder has not encountered an error.
	ErrNone ErrorCode = iota
	// ErrIO means a ByteSink or ByteSource callback failed.
	ErrIO
	// ErrTooBig means a ByteSink refused a write because its backing
	// storage is exhausted.
	ErrTooBig
	// ErrInvalid means a caller precondition was violated (an out-of-range
	// symbol, an invalid model, etc).
	ErrInvalid
	// ErrData means the decoder detected a malformed compressed stream.
	ErrData

	errLast
)

var errorStrings = [errLast]string{
	ErrNone:    "",
	ErrIO:      "range coder: I/O error",
	ErrTooBig:  "range coder: output exceeds sink capacity",
	ErrInvalid: "range coder: invalid argument",
	ErrData:    "range coder: corrupt compressed stream",
}

// Error implements the error interface. ErrNone.Error() returns "".
func (e ErrorCode) Error() string {
	return errorStrings[e]
}

// asError returns e as an error, or nil if e is ErrNone.
func (e ErrorCode) asError() error {
	if e == ErrNone {
		return nil
	}
	return e
}

