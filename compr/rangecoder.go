// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package compr

import (
	"fmt"

	"github.com/arcorange/rangecoder/container"
)

// rangeCoder adapts the adaptive binary range coder to the Compressor and
// Decompressor interfaces above, framing every block as a self-describing
// container.Frame so Decompress needs nothing beyond the compressed bytes
// and a destination of the expected size.
type rangeCoder struct {
	alphabetSize int
}

func (r rangeCoder) Name() string { return "rc" }

// Compress appends a container-framed, range-coded copy of src to dst.
// Like the other Compressor implementations, it never mutates src.
func (r rangeCoder) Compress(src, dst []byte) []byte {
	frame, err := container.Encode(src, r.alphabetSize, container.EOMNone)
	if err != nil {
		// Only reachable if alphabetSize was misconfigured outside the
		// Compression constructor below, which always passes 256.
		panic(err)
	}
	return append(dst, frame...)
}

// Decompress decodes src into dst, which must already be sized to the
// expected decompressed length.
func (r rangeCoder) Decompress(src, dst []byte) error {
	ret, err := container.Decode(src)
	if err != nil {
		return err
	}
	if len(ret) != len(dst) {
		return fmt.Errorf("expected %d bytes decompressed; got %d", len(dst), len(ret))
	}
	copy(dst, ret)
	return nil
}

var rangeCoderSingleton = rangeCoder{alphabetSize: 256}
