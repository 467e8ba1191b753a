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

// Package model implements the adaptive byte-frequency probability model
// that package rangecoder drives one symbol at a time. It is a thin
// Fenwick-tree-backed frequency table: every encode/decode step reads the
// current cumulative distribution and then bumps the observed symbol's
// count by one, so an encoder and a decoder seeded with the same Init(k)
// stay in lockstep for the life of the stream.
package model

import "github.com/arcorange/rangecoder/fenwick"

// Symbols is the size of the byte alphabet the model is built over.
const Symbols = 256

// MaxFreq is the point at which the model is considered converged and
// further updates are ignored. 2^56 symbols (72 petabytes) is far beyond
// any stream this coder is meant to process; the bound exists purely so
// that the 64-bit arithmetic in package rangecoder (range/total, low +
// start*range) never overflows, per the invariant range >= total.
const MaxFreq = uint64(1) << 56

// Model is an adaptive frequency table over the 256-symbol byte alphabet.
// The zero value is not usable; call Init.
//
// A Model is not safe for concurrent use without external synchronization.
// Distinct Models may be driven over the same rangecoder.Coder to code
// interleaved streams, as long as encoder and decoder visit them in the
// same order (see rangecoder.Coder).
type Model struct {
	freq [Symbols]uint64
	tree fenwick.Tree
}

// Init resets the model to a uniform distribution over the first k
// symbols (1 each) and zero probability for the rest. k must satisfy
// 2 <= k <= Symbols. A symbol >= k has frequency 0, so
// rangecoder.Coder.Encode rejects it with ErrInvalid and
// rangecoder.Coder.Decode reports ErrData rather than return it.
func (m *Model) Init(k int) {
	for i := range m.freq {
		if i < k {
			m.freq[i] = 1
		} else {
			m.freq[i] = 0
		}
	}
	m.tree.Init(m.freq[:])
}

// Total returns the sum of all symbol frequencies.
func (m *Model) Total() uint64 {
	return m.tree.Total()
}

// Freq returns the current frequency of sym.
func (m *Model) Freq(sym byte) uint64 {
	return m.freq[sym]
}

// PrefixSumOf returns the cumulative frequency of every symbol strictly
// below sym.
func (m *Model) PrefixSumOf(sym byte) uint64 {
	return m.tree.PrefixSum(int(sym) - 1)
}

// SymbolOf returns the symbol s such that PrefixSumOf(s) <= cum <
// PrefixSumOf(s) + Freq(s). It returns -1 when no such symbol exists,
// which the decoder surfaces as a data-corruption error; a well-formed
// cum value (0 <= cum < Total()) always resolves to a real symbol.
func (m *Model) SymbolOf(cum uint64) int {
	if cum >= m.Total() {
		return -1
	}
	sym := m.tree.Find(cum)
	if sym < 0 || sym >= Symbols {
		return -1
	}
	return sym
}

// Update adds inc to sym's frequency, unless the model has already
// saturated (Total() >= MaxFreq), in which case the call is a no-op. The
// coder always calls this with inc == 1; callers driving the model
// directly must ensure inc <= MaxFreq-Freq(sym) to preserve monotonic
// growth.
func (m *Model) Update(sym byte, inc uint64) {
	if m.tree.Total() >= MaxFreq {
		return
	}
	m.freq[sym] += inc
	m.tree.Update(int(sym), inc)
}
