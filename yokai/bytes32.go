// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package yokai

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Bytes32 is a blake2b digest, used as bundle and receipt id.
type Bytes32 [32]byte

func (b Bytes32) String() string { return "0x" + hex.EncodeToString(b[:]) }
func (b Bytes32) Bytes() []byte  { return b[:] }
func (b Bytes32) IsZero() bool   { return b == Bytes32{} }

// AbbrevString keeps the first and last four bytes.
func (b Bytes32) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", b[:4], b[28:])
}

func (b Bytes32) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Bytes32) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), b[:])
}

// ParseBytes32 accepts 64 hex digits with an optional 0x prefix.
func ParseBytes32(s string) (b Bytes32, err error) {
	err = decodeFixedHex(s, b[:])
	return
}

// BytesToBytes32 left pads, or left crops, b to 32 bytes.
func BytesToBytes32(b []byte) (h Bytes32) {
	b = b[max(0, len(b)-len(h)):]
	copy(h[len(h)-len(b):], b)
	return
}

// Blake2b hashes the concatenation of data.
func Blake2b(data ...[]byte) Bytes32 {
	return Blake2bFn(func(w io.Writer) {
		for _, d := range data {
			w.Write(d)
		}
	})
}

// Blake2bFn hashes whatever fn writes.
func Blake2bFn(fn func(w io.Writer)) (h Bytes32) {
	hasher, _ := blake2b.New256(nil)
	fn(hasher)
	hasher.Sum(h[:0])
	return
}

func decodeFixedHex(s string, out []byte) error {
	if len(s) >= 2 && strings.EqualFold(s[:2], "0x") {
		s = s[2:]
	}
	if len(s) != len(out)*2 {
		return errors.Errorf("expected %d hex digits, got %d", len(out)*2, len(s))
	}
	if _, err := hex.Decode(out, []byte(s)); err != nil {
		return errors.Wrap(err, "invalid hex")
	}
	return nil
}
