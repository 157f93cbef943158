// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package checksum implements the content-addressing primitive used
// throughout BrightChain: a fixed-length SHA3-512 digest identifying a
// block by its bytes.
package checksum

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Size is the length in bytes of a Checksum (SHA3-512 digest length).
const Size = 64

// HexSize is the length in characters of the lowercase hex encoding of a
// Checksum.
const HexSize = Size * 2

// ErrorKind identifies a class of checksum error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string {
	return string(k)
}

// Error kinds returned by this package.
const (
	ErrInvalidLength ErrorKind = "invalid checksum length"
	ErrInvalidHex     ErrorKind = "invalid checksum hex encoding"
)

// Error wraps an ErrorKind with additional context, following the
// ErrorKind/Error split used throughout the decred/dcrd lineage.
type Error struct {
	Err         error
	Description string
}

// Error returns the human-readable description.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying ErrorKind so errors.Is works against the
// package-level sentinels.
func (e Error) Unwrap() error {
	return e.Err
}

func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

// Checksum is an immutable 64-byte SHA3-512 digest identifying a block's
// content. The zero value is not a valid Checksum; construct one with
// FromBytes, FromHex, or Compute.
type Checksum [Size]byte

// Compute returns the Checksum of data, i.e. SHA3-512(data).
func Compute(data []byte) Checksum {
	return Checksum(sha3.Sum512(data))
}

// FromBytes constructs a Checksum from a raw 64-byte buffer. It fails with
// ErrInvalidLength if buf is not exactly Size bytes.
func FromBytes(buf []byte) (Checksum, error) {
	var c Checksum
	if len(buf) != Size {
		return c, makeError(ErrInvalidLength,
			"checksum: expected 64 raw bytes, got "+strconv.Itoa(len(buf)))
	}
	copy(c[:], buf)
	return c, nil
}

// FromHex constructs a Checksum from its 128-character hex encoding.
// Decoding is case-insensitive. It fails with ErrInvalidLength if the
// string is not 128 characters, or ErrInvalidHex if it is not valid hex.
func FromHex(s string) (Checksum, error) {
	var c Checksum
	if len(s) != HexSize {
		return c, makeError(ErrInvalidLength,
			"checksum: expected 128 hex characters, got "+strconv.Itoa(len(s)))
	}
	buf, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return c, makeError(ErrInvalidHex, "checksum: malformed hex: "+err.Error())
	}
	copy(c[:], buf)
	return c, nil
}

// Bytes returns the checksum's 64 raw bytes as a new slice.
func (c Checksum) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, c[:])
	return out
}

// ToHex returns the lowercase, 128-character hex encoding of the checksum.
func (c Checksum) ToHex() string {
	return hex.EncodeToString(c[:])
}

// String implements fmt.Stringer as the lowercase hex encoding.
func (c Checksum) String() string {
	return c.ToHex()
}

// Equals reports whether c and other are byte-equal.
func (c Checksum) Equals(other Checksum) bool {
	return bytes.Equal(c[:], other[:])
}

// IsZero reports whether c is the all-zero checksum (never a valid digest
// of any input under SHA3-512 for practical purposes, but useful as an
// "unset" sentinel for callers holding a Checksum by value).
func (c Checksum) IsZero() bool {
	var zero Checksum
	return c.Equals(zero)
}

