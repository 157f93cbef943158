// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package xor implements the constant-time, equal-length XOR composition
// that underlies BrightChain's whitening/tuple engine, along with the
// length-prefixed block padding helpers the pipeline uses to size each
// encrypted block to the block size.
package xor

import (
	"crypto/subtle"
	"encoding/binary"
)

// ErrorKind identifies a class of xor error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string {
	return string(k)
}

const (
	// ErrLengthMismatch is returned when operands passed to Combine/Multi
	// do not all share the same length.
	ErrLengthMismatch ErrorKind = "xor: length mismatch"
	// ErrNoOperands is returned when zero byte slices are given to Multi.
	ErrNoOperands ErrorKind = "xor: no operands"
)

// Error wraps an ErrorKind with additional context.
type Error struct {
	Err         error
	Description string
}

// Error returns the human-readable description.
func (e Error) Error() string { return e.Description }

// Unwrap returns the underlying ErrorKind.
func (e Error) Unwrap() error { return e.Err }

func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

// Combine returns a XOR b, byte by byte. It requires len(a) == len(b) and
// never behaves as a repeating-key stream cipher: mismatched lengths are a
// caller error, not silently truncated or wrapped.
func Combine(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, makeError(ErrLengthMismatch, "xor: operands have different lengths")
	}
	out := make([]byte, len(a))
	subtle.XORBytes(out, a, b)
	return out, nil
}

// Multi XORs together an arbitrary number of equal-length byte slices. It
// requires at least one operand and fails with ErrLengthMismatch if any
// operand's length differs from the first.
func Multi(operands ...[]byte) ([]byte, error) {
	if len(operands) == 0 {
		return nil, makeError(ErrNoOperands, "xor: at least one operand is required")
	}
	n := len(operands[0])
	out := make([]byte, n)
	copy(out, operands[0])
	for _, op := range operands[1:] {
		if len(op) != n {
			return nil, makeError(ErrLengthMismatch, "xor: operands have different lengths")
		}
		subtle.XORBytes(out, out, op)
	}
	return out, nil
}

// PadToBlockSize prepends a 4-byte big-endian length prefix to data, then
// zero-pads the result to the next multiple of blockSize. The operation is
// invertible with UnpadBlockData.
func PadToBlockSize(data []byte, blockSize int) []byte {
	prefixed := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(prefixed[:4], uint32(len(data)))
	copy(prefixed[4:], data)

	padded := len(prefixed)
	if rem := padded % blockSize; rem != 0 {
		padded += blockSize - rem
	}
	out := make([]byte, padded)
	copy(out, prefixed)
	return out
}

// UnpadBlockData reverses PadToBlockSize: it reads the 4-byte big-endian
// length prefix and slices out exactly that many bytes of payload,
// discarding the trailing zero padding.
func UnpadBlockData(padded []byte) ([]byte, error) {
	if len(padded) < 4 {
		return nil, makeError(ErrLengthMismatch, "xor: padded data shorter than length prefix")
	}
	n := binary.BigEndian.Uint32(padded[:4])
	if int(n) > len(padded)-4 {
		return nil, makeError(ErrLengthMismatch, "xor: length prefix exceeds padded buffer")
	}
	out := make([]byte, n)
	copy(out, padded[4:4+n])
	return out, nil
}
