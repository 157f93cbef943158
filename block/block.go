// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block implements BrightChain's uniform block value: a tagged
// enum over the five block variants spec.md §9 calls for dispatching on
// without inheritance — Raw, Encrypted, Whitened, Random, and Structured —
// each carrying the same id/bytes/size surface.
package block

import (
	"github.com/Digital-Defiance/BrightChain-sub011/blockformat"
	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
)

// Kind tags which variant a Block value holds.
type Kind int

// Block variants, per spec.md §3 and §9's tagged-enum design note.
const (
	KindRaw Kind = iota
	KindEncrypted
	KindWhitened
	KindRandom
	KindStructured
)

// Size is the valid block-size class a Block may be allocated at, per
// spec.md §3's BlockSize enum.
type Size int

// Block size classes, per spec.md §3.
const (
	SizeMessage Size = 512
	SizeTiny    Size = 1024
	SizeSmall   Size = 4096
	SizeMedium  Size = 65536
	SizeLarge   Size = 1048576
	SizeHuge    Size = 16777216
)

// ErrorKind identifies a class of block error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

// Error kinds returned by this package.
const (
	ErrInvalidBlockSize ErrorKind = "block: invalid block size"
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

// validSizes enumerates the block sizes this package accepts.
var validSizes = map[Size]bool{
	SizeMessage: true,
	SizeTiny:    true,
	SizeSmall:   true,
	SizeMedium:  true,
	SizeLarge:   true,
	SizeHuge:    true,
}

// ValidateSize reports whether s is one of the declared BlockSize values.
func ValidateSize(s Size) error {
	if !validSizes[s] {
		return makeError(ErrInvalidBlockSize, "block: size is not one of the declared BlockSize values")
	}
	return nil
}

// StructuredMeta carries the sub-type of a KindStructured block, parsed
// from its header via blockformat.DetectBlockFormat.
type StructuredMeta struct {
	Type    blockformat.StructuredType
	Version byte
}

// Block is a uniform-size byte buffer tagged with the variant it plays in
// the pipeline. Two blocks with equal bytes always have equal IDs and are
// interchangeable, per spec.md §3's block invariants.
type Block struct {
	kind       Kind
	data       []byte
	structured StructuredMeta
}

// NewRaw wraps data as a RawDataBlock: arbitrary bytes, no magic prefix.
func NewRaw(data []byte) Block {
	return Block{kind: KindRaw, data: data}
}

// NewEncrypted wraps data (an ECIES envelope, first byte 0x04) as an
// EncryptedBlock.
func NewEncrypted(data []byte) Block {
	return Block{kind: KindEncrypted, data: data}
}

// NewWhitened wraps data as a WhitenedBlock: raw bytes drawn from the
// whitener reuse cache.
func NewWhitened(data []byte) Block {
	return Block{kind: KindWhitened, data: data}
}

// NewRandom wraps data as a RandomBlock: freshly generated raw bytes not
// yet cached as a whitener.
func NewRandom(data []byte) Block {
	return Block{kind: KindRandom, data: data}
}

// NewStructured wraps data (a magic-prefixed header, first byte 0xBC) as a
// StructuredBlock, recording its sub-type.
func NewStructured(data []byte, meta StructuredMeta) Block {
	return Block{kind: KindStructured, data: data, structured: meta}
}

// Kind reports which variant b holds.
func (b Block) Kind() Kind { return b.kind }

// ID returns SHA3-512(bytes): the block's content address.
func (b Block) ID() checksum.Checksum { return checksum.Compute(b.data) }

// Bytes returns the block's raw byte buffer.
func (b Block) Bytes() []byte { return b.data }

// Len returns the length in bytes of the block's buffer.
func (b Block) Len() int { return len(b.data) }

// StructuredMeta returns b's structured sub-type metadata. It is only
// meaningful when b.Kind() == KindStructured.
func (b Block) StructuredMeta() StructuredMeta { return b.structured }

// Equal reports whether a and b have the same bytes (and therefore the
// same id), regardless of the variant tag each was constructed with.
func (b Block) Equal(other Block) bool {
	return b.ID().Equals(other.ID())
}
