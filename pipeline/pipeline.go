// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"io"
	"time"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"
	"github.com/decred/slog"

	"github.com/Digital-Defiance/BrightChain-sub011/blockformat"
	"github.com/Digital-Defiance/BrightChain-sub011/cbl"
	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
	"github.com/Digital-Defiance/BrightChain-sub011/ecies"
	"github.com/Digital-Defiance/BrightChain-sub011/tuple"
	"github.com/Digital-Defiance/BrightChain-sub011/xor"
)

// log is the package-level logger. It defaults to slog.Disabled and is
// wired to a real backend by the embedding application via UseLogger,
// following the same pattern as the member package.
var log = slog.Disabled

// UseLogger sets the package-level logger used by the pipeline.
func UseLogger(logger slog.Logger) {
	log = logger
}

// ErrorKind identifies a class of pipeline error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

// Error kinds returned by this package.
const (
	ErrCreatorRequired  ErrorKind = "pipeline: creator identity is required"
	ErrStoreFailed      ErrorKind = "pipeline: block store operation failed"
	ErrOperationTimeout ErrorKind = "pipeline: operation timed out"
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

// BlockStore is the persistence collaborator the pipeline consumes, per
// spec.md §6: content-addressed, idempotent put, content-verified get.
type BlockStore interface {
	Put(id checksum.Checksum, data []byte) error
	Get(id checksum.Checksum) ([]byte, error)
}

// WhitenerSource draws a reusable cached whitener block, or nil when none
// is available and a fresh random block should be generated instead.
type WhitenerSource interface {
	NextWhitener() []byte
}

// cachePopulator is implemented by whitener sources that want freshly
// generated random blocks fed back into their reuse pool, e.g.
// WhitenerCache. It is checked via type assertion rather than folded
// into WhitenerSource so a caller's own test doubles need not implement
// it.
type cachePopulator interface {
	Put(block []byte) checksum.Checksum
}

// RandomSource generates a fresh random block.
type RandomSource interface {
	NextRandom() ([]byte, error)
}

// Creator bundles the identity information the pipeline needs to encrypt
// and sign on a caller's behalf, without depending on the member package
// (which itself depends on pipeline's sibling packages, not on pipeline).
type Creator struct {
	ID      [blockformat.CreatorIDLength]byte
	PubKey  *secp256k1.PublicKey
	PrivKey *secp256k1.PrivateKey
}

// StoreRequest bundles the inputs to DataStreamToEncryptedTuplesAndCBL.
type StoreRequest struct {
	Creator          Creator
	BlockSize        int
	Source           io.Reader
	SourceLength     int64
	Whiteners        WhitenerSource
	Randoms          RandomSource
	Store            BlockStore
	TupleSize        byte
	RandomsPerTuple  int
	Extension        *cbl.Extension
}

// StoreResult is the outcome of a successful store run: the assembled CBL
// block's bytes (header + address list) and its content checksum.
type StoreResult struct {
	CBLBytes    []byte
	CBLChecksum checksum.Checksum
}

// DataStreamToEncryptedTuplesAndCBL implements spec.md §4.7: it ECIES-
// encrypts source in block-sized strides, whitens each encrypted block
// into a TupleSize-ary tuple, persists every tuple member through Store,
// and assembles the signed CBL enumerating the run.
func DataStreamToEncryptedTuplesAndCBL(req StoreRequest) (*StoreResult, error) {
	if req.Creator.PrivKey == nil || req.Creator.PubKey == nil {
		return nil, makeError(ErrCreatorRequired, "pipeline: creator keypair is required to encrypt and sign")
	}
	tupleSize := req.TupleSize
	if tupleSize == 0 {
		tupleSize = tuple.DefaultSize
	}
	randomsPerTuple := req.RandomsPerTuple

	// Reserve 4 bytes of the block for padToBlockSize's length prefix so a
	// full-size envelope pads out to exactly req.BlockSize, not the next
	// multiple beyond it.
	stride := ecies.CapacityPerBlock(req.BlockSize) - 4
	if stride <= 0 {
		return nil, makeError(ErrStoreFailed, "pipeline: block size too small for single-recipient ECIES overhead")
	}

	var addressBuffer []byte
	buf := make([]byte, stride)

	for {
		n, readErr := io.ReadFull(req.Source, buf)
		if n > 0 {
			envelope, err := ecies.EncryptSingle(req.Creator.PubKey, buf[:n])
			if err != nil {
				return nil, err
			}
			encrypted := padToBlockSize(envelope, req.BlockSize)

			t, err := buildWhitenedTuple(encrypted, int(tupleSize), randomsPerTuple, req.Whiteners, req.Randoms)
			if err != nil {
				return nil, err
			}

			for _, member := range t.Blocks() {
				id := checksum.Compute(member)
				if err := req.Store.Put(id, member); err != nil {
					return nil, makeError(ErrStoreFailed, "pipeline: persisting tuple member failed: "+err.Error())
				}
			}
			addressBuffer = append(addressBuffer, t.BlockIDsBuffer()...)

			log.Debugf("pipeline: persisted tuple of %d blocks", t.Size())
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
	}

	addressCount := uint32(len(addressBuffer) / checksum.Size)
	if addressCount == 0 {
		return nil, makeError(ErrStoreFailed, "pipeline: source produced no tuples")
	}
	if rem := addressCount % uint32(tupleSize); rem != 0 {
		pad := uint32(tupleSize) - rem
		addressBuffer = append(addressBuffer, make([]byte, pad*checksum.Size)...)
		addressCount += pad
	}

	originalChecksum := checksum.Compute(addressBuffer)

	built, err := cbl.MakeCBLHeader(cbl.BuildRequest{
		CreatorID:        req.Creator.ID,
		CreatorPrivKey:   req.Creator.PrivKey,
		DateCreated:      time.Now(),
		AddressCount:     addressCount,
		TupleSize:        tupleSize,
		OriginalLength:   uint64(req.SourceLength),
		OriginalChecksum: originalChecksum,
		Addresses:        addressBuffer,
		Extended:         req.Extension,
	})
	if err != nil {
		return nil, err
	}

	cblBlock := make([]byte, 0, len(built.HeaderData)+len(addressBuffer))
	cblBlock = append(cblBlock, built.HeaderData...)
	cblBlock = append(cblBlock, addressBuffer...)

	return &StoreResult{
		CBLBytes:    cblBlock,
		CBLChecksum: checksum.Compute(cblBlock),
	}, nil
}

// buildWhitenedTuple draws (tupleSize-1) whiteners (randomsPerTuple fresh,
// the rest reused from the cache) for encrypted block e, XORs them
// together into W, replaces e with e XOR W, and returns the assembled
// tuple (e', whiteners...) per spec.md §4.7 step 2.
func buildWhitenedTuple(e []byte, tupleSize, randomsPerTuple int, whiteners WhitenerSource, randoms RandomSource) (*tuple.InMemoryBlockTuple, error) {
	need := tupleSize - 1
	members := make([][]byte, 0, need)
	populator, _ := whiteners.(cachePopulator)

	for i := 0; i < need; i++ {
		if i < randomsPerTuple {
			r, err := randoms.NextRandom()
			if err != nil {
				return nil, err
			}
			members = append(members, r)
			if populator != nil {
				populator.Put(r)
			}
			continue
		}
		if cached := whiteners.NextWhitener(); cached != nil {
			members = append(members, cached)
			continue
		}
		r, err := randoms.NextRandom()
		if err != nil {
			return nil, err
		}
		members = append(members, r)
		if populator != nil {
			populator.Put(r)
		}
	}

	combined, err := xor.Multi(members...)
	if err != nil {
		return nil, err
	}
	source, err := xor.Combine(e, combined)
	if err != nil {
		return nil, err
	}

	all := append([][]byte{source}, members...)
	return tuple.New(all)
}

// padToBlockSize pads an ECIES envelope with the length-prefixing scheme
// from xor.PadToBlockSize/UnpadBlockData so every encrypted tuple member
// is exactly blockSize bytes, satisfying the tuple invariant that every
// member shares one size.
func padToBlockSize(envelope []byte, blockSize int) []byte {
	return xor.PadToBlockSize(envelope, blockSize)
}
