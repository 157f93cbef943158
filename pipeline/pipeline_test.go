// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"
	"testing"

	"github.com/EXCCoin/exccd/dcrec/secp256k1/v4"

	"github.com/Digital-Defiance/BrightChain-sub011/blockformat"
	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
)

// memStore is a minimal in-memory BlockStore for exercising the pipeline
// without a real persistence backend.
type memStore struct {
	blocks map[checksum.Checksum][]byte
}

func newMemStore() *memStore {
	return &memStore{blocks: make(map[checksum.Checksum][]byte)}
}

func (s *memStore) Put(id checksum.Checksum, data []byte) error {
	s.blocks[id] = append([]byte(nil), data...)
	return nil
}

func (s *memStore) Get(id checksum.Checksum) ([]byte, error) {
	data, ok := s.blocks[id]
	if !ok {
		return nil, makeError(ErrStoreFailed, "pipeline: no block for requested checksum")
	}
	return data, nil
}

func testCreator(t *testing.T) Creator {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	var id [blockformat.CreatorIDLength]byte
	id[0] = 0x07
	return Creator{ID: id, PubKey: priv.PubKey(), PrivKey: priv}
}

// TestStoreAndRetrieveRoundTrip exercises the full pipeline end to end: a
// plaintext source is encrypted, whitened into tuples, persisted through an
// in-memory store, and assembled into a signed CBL; RetrieveFromCBL must
// recover the exact original bytes.
func TestStoreAndRetrieveRoundTrip(t *testing.T) {
	creator := testCreator(t)
	store := newMemStore()
	cache := NewWhitenerCache(16, 256)

	plaintext := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 20)

	result, err := DataStreamToEncryptedTuplesAndCBL(StoreRequest{
		Creator:      creator,
		BlockSize:    256,
		Source:       bytes.NewReader(plaintext),
		SourceLength: int64(len(plaintext)),
		Whiteners:    cache,
		Randoms:      cache,
		Store:        store,
		TupleSize:    3,
	})
	if err != nil {
		t.Fatalf("DataStreamToEncryptedTuplesAndCBL: %v", err)
	}

	recovered, err := RetrieveFromCBL(RetrieveRequest{
		CBLBytes:   result.CBLBytes,
		CreatorPub: creator.PubKey,
		PrivKey:    creator.PrivKey,
		TupleSize:  3,
		Store:      store,
	})
	if err != nil {
		t.Fatalf("RetrieveFromCBL: %v", err)
	}

	if !bytes.Equal(recovered, plaintext) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(recovered), len(plaintext))
	}
}

// TestRetrieveFromCBLRejectsWrongSigner verifies that RetrieveFromCBL
// refuses to decode a CBL signed by one key when asked to validate against
// a different creator's public key.
func TestRetrieveFromCBLRejectsWrongSigner(t *testing.T) {
	creator := testCreator(t)
	impostor := testCreator(t)
	store := newMemStore()
	cache := NewWhitenerCache(8, 128)

	plaintext := []byte("short secret message")

	result, err := DataStreamToEncryptedTuplesAndCBL(StoreRequest{
		Creator:      creator,
		BlockSize:    128,
		Source:       bytes.NewReader(plaintext),
		SourceLength: int64(len(plaintext)),
		Whiteners:    cache,
		Randoms:      cache,
		Store:        store,
		TupleSize:    2,
	})
	if err != nil {
		t.Fatalf("DataStreamToEncryptedTuplesAndCBL: %v", err)
	}

	_, err = RetrieveFromCBL(RetrieveRequest{
		CBLBytes:   result.CBLBytes,
		CreatorPub: impostor.PubKey,
		PrivKey:    creator.PrivKey,
		TupleSize:  2,
		Store:      store,
	})
	if err == nil {
		t.Fatalf("expected retrieval to fail signature validation against the wrong public key")
	}
}

// TestStoreRequiresCreatorKeypair exercises the ErrCreatorRequired guard.
func TestStoreRequiresCreatorKeypair(t *testing.T) {
	store := newMemStore()
	cache := NewWhitenerCache(4, 128)

	_, err := DataStreamToEncryptedTuplesAndCBL(StoreRequest{
		BlockSize:    128,
		Source:       bytes.NewReader([]byte("data")),
		SourceLength: 4,
		Whiteners:    cache,
		Randoms:      cache,
		Store:        store,
		TupleSize:    2,
	})
	if err == nil {
		t.Fatalf("expected an error when no creator keypair is supplied")
	}
}
