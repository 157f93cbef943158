// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
)

// fileBlockStore is a BlockStore backed by a flat directory, one file per
// block named by its checksum's hex digest. It exists so brightctl's
// store and retrieve subcommands can be run as two separate invocations
// against the same on-disk blocks, unlike the pipeline tests' in-memory
// store.
type fileBlockStore struct {
	dir string
}

func newFileBlockStore(dir string) (*fileBlockStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &fileBlockStore{dir: dir}, nil
}

func (s *fileBlockStore) path(id checksum.Checksum) string {
	return filepath.Join(s.dir, id.ToHex())
}

// Put writes data under id's checksum filename. It is idempotent: writing
// the same id twice just rewrites identical bytes.
func (s *fileBlockStore) Put(id checksum.Checksum, data []byte) error {
	return os.WriteFile(s.path(id), data, 0o644)
}

// Get reads the block stored under id, failing if its content no longer
// hashes to id.
func (s *fileBlockStore) Get(id checksum.Checksum) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, err
	}
	if checksum.Compute(data) != id {
		return nil, fmt.Errorf("brightctl: block %s failed content verification", id)
	}
	return data, nil
}
