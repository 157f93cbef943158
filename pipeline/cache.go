// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pipeline implements BrightChain's streaming store/retrieve
// transform: ECIES-encrypting a source in block-sized chunks, whitening
// each encrypted block into a tuple, persisting tuples through a
// BlockStore, and assembling the signed CBL that ties the run together,
// per spec.md §4.7.
package pipeline

import (
	"crypto/rand"
	"sync"

	"github.com/Digital-Defiance/BrightChain-sub011/checksum"
)

// CacheFillRatio is OFFS_CACHE_PERCENTAGE from spec.md §4.7 and §5: until
// the whitener cache holds this fraction of its maxEntries blocks,
// NextWhitener returns nil and callers generate fresh randoms; once it
// holds at least that many, cached blocks are reused.
const CacheFillRatio = 0.7

// WhitenerCache is the process-wide whitener reuse cache spec.md §5
// names but does not fully specify: a map from checksum to block bytes,
// guarded by a single mutex shared by readers and the one writer path
// (Put). NextWhitener and Len hold it only while reading or rotating the
// entry order and copying the cached bytes, never across any
// cryptographic work.
type WhitenerCache struct {
	mu         sync.Mutex
	blocks     map[checksum.Checksum][]byte
	order      []checksum.Checksum
	maxEntries int
	blockSize  int
}

// NewWhitenerCache constructs an empty cache bounded to maxEntries blocks
// of blockSize bytes each.
func NewWhitenerCache(maxEntries, blockSize int) *WhitenerCache {
	return &WhitenerCache{
		blocks:     make(map[checksum.Checksum][]byte, maxEntries),
		maxEntries: maxEntries,
		blockSize:  blockSize,
	}
}

// fillTarget is the number of entries the cache must hold before reuse is
// preferred over fresh generation.
func (c *WhitenerCache) fillTarget() int {
	return int(float64(c.maxEntries) * CacheFillRatio)
}

// Len reports the current number of cached whitener blocks. Reads of the
// underlying map still take the lock here for safety against concurrent
// Put, but hold it only for the duration of the length check — there is
// no per-read cryptographic work to make that costly.
func (c *WhitenerCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Put inserts block under its own checksum, evicting the entry at the
// front of the order (the least recently inserted or drawn) first if the
// cache is already at capacity. Insertion is idempotent: a
// block already present by checksum is not duplicated.
func (c *WhitenerCache) Put(block []byte) checksum.Checksum {
	id := checksum.Compute(block)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.blocks[id]; exists {
		return id
	}
	if len(c.order) >= c.maxEntries && c.maxEntries > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.blocks, oldest)
	}
	stored := append([]byte(nil), block...)
	c.blocks[id] = stored
	c.order = append(c.order, id)
	return id
}

// NextWhitener implements the WhitenerSource collaborator: it returns a
// cached block to reuse when the cache is at or above its fill target,
// or nil when the caller should fall back to a freshly generated random
// block instead.
func (c *WhitenerCache) NextWhitener() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) < c.fillTarget() || len(c.order) == 0 {
		return nil
	}
	// Round-robin through the cached set by always drawing the entry at
	// the front of the order and rotating it to the back, so reuse
	// is spread across the whole cache rather than hammering one entry.
	id := c.order[0]
	c.order = append(c.order[1:], id)
	return append([]byte(nil), c.blocks[id]...)
}

// NextRandom implements the RandomSource collaborator: a freshly generated
// block of blockSize random bytes.
func (c *WhitenerCache) NextRandom() ([]byte, error) {
	buf := make([]byte, c.blockSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
