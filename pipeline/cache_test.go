// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"
	"testing"
)

func TestWhitenerCachePutIsIdempotent(t *testing.T) {
	c := NewWhitenerCache(4, 16)
	block := bytes.Repeat([]byte{0x42}, 16)

	id1 := c.Put(block)
	id2 := c.Put(block)
	if id1 != id2 {
		t.Fatalf("expected the same checksum for identical content")
	}
	if c.Len() != 1 {
		t.Fatalf("expected one entry after inserting the same block twice, got %d", c.Len())
	}
}

func TestWhitenerCacheEvictsOldestAtCapacity(t *testing.T) {
	c := NewWhitenerCache(2, 16)
	a := bytes.Repeat([]byte{0x01}, 16)
	b := bytes.Repeat([]byte{0x02}, 16)
	d := bytes.Repeat([]byte{0x03}, 16)

	c.Put(a)
	c.Put(b)
	c.Put(d)

	if c.Len() != 2 {
		t.Fatalf("expected cache bounded to 2 entries, got %d", c.Len())
	}
}

func TestWhitenerCacheWithholdsReuseBelowFillTarget(t *testing.T) {
	c := NewWhitenerCache(10, 16)
	c.Put(bytes.Repeat([]byte{0x09}, 16))

	if got := c.NextWhitener(); got != nil {
		t.Fatalf("expected no reuse below the fill target (70%% of 10), got %v", got)
	}
}

func TestWhitenerCacheReusesAboveFillTarget(t *testing.T) {
	c := NewWhitenerCache(10, 16)
	for i := 0; i < 8; i++ {
		c.Put(bytes.Repeat([]byte{byte(i)}, 16))
	}

	got := c.NextWhitener()
	if got == nil {
		t.Fatalf("expected a reused whitener once the cache is above its fill target")
	}
	if len(got) != 16 {
		t.Fatalf("expected a 16-byte whitener, got %d bytes", len(got))
	}
}

func TestWhitenerCacheNextRandomIsBlockSized(t *testing.T) {
	c := NewWhitenerCache(4, 32)
	r, err := c.NextRandom()
	if err != nil {
		t.Fatalf("NextRandom: %v", err)
	}
	if len(r) != 32 {
		t.Fatalf("expected a 32-byte random block, got %d", len(r))
	}
}
