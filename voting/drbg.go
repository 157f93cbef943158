// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package voting

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// drbg is a minimal deterministic byte-stream generator: given a fixed
// seed, it always produces the same sequence of output blocks. It is used
// to turn the HKDF-expanded ECDH seed into the candidate primes and
// Miller-Rabin witnesses voting derivation needs, so that the whole
// pipeline is reproducible from (priv, pub) alone (spec.md §8 property
// 11).
//
// This is deliberately not a NIST SP 800-90A HMAC_DRBG: BrightChain does
// not need a general-purpose CSPRNG abstraction, only a seeded expansion
// function, so a SHA3-512 counter-mode construction (seed || counter)
// keeps the implementation small while remaining cryptographically sound
// as a KDF-style expander.
type drbg struct {
	seed    []byte
	counter uint64
	buf     []byte
}

func newDRBG(seed []byte) *drbg {
	d := &drbg{seed: append([]byte(nil), seed...)}
	return d
}

// next returns the next 64-byte output block.
func (d *drbg) next() []byte {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], d.counter)
	d.counter++

	h := sha3.New512()
	h.Write(d.seed)
	h.Write(ctr[:])
	return h.Sum(nil)
}

// Bytes returns n deterministic pseudo-random bytes.
func (d *drbg) Bytes(n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, d.next()...)
	}
	return out[:n]
}
