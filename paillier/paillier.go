// Copyright (c) 2024 The BrightChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package paillier implements the base Paillier homomorphic cryptosystem
// on top of math/big. No example repository in this exercise's corpus
// ships a Paillier implementation (isolated/tagged or otherwise), so the
// modular-arithmetic core here is necessarily hand-rolled rather than
// grounded on a third-party library — see DESIGN.md. The isolation layer
// required by spec.md §4.3 (IsolatedPublicKey/IsolatedPrivateKey) lives in
// isolated.go, built on top of this file's plain keypair.
package paillier

import (
	"crypto/rand"
	"math/big"
)

// ErrorKind identifies a class of Paillier error.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (k ErrorKind) Error() string { return string(k) }

const (
	// ErrIdenticalPrimes is returned when p == q during key construction.
	ErrIdenticalPrimes ErrorKind = "paillier: identical primes"
	// ErrModularInverseDoesNotExist is returned when mu = lambda^-1 mod n
	// cannot be computed.
	ErrModularInverseDoesNotExist ErrorKind = "paillier: modular inverse does not exist"
	// ErrMessageTooLarge is returned when a plaintext is not in [0, n).
	ErrMessageTooLarge ErrorKind = "paillier: message out of range"
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

// PublicKey is a base (non-isolated) Paillier public key: modulus n and
// generator g = n+1.
type PublicKey struct {
	N        *big.Int
	G        *big.Int
	NSquared *big.Int
}

// PrivateKey is a base Paillier private key bound to a PublicKey by value.
//
// Storing the public key by value (rather than a pointer exchanged back
// and forth between public/private instances) sidesteps the cyclic
// back-reference the original implementation had between its public and
// private key types, per spec.md §9's design note: the public key is
// immutable, so copying it costs nothing and removes the cycle entirely.
type PrivateKey struct {
	Lambda *big.Int
	Mu     *big.Int
	Public PublicKey
}

var (
	bigOne = big.NewInt(1)
)

// NewKeyPair constructs a base Paillier keypair from two distinct primes p
// and q, following the standard construction: n = p*q, g = n+1,
// lambda = lcm(p-1, q-1), mu = lambda^-1 mod n.
func NewKeyPair(p, q *big.Int) (*PublicKey, *PrivateKey, error) {
	if p.Cmp(q) == 0 {
		return nil, nil, makeError(ErrIdenticalPrimes, "paillier: p and q must be distinct")
	}

	n := new(big.Int).Mul(p, q)
	nSquared := new(big.Int).Mul(n, n)
	g := new(big.Int).Add(n, bigOne)

	pMinus1 := new(big.Int).Sub(p, bigOne)
	qMinus1 := new(big.Int).Sub(q, bigOne)
	gcd := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
	lambda := new(big.Int).Div(new(big.Int).Mul(pMinus1, qMinus1), gcd)

	mu := new(big.Int).ModInverse(lambda, n)
	if mu == nil {
		return nil, nil, makeError(ErrModularInverseDoesNotExist, "paillier: lambda has no inverse mod n")
	}

	pub := &PublicKey{N: n, G: g, NSquared: nSquared}
	priv := &PrivateKey{Lambda: lambda, Mu: mu, Public: *pub}
	return pub, priv, nil
}

// Encrypt returns a random encryption of m under pub. It uses the
// g = n+1 optimization: g^m mod n^2 == 1 + m*n mod n^2, avoiding a full
// modular exponentiation for the generator term.
func Encrypt(pub *PublicKey, m *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(pub.N) >= 0 {
		return nil, makeError(ErrMessageTooLarge, "paillier: message must satisfy 0 <= m < n")
	}

	r, err := randomCoprime(pub.N)
	if err != nil {
		return nil, err
	}

	gm := new(big.Int).Mul(m, pub.N)
	gm.Add(gm, bigOne)
	gm.Mod(gm, pub.NSquared)

	rn := new(big.Int).Exp(r, pub.N, pub.NSquared)

	c := new(big.Int).Mul(gm, rn)
	c.Mod(c, pub.NSquared)
	return c, nil
}

// Decrypt recovers the plaintext integer encrypted as c.
func Decrypt(priv *PrivateKey, c *big.Int) *big.Int {
	u := new(big.Int).Exp(c, priv.Lambda, priv.Public.NSquared)
	l := lFunction(u, priv.Public.N)
	m := new(big.Int).Mul(l, priv.Mu)
	m.Mod(m, priv.Public.N)
	return m
}

// Add homomorphically adds two ciphertexts: Decrypt(Add(Enc(a), Enc(b)))
// == a + b mod n.
func Add(pub *PublicKey, a, b *big.Int) *big.Int {
	c := new(big.Int).Mul(a, b)
	c.Mod(c, pub.NSquared)
	return c
}

// Multiply homomorphically scales a ciphertext by a plaintext scalar k:
// Decrypt(Multiply(Enc(m), k)) == m*k mod n.
func Multiply(pub *PublicKey, c *big.Int, k *big.Int) *big.Int {
	result := new(big.Int).Exp(c, k, pub.NSquared)
	return result
}

// lFunction computes L(x) = (x-1)/n, the standard Paillier decryption
// helper.
func lFunction(x, n *big.Int) *big.Int {
	l := new(big.Int).Sub(x, bigOne)
	l.Div(l, n)
	return l
}

// randomCoprime draws a uniform random value in [1, n) that is coprime
// with n, retrying on the (astronomically unlikely for RSA-sized n)
// event of a shared factor.
func randomCoprime(n *big.Int) (*big.Int, error) {
	for {
		r, err := rand.Int(rand.Reader, n)
		if err != nil {
			return nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		gcd := new(big.Int).GCD(nil, nil, r, n)
		if gcd.Cmp(bigOne) == 0 {
			return r, nil
		}
	}
}
