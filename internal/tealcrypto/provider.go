// Copyright 2024 The TealVM Authors
// This file is part of TealVM.
//
// TealVM is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TealVM is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with TealVM. If not, see <http://www.gnu.org/licenses/>.

// Package tealcrypto is the default teal.CryptoProvider: every hash and
// signature primitive an opcode can call is backed by a real library from
// the surrounding ecosystem, never a hand-rolled implementation.
package tealcrypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"golang.org/x/crypto/sha3"

	"github.com/probelang/tealvm/internal/teal"
)

// ErrCryptoNotImplemented is returned by VrfVerify and Mimc: no dependency
// available to this build implements ECVRF-ED25519-SHA512-Elligator2 or the
// MiMC permutation, and fabricating a bespoke implementation of either is
// out of scope. See DESIGN.md for the reasoning.
var ErrCryptoNotImplemented = errors.New("tealcrypto: not implemented in this build")

// Default is the stdlib/golang.org/x/crypto/btcsuite-backed CryptoProvider
// wired into the CLI and the in-memory ledger's test harness.
type Default struct{}

var _ teal.CryptoProvider = Default{}

func (Default) Sha256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

func (Default) Sha512_256(data []byte) []byte {
	h := sha512.Sum512_256(data)
	return h[:]
}

func (Default) Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

func (Default) Sha3_256(data []byte) []byte {
	h := sha3.Sum256(data)
	return h[:]
}

func (Default) Ed25519Verify(data, sig, pubKey []byte) (bool, error) {
	if len(pubKey) != ed25519.PublicKeySize {
		return false, errors.New("tealcrypto: ed25519 public key must be 32 bytes")
	}
	if len(sig) != ed25519.SignatureSize {
		return false, errors.New("tealcrypto: ed25519 signature must be 64 bytes")
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), data, sig), nil
}

// EcdsaVerify checks an ECDSA signature over secp256k1; secp256r1 support
// is left for a future provider since this build's only elliptic-curve
// dependency (btcsuite/btcd's bundled btcec) speaks secp256k1 only.
func (Default) EcdsaVerify(curve teal.EcdsaCurve, messageHash, r, s, pubKeyX, pubKeyY []byte) (bool, error) {
	if curve != teal.EcdsaSecp256k1 {
		return false, errors.New("tealcrypto: only secp256k1 is supported")
	}
	pubKey := btcec.PublicKey{
		Curve: btcec.S256(),
		X:     new(big.Int).SetBytes(pubKeyX),
		Y:     new(big.Int).SetBytes(pubKeyY),
	}
	sig := btcec.Signature{
		R: new(big.Int).SetBytes(r),
		S: new(big.Int).SetBytes(s),
	}
	return sig.Verify(messageHash, &pubKey), nil
}

func (Default) EcdsaPkDecompress(curve teal.EcdsaCurve, compressed []byte) (x, y []byte, err error) {
	if curve != teal.EcdsaSecp256k1 {
		return nil, nil, errors.New("tealcrypto: only secp256k1 is supported")
	}
	pubKey, err := btcec.ParsePubKey(compressed, btcec.S256())
	if err != nil {
		return nil, nil, err
	}
	return pubKey.X.Bytes(), pubKey.Y.Bytes(), nil
}

func (Default) EcdsaPkRecover(curve teal.EcdsaCurve, messageHash []byte, recoveryID byte, r, s []byte) (x, y []byte, err error) {
	if curve != teal.EcdsaSecp256k1 {
		return nil, nil, errors.New("tealcrypto: only secp256k1 is supported")
	}
	sigBytes := make([]byte, 65)
	sigBytes[0] = recoveryID + 27
	copy(sigBytes[1:33], leftPad32(r))
	copy(sigBytes[33:65], leftPad32(s))
	pubKey, _, err := btcec.RecoverCompact(btcec.S256(), sigBytes, messageHash)
	if err != nil {
		return nil, nil, err
	}
	return pubKey.X.Bytes(), pubKey.Y.Bytes(), nil
}

func (Default) VrfVerify(teal.VrfVariant, []byte, []byte, []byte) ([]byte, bool, error) {
	return nil, false, ErrCryptoNotImplemented
}

func (Default) Mimc(teal.MimcConfig, []byte) ([]byte, error) {
	return nil, ErrCryptoNotImplemented
}

func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
