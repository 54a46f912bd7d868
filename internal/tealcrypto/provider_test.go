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

package tealcrypto

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/probelang/tealvm/internal/teal"
)

func TestSha256KnownVector(t *testing.T) {
	got := Default{}.Sha256([]byte("hello"))
	want, _ := hex.DecodeString("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")
	if !bytes.Equal(got, want) {
		t.Fatalf("Sha256(hello) = %x, want %x", got, want)
	}
}

func TestKeccak256DeterministicAndDistinct(t *testing.T) {
	a := Default{}.Keccak256([]byte("foo"))
	b := Default{}.Keccak256([]byte("foo"))
	c := Default{}.Keccak256([]byte("bar"))
	if len(a) != 32 {
		t.Fatalf("Keccak256 output is %d bytes, want 32", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("Keccak256 is not deterministic: %x != %x", a, b)
	}
	if bytes.Equal(a, c) {
		t.Fatalf("Keccak256(foo) and Keccak256(bar) collided")
	}
}

func TestEd25519VerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	msg := []byte("a message worth signing")
	sig := ed25519.Sign(priv, msg)

	ok, err := Default{}.Ed25519Verify(msg, sig, pub)
	if err != nil {
		t.Fatalf("Ed25519Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected a valid signature to verify")
	}

	tampered := append([]byte{}, msg...)
	tampered[0] ^= 0xff
	ok, err = Default{}.Ed25519Verify(tampered, sig, pub)
	if err != nil {
		t.Fatalf("Ed25519Verify: %v", err)
	}
	if ok {
		t.Fatalf("expected a tampered message to fail verification")
	}
}

func TestEd25519VerifyRejectsBadKeySizes(t *testing.T) {
	if _, err := (Default{}).Ed25519Verify(nil, nil, []byte("short")); err == nil {
		t.Fatalf("expected an error for a short public key")
	}
}

func TestEcdsaVerifyRejectsUnsupportedCurve(t *testing.T) {
	_, err := (Default{}).EcdsaVerify(teal.EcdsaSecp256r1, nil, nil, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected secp256r1 to be rejected")
	}
}

func TestVrfAndMimcAreDocumentedStubs(t *testing.T) {
	if _, _, err := (Default{}).VrfVerify(teal.VrfEd25519Sha512Elligator2, nil, nil, nil); err != ErrCryptoNotImplemented {
		t.Fatalf("VrfVerify error = %v, want ErrCryptoNotImplemented", err)
	}
	if _, err := (Default{}).Mimc(teal.MimcBN254Mp110, nil); err != ErrCryptoNotImplemented {
		t.Fatalf("Mimc error = %v, want ErrCryptoNotImplemented", err)
	}
}
