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

package teal

// CryptoProvider is the host-supplied surface for every opcode that needs a
// hash or signature primitive. The engine never embeds a concrete
// implementation; internal/tealcrypto supplies the default one built on the
// standard library and golang.org/x/crypto.
type CryptoProvider interface {
	Sha256(data []byte) []byte
	Sha512_256(data []byte) []byte
	Keccak256(data []byte) []byte
	Sha3_256(data []byte) []byte

	Ed25519Verify(data, sig, pubKey []byte) (bool, error)

	// EcdsaVerify checks an ECDSA signature (r, s) over messageHash against
	// pubKeyX/pubKeyY on the given curve.
	EcdsaVerify(curve EcdsaCurve, messageHash, r, s, pubKeyX, pubKeyY []byte) (bool, error)
	// EcdsaPkDecompress expands a compressed public key into (x, y).
	EcdsaPkDecompress(curve EcdsaCurve, compressed []byte) (x, y []byte, err error)
	// EcdsaPkRecover recovers the public key (x, y) from a signature and
	// recovery id.
	EcdsaPkRecover(curve EcdsaCurve, messageHash []byte, recoveryID byte, r, s []byte) (x, y []byte, err error)

	// VrfVerify and Mimc are intentionally unimplemented by the default
	// provider; see internal/tealcrypto for the documented stub and
	// DESIGN.md for why no pack dependency backs them.
	VrfVerify(variant VrfVariant, pubKey, proof, message []byte) (output []byte, verified bool, err error)
	Mimc(config MimcConfig, message []byte) ([]byte, error)
}

// EcdsaCurve selects the curve used by the ecdsa_* opcode family.
type EcdsaCurve uint8

const (
	EcdsaSecp256k1 EcdsaCurve = iota
	EcdsaSecp256r1
)

// VrfVariant selects a VRF construction for vrf_verify.
type VrfVariant uint8

const (
	VrfEd25519Sha512Elligator2 VrfVariant = iota
)

// MimcConfig selects a MiMC permutation variant and curve for the mimc
// opcode.
type MimcConfig uint8

const (
	MimcBN254Mp110 MimcConfig = iota
	MimcBLS12381Mp110
)
