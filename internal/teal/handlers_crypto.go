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

func init() {
	register(OpSpec{Opcode: 0x01, Name: "sha256", Cost: 35, Size: 1, Modes: modeBoth, Handler: hashOp(func(p CryptoProvider, b []byte) []byte { return p.Sha256(b) })})
	register(OpSpec{Opcode: 0x02, Name: "keccak256", Cost: 130, Size: 1, Modes: modeBoth, Handler: hashOp(func(p CryptoProvider, b []byte) []byte { return p.Keccak256(b) })})
	register(OpSpec{Opcode: 0x03, Name: "sha512_256", Cost: 45, Size: 1, Modes: modeBoth, Handler: hashOp(func(p CryptoProvider, b []byte) []byte { return p.Sha512_256(b) })})
	register(OpSpec{Opcode: 0x04, Name: "ed25519verify", Cost: 1900, Size: 1, Modes: ModeSignature, Handler: opEd25519Verify})
	register(OpSpec{Opcode: 0x84, Name: "ed25519verify_bare", Cost: 1900, Size: 1, MinVersion: 7, Modes: modeBoth, Handler: opEd25519VerifyBare})
	register(OpSpec{Opcode: 0x96, Name: "sha3_256", Cost: 130, Size: 1, MinVersion: 7, Modes: modeBoth, Handler: hashOp(func(p CryptoProvider, b []byte) []byte { return p.Sha3_256(b) })})
	register(OpSpec{Opcode: 0x95, Name: "ecdsa_verify", Size: 2, MinVersion: 5, Modes: modeBoth, Handler: opEcdsaVerify})
	register(OpSpec{Opcode: 0x97, Name: "ecdsa_pk_decompress", Size: 2, MinVersion: 5, Modes: modeBoth, Handler: opEcdsaPkDecompress})
	register(OpSpec{Opcode: 0x98, Name: "ecdsa_pk_recover", Size: 2, MinVersion: 5, Modes: modeBoth, Handler: opEcdsaPkRecover})
	register(OpSpec{Opcode: 0xd0, Name: "vrf_verify", Size: 2, MinVersion: 7, Modes: modeBoth, Handler: opVrfVerify})
	register(OpSpec{Opcode: 0xd1, Name: "mimc", Size: 2, MinVersion: 9, Modes: modeBoth, Handler: opMimc})
}

func hashOp(fn func(p CryptoProvider, b []byte) []byte) Handler {
	return func(ctx *EvalContext) error {
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		b, err := v.AsBytes()
		if err != nil {
			return err
		}
		if err := ctx.Push(BytesValue(fn(ctx.Crypto, b))); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}
}

func opEd25519Verify(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	data, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	sig, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	pk, err := vals[2].AsBytes()
	if err != nil {
		return err
	}
	ok, err := ctx.Crypto.Ed25519Verify(data, sig, pk)
	if err != nil {
		return &CryptoError{Err: err}
	}
	r := uint64(0)
	if ok {
		r = 1
	}
	if err := ctx.Push(Uint64Value(r)); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opEd25519VerifyBare(ctx *EvalContext) error {
	return opEd25519Verify(ctx)
}

func opEcdsaVerify(ctx *EvalContext) error {
	curve := EcdsaCurve(ctx.Program[ctx.PC+1])
	vals, err := ctx.PopN(5)
	if err != nil {
		return err
	}
	msgHash, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	r, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	s, err := vals[2].AsBytes()
	if err != nil {
		return err
	}
	pkX, err := vals[3].AsBytes()
	if err != nil {
		return err
	}
	pkY, err := vals[4].AsBytes()
	if err != nil {
		return err
	}
	ok, err := ctx.Crypto.EcdsaVerify(curve, msgHash, r, s, pkX, pkY)
	if err != nil {
		return &CryptoError{Err: err}
	}
	res := uint64(0)
	if ok {
		res = 1
	}
	if err := ctx.Push(Uint64Value(res)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opEcdsaPkDecompress(ctx *EvalContext) error {
	curve := EcdsaCurve(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	compressed, err := v.AsBytes()
	if err != nil {
		return err
	}
	x, y, err := ctx.Crypto.EcdsaPkDecompress(curve, compressed)
	if err != nil {
		return &CryptoError{Err: err}
	}
	if err := ctx.Push(BytesValue(x)); err != nil {
		return err
	}
	if err := ctx.Push(BytesValue(y)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opEcdsaPkRecover(ctx *EvalContext) error {
	curve := EcdsaCurve(ctx.Program[ctx.PC+1])
	vals, err := ctx.PopN(4)
	if err != nil {
		return err
	}
	msgHash, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	recID, err := vals[1].AsUint64()
	if err != nil {
		return err
	}
	r, err := vals[2].AsBytes()
	if err != nil {
		return err
	}
	s, err := vals[3].AsBytes()
	if err != nil {
		return err
	}
	x, y, err := ctx.Crypto.EcdsaPkRecover(curve, msgHash, byte(recID), r, s)
	if err != nil {
		return &CryptoError{Err: err}
	}
	if err := ctx.Push(BytesValue(x)); err != nil {
		return err
	}
	if err := ctx.Push(BytesValue(y)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opVrfVerify(ctx *EvalContext) error {
	variant := VrfVariant(ctx.Program[ctx.PC+1])
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	data, err := vals[0].AsBytes()
	if err != nil {
		return err
	}
	proof, err := vals[1].AsBytes()
	if err != nil {
		return err
	}
	pk, err := vals[2].AsBytes()
	if err != nil {
		return err
	}
	out, ok, err := ctx.Crypto.VrfVerify(variant, pk, proof, data)
	if err != nil {
		return &CryptoError{Err: err}
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	okVal := uint64(0)
	if ok {
		okVal = 1
	}
	if err := ctx.Push(Uint64Value(okVal)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opMimc(ctx *EvalContext) error {
	config := MimcConfig(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	msg, err := v.AsBytes()
	if err != nil {
		return err
	}
	out, err := ctx.Crypto.Mimc(config, msg)
	if err != nil {
		return &CryptoError{Err: err}
	}
	if err := ctx.Push(BytesValue(out)); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}
