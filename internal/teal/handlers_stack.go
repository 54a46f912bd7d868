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
	register(OpSpec{Opcode: 0x48, Name: "pop", Cost: 1, Size: 1, Modes: modeBoth, Handler: func(ctx *EvalContext) error {
		if _, err := ctx.Pop(); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}})
	register(OpSpec{Opcode: 0x49, Name: "dup", Cost: 1, Size: 1, Modes: modeBoth, Handler: func(ctx *EvalContext) error {
		v, err := ctx.Peek()
		if err != nil {
			return err
		}
		if err := ctx.Push(v); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}})
	register(OpSpec{Opcode: 0x4a, Name: "dup2", Cost: 1, Size: 1, MinVersion: 2, Modes: modeBoth, Handler: func(ctx *EvalContext) error {
		vals, err := ctx.PopN(2)
		if err != nil {
			return err
		}
		for _, v := range vals {
			if err := ctx.Push(v); err != nil {
				return err
			}
		}
		for _, v := range vals {
			if err := ctx.Push(v); err != nil {
				return err
			}
		}
		ctx.PC++
		return nil
	}})
	register(OpSpec{Opcode: 0x4b, Name: "dig", Size: 2, MinVersion: 3, Modes: modeBoth, Handler: opDig})
	register(OpSpec{Opcode: 0x4c, Name: "swap", Cost: 1, Size: 1, MinVersion: 3, Modes: modeBoth, Handler: func(ctx *EvalContext) error {
		vals, err := ctx.PopN(2)
		if err != nil {
			return err
		}
		if err := ctx.Push(vals[1]); err != nil {
			return err
		}
		if err := ctx.Push(vals[0]); err != nil {
			return err
		}
		ctx.PC++
		return nil
	}})
	register(OpSpec{Opcode: 0x4d, Name: "select", Cost: 1, Size: 1, MinVersion: 3, Modes: modeBoth, Handler: opSelect})
	register(OpSpec{Opcode: 0x4e, Name: "cover", Size: 2, MinVersion: 5, Modes: modeBoth, Handler: opCover})
	register(OpSpec{Opcode: 0x4f, Name: "uncover", Size: 2, MinVersion: 5, Modes: modeBoth, Handler: opUncover})
	register(OpSpec{Opcode: 0xc2, Name: "dupn", Size: 2, MinVersion: 8, Modes: modeBoth, Handler: opDupN})
	register(OpSpec{Opcode: 0xc3, Name: "popn", Size: 2, MinVersion: 8, Modes: modeBoth, Handler: opPopN})
	register(OpSpec{Opcode: 0xc4, Name: "bury", Size: 2, MinVersion: 8, Modes: modeBoth, Handler: opBury})
}

func opDig(ctx *EvalContext) error {
	depth := int(ctx.Program[ctx.PC+1])
	v, err := ctx.PeekAt(depth)
	if err != nil {
		return err
	}
	if err := ctx.Push(v); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

// opBury pops the top of the stack and overwrites the value depth positions
// below the new top with it, a direct replace rather than a shift.
func opBury(ctx *EvalContext) error {
	depth := int(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	idx := len(ctx.stack) - 1 - depth
	if idx < 0 {
		return &StackUnderflowError{Required: depth + 1, Have: len(ctx.stack)}
	}
	ctx.stack[idx] = v
	ctx.PC += 2
	return nil
}

func opCover(ctx *EvalContext) error {
	depth := int(ctx.Program[ctx.PC+1])
	v, err := ctx.Pop()
	if err != nil {
		return err
	}
	if err := ctx.InsertAt(depth, v); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opUncover(ctx *EvalContext) error {
	depth := int(ctx.Program[ctx.PC+1])
	v, err := ctx.RemoveAt(depth)
	if err != nil {
		return err
	}
	if err := ctx.Push(v); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}

func opSelect(ctx *EvalContext) error {
	vals, err := ctx.PopN(3)
	if err != nil {
		return err
	}
	cond, err := vals[2].AsUint64()
	if err != nil {
		return err
	}
	result := vals[1]
	if cond != 0 {
		result = vals[0]
	}
	if err := ctx.Push(result); err != nil {
		return err
	}
	ctx.PC++
	return nil
}

func opDupN(ctx *EvalContext) error {
	n := int(ctx.Program[ctx.PC+1])
	v, err := ctx.Peek()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := ctx.Push(v); err != nil {
			return err
		}
	}
	ctx.PC += 2
	return nil
}

func opPopN(ctx *EvalContext) error {
	n := int(ctx.Program[ctx.PC+1])
	if _, err := ctx.PopN(n); err != nil {
		return err
	}
	ctx.PC += 2
	return nil
}
