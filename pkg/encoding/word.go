// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package encoding

const (
	OPCODE_SIZE = 4
	FUNCT_SIZE  = 4
	SRC_SIZE    = 2
	DST_SIZE    = 2
)

const (
	// Smallest and largest values a word may be asked to hold. Negative values
	// are stored in two's complement, so the range overlaps on purpose.
	WORD_MIN = -(1 << (WORD_SIZE - 1))
	WORD_MAX = WORD_MASK
)

// A single machine word. Only the low WORD_SIZE bits are significant.
type Word uint16

func (w Word) Bin() string {
	return DecimalToBin(int(w))
}

func (w Word) Hex() string {
	return BinToHex(w.Bin())
}

// Value of the word read as a signed integer.
func (w Word) Signed() int {
	return SignExtend(int(w), WORD_SIZE)
}

func Fits(value int) bool {
	return value >= WORD_MIN && value <= WORD_MAX
}

// OPCODE |FUNCT   |SRC|DST|
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ ]
func EncodeCommand(opcode, funct, src, dst uint) Word {
	var scratch uint

	scratch |= opcode & ((1 << OPCODE_SIZE) - 1)

	scratch <<= FUNCT_SIZE
	scratch |= funct & ((1 << FUNCT_SIZE) - 1)

	scratch <<= SRC_SIZE
	scratch |= src & ((1 << SRC_SIZE) - 1)

	scratch <<= DST_SIZE
	scratch |= dst & ((1 << DST_SIZE) - 1)

	return Word(scratch & WORD_MASK)
}

// Register operands set the single bit whose index matches the register.
func EncodeRegister(reg uint) Word {
	return Word((1 << reg) & WORD_MASK)
}

func EncodeScalar(value int) Word {
	return Word(uint(value) & WORD_MASK)
}

func EncodeChar(c byte) Word {
	return Word(c)
}
