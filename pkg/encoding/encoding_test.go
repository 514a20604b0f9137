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

package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lassandro/asm12/pkg/encoding"
)

func TestDecimalToBin(t *testing.T) {
	tests := []struct {
		Name   string
		Input  int
		Output string
	}{
		{"Zero", 0, "000000000000"},
		{"One", 1, "000000000001"},
		{"Max", 4095, "111111111111"},
		{"Negative One", -1, "111111111111"},
		{"Negative Three", -3, "111111111101"},
		{"Min", -2048, "100000000000"},
		{"Truncated", 4096 + 5, "000000000101"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			require.Equal(t, test.Output, encoding.DecimalToBin(test.Input))
		})
	}
}

func TestBinRoundTrip(t *testing.T) {
	for value := 0; value <= encoding.WORD_MASK; value++ {
		bin := encoding.DecimalToBin(value)
		require.Len(t, bin, encoding.WORD_SIZE)
		require.Equal(t, value, encoding.BinToDecimal(bin))

		hex := encoding.BinToHex(bin)
		require.Len(t, hex, encoding.WORD_SIZE/encoding.NIBBLE_SIZE)

		decoded, err := encoding.HexToDecimal(hex)
		require.NoError(t, err)
		require.Equal(t, encoding.BinToDecimal(bin), decoded)
	}
}

func TestBinToHex(t *testing.T) {
	require.Equal(t, "000", encoding.BinToHex("000000000000"))
	require.Equal(t, "FFF", encoding.BinToHex("111111111111"))
	require.Equal(t, "A5C", encoding.BinToHex("101001011100"))
	require.Equal(t, "F", encoding.BinToHex("11110"))
}

func TestHexToDecimal(t *testing.T) {
	value, err := encoding.HexToDecimal("fff")
	require.NoError(t, err)
	require.Equal(t, 4095, value)

	_, err = encoding.HexToDecimal("")
	require.Error(t, err)

	_, err = encoding.HexToDecimal("1000")
	require.Error(t, err)

	_, err = encoding.HexToDecimal("xyz")
	require.Error(t, err)
}

func TestSignExtend(t *testing.T) {
	require.Equal(t, -1, encoding.SignExtend(0xFFF, encoding.WORD_SIZE))
	require.Equal(t, -2048, encoding.SignExtend(0x800, encoding.WORD_SIZE))
	require.Equal(t, 2047, encoding.SignExtend(0x7FF, encoding.WORD_SIZE))
	require.Equal(t, 5, encoding.SignExtend(5, encoding.WORD_SIZE))
}

// OPCODE |FUNCT   |SRC|DST|
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		Name   string
		Opcode uint
		Funct  uint
		Src    uint
		Dst    uint
		Output encoding.Word
	}{
		{"mov imm reg", 0, 0, 0, 3, 0b0000_0000_00_11},
		{"add dir reg", 2, 10, 1, 3, 0b0010_1010_01_11},
		{"jmp rel", 9, 10, 0, 2, 0b1001_1010_00_10},
		{"stop", 15, 0, 0, 0, 0b1111_0000_00_00},
		{"Overflowing fields", 0x1F, 0x1F, 0x7, 0x7, 0b1111_1111_11_11},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			word := encoding.EncodeCommand(
				test.Opcode, test.Funct, test.Src, test.Dst,
			)
			require.Equal(t, test.Output, word)
		})
	}

	require.Equal(t, "F00", encoding.EncodeCommand(15, 0, 0, 0).Hex())
	require.Equal(t, "111100000000", encoding.EncodeCommand(15, 0, 0, 0).Bin())
}

func TestEncodeOperands(t *testing.T) {
	require.Equal(t, "000000000001", encoding.EncodeRegister(0).Bin())
	require.Equal(t, "000010000000", encoding.EncodeRegister(7).Bin())

	require.Equal(t, "FFD", encoding.EncodeScalar(-3).Hex())
	require.Equal(t, -3, encoding.EncodeScalar(-3).Signed())
	require.Equal(t, "007", encoding.EncodeScalar(7).Hex())

	require.Equal(t, "061", encoding.EncodeChar('a').Hex())
	require.Equal(t, "000", encoding.EncodeChar(0).Hex())

	require.True(t, encoding.Fits(-2048))
	require.True(t, encoding.Fits(4095))
	require.False(t, encoding.Fits(-2049))
	require.False(t, encoding.Fits(4096))
}
