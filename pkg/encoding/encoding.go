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

import (
	"errors"
	"strconv"
	"strings"
)

const (
	WORD_SIZE = 12
	WORD_MASK = (1 << WORD_SIZE) - 1

	// Four bits per hexadecimal digit
	NIBBLE_SIZE = 4
)

const hexDigits = "0123456789ABCDEF"

// Encodes num as a WORD_SIZE binary string, most significant bit first.
// Negative values are written in two's complement and values wider than a
// word are truncated to their low bits.
func DecimalToBin(num int) string {
	var builder strings.Builder
	builder.Grow(WORD_SIZE)

	bits := uint(num) & WORD_MASK

	for i := WORD_SIZE - 1; i >= 0; i-- {
		if (bits>>uint(i))&0x1 == 1 {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}

	return builder.String()
}

// Decodes a binary string as an unsigned integer. Characters other than '1'
// count as zero bits.
func BinToDecimal(bin string) int {
	result := 0

	for i := 0; i < len(bin); i++ {
		result <<= 1

		if bin[i] == '1' {
			result |= 0x1
		}
	}

	return result
}

// Converts a binary string to hexadecimal, one digit per nibble. The length
// of bin must be a multiple of NIBBLE_SIZE; any remainder is ignored.
func BinToHex(bin string) string {
	size := len(bin) / NIBBLE_SIZE

	var builder strings.Builder
	builder.Grow(size)

	for i := 0; i < size; i++ {
		chunk := bin[i*NIBBLE_SIZE : (i+1)*NIBBLE_SIZE]
		builder.WriteByte(hexDigits[BinToDecimal(chunk)])
	}

	return builder.String()
}

// Decodes a hexadecimal string in the formats: FFF, fff
func HexToDecimal(s string) (int, error) {
	if s == "" {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 16, WORD_SIZE)

	if err != nil {
		return 0, err
	}

	return int(result), nil
}

// Interprets the low bitcount bits of value as a two's complement integer.
func SignExtend(value int, bitcount uint) int {
	value &= (1 << bitcount) - 1

	if (value>>(bitcount-1))&0x1 == 1 {
		value -= 1 << bitcount
	}

	return value
}
