// Package facecode converts between the game's 64-hex-character face
// codes and their decoded appearance fields, and maps face codes onto the
// appearance bytes embedded in roster records.
package facecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// A face code is 64 hex characters (256 bits), read as four consecutive
// 64-bit blocks:
//
//	block 0: seven 6-bit scalars from bit 0 up: hair, beard, skin,
//	         hair texture, hair color, age, skin color
//	block 1: morphs 0..20, 3 bits each at offset i*3
//	block 2: morphs 21..41, 3 bits each at offset (i-21)*3, plus
//	         morph 42 as the single bit 63
//	block 3: reserved, zero
const (
	CodeLength = 64

	// MorphCount is the number of morph sliders. Morphs 0..41 hold 3-bit
	// values; morph 42 is a single bit.
	MorphCount = 43
)

// ErrInvalidFormat means the string is not 64 hex characters after an
// optional 0x prefix.
var ErrInvalidFormat = errors.New("facecode: not a 64-character hex code")

// Components is the decoded view of a face code. Scalars are 6-bit
// values; out-of-range inputs are masked on encode, never rejected.
type Components struct {
	Hair        uint8 `json:"hair"`
	Beard       uint8 `json:"beard"`
	Skin        uint8 `json:"skin"`
	HairTexture uint8 `json:"hair_texture"`
	HairColor   uint8 `json:"hair_color"`
	Age         uint8 `json:"age"`
	SkinColor   uint8 `json:"skin_color"`

	Morphs [MorphCount]uint8 `json:"morphs"`
}

func strip(code string) string {
	return strings.TrimPrefix(code, "0x")
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Validate reports whether code is a well-formed face code.
func Validate(code string) bool {
	s := strip(code)
	return len(s) == CodeLength && isHex(s)
}

// Format normalizes a code to lowercase, with or without the 0x prefix.
func Format(code string, includePrefix bool) string {
	s := strings.ToLower(strip(code))
	if includePrefix {
		return "0x" + s
	}
	return s
}

// Decode parses a face code into its components.
func Decode(code string) (Components, error) {
	s := strip(code)
	if len(s) != CodeLength {
		return Components{}, fmt.Errorf("%w: got %d characters", ErrInvalidFormat, len(s))
	}

	var blocks [4]uint64
	for i := range blocks {
		v, err := strconv.ParseUint(s[i*16:(i+1)*16], 16, 64)
		if err != nil {
			return Components{}, ErrInvalidFormat
		}
		blocks[i] = v
	}

	c := Components{
		Hair:        uint8(blocks[0] & 0x3F),
		Beard:       uint8((blocks[0] >> 6) & 0x3F),
		Skin:        uint8((blocks[0] >> 12) & 0x3F),
		HairTexture: uint8((blocks[0] >> 18) & 0x3F),
		HairColor:   uint8((blocks[0] >> 24) & 0x3F),
		Age:         uint8((blocks[0] >> 30) & 0x3F),
		SkinColor:   uint8((blocks[0] >> 36) & 0x3F),
	}

	for i := 0; i < 21; i++ {
		c.Morphs[i] = uint8((blocks[1] >> (i * 3)) & 0x7)
	}
	for i := 21; i < 42; i++ {
		c.Morphs[i] = uint8((blocks[2] >> ((i - 21) * 3)) & 0x7)
	}
	c.Morphs[42] = uint8((blocks[2] >> 63) & 0x1)

	// block 3 is reserved and ignored.
	return c, nil
}

// Encode packs components into a face code. Every field is masked to its
// bit width first, so out-of-range values wrap instead of erroring.
func Encode(c Components) string {
	var block0 uint64
	block0 |= uint64(c.Hair & 0x3F)
	block0 |= uint64(c.Beard&0x3F) << 6
	block0 |= uint64(c.Skin&0x3F) << 12
	block0 |= uint64(c.HairTexture&0x3F) << 18
	block0 |= uint64(c.HairColor&0x3F) << 24
	block0 |= uint64(c.Age&0x3F) << 30
	block0 |= uint64(c.SkinColor&0x3F) << 36

	var block1 uint64
	for i := 0; i < 21; i++ {
		block1 |= uint64(c.Morphs[i]&0x7) << (i * 3)
	}

	var block2 uint64
	for i := 21; i < 42; i++ {
		block2 |= uint64(c.Morphs[i]&0x7) << ((i - 21) * 3)
	}
	block2 |= uint64(c.Morphs[42]&0x1) << 63

	return fmt.Sprintf("0x%016x%016x%016x%016x", block0, block1, block2, uint64(0))
}

// Mask returns a copy of c with every field reduced to its bit width.
// Decode(Encode(c)) == Mask(c) for all c.
func Mask(c Components) Components {
	c.Hair &= 0x3F
	c.Beard &= 0x3F
	c.Skin &= 0x3F
	c.HairTexture &= 0x3F
	c.HairColor &= 0x3F
	c.Age &= 0x3F
	c.SkinColor &= 0x3F
	for i := 0; i < 42; i++ {
		c.Morphs[i] &= 0x7
	}
	c.Morphs[42] &= 0x1
	return c
}

// MorphsFromSlice fills a morph array from a slice of arbitrary length:
// short input is zero-padded, long input truncated to MorphCount.
func MorphsFromSlice(values []uint8) [MorphCount]uint8 {
	var m [MorphCount]uint8
	copy(m[:], values)
	return m
}
