package codec

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

// SequenceName returns the generated name for character index i: the
// lowercase alphabet, then a numbered second pass and onward. Indices
// 0..27 yield "a" .. "z", "a1", "b1".
func SequenceName(i int) string {
	letter := byte('a' + i%26)
	group := i / 26
	if group == 0 {
		return string(letter)
	}
	return fmt.Sprintf("%c%d", letter, group)
}

// randomAppearanceByte draws one of the 11 appearance bytes. Slot 7 only
// ever holds values below 128 in game-written files, and the slots past 9
// stay inside [28,31]; everything else is a free byte.
func randomAppearanceByte(rng *rand.Rand, slot int) byte {
	switch {
	case slot == 7:
		return byte(rng.Intn(128))
	case slot <= 6 || slot == 8 || slot == 9:
		return byte(rng.Intn(256))
	default:
		return byte(28 + rng.Intn(4))
	}
}

// RandomSex draws a uniform sex byte.
func RandomSex(rng *rand.Rand) byte {
	return byte(rng.Intn(2))
}

// RandomSkin draws one of the five valid skin bytes.
func RandomSkin(rng *rand.Rand) byte {
	return SkinValues[rng.Intn(len(SkinValues))]
}

// Generate builds a complete roster buffer: the header template with both
// counts set to n, followed by n characters cloned from template. Each
// character gets fresh random appearance bytes, a random sex and skin, and
// a SequenceName. Every character starts from its own copy of template;
// the caller's header and template slices are never mutated.
//
// A header shorter than HeaderSize or a template shorter than
// MinRecordSize is a programming error, not input, and panics.
func Generate(header, template []byte, n int, rng *rand.Rand) []byte {
	if len(header) < HeaderSize {
		panic(fmt.Sprintf("codec: header template too short: %d bytes", len(header)))
	}
	if len(template) < MinRecordSize {
		panic(fmt.Sprintf("codec: character template too short: %d bytes", len(template)))
	}
	if n < 0 {
		panic(fmt.Sprintf("codec: negative character count %d", n))
	}

	out := make([]byte, 0, len(header)+n*len(template))
	out = append(out, header...)
	_ = SetHeaderCounts(out, uint32(n))

	for i := 0; i < n; i++ {
		ch := make([]byte, len(template))
		copy(ch, template)

		for slot := 0; slot < AppearanceBytes; slot++ {
			ch[offAppearance+slot] = randomAppearanceByte(rng, slot)
		}
		ch[offSex] = RandomSex(rng)
		ch[offSkin] = RandomSkin(rng)

		name := SequenceName(i)
		ch[offNameLength] = byte(len(name))
		copy(ch[offName:offName+len(name)], name)

		out = append(out, ch...)
	}
	return out
}

// NewHeader returns a minimal 12-byte roster header carrying count in both
// copies. The reserved leading word matches what the game writes.
func NewHeader(count uint32) []byte {
	h := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(h, 0x0000000A)
	_ = SetHeaderCounts(h, count)
	return h
}

// NewTemplate returns a minimal valid character template: a one-letter
// name, male, current-nation banner, white skin, everything else zero.
// Used when no template file is configured.
func NewTemplate() []byte {
	t := make([]byte, MinRecordSize)
	t[offNameLength] = 1
	t[offName] = 'x'
	binary.LittleEndian.PutUint32(t[offBanner:], BannerCurrentNation)
	return t
}
