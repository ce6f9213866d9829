package facecode

import (
	"fmt"
	"strconv"
)

// The game stores a record's face data in the 32 bytes starting at the
// skin offset (record-relative [14,46)). The mapping between those bytes
// and the face code the game displays is a byte-position rearrangement,
// not the bit packing in facecode.go. It was recovered by comparing known
// face codes against file contents and is only partially understood.
const (
	faceDataOffset = 14
	faceDataLength = 32

	// Offsets used by ApplyComponents. These come from the face-code
	// analysis and disagree with the roster listing offsets for
	// hairstyle (17 there); the discrepancy is inherited from the
	// reverse engineering notes and kept as found.
	applyHairOffset    = 13
	applySkinOffset    = 14
	applyAgeHairOffset = 16 // pair: bytes 16 and 17
)

// ApplyCoversMorphRegion reports whether ApplyFaceCode can rewrite the
// record bytes behind hex chunks 2-3. The byte correspondence for that
// region has not been worked out, so those bytes pass through unchanged.
const ApplyCoversMorphRegion = false

// ExtractFaceCode rearranges a record's 32 face-data bytes into the
// 64-character face code the game displays (no 0x prefix). The record
// must reach past the face-data span.
func ExtractFaceCode(record []byte) (string, error) {
	if len(record) < faceDataOffset+faceDataLength {
		return "", fmt.Errorf("facecode: record too short for face data: %d bytes", len(record))
	}
	fb := record[faceDataOffset : faceDataOffset+faceDataLength]

	// Eight 8-hex-character chunks. Verified against the game: file bytes
	// 30 00 ee 0f 00 00 00 08 e2 67 b5 99 53 62 36 ba e8 1f .. display as
	// 0000000f ee003000 36625399 b567e208 00000000 001fe8ba 00000000 00000000.
	code := fmt.Sprintf("0000000%1x", fb[3]&0x0F) +
		fmt.Sprintf("%02x00%02x00", fb[2], fb[0]) +
		fmt.Sprintf("%02x%02x%02x%02x", fb[14], fb[13], fb[12], fb[11]) +
		fmt.Sprintf("%02x%02x%02x%02x", fb[10], fb[9], fb[8], fb[7]) +
		"00000000" +
		fmt.Sprintf("00%02x%02x%02x", fb[17], fb[16], fb[15]) +
		"00000000" +
		"00000000"
	return code, nil
}

// ApplyFaceCode writes a face code back into a copy of record and returns
// it. Only the chunks whose byte correspondence is known round-trip:
// chunk 0 (one nibble), chunk 1 (two bytes) and chunk 5 (three bytes).
// The bytes behind chunks 2-3 are preserved from the input record rather
// than derived; see ApplyCoversMorphRegion.
func ApplyFaceCode(record []byte, code string) ([]byte, error) {
	if !Validate(code) {
		return nil, ErrInvalidFormat
	}
	if len(record) < faceDataOffset+faceDataLength {
		return nil, fmt.Errorf("facecode: record too short for face data: %d bytes", len(record))
	}
	hex := Format(code, false)

	out := make([]byte, len(record))
	copy(out, record)
	fb := out[faceDataOffset : faceDataOffset+faceDataLength]

	// chunk 0 "0000000X": the nibble at hex[7]. Only the low nibble has a
	// hex correspondence; the high nibble passes through like the bytes
	// behind chunks 2-3.
	fb[3] = (fb[3] & 0xF0) | (hexByte(hex[6:8]) & 0x0F)
	// chunk 1 "AA00BB00": bytes 2 and 0.
	fb[2] = hexByte(hex[8:10])
	fb[0] = hexByte(hex[12:14])
	// chunks 2-3 (hex [16,32)) correspond to fb[7..14] in some order not
	// yet verified for writing; fb keeps the original bytes there.
	// chunk 5 "00CCBBAA": bytes 17, 16, 15.
	fb[17] = hexByte(hex[42:44])
	fb[16] = hexByte(hex[44:46])
	fb[15] = hexByte(hex[46:48])

	return out, nil
}

// ApplyComponents writes decoded scalar fields into a copy of record at
// their analyzed offsets: hairstyle and skin verbatim, age and hair color
// bit-packed across bytes 16-17 (hair color in the low 6 bits of 16, the
// age's low 2 bits above it, the age's high 4 bits in 17).
//
// Morph values are never written back: the record-side packing for them
// was never recovered, and guessing it would corrupt saves.
func ApplyComponents(record []byte, c Components) ([]byte, error) {
	if len(record) < applyAgeHairOffset+2 {
		return nil, fmt.Errorf("facecode: record too short for components: %d bytes", len(record))
	}

	out := make([]byte, len(record))
	copy(out, record)

	out[applyHairOffset] = c.Hair
	out[applySkinOffset] = c.Skin
	out[applyAgeHairOffset] = (c.HairColor & 0x3F) | ((c.Age & 0x3) << 6)
	out[applyAgeHairOffset+1] = (c.Age >> 2) & 0x0F

	return out, nil
}

// hexByte parses two hex characters; the caller has already validated the
// code, so failures cannot happen and collapse to zero.
func hexByte(s string) byte {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return byte(v)
}
