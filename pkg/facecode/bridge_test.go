package facecode

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// fixtureRecord is a record captured from a real profiles.dat, the same
// capture the chunk mapping in ExtractFaceCode was verified against. The
// face-data span starts at byte 14.
func fixtureRecord(t *testing.T) []byte {
	t.Helper()
	raw, err := hex.DecodeString(
		"0100000061010000" +
			"00ffffffff003000ee0f000000" +
			"08e267b599536236bae81f00000000")
	if err != nil {
		t.Fatal(err)
	}
	// Pad out to a full record span.
	rec := make([]byte, 89)
	copy(rec, raw)
	return rec
}

const fixtureCode = "0000000fee00300036625399b567e20800000000001fe8ba0000000000000000"

func TestExtractFaceCode(t *testing.T) {
	code, err := ExtractFaceCode(fixtureRecord(t))
	if err != nil {
		t.Fatalf("ExtractFaceCode: %v", err)
	}
	if code != fixtureCode {
		t.Errorf("code = %q\nwant %q", code, fixtureCode)
	}
	if !Validate(code) {
		t.Error("extracted code fails validation")
	}
}

func TestExtractFaceCodeShortRecord(t *testing.T) {
	if _, err := ExtractFaceCode(make([]byte, 45)); err == nil {
		t.Error("short record accepted")
	}
}

func TestApplyFaceCode(t *testing.T) {
	rec := fixtureRecord(t)
	before := make([]byte, len(rec))
	copy(before, rec)

	out, err := ApplyFaceCode(rec, "0x"+fixtureCode)
	if err != nil {
		t.Fatalf("ApplyFaceCode: %v", err)
	}
	if !bytes.Equal(rec, before) {
		t.Error("input record was mutated")
	}

	// Applying a record's own code back must be a fixed point: the known
	// chunks are rewritten to the same values and the rest pass through.
	if !bytes.Equal(out, rec) {
		t.Errorf("self-apply changed the record:\n got %x\nwant %x", out, rec)
	}
}

func TestApplyFaceCodeKnownBytes(t *testing.T) {
	// Apply the fixture code to a blank record and check the bytes whose
	// correspondence is known.
	rec := make([]byte, 89)
	out, err := ApplyFaceCode(rec, fixtureCode)
	if err != nil {
		t.Fatalf("ApplyFaceCode: %v", err)
	}

	fb := out[14:46]
	if fb[3] != 0x0f || fb[2] != 0xee || fb[0] != 0x30 {
		t.Errorf("leading chunk bytes = %02x %02x %02x, want 0f ee 30", fb[3], fb[2], fb[0])
	}
	if fb[17] != 0x1f || fb[16] != 0xe8 || fb[15] != 0xba {
		t.Errorf("trailing chunk bytes = %02x %02x %02x, want 1f e8 ba", fb[17], fb[16], fb[15])
	}

	// The bytes behind the unresolved chunks keep the input's values.
	for i := 7; i <= 14; i++ {
		if fb[i] != 0 {
			t.Errorf("unresolved byte fb[%d] = %02x, want input value 0", i, fb[i])
		}
	}
}

func TestApplyFaceCodePreservesHighNibble(t *testing.T) {
	// Extraction only encodes the low nibble of the byte behind chunk 0;
	// the high nibble has no hex correspondence and must survive a write.
	rec := fixtureRecord(t)
	rec[17] = 0xAB

	code, err := ExtractFaceCode(rec)
	if err != nil {
		t.Fatalf("ExtractFaceCode: %v", err)
	}
	if code[7] != 'b' {
		t.Fatalf("chunk 0 nibble = %c, want b", code[7])
	}

	out, err := ApplyFaceCode(rec, code)
	if err != nil {
		t.Fatalf("ApplyFaceCode: %v", err)
	}
	if out[17] != 0xAB {
		t.Errorf("byte 17 = %#02x after self-apply, want 0xab", out[17])
	}
	if !bytes.Equal(out, rec) {
		t.Errorf("self-apply changed the record:\n got %x\nwant %x", out, rec)
	}
}

func TestApplyFaceCodeErrors(t *testing.T) {
	rec := fixtureRecord(t)
	if _, err := ApplyFaceCode(rec, "nope"); err != ErrInvalidFormat {
		t.Errorf("invalid code err = %v, want ErrInvalidFormat", err)
	}
	if _, err := ApplyFaceCode(make([]byte, 20), fixtureCode); err == nil {
		t.Error("short record accepted")
	}
}

func TestApplyComponents(t *testing.T) {
	rec := make([]byte, 89)
	before := make([]byte, len(rec))
	copy(before, rec)

	out, err := ApplyComponents(rec, Components{
		Hair:      5,
		Skin:      0x20,
		HairColor: 7,
		Age:       25,
	})
	if err != nil {
		t.Fatalf("ApplyComponents: %v", err)
	}
	if !bytes.Equal(rec, before) {
		t.Error("input record was mutated")
	}

	if out[13] != 5 {
		t.Errorf("hair byte = %d, want 5", out[13])
	}
	if out[14] != 0x20 {
		t.Errorf("skin byte = %#02x, want 0x20", out[14])
	}
	// age 25 = 0b11001: low 2 bits packed above hair color, high bits in
	// the next byte.
	if out[16] != 0x47 {
		t.Errorf("hair color/age byte = %#02x, want 0x47", out[16])
	}
	if out[17] != 0x06 {
		t.Errorf("age high byte = %#02x, want 0x06", out[17])
	}
}

func TestApplyComponentsShortRecord(t *testing.T) {
	if _, err := ApplyComponents(make([]byte, 10), Components{}); err == nil {
		t.Error("short record accepted")
	}
}
