package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Roster file layout, little-endian throughout:
//
//	[0,4)   reserved (0x0000000a in every observed file)
//	[4,8)   character count, copy A
//	[8,12)  character count, copy B
//	[12,..) character records, back to back
//
// A well-formed file has both count copies equal. The two copies are only
// ever rewritten together; a disagreement is treated as recoverable
// corruption, resolved by taking the larger value for reads.
const (
	HeaderSize = 12

	offCountA = 4
	offCountB = 8
)

// Character record layout, offsets relative to the record start. The name
// occupies a sub-span of an 85-byte fixed tail starting 4 bytes in, so the
// record size never drops below MinRecordSize no matter how short the name.
const (
	MinRecordSize = 89

	offNameLength = 0
	offName       = 4
	offSex        = 5
	offBanner     = 9
	offSkin       = 14
	offAge        = 15
	offHairstyle  = 17
	offHairColor  = 18
	offAppearance = 21

	nameRegion = 85

	// AppearanceBytes is the length of the legacy random-appearance payload.
	AppearanceBytes = 11
)

// BannerCurrentNation is the banner sentinel meaning "use the current
// nation's banner" rather than a fixed one.
const BannerCurrentNation uint32 = 0xFFFFFFFF

var (
	// ErrTooShort means the buffer cannot even hold the 12-byte header.
	ErrTooShort = errors.New("codec: buffer too short for roster header")

	// ErrNoSelector means Delete was called with neither index nor name.
	ErrNoSelector = errors.New("codec: no index or name selector given")

	// ErrIndexRange means the requested character index does not exist.
	ErrIndexRange = errors.New("codec: character index out of range")

	// ErrNameNotFound means no character carries the requested name.
	ErrNameNotFound = errors.New("codec: character name not found")

	// ErrLastRecord guards against emptying the roster: the game does not
	// load a profiles file with zero characters.
	ErrLastRecord = errors.New("codec: cannot delete the last remaining character")

	// ErrImplausibleCount means the header declares more records than the
	// buffer could possibly hold.
	ErrImplausibleCount = errors.New("codec: header count implausible for buffer size")
)

// SkinValues are the five byte values the game writes for skin tone.
// Anything else in the skin slot is corruption.
var SkinValues = [...]byte{0x00, 0x10, 0x20, 0x30, 0x40}

var skinNames = map[byte]string{
	0x00: "White",
	0x10: "Light",
	0x20: "Tan",
	0x30: "Dark",
	0x40: "Black",
}

// SexName maps the sex byte to its display string. Any non-zero value is
// shown as Female, matching the game's own tolerance.
func SexName(b byte) string {
	if b == 1 {
		return "Female"
	}
	return "Male"
}

// SkinName maps the skin byte to its display name. Unknown values are
// reported explicitly, carrying the raw byte, rather than guessed at.
func SkinName(b byte) (name string, known bool) {
	if n, ok := skinNames[b]; ok {
		return n, true
	}
	return fmt.Sprintf("Unknown (%d)", b), false
}

// Record is a decoded view of one character record within a roster buffer.
type Record struct {
	Index  int
	Offset int // byte offset of the record within the buffer
	Size   int // total byte span of the record

	Name       string
	Sex        byte
	SexName    string
	Banner     uint32
	BannerName string // "Current Nation" or the 8-hex-digit banner value
	Skin       byte
	SkinName   string
	SkinKnown  bool
	Age        uint16
	Hairstyle  byte
	HairColor  byte
}

// Roster is the parsed view of a whole roster buffer.
type Roster struct {
	CountA  uint32
	CountB  uint32
	Records []Record

	// CountMismatch is set when the two header count copies disagree.
	// The larger value drives the walk.
	CountMismatch bool

	// Truncated is set when the record walk ran past the end of the
	// buffer before reaching the declared count.
	Truncated bool
}

// Count returns the record count the header declares, resolving a copy
// mismatch by taking the larger value.
func (r *Roster) Count() uint32 {
	if r.CountA >= r.CountB {
		return r.CountA
	}
	return r.CountB
}

// HeaderCounts decodes the two redundant record-count fields.
func HeaderCounts(buf []byte) (countA, countB uint32, err error) {
	if len(buf) < HeaderSize {
		return 0, 0, fmt.Errorf("%w: %d bytes", ErrTooShort, len(buf))
	}
	countA = binary.LittleEndian.Uint32(buf[offCountA:])
	countB = binary.LittleEndian.Uint32(buf[offCountB:])
	return countA, countB, nil
}

// SetHeaderCounts writes count into both header copies. The copies are
// never written independently.
func SetHeaderCounts(buf []byte, count uint32) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrTooShort, len(buf))
	}
	binary.LittleEndian.PutUint32(buf[offCountA:], count)
	binary.LittleEndian.PutUint32(buf[offCountB:], count)
	return nil
}

// recordSize computes a record's byte span from its name length. The name
// sits inside the fixed 85-byte tail, so the span works out constant, but
// it is still derived per record: offsets cannot be computed as
// header + i*size if the format ever grows a true variable region.
func recordSize(nameLength int) int {
	size := offName + nameLength + (nameRegion - nameLength)
	if size < MinRecordSize {
		size = MinRecordSize
	}
	return size
}

// CheckBuffer rejects buffers that cannot be a roster at all: too short
// for a header, or declaring more records than the buffer could hold at
// the minimum record size. Used to validate untrusted input before any
// mutation is attempted; Parse itself stays tolerant.
func CheckBuffer(buf []byte) error {
	countA, countB, err := HeaderCounts(buf)
	if err != nil {
		return err
	}
	count := uint64(countA)
	if uint64(countB) > count {
		count = uint64(countB)
	}
	if HeaderSize+count*MinRecordSize > uint64(len(buf)) {
		return fmt.Errorf("%w: %d records in %d bytes", ErrImplausibleCount, count, len(buf))
	}
	return nil
}

// Parse walks every record in buf. It fails only when the buffer cannot
// hold a header; malformed record data degrades to a short or flagged
// result instead of an error, so a corrupt file can still be inspected
// and repaired.
func Parse(buf []byte) (*Roster, error) {
	countA, countB, err := HeaderCounts(buf)
	if err != nil {
		return nil, err
	}

	ros := &Roster{CountA: countA, CountB: countB}
	if countA != countB {
		ros.CountMismatch = true
	}

	count := ros.Count()
	pos := HeaderSize
	for i := uint32(0); i < count; i++ {
		if pos >= len(buf) {
			ros.Truncated = true
			break
		}
		rec := parseRecord(buf, pos, int(i))
		ros.Records = append(ros.Records, rec)
		pos += rec.Size
	}
	return ros, nil
}

// parseRecord decodes the record starting at pos. All reads are bounds
// guarded and fall back to zero values, in case the walk has drifted into
// a truncated tail.
func parseRecord(buf []byte, pos, index int) Record {
	nameLength := int(byteAt(buf, pos+offNameLength))

	rec := Record{
		Index:     index,
		Offset:    pos,
		Size:      recordSize(nameLength),
		Sex:       byteAt(buf, pos+offSex),
		Banner:    u32At(buf, pos+offBanner),
		Skin:      byteAt(buf, pos+offSkin),
		Age:       u16At(buf, pos+offAge),
		Hairstyle: byteAt(buf, pos+offHairstyle),
		HairColor: byteAt(buf, pos+offHairColor),
	}
	rec.Name = nameAt(buf, pos+offName, nameLength)
	rec.SexName = SexName(rec.Sex)
	rec.SkinName, rec.SkinKnown = SkinName(rec.Skin)
	if rec.Banner == BannerCurrentNation {
		rec.BannerName = "Current Nation"
	} else {
		rec.BannerName = fmt.Sprintf("%08X", rec.Banner)
	}
	return rec
}

func byteAt(buf []byte, off int) byte {
	if off < 0 || off >= len(buf) {
		return 0
	}
	return buf[off]
}

func u16At(buf []byte, off int) uint16 {
	if off < 0 || off+2 > len(buf) {
		return 0
	}
	return binary.LittleEndian.Uint16(buf[off:])
}

func u32At(buf []byte, off int) uint32 {
	if off < 0 || off+4 > len(buf) {
		return 0
	}
	return binary.LittleEndian.Uint32(buf[off:])
}

// nameAt decodes a name span: invalid UTF-8 is dropped and trailing NULs
// are trimmed, since the tail region keeps whatever bytes a longer former
// name left behind.
func nameAt(buf []byte, off, length int) string {
	if off < 0 || off >= len(buf) || length <= 0 {
		return ""
	}
	end := off + length
	if end > len(buf) {
		end = len(buf)
	}
	s := strings.ToValidUTF8(string(buf[off:end]), "")
	return strings.TrimRight(s, "\x00")
}
