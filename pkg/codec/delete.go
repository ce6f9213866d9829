package codec

import "fmt"

// Selector picks one character record, by index or by name. When both are
// set the index wins.
type Selector struct {
	Index *int
	Name  string
}

// Index returns a Selector for a zero-based record index.
func Index(i int) Selector {
	return Selector{Index: &i}
}

// Name returns a Selector for a character name.
func Name(name string) Selector {
	return Selector{Name: name}
}

// Delete splices the selected record's byte span out of buf and returns a
// new buffer with both header counts decremented in lock-step. The input
// buffer is never mutated.
//
// It fails with ErrNoSelector, ErrLastRecord, ErrIndexRange or
// ErrNameNotFound; all of these leave the caller's buffer untouched.
func Delete(buf []byte, sel Selector) ([]byte, error) {
	if sel.Index == nil && sel.Name == "" {
		return nil, ErrNoSelector
	}

	ros, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	if ros.Count() <= 1 {
		return nil, ErrLastRecord
	}

	var target *Record
	if sel.Index != nil {
		i := *sel.Index
		if i < 0 || i >= len(ros.Records) {
			return nil, fmt.Errorf("%w: %d", ErrIndexRange, i)
		}
		target = &ros.Records[i]
	} else {
		for i := range ros.Records {
			if ros.Records[i].Name == sel.Name {
				target = &ros.Records[i]
				break
			}
		}
		if target == nil {
			return nil, fmt.Errorf("%w: %q", ErrNameNotFound, sel.Name)
		}
	}

	end := target.Offset + target.Size
	if end > len(buf) {
		end = len(buf)
	}

	out := make([]byte, 0, len(buf)-(end-target.Offset))
	out = append(out, buf[:target.Offset]...)
	out = append(out, buf[end:]...)

	if err := SetHeaderCounts(out, ros.Count()-1); err != nil {
		return nil, err
	}
	return out, nil
}
