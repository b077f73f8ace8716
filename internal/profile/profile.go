package profile

import (
	"fmt"

	"github.com/specialistvlad/tilegrid/internal/interval"
)

// Entry is one supported job size: read DataLength seconds, produce output
// valid over Valid (relative to the first second read).
type Entry struct {
	DataLength int64
	Valid      interval.Interval
}

// DataLoss is the amount of read data that cannot be declared valid.
func (e Entry) DataLoss() int64 {
	return e.DataLength - e.Valid.Duration()
}

// DataSpan is the read window relative to its own start.
func (e Entry) DataSpan() interval.Interval {
	return interval.Interval{Start: 0, End: e.DataLength}
}

func (e Entry) String() string {
	return fmt.Sprintf("data=%d valid=%s", e.DataLength, e.Valid)
}

// Padding widens a job's data window toward the science segment edges when
// the kind can consume extra data without changing its valid output.
type Padding struct {
	Start int64
	End   int64
}

// Extend grows data by the padding on each side, never past seg.
func (p Padding) Extend(data, seg interval.Interval) interval.Interval {
	return interval.Interval{
		Start: max(seg.Start, data.Start-p.Start),
		End:   min(seg.End, data.End+p.End),
	}
}

// Profile is the full sizing description for one job kind.
type Profile struct {
	Kind    string
	Entries []Entry
	// Padding is nil when the kind does not extend its data windows.
	Padding *Padding
}

// Single builds a one-entry profile. Mostly useful in tests and for kinds
// with a fixed size.
func Single(kind string, dataLength, validStart, validEnd int64) Profile {
	return Profile{
		Kind:    kind,
		Entries: []Entry{{DataLength: dataLength, Valid: interval.Interval{Start: validStart, End: validEnd}}},
	}
}
