package engine

import (
	"fmt"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// RecordSlots is the number of int32 slots per packed match record.
const RecordSlots = 3

// Terminator is the first slot of the record that ends a packed stream.
const Terminator int32 = -1

// Arena is a fixed-capacity buffer of packed match records laid out as
// [start, length, gap] triples followed by a terminator record.
// The caller owns the arena and may reuse it across searches; an Arena
// must not be filled by two searches at once.
type Arena struct {
	slots   []int32
	records int
}

// NewArena allocates room for the given number of records plus the terminator.
func NewArena(records int) (*Arena, error) {
	if records < 1 || records > MaxArenaRecords {
		return nil, fmt.Errorf("arena of %d records: %w", records, domain.ErrAllocationFailure)
	}

	a := &Arena{
		slots:   make([]int32, (records+1)*RecordSlots),
		records: records,
	}
	a.Reset()
	return a, nil
}

// Capacity returns the number of records the arena can hold.
func (a *Arena) Capacity() int {
	return a.records
}

// Slots exposes the raw record stream.
func (a *Arena) Slots() []int32 {
	return a.slots
}

// Reset marks the arena empty.
func (a *Arena) Reset() {
	a.slots[0] = Terminator
}

// Records decodes the arena up to the terminator.
func (a *Arena) Records() []domain.Match {
	return Unpack(a.slots, a.records)
}

// Fill runs q and packs the matches into a, followed by the terminator.
// The effective cap is the smaller of the arena capacity and MaxMatches().
// On error the arena is left empty.
func (e *Engine) Fill(a *Arena, q domain.Query) (int, bool, error) {
	if a == nil {
		return 0, false, fmt.Errorf("nil arena: %w", domain.ErrAllocationFailure)
	}
	a.Reset()

	if err := Validate(q); err != nil {
		return 0, false, err
	}

	limit := min(a.records, e.maxMatches)
	n, truncated := e.scan(q, limit, func(i int, m domain.Match) {
		off := i * RecordSlots
		a.slots[off] = int32(m.Start)
		a.slots[off+1] = int32(m.Length)
		a.slots[off+2] = int32(m.Gap)
	})
	a.slots[n*RecordSlots] = Terminator

	return n, truncated, nil
}

// Unpack reads packed records until the terminator, limit records, or the
// end of slots, whichever comes first. A trailing partial record is ignored.
func Unpack(slots []int32, limit int) []domain.Match {
	var matches []domain.Match

	for i := 0; i+RecordSlots <= len(slots) && len(matches) < limit; i += RecordSlots {
		if slots[i] == Terminator {
			break
		}
		matches = append(matches, domain.Match{
			Start:  int(slots[i]),
			Length: int(slots[i+1]),
			Gap:    int(slots[i+2]),
		})
	}

	return matches
}
