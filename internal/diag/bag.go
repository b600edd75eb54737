package diag

import (
	"math"
	"sort"

	"fortio.org/safecast"
)

// Bag accumulates findings produced by one check branch. Branches build
// their own local Bag and merge at the join point; a Bag is never shared
// across goroutines while checks run.
type Bag struct {
	items []Finding
	max   uint16
}

// NewBag creates a Bag that holds at most limit findings. A limit of zero
// or less means no limit.
func NewBag(limit int) *Bag {
	capped, err := safecast.Conv[uint16](limit)
	if err != nil || limit <= 0 {
		capped = math.MaxUint16
	}
	return &Bag{
		items: make([]Finding, 0, min(max(limit, 0), 64)),
		max:   capped,
	}
}

// Add appends a finding, honoring the limit.
// Returns false if the finding was not added.
func (b *Bag) Add(f Finding) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, f)
	return true
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the findings.
// Callers must not modify the returned slice.
func (b *Bag) Items() []Finding {
	return b.items
}

// HasBlocking returns true if at least one finding is an Error or Warning.
func (b *Bag) HasBlocking() bool {
	for i := range b.items {
		if b.items[i].Severity.Blocking() {
			return true
		}
	}
	return false
}

// HasErrors returns true if at least one finding has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Merge appends findings from another Bag, honoring the receiver's limit.
// Findings beyond the limit are dropped.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, f := range other.items {
		if !b.Add(f) {
			return
		}
	}
}

// Sort orders findings by: file, line, severity (desc), code (asc)
// for stable and deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		fi, fj := b.items[i], b.items[j]
		if fi.FilePath != fj.FilePath {
			return fi.FilePath < fj.FilePath
		}
		if fi.Line != fj.Line {
			return fi.Line < fj.Line
		}
		if fi.Severity != fj.Severity {
			return fi.Severity > fj.Severity
		}
		return fi.Code < fj.Code
	})
}

// Filter drops findings whose code the predicate rejects. Codes that are
// not config-gated (structural existence) are always kept. Returns the
// number of findings dropped.
func (b *Bag) Filter(enabled func(Code) bool) int {
	kept := b.items[:0]
	for _, f := range b.items {
		if !f.Code.Gated() || enabled(f.Code) {
			kept = append(kept, f)
		}
	}
	dropped := len(b.items) - len(kept)
	b.items = kept
	return dropped
}
