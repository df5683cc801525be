package alias

import (
	"slices"

	"github.com/samber/lo"
)

// Group collects every enumerated context that maps to one key.
type Group struct {
	Key uint64
	// Histories are the distinct windows seen at this key, ascending.
	Histories []uint64
	// NextBits are the distinct outcomes that followed, not-taken first.
	NextBits []bool
	// Addresses are the distinct branches that reach this key, ascending.
	Addresses []uint64
	// Entries is the number of enumerated contexts, duplicates included.
	Entries int
	// HasConflict is set when the contexts disagree on the next outcome,
	// so no single counter state can be right for all of them.
	HasConflict bool
}

// Shared reports whether more than one branch address reaches the key.
func (g Group) Shared() bool {
	return len(g.Addresses) > 1
}

// Report is the result of an alias analysis.
type Report struct {
	// Groups are ordered by key.
	Groups        []Group
	TotalKeys     int
	ConflictCount int
}

// Analyze groups entries by key and flags keys whose contexts need
// different predictions.
func Analyze(entries []Entry) *Report {
	byKey := lo.GroupBy(entries, func(e Entry) uint64 { return e.Key })

	keys := lo.Keys(byKey)
	slices.Sort(keys)

	report := &Report{
		Groups:    make([]Group, 0, len(keys)),
		TotalKeys: len(keys),
	}

	for _, key := range keys {
		members := byKey[key]

		histories := lo.Uniq(lo.Map(members, func(e Entry, _ int) uint64 { return e.History }))
		slices.Sort(histories)

		addresses := lo.Uniq(lo.Map(members, func(e Entry, _ int) uint64 { return e.Address }))
		slices.Sort(addresses)

		nextBits := lo.Uniq(lo.Map(members, func(e Entry, _ int) bool { return e.Next }))
		slices.SortFunc(nextBits, func(a, b bool) int {
			return boolOrder(a) - boolOrder(b)
		})

		g := Group{
			Key:         key,
			Histories:   histories,
			NextBits:    nextBits,
			Addresses:   addresses,
			Entries:     len(members),
			HasConflict: len(nextBits) > 1,
		}
		if g.HasConflict {
			report.ConflictCount++
		}
		report.Groups = append(report.Groups, g)
	}

	return report
}

func boolOrder(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Conflicts returns the groups with a conflict.
func (r *Report) Conflicts() []Group {
	return lo.Filter(r.Groups, func(g Group, _ int) bool { return g.HasConflict })
}

// Shared returns the groups reached by more than one address.
func (r *Report) Shared() []Group {
	return lo.Filter(r.Groups, func(g Group, _ int) bool { return g.Shared() })
}

// Group returns the group of key, if any context maps to it.
func (r *Report) Group(key uint64) (Group, bool) {
	return lo.Find(r.Groups, func(g Group) bool { return g.Key == key })
}
