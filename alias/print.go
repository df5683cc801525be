package alias

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

func bits(v uint64, width int) string {
	s := strconv.FormatUint(v, 2)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// PrintEntries writes the enumeration as a table sorted by address and
// history. Addresses, histories and keys are printed in binary, padded to
// the given widths.
func PrintEntries(w io.Writer, entries []Entry, historyWidth, keyWidth int) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Address != sorted[j].Address {
			return sorted[i].Address < sorted[j].Address
		}
		return sorted[i].History < sorted[j].History
	})

	_, _ = fmt.Fprintln(w, "Addr | History | Key | Next Bit")
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 35))
	for _, e := range sorted {
		_, _ = fmt.Fprintf(w, "%s | %s | %s | %s\n",
			bits(e.Address, 0), bits(e.History, historyWidth), bits(e.Key, keyWidth), bit(e.Next))
	}
}

// Print writes the summary and the per-key breakdown.
func (r *Report) Print(w io.Writer, historyWidth, keyWidth int) {
	_, _ = fmt.Fprintf(w, "Total unique keys: %d\n", r.TotalKeys)
	_, _ = fmt.Fprintf(w, "Keys with conflicts: %d\n", r.ConflictCount)
	_, _ = fmt.Fprintf(w, "Keys shared by several branches: %d\n", len(r.Shared()))

	for _, g := range r.Groups {
		histories := make([]string, 0, len(g.Histories))
		for _, h := range g.Histories {
			histories = append(histories, bits(h, historyWidth))
		}
		next := make([]string, 0, len(g.NextBits))
		for _, b := range g.NextBits {
			next = append(next, bit(b))
		}

		_, _ = fmt.Fprintf(w, "\nKey: %s\n", bits(g.Key, keyWidth))
		_, _ = fmt.Fprintf(w, "Histories: %s\n", strings.Join(histories, ", "))
		_, _ = fmt.Fprintf(w, "Next bits: %s\n", strings.Join(next, ", "))
		if g.Shared() {
			addrs := make([]string, 0, len(g.Addresses))
			for _, a := range g.Addresses {
				addrs = append(addrs, bits(a, 0))
			}
			_, _ = fmt.Fprintf(w, "Branches: %s\n", strings.Join(addrs, ", "))
		}
		if g.HasConflict {
			_, _ = fmt.Fprintln(w, "*** Has prediction conflict ***")
		}
	}
}
