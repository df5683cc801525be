package alias_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/alias"
	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

func mustPattern(s string) trace.Pattern {
	p, err := trace.ParsePattern(s)
	Expect(err).NotTo(HaveOccurred())
	return p
}

func study(scheme predictor.Scheme, size int) *alias.Study {
	c := config.DefaultConfig()
	c.IndexingScheme = scheme
	c.TableSizeBits = size
	c.HistoryWidthBits = 4
	return alias.NewStudy(c)
}

var _ = Describe("Enumerate", func() {
	It("should produce L*R-W entries", func() {
		p := mustPattern("1010:1101")
		entries, err := alias.Enumerate(p.Address, p.Bits, 4, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(16 - 4))

		entries, err = alias.Enumerate(1, []bool{true, false, false}, 5, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(15 - 4))
	})

	It("should pair each window with the bit that follows it", func() {
		p := mustPattern("1010:1101")
		entries, err := alias.Enumerate(p.Address, p.Bits, 4, 4)
		Expect(err).NotTo(HaveOccurred())

		Expect(entries[:4]).To(Equal([]alias.Entry{
			{Address: 0b1010, History: 0b1101, Next: true},
			{Address: 0b1010, History: 0b1011, Next: true},
			{Address: 0b1010, History: 0b0111, Next: false},
			{Address: 0b1010, History: 0b1110, Next: true},
		}))
		Expect(entries[4:8]).To(Equal(entries[:4]))
	})

	It("should reject degenerate inputs", func() {
		_, err := alias.Enumerate(1, nil, 4, 4)
		Expect(err).To(MatchError(predictor.ErrInvalidConfiguration))

		_, err = alias.Enumerate(1, []bool{true}, 0, 4)
		Expect(err).To(MatchError(predictor.ErrInvalidConfiguration))

		_, err = alias.Enumerate(1, []bool{true}, 4, 0)
		Expect(err).To(MatchError(predictor.ErrInvalidConfiguration))

		_, err = alias.Enumerate(1, []bool{true, false}, 2, 4)
		Expect(err).To(MatchError(predictor.ErrInvalidConfiguration))
	})

	It("should fill keys with the index function", func() {
		index, err := predictor.SchemeGshare.Bind(4)
		Expect(err).NotTo(HaveOccurred())

		entries := alias.Apply([]alias.Entry{{Address: 0b1010, History: 0b0110}}, index)
		Expect(entries[0].Key).To(Equal(uint64(0b1100)))
	})
})

var _ = Describe("Analyze", func() {
	It("should flag keys whose contexts disagree", func() {
		report := alias.Analyze([]alias.Entry{
			{Address: 1, History: 0b00, Key: 7, Next: true},
			{Address: 2, History: 0b01, Key: 7, Next: false},
			{Address: 1, History: 0b10, Key: 3, Next: true},
			{Address: 1, History: 0b10, Key: 3, Next: true},
		})

		Expect(report.TotalKeys).To(Equal(2))
		Expect(report.ConflictCount).To(Equal(1))
		Expect(report.Groups[0]).To(Equal(alias.Group{
			Key:       3,
			Histories: []uint64{0b10},
			NextBits:  []bool{true},
			Addresses: []uint64{1},
			Entries:   2,
		}))
		Expect(report.Groups[1]).To(Equal(alias.Group{
			Key:         7,
			Histories:   []uint64{0b00, 0b01},
			NextBits:    []bool{false, true},
			Addresses:   []uint64{1, 2},
			Entries:     2,
			HasConflict: true,
		}))
		Expect(report.Conflicts()).To(HaveLen(1))
		Expect(report.Shared()).To(HaveLen(1))

		g, ok := report.Group(7)
		Expect(ok).To(BeTrue())
		Expect(g.Shared()).To(BeTrue())
		_, ok = report.Group(4)
		Expect(ok).To(BeFalse())
	})

	It("should report nothing for no entries", func() {
		report := alias.Analyze(nil)
		Expect(report.TotalKeys).To(Equal(0))
		Expect(report.ConflictCount).To(Equal(0))
	})
})

var _ = Describe("Study", func() {
	Context("single branch 1010 with pattern 1101", func() {
		pattern := func() trace.Pattern { return mustPattern("1010:1101") }

		It("should let concat alias when only two history bits fit", func() {
			// size 4: 2 address bits, 2 history bits. Windows 1011 and 0111
			// share the low bits 11 but are followed by 1 and 0.
			report, err := study(predictor.SchemeConcat, 4).Run(pattern())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.TotalKeys).To(Equal(3))
			Expect(report.ConflictCount).To(Equal(1))

			g, ok := report.Group(0b1011)
			Expect(ok).To(BeTrue())
			Expect(g.HasConflict).To(BeTrue())
			Expect(g.Histories).To(Equal([]uint64{0b0111, 0b1011}))
		})

		It("should keep gshare conflict-free at the same size", func() {
			report, err := study(predictor.SchemeGshare, 4).Run(pattern())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.TotalKeys).To(Equal(4))
			Expect(report.ConflictCount).To(Equal(0))
		})

		It("should make gshare alias when its table is narrower than the window", func() {
			report, err := study(predictor.SchemeGshare, 2).Run(pattern())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.ConflictCount).To(BeNumerically(">=", 1))

			report, err = study(predictor.SchemeConcat, 8).Run(pattern())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.TotalKeys).To(Equal(4))
			Expect(report.ConflictCount).To(Equal(0))
		})

		It("should enumerate 12 keyed entries", func() {
			entries, err := study(predictor.SchemeGshare, 4).Entries(pattern())
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(12))
			Expect(entries[0].Key).To(Equal(uint64(0b1101 ^ 0b1010)))
		})
	})

	Context("branches 0011 and 1100 with swapped patterns", func() {
		patterns := func() []trace.Pattern {
			return []trace.Pattern{mustPattern("0011:1100"), mustPattern("1100:0011")}
		}

		It("should collide across addresses under gshare", func() {
			report, err := study(predictor.SchemeGshare, 4).Run(patterns()...)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.TotalKeys).To(Equal(4))
			Expect(report.ConflictCount).To(Equal(4))

			for _, g := range report.Groups {
				Expect(g.Addresses).To(Equal([]uint64{0b0011, 0b1100}))
				Expect(g.HasConflict).To(BeTrue())
			}
		})

		It("should keep the branches apart under concat", func() {
			report, err := study(predictor.SchemeConcat, 4).Run(patterns()...)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.TotalKeys).To(Equal(8))
			Expect(report.ConflictCount).To(Equal(0))
			Expect(report.Shared()).To(BeEmpty())
		})
	})

	It("should reject an invalid configuration", func() {
		_, err := study(predictor.SchemeGshare, 0).Run(mustPattern("1:10101"))
		Expect(err).To(MatchError(predictor.ErrInvalidConfiguration))
	})

	It("should need at least one pattern", func() {
		_, err := study(predictor.SchemeGshare, 4).Run()
		Expect(err).To(HaveOccurred())
	})

	It("should print the key table and the analysis", func() {
		s := study(predictor.SchemeConcat, 4)
		entries, err := s.Entries(mustPattern("1010:1101"))
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		alias.PrintEntries(&buf, entries, 4, 4)
		Expect(buf.String()).To(ContainSubstring("1010 | 0111 | 1011 | 0"))

		buf.Reset()
		alias.Analyze(entries).Print(&buf, 4, 4)
		out := buf.String()
		Expect(out).To(ContainSubstring("Total unique keys: 3"))
		Expect(out).To(ContainSubstring("Keys with conflicts: 1"))
		Expect(out).To(ContainSubstring("Histories: 0111, 1011"))
		Expect(out).To(ContainSubstring("*** Has prediction conflict ***"))
	})
})
