package trace_test

import (
	"bytes"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/trace"
)

var _ = Describe("File", func() {
	decode := func(s string) (*trace.File, error) {
		return trace.Decode(strings.NewReader(s))
	}

	It("should decode the collector format", func() {
		f, err := decode(`{
			"binary": "/usr/local/bin/tree",
			"arguments": "-L 2",
			"branch_history": [
				{"0x100007f09": 1},
				{"0x100007f30": 0},
				{"0x100007f09": true}
			]
		}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Binary).To(Equal("/usr/local/bin/tree"))
		Expect(f.Arguments).To(Equal("-L 2"))
		Expect(f.History).To(Equal(trace.Trace{
			{Address: 0x100007f09, Taken: true},
			{Address: 0x100007f30, Taken: false},
			{Address: 0x100007f09, Taken: true},
		}))
	})

	It("should accept an empty history", func() {
		f, err := decode(`{"binary": "a.out", "branch_history": []}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.History).To(BeEmpty())
	})

	DescribeTable("should reject the whole trace on a malformed element",
		func(element string) {
			_, err := decode(`{"branch_history": [{"0x10": 1}, ` + element + `]}`)
			Expect(err).To(MatchError(trace.ErrMalformedTraceElement))
			Expect(err.Error()).To(ContainSubstring("branch_history[1]"))
		},
		Entry("missing address", `{}`),
		Entry("null element", `null`),
		Entry("not an object", `[1]`),
		Entry("two addresses", `{"0x10": 1, "0x20": 0}`),
		Entry("missing outcome", `{"0x10": null}`),
		Entry("non-boolean outcome", `{"0x10": 7}`),
		Entry("non-hex address", `{"main+4": 1}`),
	)

	It("should round-trip through Encode", func() {
		f := &trace.File{
			Binary:  "a.out",
			History: trace.Trace{{Address: 0x4f0, Taken: true}, {Address: 0x500, Taken: false}},
		}

		var buf bytes.Buffer
		Expect(f.Encode(&buf)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"0x4f0": 1`))

		back, err := trace.Decode(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.History).To(Equal(f.History))
	})

	It("should save and load from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace.json")
		f := &trace.File{Binary: "a.out", History: trace.Trace{{Address: 1, Taken: true}}}
		Expect(f.Save(path)).To(Succeed())

		loaded, err := trace.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(f))
	})

	It("should summarize addresses and taken count", func() {
		t := trace.Trace{{Address: 2, Taken: true}, {Address: 1}, {Address: 2, Taken: true}}
		Expect(t.Addresses()).To(Equal([]uint64{2, 1}))
		Expect(t.TakenCount()).To(Equal(2))
	})
})

var _ = Describe("FromPatterns", func() {
	It("should interleave patterns round-robin", func() {
		t, err := trace.FromPatterns([]trace.Pattern{
			{Address: 0xA, Bits: []bool{true, false}},
			{Address: 0xB, Bits: []bool{false}},
		}, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(Equal(trace.Trace{
			{Address: 0xA, Taken: true}, {Address: 0xB, Taken: false},
			{Address: 0xA, Taken: false}, {Address: 0xB, Taken: false},
			{Address: 0xA, Taken: true}, {Address: 0xB, Taken: false},
		}))
	})

	It("should reject non-positive rounds", func() {
		_, err := trace.FromPatterns([]trace.Pattern{{Address: 1, Bits: []bool{true}}}, 0)
		Expect(err).To(HaveOccurred())
	})

	It("should reject an empty pattern", func() {
		_, err := trace.FromPatterns([]trace.Pattern{{Address: 1}}, 2)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Resolve", func() {
	const disasm = `/usr/local/bin/tree:
(__TEXT,__text) section
_main:
0000000100004688	pushq	%rbp
0000000100007f09	je	0x100008281
0000000100007f10	cmpl	$0x0, %eax
0000000100007f30	jle	0x100007f60
0000000100007f40	jmp	0x100007f09
`

	It("should find conditional branch sites", func() {
		sites, err := trace.ParseDisassembly(strings.NewReader(disasm))
		Expect(err).NotTo(HaveOccurred())
		Expect(sites).To(HaveLen(2))
		Expect(sites[0x100007f09]).To(Equal(trace.Site{Mnemonic: "je", Target: 0x100008281}))
		Expect(sites[0x100007f30].Mnemonic).To(Equal("jle"))
	})

	It("should turn flag samples into outcomes", func() {
		sites, err := trace.ParseDisassembly(strings.NewReader(disasm))
		Expect(err).NotTo(HaveOccurred())

		samples, err := trace.DecodeFlagSamples(strings.NewReader(`[
			{"0x100007f09": 64},
			{"0x100004688": 0},
			{"0x100007f30": 0},
			{"0x100007f09": 0}
		]`))
		Expect(err).NotTo(HaveOccurred())
		Expect(samples).To(HaveLen(4))

		t, err := trace.Resolve(samples, sites)
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(Equal(trace.Trace{
			{Address: 0x100007f09, Taken: true},
			{Address: 0x100007f30, Taken: false},
			{Address: 0x100007f09, Taken: false},
		}))
	})

	It("should fail on an unsupported mnemonic", func() {
		sites := map[uint64]trace.Site{0x10: {Mnemonic: "jrcxz"}}
		_, err := trace.Resolve([]trace.FlagSample{{Address: 0x10}}, sites)
		Expect(err).To(HaveOccurred())
	})

	It("should reject a sample with two addresses", func() {
		_, err := trace.DecodeFlagSamples(strings.NewReader(`[{"0x1": 0, "0x2": 0}]`))
		Expect(err).To(MatchError(trace.ErrMalformedTraceElement))
	})
})
