package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
)

var _ = Describe("Table", func() {
	newTable := func(method predictor.CounterMethod) *predictor.Table {
		t, err := predictor.NewTable(method)
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	Describe("Prediction", func() {
		It("should read unseen keys as weakly taken", func() {
			t := newTable(predictor.TwoBit)
			Expect(t.State(0x42)).To(Equal(predictor.DefaultState))
			Expect(t.State(0x42)).To(Equal(predictor.CounterState(1)))
		})

		It("should predict not taken from the 2-bit default state", func() {
			t := newTable(predictor.TwoBit)
			Expect(t.Predict(0x42)).To(BeFalse())
		})

		It("should predict taken from the 1-bit default state", func() {
			t := newTable(predictor.OneBit)
			Expect(t.Predict(0x42)).To(BeTrue())
		})

		It("should not insert on read", func() {
			t := newTable(predictor.TwoBit)
			t.Predict(1)
			t.State(2)
			Expect(t.Len()).To(Equal(0))
		})

		It("should be idempotent without an update", func() {
			t := newTable(predictor.TwoBit)
			t.Update(7, true)

			first := t.Predict(7)
			second := t.Predict(7)
			Expect(second).To(Equal(first))
			Expect(t.State(7)).To(Equal(predictor.CounterState(2)))
			Expect(t.Len()).To(Equal(1))
		})
	})

	Describe("2-bit saturating counter", func() {
		It("should saturate at 3 after three taken updates", func() {
			t := newTable(predictor.TwoBit)
			for i := 0; i < 3; i++ {
				t.Update(5, true)
			}
			Expect(t.State(5)).To(Equal(predictor.CounterState(3)))

			for i := 0; i < 10; i++ {
				t.Update(5, true)
				Expect(t.State(5)).To(Equal(predictor.CounterState(3)))
			}
		})

		It("should saturate at 0 after three not-taken updates", func() {
			t := newTable(predictor.TwoBit)
			for i := 0; i < 3; i++ {
				t.Update(5, false)
			}
			Expect(t.State(5)).To(Equal(predictor.CounterState(0)))

			t.Update(5, false)
			Expect(t.State(5)).To(Equal(predictor.CounterState(0)))
		})

		It("should require 2 mispredictions to change direction", func() {
			t := newTable(predictor.TwoBit)
			t.Update(5, true)
			t.Update(5, true)
			t.Update(5, true) // Now at 3 (strongly taken)

			// One not-taken -> still predicts taken (at 2)
			t.Update(5, false)
			Expect(t.Predict(5)).To(BeTrue())

			// Another not-taken -> now predicts not taken (at 1)
			t.Update(5, false)
			Expect(t.Predict(5)).To(BeFalse())
		})

		It("should stay within [0,3] for any outcome sequence", func() {
			t := newTable(predictor.TwoBit)
			outcomes := []bool{true, true, false, true, true, true, true, false,
				false, false, false, false, true, false, true, true}
			for _, taken := range outcomes {
				s := t.Update(9, taken)
				Expect(s).To(BeNumerically("<=", 3))
			}
		})
	})

	Describe("1-bit counter", func() {
		It("should replace the state with the last outcome", func() {
			t := newTable(predictor.OneBit)

			Expect(t.Update(3, false)).To(Equal(predictor.CounterState(0)))
			Expect(t.Predict(3)).To(BeFalse())

			Expect(t.Update(3, true)).To(Equal(predictor.CounterState(1)))
			Expect(t.Predict(3)).To(BeTrue())
		})

		It("should only ever hold 0 or 1", func() {
			t := newTable(predictor.OneBit)
			for i := 0; i < 8; i++ {
				s := t.Update(3, i%3 == 0)
				Expect(s).To(BeNumerically("<=", predictor.OneBit.MaxState()))
			}
		})
	})

	It("should keep keys independent", func() {
		t := newTable(predictor.TwoBit)
		t.Update(1, true)
		t.Update(1, true)
		t.Update(2, false)

		Expect(t.State(1)).To(Equal(predictor.CounterState(3)))
		Expect(t.State(2)).To(Equal(predictor.CounterState(0)))
		Expect(t.State(3)).To(Equal(predictor.DefaultState))
	})

	It("should forget every entry on reset", func() {
		t := newTable(predictor.TwoBit)
		t.Update(1, true)
		t.Reset()
		Expect(t.Len()).To(Equal(0))
		Expect(t.State(1)).To(Equal(predictor.DefaultState))
	})

	It("should reject an unknown counter method", func() {
		_, err := predictor.NewTable(predictor.CounterUnknown)
		Expect(err).To(MatchError(predictor.ErrInvalidConfiguration))
	})

	It("should parse counter method names", func() {
		m, err := predictor.ParseCounterMethod("1bit")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(predictor.OneBit))

		_, err = predictor.ParseCounterMethod("3bit")
		Expect(err).To(MatchError(predictor.ErrInvalidConfiguration))
	})
})
