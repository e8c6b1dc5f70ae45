package lattice_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ChennaDid/AMBiT/internal/lattice"
)

type alertCounter struct {
	calls int
}

func (a *alertCounter) Alert() { a.calls++ }

var _ = Describe("ExpLattice", func() {
	var lat *lattice.ExpLattice

	BeforeEach(func() {
		lat = lattice.NewExpLattice(100, 1e-6, 0.05)
	})

	It("starts at rmin", func() {
		Expect(lat.R(0)).To(Equal(1e-6))
	})

	It("is strictly increasing", func() {
		for i := 1; i < lat.Size(); i++ {
			Expect(lat.R(i)).To(BeNumerically(">", lat.R(i-1)))
		}
	})

	It("matches the exponential mapping", func() {
		for _, i := range []int{0, 1, 17, 99} {
			want := 1e-6 * math.Exp(0.05*float64(i))
			Expect(lat.R(i)).To(BeNumerically("~", want, 1e-18))
			Expect(lat.DR(i)).To(BeNumerically("~", want*0.05, 1e-18))
		}
	})

	Describe("Resize", func() {
		It("reallocates to the requested size without moving r(0)", func() {
			r0 := lat.R(0)
			lat.Resize(250)
			Expect(lat.Size()).To(Equal(250))
			Expect(lat.R(0)).To(Equal(r0))
		})

		It("recomputes every point from the mapping", func() {
			before := lat.R(40)
			lat.Resize(300)
			Expect(lat.R(40)).To(Equal(before))
		})

		It("alerts subscribed observers once per resize", func() {
			obs := &alertCounter{}
			lat.Subscribe(obs)
			lat.Resize(150)
			lat.Resize(80)
			Expect(obs.calls).To(Equal(2))
		})

		It("does not alert when the size is unchanged", func() {
			obs := &alertCounter{}
			lat.Subscribe(obs)
			lat.Resize(lat.Size())
			Expect(obs.calls).To(BeZero())
		})
	})

	Describe("Equal", func() {
		It("compares defining parameters only", func() {
			same := lattice.NewExpLattice(5000, 1e-6, 0.05)
			Expect(lat.Equal(same)).To(BeTrue())

			other := lattice.NewExpLattice(100, 1e-6, 0.06)
			Expect(lat.Equal(other)).To(BeFalse())
		})
	})
})

var _ = Describe("UniformLattice", func() {
	It("has constant spacing", func() {
		lat := lattice.NewUniformLattice(50, 0.1, 0.01)
		for i := 0; i < lat.Size(); i++ {
			Expect(lat.DR(i)).To(Equal(0.01))
		}
		Expect(lat.R(49)).To(BeNumerically("~", 0.1+0.49, 1e-12))
	})
})
