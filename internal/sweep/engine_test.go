package sweep_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sim"
	"github.com/san-kum/tipsim/internal/sweep"
)

var _ = Describe("Linspace", func() {
	It("includes both ends", func() {
		xs, err := sweep.Linspace(0.14, 1.57, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(HaveLen(100))
		Expect(xs[0]).To(Equal(0.14))
		Expect(xs[99]).To(Equal(1.57))
		Expect(xs[1] - xs[0]).To(BeNumerically("~", (1.57-0.14)/99, 1e-12))
	})

	It("returns the lower bound for a single point", func() {
		xs, err := sweep.Linspace(0.3, 0.7, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(Equal([]float64{0.3}))
	})

	It("rejects empty axes", func() {
		_, err := sweep.Linspace(0, 1, 0)
		Expect(errors.Is(err, sweep.ErrInvalidSweep)).To(BeTrue())
	})

	It("prefers explicit values in an AxisSpec", func() {
		xs, err := sweep.AxisSpec{Min: 0, Max: 1, N: 5, Values: []float64{0.2, 0.4}}.Resolve()
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(Equal([]float64{0.2, 0.4}))
	})
})

var _ = Describe("Engine", func() {
	var (
		ctx    context.Context
		engine *sweep.Engine
		rates  model.RateParameters
	)

	BeforeEach(func() {
		ctx = context.Background()
		engine = sweep.NewEngine(sweep.WithWorkers(3))
		rates = model.DefaultRates()
	})

	Describe("Grid", func() {
		It("places every cell by index", func() {
			rows := []float64{1, 2, 3}
			cols := []float64{10, 20}
			z, err := engine.Grid(ctx, rows, cols, func(r, c float64) float64 { return r*100 + c })
			Expect(err).NotTo(HaveOccurred())
			Expect(z).To(Equal([][]float64{{110, 120}, {210, 220}, {310, 320}}))
		})

		It("rejects empty axes", func() {
			_, err := engine.Grid(ctx, nil, []float64{1}, func(r, c float64) float64 { return 0 })
			Expect(errors.Is(err, sweep.ErrInvalidSweep)).To(BeTrue())
		})

		It("stops on a canceled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := engine.Grid(cctx, []float64{1, 2}, []float64{1}, func(r, c float64) float64 { return 0 })
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})

	Describe("ParallelFor", func() {
		It("visits every index once", func() {
			var hits [50]int32
			err := engine.ParallelFor(ctx, len(hits), func(i int) error {
				atomic.AddInt32(&hits[i], 1)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			for _, h := range hits {
				Expect(h).To(Equal(int32(1)))
			}
		})

		It("returns the first error", func() {
			boom := errors.New("boom")
			err := engine.ParallelFor(ctx, 10, func(i int) error {
				if i == 4 {
					return boom
				}
				return nil
			})
			Expect(err).To(MatchError(boom))
		})
	})

	Describe("CoverTime", func() {
		It("stores one trajectory per aridity", func() {
			aridities := []float64{0.2, 0.8, 1.4}
			s, err := engine.CoverTime(ctx, 0.81, aridities, 50, rates)
			Expect(err).NotTo(HaveOccurred())

			rows, cols := s.Dims()
			Expect(rows).To(Equal(3))
			Expect(cols).To(Equal(50))
			Expect(s.X[49]).To(Equal(49.0))
			Expect(s.Title).To(Equal("Vegetation Cover over Time and Aridity for C_0=0.81"))
			Expect(s.ID).NotTo(BeEmpty())
			for i, a := range aridities {
				Expect(s.Z[i]).To(Equal([]float64(sim.KSteps(0.81, a, 50, rates))))
				Expect(s.Z[i][0]).To(Equal(0.81))
			}
		})

		It("rejects k < 1", func() {
			_, err := engine.CoverTime(ctx, 0.81, []float64{0.5}, 0, rates)
			Expect(errors.Is(err, sweep.ErrInvalidSweep)).To(BeTrue())
		})

		It("rejects an empty aridity axis", func() {
			_, err := engine.CoverTime(ctx, 0.81, nil, 10, rates)
			Expect(errors.Is(err, sweep.ErrInvalidSweep)).To(BeTrue())
		})
	})

	Describe("ReturnTime", func() {
		It("matches direct calls cell by cell", func() {
			initials, _ := sweep.Linspace(1e-6, 1, 21)
			aridities, _ := sweep.Linspace(0.14, 1.57, 9)
			opts := analysis.DefaultReturnOptions()

			s, err := engine.ReturnTime(ctx, initials, aridities, rates, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Cells()).To(Equal(21 * 9))

			for i, a := range aridities {
				for j, c0 := range initials {
					o := analysis.ReturnTime(c0, a, rates, opts)
					want := analysis.StepsOrSentinel(o)
					if math.IsInf(want, 1) {
						Expect(math.IsInf(s.Z[i][j], 1)).To(BeTrue())
					} else {
						Expect(s.Z[i][j]).To(Equal(want))
					}
					Expect(s.Outcomes[i][j]).To(Equal(o.Kind()))
					Expect(s.Flagged(i, j)).To(Equal(o.Kind() != analysis.KindConverged))
				}
			}
		})

		It("flags collapsed cells", func() {
			s, err := engine.ReturnTime(ctx, []float64{0.0, 0.81}, []float64{1.0}, rates, analysis.DefaultReturnOptions())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Outcomes[0][0]).To(Equal(analysis.KindCollapsed))
			Expect(s.Z[0][0]).To(Equal(float64(analysis.CollapseSentinel)))
			Expect(s.Flagged(0, 0)).To(BeTrue())
			Expect(s.Outcomes[0][1]).To(Equal(analysis.KindConverged))
		})
	})

	Describe("CharReturnTime", func() {
		It("computes the forest surface and marks undefined cells", func() {
			rs := []float64{0.05, 0.3, 0.6}
			ds := []float64{0.05, 0.1}
			s, err := engine.CharReturnTime(ctx, analysis.Forest, rs, ds)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Kind).To(Equal(sweep.KindCharForest))
			Expect(s.Title).To(Equal("Characteristic Return Time for Forest State"))

			for i, d := range ds {
				for j, r := range rs {
					v, err := analysis.CharReturnTime(analysis.Forest, model.RateParameters{SaturationRate: r, DieRate: d})
					if err != nil {
						Expect(s.Undefined[i][j]).To(BeTrue())
						Expect(math.IsNaN(s.Z[i][j])).To(BeTrue())
						Expect(s.Flagged(i, j)).To(BeTrue())
					} else {
						Expect(s.Undefined[i][j]).To(BeFalse())
						Expect(s.Z[i][j]).To(Equal(v))
					}
				}
			}
			Expect(s.Undefined[0][0]).To(BeTrue())
			Expect(s.Z[0][2]).To(BeNumerically("~", 1/0.55, 1e-12))
		})

		It("computes the savanna surface", func() {
			s, err := engine.CharReturnTime(ctx, analysis.Savanna, []float64{0.6}, []float64{0.05, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Kind).To(Equal(sweep.KindCharSavanna))
			Expect(s.Z[0][0]).To(BeNumerically("~", 20.0, 1e-12))
			Expect(s.Undefined[1][0]).To(BeTrue())

			lo, hi, ok := s.Range()
			Expect(ok).To(BeTrue())
			Expect(lo).To(Equal(hi))
		})

		It("rejects unknown equilibria", func() {
			_, err := engine.CharReturnTime(ctx, analysis.Equilibrium("X"), []float64{0.6}, []float64{0.05})
			Expect(errors.Is(err, analysis.ErrUnknownEquilibrium)).To(BeTrue())
		})
	})

	Describe("Lyapunov", func() {
		It("matches direct estimates and is negative at stable states", func() {
			initials := []float64{0.5, 0.81}
			aridities := []float64{0.5, 1.4}
			s, err := engine.Lyapunov(ctx, initials, aridities, 200, rates)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Kind).To(Equal(sweep.KindLyapunov))

			for i, a := range aridities {
				for j, c0 := range initials {
					Expect(s.Z[i][j]).To(Equal(analysis.LyapunovExponent(c0, a, rates, 200, 1e-8)))
					Expect(s.Z[i][j]).To(BeNumerically("<", 0))
				}
			}
			// decline branch contracts by 1-d every step
			Expect(s.Z[1][0]).To(BeNumerically("~", math.Log(1-rates.DieRate), 1e-6))
		})

		It("rejects a non-positive step count", func() {
			_, err := engine.Lyapunov(ctx, []float64{0.5}, []float64{0.5}, 0, rates)
			Expect(errors.Is(err, sweep.ErrInvalidSweep)).To(BeTrue())
		})
	})
})

var _ = Describe("Registry", func() {
	var (
		registry *sweep.Registry
		engine   *sweep.Engine
		req      sweep.Request
	)

	BeforeEach(func() {
		registry = sweep.NewRegistry()
		engine = sweep.NewEngine()
		req = sweep.Request{
			InitialCover:    0.81,
			TimeSteps:       10,
			Rates:           model.DefaultRates(),
			Return:          analysis.DefaultReturnOptions(),
			Aridities:       sweep.AxisSpec{Min: 0.14, Max: 1.57, N: 4},
			InitialCovers:   sweep.AxisSpec{Min: 1e-6, Max: 1, N: 5},
			SaturationRates: sweep.AxisSpec{Min: 0.3, Max: 0.7, N: 3},
			DieRates:        sweep.AxisSpec{Min: 0.01, Max: 0.2, N: 2},
		}
	})

	It("lists the built-in kinds", func() {
		Expect(registry.Kinds()).To(Equal([]string{"char-forest", "char-savanna", "cover", "lyapunov", "return"}))
	})

	DescribeTable("builds surfaces of the requested shape",
		func(kind string, rows, cols int) {
			req.Kind = kind
			s, err := registry.Build(context.Background(), engine, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Kind).To(Equal(kind))
			r, c := s.Dims()
			Expect(r).To(Equal(rows))
			Expect(c).To(Equal(cols))
		},
		Entry("cover", sweep.KindCover, 4, 10),
		Entry("return", sweep.KindReturnTime, 4, 5),
		Entry("char-forest", sweep.KindCharForest, 2, 3),
		Entry("char-savanna", sweep.KindCharSavanna, 2, 3),
		Entry("lyapunov", sweep.KindLyapunov, 4, 5),
	)

	It("rejects unknown kinds", func() {
		req.Kind = "lattice"
		_, err := registry.Build(context.Background(), engine, req)
		Expect(errors.Is(err, sweep.ErrInvalidSweep)).To(BeTrue())
	})

	It("reports degenerate axes", func() {
		req.Kind = sweep.KindReturnTime
		req.InitialCovers = sweep.AxisSpec{}
		_, err := registry.Build(context.Background(), engine, req)
		Expect(errors.Is(err, sweep.ErrInvalidSweep)).To(BeTrue())
	})
})
