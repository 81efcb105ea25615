package dsp_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/nodeforge/dsp"
)

func TestScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "chain compile scenarios")
}

var _ = Describe("Chain.Start", func() {
	var (
		ctx   *dsp.Context
		chain *dsp.Chain
	)

	BeforeEach(func() {
		ctx = dsp.NewContext(44100, 8)
		ctx.Start(nil)
		chain = dsp.NewChain()
		ctx.AddChain(chain)
	})

	Context("when the graph is acyclic", func() {
		It("compiles and runs", func() {
			source := newNode("source", 0, 1)
			sink := newNode("sink", 1, 0)
			Expect(chain.Add(source)).To(Succeed())
			Expect(chain.Add(sink)).To(Succeed())
			Expect(chain.AddLink(dsp.NewLink(source, 0, sink, 0))).To(Succeed())

			Expect(chain.Start()).To(Succeed())
			defer chain.Stop()

			Expect(chain.IsRunning()).To(BeTrue())
			Expect(chain.CompiledOrder()).To(HaveLen(2))
		})
	})

	Context("when a node feeds itself through a cycle", func() {
		It("fails to compile with ErrLoop", func() {
			a := newNode("a", 1, 1)
			b := newNode("b", 1, 1)
			Expect(chain.Add(a)).To(Succeed())
			Expect(chain.Add(b)).To(Succeed())
			Expect(chain.AddLink(dsp.NewLink(a, 0, b, 0))).To(Succeed())
			Expect(chain.AddLink(dsp.NewLink(b, 0, a, 0))).To(Succeed())

			err := chain.Start()
			Expect(errors.Is(err, dsp.ErrLoop)).To(BeTrue())
			Expect(chain.IsRunning()).To(BeFalse())
		})
	})

	Context("when an in-place node's input is unconnected", func() {
		It("fails to compile with ErrInplace", func() {
			n := dsp.NewNode(&passthrough{nm: "gain", inplace: true}, 1, 1)
			Expect(chain.Add(n)).To(Succeed())

			err := chain.Start()
			Expect(errors.Is(err, dsp.ErrInplace)).To(BeTrue())
		})
	})

	Context("when a node's allocator is exhausted", func() {
		It("fails to compile with ErrAlloc", func() {
			n := dsp.NewNode(&passthrough{nm: "broken", failAlloc: true}, 0, 1)
			Expect(chain.Add(n)).To(Succeed())

			err := chain.Start()
			Expect(errors.Is(err, dsp.ErrAlloc)).To(BeTrue())
		})
	})

	Context("when two producers feed one input", func() {
		It("sums their outputs on tick", func() {
			a := newNode("a", 0, 1)
			b := newNode("b", 0, 1)
			sink := newNode("sink", 1, 1)
			Expect(chain.Add(a)).To(Succeed())
			Expect(chain.Add(b)).To(Succeed())
			Expect(chain.Add(sink)).To(Succeed())
			Expect(chain.AddLink(dsp.NewLink(a, 0, sink, 0))).To(Succeed())
			Expect(chain.AddLink(dsp.NewLink(b, 0, sink, 0))).To(Succeed())

			Expect(chain.Start()).To(Succeed())
			defer chain.Stop()

			chain.Tick()
			Expect(sink.Output(0)[0]).To(Equal(dsp.Sample(2)))
		})
	})

	Context("when a link points at a node that was never added to the chain", func() {
		It("fails to compile with ErrRecopy", func() {
			ghost := newNode("ghost", 0, 1)
			consumer := newNode("consumer", 1, 1)
			Expect(chain.Add(consumer)).To(Succeed())
			Expect(chain.AddLink(dsp.NewLink(ghost, 0, consumer, 0))).To(Succeed())

			err := chain.Start()
			Expect(errors.Is(err, dsp.ErrRecopy)).To(BeTrue())
		})
	})
})
