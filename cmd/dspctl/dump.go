package main

import (
	"flag"
	"fmt"

	"github.com/nodeforge/dsp"
	"github.com/nodeforge/dsp/nodeset"
)

// dumpCommand compiles a minimal reference chain (sig -> gain) and
// prints its compiled schedule and fingerprint, for inspecting the
// compiler's buffer-binding decisions without a device attached.
type dumpCommand struct {
	sampleRate int
	blockSize  int
	gain       float64
}

func (cmd *dumpCommand) Name() string { return "dump" }

func (cmd *dumpCommand) Help() string { return "Compile a reference chain and print its schedule" }

func (cmd *dumpCommand) Register(fs *flag.FlagSet) {
	fs.IntVar(&cmd.sampleRate, "rate", 44100, "sample rate")
	fs.IntVar(&cmd.blockSize, "block", 512, "block size")
	fs.Float64Var(&cmd.gain, "gain", 1.0, "gain factor applied to the signal")
}

func (cmd *dumpCommand) Run() error {
	ctx := dsp.NewContext(cmd.sampleRate, cmd.blockSize)
	ctx.Start(nil)

	chain := dsp.NewChain()
	ctx.AddChain(chain)

	sig := nodeset.NewSig(1.0)
	gain := nodeset.NewGain(dsp.Sample(cmd.gain))

	if err := chain.Add(sig); err != nil {
		return err
	}
	if err := chain.Add(gain); err != nil {
		return err
	}
	if err := chain.AddLink(dsp.NewLink(sig, 0, gain, 0)); err != nil {
		return err
	}

	if err := chain.Start(); err != nil {
		return err
	}
	defer chain.Stop()

	fmt.Println(chain.Dump())

	digest, err := chain.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Printf("fingerprint: %s\n", digest)
	return nil
}
