package main

import (
	"flag"
	"fmt"

	"github.com/nodeforge/dsp"
)

// configCommand loads a DeviceConfig YAML file and prints it, or
// writes out a new one built from the provided flags.
type configCommand struct {
	path       string
	write      bool
	driver     string
	inputDev   string
	outputDev  string
	sampleRate int
	blockSize  int
}

func (cmd *configCommand) Name() string { return "config" }

func (cmd *configCommand) Help() string { return "Print or write a device configuration file" }

func (cmd *configCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.path, "path", "dspctl.yaml", "config file path")
	fs.BoolVar(&cmd.write, "write", false, "write a new config instead of printing the existing one")
	fs.StringVar(&cmd.driver, "driver", "", "driver name (with -write)")
	fs.StringVar(&cmd.inputDev, "input", "", "input device (with -write)")
	fs.StringVar(&cmd.outputDev, "output", "", "output device (with -write)")
	fs.IntVar(&cmd.sampleRate, "rate", 44100, "sample rate (with -write)")
	fs.IntVar(&cmd.blockSize, "block", 512, "block size (with -write)")
}

func (cmd *configCommand) Run() error {
	if cmd.write {
		cfg := dsp.DeviceConfig{
			DriverName:   cmd.driver,
			InputDevice:  cmd.inputDev,
			OutputDevice: cmd.outputDev,
			SampleRate:   cmd.sampleRate,
			BlockSize:    cmd.blockSize,
		}
		if err := cfg.Save(cmd.path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", cmd.path)
		return nil
	}

	cfg, err := dsp.LoadDeviceConfig(cmd.path)
	if err != nil {
		return err
	}
	fmt.Printf("%+v\n", cfg)
	return nil
}
