// dspctl is a CLI built around the dsp package, in the exact shape of
// the teacher's cmd/phono: a command interface plus a commands slice
// dispatched off the first argument.
package main

import (
	"flag"
	"fmt"
	"os"
)

type command interface {
	Name() string
	Help() string
	Run() error
	Register(*flag.FlagSet)
}

var (
	successExitCode = 0
	errorExitCode   = 1
	commands        []command
)

type config struct {
	args []string
}

func (cfg *config) run() int {
	cmdName, args := parseArgs(cfg.args)
	if cmdName == "" {
		printUsage()
		return errorExitCode
	}

	for _, cmd := range commands {
		if cmd.Name() == cmdName {
			flags := flag.NewFlagSet(cmdName, flag.ExitOnError)
			cmd.Register(flags)
			if err := flags.Parse(args); err != nil {
				flags.PrintDefaults()
				return errorExitCode
			}
			if err := cmd.Run(); err != nil {
				fmt.Printf("Command failed: %v\n", err)
				return errorExitCode
			}
			return successExitCode
		}
	}

	printUsage()
	return errorExitCode
}

func main() {
	commands = []command{&runCommand{}, &dumpCommand{}, &configCommand{}}
	cfg := config{args: os.Args}
	os.Exit(cfg.run())
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func printUsage() {
	fmt.Println("dspctl drives a DSP graph runtime from the command line")
	fmt.Println()
	fmt.Println("Usage: dspctl <command>")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range commands {
		fmt.Printf("\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}
