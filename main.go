package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/patchtools/bsdump/bsdiff"
	"github.com/patchtools/bsdump/delta"
	"github.com/patchtools/bsdump/logger"
)

type command struct {
	Flag  *flag.FlagSet
	Run   func([]string) error
	Usage string
	Help  string
}

const (
	name      = "bsdump"
	baseUsage = "<command> [<options>] [--] <args>"
)

var logLevel int

var dump = command{flag.NewFlagSet("dump", flag.ExitOnError), dumpMain,
	"[<options>] [--] <patch>",
	"Print the header and control entries of patch file <patch>",
}
var apply = command{flag.NewFlagSet("apply", flag.ExitOnError), applyMain,
	"[<options>] [--] <old> <patch> <new>",
	"Apply legacy patch file <patch> to <old>, writing <new>",
}
var subcommands = map[string]command{
	dump.Flag.Name():  dump,
	apply.Flag.Name(): apply,
}

func init() {
	// init default help message
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s %s\n\ncommands:\n", name, baseUsage)
		for _, s := range subcommands {
			fmt.Printf("  %s	%s\n", s.Flag.Name(), s.Help)
		}
		os.Exit(1)
	}
	// setup subcommands
	for _, s := range subcommands {
		s.Flag.IntVar(&logLevel, "v", 3, "log verbosity level (0-4)")
	}
}

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
	}
	cmd, exists := subcommands[args[0]]
	if !exists {
		fmt.Fprintf(flag.CommandLine.Output(), "error: unknown command %s\n\n", args[0])
		flag.Usage()
	}
	cmd.Flag.Usage = func() {
		fmt.Fprintf(cmd.Flag.Output(), "usage: %s %s %s\n\noptions:\n", name, cmd.Flag.Name(), cmd.Usage)
		cmd.Flag.PrintDefaults()
		os.Exit(1)
	}
	cmd.Flag.Parse(args[1:])
	logger.Init(logLevel)
	if err := cmd.Run(cmd.Flag.Args()); err != nil {
		fmt.Fprintf(cmd.Flag.Output(), "error: %s\n\n", err)
		cmd.Flag.Usage()
	}
}

// statsLogger routes decoder telemetry to the logger.
type statsLogger struct{}

func (statsLogger) DiffStats(zeros, total int) {
	logger.Infof("diff stream has %d/%d = %.2f%% zeros",
		zeros, total, float64(zeros)/float64(total)*100)
}

func (statsLogger) MaskStats(maskC, maskD, diffC, diffD int) {
	logger.Infof("mask data: %d/%d = %.3f, diff data: %d/%d = %.3f",
		maskC, maskD, float64(maskC)/float64(maskD),
		diffC, diffD, float64(diffC)/float64(diffD))
}

func dumpMain(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("wrong number of args")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	r, err := bsdiff.NewReaderObserver(data, statsLogger{})
	if err != nil {
		return err
	}
	hdr := r.Header()
	fmt.Printf("variant: %s ctrl: %s diff: %s extra: %s\n",
		hdr.Magic.Variant, hdr.Magic.Ctrl, hdr.Magic.Diff, hdr.Magic.Extra)
	fmt.Printf("compressed ctrl: %d compressed diff: %d new file: %d\n",
		hdr.CtrlSize, hdr.DiffSize, hdr.NewSize)
	it := r.ControlEntries()
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		fmt.Printf("diff: %d extra: %d offset: %+d\n", e.DiffLen, e.ExtraLen, e.OffsetDelta)
	}
	return nil
}

func applyMain(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("wrong number of args")
	}
	patch, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	// Validate the container before handing it to the patcher, which
	// only understands the legacy layout.
	r, err := bsdiff.NewReader(patch)
	if err != nil {
		return err
	}
	if v := r.Header().Magic.Variant; v != bsdiff.Legacy {
		return fmt.Errorf("%s: apply only supports legacy patches", v)
	}
	old, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer old.Close()
	target, err := os.Create(args[2])
	if err != nil {
		return err
	}
	var patcher delta.Patcher = delta.Bsdiff{}
	if err := patcher.Patch(old, target, bytes.NewReader(patch)); err != nil {
		target.Close()
		return err
	}
	return target.Close()
}
