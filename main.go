package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"hackasm/pkg/asm"
	"hackasm/pkg/cpu"
	"hackasm/pkg/hack"
	"hackasm/pkg/source"
	"hackasm/pkg/utils"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	err := newRootCmd().Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hackasm",
		Short:         "Assembler for the Hack 16-bit machine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its settings from the Go flag set; cobra has
			// already copied the values in, this just marks it parsed.
			return flag.CommandLine.Parse(nil)
		},
	}
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	root.AddCommand(newAssembleCmd(), newDisasmCmd(), newRunCmd())
	return root
}

type assembleOptions struct {
	out         string
	dumpSymbols bool
	sourceMap   bool
}

func newAssembleCmd() *cobra.Command {
	var opts assembleOptions
	cmd := &cobra.Command{
		Use:     "assemble <file.asm>",
		Aliases: []string{"asm"},
		Short:   "Translate Hack assembly into a .hack file of binary words",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runAssemble(cmd, args[0], opts); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "assembly failed: %v\n", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file path (default: input with .hack extension, - for stdout)")
	cmd.Flags().BoolVar(&opts.dumpSymbols, "dump-symbols", false, "print the final symbol table to stderr")
	cmd.Flags().BoolVar(&opts.sourceMap, "source-map", false, "print word address to source line mapping to stderr")
	return cmd
}

func runAssemble(cmd *cobra.Command, inPath string, opts assembleOptions) error {
	glog.V(1).Infof("assembling %s", inPath)

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to read input file %q: %w", inPath, err)
	}
	defer f.Close()

	prog, err := asm.AssembleReader(f)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if opts.dumpSymbols {
		dumpSymbols(stderr, prog.Symbols)
	}
	if opts.sourceMap {
		writeSourceMap(stderr, prog.SourceMap)
	}

	output := opts.out
	if output == "" {
		output, err = utils.DefaultOutputPath(inPath, ".hack")
		if err != nil {
			return err
		}
	}
	if output == "-" {
		_, err := prog.WriteTo(cmd.OutOrStdout())
		return err
	}

	// Nothing touches the output file until the whole program has assembled.
	var buf bytes.Buffer
	if _, err := prog.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %q: %w", output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "assembled %d words -> %s\n", len(prog.Words), output)
	return nil
}

func dumpSymbols(w io.Writer, symbols []asm.Symbol) {
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(w == io.Writer(os.Stderr) && term.IsTerminal(int(os.Stderr.Fd())))
	for _, sym := range symbols {
		if sym.Kind == asm.Predefined {
			continue
		}
		printer.Println(sym)
	}
}

func writeSourceMap(w io.Writer, sourceMap map[int]int) {
	addrs := make([]int, 0, len(sourceMap))
	for addr := range sourceMap {
		addrs = append(addrs, addr)
	}
	sort.Ints(addrs)
	for _, addr := range addrs {
		fmt.Fprintf(w, "%d\t%d\n", addr, sourceMap[addr])
	}
}

func newDisasmCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "disasm <file.hack>",
		Short: "Print the assembly listing of a .hack file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runDisasm(cmd, args[0], out); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "disassembly failed: %v\n", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file path, - for stdout")
	return cmd
}

func runDisasm(cmd *cobra.Command, inPath, out string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to read input file %q: %w", inPath, err)
	}
	defer f.Close()

	lines, err := source.Read(f)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, line := range lines {
		w, err := hack.ParseWord(line.Text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line.Number, err)
		}
		text, err := hack.Decode(w)
		if err != nil {
			return fmt.Errorf("line %d: %w", line.Number, err)
		}
		buf.WriteString(text)
		buf.WriteByte('\n')
	}
	glog.V(1).Infof("disassembled %d words from %s", len(lines), inPath)

	if out == "-" {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	return os.WriteFile(out, buf.Bytes(), 0o644)
}

type runOptions struct {
	maxSteps int
	set      map[string]int
	dump     []string
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <file.asm|file.hack>",
		Short: "Assemble if needed and execute a program on the Hack CPU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runProgram(cmd, args[0], opts); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "run failed for %q: %v\n", args[0], err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", 1_000_000, "stop after this many instructions (0 for no limit)")
	cmd.Flags().StringToIntVar(&opts.set, "set", nil, "initial RAM values, e.g. R0=3,R1=4,100=7")
	cmd.Flags().StringSliceVar(&opts.dump, "dump", []string{"R0", "R1", "R2"}, "RAM cells to print after the run")
	return cmd
}

func runProgram(cmd *cobra.Command, path string, opts runOptions) error {
	words, err := loadProgram(path)
	if err != nil {
		return err
	}

	vm := cpu.NewCPU(words)
	for name, val := range opts.set {
		addr, err := ramAddress(name)
		if err != nil {
			return err
		}
		if err := vm.WriteMem(addr, uint16(val)); err != nil {
			return err
		}
	}

	if err := vm.Run(opts.maxSteps); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run complete (%s): steps=%d PC=%d A=%d D=%d\n", path, vm.Steps, vm.PC, vm.A, int16(vm.D))
	for _, name := range opts.dump {
		addr, err := ramAddress(name)
		if err != nil {
			return err
		}
		val, err := vm.ReadMem(addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s=%d\n", name, int16(val))
	}
	return nil
}

// loadProgram assembles .asm sources and reads anything else as a .hack
// listing of binary words.
func loadProgram(path string) ([]hack.Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %q: %w", path, err)
	}
	defer f.Close()

	if filepath.Ext(path) == ".asm" {
		prog, err := asm.AssembleReader(f)
		if err != nil {
			return nil, err
		}
		return prog.Words, nil
	}

	lines, err := source.Read(f)
	if err != nil {
		return nil, err
	}
	words := make([]hack.Word, 0, len(lines))
	for _, line := range lines {
		w, err := hack.ParseWord(line.Text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line.Number, err)
		}
		words = append(words, w)
	}
	return words, nil
}

// ramAddress accepts a decimal address or a predefined symbol such as R2 or SCREEN.
func ramAddress(name string) (uint16, error) {
	if n, err := strconv.ParseUint(name, 10, 16); err == nil {
		return uint16(n), nil
	}
	if addr, ok := hack.PredefinedSymbols()[name]; ok {
		return uint16(addr), nil
	}
	return 0, fmt.Errorf("unknown RAM address %q", name)
}
