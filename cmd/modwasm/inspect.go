package main

import (
	"fmt"

	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var showCode bool
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "inspect <module.wasm>",
		Short: "Decode a module and print its symbol table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			reg, shutdown := serveMetrics(metricsAddr)
			defer shutdown()

			mod, _, err := decodeFile(args[0], log, reg)
			if err != nil {
				return err
			}
			printSymbolTable(cmd, mod, showCode)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCode, "code", false, "also disassemble every function body")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus /metrics on this address while decoding")
	return cmd
}

func printSymbolTable(cmd *cobra.Command, mod *wasm.Module, showCode bool) {
	out := cmd.OutOrStdout()
	s := mod.Symbols

	fmt.Fprintf(out, "types: %d\n", len(s.FunctionTypes))
	fmt.Fprintf(out, "functions: %d (%d imported)\n", len(s.Functions), s.NumImportedFunctions)
	fmt.Fprintf(out, "tables: %d\n", len(s.Tables))
	fmt.Fprintf(out, "memories: %d\n", len(s.Memories))
	fmt.Fprintf(out, "globals: %d\n", len(s.Globals))
	fmt.Fprintf(out, "exports: %d\n", len(s.Exports))
	if s.StartFunctionIndex != nil {
		fmt.Fprintf(out, "start: function %d\n", *s.StartFunctionIndex)
	}
	for name, exp := range s.Exports {
		fmt.Fprintf(out, "  export %q: kind=%s index=%d\n", name, api.ExternTypeName(exp.Kind), exp.Index)
	}
	for i := range s.Globals {
		g := &s.Globals[i]
		fmt.Fprintf(out, "  global %d: type=%s mutability=%v resolution=%s\n", i, api.ValueTypeName(g.Type), g.Mutability, g.Resolution)
	}
	if len(mod.CustomSections) > 0 {
		fmt.Fprintf(out, "custom sections: %d\n", len(mod.CustomSections))
		for _, cs := range mod.CustomSections {
			fmt.Fprintf(out, "  %q: %d bytes\n", cs.Name, len(cs.Bytes))
		}
	}

	if showCode {
		for i := s.NumImportedFunctions; i < uint32(len(s.Functions)); i++ {
			fn := s.Function(i)
			fmt.Fprintf(out, "\nfunction %d (max stack %d):\n", i, fn.Code.MaxStackSize)
			fmt.Fprintln(out, wasm.Disassemble(fn.Code))
		}
	}
}
