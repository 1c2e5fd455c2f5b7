// Command occ is the Octo-8 toolchain front end: it compiles a C-like
// source file (or assembles an .asm file) and writes the binary, hex
// and map artifacts next to it. All translation lives in pkg/compiler
// and pkg/asm; this command only handles files and flags.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"octo8/pkg/compiler"
)

var (
	flagAsm    bool
	flagAST    bool
	flagOutDir string
)

var rootCmd = &cobra.Command{
	Use:   "occ sourceFile",
	Short: "Compile Octo-8 C-like source or assembly to machine code",
	Long: `occ translates a C-like source file into Octo-8 machine code by way
of generated assembly, or assembles a .asm file directly. It writes
<name>.bin, <name>.hex (Intel HEX) and <name>.map beside the source,
plus <name>.asm when compiling from the high-level language.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().BoolVar(&flagAsm, "asm", false, "treat the input as assembly regardless of extension")
	rootCmd.Flags().BoolVar(&flagAST, "ast", false, "dump the parsed AST to stderr before compiling")
	rootCmd.Flags().StringVarP(&flagOutDir, "out", "o", "", "directory for output artifacts (default: source directory)")
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	src := string(data)

	ext := strings.ToLower(filepath.Ext(path))
	isAsm := flagAsm || ext == ".asm" || ext == ".s"
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if flagAST && !isAsm {
		prog, errs := compiler.Parse(compiler.Lex(src))
		pp.Fprintln(os.Stderr, prog)
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "parse error:", e)
		}
	}

	result := compiler.Compile(src, compiler.Options{Assembly: isAsm, Name: name})
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("compilation failed with %d error(s)", len(result.Errors))
	}

	outDir := flagOutDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	for _, a := range result.Artifacts {
		dest := filepath.Join(outDir, a.Name)
		if err := os.WriteFile(dest, a.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", dest, len(a.Data))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
