package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ifj25lang/ifj25c/internal/jsondump"
	"github.com/ifj25lang/ifj25c/internal/pipeline"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	dumpJSON bool
	trace    bool
)

var rootCmd = &cobra.Command{
	Use:   "ifj25c [source-file]",
	Short: "IFJ25 front-end compiler",
	Long: `ifj25c lexes, parses, and semantically checks a single IFJ25
source file, reporting the first error found with its source-level
exit code, or nothing on success.`,
	Version: Version,
	Args:    cobra.ExactArgs(1),
	RunE:    runCompile,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&dumpJSON, "dump-json", false, "dump the AST and symbol table as JSON instead of printing nothing on success")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "trace lexer/parser progress to stderr")
}

func runCompile(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		exitWithError("cannot read %s: %v", path, err)
	}

	result, cerr := pipeline.Run(string(src), pipeline.WithTracing(trace))
	if cerr != nil {
		fmt.Fprintln(os.Stderr, cerr.WithSource(string(src), path).Format(false))
		os.Exit(cerr.ExitCode())
	}

	if dumpJSON {
		astJSON, err := jsondump.AST(result.AST)
		if err != nil {
			return fmt.Errorf("ifj25c: dumping AST: %w", err)
		}
		symJSON, err := jsondump.SymbolTable(result.Global)
		if err != nil {
			return fmt.Errorf("ifj25c: dumping symbol table: %w", err)
		}
		fmt.Printf(`{"ast":%s,"symtable":%s}`+"\n", astJSON, symJSON)
	}

	return nil
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
