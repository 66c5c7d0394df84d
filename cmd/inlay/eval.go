package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/inlayhq/inlay/engine"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Evaluate a fragment against a namespace",
	Long: `Evaluate a JS/TS fragment against the namespace named by its file path.

Code can be provided via:
  - File argument: inlay eval script.js
  - Inline flag: inlay eval -c '1 + 1'
  - Stdin: echo '1 + 1' | inlay eval`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEval,
}

func init() {
	addEvalFlags(evalCmd)
	rootCmd.AddCommand(evalCmd)
}

func addEvalFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "code to evaluate")
	cmd.Flags().String("namespace", "", "namespace for inline/stdin code (default: a synthetic path)")
}

func runEval(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")
	ns, _ := cmd.Flags().GetString("namespace")
	evalImports, _ := cmd.Flags().GetBool("eval-imports")
	debug, _ := cmd.Flags().GetBool("debug")

	var source string

	switch {
	case code != "":
		source = code
		if ns == "" {
			ns = filepath.Join(mustGetwd(), "<eval>.js")
		}
	case len(args) > 0:
		ns = mustAbs(args[0])
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
	default:
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			cmd.Help()
			return
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
		if source == "" {
			cmd.Help()
			return
		}
		if ns == "" {
			ns = filepath.Join(mustGetwd(), "<stdin>.js")
		}
	}

	e := engine.New(engine.WithLoader(buildLoader(cmd)))

	result, err := e.Evaluate(ns, source, evalImports, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if result != nil {
		fmt.Println(result)
	}
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
