package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/inlayhq/inlay/engine"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive REPL with a persistent namespace",
	Long: `Start an interactive REPL (Read-Eval-Print Loop) session.

Every line evaluates against the same namespace, so earlier declarations,
exports and imports stay visible to later ones, the way an editor's
"run selection" REPL keeps a file's state alive between runs.

Features:
  - Command history (up/down arrows)
  - Line editing (left/right, backspace, delete)
  - History search (Ctrl+R)
  - Multi-line input (end line with \)

Type 'exit' or 'quit' to end the session, or press Ctrl+D.`,
	Run: runRepl,
}

func init() {
	replCmd.Flags().String("namespace", "", "namespace the session evaluates against (default: a synthetic path)")
	replCmd.Flags().String("history", "", "history file path (default: ~/.inlay_history)")
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) {
	ns, _ := cmd.Flags().GetString("namespace")
	historyFile, _ := cmd.Flags().GetString("history")
	evalImports, _ := cmd.Root().PersistentFlags().GetBool("eval-imports")
	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")

	if ns == "" {
		ns = filepath.Join(mustGetwd(), "<repl>.js")
	}
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".inlay_history")
	}

	e := engine.New(engine.WithLoader(buildLoader(cmd)))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            ">>> ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Fprintf(os.Stderr, "inlay REPL on %s (type 'exit' to quit, Ctrl+D to exit)\n", ns)

	var multiLine strings.Builder
	inMultiLine := false

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if inMultiLine {
					multiLine.Reset()
					inMultiLine = false
					rl.SetPrompt(">>> ")
					continue
				}
				continue
			}
			if err == io.EOF {
				fmt.Println()
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			break
		}

		if strings.HasSuffix(line, "\\") {
			multiLine.WriteString(strings.TrimSuffix(line, "\\"))
			multiLine.WriteString("\n")
			inMultiLine = true
			rl.SetPrompt("... ")
			continue
		}

		if inMultiLine {
			multiLine.WriteString(line)
			line = multiLine.String()
			multiLine.Reset()
			inMultiLine = false
			rl.SetPrompt(">>> ")
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result, err := e.Evaluate(ns, line, evalImports, debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if result != nil {
			fmt.Println(result)
		}
	}
}
