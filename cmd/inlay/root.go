package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/inlayhq/inlay/builtin"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inlay [file]",
	Short: "JS/TS fragment evaluator for editor REPLs",
	Long: `inlay evaluates JavaScript/TypeScript fragments one at a time against a
persistent per-file namespace, the way an editor's "run selection" REPL does.

Run a fragment from a file, an inline string, or stdin. Each fragment's
top-level bindings, exports, and imports are folded into its namespace so a
later fragment can see them.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEval, // default to eval command behavior
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("eval-imports", true, "recursively evaluate user-module imports")
	rootCmd.PersistentFlags().Bool("debug", false, "dump rewritten source and scope keys to stderr")
	rootCmd.PersistentFlags().StringSlice("allow-host", nil, "allow http to host (repeatable)")
	rootCmd.PersistentFlags().StringSlice("mount", nil, "mount virtual:host:mode for fs access (repeatable)")

	addEvalFlags(rootCmd)
}

func parseMount(spec string) (builtin.Mount, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return builtin.Mount{}, fmt.Errorf("invalid mount spec %q (expected virtual:host:mode)", spec)
	}

	var mode builtin.MountMode
	switch parts[2] {
	case "ro":
		mode = builtin.MountReadOnly
	case "rw":
		mode = builtin.MountReadWrite
	case "rwc":
		mode = builtin.MountReadWriteCreate
	default:
		return builtin.Mount{}, fmt.Errorf("invalid mount mode %q (expected ro, rw, or rwc)", parts[2])
	}

	return builtin.Mount{VirtualPath: parts[0], HostPath: parts[1], Mode: mode}, nil
}

// buildLoader constructs the host module loader flags shared by eval, repl
// and serve: allowed hosts for `http`, mounts for `fs`.
func buildLoader(cmd *cobra.Command) *builtin.Loader {
	allowedHosts, _ := cmd.Flags().GetStringSlice("allow-host")
	mountSpecs, _ := cmd.Flags().GetStringSlice("mount")

	var mounts []builtin.Mount
	for _, spec := range mountSpecs {
		m, err := parseMount(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		mounts = append(mounts, m)
	}

	return builtin.NewLoader(builtin.Config{
		Mounts:       mounts,
		AllowedHosts: allowedHosts,
		Argv:         os.Args,
		Env:          envMap(),
	})
}

func envMap() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			out[kv[:i]] = kv[i+1:]
		}
	}
	return out
}
