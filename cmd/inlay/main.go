// Command inlay evaluates JS/TS fragments against a persistent, per-file
// namespace: an editor-REPL engine with a CLI front end.
package main

func main() {
	Execute()
}
