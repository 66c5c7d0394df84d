package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/inlayhq/inlay/engine"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for fragment evaluation",
	Long: `Start an HTTP server that evaluates fragments on behalf of an editor
integration.

Endpoints:
  POST   /evaluate               Evaluate {code, modulePath} -> {result, stdout, stderr}
  GET    /namespaces             List namespaces the store currently holds
  DELETE /namespaces/{path}      Reset one namespace ({path} without its leading /)
  GET    /health                 Health check`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

type evaluateRequest struct {
	Code       string `json:"code"`
	ModulePath string `json:"modulePath"`
}

type evaluateResponse struct {
	Result any    `json:"result"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// captureStd redirects os.Stdout/os.Stderr through pipes for the duration
// of fn, so the HTTP transport can return per-call {stdout, stderr} fields
// instead of one shared stream.
func captureStd(fn func()) (stdout, stderr string) {
	origOut, origErr := os.Stdout, os.Stderr
	outR, outW, _ := os.Pipe()
	errR, errW, _ := os.Pipe()
	os.Stdout, os.Stderr = outW, errW

	done := make(chan struct{})
	var capturedOut, capturedErr string
	go func() {
		b, _ := io.ReadAll(outR)
		capturedOut = string(b)
		done <- struct{}{}
	}()
	go func() {
		b, _ := io.ReadAll(errR)
		capturedErr = string(b)
		done <- struct{}{}
	}()

	fn()

	os.Stdout, os.Stderr = origOut, origErr
	outW.Close()
	errW.Close()
	<-done
	<-done
	return capturedOut, capturedErr
}

func runServe(cmd *cobra.Command, args []string) {
	port, _ := cmd.Flags().GetInt("port")
	evalImports, _ := cmd.Root().PersistentFlags().GetBool("eval-imports")
	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")

	e := engine.New(engine.WithLoader(buildLoader(cmd)))
	mux := newMux(e, evalImports, debug)

	addr := fmt.Sprintf(":%d", port)
	fmt.Fprintf(os.Stderr, "inlay server listening on %s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newMux(e *engine.Engine, evalImports, debug bool) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/evaluate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req evaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.ModulePath == "" {
			http.Error(w, "modulePath required", http.StatusBadRequest)
			return
		}

		var resp evaluateResponse
		stdout, stderr := captureStd(func() {
			result, err := e.Evaluate(req.ModulePath, req.Code, evalImports, debug)
			if err != nil {
				resp.Result = err.Error()
				return
			}
			resp.Result = result
		})
		resp.Stdout = stdout
		resp.Stderr = stderr

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/namespaces", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(e.Store().Namespaces())
	})

	mux.HandleFunc("/namespaces/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/namespaces/")
		if path == "" {
			http.Error(w, "namespace path required", http.StatusBadRequest)
			return
		}
		// ServeMux redirects a doubled slash, so the absolute namespace path
		// arrives without its leading '/'.
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		e.ResetNamespace(path)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}
