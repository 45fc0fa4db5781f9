// cmd/factor-server/main.go — Standalone HTTP tool server for multifactor
//
// Exposes the factorization engine to agent frameworks and CAS front ends.
//
// Usage:
//   go run cmd/factor-server/main.go -port 8080 -verbose
//
// Generic tool endpoint:  POST /tool    {"tool": "...", "params": {...}}
// Factor shorthand:       POST /factor  wire polynomial (or {"expr": ...})
// Tool listing:           GET  /tools
// Schema endpoint:        GET  /schema
// Health endpoint:        GET  /health
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	multifactor "github.com/njchilds90/multifactor"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var toolNames = []string{"factor", "squarefree", "gcd", "divexact", "content"}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	verbose := flag.Bool("verbose", false, "Log every tool call with its duration")
	flag.Parse()

	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	// decodeBody reads one strict JSON value into dst, rejecting oversized
	// bodies, unknown fields, and trailing data.
	decodeBody := func(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return false
		}
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return false
		}
		return true
	}

	serve := func(w http.ResponseWriter, req multifactor.ToolRequest) {
		start := time.Now()
		resp := multifactor.HandleToolCall(req)
		if *verbose {
			outcome := "ok"
			if resp.Error != "" {
				outcome = "error: " + resp.Error
			}
			log.Printf("tool=%s elapsed=%s %s", req.Tool, time.Since(start).Round(time.Microsecond), outcome)
		}
		writeJSON(w, http.StatusOK, resp)
	}

	recoverHandler := func(name string, h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("panic in %s: %v\n%s", name, rec, string(debug.Stack()))
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			h(w, r)
		}
	}

	// POST /tool — generic tool call
	mux.HandleFunc("/tool", recoverHandler("/tool", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req multifactor.ToolRequest
		if !decodeBody(w, r, &req) {
			return
		}
		serve(w, req)
	}))

	// POST /factor — shorthand: the body is the wire polynomial itself
	mux.HandleFunc("/factor", recoverHandler("/factor", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var poly map[string]interface{}
		if !decodeBody(w, r, &poly) {
			return
		}
		serve(w, multifactor.ToolRequest{
			Tool:   "factor",
			Params: map[string]interface{}{"poly": poly},
		})
	}))

	// GET /tools — the tool names this server dispatches
	mux.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"tools": toolNames})
	})

	// GET /schema — full tool schema for agent registration
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, multifactor.MCPToolSpec())
	})

	// GET /health — liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("multifactor tool server listening on %s", addr)
	log.Printf("  POST /tool   — execute a tool call")
	log.Printf("  POST /factor — factor a wire polynomial directly")
	log.Printf("  GET  /tools  — tool names")
	log.Printf("  GET  /schema — tool schema for agent registration")
	log.Printf("  GET  /health — health check")

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
