// Standalone mock server for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/pulsecheck monitor example/endpoints.yaml
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jpalmerr/pulsecheck/example/mockapi"
)

const addr = ":9999"

func main() {
	fmt.Println("Mock server starting on " + addr)
	fmt.Println("Routes: /fast /slow /flaky /notfound /echo")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if err := http.ListenAndServe(addr, mockapi.Handler(slog.Default())); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
