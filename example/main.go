package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/pulsecheck"
	"github.com/jpalmerr/pulsecheck/example/mockapi"
)

const mockAddr = "127.0.0.1:9999"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// start the mock API (see mockapi)
	go func() {
		if err := http.ListenAndServe(mockAddr, mockapi.Handler(logger)); err != nil {
			logger.Error("mock server error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	base := "http://" + mockAddr
	var endpoints []pulsecheck.Endpoint
	for _, route := range []string{"fast", "slow", "flaky", "notfound"} {
		ep, err := pulsecheck.NewEndpoint(route, base+"/"+route)
		if err != nil {
			logger.Error("failed to create endpoint", "error", err)
			os.Exit(1)
		}
		endpoints = append(endpoints, ep)
	}

	// same mock, different domain: localhost and 127.0.0.1 are reported apart
	echo, err := pulsecheck.NewEndpoint("echo", "http://localhost:9999/echo",
		pulsecheck.WithMethod("POST"),
		pulsecheck.WithHeaders("Content-Type", "application/json"),
		pulsecheck.WithBody(`{"foo":"bar"}`),
	)
	if err != nil {
		logger.Error("failed to create endpoint", "error", err)
		os.Exit(1)
	}
	endpoints = append(endpoints, echo)

	m, err := pulsecheck.New(
		pulsecheck.WithEndpoints(endpoints...),
		pulsecheck.WithInterval(5*time.Second),
		pulsecheck.WithMaxConcurrency(2),
		pulsecheck.WithLogger(logger),
		pulsecheck.WithCycleCallback(func(r pulsecheck.CycleReport) {
			for domain, pct := range r.DomainPercentages() {
				fmt.Printf("%-12s %3d%%\n", domain, pct)
			}
		}),
	)
	if err != nil {
		logger.Error("failed to create monitor", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  pulsecheck demo: 5 endpoints across 2 domains, every 5s")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil {
		logger.Error("monitor error", "error", err)
		os.Exit(1)
	}
}
