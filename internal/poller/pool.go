package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNotDispatched marks a target that was never sent because the pool's
// context was cancelled first.
var ErrNotDispatched = errors.New("probe not dispatched: context cancelled")

// Target is one request to be made during a [Pool.FetchAll] run.
type Target struct {
	// Name identifies the target in logs.
	Name string

	// Request is the outbound request.
	Request Request

	// Timeout bounds the request, including the body read.
	Timeout time.Duration
}

// Pool fetches a batch of targets with bounded concurrency.
//
// Pool is the fan-out half of a monitoring cycle: every target is dispatched
// in order, at most maxConcurrency requests are in flight, and the results
// are returned indexed by target position so completion order never matters.
// A maxConcurrency of 1 probes targets strictly one at a time.
type Pool struct {
	client         *Client
	maxConcurrency int
	logger         *slog.Logger
}

// NewPool creates a [Pool] that issues requests through client.
//
// maxConcurrency values below 1 are treated as 1.
func NewPool(client *Client, maxConcurrency int, logger *slog.Logger) *Pool {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		client:         client,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// MaxConcurrency returns the number of requests allowed in flight at once.
func (p *Pool) MaxConcurrency() int {
	return p.maxConcurrency
}

// FetchAll fetches every target and returns one [Response] per target, in
// target order.
//
// Cancelling ctx stops dispatching: targets not yet started get a Response
// whose Error wraps [ErrNotDispatched]. Requests already in flight are not
// cancelled; each finishes or hits its own timeout.
func (p *Pool) FetchAll(ctx context.Context, targets []Target) []Response {
	results := make([]Response, len(targets))
	fetchCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(p.maxConcurrency)

	for i, target := range targets {
		if ctx.Err() != nil {
			for j := i; j < len(targets); j++ {
				results[j] = Response{Error: ErrNotDispatched}
			}
			break
		}

		g.Go(func() error {
			// each goroutine owns results[i]; no locking needed
			if ctx.Err() != nil {
				results[i] = Response{Error: ErrNotDispatched}
				return nil
			}
			results[i] = p.safeFetch(fetchCtx, target)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// safeFetch calls the client with panic recovery.
// If the transport panics, it logs the full stack trace with a correlation ID
// and returns a failed response with an error containing the ID.
func (p *Pool) safeFetch(ctx context.Context, target Target) (resp Response) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			p.logger.Error("probe panic",
				"correlation_id", correlationID,
				"endpoint", target.Name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			resp = Response{
				Latency: time.Since(start),
				Error:   fmt.Errorf("probe panic (correlation_id: %s)", correlationID),
			}
		}
	}()
	return p.client.Fetch(ctx, target.Request, target.Timeout)
}
