package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/anindya384/Babil-ai-mobile/internal/metrics"
	"github.com/anindya384/Babil-ai-mobile/internal/provider"
)

// Dispatcher fans one request out to every registered adapter concurrently
// and joins on all of them. Each adapter runs under its own timeout bounded
// by the shared dispatch deadline; a slow or failing provider degrades its
// own result slot and nothing else.
type Dispatcher struct {
	adapters []provider.Adapter
	timeout  time.Duration
}

// NewDispatcher creates a dispatcher over the ordered adapter registry.
// timeout bounds the whole fan-out.
func NewDispatcher(adapters []provider.Adapter, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Dispatcher{adapters: adapters, timeout: timeout}
}

// Providers returns the registry's names in response order.
func (d *Dispatcher) Providers() []string {
	return provider.Names(d.adapters)
}

// Dispatch blocks until every adapter has settled or the dispatch deadline
// has passed, whichever is first. The returned results are index-addressed
// by registry position, so no re-ordering pass is needed and completion
// order never leaks into the response.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) AggregatedResponse {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	results := make([]ProviderResult, len(d.adapters))

	var wg sync.WaitGroup
	for i, a := range d.adapters {
		wg.Add(1)
		go func(i int, a provider.Adapter) {
			defer wg.Done()
			results[i] = d.invokeOne(ctx, a, req)
		}(i, a)
	}
	wg.Wait()

	return AggregatedResponse{Results: results}
}

// invokeOne runs a single adapter and settles its outcome. A panic inside
// an adapter settles that slot as failed instead of taking down the batch.
func (d *Dispatcher) invokeOne(ctx context.Context, a provider.Adapter, req Request) (res ProviderResult) {
	start := time.Now()
	res = ProviderResult{Provider: a.Name()}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("provider panicked", "provider", a.Name(), "panic", r)
			res.Status = StatusFailed
			res.Text = ""
			res.ErrorMessage = fmt.Sprintf("internal fault in %s adapter", a.Name())
		}
		metrics.ProviderRequestsTotal.WithLabelValues(a.Name(), string(res.Status)).Inc()
		metrics.ProviderRequestDuration.WithLabelValues(a.Name()).Observe(time.Since(start).Seconds())
	}()

	text, err := a.Invoke(ctx, req.Prompt, req.UserContext)
	switch {
	case err == nil:
		res.Status = StatusSucceeded
		res.Text = text
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		res.Status = StatusTimedOut
		res.ErrorMessage = "request timed out"
		slog.Warn("provider timed out", "provider", a.Name(), "elapsed", time.Since(start))
	default:
		res.Status = StatusFailed
		res.ErrorMessage = err.Error()
		slog.Warn("provider failed", "provider", a.Name(), "error", err)
	}
	return res
}
