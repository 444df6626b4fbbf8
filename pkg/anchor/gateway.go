package anchor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultCallTimeout bounds each backend call made through the gateway
// when the caller's context carries no earlier deadline.
const DefaultCallTimeout = 30 * time.Second

// GatewayConfig tunes the gateway. Credentials live inside each backend
// client, passed explicitly at construction; the gateway holds none.
type GatewayConfig struct {
	// CallTimeout is the per-backend budget for a single Status or Submit
	// call. Zero selects DefaultCallTimeout.
	CallTimeout time.Duration
}

// Gateway routes status and submission calls to registered settlement
// backends. Each backend's call runs in its own failure domain with its
// own timeout budget: one ledger timing out never blocks or affects the
// others. No cross-ledger transaction exists; a batch may succeed on one
// ledger and fail or never be attempted on another.
type Gateway struct {
	backends    map[BackendKind]Backend
	callTimeout time.Duration
}

// StatusOutcome is one backend's answer in a fan-out status poll.
type StatusOutcome struct {
	Status Status
	Err    error
}

// SubmitOutcome is one backend's answer in a fan-out submission.
type SubmitOutcome struct {
	Result SubmitResult
	Err    error
}

// NewGateway creates a new Gateway over the given backends.
func NewGateway(config GatewayConfig, backends ...Backend) (*Gateway, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("at least one backend is required")
	}

	registered := make(map[BackendKind]Backend, len(backends))
	for _, backend := range backends {
		kind := backend.Kind()
		switch kind {
		case BackendDAG, BackendAccount, BackendUTXO:
		default:
			return nil, fmt.Errorf("unsupported backend kind %q", kind)
		}
		if _, duplicate := registered[kind]; duplicate {
			return nil, fmt.Errorf("duplicate backend for kind %q", kind)
		}
		registered[kind] = backend
	}

	callTimeout := config.CallTimeout
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}

	return &Gateway{
		backends:    registered,
		callTimeout: callTimeout,
	}, nil
}

// Kinds returns the backend kinds registered with the gateway.
func (g *Gateway) Kinds() []BackendKind {
	kinds := make([]BackendKind, 0, len(g.backends))
	for _, kind := range []BackendKind{BackendDAG, BackendAccount, BackendUTXO} {
		if _, ok := g.backends[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Status polls a single backend's connectivity and health.
func (g *Gateway) Status(ctx context.Context, kind BackendKind) (Status, error) {
	backend, err := g.backend(kind)
	if err != nil {
		return Status{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	return backend.Status(callCtx)
}

// Submit anchors a batch of record identifiers to a single backend and
// returns its transaction reference. A backend-reported rejection comes
// back as a *SubmitError with the backend's message verbatim; nothing is
// retried here.
func (g *Gateway) Submit(ctx context.Context, kind BackendKind, recordIDs []string) (SubmitResult, error) {
	backend, err := g.backend(kind)
	if err != nil {
		return SubmitResult{}, err
	}
	if _, err := BatchPayload(recordIDs); err != nil {
		return SubmitResult{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	result, err := backend.Submit(callCtx, recordIDs)
	if err != nil {
		return SubmitResult{}, err
	}
	if !result.OK {
		return result, &SubmitError{Backend: kind, Message: result.ErrorMessage}
	}
	return result, nil
}

// StatusAll polls every registered backend concurrently. Each backend gets
// its own timeout budget carved from ctx.
func (g *Gateway) StatusAll(ctx context.Context) map[BackendKind]StatusOutcome {
	outcomes := make(map[BackendKind]StatusOutcome, len(g.backends))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for kind := range g.backends {
		wg.Add(1)
		go func(kind BackendKind) {
			defer wg.Done()
			status, err := g.Status(ctx, kind)
			mu.Lock()
			outcomes[kind] = StatusOutcome{Status: status, Err: err}
			mu.Unlock()
		}(kind)
	}

	wg.Wait()
	return outcomes
}

// SubmitAll anchors the same batch to every registered backend
// concurrently and reports each outcome separately. There is no atomicity
// across ledgers: callers must treat each outcome on its own.
func (g *Gateway) SubmitAll(ctx context.Context, recordIDs []string) map[BackendKind]SubmitOutcome {
	outcomes := make(map[BackendKind]SubmitOutcome, len(g.backends))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for kind := range g.backends {
		wg.Add(1)
		go func(kind BackendKind) {
			defer wg.Done()
			result, err := g.Submit(ctx, kind, recordIDs)
			mu.Lock()
			outcomes[kind] = SubmitOutcome{Result: result, Err: err}
			mu.Unlock()
		}(kind)
	}

	wg.Wait()
	return outcomes
}

func (g *Gateway) backend(kind BackendKind) (Backend, error) {
	backend, ok := g.backends[kind]
	if !ok {
		return nil, fmt.Errorf("no backend registered for kind %q", kind)
	}
	return backend, nil
}
