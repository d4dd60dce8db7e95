package rpc

import (
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Nodes more than this many blocks behind the highest head are skipped.
	staleBlockThreshold = 3
)

// Endpoint is one benchmarked RPC URL.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Healthy reports whether the endpoint answered its ping.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Picker selects an RPC endpoint according to the configured algorithm.
type Picker struct {
	algo Algorithm

	mu   sync.Mutex
	next int
}

// NewPicker creates a new Picker. Unknown algorithms behave as fastest.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// Pick selects an endpoint from the benchmarked list.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	healthy := make([]*Endpoint, 0, len(endpoints))
	for i := range endpoints {
		if endpoints[i].Healthy() {
			healthy = append(healthy, &endpoints[i])
		}
	}
	if len(healthy) == 0 {
		return nil, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmFailover:
		// Configured order wins; the first live node is used.
		return healthy[0], nil
	case AlgorithmRoundRobin:
		p.mu.Lock()
		defer p.mu.Unlock()
		e := healthy[p.next%len(healthy)]
		p.next++
		return e, nil
	default:
		return fastest(healthy), nil
	}
}

// fastest returns the lowest-latency node among those near the chain head.
func fastest(healthy []*Endpoint) *Endpoint {
	var head uint64
	for _, e := range healthy {
		head = max(head, e.BlockNumber)
	}

	fresh := slices.DeleteFunc(slices.Clone(healthy), func(e *Endpoint) bool {
		return head-e.BlockNumber > staleBlockThreshold
	})
	slices.SortStableFunc(fresh, func(a, b *Endpoint) int {
		return int(a.Latency - b.Latency)
	})
	return fresh[0]
}
