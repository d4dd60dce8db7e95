package rpc

import (
	"context"
	"sync"

	"github.com/Mohsinsiddi/fundme/internal/chain"
)

// Benchmark pings every URL in parallel and returns one Endpoint per URL in
// the input order.
func Benchmark(ctx context.Context, urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = ping(ctx, url)
		}()
	}

	wg.Wait()
	return out
}

func ping(ctx context.Context, url string) Endpoint {
	c, err := chain.Dial(ctx, url)
	if err != nil {
		return Endpoint{URL: url, Err: err}
	}
	defer c.Close()

	latency, block, err := c.Ping(ctx)
	return Endpoint{URL: url, Latency: latency, BlockNumber: block, Err: err}
}

// Select returns the best URL for the named algorithm ("" means fastest).
// A single candidate is returned without being pinged.
func Select(ctx context.Context, urls []string, algorithm string) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	algo := Algorithm(algorithm)
	if algo == "" {
		algo = AlgorithmFastest
	}
	winner, err := NewPicker(algo).Pick(Benchmark(ctx, urls))
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
