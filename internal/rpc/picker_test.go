package rpc_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Mohsinsiddi/fundme/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(url string, latency time.Duration, block uint64) rpc.Endpoint {
	return rpc.Endpoint{URL: url, Latency: latency, BlockNumber: block}
}

func down(url string) rpc.Endpoint {
	return rpc.Endpoint{URL: url, Err: errors.New("connection refused")}
}

func TestPickerSelectsFastest(t *testing.T) {
	endpoints := []rpc.Endpoint{
		up("http://slow.rpc", 200*time.Millisecond, 100),
		up("http://fast.rpc", 30*time.Millisecond, 100),
		up("http://medium.rpc", 80*time.Millisecond, 100),
	}

	winner, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://fast.rpc", winner.URL)
}

func TestPickerDiscardsStaleNodes(t *testing.T) {
	endpoints := []rpc.Endpoint{
		up("http://fresh.rpc", 50*time.Millisecond, 1000),
		up("http://stale.rpc", 10*time.Millisecond, 990),
	}

	winner, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://fresh.rpc", winner.URL, "stale node should be discarded even if faster")
}

func TestPickerKeepsNodesWithinThreshold(t *testing.T) {
	endpoints := []rpc.Endpoint{
		up("http://head.rpc", 50*time.Millisecond, 1000),
		up("http://close.rpc", 10*time.Millisecond, 997),
	}

	winner, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://close.rpc", winner.URL)
}

func TestPickerFastestSkipsDown(t *testing.T) {
	endpoints := []rpc.Endpoint{down("http://dead.rpc"), up("http://ok.rpc", time.Second, 5)}

	winner, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://ok.rpc", winner.URL)
}

func TestPickerRoundRobinCycles(t *testing.T) {
	endpoints := []rpc.Endpoint{
		up("http://rpc1", 0, 100),
		down("http://rpc-down"),
		up("http://rpc2", 0, 100),
	}

	picker := rpc.NewPicker(rpc.AlgorithmRoundRobin)
	var urls []string
	for range 4 {
		e, err := picker.Pick(endpoints)
		require.NoError(t, err)
		urls = append(urls, e.URL)
	}
	assert.Equal(t, []string{"http://rpc1", "http://rpc2", "http://rpc1", "http://rpc2"}, urls)
}

func TestPickerFailover(t *testing.T) {
	endpoints := []rpc.Endpoint{
		down("http://primary"),
		up("http://secondary", 900*time.Millisecond, 100),
		up("http://tertiary", 10*time.Millisecond, 100),
	}

	winner, err := rpc.NewPicker(rpc.AlgorithmFailover).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://secondary", winner.URL)
}

func TestPickerErrorsWhenAllDown(t *testing.T) {
	for _, algo := range []rpc.Algorithm{rpc.AlgorithmFastest, rpc.AlgorithmRoundRobin, rpc.AlgorithmFailover} {
		_, err := rpc.NewPicker(algo).Pick([]rpc.Endpoint{down("http://a"), down("http://b")})
		assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC, string(algo))
	}
}

func TestPickerEmptyEndpoints(t *testing.T) {
	_, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(nil)
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}
