package price

import (
	"context"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTransport replaces the HTTP client without needing a real server.
type fixedTransport struct {
	body    string
	code    int
	err     error
	lastURL string
}

func (ft *fixedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ft.lastURL = r.URL.String()
	if ft.err != nil {
		return nil, ft.err
	}
	return &http.Response{
		StatusCode: ft.code,
		Body:       io.NopCloser(strings.NewReader(ft.body)),
		Header:     make(http.Header),
	}, nil
}

func newMockFetcher(currency string, ft *fixedTransport) *Fetcher {
	f := NewFetcher(currency)
	f.client = &http.Client{Transport: ft}
	return f
}

func TestNewFetcherDefaultsToUSD(t *testing.T) {
	f := NewFetcher("")
	assert.Equal(t, "USD", f.Currency())
	assert.Equal(t, "EUR", NewFetcher("eur").Currency())
}

func TestGetPriceETH(t *testing.T) {
	ft := &fixedTransport{body: `{"ethereum":{"usd":2500.5}}`, code: http.StatusOK}
	f := newMockFetcher("USD", ft)

	p, err := f.GetPrice(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, 2500.5, p)
	assert.Contains(t, ft.lastURL, "ids=ethereum")
	assert.Contains(t, ft.lastURL, "vs_currencies=usd")
}

func TestGetPriceUnknownSymbol(t *testing.T) {
	f := newMockFetcher("usd", &fixedTransport{code: http.StatusOK})
	_, err := f.GetPrice(context.Background(), "DOGE")
	assert.Error(t, err)
}

func TestGetPriceMissingCurrency(t *testing.T) {
	f := newMockFetcher("eur", &fixedTransport{body: `{"ethereum":{"usd":1}}`, code: http.StatusOK})
	_, err := f.GetPrice(context.Background(), "ETH")
	assert.ErrorContains(t, err, "price not available")
}

func TestGetPriceHTTPError(t *testing.T) {
	f := newMockFetcher("usd", &fixedTransport{body: "rate limited", code: http.StatusTooManyRequests})
	_, err := f.GetPrice(context.Background(), "ETH")
	assert.ErrorContains(t, err, "HTTP 429")
}

func TestGetPriceTransportError(t *testing.T) {
	f := newMockFetcher("usd", &fixedTransport{err: errors.New("dial tcp: no route")})
	_, err := f.GetPrice(context.Background(), "ETH")
	assert.ErrorContains(t, err, "fetching prices")
}

func TestGetPriceBadJSON(t *testing.T) {
	f := newMockFetcher("usd", &fixedTransport{body: "{", code: http.StatusOK})
	_, err := f.GetPrice(context.Background(), "ETH")
	assert.ErrorContains(t, err, "parsing price response")
}

func TestValue(t *testing.T) {
	f := newMockFetcher("usd", &fixedTransport{body: `{"ethereum":{"usd":2000}}`, code: http.StatusOK})
	v, err := f.Value(context.Background(), "ETH", big.NewInt(50_000_000_000_000_000))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, v, 1e-9)
}

func TestWeiToFiat(t *testing.T) {
	assert.Equal(t, 0.0, WeiToFiat(nil, 3000))
	assert.InDelta(t, 3000.0, WeiToFiat(big.NewInt(1_000_000_000_000_000_000), 3000), 1e-9)
}
