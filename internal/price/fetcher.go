package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Fetcher retrieves native token prices from CoinGecko.
type Fetcher struct {
	client   *http.Client
	baseURL  string
	currency string
}

// NewFetcher creates a price fetcher quoting in currency (default USD).
func NewFetcher(currency string) *Fetcher {
	if currency == "" {
		currency = "usd"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  defaultBaseURL,
		currency: strings.ToLower(currency),
	}
}

// Currency returns the upper-case quote currency.
func (f *Fetcher) Currency() string {
	return strings.ToUpper(f.currency)
}

// coinGeckoIDs maps native currency symbols to CoinGecko coin IDs.
var coinGeckoIDs = map[string]string{
	"ETH": "ethereum",
	"POL": "polygon-ecosystem-token",
	"BNB": "binancecoin",
}

// GetPrice returns the price of one unit of the native token symbol.
func (f *Fetcher) GetPrice(ctx context.Context, symbol string) (float64, error) {
	id, ok := coinGeckoIDs[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("no price source for %s", symbol)
	}
	prices, err := f.fetchBatch(ctx, []string{id})
	if err != nil {
		return 0, err
	}
	p, ok := prices[id]
	if !ok {
		return 0, fmt.Errorf("price not available for: %s", id)
	}
	return p, nil
}

// Value converts a wei amount of symbol into the quote currency.
func (f *Fetcher) Value(ctx context.Context, symbol string, wei *big.Int) (float64, error) {
	p, err := f.GetPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return WeiToFiat(wei, p), nil
}

// WeiToFiat multiplies a wei amount by a per-ether price.
func WeiToFiat(wei *big.Int, price float64) float64 {
	if wei == nil {
		return 0
	}
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	v, _ := new(big.Float).Mul(eth, big.NewFloat(price)).Float64()
	return v
}

func (f *Fetcher) fetchBatch(ctx context.Context, ids []string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		f.baseURL, strings.Join(ids, ","), f.currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching prices: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading price response: %w", err)
	}

	// {"ethereum":{"usd":1234.56}, ...}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing price response: %w", err)
	}

	prices := make(map[string]float64, len(raw))
	for id, quotes := range raw {
		if p, ok := quotes[f.currency]; ok {
			prices[id] = p
		}
	}
	return prices, nil
}
