// check-deployments: reads every FundMe deployment in contracts.json, queries
// the contract balance on its network in parallel and prints a summary table.
//
// Run from the module root:
//
//	go run ./scripts/check-deployments
//	FUNDME_CONFIG_DIR=/tmp/fundme go run ./scripts/check-deployments
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/Mohsinsiddi/fundme/internal/chain"
	"github.com/Mohsinsiddi/fundme/internal/config"
	"github.com/Mohsinsiddi/fundme/internal/contract"
	"github.com/ethereum/go-ethereum/common"
)

const rpcTimeout = 12 * time.Second

type result struct {
	name    string
	network string
	address string
	balance string
	symbol  string
	err     string
}

func main() {
	cfg, err := config.Load(os.Getenv("FUNDME_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		os.Exit(1)
	}
	reg := contract.NewRegistry(filepath.Join(cfg.Dir(), "contracts.json"))
	if err := reg.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "loading contracts:", err)
		os.Exit(1)
	}

	entries := reg.All()
	if len(entries) == 0 {
		fmt.Println("no deployments in", cfg.Dir())
		return
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []result
	)
	for _, e := range entries {
		wg.Add(1)
		go func(e *contract.Entry) {
			defer wg.Done()
			r := check(e)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}(e)
	}
	wg.Wait()

	printTable(results)
}

func check(e *contract.Entry) result {
	r := result{name: e.Name, network: e.Network, address: shortAddr(e.Address), balance: "-"}

	c, mode, ok := resolveNetwork(e.Network)
	if !ok {
		r.err = "unknown network"
		return r
	}
	r.symbol = c.NativeCurrency

	rpcs := c.RPCs(mode)
	if len(rpcs) == 0 {
		r.err = "no RPC"
		return r
	}

	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()

	client, err := chain.Dial(ctx, rpcs[0])
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	defer client.Close()

	if _, _, err := client.Ping(ctx); err != nil {
		r.err = "unreachable"
		return r
	}
	wei, err := client.BalanceAt(ctx, common.HexToAddress(e.Address), nil)
	if err != nil {
		r.err = shortErr(err)
		return r
	}
	r.balance = chain.FormatEther(wei)
	return r
}

// resolveNetwork maps a deployment key back to its chain and mode.
func resolveNetwork(key string) (*chain.Chain, string, bool) {
	reg := chain.NewRegistry()
	for _, mode := range []string{"mainnet", "testnet", "local"} {
		for _, c := range reg.All() {
			if c.DeploymentKey(mode) == key {
				return &c, mode, true
			}
		}
	}
	return nil, "", false
}

func printTable(results []result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.network != b.network {
			return a.network < b.network
		}
		return a.name < b.name
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tNETWORK\tADDRESS\tBALANCE\tSYMBOL\tNOTE")
	fmt.Fprintln(w, strings.Repeat("-", 10)+"\t"+
		strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 14)+"\t"+
		strings.Repeat("-", 24)+"\t"+
		strings.Repeat("-", 6)+"\t"+
		strings.Repeat("-", 12))
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.name, r.network, r.address, r.balance, r.symbol, r.err)
	}
	w.Flush()
}

func shortAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func shortErr(err error) string {
	s := err.Error()
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}
