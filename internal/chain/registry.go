package chain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrChainNotFound is returned when a chain is not in the registry.
	ErrChainNotFound = errors.New("chain not found")
	// ErrChainMismatch is returned when a node serves a different chain than
	// the one selected.
	ErrChainMismatch = errors.New("node is on a different chain")
)

// LocalRPC is the endpoint used in "local" mode (Hardhat, Anvil, Ganache).
const LocalRPC = "http://127.0.0.1:8545"

// Chain holds all metadata for a single EVM network.
type Chain struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	ChainID         int64    `json:"chain_id"`
	NativeCurrency  string   `json:"native_currency"`
	MainnetRPCs     []string `json:"mainnet_rpcs"`
	TestnetRPCs     []string `json:"testnet_rpcs"`
	MainnetExplorer string   `json:"mainnet_explorer"`
	TestnetExplorer string   `json:"testnet_explorer"`
	TestnetName     string   `json:"testnet_name"`
}

// Registry is the chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[int64]*Chain
}

// NewRegistry returns the registry of supported networks.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[int64]*Chain, len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.ChainID] = c
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "base", "ethereum").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by its numeric mainnet chain ID.
func (r *Registry) GetByChainID(id int64) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// RPCs returns the RPC list for the given mode ("mainnet", "testnet" or "local").
func (c *Chain) RPCs(mode string) []string {
	switch mode {
	case "testnet":
		return c.TestnetRPCs
	case "local":
		return []string{LocalRPC}
	}
	return c.MainnetRPCs
}

// Explorer returns the explorer URL for the given mode; local nodes have none.
func (c *Chain) Explorer(mode string) string {
	switch mode {
	case "testnet":
		return c.TestnetExplorer
	case "local":
		return ""
	}
	return c.MainnetExplorer
}

// TxURL links a transaction on the explorer for mode, or "" when there is none.
func (c *Chain) TxURL(mode, hash string) string {
	base := c.Explorer(mode)
	if base == "" {
		return ""
	}
	return base + "/tx/" + hash
}

// VerifyNode checks the chain ID reported by a node against the selected
// chain. Mainnet nodes must report the chain's own ID, testnet nodes must not
// report any known mainnet ID, and local nodes are not checked.
func (r *Registry) VerifyNode(c *Chain, mode string, id int64) error {
	switch mode {
	case "local":
		return nil
	case "testnet":
		if got, err := r.GetByChainID(id); err == nil && got.Name != "localhost" {
			return fmt.Errorf("%w: %s selected but node reports %s mainnet (chain id %d)",
				ErrChainMismatch, c.NetworkLabel(mode), got.DisplayName, id)
		}
		return nil
	}
	got, err := r.GetByChainID(id)
	if err != nil || got.Name != c.Name {
		return fmt.Errorf("%w: %s expects chain id %d, node reports %d",
			ErrChainMismatch, c.DisplayName, c.ChainID, id)
	}
	return nil
}

// NetworkLabel is the human name of the network in the given mode.
func (c *Chain) NetworkLabel(mode string) string {
	switch mode {
	case "testnet":
		return c.TestnetName
	case "local":
		return c.DisplayName + " (local)"
	}
	return c.DisplayName
}

// DeploymentKey names the network in contracts.json and deployment
// manifests: the chain name on mainnet, the testnet name in kebab case
// ("sepolia", "base-sepolia") and "localhost" for a local node.
func (c *Chain) DeploymentKey(mode string) string {
	switch mode {
	case "testnet":
		return strings.ToLower(strings.ReplaceAll(c.TestnetName, " ", "-"))
	case "local":
		return "localhost"
	}
	return c.Name
}

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "ethereum", DisplayName: "Ethereum", ChainID: 1, NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://ethereum-sepolia-rpc.publicnode.com", "https://sepolia.gateway.tenderly.co"},
			MainnetExplorer: "https://etherscan.io",
			TestnetExplorer: "https://sepolia.etherscan.io",
			TestnetName:     "Sepolia",
		},
		{
			Name: "base", DisplayName: "Base", ChainID: 8453, NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://mainnet.base.org", "https://base.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia.base.org"},
			MainnetExplorer: "https://basescan.org",
			TestnetExplorer: "https://sepolia.basescan.org",
			TestnetName:     "Base Sepolia",
		},
		{
			Name: "arbitrum", DisplayName: "Arbitrum", ChainID: 42161, NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://arb1.arbitrum.io/rpc", "https://arbitrum.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia-rollup.arbitrum.io/rpc"},
			MainnetExplorer: "https://arbiscan.io",
			TestnetExplorer: "https://sepolia.arbiscan.io",
			TestnetName:     "Arb Sepolia",
		},
		{
			Name: "optimism", DisplayName: "Optimism", ChainID: 10, NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://mainnet.optimism.io", "https://optimism.llamarpc.com"},
			TestnetRPCs:     []string{"https://sepolia.optimism.io"},
			MainnetExplorer: "https://optimistic.etherscan.io",
			TestnetExplorer: "https://sepolia-optimism.etherscan.io",
			TestnetName:     "OP Sepolia",
		},
		{
			Name: "polygon", DisplayName: "Polygon", ChainID: 137, NativeCurrency: "POL",
			MainnetRPCs:     []string{"https://polygon-bor-rpc.publicnode.com", "https://polygon-pokt.nodies.app"},
			TestnetRPCs:     []string{"https://rpc-amoy.polygon.technology"},
			MainnetExplorer: "https://polygonscan.com",
			TestnetExplorer: "https://amoy.polygonscan.com",
			TestnetName:     "Amoy",
		},
		{
			Name: "bnb", DisplayName: "BNB Chain", ChainID: 56, NativeCurrency: "BNB",
			MainnetRPCs:     []string{"https://bsc-dataseed.binance.org", "https://bsc-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://data-seed-prebsc-1-s1.binance.org:8545"},
			MainnetExplorer: "https://bscscan.com",
			TestnetExplorer: "https://testnet.bscscan.com",
			TestnetName:     "BSC Testnet",
		},
		{
			Name: "linea", DisplayName: "Linea", ChainID: 59144, NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://rpc.linea.build", "https://linea-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://rpc.sepolia.linea.build"},
			MainnetExplorer: "https://lineascan.build",
			TestnetExplorer: "https://sepolia.lineascan.build",
			TestnetName:     "Linea Sepolia",
		},
		{
			Name: "scroll", DisplayName: "Scroll", ChainID: 534352, NativeCurrency: "ETH",
			MainnetRPCs:     []string{"https://rpc.scroll.io", "https://scroll-rpc.publicnode.com"},
			TestnetRPCs:     []string{"https://sepolia-rpc.scroll.io"},
			MainnetExplorer: "https://scrollscan.com",
			TestnetExplorer: "https://sepolia.scrollscan.com",
			TestnetName:     "Scroll Sepolia",
		},
		// Hardhat / Anvil dev node. Every mode resolves to the local endpoint.
		{
			Name: "localhost", DisplayName: "Localhost", ChainID: 31337, NativeCurrency: "ETH",
			MainnetRPCs: []string{LocalRPC},
			TestnetRPCs: []string{LocalRPC},
			TestnetName: "Localhost",
		},
	}
}
