package config

// Config holds all fundme configuration.
type Config struct {
	Network        string              `json:"network"`
	NetworkMode    string              `json:"network_mode"`  // "mainnet" | "testnet" | "local"
	RPCAlgorithm   string              `json:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	DefaultWallet  string              `json:"default_wallet"`
	MinFund        string              `json:"min_fund"` // decimal ETH
	Confirmations  uint64              `json:"confirmations"`
	WaitMode       string              `json:"wait_mode"`       // "mined" | "accepted"
	ConfirmTimeout int                 `json:"confirm_timeout"` // seconds
	PriceCurrency  string              `json:"price_currency"`
	CustomRPCs     map[string][]string `json:"custom_rpcs"`

	// Environment-only overrides, never written to config.json.
	RPCURL   string `json:"-"`
	Contract string `json:"-"`

	configDir string
}

// SyncConfig is the structure of sync.json.
type SyncConfig struct {
	Source     string `json:"source"`
	LastSynced string `json:"last_synced"`
}
