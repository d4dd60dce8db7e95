package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultNetwork       = "ethereum"
	defaultMode          = "testnet"
	defaultAlgorithm     = "fastest"
	defaultConfirmations = 1
	defaultWaitMode      = "mined"
	defaultCurrency      = "USD"

	configFile = "config.json"
	syncFile   = "sync.json"
)

// ErrUnknownKey is returned by Set for keys that are not settable.
var ErrUnknownKey = errors.New("unknown config key")

// Load reads config from dir (or creates defaults). dir defaults to ~/.fundme.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".fundme")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return saveJSON(filepath.Join(c.configDir, configFile), c)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// ConfirmWait returns confirm_timeout as a duration.
func (c *Config) ConfirmWait() time.Duration {
	return time.Duration(c.ConfirmTimeout) * time.Second
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// Set assigns a single key from its string form, validating enumerated and
// numeric values. It does not persist; call Save afterwards.
func (c *Config) Set(key, value string) error {
	switch key {
	case "network":
		c.Network = value
	case "network_mode":
		if !slices.Contains(NetworkModes, value) {
			return fmt.Errorf("network_mode must be one of %s", strings.Join(NetworkModes, ", "))
		}
		c.NetworkMode = value
	case "rpc_algorithm":
		if !slices.Contains(RPCAlgorithms, value) {
			return fmt.Errorf("rpc_algorithm must be one of %s", strings.Join(RPCAlgorithms, ", "))
		}
		c.RPCAlgorithm = value
	case "default_wallet":
		c.DefaultWallet = value
	case "min_fund":
		if _, ok := new(big.Rat).SetString(value); !ok {
			return fmt.Errorf("min_fund %q is not a decimal number", value)
		}
		c.MinFund = value
	case "confirmations":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil || n == 0 {
			return fmt.Errorf("confirmations must be a positive integer")
		}
		c.Confirmations = n
	case "wait_mode":
		if !slices.Contains(WaitModes, value) {
			return fmt.Errorf("wait_mode must be one of %s", strings.Join(WaitModes, ", "))
		}
		c.WaitMode = value
	case "confirm_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("confirm_timeout must be a positive number of seconds")
		}
		c.ConfirmTimeout = n
	case "price_currency":
		c.PriceCurrency = strings.ToUpper(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Values returns the settable keys and their current values, sorted by key.
func (c *Config) Values() [][2]string {
	out := [][2]string{
		{"network", c.Network},
		{"network_mode", c.NetworkMode},
		{"rpc_algorithm", c.RPCAlgorithm},
		{"default_wallet", c.DefaultWallet},
		{"min_fund", c.MinFund},
		{"confirmations", strconv.FormatUint(c.Confirmations, 10)},
		{"wait_mode", c.WaitMode},
		{"confirm_timeout", strconv.Itoa(c.ConfirmTimeout)},
		{"price_currency", c.PriceCurrency},
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// LoadSync reads sync.json.
func (c *Config) LoadSync() (*SyncConfig, error) {
	return loadJSON[SyncConfig](filepath.Join(c.configDir, syncFile))
}

// SaveSync writes sync.json.
func (c *Config) SaveSync(sc *SyncConfig) error {
	return saveJSON(filepath.Join(c.configDir, syncFile), sc)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		Network:        defaultNetwork,
		NetworkMode:    defaultMode,
		RPCAlgorithm:   defaultAlgorithm,
		MinFund:        DefaultMinFund,
		Confirmations:  defaultConfirmations,
		WaitMode:       defaultWaitMode,
		ConfirmTimeout: DefaultConfirmTimeout,
		PriceCurrency:  defaultCurrency,
		CustomRPCs:     make(map[string][]string),
		configDir:      dir,
	}
}

func loadJSON[T any](path string) (*T, error) {
	var v T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &v, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
