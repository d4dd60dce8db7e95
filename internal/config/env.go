package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type envOverrides struct {
	Network     string `env:"FUNDME_NETWORK"`
	NetworkMode string `env:"FUNDME_NETWORK_MODE"`
	RPCURL      string `env:"FUNDME_RPC_URL"`
	Contract    string `env:"FUNDME_CONTRACT"`
	Wallet      string `env:"FUNDME_WALLET"`
	MinFund     string `env:"FUNDME_MIN_FUND"`
	WaitMode    string `env:"FUNDME_WAIT_MODE"`
}

// ApplyEnv loads an optional .env from the working directory and overlays
// FUNDME_* variables on top of the file config.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	if o.Network != "" {
		c.Network = o.Network
	}
	if o.NetworkMode != "" {
		if err := c.Set("network_mode", o.NetworkMode); err != nil {
			return fmt.Errorf("FUNDME_NETWORK_MODE: %w", err)
		}
	}
	if o.Wallet != "" {
		c.DefaultWallet = o.Wallet
	}
	if o.MinFund != "" {
		if err := c.Set("min_fund", o.MinFund); err != nil {
			return fmt.Errorf("FUNDME_MIN_FUND: %w", err)
		}
	}
	if o.WaitMode != "" {
		if err := c.Set("wait_mode", o.WaitMode); err != nil {
			return fmt.Errorf("FUNDME_WAIT_MODE: %w", err)
		}
	}
	c.RPCURL = o.RPCURL
	c.Contract = o.Contract
	return nil
}
