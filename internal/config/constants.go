package config

import "time"

// GasLimitContractCall is the EstimateGas fallback for fund() and withdraw().
const GasLimitContractCall = uint64(200_000)

const (
	RPCSelectTimeout    = 10 * time.Second // endpoint benchmark
	ReceiptPollInterval = 2 * time.Second  // confirmation waiter poll
)

// Accepted values for the enumerated keys.
var (
	NetworkModes  = []string{"mainnet", "testnet", "local"}
	RPCAlgorithms = []string{"fastest", "round-robin", "failover"}
	WaitModes     = []string{"mined", "accepted"}
)

// Defaults shared with the dapp page.
const (
	DefaultMinFund        = "0.01" // ETH
	DefaultConfirmTimeout = 180    // seconds
)
