package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hardhatFundMe = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "fundme-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "fundme")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

// cleanEnv drops FUNDME_* variables from the host so a developer's key or
// contract override never leaks into a test run.
func cleanEnv(configDir string) []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "FUNDME_") {
			env = append(env, kv)
		}
	}
	return append(env, "FUNDME_CONFIG_DIR="+configDir)
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	return runCLIEnv(t, configDir, nil, args...)
}

func runCLIEnv(t *testing.T, configDir string, extra []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(cleanEnv(configDir), extra...)
	cmd.Dir = t.TempDir()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "fundme")
	assert.Contains(t, out, "0.1.0")
}

func TestHelpCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"connect", "fund", "balance", "withdraw", "app", "wallet", "contract", "sync", "network", "config"} {
		assert.Contains(t, out, sub)
	}
	assert.Contains(t, out, "--testnet")
	assert.Contains(t, out, "--local")
}

func TestNetworkList(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "network", "list")
	require.NoError(t, err)
	for _, c := range []string{"ethereum", "base", "polygon", "arbitrum"} {
		assert.Contains(t, strings.ToLower(out), c, "network list should contain %s", c)
	}
}

func TestNetworkListTestnetShowsDeploymentKeys(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--testnet", "network", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sepolia")
	assert.Contains(t, out, "mode: testnet")
}

func TestNetworkUse(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "network", "use", "base")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "base")
}

func TestNetworkUseUnknown(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "network", "use", "unknownchain99")
	assert.Error(t, err)
	assert.Contains(t, out, "chain not found")
}

func TestNetworkRPCAddRemove(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "network", "add-rpc", "base", "https://custom.rpc.url")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "custom.rpc.url")

	_, err = runCLI(t, dir, "network", "remove-rpc", "base", "https://custom.rpc.url")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "custom.rpc.url")
}

func TestConfigShowDefaults(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "min_fund")
	assert.Contains(t, out, "0.01")
	assert.Contains(t, out, "wait_mode")
	assert.Contains(t, out, "mined")
}

func TestConfigSet(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "min_fund", "0.5")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "0.5")
}

func TestConfigSetInvalid(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "network_mode", "devnet")
	assert.Error(t, err)

	_, err = runCLI(t, dir, "config", "set", "no_such_key", "1")
	assert.Error(t, err)
}

func TestModeFlagDoesNotPersist(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "--mainnet", "network", "use", "base")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "testnet")
	assert.NotContains(t, out, "mainnet")
}

func TestModeFlagsMutuallyExclusive(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "--testnet", "--mainnet", "config", "show")
	assert.Error(t, err)
}

func TestWalletAddAndList(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "wallet", "add", "watcher", "0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "watcher")
	assert.Contains(t, out, "0x1234")
}

func TestWalletRemove(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "wallet", "add", "w1", "0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)

	cmd := exec.Command(binaryPath, "wallet", "remove", "w1")
	cmd.Env = cleanEnv(dir)
	cmd.Stdin = strings.NewReader("y\n")
	require.NoError(t, cmd.Run())

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "w1")
}

func TestContractSetAndShow(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "--local", "contract", "set", strings.ToLower(hardhatFundMe))
	require.NoError(t, err)

	out, err := runCLI(t, dir, "--local", "contract", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "localhost")
	assert.Contains(t, out, hardhatFundMe)
}

func TestContractSetInvalidAddress(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "contract", "set", "0xnope")
	assert.Error(t, err)
}

func TestContractABIShowsSelectors(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "contract", "abi")
	require.NoError(t, err)
	assert.Contains(t, out, "0xb60d4288")
	assert.Contains(t, out, "fund()")
	assert.Contains(t, out, "0x3ccfd60b")
	assert.Contains(t, out, "withdraw()")
}

func TestFundWithoutContract(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--local", "fund", "0.05")
	assert.Error(t, err)
	assert.Contains(t, out, "contract not found")
}

func TestFundBelowMinimumIsDropped(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "--local", "contract", "set", hardhatFundMe)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "--local", "fund", "0.005")
	require.NoError(t, err)
	assert.Contains(t, out, "below minimum")
}

func TestFundBelowMinimumSkipsNetwork(t *testing.T) {
	dir := t.TempDir()
	// No deployment, and a node nobody listens on: only the amount check may run.
	env := []string{
		"FUNDME_PRIVATE_KEY=0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		"FUNDME_RPC_URL=http://127.0.0.1:1",
	}
	out, err := runCLIEnv(t, dir, env, "--mainnet", "fund", "0.005")
	require.NoError(t, err, out)
	assert.Contains(t, out, "below minimum")
	assert.NotContains(t, out, "contract not found")
}

func TestFundWithoutWallet(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "--local", "contract", "set", hardhatFundMe)
	require.NoError(t, err)

	out, err := runCLI(t, dir, "--local", "fund", "0.05")
	assert.Error(t, err)
	assert.Contains(t, out, "Can't find wallet")
}

func TestSyncWithoutSource(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "sync")
	assert.Error(t, err)
	assert.Contains(t, out, "no sync source")
}

func TestUnknownCommandShowsError(t *testing.T) {
	dir := t.TempDir()
	out, _ := runCLI(t, dir, "unknowncommand")
	assert.Contains(t, strings.ToLower(out), "unknown command")
}

func TestActionHelpShowsModeFlags(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"fund", "balance", "withdraw", "connect"} {
		out, err := runCLI(t, dir, sub, "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "--testnet", sub)
		assert.Contains(t, out, "--network", sub)
	}
}
