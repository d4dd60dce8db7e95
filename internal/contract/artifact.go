package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// LoadFromArtifact loads an ABI from a local file that is either:
//   - a raw ABI JSON array: [{"type":"function",...}, ...]
//   - a Hardhat/Foundry artifact: {"abi":[...],"bytecode":"0x...",...}
func LoadFromArtifact(path string) ([]ABIEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read ABI file: %w", err)
	}
	entries, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// ParseArtifact accepts the same two formats as LoadFromArtifact.
func ParseArtifact(data []byte) ([]ABIEntry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("ABI is empty")
	}

	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	if data[0] == '{' && json.Unmarshal(data, &artifact) == nil && len(artifact.ABI) > 1 && artifact.ABI[0] == '[' {
		data = artifact.ABI
	}

	entries, err := parseABI(data)
	if err != nil {
		return nil, err
	}
	if err := validateABI(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchABI downloads a raw ABI array or artifact from url.
func FetchABI(ctx context.Context, client *http.Client, url string) ([]ABIEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching ABI from URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching ABI from URL: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseArtifact(body)
}

func parseABI(data []byte) ([]ABIEntry, error) {
	var entries []ABIEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		if data[0] == '{' {
			return nil, fmt.Errorf("JSON object has no \"abi\" array; expected a raw ABI or a Hardhat/Foundry artifact")
		}
		return nil, fmt.Errorf("invalid ABI JSON: %w", err)
	}
	return entries, nil
}

// validateABI checks that the parsed ABI has at least one function, event or constructor.
func validateABI(entries []ABIEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("ABI is empty (no functions or events found)")
	}
	for _, e := range entries {
		switch e.Type {
		case "function", "event", "constructor":
			return nil
		}
	}
	return fmt.Errorf("ABI has %d entries but none are functions or events", len(entries))
}
