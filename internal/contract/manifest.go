package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Mohsinsiddi/fundme/internal/config"
	"go.uber.org/zap"
)

// ErrNoSyncSource is returned when no manifest URL is given or saved.
var ErrNoSyncSource = errors.New("no sync source configured")

// Manifest is a deployments manifest: contract name → network → deployment.
type Manifest struct {
	Contracts map[string]map[string]ManifestEntry `json:"contracts"`
}

// ManifestEntry is a single deployment in a manifest.
type ManifestEntry struct {
	Address string `json:"address"`
	ABIUrl  string `json:"abi_url,omitempty"`
}

// Syncer pulls a manifest into the deployment registry.
type Syncer struct {
	cfg    *config.Config
	reg    *Registry
	client *http.Client
	log    *zap.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(cfg *config.Config, reg *Registry, log *zap.Logger) *Syncer {
	return &Syncer{
		cfg:    cfg,
		reg:    reg,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

// Run fetches the manifest at source (or the saved source when empty),
// records every deployment and remembers the source. An ABI that cannot be
// fetched is logged and left empty; Bind then falls back to the built-in ABI.
func (s *Syncer) Run(ctx context.Context, source string) (int, error) {
	sc, err := s.cfg.LoadSync()
	if err != nil {
		return 0, fmt.Errorf("loading sync config: %w", err)
	}
	if source == "" {
		source = sc.Source
	}
	if source == "" {
		return 0, ErrNoSyncSource
	}

	m, err := s.fetchManifest(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("fetching manifest: %w", err)
	}

	n := 0
	for name, networks := range m.Contracts {
		for network, dep := range networks {
			var entries []ABIEntry
			if dep.ABIUrl != "" {
				entries, err = FetchABI(ctx, s.client, dep.ABIUrl)
				if err != nil {
					s.log.Warn("could not fetch ABI",
						zap.String("contract", name),
						zap.String("network", network),
						zap.Error(err))
				}
			}
			s.reg.Add(&Entry{
				Name:    name,
				Network: network,
				Address: dep.Address,
				ABI:     entries,
				ABIUrl:  dep.ABIUrl,
				Source:  SourceSync,
			})
			n++
		}
	}

	if err := s.reg.Save(); err != nil {
		return n, fmt.Errorf("saving contracts: %w", err)
	}

	sc.Source = source
	sc.LastSynced = time.Now().UTC().Format(time.RFC3339)
	return n, s.cfg.SaveSync(sc)
}

func (s *Syncer) fetchManifest(ctx context.Context, url string) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
