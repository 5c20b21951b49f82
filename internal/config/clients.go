package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"
)

// Clients is the validated, read-only set of client configuration bundles.
type Clients struct {
	byID map[string]*Client
}

// LoadClients reads every *.yml / *.yaml file in dir as one client bundle.
// Each bundle is validated once here; an invalid bundle fails the whole load
// so a half-configured deployment never starts.
func LoadClients(dir string) (*Clients, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading clients dir %s: %w", dir, err)
	}

	clients := &Clients{byID: make(map[string]*Client)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading client config %s: %w", entry.Name(), err)
		}

		var c Client
		if err := yamlv3.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing client config %s: %w", entry.Name(), err)
		}
		c.ID = strings.TrimSuffix(entry.Name(), ext)
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("client %s: %w", c.ID, err)
		}
		clients.byID[c.ID] = &c
	}

	if len(clients.byID) == 0 {
		return nil, fmt.Errorf("no client configs found in %s", dir)
	}
	return clients, nil
}

// Get returns the client bundle for id, or nil when unknown.
func (c *Clients) Get(id string) *Client {
	return c.byID[id]
}

// IDs returns all configured client ids.
func (c *Clients) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	return ids
}

// Validate checks the bundle's required fields and any threshold override.
func (c *Client) Validate() error {
	if c.BusinessName == "" {
		return fmt.Errorf("business_name is required")
	}
	if c.Greeting == "" {
		return fmt.Errorf("greeting is required")
	}
	if len(c.CaseTypes) == 0 {
		return fmt.Errorf("case_types is required")
	}
	if c.Thresholds != nil {
		if err := c.Thresholds.Validate(); err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
	}
	return nil
}

// EffectiveThresholds returns the client's threshold override or the given
// server defaults.
func (c *Client) EffectiveThresholds(defaults Thresholds) Thresholds {
	if c.Thresholds != nil {
		return *c.Thresholds
	}
	return defaults
}

// Save writes the client bundle to dir as <id>.yml. Used by the init wizard.
func (c *Client) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating clients dir: %w", err)
	}
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling client config: %w", err)
	}
	path := filepath.Join(dir, c.ID+".yml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing client config to %s: %w", path, err)
	}
	return nil
}
