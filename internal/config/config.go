package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/mechcheck/internal/core/model"
)

type ColumnsConfig struct {
	Primary    string `toml:"primary" yaml:"primary"`
	Structural string `toml:"structural" yaml:"structural"`
	Mass       string `toml:"mass" yaml:"mass"`
}

// VersionConfig binds one mechanism version to its files and parsing rules.
// File names are relative to Folder unless absolute.
type VersionConfig struct {
	Name        string        `toml:"name" yaml:"name"`
	Folder      string        `toml:"folder" yaml:"folder"`
	Database    string        `toml:"database" yaml:"database"`
	Mechanism   string        `toml:"mechanism" yaml:"mechanism"`
	Summation   string        `toml:"summation" yaml:"summation"`
	Description string        `toml:"description" yaml:"description"`
	ExtractMode string        `toml:"extract_mode" yaml:"extract_mode"`
	MatchPolicy string        `toml:"match_policy" yaml:"match_policy"`
	Columns     ColumnsConfig `toml:"columns" yaml:"columns"`
	Markers     model.Markers `toml:"markers" yaml:"markers"`
}

type ReportConfig struct {
	Dir  string `toml:"dir" yaml:"dir"`
	JSON bool   `toml:"json" yaml:"json"`
}

type MemgraphConfig struct {
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	URI      string `toml:"uri" yaml:"uri"`
	User     string `toml:"user" yaml:"user"`
	Password string `toml:"password" yaml:"password"`
}

type ConcurrencyConfig struct {
	Versions int `toml:"versions" yaml:"versions"`
}

type Config struct {
	Versions    []VersionConfig   `toml:"versions" yaml:"versions"`
	Report      ReportConfig      `toml:"report" yaml:"report"`
	Memgraph    MemgraphConfig    `toml:"memgraph" yaml:"memgraph"`
	Concurrency ConcurrencyConfig `toml:"concurrency" yaml:"concurrency"`
}

// Load reads a TOML config, or YAML when the extension says so, then fills
// defaults and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Report.Dir == "" {
		c.Report.Dir = "reports"
	}
	if c.Memgraph.URI == "" {
		c.Memgraph.URI = "bolt://localhost:7687"
	}
	if c.Concurrency.Versions <= 0 {
		c.Concurrency.Versions = 1
	}
	for i := range c.Versions {
		c.Versions[i].ApplyDefaults()
	}
}

// ApplyEnv overrides settings from the environment. Empty variables are ignored.
// Graph export stays off unless the config or --export-graph turns it on.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("MECHCHECK_REPORT_DIR"); v != "" {
		c.Report.Dir = v
	}
	if v := os.Getenv("MECHCHECK_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Concurrency.Versions = n
		}
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
}

func (c *Config) Validate() error {
	if len(c.Versions) == 0 {
		return fmt.Errorf("config defines no versions")
	}
	seen := make(map[string]bool, len(c.Versions))
	for _, v := range c.Versions {
		if err := v.Validate(); err != nil {
			return err
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate version %q", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// Version returns the version block named name.
func (c *Config) Version(name string) (VersionConfig, bool) {
	for _, v := range c.Versions {
		if v.Name == name {
			return v, true
		}
	}
	return VersionConfig{}, false
}

func (v *VersionConfig) ApplyDefaults() {
	if v.ExtractMode == "" {
		v.ExtractMode = string(model.ExtractBounded)
	}
	if v.MatchPolicy == "" {
		v.MatchPolicy = string(model.LastMatch)
	}
	if v.Summation == "" {
		v.Summation = v.Mechanism
	}
	if v.Columns.Primary == "" {
		v.Columns.Primary = string(model.ConventionMCM)
	}
	if v.Columns.Structural == "" {
		v.Columns.Structural = string(model.ConventionGecko)
	}
	if v.Columns.Mass == "" {
		v.Columns.Mass = string(model.ConventionMass)
	}
	v.Markers = v.Markers.WithDefaults()
}

func (v VersionConfig) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("version without a name")
	}
	if v.Database == "" {
		return fmt.Errorf("version %s: database file is required", v.Name)
	}
	if v.Mechanism == "" {
		return fmt.Errorf("version %s: mechanism file is required", v.Name)
	}
	switch model.ExtractMode(v.ExtractMode) {
	case model.ExtractBounded, model.ExtractScan:
	default:
		return fmt.Errorf("version %s: unknown extract_mode %q", v.Name, v.ExtractMode)
	}
	return nil
}

// Path resolves a file name against the version folder. Empty stays empty.
func (v VersionConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || v.Folder == "" {
		return name
	}
	return filepath.Join(v.Folder, name)
}

func (v VersionConfig) Mode() model.ExtractMode { return model.ExtractMode(v.ExtractMode) }

func (v VersionConfig) Policy() model.MatchPolicy { return model.ParseMatchPolicy(v.MatchPolicy) }

func (v VersionConfig) Primary() model.Convention { return model.Convention(v.Columns.Primary) }

func (v VersionConfig) Structural() model.Convention { return model.Convention(v.Columns.Structural) }

func (v VersionConfig) Mass() model.Convention { return model.Convention(v.Columns.Mass) }

// Files lists every input file of the version, resolved.
func (v VersionConfig) Files() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range []string{v.Database, v.Mechanism, v.Summation, v.Description} {
		p := v.Path(f)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
