// Package config defines the generator configuration and its YAML file
// loader.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oaswift/oaswift/internal/docfilter"
)

// Mode selects which output file a run produces.
type Mode string

const (
	ModeTypes  Mode = "types"
	ModeClient Mode = "client"
	ModeServer Mode = "server"
)

// AccessModifier is the access level applied to generated declarations.
type AccessModifier string

const (
	AccessPublic      AccessModifier = "public"
	AccessPackage     AccessModifier = "package"
	AccessInternal    AccessModifier = "internal"
	AccessFilePrivate AccessModifier = "fileprivate"
	AccessPrivate     AccessModifier = "private"
)

// Feature flags recognized by the generator.
const (
	// FeatureMultipleContentTypes carries every documented content type of
	// a body instead of selecting the single best one.
	FeatureMultipleContentTypes = "multipleContentTypes"
	// FeatureFrozenEnums marks generated raw-value enums @frozen.
	FeatureFrozenEnums = "frozenEnums"
)

// ShardingConfig controls the optional multi-file output planner.
type ShardingConfig struct {
	Enabled bool `yaml:"enabled"`
	// TypeShardCounts maps a type layer to its shard count; layers without
	// an entry get one shard.
	TypeShardCounts map[int]int `yaml:"typeShardCounts,omitempty"`
	// MaxFilesPerShard caps declarations per emitted type file.
	MaxFilesPerShard int `yaml:"maxFilesPerShard,omitempty"`
	// OperationLayerShardCounts maps an operation layer to its shard count.
	OperationLayerShardCounts map[int]int `yaml:"operationLayerShardCounts,omitempty"`
	// MaxFilesPerShardOps caps declarations per emitted operation file.
	MaxFilesPerShardOps int `yaml:"maxFilesPerShardOps,omitempty"`
	// ModulePrefix, when set, prefixes every emitted file name.
	ModulePrefix string `yaml:"modulePrefix,omitempty"`
}

// TypeOverrides substitutes externally defined Swift types for named
// schemas.
type TypeOverrides struct {
	Schemas map[string]string `yaml:"schemas,omitempty"`
}

// Config is the full generator configuration for one run.
type Config struct {
	Mode              Mode              `yaml:"generate"`
	Access            AccessModifier    `yaml:"accessModifier,omitempty"`
	AdditionalImports []string          `yaml:"additionalImports,omitempty"`
	Filter            *docfilter.Spec   `yaml:"filter,omitempty"`
	NamingStrategy    string            `yaml:"namingStrategy,omitempty"`
	NameOverrides     map[string]string `yaml:"nameOverrides,omitempty"`
	FeatureFlags      []string          `yaml:"featureFlags,omitempty"`
	TypeOverrides     TypeOverrides     `yaml:"typeOverrides,omitempty"`
	Sharding          *ShardingConfig   `yaml:"sharding,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeTypes,
		Access:         AccessInternal,
		NamingStrategy: "defensive",
	}
}

// HasFeature reports whether a feature flag is enabled.
func (c *Config) HasFeature(flag string) bool {
	for _, f := range c.FeatureFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// Load reads and parses a YAML config file, applying defaults for absent
// keys and validating the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeTypes, ModeClient, ModeServer:
	case "":
		return fmt.Errorf("generate is required, must be one of %q, %q, %q", ModeTypes, ModeClient, ModeServer)
	default:
		return fmt.Errorf("generate must be one of %q, %q, %q, got %q", ModeTypes, ModeClient, ModeServer, c.Mode)
	}

	switch c.Access {
	case AccessPublic, AccessPackage, AccessInternal, AccessFilePrivate, AccessPrivate, "":
	default:
		return fmt.Errorf("accessModifier must be one of public, package, internal, fileprivate, private, got %q", c.Access)
	}

	switch c.NamingStrategy {
	case "", "defensive", "idiomatic":
	default:
		return fmt.Errorf("namingStrategy must be \"defensive\" or \"idiomatic\", got %q", c.NamingStrategy)
	}

	for _, f := range c.FeatureFlags {
		switch f {
		case FeatureMultipleContentTypes, FeatureFrozenEnums:
		default:
			return fmt.Errorf("unknown feature flag %q", f)
		}
	}

	if c.Sharding != nil && c.Sharding.Enabled {
		if c.Sharding.MaxFilesPerShard < 0 || c.Sharding.MaxFilesPerShardOps < 0 {
			return fmt.Errorf("sharding file caps must be non-negative")
		}
		if c.Mode != ModeTypes {
			return fmt.Errorf("sharding is only supported with generate: types, got %q", c.Mode)
		}
	}

	return nil
}
