package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oaswift.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_Minimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, "generate: types\n"))
	require.NoError(t, err)
	require.Equal(t, ModeTypes, cfg.Mode)
	require.Equal(t, AccessInternal, cfg.Access, "default access")
	require.Equal(t, "defensive", cfg.NamingStrategy, "default strategy")
}

func TestLoad_Full(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
generate: client
accessModifier: public
additionalImports:
  - MyRuntimeExtras
filter:
  tags: [pets]
namingStrategy: idiomatic
nameOverrides:
  "weird.name": niceName
featureFlags:
  - multipleContentTypes
`))
	require.NoError(t, err)
	require.Equal(t, ModeClient, cfg.Mode)
	require.Equal(t, AccessPublic, cfg.Access)
	require.Equal(t, []string{"MyRuntimeExtras"}, cfg.AdditionalImports)
	require.Equal(t, []string{"pets"}, cfg.Filter.Tags)
	require.Equal(t, "niceName", cfg.NameOverrides["weird.name"])
	require.True(t, cfg.HasFeature(FeatureMultipleContentTypes))
	require.False(t, cfg.HasFeature(FeatureFrozenEnums))
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "generate: types\nbogusKey: 1\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing mode", func(c *Config) { c.Mode = "" }, "generate is required"},
		{"bad mode", func(c *Config) { c.Mode = "swift" }, "generate must be one of"},
		{"bad access", func(c *Config) { c.Access = "secret" }, "accessModifier must be one of"},
		{"bad strategy", func(c *Config) { c.NamingStrategy = "fancy" }, "namingStrategy must be"},
		{"bad flag", func(c *Config) { c.FeatureFlags = []string{"warpDrive"} }, "unknown feature flag"},
		{"sharding outside types", func(c *Config) {
			c.Mode = ModeClient
			c.Sharding = &ShardingConfig{Enabled: true}
		}, "sharding is only supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Mode = ModeTypes
	cfg.Sharding = &ShardingConfig{Enabled: true, MaxFilesPerShard: 50}
	require.NoError(t, cfg.Validate())
}
