//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the test away from the developer's own config files.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg-cache"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	fs.String("cache-dir", "", "")
	fs.Duration("timeout", 0, "")
	fs.String("dry-run", "", "")
	fs.String("kube-context", "", "")
	fs.String("output", "", "")
	fs.Int("jobs", 0, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.Cache.Dir))
	assert.Equal(t, filepath.Join("argolint", "repositories"), filepath.Join(filepath.Base(filepath.Dir(cfg.Cache.Dir)), filepath.Base(cfg.Cache.Dir)))
	assert.Equal(t, "git", cfg.Tools.Git)
	assert.Equal(t, "helm", cfg.Tools.Helm)
	assert.Equal(t, "kubectl", cfg.Tools.Kubectl)
	assert.Equal(t, 5*time.Minute, cfg.Tools.Timeout)
	assert.Equal(t, "client", cfg.DryRun.Mode)
	assert.Empty(t, cfg.DryRun.Context)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Empty(t, cfg.File)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `cache:
  dir: cache
tools:
  helm: /opt/helm/bin/helm
  timeout: 90s
dryrun:
  mode: server
  context: staging
jobs: 4
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cache"), cfg.Cache.Dir, "relative cache dir is made absolute")
	assert.Equal(t, "/opt/helm/bin/helm", cfg.Tools.Helm)
	assert.Equal(t, "kubectl", cfg.Tools.Kubectl, "unset keys keep their defaults")
	assert.Equal(t, 90*time.Second, cfg.Tools.Timeout)
	assert.Equal(t, "server", cfg.DryRun.Mode)
	assert.Equal(t, "staging", cfg.DryRun.Context)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_DiscoveredFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".argolint.yaml"), "output:\n  format: json\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, ".argolint.yaml", filepath.Base(cfg.File))
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "argolint.yaml")
	writeFile(t, path, "jobs: 2\noutput:\n  format: json\ntools:\n  timeout: 1m\n")

	t.Setenv("ARGOLINT_JOBS", "8")
	t.Setenv("ARGOLINT_TOOLS_TIMEOUT", "2m")

	cfg, err := Load(path, testFlags(t, "--jobs=3"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Jobs, "flag beats env and file")
	assert.Equal(t, 2*time.Minute, cfg.Tools.Timeout, "env beats file")
	assert.Equal(t, "json", cfg.Output.Format, "file beats default")
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "argolint.yaml")
	writeFile(t, path, "jobs: 6\n")

	cfg, err := Load(path, testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Jobs)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero jobs", content: "jobs: 0\n"},
		{name: "too many jobs", content: "jobs: 65\n"},
		{name: "unknown dry-run mode", content: "dryrun:\n  mode: none\n"},
		{name: "unknown output format", content: "output:\n  format: xml\n"},
		{name: "zero timeout", content: "tools:\n  timeout: 0s\n"},
		{name: "empty kubectl", content: "tools:\n  kubectl: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "argolint.yaml")
			writeFile(t, path, tt.content)

			_, err := Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".argolint.yaml"), "jobs: [1, 2\n")

	_, err := Load("", nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Cache:  CacheConfig{Dir: "/var/cache/argolint"},
		Tools:  ToolsConfig{Git: "git", Helm: "helm", Kubectl: "kubectl", Timeout: time.Minute},
		DryRun: DryRunConfig{Mode: "server"},
		Output: OutputConfig{Format: "json"},
		Jobs:   64,
	}
	require.NoError(t, Validate(&valid))

	assert.Error(t, Validate(&Config{}), "the zero config is not valid")

	noCache := valid
	noCache.Cache.Dir = ""
	assert.Error(t, Validate(&noCache))
}
