package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "explicit path must exist")

	cfg, err := loadFromDir(t, "")
	require.NoError(t, err)

	require.Equal(t, ".", cfg.Repository.Path)
	require.Zero(t, cfg.Repository.MaxLinesPerCommit)
	require.InDelta(t, DefaultThreshold, cfg.Identity.SimilarityThreshold, 1e-9)
	require.Equal(t, "gstats-mappings.yaml", cfg.Identity.MappingsFile)
	require.Equal(t, "dark", cfg.Report.Theme)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	cfg, err := loadFromDir(t, `
repository:
  path: /srv/repo
  max_lines_per_commit: 5000
identity:
  similarity_threshold: 0.85
report:
  theme: light
server:
  port: 9000
`)
	require.NoError(t, err)

	require.Equal(t, "/srv/repo", cfg.Repository.Path)
	require.Equal(t, 5000, cfg.Repository.MaxLinesPerCommit)
	require.InDelta(t, 0.85, cfg.Identity.SimilarityThreshold, 1e-9)
	require.Equal(t, "light", cfg.Report.Theme)
	require.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "bad port",
			yaml:    "server:\n  port: 99999\n",
			wantErr: ErrInvalidPort,
		},
		{
			name:    "threshold above one",
			yaml:    "identity:\n  similarity_threshold: 1.5\n",
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "negative max lines",
			yaml:    "repository:\n  max_lines_per_commit: -1\n",
			wantErr: ErrInvalidMaxLines,
		},
		{
			name:    "unknown theme",
			yaml:    "report:\n  theme: sepia\n",
			wantErr: ErrInvalidTheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadFromDir(t, tt.yaml)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// loadFromDir writes yaml into a temp config file and loads it. An
// empty yaml string loads pure defaults.
func loadFromDir(t *testing.T, yaml string) (*Config, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	return Load(path)
}
