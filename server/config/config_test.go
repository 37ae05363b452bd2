package config_test

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AimPizza/malbuch/server/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "malbuch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	configFile := writeConfig(t, `
content_dir: /srv/malbuch/content
metadata_file: /srv/malbuch/image-metadata.json
server_addr: 127.0.0.1:9000
log_format: json
cors_origins:
  - http://ui.example
staging_max_age: 30m
`)

	tests := map[string]struct {
		args []string

		expected func(o *config.Options)
		errIs    error
	}{
		"defaults": {
			expected: func(o *config.Options) {},
		},
		"flags": {
			args: []string{"-content-dir", "/tmp/c", "-metadata-file", "/tmp/m.json", "-quiet", "-cors-origins", "http://a.example, http://b.example", "-max-upload-bytes", "42"},
			expected: func(o *config.Options) {
				o.ContentDir = "/tmp/c"
				o.MetadataFile = "/tmp/m.json"
				o.Quiet = true
				o.CORSOrigins = []string{"http://a.example", "http://b.example"}
				o.MaxUploadBytes = 42
			},
		},
		"config file": {
			args: []string{"-config", configFile},
			expected: func(o *config.Options) {
				o.ContentDir = "/srv/malbuch/content"
				o.MetadataFile = "/srv/malbuch/image-metadata.json"
				o.ServerAddr = "127.0.0.1:9000"
				o.LogFormat = config.LogFormatJSON
				o.CORSOrigins = []string{"http://ui.example"}
				o.StagingMaxAge = 30 * time.Minute
			},
		},
		"flags win over the config file": {
			args: []string{"-server-addr", ":7000", "-config", configFile, "-staging-max-age", "5m"},
			expected: func(o *config.Options) {
				o.ContentDir = "/srv/malbuch/content"
				o.MetadataFile = "/srv/malbuch/image-metadata.json"
				o.ServerAddr = ":7000"
				o.LogFormat = config.LogFormatJSON
				o.CORSOrigins = []string{"http://ui.example"}
				o.StagingMaxAge = 5 * time.Minute
			},
		},
		"metadata file inside the content dir": {
			args:  []string{"-content-dir", "/srv/content", "-metadata-file", "/srv/content/meta/image-metadata.json"},
			errIs: config.ErrInvalid,
		},
		"unknown log format": {
			args:  []string{"-log-format", "xml"},
			errIs: config.ErrInvalid,
		},
		"non positive upload limit": {
			args:  []string{"-max-upload-bytes", "0"},
			errIs: config.ErrInvalid,
		},
		"stray arguments": {
			args:  []string{"serve"},
			errIs: config.ErrInvalid,
		},
		"help": {
			args:  []string{"-h"},
			errIs: flag.ErrHelp,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			opts, err := config.Parse("malbuch", test.args, io.Discard)
			if test.errIs != nil {
				require.ErrorIs(t, err, test.errIs)
				assert.Nil(t, opts)
				return
			}
			require.NoError(t, err)

			expected := config.Default()
			test.expected(expected)
			assert.Equal(t, expected, opts)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty file keeps defaults", func(t *testing.T) {
		opts, err := config.Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), opts)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "content_directory: /srv\n"))
		assert.Error(t, err)
	})

	t.Run("malformed duration", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "sweep_interval: often\n"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestValidateMetadataPlacement(t *testing.T) {
	tests := map[string]struct {
		contentDir   string
		metadataFile string

		expectedErr bool
	}{
		"sibling directory":       {contentDir: "./content", metadataFile: "./data/image-metadata.json"},
		"parent directory":        {contentDir: "./content", metadataFile: "./image-metadata.json"},
		"prefix sharing sibling":  {contentDir: "./content", metadataFile: "./content-meta/image-metadata.json"},
		"directly inside":         {contentDir: "./content", metadataFile: "./content/image-metadata.json", expectedErr: true},
		"inside through dot dots": {contentDir: "/srv/content", metadataFile: "/srv/other/../content/x.json", expectedErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			opts := config.Default()
			opts.ContentDir = test.contentDir
			opts.MetadataFile = test.metadataFile

			err := opts.Validate()
			if test.expectedErr {
				assert.ErrorIs(t, err, config.ErrInvalid)
				return
			}
			assert.NoError(t, err)
		})
	}
}
