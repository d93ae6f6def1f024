package config

import (
	"io/ioutil"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 80, cfg.MaxLine)
	assert.Equal(t, "myshell: ", cfg.Prompt)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Configuration){
		"max-line-too-small": func(c *Configuration) { c.MaxLine = 1 },
		"max-line-too-large": func(c *Configuration) { c.MaxLine = 5000 },
		"bad-color":          func(c *Configuration) { c.Color = "rainbow" },
		"no-bookmarks-file":  func(c *Configuration) { c.BookmarksFile = "" },
		"no-event-log":       func(c *Configuration) { c.EventLog = "" },
	}

	for tn, mutate := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFs(t *testing.T) {
	t.Run("missing-uses-defaults", func(t *testing.T) {
		cfg, err := LoadFs(afero.NewMemMapFs())
		require.NoError(t, err)
		assert.Equal(t, defaultConfig().Prompt, cfg.Prompt)
	})

	t.Run("overrides", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, ConfigurationName, []byte("prompt: '> '\nmax_line: 120\n"), 0600))

		cfg, err := LoadFs(fs)
		require.NoError(t, err)
		assert.Equal(t, "> ", cfg.Prompt)
		assert.Equal(t, 120, cfg.MaxLine)
		assert.Equal(t, ColorAuto, cfg.Color)
	})

	t.Run("unknown-field", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, ConfigurationName, []byte("ssh_port: 22\n"), 0600))

		_, err := LoadFs(fs)
		assert.Error(t, err)
	})

	t.Run("invalid-value", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, ConfigurationName, []byte("color: sometimes\n"), 0600))

		_, err := LoadFs(fs)
		assert.Error(t, err)
	})
}

func TestResolveSearchPath(t *testing.T) {
	t.Setenv("PATH", "/from/env")

	cfg := defaultConfig()
	assert.Equal(t, "/from/env", cfg.ResolveSearchPath())

	cfg.SearchPath = "/configured"
	assert.Equal(t, "/configured", cfg.ResolveSearchPath())
}

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	logger := log.New(ioutil.Discard, "", 0)
	if err := Initialize(tempDir, logger); err != nil {
		t.Fatal(err)
	}

	// Running twice leaves the file alone.
	require.NoError(t, Initialize(tempDir, logger))

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	assert.NoError(t, cfg.Validate())

	t.Run("OpenEventLog", func(t *testing.T) {
		fd, err := cfg.OpenEventLog()
		assert.Nil(t, err)
		fd.Close()

		fd, err = cfg.ReadEventLog()
		assert.Nil(t, err)
		fd.Close()
	})
}
