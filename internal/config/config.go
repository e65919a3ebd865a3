// Package config loads themecheck settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrNoFiles is returned when no input files are configured or matched.
var ErrNoFiles = errors.New("no input files")

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "themecheck.yaml"

// Output formats.
const (
	FormatANSI = "ansi"
	FormatJSON = "json"
	FormatHTML = "html"
)

var formats = []string{FormatANSI, FormatJSON, FormatHTML}

// Config is the full set of themecheck settings.
type Config struct {
	Theme       string            `mapstructure:"theme" yaml:"theme" json:"theme" jsonschema:"title=Theme,description=Theme JSON file or chroma:<style>"`
	Files       []string          `mapstructure:"files" yaml:"files" json:"files" jsonschema:"title=Files,description=Source files or glob patterns to verify"`
	SnapshotDir string            `mapstructure:"snapshot_dir" yaml:"snapshot_dir" json:"snapshot_dir" jsonschema:"title=Snapshot Directory"`
	Languages   map[string]string `mapstructure:"languages" yaml:"languages,omitempty" json:"languages,omitempty" jsonschema:"description=File extension (without the dot) to language overrides"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server" json:"server"`
	Semantic    SemanticConfig    `mapstructure:"semantic" yaml:"semantic" json:"semantic"`
	Brackets    BracketsConfig    `mapstructure:"brackets" yaml:"brackets" json:"brackets"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output" json:"output"`
}

// ServerConfig describes the language server to launch.
type ServerConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled" jsonschema:"description=Request semantic tokens from a language server"`
	Command string        `mapstructure:"command" yaml:"command" json:"command"`
	Args    []string      `mapstructure:"args" yaml:"args,omitempty" json:"args,omitempty"`
	Root    string        `mapstructure:"root" yaml:"root,omitempty" json:"root,omitempty" jsonschema:"description=Workspace root sent on initialize"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout" jsonschema:"type=string,description=Per request timeout such as 10s"`
}

type SemanticConfig struct {
	WildcardModifiers bool `mapstructure:"wildcard_modifiers" yaml:"wildcard_modifiers" json:"wildcard_modifiers" jsonschema:"description=Apply *.modifier semantic rules"`
}

type BracketsConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Palette []string `mapstructure:"palette" yaml:"palette,omitempty" json:"palette,omitempty"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format" jsonschema:"enum=ansi,enum=json,enum=html"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Theme:       "chroma:vscode-dark",
		SnapshotDir: "testdata/snapshots",
		Server: ServerConfig{
			Command: "gopls",
			Timeout: 10 * time.Second,
		},
		Brackets: BracketsConfig{
			Enabled: true,
			Palette: []string{"#FFD700", "#DA70D6", "#179FFF"},
		},
		Output: OutputConfig{Format: FormatANSI},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("theme", d.Theme)
	v.SetDefault("snapshot_dir", d.SnapshotDir)
	v.SetDefault("server.enabled", d.Server.Enabled)
	v.SetDefault("server.command", d.Server.Command)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("semantic.wildcard_modifiers", d.Semantic.WildcardModifiers)
	v.SetDefault("brackets.enabled", d.Brackets.Enabled)
	v.SetDefault("brackets.palette", d.Brackets.Palette)
	v.SetDefault("output.format", d.Output.Format)
}

// Load reads settings. An explicit path must exist; otherwise
// ./themecheck.yaml and then ~/.config/themecheck/config.yaml are tried,
// and defaults are used when neither exists. The second result is the file
// that was read, if any.
func Load(path string) (Config, string, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else if _, err := os.Stat(DefaultFile); err == nil {
		v.SetConfigFile(DefaultFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "themecheck"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoFiles
	}
	if c.Theme == "" {
		return errors.New("no theme configured")
	}
	if !slices.Contains(formats, c.Output.Format) {
		return fmt.Errorf("unknown output format %q (want one of %v)", c.Output.Format, formats)
	}
	if c.Server.Enabled && c.Server.Command == "" {
		return errors.New("server enabled without a command")
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("negative server timeout %s", c.Server.Timeout)
	}
	return nil
}

// ExpandFiles resolves glob patterns in Files to a sorted, de-duplicated
// list of paths.
func (c Config) ExpandFiles() ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, pattern := range c.Files {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
		}
		if matches == nil {
			// Plain paths that do not exist surface later as read errors.
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(out)
	return out, nil
}

// Palette returns the bracket palette, or nil when the bracket pass is
// disabled.
func (c Config) Palette() []string {
	if !c.Brackets.Enabled {
		return nil
	}
	if len(c.Brackets.Palette) == 0 {
		return Defaults().Brackets.Palette
	}
	return c.Brackets.Palette
}

// WriteDefault writes a starter config to path. It refuses to overwrite an
// existing file.
func WriteDefault(path string, files []string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	cfg := Defaults()
	cfg.Files = files
	if len(cfg.Files) == 0 {
		cfg.Files = []string{"testdata/*.go"}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
