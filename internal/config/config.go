// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vmunix/arrshelf/internal/importer"
	"github.com/vmunix/arrshelf/internal/matcher"
)

// Config is the root configuration structure.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Database DatabaseConfig `toml:"database"`
	Library  LibraryConfig  `toml:"library"`
	Matching MatchingConfig `toml:"matching"`
	Process  ProcessConfig  `toml:"process"`
	TVDB     TVDBConfig     `toml:"tvdb"`
	TMDB     TMDBConfig     `toml:"tmdb"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"` // empty logs to stderr only
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LibraryConfig struct {
	InputPath       string   `toml:"input_path"`
	MovieInputPath  string   `toml:"movie_input_path"`
	TVPath          string   `toml:"tv_path"`
	MoviePath       string   `toml:"movie_path"`
	RecentPath      string   `toml:"recent_path"`
	RecentRetention Duration `toml:"recent_retention"`
	RecentMode      string   `toml:"recent_mode"`
	Format          string   `toml:"format"`
	TVGenrePath     string   `toml:"tv_genre_path"`
	MovieGenrePath  string   `toml:"movie_genre_path"`
}

type MatchingConfig struct {
	TitleCharsToIgnore string   `toml:"title_chars_to_ignore"`
	TitleWordsToIgnore []string `toml:"title_words_to_ignore"`
	MediaExtensions    []string `toml:"media_extensions"`
	MinFileAge         Duration `toml:"min_file_age"`
	AllowEmptyTitles   bool     `toml:"allow_empty_titles"`
}

type ProcessConfig struct {
	LockFile string `toml:"lock_file"`
	Move     bool   `toml:"move"`
}

type TVDBConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type TMDBConfig struct {
	APIKey   string   `toml:"api_key"`
	BaseURL  string   `toml:"base_url"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// Duration is a time.Duration written as a string ("90m", "168h") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Recent addition modes.
const (
	RecentSymlink = "symlink"
	RecentCopy    = "copy"
)

// Load reads, parses and validates the configuration file.
// Unresolved environment variables and validation failures are
// reported together as a *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg, err := parse(content)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation parses the configuration file and applies defaults
// but skips validation. Unresolved environment variables are left as-is.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	content, _ := substituteEnvVars(string(data))
	return parse(content)
}

func parse(content string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults(md)
	return &cfg, nil
}

// applyDefaults fills unset values. Zero durations the file sets
// explicitly are kept, so min_file_age = "0s" disables the freshness gate.
func (c *Config) applyDefaults(md toml.MetaData) {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/arrshelf.db"
	}
	if c.Library.Format == "" {
		c.Library.Format = "pytivo"
	}
	if c.Library.RecentMode == "" {
		c.Library.RecentMode = RecentSymlink
	}
	if c.Library.RecentRetention.Duration == 0 {
		c.Library.RecentRetention.Duration = 7 * 24 * time.Hour
	}
	if len(c.Matching.MediaExtensions) == 0 {
		c.Matching.MediaExtensions = append([]string(nil), importer.DefaultMediaExtensions...)
	}
	if !md.IsDefined("matching", "min_file_age") {
		c.Matching.MinFileAge.Duration = 10 * time.Minute
	}
	if c.Process.LockFile == "" {
		c.Process.LockFile = filepath.Join(filepath.Dir(c.Database.Path), "arrshelf.lock")
	}
	if c.TMDB.CacheTTL.Duration == 0 {
		c.TMDB.CacheTTL.Duration = 24 * time.Hour
	}
}

// MatcherOptions returns the title normalization settings.
func (c *Config) MatcherOptions() matcher.Options {
	words := make([]string, len(c.Matching.TitleWordsToIgnore))
	for i, w := range c.Matching.TitleWordsToIgnore {
		words[i] = strings.ToLower(strings.TrimSpace(w))
	}
	return matcher.Options{
		CharsToIgnore:    c.Matching.TitleCharsToIgnore,
		WordsToIgnore:    words,
		AllowEmptyTitles: c.Matching.AllowEmptyTitles,
	}
}

// Importer returns the processor configuration.
func (c *Config) Importer() importer.Config {
	return importer.Config{
		InputPath:       c.Library.InputPath,
		MovieInputPath:  c.Library.MovieInputPath,
		TVPath:          c.Library.TVPath,
		MoviePath:       c.Library.MoviePath,
		RecentPath:      c.Library.RecentPath,
		RecentRetention: c.Library.RecentRetention.Duration,
		RecentCopy:      c.Library.RecentMode == RecentCopy,
		TVGenrePath:     c.Library.TVGenrePath,
		MovieGenrePath:  c.Library.MovieGenrePath,
		Extensions:      c.Matching.MediaExtensions,
		MinFileAge:      c.Matching.MinFileAge.Duration,
		LockFile:        c.Process.LockFile,
		Move:            c.Process.Move,
		Matching:        c.MatcherOptions(),
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment variable references and returns
// the unresolved ones. An empty variable counts as unset for the :- and :?
// forms. Unresolved references are left unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
