// internal/config/validate.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/arrshelf/internal/sidecar"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validRecentModes = map[string]bool{
	RecentSymlink: true, RecentCopy: true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, "log: rotation limits must not be negative")
	}

	if c.Library.InputPath == "" {
		errs = append(errs, "library.input_path: required")
	}
	if c.Library.TVPath == "" {
		errs = append(errs, "library.tv_path: required")
	}
	if c.Library.MovieInputPath != "" && c.Library.MoviePath == "" {
		errs = append(errs, "library.movie_path: required when movie_input_path is set")
	}
	if c.Library.InputPath != "" && c.Library.TVPath != "" &&
		filepath.Clean(c.Library.InputPath) == filepath.Clean(c.Library.TVPath) {
		errs = append(errs, "library.tv_path: must differ from input_path")
	}
	if c.Library.Format != "" {
		if _, err := sidecar.Lookup(c.Library.Format); err != nil {
			errs = append(errs, fmt.Sprintf("library.format: must be one of %s; got %q",
				strings.Join(sidecar.Names(), ", "), c.Library.Format))
		}
	}
	if !validRecentModes[c.Library.RecentMode] {
		errs = append(errs, fmt.Sprintf("library.recent_mode: must be symlink or copy; got %q", c.Library.RecentMode))
	}
	if c.Library.RecentPath != "" && c.Library.RecentRetention.Duration <= 0 {
		errs = append(errs, "library.recent_retention: must be positive")
	}

	if c.Matching.MinFileAge.Duration < 0 {
		errs = append(errs, "matching.min_file_age: must not be negative")
	}
	for _, w := range c.Matching.TitleWordsToIgnore {
		if w != strings.ToLower(w) {
			errs = append(errs, fmt.Sprintf("matching.title_words_to_ignore: %q must be lowercase", w))
		}
	}

	if c.TVDB.APIKey == "" {
		errs = append(errs, "tvdb.api_key: required")
	}
	if c.Library.MoviePath != "" && c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required when movie_path is set")
	}

	return errs
}
