// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package format

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the per-project configuration file name.
const ConfigFile = "ua.toml"

// Config controls formatter output.
type Config struct {
	// TrailingNewline makes formatted output end with a newline.
	TrailingNewline bool `toml:"trailing_newline"`
	// CommentSpace inserts a space after the comment marker.
	CommentSpace bool `toml:"comment_space"`
	// ConvertBindings rewrites `name = ...` to `name ← ...`.
	ConvertBindings bool `toml:"convert_bindings"`
}

// DefaultConfig returns the formatter defaults.
func DefaultConfig() Config {
	return Config{
		TrailingNewline: true,
		CommentSpace:    true,
		ConvertBindings: true,
	}
}

type configFile struct {
	Format Config `toml:"format"`
}

// LoadConfig reads ua.toml from dir. A missing file yields defaults.
func LoadConfig(dir string) (Config, error) {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	file := configFile{Format: DefaultConfig()}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return file.Format, nil
}
