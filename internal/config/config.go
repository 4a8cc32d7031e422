// Package config loads the nelgen.toml generator settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/mxkacsa/nelgen"
)

// FileName is the configuration file looked up next to the inputs.
const FileName = "nelgen.toml"

// Find returns the path of FileName in dir, or "" when there is none.
func Find(dir string) string {
	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Config holds the generator settings read from a TOML file.
type Config struct {
	Indent          string   `toml:"indent"`
	CommentWrap     int      `toml:"comment_wrap"`
	LoopTrap        string   `toml:"loop_trap"`
	StatementPrefix string   `toml:"statement_prefix"`
	StatementSuffix string   `toml:"statement_suffix"`
	Prelude         []string `toml:"prelude"`
	Reserved        []string `toml:"reserved"` // added to the built-in reserved words
	Jobs            int      `toml:"jobs"`     // concurrent files in batch mode
}

// file mirrors Config with optional fields so absent keys keep their defaults.
type file struct {
	Indent          *string   `toml:"indent"`
	CommentWrap     *int      `toml:"comment_wrap"`
	LoopTrap        *string   `toml:"loop_trap"`
	StatementPrefix *string   `toml:"statement_prefix"`
	StatementSuffix *string   `toml:"statement_suffix"`
	Prelude         *[]string `toml:"prelude"`
	Reserved        []string  `toml:"reserved"`
	Jobs            *int      `toml:"jobs"`
}

func (f *file) apply(c *Config) {
	if f.Indent != nil {
		c.Indent = *f.Indent
	}
	if f.CommentWrap != nil {
		c.CommentWrap = *f.CommentWrap
	}
	if f.LoopTrap != nil {
		c.LoopTrap = *f.LoopTrap
	}
	if f.StatementPrefix != nil {
		c.StatementPrefix = *f.StatementPrefix
	}
	if f.StatementSuffix != nil {
		c.StatementSuffix = *f.StatementSuffix
	}
	if f.Prelude != nil {
		c.Prelude = *f.Prelude
	}
	if f.Reserved != nil {
		c.Reserved = f.Reserved
	}
	if f.Jobs != nil {
		c.Jobs = *f.Jobs
	}
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Indent:      nelgen.DefaultIndent,
		CommentWrap: nelgen.DefaultCommentWrap,
		Prelude:     append([]string(nil), nelgen.DefaultPrelude...),
		Jobs:        4,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the generator cannot work with.
func (c *Config) Validate() error {
	if c.Indent == "" {
		return fmt.Errorf("indent cannot be empty")
	}
	for _, r := range c.Indent {
		if r != ' ' && r != '\t' {
			return fmt.Errorf("indent must consist of spaces or tabs, got %q", c.Indent)
		}
	}
	if c.CommentWrap < 4 {
		return fmt.Errorf("comment_wrap must be at least 4, got %d", c.CommentWrap)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}

// Marshal encodes the settings as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Options converts the settings to generator options.
func (c *Config) Options() []nelgen.Option {
	opts := []nelgen.Option{
		nelgen.WithIndent(c.Indent),
		nelgen.WithCommentWrap(c.CommentWrap),
		nelgen.WithPrelude(c.Prelude...),
	}
	if c.LoopTrap != "" {
		opts = append(opts, nelgen.WithLoopTrap(c.LoopTrap))
	}
	if c.StatementPrefix != "" {
		opts = append(opts, nelgen.WithStatementPrefix(c.StatementPrefix))
	}
	if c.StatementSuffix != "" {
		opts = append(opts, nelgen.WithStatementSuffix(c.StatementSuffix))
	}
	if len(c.Reserved) > 0 {
		opts = append(opts, nelgen.WithReservedWords(c.Reserved...))
	}
	return opts
}
