// Package config handles publications page configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/matsen/pubpage/internal/publist"
	"github.com/matsen/pubpage/internal/reference"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config describes one publications page.
type Config struct {
	Title     string `yaml:"title,omitempty" toml:"title,omitempty"`
	Author    string `yaml:"author,omitempty" toml:"author,omitempty"`
	Style     string `yaml:"style,omitempty" toml:"style,omitempty"`
	Backend   string `yaml:"backend,omitempty" toml:"backend,omitempty"`
	LinkField string `yaml:"link_field,omitempty" toml:"link_field,omitempty"`

	// Categories is the display order of category headings.
	Categories []string `yaml:"categories,omitempty" toml:"categories,omitempty"`
	// Rules map record types to categories, first match wins.
	Rules []Rule `yaml:"rules,omitempty" toml:"rules,omitempty"`

	Prologue string `yaml:"prologue,omitempty" toml:"prologue,omitempty"`
	Epilogue string `yaml:"epilogue,omitempty" toml:"epilogue,omitempty"`
}

// Rule is the file form of a classifier rule.
type Rule struct {
	Category   string   `yaml:"category" toml:"category"`
	Types      []string `yaml:"types" toml:"types"`
	NotePrefix string   `yaml:"note_prefix,omitempty" toml:"note_prefix,omitempty"`
}

// DefaultPrologue is Jekyll front matter for the generated page.
const DefaultPrologue = `---
layout: default
title: {{ .Title }}
category: publications
---
`

// DefaultEpilogue credits the generator and links the source file.
const DefaultEpilogue = `<div style="font-style:italic;font-size:0.8em;text-align:center;">This page is automatically
generated from a <a href="{{ .Source }}">BibTeX file</a> using pubpage.</div>
`

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Title:      "Publications",
		Style:      "plain",
		Backend:    "html",
		LinkField:  reference.FieldHowPublished,
		Categories: publist.DefaultCategories(),
		Prologue:   DefaultPrologue,
		Epilogue:   DefaultEpilogue,
	}
	for _, r := range publist.DefaultRules() {
		cfg.Rules = append(cfg.Rules, Rule{Category: r.Category, Types: r.Types, NotePrefix: r.NotePrefix})
	}
	return cfg
}

// Load reads a config file and fills unset fields from Default. The
// format is chosen by extension: .yml/.yaml or .toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q (use .yml, .yaml, or .toml)", ErrInvalid, ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Style == "" {
		c.Style = def.Style
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.LinkField == "" {
		c.LinkField = def.LinkField
	}
	// A custom taxonomy must define both halves; only fill when both are unset.
	if len(c.Categories) == 0 && len(c.Rules) == 0 {
		c.Categories = def.Categories
		c.Rules = def.Rules
	}
	if c.Prologue == "" {
		c.Prologue = def.Prologue
	}
	if c.Epilogue == "" {
		c.Epilogue = def.Epilogue
	}
}

// Validate checks that the taxonomy is consistent.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalid)
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalid)
	}

	known := make(map[string]bool, len(c.Categories))
	for _, name := range c.Categories {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty category name", ErrInvalid)
		}
		if known[name] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalid, name)
		}
		known[name] = true
	}

	for i, r := range c.Rules {
		if !known[r.Category] {
			return fmt.Errorf("%w: rule %d names unknown category %q", ErrInvalid, i+1, r.Category)
		}
		if len(r.Types) == 0 {
			return fmt.Errorf("%w: rule %d (%s) has no types", ErrInvalid, i+1, r.Category)
		}
	}
	return nil
}

// PublistRules converts the configured rules for the grouping engine.
func (c *Config) PublistRules() []publist.Rule {
	rules := make([]publist.Rule, len(c.Rules))
	for i, r := range c.Rules {
		rules[i] = publist.Rule{Category: r.Category, Types: r.Types, NotePrefix: r.NotePrefix}
	}
	return rules
}
