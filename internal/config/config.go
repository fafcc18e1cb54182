package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// Config is the frozen set of recognized options described in spec §6.
// Unknown keys in client payloads are ignored when applying settings.
type Config struct {
	Enabled bool

	SharedDataDir string
	UserDataDir   string
	LogDir        string

	MaxCandidates int

	TriggerCharacters      []string
	PagingCharacters       []string
	SchemaTriggerCharacter string

	MaxTokens int

	AlwaysIncomplete bool
	PreselectFirst   bool

	LongFilterText         bool
	ShowFilterTextInLabel  bool
	ShowOrderInLabel       bool
}

// Default returns the built-in default configuration.
func Default() Config {
	return Config{
		Enabled:                true,
		SharedDataDir:           "/usr/share/rime-data",
		UserDataDir:             "~/.local/share/rime-ls",
		LogDir:                  "~/.cache/rime-ls",
		MaxCandidates:           10,
		TriggerCharacters:       nil,
		PagingCharacters:        []string{".", ",", "-", "="},
		SchemaTriggerCharacter:  "",
		MaxTokens:               0,
		AlwaysIncomplete:        false,
		PreselectFirst:          false,
		LongFilterText:          false,
		ShowFilterTextInLabel:   false,
		ShowOrderInLabel:        true,
	}
}

// ExpandTilde expands a leading "~" to the user's home directory, mirroring
// the original implementation's utils::expand_tilde.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ApplyInitializationOptions replaces fields present in the raw JSON
// initializationOptions blob, defaulting anything absent to the built-in
// default (this is the one-shot form sent during initialize).
func ApplyInitializationOptions(raw []byte) Config {
	cfg := Default()
	if len(raw) == 0 {
		return cfg
	}
	applyPartial(&cfg, raw)
	return cfg
}

// ApplyPartialSettings mutates cfg in place, applying only the fields
// present in raw. This is the "duck-typed settings" operation from spec §9:
// each key is optional, and unknown keys are silently dropped.
func ApplyPartialSettings(cfg *Config, raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return ErrMalformedConfig
	}
	applyPartial(cfg, raw)
	return nil
}

func applyPartial(cfg *Config, raw []byte) {
	root := gjson.ParseBytes(raw)

	if v := root.Get("enabled"); v.Exists() {
		cfg.Enabled = v.Bool()
	}
	if v := root.Get("shared_data_dir"); v.Exists() {
		cfg.SharedDataDir = v.String()
	}
	if v := root.Get("user_data_dir"); v.Exists() {
		cfg.UserDataDir = v.String()
	}
	if v := root.Get("log_dir"); v.Exists() {
		cfg.LogDir = v.String()
	}
	if v := root.Get("max_candidates"); v.Exists() {
		cfg.MaxCandidates = int(v.Int())
	}
	if v := root.Get("trigger_characters"); v.Exists() {
		cfg.TriggerCharacters = stringArray(v)
	}
	if v := root.Get("paging_characters"); v.Exists() {
		cfg.PagingCharacters = stringArray(v)
	}
	if v := root.Get("schema_trigger_character"); v.Exists() {
		cfg.SchemaTriggerCharacter = v.String()
	}
	if v := root.Get("max_tokens"); v.Exists() {
		cfg.MaxTokens = int(v.Int())
	}
	if v := root.Get("always_incomplete"); v.Exists() {
		cfg.AlwaysIncomplete = v.Bool()
	}
	if v := root.Get("preselect_first"); v.Exists() {
		cfg.PreselectFirst = v.Bool()
	}
	if v := root.Get("long_filter_text"); v.Exists() {
		cfg.LongFilterText = v.Bool()
	}
	if v := root.Get("show_filter_text_in_label"); v.Exists() {
		cfg.ShowFilterTextInLabel = v.Bool()
	}
	if v := root.Get("show_order_in_label"); v.Exists() {
		cfg.ShowOrderInLabel = v.Bool()
	}
}

func stringArray(v gjson.Result) []string {
	arr := v.Array()
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		out = append(out, e.String())
	}
	return out
}
