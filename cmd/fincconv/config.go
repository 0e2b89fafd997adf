package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/ubleipzig/fincconv/internal/sources"
)

// sourcesConfig is the optional YAML config holding per-source
// settings, keyed by SID or name:
//
//	sources:
//	  "35":
//	    filemap: lcc_patterns.txt
//	  crossref:
//	    cache: members.sqlite
type sourcesConfig struct {
	Sources map[string]map[string]interface{} `yaml:"sources"`
}

// loadSettings returns the settings block for one source, matched by
// SID or name, or an empty block when no config file is given.
func loadSettings(path string, src *sources.Source) (map[string]interface{}, error) {
	if path == "" {
		return map[string]interface{}{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg sourcesConfig

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %s", path, err.Error())
	}

	for key, settings := range cfg.Sources {
		if key == src.SID || key == src.Name {
			return normalizeSettings(settings), nil
		}
	}

	return map[string]interface{}{}, nil
}

// normalizeSettings rewrites the interface-keyed maps yaml.v2 produces
// into string-keyed maps, which the settings decoder expects.
func normalizeSettings(settings map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(settings))

	for key, value := range settings {
		out[key] = normalizeValue(value)
	}

	return out
}

func normalizeValue(value interface{}) interface{} {
	switch t := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[fmt.Sprintf("%v", k)] = normalizeValue(v)
		}
		return out

	case []interface{}:
		for i, v := range t {
			t[i] = normalizeValue(v)
		}
		return t
	}

	return value
}
