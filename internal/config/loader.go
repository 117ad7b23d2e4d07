package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/phyten/spellmask/internal/mask"
)

var topKeyMap = map[string]string{
	"mapfilter":       "mapFilter",
	"mapfiltermodule": "mapFilterModule",
	"useaspellfilter": "useAspellFilter",
	"filterconfig":    "filterConfig",
	"debug":           "debug",
	"aspellargs":      "aspellArgs",
	"scriptdir":       "scriptDir",
	"aspell":          "aspell",
	"jobs":            "jobs",
}

// Load reads a YAML, TOML or JSON document. An empty path yields an empty
// document.
func Load(path string) (map[string]any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	tree, err := normalizeTree(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc, ok := tree.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a mapping at top level, got %T", path, tree)
	}
	doc, err = canonicalKeys(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// canonicalKeys renames the known top-level keys of doc to their canonical
// spelling so they merge with the defaults. Unknown keys are kept for Decode
// to reject.
func canonicalKeys(doc map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(doc))
	from := map[string]string{}
	for key, value := range doc {
		name := key
		if canonical, ok := topKeyMap[normalizeKey(key)]; ok {
			name = canonical
		}
		if prev, dup := from[name]; dup {
			return nil, fmt.Errorf("duplicate config key: %s and %s", min(prev, key), max(prev, key))
		}
		from[name] = key
		out[name] = value
	}
	return out, nil
}

// Build merges the file at path over Defaults, decodes the result and
// applies env overrides. When the only problem is a merge type mismatch, the
// decoded Config is returned along with an error wrapping ErrTypeMismatch;
// the mismatching keys keep their defaults. Any other failure returns a zero
// Config.
func Build(path string, env Overrides) (Config, error) {
	doc, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	merged, mergeErr := Merge(Defaults(), doc)
	cfg, err := Decode(merged)
	if err != nil {
		return Config{}, errors.Join(mergeErr, err)
	}
	env.Apply(&cfg)
	return cfg, mergeErr
}

// Decode converts a merged document into a Config. Unknown keys are errors.
func Decode(raw map[string]any) (Config, error) {
	cfg := Config{
		MapFilter:       map[string]string{},
		MapFilterModule: map[string]string{},
		UseAspellFilter: map[string]bool{},
		AspellArgs:      map[string]ArgsConfig{},
		Aspell:          defaultAspell,
		Jobs:            defaultJobs,
		Raw:             raw,
		filters:         map[string]map[string]any{},
	}
	seen := map[string]string{}
	for key, value := range raw {
		canonical, ok := topKeyMap[normalizeKey(key)]
		if !ok {
			return cfg, fmt.Errorf("unknown config key: %s", key)
		}
		if prev, dup := seen[canonical]; dup {
			return cfg, fmt.Errorf("duplicate config key: %s and %s", min(prev, key), max(prev, key))
		}
		seen[canonical] = key
		var err error
		switch canonical {
		case "mapFilter":
			cfg.MapFilter, err = expectStringMap(value, canonical)
		case "mapFilterModule":
			cfg.MapFilterModule, err = expectStringMap(value, canonical)
		case "useAspellFilter":
			cfg.UseAspellFilter, err = expectBoolMap(value, canonical)
		case "filterConfig":
			err = decodeFilterSections(value, cfg.filters)
		case "debug":
			err = decodeDebug(value, &cfg.Debug)
		case "aspellArgs":
			cfg.AspellArgs, err = decodeAspellArgs(value)
		case "scriptDir":
			cfg.ScriptDir, err = expectString(value, canonical)
		case "aspell":
			cfg.Aspell, err = expectString(value, canonical)
		case "jobs":
			cfg.Jobs, err = expectInt(value, canonical)
			if err == nil && (cfg.Jobs < 1 || cfg.Jobs > maxJobs) {
				err = fmt.Errorf("jobs must be between 1 and %d", maxJobs)
			}
		}
		if err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// FilterSettings deep merges the filterConfig sections of names, in order,
// and compiles the resulting ignore patterns.
func (c Config) FilterSettings(names ...string) (FilterConfig, error) {
	merged := map[string]any{}
	seen := map[string]bool{}
	var errs []error
	for _, name := range names {
		sec, ok := c.filters[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		var err error
		merged, err = Merge(merged, sec)
		if err != nil {
			errs = append(errs, fmt.Errorf("filterConfig.%s: %w", name, err))
		}
	}
	fc, err := decodeFilter(merged, "filterConfig")
	if err != nil {
		errs = append(errs, err)
	}
	return fc, errors.Join(errs...)
}

func decodeFilterSections(value any, dst map[string]map[string]any) error {
	sections, err := toStringKeyMap(value)
	if err != nil {
		return fmt.Errorf("filterConfig: %w", err)
	}
	for name, raw := range sections {
		sec, err := toStringKeyMap(raw)
		if err != nil {
			return fmt.Errorf("filterConfig.%s: %w", name, err)
		}
		// Surface bad patterns at load time rather than per run.
		if _, err := decodeFilter(sec, "filterConfig."+name); err != nil {
			return err
		}
		dst[name] = sec
	}
	return nil
}

func decodeFilter(sec map[string]any, field string) (FilterConfig, error) {
	var fc FilterConfig
	for key, value := range sec {
		var err error
		switch normalizeKey(key) {
		case "ignoreregexps":
			fc.IgnoreRegexps, err = expectStringList(value, field+".ignoreRegexps")
		case "language":
			fc.Language, err = expectString(value, field+".language")
		default:
			err = fmt.Errorf("unknown %s key: %s", field, key)
		}
		if err != nil {
			return fc, err
		}
	}
	ignores, err := mask.CompileIgnores(fc.IgnoreRegexps)
	if err != nil {
		return fc, fmt.Errorf("%s: %w", field, err)
	}
	fc.Ignores = ignores
	return fc, nil
}

func decodeDebug(value any, dst *DebugConfig) error {
	sec, err := toStringKeyMap(value)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}
	for key, v := range sec {
		switch normalizeKey(key) {
		case "file":
			if dst.File, err = expectString(v, "debug.file"); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown debug key: %s", key)
		}
	}
	return nil
}

func decodeAspellArgs(value any) (map[string]ArgsConfig, error) {
	sec, err := toStringKeyMap(value)
	if err != nil {
		return nil, fmt.Errorf("aspellArgs: %w", err)
	}
	out := make(map[string]ArgsConfig, len(sec))
	for name, raw := range sec {
		entry, err := toStringKeyMap(raw)
		if err != nil {
			return nil, fmt.Errorf("aspellArgs.%s: %w", name, err)
		}
		var ac ArgsConfig
		for key, v := range entry {
			field := "aspellArgs." + name + "." + key
			switch normalizeKey(key) {
			case "basedon":
				ac.BasedOn, err = expectString(v, field)
			case "args":
				ac.Args, err = expectStringList(v, field)
			default:
				err = fmt.Errorf("unknown aspellArgs key: %s", field)
			}
			if err != nil {
				return nil, err
			}
		}
		out[name] = ac
	}
	return out, nil
}

func expectString(value any, field string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%s cannot be null", field)
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string for %s, got %T", field, value)
}

func expectBool(value any, field string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return parseBool(v, field)
	default:
		return false, fmt.Errorf("expected bool for %s, got %T", field, value)
	}
}

func expectInt(value any, field string) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer for %s, got %v", field, value)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %q", field, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer for %s, got %T", field, value)
	}
}

// expectStringList keeps list entries verbatim: ignore patterns may
// legitimately start or end with spaces.
func expectStringList(value any, field string) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			str, err := expectString(item, fmt.Sprintf("%s[%d]", field, i))
			if err != nil {
				return nil, err
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or list for %s, got %T", field, value)
	}
}

func expectStringMap(value any, field string) (map[string]string, error) {
	m, err := toStringKeyMap(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, err := expectString(v, field+"."+k)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

func expectBoolMap(value any, field string) (map[string]bool, error) {
	m, err := toStringKeyMap(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		b, err := expectBool(v, field+"."+k)
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return out, nil
}

func parseBool(raw, field string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value for %s: %q", field, raw)
	}
}

func toStringKeyMap(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return typed, nil
	default:
		return nil, fmt.Errorf("expected map, got %T", v)
	}
}

// normalizeTree converts decoder output to map[string]any and []any all the
// way down, so Merge sees one representation whatever the file format.
func normalizeTree(v any) (any, error) {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			n, err := normalizeTree(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key: %v", k)
			}
			n, err := normalizeTree(item)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			n, err := normalizeTree(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

func normalizeKey(key string) string {
	norm := strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("-", "", "_", "").Replace(norm)
}
