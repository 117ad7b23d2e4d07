package config

import "regexp"

// Config is the decoded wrapper configuration.
type Config struct {
	// MapFilter renames a requested filter before any other lookup.
	MapFilter map[string]string
	// MapFilterModule points a filter name at a registered extractor.
	MapFilterModule map[string]string
	// UseAspellFilter lists filters handled by aspell's own modes.
	UseAspellFilter map[string]bool
	Debug           DebugConfig
	AspellArgs      map[string]ArgsConfig
	ScriptDir       string
	Aspell          string
	Jobs            int

	// Raw is the merged document Config was decoded from.
	Raw map[string]any

	filters map[string]map[string]any
}

type DebugConfig struct {
	// File is the trace file path; "{}" is replaced by the Unix time.
	File string
}

// ArgsConfig is one entry of aspellArgs.
type ArgsConfig struct {
	BasedOn string
	Args    []string
}

// FilterConfig is the merged filterConfig of a filter.
type FilterConfig struct {
	IgnoreRegexps []string         `yaml:"ignoreRegexps,omitempty"`
	Language      string           `yaml:"language,omitempty"`
	Ignores       []*regexp.Regexp `yaml:"-"`
}

const (
	defaultAspell = "aspell"
	defaultJobs   = 4
	maxJobs       = 256
)

// Defaults returns the document every loaded file is merged into.
func Defaults() map[string]any {
	return map[string]any{
		"mapFilter":       map[string]any{},
		"mapFilterModule": map[string]any{},
		"useAspellFilter": map[string]any{"all": true},
		"filterConfig":    map[string]any{},
		"debug":           map[string]any{},
		"aspellArgs": map[string]any{
			"any": map[string]any{"args": []any{}},
		},
	}
}
