package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Overrides are settings taken from the environment. A nil field leaves the
// file value alone.
type Overrides struct {
	ConfigPath *string
	DebugFile  *string
	Aspell     *string
	ScriptDir  *string
	Jobs       *int
}

func FromEnv(getenv func(string) string) (Overrides, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var o Overrides
	var errs []error

	setString := func(target **string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		value := raw
		*target = &value
	}
	setInt := func(target **int, key string, min, max int) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid integer value for %s: %q", key, raw))
			return
		}
		if v < min || v > max {
			errs = append(errs, fmt.Errorf("%s must be between %d and %d", key, min, max))
			return
		}
		*target = &v
	}

	setString(&o.ConfigPath, "SPELLMASK_CONFIG")
	setString(&o.DebugFile, "SPELLMASK_DEBUG_FILE")
	setString(&o.Aspell, "SPELLMASK_ASPELL")
	setString(&o.ScriptDir, "SPELLMASK_SCRIPT_DIR")
	setInt(&o.Jobs, "SPELLMASK_JOBS", 1, maxJobs)

	if len(errs) > 0 {
		return o, errors.Join(errs...)
	}
	return o, nil
}

// Apply copies every set override into cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.DebugFile != nil {
		cfg.Debug.File = *o.DebugFile
	}
	if o.Aspell != nil {
		cfg.Aspell = *o.Aspell
	}
	if o.ScriptDir != nil {
		cfg.ScriptDir = *o.ScriptDir
	}
	if o.Jobs != nil {
		cfg.Jobs = *o.Jobs
	}
}
