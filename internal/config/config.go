// Package config loads britney's archive configuration: "KEY = VALUE"
// lines, case-insensitive keys, "#" comments — a Java/Python .properties
// dialect (spec.md §6) — via viper's properties backend, decoded into a
// typed Config struct with mapstructure.
package config

import (
	"context"
	"strconv"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the typed decode target for every recognised key in spec.md
// §6. Fields use mapstructure tags matching the lower-cased property
// name; urgency/user-keyed tables are decoded from the raw map instead of
// struct fields, since their key set is open-ended.
type Config struct {
	Unstable string `mapstructure:"unstable"`
	Testing  string `mapstructure:"testing"`
	PU       string `mapstructure:"pu"`
	TPU      string `mapstructure:"tpu"`

	Architectures    []string `mapstructure:"architectures"`
	NoBreakAllArches []string `mapstructure:"nobreakall_arches"`
	OutOfSyncArches  []string `mapstructure:"outofsync_arches"`
	BreakArches      []string `mapstructure:"break_arches"`
	NewArches        []string `mapstructure:"new_arches"`

	SmoothUpdates         []string `mapstructure:"smooth_updates"`
	IgnoreCruft           bool     `mapstructure:"ignore_cruft"`
	CheckConsistencyLevel int      `mapstructure:"check_consistency_level"`
	AutoHinterEnabled     bool     `mapstructure:"auto_hinter"`
	TesterClosureCap      int      `mapstructure:"tester_closure_cap"`

	// MinDaysByUrgency holds the MINDAYS_<URGENCY> family (e.g. "low",
	// "medium", "high", "emergency", "critical"), keyed lower-case.
	MinDaysByUrgency map[string]int `mapstructure:"-"`
	// HintPermissions holds the HINTS_<USER> family, keyed by user name,
	// values being the raw space-separated hint-type list.
	HintPermissions map[string]string `mapstructure:"-"`

	StateDir string `mapstructure:"state_dir"`
}

const defaultTesterClosureCap = 50000

// Load reads the properties file at path, substitutes "%(SERIES)" with
// series throughout the raw values, and decodes the result into a Config.
// A Config missing its unstable/testing suite names is a loader bug, not
// a data problem (spec.md §4.8 "Loader" row), so those are asserted
// rather than returned as an error.
func Load(ctx context.Context, path, series string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	if err := v.ReadInConfig(); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("reading archive config: " + path).
			WithCause(err)
	}

	raw := substituteSeries(v.AllSettings(), series)

	cfg := &Config{
		TesterClosureCap:  defaultTesterClosureCap,
		AutoHinterEnabled: true,
		MinDaysByUrgency:  map[string]int{},
		HintPermissions:   map[string]string{},
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(" "),
	})
	if err != nil {
		return nil, errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("building config decoder").WithCause(err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("decoding archive config").WithCause(err)
	}

	for key, value := range raw {
		lower := strings.ToLower(key)
		switch {
		case strings.HasPrefix(lower, "mindays_"):
			urgency := strings.TrimPrefix(lower, "mindays_")
			if n, ok := toInt(value); ok {
				cfg.MinDaysByUrgency[urgency] = n
			}
		case strings.HasPrefix(lower, "hints_"):
			user := strings.TrimPrefix(lower, "hints_")
			cfg.HintPermissions[user] = toStr(value)
		}
	}

	assert.NotEmpty(ctx, cfg.Unstable, "archive config must set unstable")
	assert.NotEmpty(ctx, cfg.Testing, "archive config must set testing")

	return cfg, nil
}

func substituteSeries(raw map[string]any, series string) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = strings.ReplaceAll(s, "%(SERIES)", series)
			continue
		}
		out[k] = v
	}
	return out
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

func toStr(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
