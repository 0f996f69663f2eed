package config

import (
	"errors"
	"runtime"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.LogInterval != 5 {
		t.Errorf("LogInterval = %d, want 5", cfg.LogInterval)
	}
	if cfg.CaseSensitive {
		t.Error("CaseSensitive should default to false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "prefix", mutate: func(c *Config) { c.Prefix = "00" }},
		{name: "prefix and suffix", mutate: func(c *Config) { c.Prefix = "dead"; c.Suffix = "beef" }},
		{name: "legacy pattern", mutate: func(c *Config) { c.Pattern = "abc" }},
		{name: "no pattern", mutate: func(c *Config) {}, wantErr: ErrNoPatternSpecified},
		{name: "non-hex prefix", mutate: func(c *Config) { c.Prefix = "ZZ" }, wantErr: ErrInvalidHex},
		{name: "non-hex legacy", mutate: func(c *Config) { c.Pattern = "xyz" }, wantErr: ErrInvalidHex},
		{name: "pattern with prefix", mutate: func(c *Config) { c.Pattern = "ab"; c.Prefix = "cd" }, wantErr: ErrConflictingPatterns},
		{name: "pattern with suffix", mutate: func(c *Config) { c.Pattern = "ab"; c.Suffix = "cd" }, wantErr: ErrConflictingPatterns},
		{name: "too long", mutate: func(c *Config) { c.Suffix = "0123456789012345678901234567890123456789a" }, wantErr: ErrPatternTooLong},
		{name: "zero threads", mutate: func(c *Config) { c.Prefix = "00"; c.Workers = 0 }, wantErr: ErrInvalidWorkers},
		{name: "zero interval", mutate: func(c *Config) { c.Prefix = "00"; c.LogInterval = 0 }, wantErr: ErrInvalidLogInterval},
		{name: "unknown engine", mutate: func(c *Config) { c.Prefix = "00"; c.Engine = "opencl" }, wantErr: ErrUnknownEngine},
		{name: "geth engine", mutate: func(c *Config) { c.Prefix = "00"; c.Engine = "geth" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantPrefix string
		wantSuffix string
	}{
		{name: "legacy prefix", cfg: Config{Pattern: "abc"}, wantPrefix: "abc"},
		{name: "legacy suffix mode", cfg: Config{Pattern: "abc", SuffixMode: true}, wantSuffix: "abc"},
		{name: "new style", cfg: Config{Prefix: "12", Suffix: "34"}, wantPrefix: "12", wantSuffix: "34"},
		{name: "suffix mode ignored without pattern", cfg: Config{Prefix: "12", SuffixMode: true}, wantPrefix: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, suffix, err := tt.cfg.Patterns()
			if err != nil {
				t.Fatalf("Patterns() unexpected error: %v", err)
			}
			if prefix != tt.wantPrefix || suffix != tt.wantSuffix {
				t.Errorf("Patterns() = (%q, %q), want (%q, %q)", prefix, suffix, tt.wantPrefix, tt.wantSuffix)
			}
		})
	}
}

func TestPatternSpecCaseFolding(t *testing.T) {
	cfg := NewConfig()
	cfg.Prefix = "DEAD"
	spec, err := cfg.PatternSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.Prefix != "dead" {
		t.Errorf("Prefix = %q, want folded %q", spec.Prefix, "dead")
	}

	cfg.CaseSensitive = true
	spec, err = cfg.PatternSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec.Prefix != "DEAD" {
		t.Errorf("Prefix = %q, want %q", spec.Prefix, "DEAD")
	}
}

func TestGetTargetDescription(t *testing.T) {
	cfg := NewConfig()
	if got := cfg.GetTargetDescription(); got != "unknown" {
		t.Errorf("GetTargetDescription() = %q, want unknown", got)
	}
	cfg.Prefix = "dead"
	cfg.Suffix = "beef"
	if got, want := cfg.GetTargetDescription(), "prefix 'dead' AND suffix 'beef'"; got != want {
		t.Errorf("GetTargetDescription() = %q, want %q", got, want)
	}
}
