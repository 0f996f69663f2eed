package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/screa/evm-vanity-miner/internal/crypto"
	"github.com/screa/evm-vanity-miner/pkg/pattern"
)

// Errors
var (
	ErrNoPatternSpecified  = errors.New("must specify at least one of --prefix, --suffix or -p/--pattern")
	ErrConflictingPatterns = errors.New("cannot use -p/--pattern with --prefix/--suffix")
	ErrInvalidWorkers      = errors.New("--threads must be at least 1")
	ErrInvalidLogInterval  = errors.New("--log-interval must be at least 1 second")
	ErrUnknownEngine       = crypto.ErrUnknownEngine
	ErrInvalidHex          = pattern.ErrInvalidHex
	ErrPatternTooLong      = pattern.ErrPatternTooLong
)

// Config holds the application configuration
type Config struct {
	Workers       int
	Prefix        string
	Suffix        string
	Pattern       string // legacy single pattern
	SuffixMode    bool   // legacy: treat Pattern as a suffix
	CaseSensitive bool
	Engine        string
	Verbose       bool
	NoColor       bool
	LogFile       string
	LogInterval   int // Logging interval in seconds
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:     runtime.NumCPU(),
		Engine:      crypto.EngineDecred,
		LogInterval: 5, // Default 5 seconds
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	_, err := c.PatternSpec()
	if err != nil {
		return err
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.LogInterval < 1 {
		return ErrInvalidLogInterval
	}
	if !slices.Contains(crypto.Engines, c.Engine) {
		return fmt.Errorf("%w: %q", ErrUnknownEngine, c.Engine)
	}
	return nil
}

// Patterns resolves the legacy and the new pattern flags into a prefix and a suffix
func (c *Config) Patterns() (prefix, suffix string, err error) {
	if c.Pattern != "" {
		if c.Prefix != "" || c.Suffix != "" {
			return "", "", ErrConflictingPatterns
		}
		if c.SuffixMode {
			return "", c.Pattern, nil
		}
		return c.Pattern, "", nil
	}
	if c.Prefix == "" && c.Suffix == "" {
		return "", "", ErrNoPatternSpecified
	}
	return c.Prefix, c.Suffix, nil
}

// PatternSpec builds the validated pattern spec
func (c *Config) PatternSpec() (*pattern.Spec, error) {
	prefix, suffix, err := c.Patterns()
	if err != nil {
		return nil, err
	}
	return pattern.NewSpec(prefix, suffix, c.CaseSensitive)
}

// GetTargetDescription returns a human-readable description of the target
func (c *Config) GetTargetDescription() string {
	spec, err := c.PatternSpec()
	if err != nil {
		return "unknown"
	}
	return spec.String()
}
