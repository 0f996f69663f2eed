package pattern

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// AddressHexLen is the length of an address rendered as hex without 0x
const AddressHexLen = 40

// Errors
var (
	ErrNoPattern      = errors.New("at least one of prefix or suffix is required")
	ErrInvalidHex     = errors.New("pattern contains a non-hex character")
	ErrPatternTooLong = fmt.Errorf("pattern is longer than %d characters", AddressHexLen)
)

// Spec describes what a winning address looks like
type Spec struct {
	Prefix        string
	Suffix        string
	CaseSensitive bool

	// Pre-converted for the hot path. Nil if not set.
	prefixBytes []byte
	suffixBytes []byte
}

// NewSpec validates the patterns and returns a compiled Spec.
// Empty strings count as absent. When caseSensitive is false both
// patterns are folded to lowercase.
func NewSpec(prefix, suffix string, caseSensitive bool) (*Spec, error) {
	if prefix == "" && suffix == "" {
		return nil, ErrNoPattern
	}
	if err := Validate(prefix); err != nil {
		return nil, fmt.Errorf("invalid prefix %q: %w", prefix, err)
	}
	if err := Validate(suffix); err != nil {
		return nil, fmt.Errorf("invalid suffix %q: %w", suffix, err)
	}

	if !caseSensitive {
		prefix = strings.ToLower(prefix)
		suffix = strings.ToLower(suffix)
	}

	s := &Spec{
		Prefix:        prefix,
		Suffix:        suffix,
		CaseSensitive: caseSensitive,
	}
	if prefix != "" {
		s.prefixBytes = []byte(prefix)
	}
	if suffix != "" {
		s.suffixBytes = []byte(suffix)
	}
	return s, nil
}

// Validate reports whether p only holds characters in [0-9a-fA-F]
func Validate(p string) error {
	if len(p) > AddressHexLen {
		return ErrPatternTooLong
	}
	for i, r := range p {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return fmt.Errorf("%w: %q at position %d", ErrInvalidHex, r, i)
		}
	}
	return nil
}

// Matches reports whether addrHex (40 chars, no 0x) satisfies the spec.
// Case-insensitive mode lowercases the address; case-sensitive mode
// compares byte for byte and never applies EIP-55 casing.
func (s *Spec) Matches(addrHex string) bool {
	if !s.CaseSensitive {
		addrHex = strings.ToLower(addrHex)
	}
	if s.Prefix != "" && !strings.HasPrefix(addrHex, s.Prefix) {
		return false
	}
	if s.Suffix != "" && !strings.HasSuffix(addrHex, s.Suffix) {
		return false
	}
	return true
}

// MatchHex is the allocation-free variant of Matches for the worker loop.
// addrHex must already be lowercase, which is what hex.Encode produces.
func (s *Spec) MatchHex(addrHex []byte) bool {
	if s.prefixBytes != nil && !bytes.HasPrefix(addrHex, s.prefixBytes) {
		return false
	}
	if s.suffixBytes != nil && !bytes.HasSuffix(addrHex, s.suffixBytes) {
		return false
	}
	return true
}

// Unmatchable reports whether the spec can never be satisfied by a
// lowercase address rendering (uppercase letters under case-sensitive mode).
func (s *Spec) Unmatchable() bool {
	if !s.CaseSensitive {
		return false
	}
	return strings.ToLower(s.Prefix) != s.Prefix || strings.ToLower(s.Suffix) != s.Suffix
}

// Difficulty returns the expected number of attempts to find a match
func (s *Spec) Difficulty() float64 {
	n := len(s.Prefix) + len(s.Suffix)
	if n > AddressHexLen {
		n = AddressHexLen
	}
	d := 1.0
	for i := 0; i < n; i++ {
		d *= 16
	}
	return d
}

// String returns a human-readable description of the target
func (s *Spec) String() string {
	switch {
	case s.Prefix != "" && s.Suffix != "":
		return fmt.Sprintf("prefix '%s' AND suffix '%s'", s.Prefix, s.Suffix)
	case s.Prefix != "":
		return fmt.Sprintf("prefix '%s'", s.Prefix)
	default:
		return fmt.Sprintf("suffix '%s'", s.Suffix)
	}
}
