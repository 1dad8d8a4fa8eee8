package symbol

import (
	"strings"
	"unicode"

	"MarketGate/internal/domain/models"
	domsvc "MarketGate/internal/domain/service"
)

// MaxLength bounds accepted ticker length after trimming.
const MaxLength = 20

// DefaultNumericSuffix is appended to suffix-less tickers that start with a digit,
// which are Taiwan listings such as 2330 or the 00632R and 1101B share classes.
const DefaultNumericSuffix = ".TW"

// Normalizer canonicalizes ticker strings into the form upstream expects.
type Normalizer struct {
	numericSuffix string
}

// Option configures Normalizer.
type Option func(*Normalizer)

// WithNumericSuffix overrides the suffix for digit-leading tickers. Empty disables it.
func WithNumericSuffix(suffix string) Option {
	return func(n *Normalizer) { n.numericSuffix = suffix }
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{numericSuffix: DefaultNumericSuffix}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize validates raw and returns the canonical symbol.
// The base (before the first '.') is upper-cased; the suffix is kept verbatim.
func (n *Normalizer) Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", models.InvalidSymbol("symbol is required")
	}
	if len(s) > MaxLength {
		return "", models.InvalidSymbol("symbol exceeds %d characters", MaxLength)
	}
	for _, r := range s {
		if !validRune(r) {
			return "", models.InvalidSymbol("symbol contains invalid character %q", r)
		}
	}

	base, suffix, hasSuffix := strings.Cut(s, ".")
	if base == "" {
		return "", models.InvalidSymbol("symbol %q has no base", s)
	}
	base = strings.ToUpper(base)
	if hasSuffix {
		if suffix == "" {
			return "", models.InvalidSymbol("symbol %q has an empty suffix", s)
		}
		return base + "." + suffix, nil
	}
	if n.numericSuffix != "" && startsWithDigit(base) {
		return base + n.numericSuffix, nil
	}
	return base, nil
}

func validRune(r rune) bool {
	if r > unicode.MaxASCII {
		return false
	}
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '^', r == '=', r == '-':
		return true
	}
	return false
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

var _ domsvc.SymbolNormalizer = (*Normalizer)(nil)
