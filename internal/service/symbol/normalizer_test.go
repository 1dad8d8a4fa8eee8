package symbol

import (
	"strings"
	"testing"

	"MarketGate/internal/domain/models"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := New()
	cases := []struct {
		in   string
		want string
	}{
		{"AAPL", "AAPL"},
		{"  aapl ", "AAPL"},
		{"2330.TW", "2330.TW"},
		{"2330", "2330.TW"},
		{"00878", "00878.TW"},
		{"00632r", "00632R.TW"},
		{"1101B", "1101B.TW"},
		{"3A", "3A.TW"},
		{"6488.TWO", "6488.TWO"},
		{"brk-b", "BRK-B"},
		{"shop.to", "SHOP.to"},
		{"^twii", "^TWII"},
		{"EURUSD=X", "EURUSD=X"},
	}
	for _, tc := range cases {
		got, err := n.Normalize(tc.in)
		require.NoErrorf(t, err, "input %q", tc.in)
		require.Equalf(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	t.Parallel()

	n := New()
	for _, in := range []string{"", "   ", "AA PL", strings.Repeat("A", MaxLength+1), "AAPL;", ".TW", "AAPL.", "台積電"} {
		_, err := n.Normalize(in)
		require.Errorf(t, err, "input %q", in)
		require.Equalf(t, models.KindInvalidSymbol, models.KindOf(err), "input %q", in)
	}
}

func TestNormalize_NumericSuffixDisabled(t *testing.T) {
	t.Parallel()

	got, err := New(WithNumericSuffix("")).Normalize("2330")
	require.NoError(t, err)
	require.Equal(t, "2330", got)
}
