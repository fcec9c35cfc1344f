package cart

import (
	"testing"
	"time"

	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceID(t *testing.T) {
	day := time.Date(2026, 1, 5, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name  string
		store string
		man   string
		seq   int
		want  string
	}{
		{name: "first of day", store: "S01", man: "maria", seq: 1, want: "S01_maria_20260105_001"},
		{name: "two digits", store: "S01", man: "maria", seq: 42, want: "S01_maria_20260105_042"},
		{name: "wider than padding", store: "S01", man: "maria", seq: 1234, want: "S01_maria_20260105_1234"},
		{name: "trims ids", store: " S02 ", man: " juan", seq: 7, want: "S02_juan_20260105_007"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatInvoiceID(tc.store, tc.man, day, tc.seq)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatInvoiceIDRejectsMissingParts(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	_, err := FormatInvoiceID("", "maria", day, 1)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	_, err = FormatInvoiceID("S01", "  ", day, 1)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	_, err = FormatInvoiceID("S01", "maria", day, 0)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestBusinessDateUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*60*60)
	local := time.Date(2026, 1, 5, 20, 0, 0, 0, loc)
	assert.Equal(t, "20260106", BusinessDate(local))
}
