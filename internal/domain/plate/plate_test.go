package plate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantValue  string
		wantFormat Format
	}{
		{name: "legacy", in: "ABC1234", wantValue: "ABC1234", wantFormat: FormatLegacy},
		{name: "mercosul", in: "ABC1D23", wantValue: "ABC1D23", wantFormat: FormatMercosul},
		{name: "lowercase with hyphen", in: "abc-1234", wantValue: "ABC1234", wantFormat: FormatLegacy},
		{name: "spaces", in: " abc 1d23 ", wantValue: "ABC1D23", wantFormat: FormatMercosul},
		{name: "truncated to seven", in: "ABC1234567", wantValue: "ABC1234", wantFormat: FormatLegacy},
		{name: "digit in letter block dropped", in: "AB12345", wantValue: "AB2345", wantFormat: FormatLegacy},
		{name: "partial letters", in: "ab", wantValue: "AB", wantFormat: FormatLegacy},
		{name: "partial mercosul", in: "abc1d", wantValue: "ABC1D", wantFormat: FormatMercosul},
		{name: "single rest char is legacy", in: "abc1", wantValue: "ABC1", wantFormat: FormatLegacy},
		{name: "empty", in: "", wantValue: "", wantFormat: FormatLegacy},
		{name: "accents stripped", in: "ÁBC1234", wantValue: "BC1234", wantFormat: FormatLegacy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantFormat, got.Format)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{in: "ABC1234"},
		{in: "ABC1D23"},
		{in: "ABC-1234"},
		{in: "ABC 1D23"},
		{in: "AB2345", wantErr: ErrInvalidLength},
		{in: "", wantErr: ErrInvalidLength},
		{in: "ABCD1234", wantErr: ErrInvalidLength},
		{in: "AB12345", wantErr: ErrInvalidFormat},
		{in: "abc1234", wantErr: ErrInvalidFormat},
		{in: "ABC12_4", wantErr: ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("abc-1234")
	require.NoError(t, err)
	assert.Equal(t, Plate{Value: "ABC1234", Format: FormatLegacy}, p)

	p, err = Parse("abc1d23")
	require.NoError(t, err)
	assert.Equal(t, FormatMercosul, p.Format)
	assert.Equal(t, "ABC1D23", p.String())

	_, err = Parse("AB12345")
	require.ErrorIs(t, err, ErrInvalidLength)
}
