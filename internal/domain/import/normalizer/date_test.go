package normalizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"01/02/2024", "2024-01-02"},
		{"1/5/24", "2024-01-05"},
		{"12/31/1999", "1999-12-31"},
		{"1/2/2024", "2024-01-02"},
		{"06/15/50", "2050-06-15"},
		{"06/15/51", "1951-06-15"},
		{"2024-03-09", "2024-03-09"},
		{"2024-03-09T10:11:12Z", "2024-03-09"},
		{" 02/29/2024 ", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatISO(got))
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	inputs := []string{
		"13/01/2024",
		"02/30/2024",
		"02/29/2023",
		"00/10/2024",
		"2024-13-01",
		"01-02-2024",
		"Jan 2, 2024",
		"1/2",
		"",
		"1/2/202",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDate))
		})
	}
}
