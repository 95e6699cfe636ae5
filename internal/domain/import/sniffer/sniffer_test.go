package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConfig(t *testing.T) {
	t.Run("plain comma file", func(t *testing.T) {
		cfg, err := DetectConfig([]byte("Date,Description,Amount\n01/02/2024,Starbucks,-4.50\n"))
		require.NoError(t, err)
		assert.Equal(t, ',', cfg.Delimiter)
		assert.Equal(t, 0, cfg.SkipLines)
		assert.Equal(t, []string{"Date", "Description", "Amount"}, cfg.Headers)
		require.Len(t, cfg.SampleRows, 1)
		assert.Equal(t, "Starbucks", cfg.SampleRows[0][1])
	})

	t.Run("skips metadata preamble", func(t *testing.T) {
		data := "Account Number: 123456\nStatement Period: Jan 2024\n\nPosting Date;Description;Debit;Credit;Balance\n02/01/2024;Coffee;3.50;;100.00\n"
		cfg, err := DetectConfig([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, ';', cfg.Delimiter)
		assert.Equal(t, 3, cfg.SkipLines)
		assert.Equal(t, "Posting Date", cfg.Headers[0])
	})

	t.Run("strips BOM and CRLF", func(t *testing.T) {
		cfg, err := DetectConfig([]byte("\uFEFFDate\tDescription\tAmount\r\n01/02/2024\tX\t1.00\r\n"))
		require.NoError(t, err)
		assert.Equal(t, '\t', cfg.Delimiter)
		assert.Equal(t, "Date", cfg.Headers[0])
		assert.Equal(t, "Amount", cfg.Headers[2])
	})

	t.Run("quoted description with commas stays data", func(t *testing.T) {
		data := "Date,Description,Amount\n" +
			"01/02/2024,\"DEBIT CARD PURCHASE, STARBUCKS, SEATTLE\",-4.50\n" +
			"01/03/2024,Payroll,2000.00\n"
		cfg, err := DetectConfig([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.SkipLines)
		assert.Equal(t, []string{"Date", "Description", "Amount"}, cfg.Headers)
	})

	t.Run("preamble with dates is not a header", func(t *testing.T) {
		data := "Statement, 01/01/2024 - 01/31/2024, closing balance 120.00\nDate,Memo,Debit,Credit\n01/05/2024,Fee,2.00,\n"
		cfg, err := DetectConfig([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.SkipLines)
		assert.Equal(t, "Memo", cfg.Headers[1])
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := DetectConfig([]byte("  \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("no header", func(t *testing.T) {
		_, err := DetectConfig([]byte("just some prose\nwithout any columns\n"))
		assert.ErrorIs(t, err, ErrNoHeadersFound)
	})
}

func TestFingerprint_IgnoresCaseAndSpacing(t *testing.T) {
	a := generateFingerprint([]string{"Trans. Date", "Post Date", "Description"})
	b := generateFingerprint([]string{"trans date", "POST DATE", " description "})
	c := generateFingerprint([]string{"Date", "Description"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestSuggestColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    ColumnSuggestions
	}{
		{
			name:    "single amount",
			headers: []string{"Date", "Description", "Amount"},
			want:    ColumnSuggestions{DateCol: 0, DescCol: 1, AmountCol: 2, DebitCol: -1, CreditCol: -1, CategoryCol: -1},
		},
		{
			name:    "debit and credit pair",
			headers: []string{"Posting Date", "Details", "Debit", "Credit", "Balance"},
			want:    ColumnSuggestions{DateCol: 0, DescCol: 1, AmountCol: -1, DebitCol: 2, CreditCol: 3, CategoryCol: -1, IsDoubleEntry: true},
		},
		{
			name:    "exact synonym beats earlier substring",
			headers: []string{"Value Date", "Memo", "Transaction Date", "Amount", "Category"},
			want:    ColumnSuggestions{DateCol: 2, DescCol: 1, AmountCol: 3, DebitCol: -1, CreditCol: -1, CategoryCol: 4},
		},
		{
			name:    "amount substring skips debit amount",
			headers: []string{"Date", "Payee", "Debit Amount", "Credit Amount", "Running Balance"},
			want:    ColumnSuggestions{DateCol: 0, DescCol: 1, AmountCol: -1, DebitCol: 2, CreditCol: 3, CategoryCol: -1, IsDoubleEntry: true},
		},
		{
			name:    "nothing recognisable",
			headers: []string{"foo", "bar"},
			want:    ColumnSuggestions{DateCol: -1, DescCol: -1, AmountCol: -1, DebitCol: -1, CreditCol: -1, CategoryCol: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestColumns(tt.headers)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestIsDiscoverLayout(t *testing.T) {
	assert.True(t, IsDiscoverLayout([]string{"Trans. Date", "Post Date", "Description", "Amount", "Category"}))
	assert.True(t, IsDiscoverLayout([]string{"Transaction Date", "Post Date", "Description", "Amount"}))
	assert.False(t, IsDiscoverLayout([]string{"Transaction Date", "Description", "Amount"}))
	assert.False(t, IsDiscoverLayout([]string{"Date", "Post Date", "Description", "Amount"}))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     Format
	}{
		{"csv extension", "jan.CSV", []byte("anything"), FormatDelimited},
		{"pdf extension", "statement.pdf", nil, FormatPDF},
		{"xlsx extension", "export.xlsx", nil, FormatExcel},
		{"pdf magic without extension", "upload", []byte("%PDF-1.4\n..."), FormatPDF},
		{"zip magic", "upload.bin", []byte("PK\x03\x04rest"), FormatExcel},
		{"text falls back to delimited", "", []byte("Date,Amount\n"), FormatDelimited},
		{"binary is unknown", "", []byte{0x00, 0x01, 0x02}, FormatUnknown},
		{"empty is unknown", "", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename, tt.data))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = ParseFormat(".tsv")
	require.NoError(t, err)
	assert.Equal(t, FormatDelimited, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash([]byte("abc")), ContentHash([]byte("abc")))
	assert.NotEqual(t, ContentHash([]byte("abc")), ContentHash([]byte("abd")))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", ContentHash([]byte("abc")))
}
