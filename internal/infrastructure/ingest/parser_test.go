package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	t.Run("valid UTF-8 CSV", func(t *testing.T) {
		parser, err := NewParser(strings.NewReader("Employee,Date\nAlice,03/15/2024"))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		parser, err := NewParser(strings.NewReader("\xEF\xBB\xBFEmployee,Date\nAlice,03/15/2024"))

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, "Employee", parser.Headers()[0])
	})

	t.Run("empty file returns error", func(t *testing.T) {
		parser, err := NewParser(strings.NewReader(""))

		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid encoding returns error", func(t *testing.T) {
		parser, err := NewParser(strings.NewReader("Employee\n\xff\xfe"))

		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("trims header spaces", func(t *testing.T) {
		parser, err := NewParser(strings.NewReader("  Employee , Minutes \nAlice,120"))
		require.NoError(t, err)

		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"Employee", "Minutes"}, parser.Headers())
		assert.True(t, parser.HasHeader("Minutes"))
		assert.False(t, parser.HasHeader("Hours"))
	})

	t.Run("header only file", func(t *testing.T) {
		parser, err := NewParser(strings.NewReader("Employee,Minutes"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		rows, err := parser.ReadAllRows()

		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestReadAllRows(t *testing.T) {
	csv := "Employee,Minutes,Task\n" +
		"Alice,120,Mowing\n" +
		",,\n" + // fully empty row is dropped silently
		"Bob,45,\n"

	parser, err := NewParser(strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	rows, err := parser.ReadAllRows()

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Get("Employee"))
	assert.Equal(t, "120", rows[0].Get("Minutes"))
	assert.Equal(t, "", rows[1].Get("Task"), "short rows backfill empty values")
	assert.False(t, rows[0].IsEmpty())
	assert.True(t, RawRow{"Employee": "  "}.IsEmpty())
}
