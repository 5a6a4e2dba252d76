package tabular

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	content := []byte("Parcel Number,Total Due,Just Value\n12-34-56,\"$1,250.00\",25000\n98-76-54,$300.00,\n")

	table, err := Load(content)
	require.NoError(t, err)

	expected := Table{
		Headers: []string{"Parcel Number", "Total Due", "Just Value"},
		Rows: [][]string{
			{"12-34-56", "$1,250.00", "25000"},
			{"98-76-54", "$300.00", ""},
		},
	}
	if diff := cmp.Diff(expected, table); diff != "" {
		t.Fatal(diff)
	}
}

func TestLoadStripsBOM(t *testing.T) {
	content := []byte("\xef\xbb\xbfParcel,Amount\n1,2\n")

	table, err := Load(content)
	require.NoError(t, err)
	require.Equal(t, []string{"Parcel", "Amount"}, table.Headers)
}

func TestLoadDetectsDelimiter(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"semicolon", "Parcel;Amount\n1;2\n"},
		{"tab", "Parcel\tAmount\n1\t2\n"},
		{"comma", "Parcel,Amount\n1,2\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := Load([]byte(tc.content))
			require.NoError(t, err)
			require.Equal(t, []string{"Parcel", "Amount"}, table.Headers)
			require.Equal(t, [][]string{{"1", "2"}}, table.Rows)
		})
	}
}

func TestLoadSkipsEmptyRows(t *testing.T) {
	content := []byte("\n\nParcel,Amount\n\n1,2\n   ,  \n3,4\n")

	table, err := Load(content)
	require.NoError(t, err)
	require.Equal(t, []string{"Parcel", "Amount"}, table.Headers)
	require.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, table.Rows)
}

func TestLoadWorkbook(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"Parcel Number", "Total Due"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"12-34-56", "1250"}))

	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	table, err := Load(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, []string{"Parcel Number", "Total Due"}, table.Headers)
	require.Equal(t, [][]string{{"12-34-56", "1250"}}, table.Rows)
}

func TestLoadEmptyPayload(t *testing.T) {
	_, err := Load(nil)
	require.Error(t, err)
}

func TestLoadUnparseable(t *testing.T) {
	// looks like a zip archive but is not a workbook, and the binary guard
	// rejects the text parse, so the error names both attempts
	content := append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0x00, 0x01}, 64)...)

	_, err := Load(content)
	require.Error(t, err)
	require.Contains(t, err.Error(), "xlsx")
	require.Contains(t, err.Error(), "delimited text")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("Parcel,Amount\n1,2\n"), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"1", "2"}}, table.Rows)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
