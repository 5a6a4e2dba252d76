package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"lienterminal-backend/lib/telemetry"
)

func doc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	return d
}

func TestCellText(t *testing.T) {
	d := doc(t, `<table><tr><td>  $1,250.00
		<span>  (est) </span></td></tr></table>`)

	require.Equal(t, "$1,250.00 (est)", CellText(d.Find("td")))
}

func TestTables(t *testing.T) {
	defer telemetry.SetupForTesting(t, "test:lib/htmlutil")()

	d := doc(t, `
		<table><tr><td>layout only</td></tr></table>
		<table>
			<tr><th>Parcel Number</th><th>Total Due</th></tr>
			<tr><td></td><td>  </td></tr>
			<tr><td>12-34-56</td><td>$1,250.00</td></tr>
		</table>`)

	tables := Tables(context.Background(), d)
	require.Len(t, tables, 1)

	expected := Table{
		Headers: []string{"Parcel Number", "Total Due"},
		Rows:    [][]string{{"12-34-56", "$1,250.00"}},
	}
	if diff := cmp.Diff(expected, tables[0]); diff != "" {
		t.Fatal(diff)
	}
}

func TestTablesNone(t *testing.T) {
	defer telemetry.SetupForTesting(t, "test:lib/htmlutil")()

	d := doc(t, `<p>no tables here</p>`)
	require.Empty(t, Tables(context.Background(), d))
}
