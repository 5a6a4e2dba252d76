package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/sources"
	"lienterminal-backend/lib/telemetry"
)

//go:embed testdata/listing.html
var listingPage string

func setup(t testing.TB) func() {
	return telemetry.SetupForTesting(t, "test:sources/scrape")
}

func document(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestSessionGetDocument(t *testing.T) {
	defer setup(t)()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(listingPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	err := With(context.Background(), Options{BaseURL: server.URL}, func(ctx context.Context, s *Session) error {
		doc, err := s.GetDocument(ctx, server.URL+"/")
		require.NoError(t, err)

		records := PageRecords(ctx, doc, sources.RowParams{
			Region:    "FL",
			SubRegion: "Duval",
			Platform:  lien.PlatformRealAuction,
		})
		require.Len(t, records, 2)
		require.Equal(t, "12-34-56", records[0].ParcelID)
		require.Equal(t, 1250.0, records[0].FaceAmount)
		require.Equal(t, lien.PlatformRealAuction, records[0].SourcePlatform)

		// the error page path surfaces as an error, not a document
		_, err = s.GetDocument(ctx, server.URL+"/missing")
		require.Error(t, err)
		return nil
	})
	require.NoError(t, err)
}

func TestPageRecordsSkipsChromeTables(t *testing.T) {
	defer setup(t)()

	doc := document(t, `
		<table><tr><th>Menu</th></tr><tr><td>Home</td></tr></table>
		<table>
			<tr><th>Parcel Number</th><th>Total Due</th></tr>
			<tr><td>99-88-77</td><td>$42.00</td></tr>
		</table>`)

	records := PageRecords(context.Background(), doc, sources.RowParams{
		Region: "FL", SubRegion: "Duval", Platform: lien.PlatformRealAuction,
	})
	require.Len(t, records, 1)
	require.Equal(t, "99-88-77", records[0].ParcelID)
}

func TestPageRecordsNoSaleList(t *testing.T) {
	defer setup(t)()

	doc := document(t, `<table><tr><th>Menu</th></tr><tr><td>Home</td></tr></table>`)
	require.Empty(t, PageRecords(context.Background(), doc, sources.RowParams{
		Region: "FL", SubRegion: "Duval",
	}))
}

func TestNextPageURL(t *testing.T) {
	base, err := url.Parse("https://duval.example.com/list")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		html     string
		expected string
		ok       bool
	}{
		{
			name:     "labelled link",
			html:     `<a href="/list?page=2">Next</a>`,
			expected: "https://duval.example.com/list?page=2",
			ok:       true,
		},
		{
			name:     "rel attribute",
			html:     `<a rel="next" href="page3.html">3</a>`,
			expected: "https://duval.example.com/page3.html",
			ok:       true,
		},
		{
			name: "dead anchor",
			html: `<a href="#">Next</a>`,
		},
		{
			name: "no pagination",
			html: `<a href="/about">About</a>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, ok := NextPageURL(document(t, tc.html), base)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.expected, next)
		})
	}
}
