package colmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"parcel id", "parcel id", 100},
		{"", "", 100},
		{"amt due", "amount due", 64},
		{"abc", "xyz", 0},
	}

	for _, tc := range testCases {
		got := Similarity(tc.a, tc.b)
		if got != tc.expected {
			t.Fatalf("Similarity(%q, %q) = %d, expected %d", tc.a, tc.b, got, tc.expected)
		}
		// symmetric
		require.Equal(t, got, Similarity(tc.b, tc.a))
	}
}

func TestDetectExactSynonyms(t *testing.T) {
	headers := []string{"Parcel Number", "Total Due", "Just Value"}

	m := Detect(headers, Options{})

	expected := map[string]Field{
		"Parcel Number": FieldParcelID,
		"Total Due":     FieldFaceAmount,
		"Just Value":    FieldAssessedValue,
	}
	if diff := cmp.Diff(expected, m.Columns); diff != "" {
		t.Fatal(diff)
	}
	require.Empty(t, m.Unmapped)
}

func TestDetectOneToOne(t *testing.T) {
	// both headers are exact parcel synonyms, only one may be claimed
	m := Detect([]string{"PIN", "Parcel #"}, Options{})

	require.Equal(t, FieldParcelID, m.Columns["PIN"])
	require.Equal(t, []string{"Parcel #"}, m.Unmapped)
}

func TestDetectBelowThreshold(t *testing.T) {
	m := Detect([]string{"Parcel ID", "Amt Due"}, Options{})

	require.Equal(t, FieldParcelID, m.Columns["Parcel ID"])
	_, claimed := m.Columns["Amt Due"]
	require.False(t, claimed)
	require.Equal(t, []string{"Amt Due"}, m.Unmapped)
}

func TestDetectCustomThreshold(t *testing.T) {
	m := Detect([]string{"Amt Due"}, Options{Threshold: 60})
	require.Equal(t, FieldFaceAmount, m.Columns["Amt Due"])
}

func TestDetectNormalizesHeaders(t *testing.T) {
	m := Detect([]string{"  PARCEL   Number ", "total due"}, Options{})

	require.Equal(t, FieldParcelID, m.Columns["  PARCEL   Number "])
	require.Equal(t, FieldFaceAmount, m.Columns["total due"])
}

func TestDetectDeterministic(t *testing.T) {
	headers := []string{"Parcel Number", "Situs Address", "Just Value", "Total Due", "Rate", "Sale Date", "County"}

	first := Detect(headers, Options{})
	for i := 0; i < 10; i++ {
		again := Detect(headers, Options{})
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestOverrideWins(t *testing.T) {
	m := Detect([]string{"Amt Due"}, Options{
		Overrides: map[string]Field{"Amt Due": FieldFaceAmount},
	})
	require.Equal(t, FieldFaceAmount, m.Columns["Amt Due"])
	require.Empty(t, m.Unmapped)
}

func TestOverrideStealsField(t *testing.T) {
	// the automatic pass assigns Total Due, the override moves the field to
	// another column and the loser becomes unmapped
	m := Detect([]string{"Total Due", "Mystery"}, Options{
		Overrides: map[string]Field{"Mystery": FieldFaceAmount},
	})

	require.Equal(t, FieldFaceAmount, m.Columns["Mystery"])
	_, claimed := m.Columns["Total Due"]
	require.False(t, claimed)
	require.Equal(t, []string{"Total Due"}, m.Unmapped)
}

func TestOverrideUnknownHeaderIgnored(t *testing.T) {
	m := Detect([]string{"Total Due"}, Options{
		Overrides: map[string]Field{"Nonexistent": FieldParcelID},
	})

	require.Equal(t, FieldFaceAmount, m.Columns["Total Due"])
	_, claimed := m.Columns["Nonexistent"]
	require.False(t, claimed)
}

func TestHeaderFor(t *testing.T) {
	m := Detect([]string{"Parcel Number", "Total Due"}, Options{})

	header, ok := m.HeaderFor(FieldParcelID)
	require.True(t, ok)
	require.Equal(t, "Parcel Number", header)

	_, ok = m.HeaderFor(FieldAuctionDate)
	require.False(t, ok)
}

func TestFieldsOrder(t *testing.T) {
	fields := Fields()
	require.Equal(t, FieldParcelID, fields[0])
	require.Equal(t, FieldCounty, fields[len(fields)-1])
	require.Len(t, fields, 7)
}
