package lien

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testBatch(t *testing.T) Batch {
	t.Helper()

	inputs := []RecordInput{
		{Region: "FL", SubRegion: "Duval", ParcelID: "A-1", FaceAmount: 1000, AssessedValue: Float(20000)},
		{Region: "FL", SubRegion: "Duval", ParcelID: "A-2", FaceAmount: 5000, AssessedValue: Float(10000)},
		{Region: "FL", SubRegion: "Duval", ParcelID: "A-3", FaceAmount: 2500},
	}

	var records []Record
	for _, in := range inputs {
		r, err := NewRecord(in)
		require.NoError(t, err)
		records = append(records, r)
	}

	return Batch{
		Records:         records,
		SourceLocator:   "test.csv",
		CapturedAt:      time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		RegionFilter:    "FL",
		SubRegionFilter: "Duval",
	}
}

func TestBatchAggregates(t *testing.T) {
	b := testBatch(t)

	require.Equal(t, 3, b.Count())
	require.Equal(t, 8500.0, b.TotalFaceAmount())

	// A-1 has ltv 5, A-2 has ltv 50, A-3 is undefined
	avg, ok := b.AverageLTV()
	require.True(t, ok)
	require.Equal(t, 27.5, avg)
}

func TestAverageLTVUndefined(t *testing.T) {
	r, err := NewRecord(RecordInput{Region: "FL", SubRegion: "Duval", ParcelID: "1", FaceAmount: 100})
	require.NoError(t, err)

	_, ok := Batch{Records: []Record{r}}.AverageLTV()
	require.False(t, ok)

	_, ok = Batch{}.AverageLTV()
	require.False(t, ok)
}

func TestFilterByLTV(t *testing.T) {
	b := testBatch(t)

	filtered := b.FilterByLTV(10)
	require.Equal(t, 1, filtered.Count())
	require.Equal(t, "A-1", filtered.Records[0].ParcelID)

	// records without a defined ratio are always dropped
	all := b.FilterByLTV(1000)
	require.Equal(t, 2, all.Count())

	// the receiver is untouched
	require.Equal(t, 3, b.Count())

	// metadata survives filtering
	require.Equal(t, b.SourceLocator, filtered.SourceLocator)
	require.Equal(t, b.CapturedAt, filtered.CapturedAt)
	require.Equal(t, b.RegionFilter, filtered.RegionFilter)
	require.Equal(t, b.SubRegionFilter, filtered.SubRegionFilter)
}

func TestFilterByFaceAmount(t *testing.T) {
	b := testBatch(t)

	filtered := b.FilterByFaceAmount(1000, 2500)
	require.Equal(t, 2, filtered.Count())
	require.Equal(t, "A-1", filtered.Records[0].ParcelID)
	require.Equal(t, "A-3", filtered.Records[1].ParcelID)

	// bounds are inclusive
	exact := b.FilterByFaceAmount(5000, 5000)
	require.Equal(t, 1, exact.Count())
	require.Equal(t, "A-2", exact.Records[0].ParcelID)

	require.Equal(t, 3, b.Count())
}
