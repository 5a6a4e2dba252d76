package lien

import "time"

// Batch is the collection of records produced by one ingestion call.
//
// A batch is created once and then treated as read-only by every consumer;
// filtering returns a new batch instead of mutating the receiver, so no
// locking is ever needed around batches.
type Batch struct {
	// Records in source order. No sort is implied.
	Records []Record
	// SourceLocator describes where the batch came from: a URL or a file
	// path/name. Provenance only.
	SourceLocator string
	CapturedAt    time.Time
	// RegionFilter and SubRegionFilter record the selection that produced
	// this batch. Provenance, not authoritative.
	RegionFilter    string
	SubRegionFilter string
}

func (b Batch) Count() int {
	return len(b.Records)
}

// TotalFaceAmount sums the face amount over every record in the batch.
func (b Batch) TotalFaceAmount() float64 {
	var total float64
	for _, r := range b.Records {
		total += r.FaceAmount
	}
	return total
}

// AverageLTV returns the mean of all defined loan-to-value ratios in the
// batch, rounded to two decimals. False when no record has a defined ratio.
func (b Batch) AverageLTV() (float64, bool) {
	var sum float64
	var n int
	for _, r := range b.Records {
		if ltv, ok := r.LoanToValue(); ok {
			sum += ltv
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return round2(sum / float64(n)), true
}

// FilterByLTV returns a new batch holding only records whose loan-to-value
// ratio is defined and at most maxLTV. All non-record metadata is preserved.
func (b Batch) FilterByLTV(maxLTV float64) Batch {
	out := b.withoutRecords()
	for _, r := range b.Records {
		ltv, ok := r.LoanToValue()
		if ok && ltv <= maxLTV {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// FilterByFaceAmount returns a new batch holding only records whose face
// amount lies within [min, max]. All non-record metadata is preserved.
func (b Batch) FilterByFaceAmount(min, max float64) Batch {
	out := b.withoutRecords()
	for _, r := range b.Records {
		if r.FaceAmount >= min && r.FaceAmount <= max {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

func (b Batch) withoutRecords() Batch {
	return Batch{
		SourceLocator:   b.SourceLocator,
		CapturedAt:      b.CapturedAt,
		RegionFilter:    b.RegionFilter,
		SubRegionFilter: b.SubRegionFilter,
	}
}
