package intel

import (
	"context"
	"fmt"

	"safetalk-hive-be/pkg/store"
)

// Aggregator re-derives the intelligence record for a session. Aggregation
// is not incremental: every call feeds the extractor the full joined history
// text, so the result always reflects the whole conversation and replaces the
// previous record outright. Extra recomputation, no cross-call merge logic.
type Aggregator struct {
	extractor Extractor
}

func NewAggregator(extractor Extractor) *Aggregator {
	return &Aggregator{extractor: extractor}
}

func (a *Aggregator) Aggregate(ctx context.Context, history []store.Turn) (*store.IntelRecord, error) {
	record, err := a.extractor.Extract(ctx, store.JoinText(history))
	if err != nil {
		return nil, fmt.Errorf("extract intelligence: %w", err)
	}

	normalize(record)
	return record, nil
}

// HasNewSignal reports whether the record contains anything worth alerting
// the operator about: any of the four sets being non-empty qualifies.
func HasNewSignal(record *store.IntelRecord) bool {
	if record == nil {
		return false
	}
	return len(record.UPIIDs) > 0 ||
		len(record.PhoneNumbers) > 0 ||
		len(record.PhishingLinks) > 0 ||
		len(record.SuspiciousKeywords) > 0
}

// normalize replaces nil sets with empty ones so reports never carry nulls.
func normalize(record *store.IntelRecord) {
	if record.UPIIDs == nil {
		record.UPIIDs = []string{}
	}
	if record.PhoneNumbers == nil {
		record.PhoneNumbers = []string{}
	}
	if record.PhishingLinks == nil {
		record.PhishingLinks = []string{}
	}
	if record.SuspiciousKeywords == nil {
		record.SuspiciousKeywords = []string{}
	}
}
