package batch

import (
	"path/filepath"

	"github.com/touledger/touledger/pkg/types"
)

// SummarizeFile totals one file's classified intervals and groups net usage
// and cost by tier.
func SummarizeFile(file string, account types.AccountInfo, intervals []types.ClassifiedInterval) types.FileSummary {
	s := types.FileSummary{
		File:    filepath.Base(file),
		Account: account,
		Records: len(intervals),
		PerTier: make(map[types.Tier]types.TierTotal),
	}
	for _, iv := range intervals {
		s.NetKWH += iv.NetKWH
		s.CostDollars += iv.CostDollars

		tt := s.PerTier[iv.Tier]
		tt.NetKWH += iv.NetKWH
		tt.CostDollars += iv.CostDollars
		s.PerTier[iv.Tier] = tt
	}
	return s
}

// Aggregator folds per-file results into the batch-wide totals. Totals are
// sums keyed by tier, so the final numbers do not depend on the order files
// were processed in.
type Aggregator struct {
	intervals []types.ClassifiedInterval
	files     []types.FileSummary
	failures  []types.FileFailure
	total     types.BatchTotal
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		total: types.BatchTotal{PerTier: make(map[types.Tier]types.TierTotal)},
	}
}

// AddFile appends one successfully classified file. Intervals keep their
// in-file order and files keep their processing order.
func (a *Aggregator) AddFile(summary types.FileSummary, intervals []types.ClassifiedInterval) {
	a.files = append(a.files, summary)
	a.intervals = append(a.intervals, intervals...)

	a.total.Records += summary.Records
	a.total.NetKWH += summary.NetKWH
	a.total.CostDollars += summary.CostDollars
	for tier, tt := range summary.PerTier {
		global := a.total.PerTier[tier]
		global.NetKWH += tt.NetKWH
		global.CostDollars += tt.CostDollars
		a.total.PerTier[tier] = global
	}
}

// AddFailure records a file that was skipped without touching the totals.
func (a *Aggregator) AddFailure(file string, err error) {
	a.failures = append(a.failures, types.FileFailure{
		File:   filepath.Base(file),
		Reason: err.Error(),
	})
}

// Result snapshots the accumulated batch. Tiers with no intervals anywhere
// are absent from Total.PerTier.
func (a *Aggregator) Result() types.BatchResult {
	return types.BatchResult{
		Intervals: a.intervals,
		Files:     a.files,
		Failures:  a.failures,
		Total:     a.total,
	}
}
