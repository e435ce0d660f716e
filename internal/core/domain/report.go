package domain

import (
	"errors"
	"fmt"
)

// Outcome is the result of processing one asset node.
type Outcome uint8

const (
	// OutcomeFailed means the node was left untouched because the asset could not be probed.
	OutcomeFailed Outcome = iota
	// OutcomeProbed means the dimensions were fetched and probed, then stored in the cache.
	OutcomeProbed
	// OutcomeCached means the dimensions came from the cache without any I/O.
	OutcomeCached
	// OutcomeSkipped means the node was left untouched on purpose (offline remote asset).
	OutcomeSkipped
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeProbed:
		return "probed"
	case OutcomeCached:
		return "cached"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// AssetError records why a single asset could not be annotated.
type AssetError struct {
	Src string
	Err error
}

// Error implements the error interface.
func (e AssetError) Error() string {
	return fmt.Sprintf("%s: %v", e.Src, e.Err)
}

// Unwrap returns the underlying error.
func (e AssetError) Unwrap() error {
	return e.Err
}

// Report counts what happened to the assets of one or more pages.
type Report struct {
	Pages   int
	Changed int
	Probed  int
	Cached  int
	Skipped int
	Failed  []AssetError
}

// Record adds one asset outcome to the report.
func (r *Report) Record(src string, outcome Outcome, err error) {
	switch outcome {
	case OutcomeProbed:
		r.Probed++
	case OutcomeCached:
		r.Cached++
	case OutcomeSkipped:
		r.Skipped++
	default:
		r.Failed = append(r.Failed, AssetError{Src: src, Err: err})
	}
}

// Merge folds other into r.
func (r *Report) Merge(other Report) {
	r.Pages += other.Pages
	r.Changed += other.Changed
	r.Probed += other.Probed
	r.Cached += other.Cached
	r.Skipped += other.Skipped
	r.Failed = append(r.Failed, other.Failed...)
}

// Assets returns the number of asset nodes accounted for.
func (r Report) Assets() int {
	return r.Probed + r.Cached + r.Skipped + len(r.Failed)
}

// Err joins the recorded failures, or returns nil when every asset succeeded.
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Summary renders the report as a single log line.
func (r Report) Summary() string {
	return fmt.Sprintf(
		"%d pages (%d rewritten), %d assets: %d probed, %d from cache, %d skipped, %d failed",
		r.Pages, r.Changed, r.Assets(), r.Probed, r.Cached, r.Skipped, len(r.Failed),
	)
}
