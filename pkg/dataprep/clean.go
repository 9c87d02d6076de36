// Package dataprep applies the three deterministic cleaning steps the
// cohort needs before modelling: outcome encoding, sentinel filtering,
// and censored-age imputation.
package dataprep

import (
	"fmt"
	"strconv"

	"github.com/MIT-LCP/bst209/pkg/cohort"
)

// Cleaning constants. The eICU extract marks an invalid acute
// physiology score with -1 and censors ages above 89; the workshop
// convention imputes censored ages as 91.5.
const (
	// ScoreSentinel is the exact value marking an invalid score row.
	ScoreSentinel = -1.0

	// ImputedAge replaces any age value that does not parse as a number.
	ImputedAge = 91.5

	// OutcomeExpired is the outcome label that encodes to 0.
	OutcomeExpired = "EXPIRED"
)

// Report summarises what Clean changed.
type Report struct {
	Input       int // rows in
	Dropped     int // rows removed by the score sentinel filter
	ImputedAges int // age cells replaced with ImputedAge
}

// EncodeOutcome maps the raw outcome column to a binary label:
// 0 for OutcomeExpired, 1 for anything else. The encoding is total, so
// the only failure is a missing column.
func EncodeOutcome(t *cohort.Table, outcomeCol string) ([]int, error) {
	raw, err := t.Column(outcomeCol)
	if err != nil {
		return nil, fmt.Errorf("dataprep: encode outcome: %w", err)
	}
	out := make([]int, len(raw))
	for i, v := range raw {
		if v == OutcomeExpired {
			out[i] = 0
		} else {
			out[i] = 1
		}
	}
	return out, nil
}

// DropScoreSentinel removes every row whose score equals ScoreSentinel
// exactly. A score cell that does not parse is malformed input and
// aborts the run.
func DropScoreSentinel(t *cohort.Table, scoreCol string) (*cohort.Table, int, error) {
	raw, err := t.Column(scoreCol)
	if err != nil {
		return nil, 0, fmt.Errorf("dataprep: sentinel filter: %w", err)
	}
	keep := make([]int, 0, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("dataprep: column %q row %d: parse %q: %w", scoreCol, i, s, err)
		}
		if v == ScoreSentinel {
			continue
		}
		keep = append(keep, i)
	}
	return t.Select(keep), len(raw) - len(keep), nil
}

// ImputeCensoredAge replaces every age cell that fails to parse as a
// number (censored markers such as "> 89") with ImputedAge. Numeric
// ages pass through verbatim.
func ImputeCensoredAge(t *cohort.Table, ageCol string) (*cohort.Table, int, error) {
	raw, err := t.Column(ageCol)
	if err != nil {
		return nil, 0, fmt.Errorf("dataprep: age imputation: %w", err)
	}
	imputed := 0
	vals := make([]string, len(raw))
	for i, s := range raw {
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			vals[i] = strconv.FormatFloat(ImputedAge, 'f', -1, 64)
			imputed++
			continue
		}
		vals[i] = s
	}
	nt, err := t.ReplaceColumn(ageCol, vals)
	if err != nil {
		return nil, 0, err
	}
	return nt, imputed, nil
}

// Clean runs the full cleaning pass: verify the required columns, drop
// sentinel-score rows, impute censored ages, and append the encoded
// outcome under outCol. The input table is left untouched. The filter
// runs before the imputation, though the two predicates are on
// independent columns.
func Clean(t *cohort.Table, ageCol, scoreCol, outcomeCol, outCol string) (*cohort.Table, Report, error) {
	rep := Report{Input: t.NumRows()}

	if err := t.Require(ageCol, scoreCol, outcomeCol); err != nil {
		return nil, rep, fmt.Errorf("dataprep: %w", err)
	}

	t, dropped, err := DropScoreSentinel(t, scoreCol)
	if err != nil {
		return nil, rep, err
	}
	rep.Dropped = dropped

	t, imputed, err := ImputeCensoredAge(t, ageCol)
	if err != nil {
		return nil, rep, err
	}
	rep.ImputedAges = imputed

	labels, err := EncodeOutcome(t, outcomeCol)
	if err != nil {
		return nil, rep, err
	}
	enc := make([]string, len(labels))
	for i, v := range labels {
		enc[i] = strconv.Itoa(v)
	}
	t, err = t.WithColumn(outCol, enc)
	if err != nil {
		return nil, rep, fmt.Errorf("dataprep: append %q: %w", outCol, err)
	}
	return t, rep, nil
}
