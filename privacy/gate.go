// Package privacy holds the single decision gate every count-producing query
// passes through before anything is rendered to a caller.
//
// Suppression is policy, not failure: a suppressed count is a valid outcome
// and the true count is still carried on the Decision for internal use
// (logging, metrics). Only ReportedCount is safe to disclose.
package privacy

// Outcome classifies a gate decision.
type Outcome uint8

const (
	// OutcomeEmpty means the count is genuinely zero. Truthful absence,
	// not a suppression; callers render "no records found".
	OutcomeEmpty Outcome = iota
	// OutcomeDisclose means the count may be released as-is.
	OutcomeDisclose
	// OutcomeSuppressedKAnonymity means the group is smaller than K and
	// disclosing it would risk re-identification.
	OutcomeSuppressedKAnonymity
	// OutcomeSuppressedMaxResults means the query matched more records
	// than the disclosure cap allows; too broad to release.
	OutcomeSuppressedMaxResults
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeDisclose:
		return "disclose"
	case OutcomeSuppressedKAnonymity:
		return "suppressed_k_anonymity"
	case OutcomeSuppressedMaxResults:
		return "suppressed_max_results"
	default:
		return "unknown"
	}
}

// Decision is the gate verdict for one raw count.
type Decision struct {
	Outcome Outcome
	// Count is the true match count. Never render it directly;
	// use ReportedCount.
	Count int
}

// Decide maps a raw result count to a disclosure decision.
//
//	count == 0          → Empty
//	0 < count < k       → SuppressedKAnonymity
//	count > max (max>0) → SuppressedMaxResults
//	otherwise           → Disclose
//
// A max of zero or below disables the result-size cap.
func Decide(count, k, max int) Decision {
	d := Decision{Count: count}
	switch {
	case count <= 0:
		d.Count = 0
		d.Outcome = OutcomeEmpty
	case count < k:
		d.Outcome = OutcomeSuppressedKAnonymity
	case max > 0 && count > max:
		d.Outcome = OutcomeSuppressedMaxResults
	default:
		d.Outcome = OutcomeDisclose
	}
	return d
}

// Disclosed reports whether the true count may be released.
func (d Decision) Disclosed() bool {
	return d.Outcome == OutcomeDisclose
}

// Suppressed reports whether a non-zero count is being withheld.
func (d Decision) Suppressed() bool {
	return d.Outcome == OutcomeSuppressedKAnonymity || d.Outcome == OutcomeSuppressedMaxResults
}

// ReportedCount is the count a caller may see: the true count when
// disclosed, zero otherwise.
func (d Decision) ReportedCount() int {
	if d.Disclosed() {
		return d.Count
	}
	return 0
}
