package csvup

import "fmt"

// Report is the outcome of the verification stage: the row count of the
// in-memory dataset compared against the row count read back from the
// destination table. A mismatch is a valid, reportable outcome, not an error.
type Report struct {
	// Local is the row count of the loaded dataset
	Local int64

	// Remote is the row count observed in the destination table
	Remote int64
}

// Matched returns true when the destination holds exactly as many rows as
// the source dataset.
func (r Report) Matched() bool {
	return r.Local == r.Remote
}

// String renders the single human-readable report line written to stdout.
func (r Report) String() string {
	if r.Matched() {
		return fmt.Sprintf("Upload successful: %d = %d. Row counts match.", r.Remote, r.Local)
	}
	return fmt.Sprintf("Upload Error: local=%d, remote=%d. Row counts do not match.", r.Local, r.Remote)
}
