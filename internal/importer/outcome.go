// internal/importer/outcome.go
package importer

import "fmt"

// Status is the final state of one file in a run.
type Status int

const (
	StatusPlaced Status = iota
	StatusGenerated
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPlaced:
		return "placed"
	case StatusGenerated:
		return "generated"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Reason explains a skipped file.
type Reason string

const (
	ReasonNoMatch       Reason = "no_match"
	ReasonNotFound      Reason = "not_found"
	ReasonAlreadyExists Reason = "already_exists"
	ReasonTooFresh      Reason = "too_fresh"
)

// Outcome is the result of processing one file.
type Outcome struct {
	Path   string
	Status Status
	Reason Reason // set when Status is StatusSkipped
	Match  *Match // nil unless the file was identified
	Dest   string
	Bytes  int64
	Err    error // set when Status is StatusFailed
}

// Summary counts the outcomes of a run.
type Summary struct {
	RunID         string
	Scanned       int
	Placed        int
	Generated     int
	NoMatch       int
	NotFound      int
	AlreadyExists int
	TooFresh      int
	Failed        int
	Swept         int
	Bytes         int64
	Outcomes      []Outcome
}

// Add counts o.
func (s *Summary) Add(o Outcome) {
	s.Scanned++
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusPlaced:
		s.Placed++
		s.Bytes += o.Bytes
	case StatusGenerated:
		s.Generated++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		switch o.Reason {
		case ReasonNoMatch:
			s.NoMatch++
		case ReasonNotFound:
			s.NotFound++
		case ReasonAlreadyExists:
			s.AlreadyExists++
		case ReasonTooFresh:
			s.TooFresh++
		}
	}
}

// Merge adds the counts and outcomes of other to s.
func (s *Summary) Merge(other *Summary) {
	for _, o := range other.Outcomes {
		s.Add(o)
	}
	s.Swept += other.Swept
}

// Skipped returns the number of skipped files.
func (s *Summary) Skipped() int {
	return s.NoMatch + s.NotFound + s.AlreadyExists + s.TooFresh
}
