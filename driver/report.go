package driver

import "lizconv/tempo"

// Status is the outcome for one input file
type Status int

const (
	Written Status = iota
	Traced         // dry run, trace printed
	Empty          // no notes, no output file
	Failed
)

func (s Status) String() string {
	switch s {
	case Written:
		return "written"
	case Traced:
		return "traced"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result describes what happened to one input file
type Result struct {
	Input  string
	Output string // set when Status == Written
	Status Status
	Err    error

	Division     tempo.Division
	TempoEntries int
	Notes        int
	Bytes        int
	DurationMs   int64
}

// Report collects results in processing order
type Report struct {
	Results []Result
}

// Count returns how many results have status s
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}
