package domain

import "fmt"

// AtBatResult is the outcome of one plate appearance. Values match the
// strings the browser client has always sent.
type AtBatResult string

const (
	ResultSingle       AtBatResult = "single"
	ResultDouble       AtBatResult = "double"
	ResultTriple       AtBatResult = "triple"
	ResultHomeRun      AtBatResult = "homerun"
	ResultSacrificeFly AtBatResult = "sacrifice-fly"
	ResultOut          AtBatResult = "out"
)

type resultProps struct {
	hit      bool
	official bool
	short    string
	label    string
}

var resultTable = map[AtBatResult]resultProps{
	ResultSingle:       {hit: true, official: true, short: "1B", label: "Single"},
	ResultDouble:       {hit: true, official: true, short: "2B", label: "Double"},
	ResultTriple:       {hit: true, official: true, short: "3B", label: "Triple"},
	ResultHomeRun:      {hit: true, official: true, short: "HR", label: "Home Run"},
	ResultSacrificeFly: {hit: false, official: false, short: "SF", label: "Sacrifice Fly"},
	ResultOut:          {hit: false, official: true, short: "Out", label: "Out"},
}

// AllResults lists the result kinds in display order.
var AllResults = []AtBatResult{
	ResultSingle,
	ResultDouble,
	ResultTriple,
	ResultHomeRun,
	ResultSacrificeFly,
	ResultOut,
}

// ParseAtBatResult accepts the wire value of a result. "sacrificeFly" is
// accepted as an alias for the hyphenated form.
func ParseAtBatResult(s string) (AtBatResult, error) {
	if s == "sacrificeFly" {
		return ResultSacrificeFly, nil
	}
	r := AtBatResult(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown at-bat result %q", s)
	}
	return r, nil
}

func (r AtBatResult) Valid() bool {
	_, ok := resultTable[r]
	return ok
}

// IsHit reports whether the result counts toward hits.
func (r AtBatResult) IsHit() bool {
	return resultTable[r].hit
}

// CountsAsOfficialAtBat reports whether the result belongs in the batting
// average denominator. Sacrifice flies do not.
func (r AtBatResult) CountsAsOfficialAtBat() bool {
	return resultTable[r].official
}

// Short is the scorebook abbreviation (1B, 2B, 3B, HR, SF, Out).
func (r AtBatResult) Short() string {
	if p, ok := resultTable[r]; ok {
		return p.short
	}
	return string(r)
}

// Label is the human readable name.
func (r AtBatResult) Label() string {
	if p, ok := resultTable[r]; ok {
		return p.label
	}
	return string(r)
}
