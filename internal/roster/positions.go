package roster

// Position is a spot on the field, keyed the way saved lineups key them.
type Position string

const (
	Pitcher     Position = "pitcher"
	Catcher     Position = "catcher"
	FirstBase   Position = "first-base"
	SecondBase  Position = "second-base"
	ThirdBase   Position = "third-base"
	Shortstop   Position = "shortstop"
	LeftField   Position = "left-field"
	LeftCenter  Position = "left-center"
	RightCenter Position = "right-center"
	RightField  Position = "right-field"
	DH1         Position = "dh1"
	DH2         Position = "dh2"
	DH3         Position = "dh3"
)

// Positions lists every field position in display order.
var Positions = []Position{
	Pitcher, Catcher, FirstBase, SecondBase, ThirdBase, Shortstop,
	LeftField, LeftCenter, RightCenter, RightField, DH1, DH2, DH3,
}

var abbreviations = map[Position]string{
	Pitcher:     "P",
	Catcher:     "C",
	FirstBase:   "1B",
	SecondBase:  "2B",
	ThirdBase:   "3B",
	Shortstop:   "SS",
	LeftField:   "LF",
	LeftCenter:  "LC",
	RightCenter: "RC",
	RightField:  "RF",
	DH1:         "DH",
	DH2:         "DH",
	DH3:         "DH",
}

func (p Position) Valid() bool {
	_, ok := abbreviations[p]
	return ok
}

// Abbreviation is the scorecard label. Unknown keys are returned as is.
func (p Position) Abbreviation() string {
	if a, ok := abbreviations[p]; ok {
		return a
	}
	return string(p)
}
