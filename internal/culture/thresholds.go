package culture

// Threshold holds the cutoffs for one dimension. Medium and High classify a
// gap magnitude (inclusive). Branch is the signed difference a rule must
// strictly exceed before it fires.
type Threshold struct {
	Medium int
	High   int
	Branch int
}

// Thresholds is the single cutoff table shared by gap classification and
// rule branching.
var Thresholds = map[Dimension]Threshold{
	PowerDistance:        {Medium: 15, High: 30, Branch: 15},
	Individualism:        {Medium: 20, High: 40, Branch: 20},
	UncertaintyAvoidance: {Medium: 15, High: 30, Branch: 15},
	Masculinity:          {Medium: 15, High: 30, Branch: 20},
}
