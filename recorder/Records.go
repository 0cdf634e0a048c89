package recorder

// TurnRecord captures one district's adoption in one turn.
type TurnRecord struct {
	Iteration int
	Turn      int
	District  string

	Subjects   []string
	Adopted    []int
	Continuous []float64
	Phantom    float64

	SatisfactionMean float64
	SatisfactionStd  float64
}

// CitizenRecord captures one citizen's state at the end of a turn.
type CitizenRecord struct {
	Iteration int
	Turn      int
	District  string

	Name    int
	Persona string

	Satisfaction float64
	SubmittedSum float64
	StatedSum    float64
}

// CeremonyRecord captures the end-of-iteration civic hall ceremony: the
// elected delegates, the flagship each district hosts and each district's
// share of the hall's facility cost.
type CeremonyRecord struct {
	Iteration int

	Districts []string
	Delegates []int

	Flagships  []string
	Hosts      []int
	Welfare    float64
	RentShares []float64
}
