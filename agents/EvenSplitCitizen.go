package agents

import (
	"github.com/MattSScott/basePlatformSOMAS/v2/pkg/agent"

	common "github.com/nkeidar/CivicBudget/common"
)

// EvenSplitCitizen wants the budget shared out equally and always submits a
// flat ballot, whole units only with the remainder handed to the front
// subjects.
type EvenSplitCitizen struct {
	*CitizenAgent
}

func EvenSplit_CreateCitizen(funcs agent.IExposedServerFunctions[common.ICitizen], agentConfig AgentConfig) *EvenSplitCitizen {
	return &EvenSplitCitizen{
		CitizenAgent: GetBaseCitizens(funcs, agentConfig),
	}
}

func (esc *EvenSplitCitizen) GetPersona() string {
	return "even-split"
}

func (esc *EvenSplitCitizen) DraftBallot(instance common.ICitizen) {
	n := esc.Campaign.NumSubjects()
	ballot := make(common.Ballot, n)
	if n > 0 {
		share := esc.Campaign.Total / n
		remainder := esc.Campaign.Total % n
		for j := range ballot {
			ballot[j] = float64(share)
			if j < remainder {
				ballot[j]++
			}
		}
	}
	esc.submitted = ballot
	esc.stated = ballot.Clone()
}
