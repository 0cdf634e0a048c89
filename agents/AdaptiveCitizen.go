package agents

import (
	"log"
	"math/rand"

	"github.com/MattSScott/basePlatformSOMAS/v2/pkg/agent"

	common "github.com/nkeidar/CivicBudget/common"
)

// AdaptiveCitizen drifts with its district. Each turn it blends its sincere
// ballot with the mean of the stated ballots it has heard, weighted by a
// bandwagon disposition fixed at creation. It keeps stating its sincere
// ballot, so the drift stays private.
type AdaptiveCitizen struct {
	*CitizenAgent
	bandwagon float64
}

func Adaptive_CreateCitizen(funcs agent.IExposedServerFunctions[common.ICitizen], agentConfig AgentConfig) *AdaptiveCitizen {
	// Disposition centred on an even blend, clamped to [0, 1].
	bandwagon := 0.5 + 0.2*rand.NormFloat64()
	if bandwagon < 0 {
		bandwagon = 0
	} else if bandwagon > 1 {
		bandwagon = 1
	}
	return &AdaptiveCitizen{
		CitizenAgent: GetBaseCitizens(funcs, agentConfig),
		bandwagon:    bandwagon,
	}
}

func (ac *AdaptiveCitizen) GetPersona() string {
	return "adaptive"
}

func (ac *AdaptiveCitizen) DraftBallot(instance common.ICitizen) {
	sincere := ac.sincereBallot()
	mean := ac.DistrictStatedMean()
	if mean == nil || len(mean) != len(sincere) {
		// Nothing heard yet, nothing to follow.
		ac.submitted = sincere
		ac.stated = sincere.Clone()
		return
	}

	// Rescale the heard mean to the campaign total before blending, stated
	// ballots are not guaranteed to sum to it.
	meanSum := mean.Sum()
	total := float64(ac.Campaign.Total)
	if meanSum > 0 && total > 0 {
		for j := range mean {
			mean[j] *= total / meanSum
		}
	}

	blended := make(common.Ballot, len(sincere))
	for j := range blended {
		blended[j] = (1-ac.bandwagon)*sincere[j] + ac.bandwagon*mean[j]
	}

	if ac.VerboseLevel > 8 {
		log.Printf("Citizen %v blending with weight %.2f towards the district mean", ac.GetID(), ac.bandwagon)
	}

	ac.submitted = blended
	ac.stated = sincere
}
