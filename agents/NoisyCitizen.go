package agents

import (
	"math"
	"time"

	"github.com/MattSScott/basePlatformSOMAS/v2/pkg/agent"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	common "github.com/nkeidar/CivicBudget/common"
)

// noiseScale stretches a citizen's preference weight into the rate of its
// Poisson draw. Higher means the draws track the preferences more tightly.
const noiseScale = 12.0

// NoisyCitizen holds the same sincere preferences as the base citizen but
// can only express them through noisy Poisson draws, so its ballot jitters
// from turn to turn. It states a whole-unit rounding of what it submits.
type NoisyCitizen struct {
	*CitizenAgent
}

func Noisy_CreateCitizen(funcs agent.IExposedServerFunctions[common.ICitizen], agentConfig AgentConfig) *NoisyCitizen {
	return &NoisyCitizen{
		CitizenAgent: GetBaseCitizens(funcs, agentConfig),
	}
}

func (nc *NoisyCitizen) GetPersona() string {
	return "noisy"
}

func (nc *NoisyCitizen) DraftBallot(instance common.ICitizen) {
	n := nc.Campaign.NumSubjects()
	ballot := make(common.Ballot, n)
	if n == 0 {
		nc.submitted = ballot
		nc.stated = ballot.Clone()
		return
	}

	source := rand.NewSource(uint64(time.Now().UnixNano()))

	weights := make([]float64, n)
	weightSum := 0.0
	for j, pref := range nc.Preferences {
		poisson := distuv.Poisson{
			Lambda: 1 + pref*noiseScale, // The rate parameter
			Src:    rand.New(source),    // Random source
		}
		weights[j] = poisson.Rand()
		weightSum += weights[j]
	}

	total := float64(nc.Campaign.Total)
	if weightSum == 0 {
		for j := range ballot {
			ballot[j] = total / float64(n)
		}
	} else {
		for j, w := range weights {
			ballot[j] = total * w / weightSum
		}
	}

	stated := make(common.Ballot, n)
	for j, v := range ballot {
		stated[j] = math.Round(v)
	}

	nc.submitted = ballot
	nc.stated = stated
}
