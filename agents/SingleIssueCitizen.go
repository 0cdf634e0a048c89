package agents

import (
	"math/rand"

	"github.com/MattSScott/basePlatformSOMAS/v2/pkg/agent"

	common "github.com/nkeidar/CivicBudget/common"
)

// SingleIssueCitizen cares about exactly one subject per campaign and puts
// the entire budget on it.
type SingleIssueCitizen struct {
	*CitizenAgent
	favourite int
}

func SingleIssue_CreateCitizen(funcs agent.IExposedServerFunctions[common.ICitizen], agentConfig AgentConfig) *SingleIssueCitizen {
	return &SingleIssueCitizen{
		CitizenAgent: GetBaseCitizens(funcs, agentConfig),
		favourite:    -1,
	}
}

func (sic *SingleIssueCitizen) GetPersona() string {
	return "single-issue"
}

// BeginCampaign picks this campaign's pet subject.
func (sic *SingleIssueCitizen) BeginCampaign(instance common.ICitizen, campaign common.Campaign) {
	sic.CitizenAgent.BeginCampaign(instance, campaign)
	if campaign.NumSubjects() > 0 {
		sic.favourite = rand.Intn(campaign.NumSubjects())
	} else {
		sic.favourite = -1
	}
}

// DraftBallot puts everything on the favourite subject.
func (sic *SingleIssueCitizen) DraftBallot(instance common.ICitizen) {
	n := sic.Campaign.NumSubjects()
	ballot := make(common.Ballot, n)
	if sic.favourite >= 0 && sic.favourite < n {
		ballot[sic.favourite] = float64(sic.Campaign.Total)
	}
	sic.submitted = ballot
	sic.stated = ballot.Clone()
}
