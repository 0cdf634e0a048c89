package agents

import (
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/MattSScott/basePlatformSOMAS/v2/pkg/agent"
	"github.com/google/uuid"

	common "github.com/nkeidar/CivicBudget/common"
	"github.com/nkeidar/CivicBudget/recorder"
)

type AgentConfig struct {
	VerboseLevel int
}

// CitizenAgent is the base citizen every persona embeds. It submits its
// sincere ballot and states it truthfully to the district, and it keeps the
// bookkeeping (heard statements, adopted budget, satisfaction) that the
// personas build their strategies on.
type CitizenAgent struct {
	*agent.BaseAgent[common.ICitizen]
	Server common.IBudgetServer

	name         int
	VerboseLevel int

	DistrictID uuid.UUID
	Campaign   common.Campaign

	// Preferences are the citizen's sincere per-subject weights, redrawn at
	// the start of every campaign.
	Preferences []float64

	// submitted is what the mechanism counts; stated is what the citizen
	// tells the district. The base agent keeps them identical.
	submitted common.Ballot
	stated    common.Ballot

	// heardStated holds the latest stated ballot per district peer.
	heardStated map[uuid.UUID]common.Ballot

	lastAdopted  []int
	satisfaction float64
}

// constructor
func GetBaseCitizens(funcs agent.IExposedServerFunctions[common.ICitizen], agentConfig AgentConfig) *CitizenAgent {
	return &CitizenAgent{
		BaseAgent:    agent.CreateBaseAgent(funcs),
		Server:       funcs.(common.IBudgetServer), // type assert the server functions to the budget server interface
		VerboseLevel: agentConfig.VerboseLevel,
		heardStated:  make(map[uuid.UUID]common.Ballot),
	}
}

// ----------------------- Getters and Setters -----------------------

func (ca *CitizenAgent) GetName() int {
	return ca.name
}

func (ca *CitizenAgent) SetName(name int) {
	ca.name = name
}

func (ca *CitizenAgent) GetPersona() string {
	return "base"
}

func (ca *CitizenAgent) GetDistrictID() uuid.UUID {
	return ca.DistrictID
}

func (ca *CitizenAgent) SetDistrictID(id uuid.UUID) {
	ca.DistrictID = id
}

func (ca *CitizenAgent) GetSatisfaction() float64 {
	return ca.satisfaction
}

// ----------------------- Ward and campaign lifecycle -----------------------

// DecideWard picks the ward to live in for this iteration. The base citizen
// has no geography and just moves somewhere random.
func (ca *CitizenAgent) DecideWard(instance common.ICitizen, wards []uuid.UUID) uuid.UUID {
	if len(wards) == 0 {
		return uuid.Nil
	}
	return wards[rand.Intn(len(wards))]
}

// BeginCampaign resets the citizen for a fresh ballot question and redraws
// its sincere preference weights.
func (ca *CitizenAgent) BeginCampaign(instance common.ICitizen, campaign common.Campaign) {
	ca.Campaign = campaign
	ca.Preferences = make([]float64, campaign.NumSubjects())
	for j := range ca.Preferences {
		ca.Preferences[j] = rand.Float64()
	}
	ca.heardStated = make(map[uuid.UUID]common.Ballot)
	ca.submitted = nil
	ca.stated = nil
	ca.lastAdopted = nil
}

// ----------------------- Ballots -----------------------

// sincereBallot spreads the campaign total along the citizen's preference
// weights. All-zero weights degrade to an even split.
func (ca *CitizenAgent) sincereBallot() common.Ballot {
	n := ca.Campaign.NumSubjects()
	ballot := make(common.Ballot, n)
	if n == 0 {
		return ballot
	}
	total := float64(ca.Campaign.Total)
	weightSum := 0.0
	for _, w := range ca.Preferences {
		weightSum += w
	}
	if weightSum == 0 {
		for j := range ballot {
			ballot[j] = total / float64(n)
		}
		return ballot
	}
	for j, w := range ca.Preferences {
		ballot[j] = total * w / weightSum
	}
	return ballot
}

// DistrictStatedMean averages the stated ballots heard from district peers.
// Returns nil before anything has been heard.
func (ca *CitizenAgent) DistrictStatedMean() common.Ballot {
	n := ca.Campaign.NumSubjects()
	if len(ca.heardStated) == 0 || n == 0 {
		return nil
	}
	mean := make(common.Ballot, n)
	heard := 0
	for _, ballot := range ca.heardStated {
		if len(ballot) != n {
			continue
		}
		for j, v := range ballot {
			mean[j] += v
		}
		heard++
	}
	if heard == 0 {
		return nil
	}
	for j := range mean {
		mean[j] /= float64(heard)
	}
	return mean
}

// DraftBallot rolls this turn's submitted and stated ballots. The base
// citizen is truthful: it states exactly what it submits.
func (ca *CitizenAgent) DraftBallot(instance common.ICitizen) {
	ca.submitted = ca.sincereBallot()
	ca.stated = ca.submitted.Clone()
}

func (ca *CitizenAgent) GetSubmittedBallot(instance common.ICitizen) common.Ballot {
	return ca.submitted
}

func (ca *CitizenAgent) GetStatedBallot(instance common.ICitizen) common.Ballot {
	return ca.stated
}

// ----------------------- Messaging -----------------------

// StateBallotToDistrict broadcasts the stated ballot to every district peer.
func (ca *CitizenAgent) StateBallotToDistrict(instance common.ICitizen) {
	msg := &common.BallotMessage{
		BaseMessage: ca.CreateBaseMessage(),
		Stated:      instance.GetStatedBallot(instance),
	}
	for _, resident := range ca.Server.GetResidentsOf(ca.DistrictID) {
		if resident == ca.GetID() {
			continue
		}
		ca.SendSynchronousMessage(msg, resident)
	}
}

func (ca *CitizenAgent) HandleBallotMessage(msg *common.BallotMessage) {
	if ca.VerboseLevel > 8 {
		log.Printf("Citizen %v heard a stated ballot from %v: %v", ca.GetID(), msg.GetSender(), msg.Stated)
	}
	ca.heardStated[msg.GetSender()] = msg.Stated
}

// AnnounceAdoption is the delegate's ceremony: it digests the adopted budget
// back to the district. Residents already hold the allocation by then, so
// the announcement is informational.
func (ca *CitizenAgent) AnnounceAdoption(instance common.ICitizen) {
	if ca.lastAdopted == nil {
		return
	}
	msg := &common.AdoptionMessage{
		BaseMessage: ca.CreateBaseMessage(),
		Campaign:    ca.Campaign,
		Adopted:     ca.lastAdopted,
	}
	for _, resident := range ca.Server.GetResidentsOf(ca.DistrictID) {
		if resident == ca.GetID() {
			continue
		}
		ca.SendSynchronousMessage(msg, resident)
	}
}

func (ca *CitizenAgent) HandleAdoptionMessage(msg *common.AdoptionMessage) {
	if ca.VerboseLevel > 6 {
		log.Printf("Citizen %v received the delegate's adoption digest: %v", ca.GetID(), msg.Adopted)
	}
	ca.lastAdopted = msg.Adopted
}

// ----------------------- Adoption feedback -----------------------

// AllocationAdopted stores the district's adopted budget and scores the
// citizen's satisfaction with it: 1 minus the L1 distance between its
// submitted ballot and the adoption, normalised by twice the total.
func (ca *CitizenAgent) AllocationAdopted(instance common.ICitizen, campaign common.Campaign, adopted []int) {
	ca.lastAdopted = adopted

	if campaign.Total <= 0 {
		ca.satisfaction = 1
		return
	}
	adoptedBallot := make(common.Ballot, len(adopted))
	for j, v := range adopted {
		adoptedBallot[j] = float64(v)
	}
	distance := ca.submitted.DistanceL1(adoptedBallot)
	if math.IsInf(distance, 1) {
		ca.satisfaction = 0
		return
	}
	ca.satisfaction = 1 - distance/(2*float64(campaign.Total))
	if ca.satisfaction < 0 {
		ca.satisfaction = 0
	} else if ca.satisfaction > 1 {
		ca.satisfaction = 1
	}
}

// ----------------------- Delegate election -----------------------

// GetDelegateRanking orders the district's residents by how close their
// stated ballots sit to this citizen's own submitted ballot. Unheard
// residents rank behind heard ones; ties settle on the ID string so the
// ranking is stable.
func (ca *CitizenAgent) GetDelegateRanking(instance common.ICitizen) []uuid.UUID {
	residents := ca.Server.GetResidentsOf(ca.DistrictID)
	ranked := make([]uuid.UUID, len(residents))
	copy(ranked, residents)

	distanceTo := func(id uuid.UUID) float64 {
		if id == ca.GetID() {
			return -1 // you trust yourself most
		}
		stated, ok := ca.heardStated[id]
		if !ok {
			return math.Inf(1)
		}
		return ca.submitted.DistanceL1(stated)
	}

	sort.Slice(ranked, func(a, b int) bool {
		da, db := distanceTo(ranked[a]), distanceTo(ranked[b])
		if da != db {
			return da < db
		}
		return ranked[a].String() < ranked[b].String()
	})
	return ranked
}

// ----------------------- Data recording -----------------------

func (ca *CitizenAgent) RecordCitizenStatus(instance common.ICitizen) recorder.CitizenRecord {
	return recorder.CitizenRecord{
		Name:         ca.name,
		Persona:      instance.GetPersona(),
		Satisfaction: ca.satisfaction,
		SubmittedSum: ca.submitted.Sum(),
		StatedSum:    ca.stated.Sum(),
	}
}
