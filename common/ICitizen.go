package common

import (
	"github.com/MattSScott/basePlatformSOMAS/v2/pkg/agent"
	"github.com/google/uuid"

	"github.com/nkeidar/CivicBudget/recorder"
)

// ICitizen is everything the server and fellow citizens may ask of an
// agent. Methods that can be overridden by a persona take the interface
// instance explicitly so the override wins even when called through the
// embedded base.
type ICitizen interface {
	agent.IAgent[ICitizen]

	// Getters
	GetName() int
	GetPersona() string
	GetDistrictID() uuid.UUID
	GetSatisfaction() float64

	// Setters
	SetName(name int)
	SetDistrictID(id uuid.UUID)

	// Ward and campaign lifecycle
	DecideWard(instance ICitizen, wards []uuid.UUID) uuid.UUID
	BeginCampaign(instance ICitizen, campaign Campaign)

	// Ballots. DraftBallot rolls this turn's submitted and stated ballots;
	// the getters expose them afterwards. Stated ballots are what a citizen
	// tells the district, submitted ballots are what the mechanism counts.
	DraftBallot(instance ICitizen)
	GetSubmittedBallot(instance ICitizen) Ballot
	GetStatedBallot(instance ICitizen) Ballot

	// Messaging
	StateBallotToDistrict(instance ICitizen)
	HandleBallotMessage(msg *BallotMessage)
	AnnounceAdoption(instance ICitizen)
	HandleAdoptionMessage(msg *AdoptionMessage)

	// Adoption feedback
	AllocationAdopted(instance ICitizen, campaign Campaign, adopted []int)

	// Delegate election
	GetDelegateRanking(instance ICitizen) []uuid.UUID

	// Data recording
	RecordCitizenStatus(instance ICitizen) recorder.CitizenRecord
}

// IBudgetServer is the server surface exposed to citizens: the platform's
// agent-facing functions plus district lookups.
type IBudgetServer interface {
	agent.IExposedServerFunctions[ICitizen]

	GetDistrictOf(citizenID uuid.UUID) *District
	GetResidentsOf(districtID uuid.UUID) []uuid.UUID
}
