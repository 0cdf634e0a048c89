package budgetServer

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/MattSScott/basePlatformSOMAS/v2/pkg/server"
	"github.com/google/uuid"

	"github.com/nkeidar/CivicBudget/budget"
	common "github.com/nkeidar/CivicBudget/common"
	"github.com/nkeidar/CivicBudget/recorder"
)

type BudgetServer struct {
	*server.BaseServer[common.ICitizen]

	districtsMutex sync.RWMutex
	Districts      map[uuid.UUID]*common.District

	campaign     common.Campaign
	rule         budget.Mechanism
	wardCount    int
	electionRule ElectionRule
	facilityCost float64

	DataRecorder *recorder.CampaignRecorder
}

// ServerConfig carries everything one experiment needs: the campaign on the
// ballot, the ward count, the aggregation rule and the delegate election
// rule, plus the civic hall's facility cost.
type ServerConfig struct {
	Wards        int
	Campaign     common.Campaign
	Rule         budget.Mechanism
	ElectionRule ElectionRule
	FacilityCost float64
}

// constructor
func MakeBudgetServer(iterations int, turns int, maxDuration time.Duration, maxThread int, cfg ServerConfig) *BudgetServer {
	if cfg.Wards < 1 {
		cfg.Wards = 1
	}
	serv := &BudgetServer{
		BaseServer:   server.CreateBaseServer[common.ICitizen](iterations, turns, maxDuration, maxThread),
		Districts:    make(map[uuid.UUID]*common.District),
		campaign:     cfg.Campaign,
		rule:         cfg.Rule,
		wardCount:    cfg.Wards,
		electionRule: cfg.ElectionRule,
		facilityCost: cfg.FacilityCost,
		DataRecorder: recorder.CreateRecorder(),
	}
	serv.SetGameRunner(serv)
	return serv
}

// overrides that require implementation
func (bs *BudgetServer) RunStartOfIteration(iteration int) {
	log.Printf("--------Start of iteration %v---------", iteration)

	// fresh wards every iteration, citizens choose where to live
	bs.FormDistricts()

	// put the campaign on the ballot
	for _, citizen := range bs.GetAgentMap() {
		citizen.BeginCampaign(citizen, bs.campaign)
	}
}

func (bs *BudgetServer) RunTurn(i, j int) {
	log.Printf("\nIteration %v, Turn %v, citizen count: %v", i, j, len(bs.GetAgentMap()))

	// Citizens roll their ballots for this turn
	for _, citizen := range bs.GetAgentMap() {
		citizen.DraftBallot(citizen)
	}

	// Citizens state their ballots to their district peers
	for _, citizen := range bs.GetAgentMap() {
		citizen.StateBallotToDistrict(citizen)
	}

	// Districts tally the submitted ballots and adopt a budget
	for _, district := range bs.districtList() {
		bs.runDistrictTally(district, i, j)
	}
}

func (bs *BudgetServer) RunEndOfIteration(iteration int) {
	log.Printf("--------End of iteration %v---------", iteration)

	for _, district := range bs.districtList() {
		bs.ElectDelegate(district)
	}

	bs.HoldCivicCeremony(iteration)
}

// runDistrictTally collects the district's submitted ballots, aggregates
// them into an adopted budget, pushes the adoption back to the residents and
// records the turn.
func (bs *BudgetServer) runDistrictTally(district *common.District, iteration, turn int) {
	residents := bs.GetResidentsOf(district.DistrictID)
	subjects := bs.campaign.NumSubjects()

	votes := make([][]float64, 0, len(residents))
	for _, residentID := range residents {
		citizen, exists := bs.GetAgentMap()[residentID]
		if !exists {
			continue
		}
		ballot := citizen.GetSubmittedBallot(citizen)
		if len(ballot) != subjects {
			log.Printf("[server] Citizen %v submitted %v amounts, want %v, vote dropped", citizen.GetName(), len(ballot), subjects)
			continue
		}
		votes = append(votes, ballot)
	}

	outcome, err := district.Rule.AggregateDetailed(bs.campaign.Total, votes)
	if err != nil {
		log.Printf("[server] District %v tally failed: %v", district.Name, err)
		return
	}
	district.Adopted = outcome.Allocation
	district.Phantom = outcome.Phantom

	// Residents hear the adopted budget and score their satisfaction
	for _, residentID := range residents {
		citizen, exists := bs.GetAgentMap()[residentID]
		if !exists {
			continue
		}
		citizen.AllocationAdopted(citizen, bs.campaign, district.Adopted)
	}

	citizenRecords := make([]recorder.CitizenRecord, 0, len(residents))
	satisfactions := make([]float64, 0, len(residents))
	for _, residentID := range residents {
		citizen, exists := bs.GetAgentMap()[residentID]
		if !exists {
			continue
		}
		record := citizen.RecordCitizenStatus(citizen)
		record.Iteration = iteration
		record.Turn = turn
		record.District = district.Name
		citizenRecords = append(citizenRecords, record)
		satisfactions = append(satisfactions, citizen.GetSatisfaction())
	}
	mean, std := recorder.SatisfactionStats(satisfactions)

	bs.DataRecorder.RecordTurn(recorder.TurnRecord{
		Iteration:        iteration,
		Turn:             turn,
		District:         district.Name,
		Subjects:         bs.campaign.Subjects,
		Adopted:          district.Adopted,
		Continuous:       outcome.Continuous,
		Phantom:          district.Phantom,
		SatisfactionMean: mean,
		SatisfactionStd:  std,
	})
	bs.DataRecorder.RecordCitizens(citizenRecords)
}

// ward forming

func (bs *BudgetServer) FormDistricts() {
	bs.districtsMutex.Lock()
	bs.Districts = make(map[uuid.UUID]*common.District)
	wards := make([]uuid.UUID, bs.wardCount)
	for w := 0; w < bs.wardCount; w++ {
		district := common.CreateDistrict(uuid.New(), fmt.Sprintf("ward-%d", w), bs.rule)
		district.Campaign = bs.campaign
		wards[w] = district.DistrictID
		bs.Districts[district.DistrictID] = district
	}
	bs.districtsMutex.Unlock()

	log.Printf("------------- [server] Starting ward formation -------------")

	for _, citizen := range bs.GetAgentMap() {
		choice := citizen.DecideWard(citizen, wards)
		if bs.getDistrict(choice) == nil {
			choice = wards[0]
		}
		citizen.SetDistrictID(choice)
		bs.addResident(citizen.GetID(), choice)
	}

	for _, district := range bs.districtList() {
		log.Printf("[server] District %v houses %v citizens", district.Name, len(district.Residents))
	}
}

func (bs *BudgetServer) addResident(citizenID uuid.UUID, districtID uuid.UUID) {
	bs.districtsMutex.Lock()
	defer bs.districtsMutex.Unlock()

	district, exists := bs.Districts[districtID]
	if !exists {
		log.Printf("[server] District %v does not exist", districtID)
		return
	}
	if district.HasResident(citizenID) {
		return
	}
	district.Residents = append(district.Residents, citizenID)
}

// citizen-facing lookups

func (bs *BudgetServer) GetDistrictOf(citizenID uuid.UUID) *common.District {
	citizen, exists := bs.GetAgentMap()[citizenID]
	if !exists {
		return nil
	}
	return bs.getDistrict(citizen.GetDistrictID())
}

func (bs *BudgetServer) GetResidentsOf(districtID uuid.UUID) []uuid.UUID {
	bs.districtsMutex.RLock()
	defer bs.districtsMutex.RUnlock()

	district, exists := bs.Districts[districtID]
	if !exists {
		return nil
	}
	residents := make([]uuid.UUID, len(district.Residents))
	copy(residents, district.Residents)
	return residents
}

func (bs *BudgetServer) getDistrict(districtID uuid.UUID) *common.District {
	bs.districtsMutex.RLock()
	defer bs.districtsMutex.RUnlock()
	return bs.Districts[districtID]
}

// districtList snapshots the districts sorted by name so turn processing
// and records keep a stable order.
func (bs *BudgetServer) districtList() []*common.District {
	bs.districtsMutex.RLock()
	defer bs.districtsMutex.RUnlock()

	list := make([]*common.District, 0, len(bs.Districts))
	for _, district := range bs.Districts {
		list = append(list, district)
	}
	sort.Slice(list, func(a, b int) bool {
		return list[a].Name < list[b].Name
	})
	return list
}

// debug log printing
func (bs *BudgetServer) LogCitizenStatus() {
	log.Printf("Citizen count: %v", len(bs.GetAgentMap()))
	for _, citizen := range bs.GetAgentMap() {
		log.Printf("Citizen %v (%v) satisfaction: %.3f", citizen.GetName(), citizen.GetPersona(), citizen.GetSatisfaction())
	}
}

// pretty logging to show all district status
func (bs *BudgetServer) LogDistrictStatus() {
	for _, district := range bs.districtList() {
		delegate := "none"
		if citizen, exists := bs.GetAgentMap()[district.Delegate]; exists {
			delegate = fmt.Sprintf("citizen %v", citizen.GetName())
		}
		log.Printf("District %v: %v residents, delegate %v, adopted %v (phantom %.4f)",
			district.Name, len(district.Residents), delegate, district.Adopted, district.Phantom)
	}
	// Log citizens with no district
	for _, citizen := range bs.GetAgentMap() {
		if bs.getDistrict(citizen.GetDistrictID()) == nil {
			log.Printf("Citizen %v has no district", citizen.GetName())
		}
	}
}
