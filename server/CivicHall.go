package budgetServer

import (
	"log"
	"sort"

	"github.com/nkeidar/CivicBudget/division"
	"github.com/nkeidar/CivicBudget/recorder"
)

// HoldCivicCeremony closes an iteration when at least two districts stand.
// Each district is assigned one flagship subject to host at the civic hall,
// chosen to maximize the total adopted spend on the hosted subjects, and the
// hall's facility cost is split between the hosts so that no district would
// rather take another's flagship at its share.
func (bs *BudgetServer) HoldCivicCeremony(iteration int) {
	districts := bs.districtList()
	if len(districts) < 2 {
		return
	}
	subjects := bs.campaign.NumSubjects()
	if subjects == 0 {
		return
	}
	if len(districts) > subjects {
		log.Printf("[server] Civic ceremony skipped: %v districts but only %v subjects", len(districts), subjects)
		return
	}

	// value[d][s] is how much district d adopted for subject s
	value := make([][]float64, len(districts))
	for d, district := range districts {
		row := make([]float64, subjects)
		for s := 0; s < subjects && s < len(district.Adopted); s++ {
			row[s] = float64(district.Adopted[s])
		}
		value[d] = row
	}

	assignment, welfare, err := division.UtilitarianAssignment(value)
	if err != nil {
		log.Printf("[server] Civic ceremony assignment failed: %v", err)
		return
	}
	if _, product, err := division.MaxProductAssignment(value); err == nil {
		log.Printf("[server] Ceremony welfare %.1f, the max-product rule would score %.3g", welfare, product)
	}
	if _, worst, err := division.EgalitarianAssignment(value); err == nil {
		log.Printf("[server] Worst host value would be %.1f under the egalitarian rule", worst)
	}

	// The flagships are fixed now; reassign them with prices attached so the
	// facility cost splits envy-free.
	chosen := make([]int, len(assignment))
	copy(chosen, assignment)
	sort.Ints(chosen)

	rentValue := make([][]float64, len(districts))
	for d := range districts {
		row := make([]float64, len(chosen))
		for k, s := range chosen {
			row[k] = value[d][s]
		}
		rentValue[d] = row
	}

	outcome, err := division.RentDivision(rentValue, bs.facilityCost)
	if err != nil {
		log.Printf("[server] Civic ceremony rent split failed: %v", err)
		return
	}
	if !division.IsEnvyFree(rentValue, outcome.Rooms, outcome.Prices, 1e-9) {
		log.Printf("[server] Ceremony rent split is not envy free, recording anyway")
	}

	record := recorder.CeremonyRecord{
		Iteration: iteration,
		Flagships: bs.campaign.Subjects,
		Welfare:   welfare,
	}
	for d, district := range districts {
		host := chosen[outcome.Rooms[d]]
		share := outcome.Prices[outcome.Rooms[d]]

		delegateName := -1
		if delegate, exists := bs.GetAgentMap()[district.Delegate]; exists {
			delegateName = delegate.GetName()
		}

		record.Districts = append(record.Districts, district.Name)
		record.Delegates = append(record.Delegates, delegateName)
		record.Hosts = append(record.Hosts, host)
		record.RentShares = append(record.RentShares, share)

		log.Printf("[server] District %v hosts %v and pays %.2f towards the hall",
			district.Name, bs.campaign.Subjects[host], share)
	}
	bs.DataRecorder.RecordCeremony(record)
}
