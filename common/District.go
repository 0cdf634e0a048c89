package common

import (
	"github.com/google/uuid"

	"github.com/nkeidar/CivicBudget/budget"
)

// District is one ward of citizens deciding a shared budget. Each district
// carries its own mechanism so experiments can run wards under different
// tolerances or solver strategies side by side.
type District struct {
	DistrictID uuid.UUID
	Name       string
	Residents  []uuid.UUID

	// Rule turns the residents' ballots into the adopted budget.
	Rule budget.Mechanism

	Campaign Campaign
	// Adopted is the latest allocation the district adopted, nil before the
	// first successful aggregation.
	Adopted []int
	// Phantom is the solved phantom value behind Adopted.
	Phantom float64

	Delegate uuid.UUID
}

func CreateDistrict(id uuid.UUID, name string, rule budget.Mechanism) *District {
	return &District{
		DistrictID: id,
		Name:       name,
		Residents:  []uuid.UUID{},
		Rule:       rule,
	}
}

func (d *District) HasResident(id uuid.UUID) bool {
	for _, resident := range d.Residents {
		if resident == id {
			return true
		}
	}
	return false
}
