package common

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nkeidar/CivicBudget/budget"
)

func TestBallotSum(t *testing.T) {
	assert.Equal(t, 0.0, Ballot{}.Sum())
	assert.Equal(t, 100.0, Ballot{60, 30, 10}.Sum())
}

func TestBallotCloneIsIndependent(t *testing.T) {
	original := Ballot{10, 20, 30}
	clone := original.Clone()
	clone[0] = 99

	assert.Equal(t, Ballot{10, 20, 30}, original)
	assert.Equal(t, Ballot{99, 20, 30}, clone)
}

func TestBallotDistanceL1(t *testing.T) {
	assert.Equal(t, 0.0, Ballot{50, 50}.DistanceL1(Ballot{50, 50}))
	assert.Equal(t, 100.0, Ballot{100, 0}.DistanceL1(Ballot{50, 50}))
	assert.True(t, math.IsInf(Ballot{1, 2}.DistanceL1(Ballot{1, 2, 3}), 1))
}

func TestCampaignNumSubjects(t *testing.T) {
	assert.Equal(t, 0, Campaign{}.NumSubjects())
	assert.Equal(t, 2, Campaign{Subjects: []string{"parks", "transit"}, Total: 100}.NumSubjects())
}

func TestDistrictHasResident(t *testing.T) {
	district := CreateDistrict(uuid.New(), "ward-0", budget.DefaultMechanism())
	resident := uuid.New()

	assert.False(t, district.HasResident(resident))
	district.Residents = append(district.Residents, resident)
	assert.True(t, district.HasResident(resident))
	assert.False(t, district.HasResident(uuid.New()))
}
