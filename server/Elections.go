package budgetServer

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	common "github.com/nkeidar/CivicBudget/common"
)

// ElectionRule selects the voting rule districts use to elect a delegate.
type ElectionRule int

const (
	// RuleCopeland scores pairwise wins across the residents' rankings and
	// breaks ties among the winners with a Borda count.
	RuleCopeland ElectionRule = iota
	// RuleBorda runs a straight Borda count over all residents.
	RuleBorda
)

func (r ElectionRule) String() string {
	if r == RuleBorda {
		return "borda"
	}
	return "copeland"
}

// ParseElectionRule maps a config string onto an ElectionRule.
func ParseElectionRule(name string) (ElectionRule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "copeland":
		return RuleCopeland, nil
	case "borda":
		return RuleBorda, nil
	default:
		return RuleCopeland, fmt.Errorf("unknown election rule %q", name)
	}
}

// ElectDelegate runs the district's delegate election over the residents'
// rankings and lets the winner announce the adopted budget.
func (bs *BudgetServer) ElectDelegate(district *common.District) {
	residents := bs.GetResidentsOf(district.DistrictID)
	if len(residents) == 0 {
		log.Printf("[server] District %v has no residents, no delegate elected", district.Name)
		return
	}

	rankings := make([][]uuid.UUID, 0, len(residents))
	for _, residentID := range residents {
		citizen, exists := bs.GetAgentMap()[residentID]
		if !exists {
			continue
		}
		rankings = append(rankings, citizen.GetDelegateRanking(citizen))
	}

	var winners []uuid.UUID
	switch bs.electionRule {
	case RuleBorda:
		winners = runBordaCount(residents, rankings)
	default:
		winners = runCopelandCount(residents, rankings)
		if len(winners) > 1 {
			log.Printf("[server] District %v has %v tied Copeland winners, running a Borda count", district.Name, len(winners))
			winners = runBordaCount(winners, rankings)
		}
	}
	if len(winners) == 0 {
		winners = residents
	}

	// Select a random winner if still tied, else select 'winner'
	winner := winners[0]
	if len(winners) > 1 {
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		winner = winners[r.Intn(len(winners))]
	}
	district.Delegate = winner

	delegate, exists := bs.GetAgentMap()[winner]
	if !exists {
		return
	}
	log.Printf("[server] District %v elected citizen %v as delegate", district.Name, delegate.GetName())
	delegate.AnnounceAdoption(delegate)
}

// runCopelandCount infers pairwise outcomes from the rankings and returns
// every candidate with the highest Copeland score. A candidate scores one
// point per pairwise majority win and half a point per pairwise tie.
func runCopelandCount(candidates []uuid.UUID, rankings [][]uuid.UUID) []uuid.UUID {
	pairwiseWins := make(map[[2]uuid.UUID]int)

	for _, ranking := range rankings {
		position := make(map[uuid.UUID]int, len(ranking))
		for idx, candidate := range ranking {
			position[candidate] = idx
		}
		for a := 0; a < len(candidates); a++ {
			for b := a + 1; b < len(candidates); b++ {
				posA, okA := position[candidates[a]]
				posB, okB := position[candidates[b]]
				if !okA || !okB {
					continue
				}
				pair := [2]uuid.UUID{candidates[a], candidates[b]}
				if posA < posB {
					pairwiseWins[pair]++
				} else {
					pairwiseWins[pair]--
				}
			}
		}
	}

	copelandScores := make(map[uuid.UUID]float64)
	for pair, score := range pairwiseWins {
		if score > 0 {
			copelandScores[pair[0]]++
		} else if score < 0 {
			copelandScores[pair[1]]++
		} else {
			copelandScores[pair[0]] += 0.5
			copelandScores[pair[1]] += 0.5
		}
	}

	var maxScore float64
	var maxCandidates []uuid.UUID
	for _, candidate := range candidates {
		score := copelandScores[candidate]
		if score > maxScore {
			maxScore = score
			maxCandidates = []uuid.UUID{candidate}
		} else if score == maxScore {
			maxCandidates = append(maxCandidates, candidate)
		}
	}
	return maxCandidates
}

// runBordaCount aggregates points for the shortlisted candidates and returns
// all candidates with the highest score. Points follow each voter's relative
// order within the shortlist, top pick earns len(shortlist)-1.
func runBordaCount(shortlist []uuid.UUID, rankings [][]uuid.UUID) []uuid.UUID {
	inShortlist := make(map[uuid.UUID]struct{}, len(shortlist))
	for _, candidate := range shortlist {
		inShortlist[candidate] = struct{}{}
	}

	voteSum := make(map[uuid.UUID]int)
	n := len(shortlist)
	for _, ranking := range rankings {
		rank := 0
		for _, candidate := range ranking {
			if _, exists := inShortlist[candidate]; !exists {
				continue
			}
			voteSum[candidate] += n - rank - 1
			rank++
		}
	}

	maxVotes := -1
	var filtered []uuid.UUID
	for _, candidate := range shortlist {
		score := voteSum[candidate]
		if score > maxVotes {
			maxVotes = score
			filtered = []uuid.UUID{candidate}
		} else if score == maxVotes {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}
