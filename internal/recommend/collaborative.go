package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/nbscout/nbscout/internal/domain"
)

const (
	// CollaborativeTopUsers is how many similar users seed the picks
	CollaborativeTopUsers = 3

	// CollaborativeConfidence is fixed for every collaborative candidate
	CollaborativeConfidence = 0.75
)

// CollaborativeStrategy recommends records that the users most similar
// to the target (by shared record interactions) saved or imported and
// the target has not touched.
type CollaborativeStrategy struct{}

func (CollaborativeStrategy) Name() string { return "collaborative" }

func (CollaborativeStrategy) Generate(_ context.Context, in *Input) ([]Candidate, error) {
	if len(in.NeighborHistory) == 0 {
		return nil, nil
	}

	// Tally shared record ids per neighbor
	similarity := make(map[string]int, len(in.NeighborHistory))
	for user, history := range in.NeighborHistory {
		for _, interaction := range history {
			if in.Interacted[interaction.RecordID] {
				similarity[user]++
			}
		}
	}
	if len(similarity) == 0 {
		return nil, nil
	}

	topUsers := topSimilarUsers(similarity, CollaborativeTopUsers)

	// Collect records the top users saved or imported
	seen := make(map[string]bool)
	var out []Candidate
	for _, user := range topUsers {
		for _, interaction := range in.NeighborHistory[user] {
			if interaction.Type != domain.InteractionSave && interaction.Type != domain.InteractionImport {
				continue
			}
			if seen[interaction.RecordID] || !eligible(in, interaction.RecordID) {
				continue
			}
			if _, ok := in.ByID[interaction.RecordID]; !ok {
				continue
			}
			seen[interaction.RecordID] = true

			out = append(out, Candidate{
				RecordID:   interaction.RecordID,
				Type:       domain.RecPersonalized,
				Confidence: CollaborativeConfidence,
				Reasoning:  fmt.Sprintf("Saved by %d users with similar activity", len(topUsers)),
			})
		}
	}

	return out, nil
}

// topSimilarUsers returns the n users with the highest shared-record
// tallies, ties broken by user id for determinism.
func topSimilarUsers(similarity map[string]int, n int) []string {
	users := make([]string, 0, len(similarity))
	for user := range similarity {
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		if similarity[users[i]] != similarity[users[j]] {
			return similarity[users[i]] > similarity[users[j]]
		}
		return users[i] < users[j]
	})

	if len(users) > n {
		users = users[:n]
	}
	return users
}
