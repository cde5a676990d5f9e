package schedule

import "math/rand"

type KnockoutGenerator struct {
	rng *rand.Rand
}

// NewKnockoutGenerator builds a knockout generator drawing from src. The
// source is injected so tests can pass a fixed seed instead of relying on
// ambient randomness.
func NewKnockoutGenerator(src rand.Source) FixtureGenerator {
	return &KnockoutGenerator{rng: rand.New(src)}
}

func (g *KnockoutGenerator) Name() string {
	return "Knockout"
}

// GeneratePairings randomly permutes the team list and pairs consecutive
// entries. With an odd team count the last team is left out: a bye, it
// receives no fixture this round.
func (g *KnockoutGenerator) GeneratePairings(teamIDs []int) ([]Pairing, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, ErrGroupTooSmall
	}

	shuffled := make([]int, n)
	copy(shuffled, teamIDs)
	g.rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairings := make([]Pairing, 0, n/2)
	for i := 0; i+1 < n; i += 2 {
		pairings = append(pairings, Pairing{
			Team1ID: shuffled[i],
			Team2ID: shuffled[i+1],
		})
	}
	return pairings, nil
}
