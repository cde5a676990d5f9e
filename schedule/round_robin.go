package schedule

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() FixtureGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// GeneratePairings produces one fixture per unordered pair of distinct teams,
// n*(n-1)/2 fixtures for a group of n.
func (g *RoundRobinGenerator) GeneratePairings(teamIDs []int) ([]Pairing, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, ErrGroupTooSmall
	}

	pairings := make([]Pairing, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairings = append(pairings, Pairing{
				Team1ID: teamIDs[i],
				Team2ID: teamIDs[j],
			})
		}
	}
	return pairings, nil
}
