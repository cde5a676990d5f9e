package schedule

import (
	"errors"
	"testing"
)

func TestRoundRobinPairingCount(t *testing.T) {
	tests := []struct {
		name    string
		teamIDs []int
		want    int
	}{
		{"two teams", []int{1, 2}, 1},
		{"four teams", []int{1, 2, 3, 4}, 6},
		{"five teams", []int{1, 2, 3, 4, 5}, 10},
	}

	g := NewRoundRobinGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairings, err := g.GeneratePairings(tt.teamIDs)
			if err != nil {
				t.Fatalf("GeneratePairings: %v", err)
			}
			if len(pairings) != tt.want {
				t.Errorf("got %d pairings, want %d", len(pairings), tt.want)
			}
		})
	}
}

func TestRoundRobinUniquePairs(t *testing.T) {
	g := NewRoundRobinGenerator()
	pairings, err := g.GeneratePairings([]int{10, 20, 30, 40})
	if err != nil {
		t.Fatalf("GeneratePairings: %v", err)
	}

	seen := make(map[[2]int]bool)
	for _, p := range pairings {
		if p.Team1ID == p.Team2ID {
			t.Errorf("team %d paired with itself", p.Team1ID)
		}
		key := [2]int{p.Team1ID, p.Team2ID}
		if p.Team2ID < p.Team1ID {
			key = [2]int{p.Team2ID, p.Team1ID}
		}
		if seen[key] {
			t.Errorf("duplicate pairing %v", key)
		}
		seen[key] = true
	}
}

func TestRoundRobinGroupTooSmall(t *testing.T) {
	g := NewRoundRobinGenerator()
	for _, teamIDs := range [][]int{nil, {}, {7}} {
		if _, err := g.GeneratePairings(teamIDs); !errors.Is(err, ErrGroupTooSmall) {
			t.Errorf("GeneratePairings(%v) error = %v, want ErrGroupTooSmall", teamIDs, err)
		}
	}
}
