package schedule

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestKnockoutPairingCount(t *testing.T) {
	tests := []struct {
		name    string
		teamIDs []int
		want    int
	}{
		{"even field", []int{1, 2, 3, 4, 5, 6}, 3},
		{"odd field drops one", []int{1, 2, 3, 4, 5}, 2},
		{"two teams", []int{1, 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewKnockoutGenerator(rand.NewSource(1))
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

func TestKnockoutNoTeamPlaysTwice(t *testing.T) {
	g := NewKnockoutGenerator(rand.NewSource(42))
	teamIDs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	pairings, err := g.GeneratePairings(teamIDs)
	if err != nil {
		t.Fatalf("GeneratePairings: %v", err)
	}

	seen := make(map[int]bool)
	for _, p := range pairings {
		for _, id := range []int{p.Team1ID, p.Team2ID} {
			if seen[id] {
				t.Errorf("team %d appears in more than one fixture", id)
			}
			seen[id] = true
		}
	}
}

func TestKnockoutDeterministicWithFixedSeed(t *testing.T) {
	teamIDs := []int{1, 2, 3, 4, 5, 6}

	first, err := NewKnockoutGenerator(rand.NewSource(7)).GeneratePairings(teamIDs)
	if err != nil {
		t.Fatalf("GeneratePairings: %v", err)
	}
	second, err := NewKnockoutGenerator(rand.NewSource(7)).GeneratePairings(teamIDs)
	if err != nil {
		t.Fatalf("GeneratePairings: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different draws: %v vs %v", first, second)
	}
}

func TestKnockoutDoesNotMutateInput(t *testing.T) {
	teamIDs := []int{1, 2, 3, 4}
	original := append([]int(nil), teamIDs...)

	if _, err := NewKnockoutGenerator(rand.NewSource(3)).GeneratePairings(teamIDs); err != nil {
		t.Fatalf("GeneratePairings: %v", err)
	}
	if !reflect.DeepEqual(teamIDs, original) {
		t.Errorf("input slice mutated: %v", teamIDs)
	}
}

func TestKnockoutGroupTooSmall(t *testing.T) {
	g := NewKnockoutGenerator(rand.NewSource(1))
	if _, err := g.GeneratePairings([]int{9}); !errors.Is(err, ErrGroupTooSmall) {
		t.Errorf("error = %v, want ErrGroupTooSmall", err)
	}
}
