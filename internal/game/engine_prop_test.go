package game

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func TestCreateGameInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var e Engine
		n := rapid.IntRange(2, 10).Draw(t, "players")
		k := rapid.IntRange(1, n-1).Draw(t, "imposters")

		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("p%d", i+1)
		}
		room := newTestRoom(ids...)

		g := e.CreateGame(room, "p1", GameConfig{Category: "movies", NumImposters: k})
		if g == nil {
			t.Fatalf("creation should succeed for %d players, %d imposters", n, k)
		}

		if len(g.Words) != n {
			t.Fatalf("expected %d word entries, got %d", n, len(g.Words))
		}
		imposterWords := make(map[string]bool)
		offWord := 0
		for _, id := range ids {
			w, ok := g.Words[id]
			if !ok {
				t.Fatalf("player %s has no word", id)
			}
			if w != g.MainWord {
				offWord++
				if imposterWords[w] {
					t.Fatalf("imposter word %q assigned twice", w)
				}
				imposterWords[w] = true
			}
		}
		if offWord != k {
			t.Fatalf("expected %d imposters, got %d", k, offWord)
		}

		if len(g.TurnOrder) != n {
			t.Fatalf("turn order length %d, want %d", len(g.TurnOrder), n)
		}
		seen := make(map[string]bool, n)
		for _, id := range g.TurnOrder {
			if _, ok := g.Words[id]; !ok || seen[id] {
				t.Fatalf("turn order is not a permutation of the players: %v", g.TurnOrder)
			}
			seen[id] = true
		}
		if g.CurrentTurnPlayerID != g.TurnOrder[0] {
			t.Fatal("first turn must match the head of the rotation")
		}
	})
}

func TestClueRotationCycles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var e Engine
		n := rapid.IntRange(2, 8).Draw(t, "players")
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("p%d", i+1)
		}
		room := newTestRoom(ids...)
		g := e.CreateGame(room, "p1", GameConfig{Category: "animals", NumImposters: 1})
		if g == nil {
			t.Fatal("creation should succeed")
		}

		start := g.CurrentTurnPlayerID
		for i := 0; i < n; i++ {
			current := g.CurrentTurnPlayerID
			if !e.SubmitClue(g, current, fmt.Sprintf("clue-%d", i)) {
				t.Fatalf("submission %d should succeed for the current player", i)
			}
		}
		if g.CurrentTurnPlayerID != start {
			t.Fatalf("a full pass should return the turn to %s, got %s", start, g.CurrentTurnPlayerID)
		}
		if !e.HasAllPlayersSubmittedClues(g) {
			t.Fatal("every player submitted, round should be complete")
		}
		if len(g.ClueSubmissionOrder) != n {
			t.Fatalf("submission order length %d, want %d", len(g.ClueSubmissionOrder), n)
		}
		for i, id := range g.ClueSubmissionOrder {
			if id != g.TurnOrder[(indexOf(g.TurnOrder, start)+i)%n] {
				t.Fatalf("submission order diverged from the rotation at slot %d", i)
			}
		}
	})
}
