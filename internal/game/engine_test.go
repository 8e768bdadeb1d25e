package game

import (
	"testing"
)

func newTestRoom(ids ...string) *Room {
	room := &Room{
		ID:        "room-1",
		Code:      "AAAAAA",
		HostID:    ids[0],
		GameState: StateWaiting,
	}
	for i, id := range ids {
		room.Players = append(room.Players, &Player{ID: id, Name: id, IsHost: i == 0})
	}
	return room
}

func newTestSession(mainWord string, words map[string]string, turnOrder []string, numImposters int) *GameSession {
	return &GameSession{
		Type:                GameType,
		Category:            "animals",
		NumImposters:        numImposters,
		MainWord:            mainWord,
		Words:               words,
		Clues:               make(map[string][]string),
		Votes:               make(map[string][]string),
		ContinueVotes:       make(map[string]bool),
		TurnOrder:           turnOrder,
		CurrentTurnPlayerID: turnOrder[0],
		ClueSubmissionOrder: []string{},
	}
}

func TestCreateGameValidation(t *testing.T) {
	var e Engine
	room := newTestRoom("p1", "p2", "p3")

	if e.CreateGame(room, "p2", GameConfig{Category: "animals", NumImposters: 1}) != nil {
		t.Fatal("non-host should not be able to create a game")
	}
	if e.CreateGame(newTestRoom("p1"), "p1", GameConfig{Category: "animals", NumImposters: 1}) != nil {
		t.Fatal("a single-player room should not start a game")
	}
	if e.CreateGame(room, "p1", GameConfig{Category: "animals", NumImposters: 3}) != nil {
		t.Fatal("imposter count equal to player count should be rejected")
	}
	if e.CreateGame(room, "p1", GameConfig{Category: "animals", NumImposters: 0}) != nil {
		t.Fatal("zero imposters should be rejected")
	}
	if e.CreateGame(room, "p1", GameConfig{Category: "colors", NumImposters: 1}) != nil {
		t.Fatal("unknown category should be rejected")
	}
}

func TestCreateGameAssignments(t *testing.T) {
	var e Engine
	room := newTestRoom("p1", "p2", "p3")

	g := e.CreateGame(room, "p1", GameConfig{Category: "animals", NumImposters: 1})
	if g == nil {
		t.Fatal("game creation should succeed")
	}
	if g.Type != GameType {
		t.Fatalf("expected type %s, got %s", GameType, g.Type)
	}
	if len(g.Words) != 3 {
		t.Fatalf("expected a word per player, got %d entries", len(g.Words))
	}
	imposters := 0
	for _, w := range g.Words {
		if w != g.MainWord {
			imposters++
		}
	}
	if imposters != 1 {
		t.Fatalf("expected exactly 1 imposter word, got %d", imposters)
	}

	if len(g.TurnOrder) != 3 {
		t.Fatalf("expected turn order of 3, got %d", len(g.TurnOrder))
	}
	seen := make(map[string]bool)
	for _, id := range g.TurnOrder {
		if _, ok := g.Words[id]; !ok {
			t.Fatalf("turn order id %s has no word", id)
		}
		if seen[id] {
			t.Fatalf("turn order repeats %s", id)
		}
		seen[id] = true
	}
	if g.CurrentTurnPlayerID != g.TurnOrder[0] {
		t.Fatal("first turn should go to the head of the turn order")
	}
	if len(g.Clues) != 0 || len(g.Votes) != 0 || len(g.ContinueVotes) != 0 || g.ReadyToVoteCount != 0 {
		t.Fatal("fresh session should start with empty collections")
	}
}

func TestCreateGameImposterWordsDistinct(t *testing.T) {
	var e Engine
	room := newTestRoom("p1", "p2", "p3", "p4")

	for i := 0; i < 50; i++ {
		g := e.CreateGame(room, "p1", GameConfig{Category: "animals", NumImposters: 2})
		if g == nil {
			t.Fatal("game creation should succeed")
		}
		var imposterWords []string
		for _, w := range g.Words {
			if w != g.MainWord {
				imposterWords = append(imposterWords, w)
			}
		}
		if len(imposterWords) != 2 {
			t.Fatalf("expected 2 imposter words, got %d", len(imposterWords))
		}
		if imposterWords[0] == imposterWords[1] {
			t.Fatal("two imposters should never share a word")
		}
	}
}

func TestSubmitClueTurnEnforcement(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Lion", "C": "Tiger"}, []string{"A", "B", "C"}, 1)

	if e.SubmitClue(g, "B", "stripes") {
		t.Fatal("out-of-turn submission should be rejected")
	}
	if len(g.Clues) != 0 || g.CurrentTurnPlayerID != "A" || len(g.ClueSubmissionOrder) != 0 {
		t.Fatal("rejected submission should leave state unchanged")
	}

	if !e.SubmitClue(g, "A", "mane") {
		t.Fatal("current-turn submission should succeed")
	}
	if g.CurrentTurnPlayerID != "B" {
		t.Fatalf("turn should advance to B, got %s", g.CurrentTurnPlayerID)
	}
	if len(g.Clues["A"]) != 1 || g.Clues["A"][0] != "mane" {
		t.Fatal("clue should be appended for the submitter")
	}
	if len(g.ClueSubmissionOrder) != 1 || g.ClueSubmissionOrder[0] != "A" {
		t.Fatal("first-ever clue should be recorded in submission order")
	}
}

func TestSubmitClueRotationWraps(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Lion", "C": "Tiger"}, []string{"A", "B", "C"}, 1)

	for _, id := range []string{"A", "B", "C"} {
		if !e.SubmitClue(g, id, "clue for "+id) {
			t.Fatalf("submission for %s should succeed", id)
		}
	}
	if g.CurrentTurnPlayerID != "A" {
		t.Fatalf("rotation should wrap back to A, got %s", g.CurrentTurnPlayerID)
	}
	if !e.HasAllPlayersSubmittedClues(g) {
		t.Fatal("all players submitted, round should be complete")
	}

	// second round: clues accumulate, submission order does not grow
	if !e.SubmitClue(g, "A", "second clue") {
		t.Fatal("second-round submission should succeed on the player's turn")
	}
	if len(g.Clues["A"]) != 2 {
		t.Fatalf("expected 2 clues for A, got %d", len(g.Clues["A"]))
	}
	if len(g.ClueSubmissionOrder) != 3 {
		t.Fatalf("submission order should stay at 3, got %d", len(g.ClueSubmissionOrder))
	}
}

func TestSetPlayerReady(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Tiger"}, []string{"A", "B"}, 1)
	players := []*Player{{ID: "A"}, {ID: "B"}}

	if e.SetPlayerReady(g, "X", players) {
		t.Fatal("unknown player should not be marked ready")
	}
	if !e.SetPlayerReady(g, "A", players) {
		t.Fatal("ready should succeed for a known player")
	}
	if g.ReadyToVoteCount != 1 || !players[0].IsReady {
		t.Fatal("ready should mark the player and bump the counter")
	}
	if e.SetPlayerReady(g, "A", players) {
		t.Fatal("marking ready twice should fail")
	}
	if g.ReadyToVoteCount != 1 {
		t.Fatal("counter should not change on a rejected ready")
	}
}

func TestCanStartVotingStrictMajority(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion"}, []string{"A"}, 1)

	g.ReadyToVoteCount = 2
	if e.CanStartVoting(g, 4) {
		t.Fatal("2 of 4 is not a strict majority")
	}
	if e.CanStartVoting(g, 5) {
		t.Fatal("2 of 5 is not a strict majority")
	}
	g.ReadyToVoteCount = 3
	if !e.CanStartVoting(g, 5) {
		t.Fatal("3 of 5 is a strict majority")
	}
	if !e.CanStartVoting(g, 4) {
		t.Fatal("3 of 4 is a strict majority")
	}
}

func TestStartVotingResetsReadyState(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Lion", "C": "Tiger"}, []string{"A", "B", "C"}, 1)
	players := []*Player{{ID: "A", IsReady: true}, {ID: "B", IsReady: true}, {ID: "C"}}
	g.ReadyToVoteCount = 2

	if !e.StartVoting(g, players) {
		t.Fatal("start voting should succeed")
	}
	if g.ReadyToVoteCount != 0 {
		t.Fatal("ready counter should reset")
	}
	for _, p := range players {
		if p.IsReady {
			t.Fatal("ready flags should reset")
		}
	}
	if len(g.Votes) != 3 {
		t.Fatalf("every word holder should get a vote list, got %d", len(g.Votes))
	}
	for id, votes := range g.Votes {
		if len(votes) != 0 {
			t.Fatalf("vote list for %s should start empty", id)
		}
	}
}

func TestVoteQuotas(t *testing.T) {
	var e Engine
	// B and C are imposters with quota 2; A is a citizen with quota 1.
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Tiger", "C": "Zebra", "D": "Lion"}, []string{"A", "B", "C", "D"}, 2)
	players := []*Player{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}}
	e.StartVoting(g, players)

	if e.SubmitVote(g, "A", "ghost", players) {
		t.Fatal("voting for a non-member should fail")
	}
	if !e.SubmitVote(g, "A", "B", players) {
		t.Fatal("citizen's first vote should succeed")
	}
	if e.SubmitVote(g, "A", "C", players) {
		t.Fatal("citizen's second vote should exceed the quota")
	}

	if !e.SubmitVote(g, "B", "A", players) {
		t.Fatal("imposter's first vote should succeed")
	}
	if e.SubmitVote(g, "B", "A", players) {
		t.Fatal("duplicate-target vote should fail")
	}
	if !e.SubmitVote(g, "B", "D", players) {
		t.Fatal("imposter's second distinct vote should succeed")
	}
	if e.SubmitVote(g, "B", "C", players) {
		t.Fatal("third vote should exceed the imposter quota")
	}
}

func TestRemoveVote(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Tiger"}, []string{"A", "B"}, 1)
	players := []*Player{{ID: "A"}, {ID: "B"}}
	e.StartVoting(g, players)
	e.SubmitVote(g, "A", "B", players)

	if e.RemoveVote(g, "A", "X") {
		t.Fatal("removing a vote never cast should fail")
	}
	if !e.RemoveVote(g, "A", "B") {
		t.Fatal("removing a cast vote should succeed")
	}
	if len(g.Votes["A"]) != 0 {
		t.Fatal("vote should be gone")
	}
	if !e.SubmitVote(g, "A", "B", players) {
		t.Fatal("quota should free up after removal")
	}
}

func TestEndGameCitizensWin(t *testing.T) {
	var e Engine
	// P3 is the lone imposter. Votes: P1->P3, P2->P3, P3->P1, P4->P3.
	g := newTestSession("Lion", map[string]string{"P1": "Lion", "P2": "Lion", "P3": "Tiger", "P4": "Lion"}, []string{"P1", "P2", "P3", "P4"}, 1)
	players := []*Player{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}, {ID: "P4"}}
	e.StartVoting(g, players)

	e.SubmitVote(g, "P1", "P3", players)
	e.SubmitVote(g, "P2", "P3", players)
	if e.CanEndGame(g) {
		t.Fatal("game should not end before every quota is filled")
	}
	if e.EndGame(g) != nil {
		t.Fatal("end game should reject incomplete voting")
	}
	e.SubmitVote(g, "P3", "P1", players)
	e.SubmitVote(g, "P4", "P3", players)

	if !e.CanEndGame(g) {
		t.Fatal("all quotas filled, game should be endable")
	}
	results := e.EndGame(g)
	if results == nil {
		t.Fatal("end game should produce results")
	}
	if len(results.Imposters) != 1 || results.Imposters[0] != "P3" {
		t.Fatalf("expected imposters [P3], got %v", results.Imposters)
	}
	if len(results.CorrectVotes) != 1 || results.CorrectVotes[0] != "P3" {
		t.Fatalf("expected correct votes [P3], got %v", results.CorrectVotes)
	}
	if results.Winners != WinnersCitizens {
		t.Fatalf("expected citizens to win, got %s", results.Winners)
	}
	if g.Results != results {
		t.Fatal("results should be stored on the session")
	}
}

func TestEndGameImpostersWinOnMiss(t *testing.T) {
	var e Engine
	// P3 is the imposter but the vote splits between P1 and P2.
	g := newTestSession("Lion", map[string]string{"P1": "Lion", "P2": "Lion", "P3": "Tiger", "P4": "Lion"}, []string{"P1", "P2", "P3", "P4"}, 1)
	players := []*Player{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}, {ID: "P4"}}
	e.StartVoting(g, players)

	e.SubmitVote(g, "P1", "P2", players)
	e.SubmitVote(g, "P2", "P1", players)
	e.SubmitVote(g, "P3", "P1", players)
	e.SubmitVote(g, "P4", "P2", players)

	results := e.EndGame(g)
	if results == nil {
		t.Fatal("end game should produce results")
	}
	if len(results.CorrectVotes) != 0 {
		t.Fatalf("no imposter was most voted, got correct votes %v", results.CorrectVotes)
	}
	if results.Winners != WinnersImposters {
		t.Fatalf("expected imposters to win, got %s", results.Winners)
	}
}

func TestContinueVoteCounting(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion"}, []string{"A"}, 1)

	e.SubmitContinueVote(g, "P1", true)
	e.SubmitContinueVote(g, "P2", true)
	e.SubmitContinueVote(g, "P3", false)
	e.SubmitContinueVote(g, "P4", false)

	if e.HasAllPlayersContinueVoted(g, 5) {
		t.Fatal("4 of 5 votes should not count as complete")
	}
	if !e.HasAllPlayersContinueVoted(g, 4) {
		t.Fatal("4 of 4 votes should count as complete")
	}
	// 2 true votes out of 5 players is not a strict majority, even with
	// an abstention.
	if e.ShouldContinueGame(g, 5) {
		t.Fatal("2 of 5 should not continue the game")
	}

	// last value wins
	e.SubmitContinueVote(g, "P3", true)
	if len(g.ContinueVotes) != 4 {
		t.Fatalf("overwriting a vote should not add an entry, got %d", len(g.ContinueVotes))
	}
	if !e.ShouldContinueGame(g, 5) {
		t.Fatal("3 of 5 true votes should continue the game")
	}
}

func TestResetForResubmissionRoundTrip(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Lion", "C": "Tiger"}, []string{"A", "B", "C"}, 1)

	for _, id := range []string{"A", "B", "C"} {
		e.SubmitClue(g, id, "round one")
	}
	e.SubmitContinueVote(g, "A", true)
	g.ReadyToVoteCount = 1

	if !e.ResetForResubmission(g) {
		t.Fatal("reset should succeed")
	}
	if len(g.Clues) != 0 {
		t.Fatal("prior-round clues should be discarded")
	}
	if len(g.ClueSubmissionOrder) != 0 || len(g.ContinueVotes) != 0 {
		t.Fatal("submission order and continue votes should be cleared")
	}
	if g.CurrentTurnPlayerID != "A" {
		t.Fatal("turn should restart at the head of the turn order")
	}
	if g.ReadyToVoteCount != 0 {
		t.Fatal("ready counter should reset")
	}
	if e.HasAllPlayersSubmittedClues(g) {
		t.Fatal("round should be incomplete after reset")
	}

	for _, id := range []string{"A", "B", "C"} {
		if !e.SubmitClue(g, id, "round two") {
			t.Fatalf("fresh round submission for %s should succeed", id)
		}
	}
	if !e.HasAllPlayersSubmittedClues(g) {
		t.Fatal("fresh round should complete")
	}
	if len(g.ClueSubmissionOrder) != 3 {
		t.Fatalf("submission order should rebuild to player count, got %d", len(g.ClueSubmissionOrder))
	}
	for id, clues := range g.Clues {
		if len(clues) != 1 {
			t.Fatalf("player %s should only hold this round's clue, got %d", id, len(clues))
		}
	}
}

func TestIsPlayerImposter(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Tiger"}, []string{"A", "B"}, 1)
	if e.IsPlayerImposter("A", g) {
		t.Fatal("main-word holder is not an imposter")
	}
	if !e.IsPlayerImposter("B", g) {
		t.Fatal("off-word holder is an imposter")
	}
}

func TestRestartGamePreservesConfig(t *testing.T) {
	var e Engine
	room := newTestRoom("p1", "p2", "p3")
	room.CurrentGame = e.CreateGame(room, "p1", GameConfig{Category: "movies", NumImposters: 2})
	if room.CurrentGame == nil {
		t.Fatal("setup game should succeed")
	}

	if e.RestartGame(room, "p2") != nil {
		t.Fatal("non-host should not restart the game")
	}

	g := e.RestartGame(room, "p1")
	if g == nil {
		t.Fatal("restart should succeed")
	}
	if g.Category != "movies" || g.NumImposters != 2 {
		t.Fatalf("restart should preserve config, got %s/%d", g.Category, g.NumImposters)
	}
	if g == room.CurrentGame {
		t.Fatal("restart should build a fresh session")
	}

	// room shrinks below the config: restart must fail
	room.Players = room.Players[:2]
	if e.RestartGame(room, "p1") != nil {
		t.Fatal("restart should fail once the imposter count no longer fits")
	}
}

func TestRemovePlayer(t *testing.T) {
	var e Engine
	g := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Lion", "C": "Tiger"}, []string{"A", "B", "C"}, 1)
	e.SubmitClue(g, "A", "first")
	e.SubmitContinueVote(g, "B", true)
	g.Votes["B"] = []string{"C"}

	// B holds the current turn; removing B hands it to C.
	e.RemovePlayer(g, "B")
	if _, ok := g.Words["B"]; ok {
		t.Fatal("removed player should lose their word entry")
	}
	if _, ok := g.Votes["B"]; ok {
		t.Fatal("removed player's votes should be dropped")
	}
	if _, ok := g.ContinueVotes["B"]; ok {
		t.Fatal("removed player's continue vote should be dropped")
	}
	if len(g.TurnOrder) != 2 {
		t.Fatalf("turn order should shrink to 2, got %d", len(g.TurnOrder))
	}
	if g.CurrentTurnPlayerID != "C" {
		t.Fatalf("turn should pass to the next remaining player, got %s", g.CurrentTurnPlayerID)
	}

	// removing the tail of the rotation wraps the turn to the head
	g2 := newTestSession("Lion", map[string]string{"A": "Lion", "B": "Lion", "C": "Tiger"}, []string{"A", "B", "C"}, 1)
	g2.CurrentTurnPlayerID = "C"
	e.RemovePlayer(g2, "C")
	if g2.CurrentTurnPlayerID != "A" {
		t.Fatalf("turn should wrap to A, got %s", g2.CurrentTurnPlayerID)
	}
}
