package game

import "math/rand"

// GameType identifies the one game this engine implements.
const GameType = "guess-the-imposter"

// Engine implements the rules of the category word game: word and
// imposter assignment, turn-based clue submission, ready quorums,
// voting with per-role quotas and result tallying. It is stateless and
// not internally synchronized; callers serialize access per room. All
// operations either complete or reject with no partial mutation.
type Engine struct{}

// CreateGame assigns words and a turn order for a fresh session.
// Returns nil if the requester is not the host, fewer than two players
// are present, the imposter count doesn't fit the player count, or the
// category can't supply a main word plus one distinct word per
// imposter.
func (Engine) CreateGame(room *Room, hostID string, cfg GameConfig) *GameSession {
	if room.HostID != hostID || len(room.Players) < 2 {
		return nil
	}
	if cfg.NumImposters < 1 || cfg.NumImposters >= len(room.Players) {
		return nil
	}
	pool := wordLists[cfg.Category]
	if len(pool) <= cfg.NumImposters {
		return nil
	}

	playerIDs := make([]string, len(room.Players))
	for i, p := range room.Players {
		playerIDs[i] = p.ID
	}

	shuffled := append([]string(nil), playerIDs...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	imposters := make(map[string]bool, cfg.NumImposters)
	for _, id := range shuffled[:cfg.NumImposters] {
		imposters[id] = true
	}

	mainWord := RandomWord(cfg.Category)
	imposterWords := RandomWords(cfg.Category, cfg.NumImposters, mainWord)

	words := make(map[string]string, len(playerIDs))
	next := 0
	for _, id := range playerIDs {
		if imposters[id] {
			words[id] = imposterWords[next]
			next++
		} else {
			words[id] = mainWord
		}
	}

	// Turn order is shuffled independently of imposter selection so the
	// rotation leaks nothing about roles.
	turnOrder := append([]string(nil), playerIDs...)
	rand.Shuffle(len(turnOrder), func(i, j int) { turnOrder[i], turnOrder[j] = turnOrder[j], turnOrder[i] })

	return &GameSession{
		Type:                GameType,
		Category:            cfg.Category,
		NumImposters:        cfg.NumImposters,
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

// CurrentTurnPlayer returns whose turn it is, or "" if unset.
func (Engine) CurrentTurnPlayer(g *GameSession) string {
	return g.CurrentTurnPlayerID
}

// HasAllPlayersSubmittedClues reports whether every player in the turn
// order has at least one clue.
func (Engine) HasAllPlayersSubmittedClues(g *GameSession) bool {
	for _, id := range g.TurnOrder {
		if len(g.Clues[id]) == 0 {
			return false
		}
	}
	return true
}

// SubmitClue appends a clue for the player whose turn it is and
// advances the rotation one slot. Turn enforcement is strict: any
// other player's submission is rejected without side effects.
func (e Engine) SubmitClue(g *GameSession, playerID, clue string) bool {
	if g.CurrentTurnPlayerID != playerID {
		return false
	}
	g.Clues[playerID] = append(g.Clues[playerID], clue)
	if !contains(g.ClueSubmissionOrder, playerID) {
		g.ClueSubmissionOrder = append(g.ClueSubmissionOrder, playerID)
	}
	e.advanceTurn(g)
	return true
}

// advanceTurn moves one slot forward in the fixed rotation, wrapping
// past the end.
func (Engine) advanceTurn(g *GameSession) {
	current := indexOf(g.TurnOrder, g.CurrentTurnPlayerID)
	g.CurrentTurnPlayerID = g.TurnOrder[(current+1)%len(g.TurnOrder)]
}

// SetPlayerReady marks a player ready to vote. Fails for unknown
// players and for players already marked ready.
func (Engine) SetPlayerReady(g *GameSession, playerID string, players []*Player) bool {
	var player *Player
	for _, p := range players {
		if p.ID == playerID {
			player = p
			break
		}
	}
	if player == nil || player.IsReady {
		return false
	}
	player.IsReady = true
	g.ReadyToVoteCount++
	return true
}

// CanStartVoting requires a strict majority of ready players.
func (Engine) CanStartVoting(g *GameSession, playerCount int) bool {
	return g.ReadyToVoteCount*2 > playerCount
}

// StartVoting clears the ready state and opens an empty vote list for
// every player holding a word.
func (Engine) StartVoting(g *GameSession, players []*Player) bool {
	for _, p := range players {
		p.IsReady = false
	}
	g.ReadyToVoteCount = 0
	for id := range g.Words {
		g.Votes[id] = []string{}
	}
	return true
}

// voteQuota is 1 for citizens and NumImposters for imposters, derived
// from the voter's own word.
func (e Engine) voteQuota(g *GameSession, playerID string) int {
	if e.IsPlayerImposter(playerID, g) {
		return g.NumImposters
	}
	return 1
}

// SubmitVote appends a vote for targetID. Rejected when the target is
// not a current room player, the voter's quota is exhausted, or the
// voter already voted for that target.
func (e Engine) SubmitVote(g *GameSession, voterID, targetID string, players []*Player) bool {
	found := false
	for _, p := range players {
		if p.ID == targetID {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if len(g.Votes[voterID]) >= e.voteQuota(g, voterID) {
		return false
	}
	if contains(g.Votes[voterID], targetID) {
		return false
	}
	g.Votes[voterID] = append(g.Votes[voterID], targetID)
	return true
}

// RemoveVote withdraws one occurrence of targetID from the voter's
// list.
func (Engine) RemoveVote(g *GameSession, voterID, targetID string) bool {
	i := indexOf(g.Votes[voterID], targetID)
	if i < 0 {
		return false
	}
	g.Votes[voterID] = append(g.Votes[voterID][:i], g.Votes[voterID][i+1:]...)
	return true
}

// CanEndGame reports whether every player with a vote list has filled
// their quota.
func (e Engine) CanEndGame(g *GameSession) bool {
	for voterID, votes := range g.Votes {
		if len(votes) < e.voteQuota(g, voterID) {
			return false
		}
	}
	return true
}

// EndGame tallies votes once all quotas are filled. The targets tied
// at the maximum received-vote count form the most-voted set; citizens
// win iff that set intersects the actual imposters. The result is
// stored on the session and returned; nil while voting is incomplete.
func (e Engine) EndGame(g *GameSession) *Results {
	if !e.CanEndGame(g) {
		return nil
	}

	counts := make(map[string]int)
	for _, votes := range g.Votes {
		for _, target := range votes {
			counts[target]++
		}
	}

	maxVotes := 0
	for _, c := range counts {
		if c > maxVotes {
			maxVotes = c
		}
	}
	var mostVoted []string
	for target, c := range counts {
		if c == maxVotes {
			mostVoted = append(mostVoted, target)
		}
	}

	imposters := make([]string, 0, g.NumImposters)
	for id, word := range g.Words {
		if word != g.MainWord {
			imposters = append(imposters, id)
		}
	}

	correct := make([]string, 0, len(mostVoted))
	for _, id := range mostVoted {
		if contains(imposters, id) {
			correct = append(correct, id)
		}
	}

	winners := WinnersImposters
	if len(correct) > 0 {
		winners = WinnersCitizens
	}
	g.Results = &Results{Imposters: imposters, CorrectVotes: correct, Winners: winners}
	return g.Results
}

// SubmitContinueVote records the player's choice, overwriting any
// earlier one. Last value wins.
func (Engine) SubmitContinueVote(g *GameSession, playerID string, continueGame bool) bool {
	g.ContinueVotes[playerID] = continueGame
	return true
}

// HasAllPlayersContinueVoted is an exact-count check against the
// current player count.
func (Engine) HasAllPlayersContinueVoted(g *GameSession, playerCount int) bool {
	return len(g.ContinueVotes) == playerCount
}

// ShouldContinueGame requires a strict majority of true votes over the
// full player count; abstentions count against continuing.
func (Engine) ShouldContinueGame(g *GameSession, playerCount int) bool {
	trues := 0
	for _, v := range g.ContinueVotes {
		if v {
			trues++
		}
	}
	return trues*2 > playerCount
}

// ResetForResubmission discards the round's clues and continue votes
// and restarts the rotation from the top of the turn order. Words and
// roles are untouched.
func (Engine) ResetForResubmission(g *GameSession) bool {
	g.Clues = make(map[string][]string)
	g.ClueSubmissionOrder = []string{}
	g.ContinueVotes = make(map[string]bool)
	g.CurrentTurnPlayerID = g.TurnOrder[0]
	g.ReadyToVoteCount = 0
	return true
}

// IsPlayerImposter reports whether the player's word differs from the
// main word.
func (Engine) IsPlayerImposter(playerID string, g *GameSession) bool {
	return g.Words[playerID] != g.MainWord
}

// RestartGame builds a fresh session reusing the previous session's
// category and imposter count. Fails under the same conditions as
// CreateGame, including the room having shrunk below the config.
func (e Engine) RestartGame(room *Room, hostID string) *GameSession {
	if room.HostID != hostID || room.CurrentGame == nil {
		return nil
	}
	prev := room.CurrentGame
	return e.CreateGame(room, hostID, GameConfig{
		Category:     prev.Category,
		NumImposters: prev.NumImposters,
	})
}

// RemovePlayer prunes a departed player from every session collection
// so the session invariants keep holding against the shrunken player
// list. If it was the leaver's turn the rotation advances to the next
// remaining player.
func (Engine) RemovePlayer(g *GameSession, playerID string) {
	delete(g.Words, playerID)
	delete(g.Clues, playerID)
	delete(g.Votes, playerID)
	delete(g.ContinueVotes, playerID)

	if i := indexOf(g.ClueSubmissionOrder, playerID); i >= 0 {
		g.ClueSubmissionOrder = append(g.ClueSubmissionOrder[:i], g.ClueSubmissionOrder[i+1:]...)
	}
	if i := indexOf(g.TurnOrder, playerID); i >= 0 {
		g.TurnOrder = append(g.TurnOrder[:i], g.TurnOrder[i+1:]...)
		if g.CurrentTurnPlayerID == playerID && len(g.TurnOrder) > 0 {
			g.CurrentTurnPlayerID = g.TurnOrder[i%len(g.TurnOrder)]
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
