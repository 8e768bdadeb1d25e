package game

import "sync"

// Manager ties the room directory and the session engine together and
// enforces the room-level state machine around every engine call. It
// is the single owner of all room and session state: every mutating
// operation runs under one lock, which gives the sequential,
// no-partial-mutation semantics the engine assumes. Callers (the
// dispatcher) never touch rooms or sessions directly; they work with
// snapshots.
type Manager struct {
	mu     sync.Mutex
	rooms  *Directory
	engine Engine
}

func NewManager() *Manager {
	return &Manager{rooms: NewDirectory()}
}

// CreateRoom opens a new room hosted by the connection and returns a
// snapshot of it.
func (m *Manager) CreateRoom(hostConnID, hostName string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshotRoom(m.rooms.CreateRoom(hostConnID, hostName))
}

// JoinRoom adds the connection to the room, idempotently for repeat
// joins. Nil for an unknown code.
func (m *Manager) JoinRoom(code, connID, name string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshotRoom(m.rooms.JoinRoom(code, connID, name))
}

// GetRoom returns a snapshot of the room with the given code, or nil.
func (m *Manager) GetRoom(code string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshotRoom(m.rooms.GetRoom(code))
}

// GetRoomByPlayerID returns a snapshot of the connection's current
// room, or nil.
func (m *Manager) GetRoomByPlayerID(connID string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshotRoom(m.rooms.GetRoomByPlayerID(connID))
}

// ResetRoom returns the room to the lobby: waiting state, no game, no
// ready flags.
func (m *Manager) ResetRoom(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms.ResetRoom(code)
}

// StartGame creates a session for the room and moves it into the
// in-game state. Only legal from the lobby states; the engine enforces
// host authority and the config bounds.
func (m *Manager) StartGame(code, hostID string, cfg GameConfig) *GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil {
		return nil
	}
	if room.GameState != StateWaiting && room.GameState != StateGameSelection {
		return nil
	}
	g := m.engine.CreateGame(room, hostID, cfg)
	if g == nil {
		return nil
	}
	room.CurrentGame = g
	room.GameState = StateInGame
	for _, p := range room.Players {
		p.IsReady = false
	}
	return snapshotSession(g)
}

// CurrentTurnPlayer returns whose turn it is in the room's game, or "".
func (m *Manager) CurrentTurnPlayer(code string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil {
		return ""
	}
	return m.engine.CurrentTurnPlayer(room.CurrentGame)
}

// HasAllPlayersSubmittedClues reports whether the clue round is
// complete.
func (m *Manager) HasAllPlayersSubmittedClues(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil {
		return false
	}
	return m.engine.HasAllPlayersSubmittedClues(room.CurrentGame)
}

// SubmitClue records a clue for the player if it is their turn and the
// room is in-game.
func (m *Manager) SubmitClue(playerID, clue string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoomByPlayerID(playerID)
	if room == nil || room.CurrentGame == nil || room.GameState != StateInGame {
		return false
	}
	return m.engine.SubmitClue(room.CurrentGame, playerID, clue)
}

// PlayerClues returns a copy of every clue the player has submitted
// this round.
func (m *Manager) PlayerClues(playerID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoomByPlayerID(playerID)
	if room == nil || room.CurrentGame == nil {
		return nil
	}
	return append([]string(nil), room.CurrentGame.Clues[playerID]...)
}

// SetPlayerReady marks the player ready to vote. Legal at any point
// while in-game.
func (m *Manager) SetPlayerReady(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoomByPlayerID(playerID)
	if room == nil || room.CurrentGame == nil || room.GameState != StateInGame {
		return false
	}
	return m.engine.SetPlayerReady(room.CurrentGame, playerID, room.Players)
}

// CanStartVoting reports whether a strict majority is ready.
func (m *Manager) CanStartVoting(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canStartVotingLocked(code)
}

func (m *Manager) canStartVotingLocked(code string) bool {
	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil || room.GameState != StateInGame {
		return false
	}
	return m.engine.CanStartVoting(room.CurrentGame, len(room.Players))
}

// StartVoting opens the voting phase. From in-game it requires the
// ready quorum; from continue-or-vote the caller has already resolved
// the majority decision.
func (m *Manager) StartVoting(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil {
		return false
	}
	switch room.GameState {
	case StateInGame:
		if !m.engine.CanStartVoting(room.CurrentGame, len(room.Players)) {
			return false
		}
	case StateContinueOrVote:
	default:
		return false
	}
	room.GameState = StateVoting
	return m.engine.StartVoting(room.CurrentGame, room.Players)
}

// SubmitVote casts a vote while the room is in the voting phase.
func (m *Manager) SubmitVote(playerID, targetID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoomByPlayerID(playerID)
	if room == nil || room.CurrentGame == nil || room.GameState != StateVoting {
		return false
	}
	return m.engine.SubmitVote(room.CurrentGame, playerID, targetID, room.Players)
}

// RemoveVote withdraws a previously cast vote.
func (m *Manager) RemoveVote(playerID, targetID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoomByPlayerID(playerID)
	if room == nil || room.CurrentGame == nil || room.GameState != StateVoting {
		return false
	}
	return m.engine.RemoveVote(room.CurrentGame, playerID, targetID)
}

// CanEndGame reports whether every vote quota is filled.
func (m *Manager) CanEndGame(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil || room.GameState != StateVoting {
		return false
	}
	return m.engine.CanEndGame(room.CurrentGame)
}

// EndGame tallies the votes and moves the room to results. Nil while
// voting is incomplete.
func (m *Manager) EndGame(code string) *Results {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil || room.GameState != StateVoting {
		return nil
	}
	results := m.engine.EndGame(room.CurrentGame)
	if results != nil {
		room.GameState = StateResults
	}
	return snapshotResults(results)
}

// RestartGame replaces the finished session with a fresh one under the
// same config and returns to in-game.
func (m *Manager) RestartGame(code, hostID string) *GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.GameState != StateResults {
		return nil
	}
	g := m.engine.RestartGame(room, hostID)
	if g == nil {
		return nil
	}
	room.CurrentGame = g
	room.GameState = StateInGame
	for _, p := range room.Players {
		p.IsReady = false
	}
	return snapshotSession(g)
}

// StartContinueOrVotePhase moves the room into the continue-or-vote
// decision once every player has submitted a clue. Continue votes and
// ready flags start clean.
func (m *Manager) StartContinueOrVotePhase(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil || room.GameState != StateInGame {
		return false
	}
	if !m.engine.HasAllPlayersSubmittedClues(room.CurrentGame) {
		return false
	}
	room.GameState = StateContinueOrVote
	for _, p := range room.Players {
		p.IsReady = false
	}
	room.CurrentGame.ContinueVotes = make(map[string]bool)
	return true
}

// SubmitContinueVote records the player's continue-or-vote choice,
// last value winning.
func (m *Manager) SubmitContinueVote(playerID string, continueGame bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoomByPlayerID(playerID)
	if room == nil || room.CurrentGame == nil || room.GameState != StateContinueOrVote {
		return false
	}
	return m.engine.SubmitContinueVote(room.CurrentGame, playerID, continueGame)
}

// HasAllPlayersContinueVoted checks the vote count against the current
// player count.
func (m *Manager) HasAllPlayersContinueVoted(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasAllContinueVotedLocked(code)
}

func (m *Manager) hasAllContinueVotedLocked(code string) bool {
	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil {
		return false
	}
	return m.engine.HasAllPlayersContinueVoted(room.CurrentGame, len(room.Players))
}

// ShouldContinueGame reports whether a strict majority voted to play
// another clue round.
func (m *Manager) ShouldContinueGame(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil {
		return false
	}
	return m.engine.ShouldContinueGame(room.CurrentGame, len(room.Players))
}

// ResetForResubmission returns a continue-or-vote room to in-game for
// another clue round, discarding the previous round's clues.
func (m *Manager) ResetForResubmission(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil || room.GameState != StateContinueOrVote {
		return false
	}
	room.GameState = StateInGame
	for _, p := range room.Players {
		p.IsReady = false
	}
	return m.engine.ResetForResubmission(room.CurrentGame)
}

// IsPlayerImposter reports whether the player holds a word different
// from the room's main word.
func (m *Manager) IsPlayerImposter(playerID, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoom(code)
	if room == nil || room.CurrentGame == nil {
		return false
	}
	return m.engine.IsPlayerImposter(playerID, room.CurrentGame)
}

// LeaveOutcome describes everything a player's departure changed, so
// the dispatcher can notify the remaining members.
type LeaveOutcome struct {
	Room           *Room
	HostChanged    bool
	NewHost        *Player
	GameEnded      bool
	Results        *Results
	ContinueReady  bool // everyone remaining has continue-voted
	VotingComplete bool // every remaining vote quota is filled
}

// HandlePlayerLeaving removes the player from their room and
// reconciles any running game. An imposter leaving ends the round
// immediately in the citizens' favor. Any other leaver is pruned from
// the session so turn, quota and quorum math stays consistent with the
// shrunken player list; if that completes the continue-or-vote count
// or the last outstanding vote quota, ContinueReady or VotingComplete
// is set so the caller can resolve the phase for the remaining
// players.
func (m *Manager) HandlePlayerLeaving(playerID string) LeaveOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := m.rooms.GetRoomByPlayerID(playerID)
	if room == nil || room.CurrentGame == nil {
		res := m.rooms.LeaveRoom(playerID)
		return LeaveOutcome{
			Room:        snapshotRoom(res.Room),
			HostChanged: res.HostChanged,
			NewHost:     snapshotPlayer(res.NewHost),
		}
	}

	wasImposter := m.engine.IsPlayerImposter(playerID, room.CurrentGame)
	wasReady := false
	if p := room.Player(playerID); p != nil {
		wasReady = p.IsReady
	}

	res := m.rooms.LeaveRoom(playerID)
	out := LeaveOutcome{HostChanged: res.HostChanged, NewHost: snapshotPlayer(res.NewHost)}
	if res.Room == nil {
		return out
	}
	g := res.Room.CurrentGame

	if wasImposter && g != nil {
		res.Room.GameState = StateResults
		imposters := make([]string, 0, g.NumImposters)
		for id, word := range g.Words {
			if word != g.MainWord {
				imposters = append(imposters, id)
			}
		}
		g.Results = &Results{
			Imposters:    imposters,
			CorrectVotes: []string{},
			Winners:      WinnersCitizens,
		}
		out.GameEnded = true
		out.Results = snapshotResults(g.Results)
	} else if g != nil {
		m.engine.RemovePlayer(g, playerID)
		if wasReady && g.ReadyToVoteCount > 0 {
			g.ReadyToVoteCount--
		}
		switch res.Room.GameState {
		case StateContinueOrVote:
			out.ContinueReady = m.engine.HasAllPlayersContinueVoted(g, len(res.Room.Players))
		case StateVoting:
			out.VotingComplete = m.engine.CanEndGame(g)
		}
	}
	out.Room = snapshotRoom(res.Room)
	return out
}

// snapshotRoom deep-copies a room so callers can marshal it without
// holding the manager lock.
func snapshotRoom(room *Room) *Room {
	if room == nil {
		return nil
	}
	out := &Room{
		ID:        room.ID,
		Code:      room.Code,
		HostID:    room.HostID,
		GameState: room.GameState,
		Players:   make([]*Player, len(room.Players)),
	}
	for i, p := range room.Players {
		out.Players[i] = snapshotPlayer(p)
	}
	out.CurrentGame = snapshotSession(room.CurrentGame)
	return out
}

func snapshotPlayer(p *Player) *Player {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func snapshotSession(g *GameSession) *GameSession {
	if g == nil {
		return nil
	}
	out := &GameSession{
		Type:                g.Type,
		Category:            g.Category,
		NumImposters:        g.NumImposters,
		MainWord:            g.MainWord,
		Words:               make(map[string]string, len(g.Words)),
		Clues:               make(map[string][]string, len(g.Clues)),
		Votes:               make(map[string][]string, len(g.Votes)),
		ContinueVotes:       make(map[string]bool, len(g.ContinueVotes)),
		TurnOrder:           append([]string(nil), g.TurnOrder...),
		CurrentTurnPlayerID: g.CurrentTurnPlayerID,
		ClueSubmissionOrder: append([]string(nil), g.ClueSubmissionOrder...),
		ReadyToVoteCount:    g.ReadyToVoteCount,
	}
	for k, v := range g.Words {
		out.Words[k] = v
	}
	for k, v := range g.Clues {
		out.Clues[k] = append([]string(nil), v...)
	}
	for k, v := range g.Votes {
		out.Votes[k] = append([]string(nil), v...)
	}
	for k, v := range g.ContinueVotes {
		out.ContinueVotes[k] = v
	}
	out.Results = snapshotResults(g.Results)
	return out
}

func snapshotResults(r *Results) *Results {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Imposters = append([]string(nil), r.Imposters...)
	cp.CorrectVotes = append([]string(nil), r.CorrectVotes...)
	return &cp
}
