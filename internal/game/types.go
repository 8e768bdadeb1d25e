package game

// GameState is the room-level phase driving which operations are legal.
type GameState string

const (
	StateWaiting        GameState = "waiting"
	StateGameSelection  GameState = "game-selection"
	StateInGame         GameState = "in-game"
	StateVoting         GameState = "voting"
	StateResults        GameState = "results"
	StateContinueOrVote GameState = "continue-or-vote"
)

// Player identity is the transport-assigned connection id, stable for
// the connection's lifetime.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsHost  bool   `json:"isHost"`
	IsReady bool   `json:"isReady"`
}

// Room holds the players and at most one active game session. Player
// order is join order; the first remaining player inherits the host
// role when the host leaves.
type Room struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	HostID      string       `json:"hostId"`
	Players     []*Player    `json:"players"`
	GameState   GameState    `json:"gameState"`
	CurrentGame *GameSession `json:"currentGame,omitempty"`
}

// Player returns the room member with the given id, or nil.
func (r *Room) Player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// GameConfig is fixed for a session's lifetime. It is validated at the
// dispatcher boundary; the engine re-checks the player-count bounds.
type GameConfig struct {
	Category     string `json:"category"`
	NumImposters int    `json:"numImposters"`
}

// GameSession is replaced wholesale on every (re)start. Imposters are
// not stored explicitly: a player is an imposter iff their assigned
// word differs from MainWord.
type GameSession struct {
	Type                string              `json:"type"`
	Category            string              `json:"category"`
	NumImposters        int                 `json:"numImposters"`
	MainWord            string              `json:"mainWord"`
	Words               map[string]string   `json:"words"`
	Clues               map[string][]string `json:"clues"`
	Votes               map[string][]string `json:"votes"`
	ContinueVotes       map[string]bool     `json:"continueVotes"`
	TurnOrder           []string            `json:"turnOrder"`
	CurrentTurnPlayerID string              `json:"currentTurnPlayerId"`
	ClueSubmissionOrder []string            `json:"clueSubmissionOrder"`
	ReadyToVoteCount    int                 `json:"readyToVoteCount"`
	Results             *Results            `json:"results,omitempty"`
}

const (
	WinnersCitizens  = "citizens"
	WinnersImposters = "imposters"
)

// Results of a finished round. Citizens win iff the most-voted set
// contains at least one actual imposter.
type Results struct {
	Imposters    []string `json:"imposters"`
	CorrectVotes []string `json:"correctVotes"`
	Winners      string   `json:"winners"`
}
