package ws

import (
	"net/http"
	"strings"

	"github.com/Zein0/trendy-games/internal/config"
	"github.com/Zein0/trendy-games/internal/game"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
)

// Server is the thin dispatch layer between the socket transport and
// the game core. The socket id is the player's connection identifier;
// the core never sees the transport. Every handler follows the same
// shape: invoke a core operation, translate a rejection into an error
// event, broadcast the implied state changes.
type Server struct {
	mgr *game.Manager
	cfg config.Config
}

func New(mgr *game.Manager, cfg config.Config) *Server {
	return &Server{mgr: mgr, cfg: cfg}
}

// Mount attaches the Socket.IO server with all game event handlers to
// the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "create-room", func(s socketio.Conn, playerName string) {
		room := srv.mgr.CreateRoom(s.ID(), playerName)
		s.Join(room.Code)
		s.Emit("room-joined", room)
		log.Info().Str("code", room.Code).Str("name", playerName).Msg("room created")
	})

	io.OnEvent("/", "join-room", func(s socketio.Conn, roomCode, playerName string) {
		code := strings.ToUpper(strings.TrimSpace(roomCode))
		room := srv.mgr.JoinRoom(code, s.ID(), playerName)
		if room == nil {
			srv.errTo(s, "Room not found")
			return
		}
		s.Join(room.Code)
		s.Emit("room-joined", room)
		io.BroadcastToRoom("/", room.Code, "player-joined", room.Player(s.ID()))
		io.BroadcastToRoom("/", room.Code, "room-updated", room)
		log.Info().Str("code", room.Code).Str("name", playerName).Msg("player joined")
	})

	io.OnEvent("/", "leave-room", func(s socketio.Conn) {
		srv.handleLeave(io, s)
	})

	io.OnEvent("/", "start-game", func(s socketio.Conn, cfg game.GameConfig) {
		if !game.ValidCategory(cfg.Category) || cfg.NumImposters < 1 {
			srv.errTo(s, "Invalid game configuration")
			return
		}
		room := srv.mgr.GetRoomByPlayerID(s.ID())
		if room == nil {
			srv.errTo(s, "Room not found")
			return
		}
		if room.HostID != s.ID() {
			srv.errTo(s, "Only host can start game")
			return
		}
		g := srv.mgr.StartGame(room.Code, s.ID(), cfg)
		if g == nil {
			srv.errTo(s, "Failed to start game")
			return
		}
		io.BroadcastToRoom("/", room.Code, "game-started", g)
		io.BroadcastToRoom("/", room.Code, "room-updated", srv.mgr.GetRoom(room.Code))
		log.Info().Str("code", room.Code).Str("category", cfg.Category).Int("imposters", cfg.NumImposters).Msg("game started")
	})

	io.OnEvent("/", "submit-clue", func(s socketio.Conn, clue string) {
		if !srv.mgr.SubmitClue(s.ID(), clue) {
			srv.errTo(s, "Failed to submit clue or not your turn")
			return
		}
		room := srv.mgr.GetRoomByPlayerID(s.ID())
		if room == nil || room.CurrentGame == nil {
			return
		}
		io.BroadcastToRoom("/", room.Code, "clue-submitted", s.ID(), clue, room.CurrentGame.Clues[s.ID()])
		io.BroadcastToRoom("/", room.Code, "turn-changed", room.CurrentGame.CurrentTurnPlayerID)
		io.BroadcastToRoom("/", room.Code, "room-updated", room)

		// All clues in: the room decides between another round and voting.
		if srv.mgr.StartContinueOrVotePhase(room.Code) {
			io.BroadcastToRoom("/", room.Code, "continue-or-vote-prompt")
			io.BroadcastToRoom("/", room.Code, "room-updated", srv.mgr.GetRoom(room.Code))
		}
	})

	io.OnEvent("/", "ready-to-vote", func(s socketio.Conn) {
		room := srv.mgr.GetRoomByPlayerID(s.ID())
		if room == nil {
			srv.errTo(s, "Room not found")
			return
		}
		if !srv.mgr.SetPlayerReady(s.ID()) {
			srv.errTo(s, "Failed to set ready status")
			return
		}
		io.BroadcastToRoom("/", room.Code, "room-updated", srv.mgr.GetRoom(room.Code))

		if srv.mgr.StartVoting(room.Code) {
			io.BroadcastToRoom("/", room.Code, "voting-started")
			io.BroadcastToRoom("/", room.Code, "room-updated", srv.mgr.GetRoom(room.Code))
		}
	})

	io.OnEvent("/", "submit-vote", func(s socketio.Conn, targetID string) {
		if !srv.mgr.SubmitVote(s.ID(), targetID) {
			srv.errTo(s, "Failed to submit vote")
			return
		}
		room := srv.mgr.GetRoomByPlayerID(s.ID())
		if room == nil {
			return
		}
		io.BroadcastToRoom("/", room.Code, "vote-submitted", s.ID(), targetID)
		io.BroadcastToRoom("/", room.Code, "room-updated", room)

		if srv.mgr.CanEndGame(room.Code) {
			if results := srv.mgr.EndGame(room.Code); results != nil {
				io.BroadcastToRoom("/", room.Code, "game-ended", results)
				io.BroadcastToRoom("/", room.Code, "room-updated", srv.mgr.GetRoom(room.Code))
				log.Info().Str("code", room.Code).Str("winners", results.Winners).Msg("game ended")
			}
		}
	})

	io.OnEvent("/", "remove-vote", func(s socketio.Conn, targetID string) {
		if !srv.mgr.RemoveVote(s.ID(), targetID) {
			srv.errTo(s, "Failed to remove vote")
			return
		}
		if room := srv.mgr.GetRoomByPlayerID(s.ID()); room != nil {
			io.BroadcastToRoom("/", room.Code, "room-updated", room)
		}
	})

	io.OnEvent("/", "vote-continue", func(s socketio.Conn, continueGame bool) {
		room := srv.mgr.GetRoomByPlayerID(s.ID())
		if room == nil {
			srv.errTo(s, "Room not found")
			return
		}
		if !srv.mgr.SubmitContinueVote(s.ID(), continueGame) {
			srv.errTo(s, "Failed to submit continue vote")
			return
		}
		io.BroadcastToRoom("/", room.Code, "room-updated", srv.mgr.GetRoom(room.Code))

		if srv.mgr.HasAllPlayersContinueVoted(room.Code) {
			srv.resolveContinueVotes(io, room.Code)
		}
	})

	io.OnEvent("/", "restart-game", func(s socketio.Conn) {
		room := srv.mgr.GetRoomByPlayerID(s.ID())
		if room == nil {
			srv.errTo(s, "Room not found")
			return
		}
		if room.HostID != s.ID() {
			srv.errTo(s, "Only host can restart game")
			return
		}
		if room.GameState != game.StateResults {
			srv.errTo(s, "Can only restart after game ends")
			return
		}
		g := srv.mgr.RestartGame(room.Code, s.ID())
		if g == nil {
			srv.errTo(s, "Failed to restart game")
			return
		}
		io.BroadcastToRoom("/", room.Code, "game-restarted", g)
		io.BroadcastToRoom("/", room.Code, "room-updated", srv.mgr.GetRoom(room.Code))
		log.Info().Str("code", room.Code).Msg("game restarted")
	})

	io.OnEvent("/", "return-to-lobby", func(s socketio.Conn) {
		room := srv.mgr.GetRoomByPlayerID(s.ID())
		if room == nil {
			srv.errTo(s, "Room not found")
			return
		}
		if room.HostID != s.ID() {
			srv.errTo(s, "Only host can return to lobby")
			return
		}
		if room.GameState != game.StateResults {
			srv.errTo(s, "Can only return to lobby after game ends")
			return
		}
		if !srv.mgr.ResetRoom(room.Code) {
			srv.errTo(s, "Failed to return to lobby")
			return
		}
		io.BroadcastToRoom("/", room.Code, "returned-to-lobby")
		io.BroadcastToRoom("/", room.Code, "room-updated", srv.mgr.GetRoom(room.Code))
		log.Info().Str("code", room.Code).Msg("returned to lobby")
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.handleLeave(io, s)
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	allowed := make(map[string]bool)
	for _, o := range srv.cfg.AllowedOrigins() {
		allowed[o] = true
	}
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		if origin := c.Request.Header.Get("Origin"); allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// handleLeave serves both an explicit leave-room and a transport
// disconnect.
func (srv *Server) handleLeave(io *socketio.Server, s socketio.Conn) {
	out := srv.mgr.HandlePlayerLeaving(s.ID())
	if out.Room == nil {
		return
	}
	code := out.Room.Code
	s.Leave(code)
	io.BroadcastToRoom("/", code, "player-left", s.ID())
	io.BroadcastToRoom("/", code, "room-updated", out.Room)

	if out.HostChanged && out.NewHost != nil {
		io.BroadcastToRoom("/", code, "host-changed", out.NewHost.ID, out.NewHost.Name)
		log.Info().Str("code", code).Str("newHost", out.NewHost.ID).Msg("host migrated")
	}
	if out.GameEnded && out.Results != nil {
		io.BroadcastToRoom("/", code, "game-ended", out.Results)
		io.BroadcastToRoom("/", code, "room-updated", srv.mgr.GetRoom(code))
		return
	}
	// A leave can complete whatever the remaining players were waiting
	// on: the continue-or-vote quorum, the last vote quota, the clue
	// round or the ready quorum.
	if out.ContinueReady {
		srv.resolveContinueVotes(io, code)
		return
	}
	if out.VotingComplete {
		if results := srv.mgr.EndGame(code); results != nil {
			io.BroadcastToRoom("/", code, "game-ended", results)
			io.BroadcastToRoom("/", code, "room-updated", srv.mgr.GetRoom(code))
			log.Info().Str("code", code).Str("winners", results.Winners).Msg("game ended")
		}
		return
	}
	if out.Room.GameState == game.StateInGame {
		if srv.mgr.StartContinueOrVotePhase(code) {
			io.BroadcastToRoom("/", code, "continue-or-vote-prompt")
			io.BroadcastToRoom("/", code, "room-updated", srv.mgr.GetRoom(code))
		} else if srv.mgr.StartVoting(code) {
			io.BroadcastToRoom("/", code, "voting-started")
			io.BroadcastToRoom("/", code, "room-updated", srv.mgr.GetRoom(code))
		}
	}
}

// resolveContinueVotes applies the majority decision once every player
// has continue-voted: another clue round, or straight to voting.
func (srv *Server) resolveContinueVotes(io *socketio.Server, code string) {
	if srv.mgr.ShouldContinueGame(code) {
		if srv.mgr.ResetForResubmission(code) {
			io.BroadcastToRoom("/", code, "resubmission-phase")
			io.BroadcastToRoom("/", code, "room-updated", srv.mgr.GetRoom(code))
		}
		return
	}
	if srv.mgr.StartVoting(code) {
		io.BroadcastToRoom("/", code, "voting-started")
		io.BroadcastToRoom("/", code, "room-updated", srv.mgr.GetRoom(code))
	}
}

func (srv *Server) errTo(s socketio.Conn, message string) {
	s.Emit("error", message)
}
