package game

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Directory owns the set of live rooms and the player->room index.
// Both tables are guarded by one mutex and always updated together so
// the index can never point at a stale or deleted room. The Directory
// knows nothing about any specific game's rules.
type Directory struct {
	mu          sync.Mutex
	rooms       map[string]*Room  // code -> room
	playerRooms map[string]string // player id -> code
}

func NewDirectory() *Directory {
	return &Directory{
		rooms:       make(map[string]*Room),
		playerRooms: make(map[string]string),
	}
}

// generateRoomCode produces a 6-character uppercase base-36 code that
// no live room currently holds. Codes free up when a room is deleted.
// Caller must hold d.mu.
func (d *Directory) generateRoomCode() string {
	for {
		b := make([]byte, 6)
		for i := range b {
			b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, taken := d.rooms[code]; !taken {
			return code
		}
	}
}

// CreateRoom allocates a new waiting room with hostConnID as its only
// player and indexes it by code and host id.
func (d *Directory) CreateRoom(hostConnID, hostName string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	room := &Room{
		ID:     uuid.NewString(),
		Code:   d.generateRoomCode(),
		HostID: hostConnID,
		Players: []*Player{
			{ID: hostConnID, Name: hostName, IsHost: true},
		},
		GameState: StateWaiting,
	}
	d.rooms[room.Code] = room
	d.playerRooms[hostConnID] = room.Code
	return room
}

// JoinRoom appends a new non-host player to the room. Joining a room
// the connection is already a member of is a no-op returning the room
// unchanged. Returns nil for an unknown code.
func (d *Directory) JoinRoom(code, connID, name string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	room := d.rooms[code]
	if room == nil {
		return nil
	}
	if room.Player(connID) != nil {
		return room
	}
	room.Players = append(room.Players, &Player{ID: connID, Name: name})
	d.playerRooms[connID] = code
	return room
}

// LeaveResult reports what changed when a player left. Room is nil
// when the connection had no room or the room emptied and was deleted.
type LeaveResult struct {
	Room        *Room
	HostChanged bool
	NewHost     *Player
}

// LeaveRoom removes the player from both the room's player list and
// the index in one step. An emptied room is deleted immediately. If
// the host left and players remain, the earliest-joined remaining
// player is promoted.
func (d *Directory) LeaveRoom(connID string) LeaveResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	code, ok := d.playerRooms[connID]
	if !ok {
		return LeaveResult{}
	}
	room := d.rooms[code]
	delete(d.playerRooms, connID)
	if room == nil {
		return LeaveResult{}
	}

	wasHost := room.HostID == connID
	remaining := room.Players[:0]
	for _, p := range room.Players {
		if p.ID != connID {
			remaining = append(remaining, p)
		}
	}
	room.Players = remaining

	if len(room.Players) == 0 {
		delete(d.rooms, code)
		return LeaveResult{}
	}

	res := LeaveResult{Room: room, HostChanged: wasHost}
	if wasHost {
		newHost := room.Players[0]
		newHost.IsHost = true
		room.HostID = newHost.ID
		res.NewHost = newHost
	}
	return res
}

// GetRoom looks a room up by code.
func (d *Directory) GetRoom(code string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rooms[code]
}

// GetRoomByPlayerID resolves the room a connection currently belongs to.
func (d *Directory) GetRoomByPlayerID(connID string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	code, ok := d.playerRooms[connID]
	if !ok {
		return nil
	}
	return d.rooms[code]
}

// ResetRoom puts a room back into the waiting state, dropping the
// current game and every player's ready flag.
func (d *Directory) ResetRoom(code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	room := d.rooms[code]
	if room == nil {
		return false
	}
	room.GameState = StateWaiting
	room.CurrentGame = nil
	for _, p := range room.Players {
		p.IsReady = false
	}
	return true
}
