// Package snapshot persists full session snapshots so a restarted
// process can pick a game back up. Every store mutation writes the whole
// record through; there is no incremental persistence.
package snapshot

import "github.com/vmercier/timesup-backend/internal/game"

// Record is the persisted tuple. Reload must restore exactly this or
// fall back to no session at all.
type Record struct {
	Session           *game.Session `json:"session"`
	CurrentPlayerID   string        `json:"currentPlayerId"`
	IsMultiplayerHost bool          `json:"isMultiplayerHost"`
	HostPeerID        string        `json:"hostPeerId"`
}

type Store interface {
	Save(code string, rec Record) error
	// Load returns ok=false when no snapshot exists for the code.
	Load(code string) (rec Record, ok bool, err error)
	Delete(code string) error
}
