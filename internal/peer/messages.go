// Package peer implements the host-authoritative synchronization
// protocol between one host session and its remote participants: a
// closed tagged message union carried over a reliable, ordered,
// message-boundary-preserving transport.
package peer

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownType = errors.New("unknown message type")

type Kind string

const (
	KindPlayerJoin      Kind = "player-join"
	KindPlayerConfirmed Kind = "player-confirmed"
	KindWordAdd         Kind = "word-add"
	KindWordRemove      Kind = "word-remove"
	KindWordsComplete   Kind = "words-complete"
	KindSyncPlayers     Kind = "sync-players"
	KindGameStarted     Kind = "game-started"
	KindError           Kind = "error"
)

// Message is the closed union of protocol messages. Dispatch sites
// switch exhaustively over the concrete types; anything not in this set
// never makes it past Decode.
type Message interface{ kind() Kind }

// PlayerJoin announces a remote participant. It must be the first
// message on a connection.
type PlayerJoin struct {
	Name   string
	PeerID string
}

// PlayerConfirmed carries the player id the host assigned to a joiner.
type PlayerConfirmed struct {
	PlayerID string
}

type WordAdd struct {
	Word string
}

type WordRemove struct {
	Word string
}

// WordsComplete submits the remote's final word list. The host
// overwrites its copy with this list; nothing is merged.
type WordsComplete struct {
	Words []string
}

// RosterEntry is the per-player slice of state shared with remotes.
// Words themselves stay secret; only the count travels.
type RosterEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	WordsCompleted bool   `json:"wordsCompleted"`
	WordCount      int    `json:"wordCount"`
}

// SyncPlayers is an informational roster broadcast. Remotes use it for
// display only; correctness never depends on it.
type SyncPlayers struct {
	Players []RosterEntry
}

// GameStarted tells remotes the host has moved on to gameplay.
type GameStarted struct{}

// ErrorMessage reports a rejected join or protocol fault to a remote.
type ErrorMessage struct {
	Message string
}

func (PlayerJoin) kind() Kind      { return KindPlayerJoin }
func (PlayerConfirmed) kind() Kind { return KindPlayerConfirmed }
func (WordAdd) kind() Kind         { return KindWordAdd }
func (WordRemove) kind() Kind      { return KindWordRemove }
func (WordsComplete) kind() Kind   { return KindWordsComplete }
func (SyncPlayers) kind() Kind     { return KindSyncPlayers }
func (GameStarted) kind() Kind     { return KindGameStarted }
func (ErrorMessage) kind() Kind    { return KindError }

// wire is the flat JSON envelope shared by every message kind.
type wire struct {
	Type     Kind          `json:"type"`
	Name     string        `json:"name,omitempty"`
	PeerID   string        `json:"peerId,omitempty"`
	PlayerID string        `json:"playerId,omitempty"`
	Word     string        `json:"word,omitempty"`
	Words    []string      `json:"words,omitempty"`
	Players  []RosterEntry `json:"players,omitempty"`
	Message  string        `json:"message,omitempty"`
}

func Encode(msg Message) ([]byte, error) {
	w := wire{Type: msg.kind()}
	switch m := msg.(type) {
	case PlayerJoin:
		w.Name, w.PeerID = m.Name, m.PeerID
	case PlayerConfirmed:
		w.PlayerID = m.PlayerID
	case WordAdd:
		w.Word = m.Word
	case WordRemove:
		w.Word = m.Word
	case WordsComplete:
		w.Words = m.Words
	case SyncPlayers:
		w.Players = m.Players
	case GameStarted:
	case ErrorMessage:
		w.Message = m.Message
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, msg)
	}
	return json.Marshal(w)
}

// Decode parses one protocol message. An unrecognized tag is a protocol
// error, never silently ignored.
func Decode(data []byte) (Message, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	switch w.Type {
	case KindPlayerJoin:
		return PlayerJoin{Name: w.Name, PeerID: w.PeerID}, nil
	case KindPlayerConfirmed:
		return PlayerConfirmed{PlayerID: w.PlayerID}, nil
	case KindWordAdd:
		return WordAdd{Word: w.Word}, nil
	case KindWordRemove:
		return WordRemove{Word: w.Word}, nil
	case KindWordsComplete:
		return WordsComplete{Words: w.Words}, nil
	case KindSyncPlayers:
		return SyncPlayers{Players: w.Players}, nil
	case KindGameStarted:
		return GameStarted{}, nil
	case KindError:
		return ErrorMessage{Message: w.Message}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, w.Type)
	}
}
