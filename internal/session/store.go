// Package session wraps the game state machine in a single-writer
// command surface. Every mutation runs to completion under one lock and
// is followed by a full snapshot write-through, so a restarted process
// can restore the session exactly.
package session

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vmercier/timesup-backend/internal/game"
	"github.com/vmercier/timesup-backend/internal/snapshot"
)

var ErrNoSession = errors.New("no active session")
var ErrSessionExists = errors.New("session already created; reset first")

type Store struct {
	mu sync.Mutex

	code string
	sess *game.Session

	// Which local player is currently entering words on the host device.
	currentPlayerID string

	isMultiplayerHost bool
	hostPeerID        string

	rng   *rand.Rand
	snaps snapshot.Store
	log   *zap.Logger
}

func New(code string, snaps snapshot.Store, log *zap.Logger) *Store {
	return &Store{
		code:  code,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		snaps: snaps,
		log:   log.Named("session").With(zap.String("code", code)),
	}
}

// Restore rebuilds a store from a persisted snapshot record.
func Restore(code string, rec snapshot.Record, snaps snapshot.Store, log *zap.Logger) *Store {
	st := New(code, snaps, log)
	st.sess = rec.Session
	st.currentPlayerID = rec.CurrentPlayerID
	st.isMultiplayerHost = rec.IsMultiplayerHost
	st.hostPeerID = rec.HostPeerID
	if st.sess != nil {
		st.sess.SetRand(st.rng)
	}
	return st
}

func (st *Store) Code() string { return st.code }

// persist writes the current snapshot through. A failed write is logged
// but does not fail the command; the snapshot is a recovery aid, not
// part of the session's correctness.
func (st *Store) persist() {
	rec := snapshot.Record{
		Session:           st.sess,
		CurrentPlayerID:   st.currentPlayerID,
		IsMultiplayerHost: st.isMultiplayerHost,
		HostPeerID:        st.hostPeerID,
	}
	if err := st.snaps.Save(st.code, rec); err != nil {
		st.log.Warn("snapshot write failed", zap.Error(err))
	}
}

// CreateSession starts a new session with the given host. Calling it
// again without a reset is rejected, leaving the existing session alone.
func (st *Store) CreateSession(hostName string, settings game.Settings) (*game.Player, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.sess != nil {
		return nil, ErrSessionExists
	}

	sess, err := game.NewSession(hostName, settings, st.rng)
	if err != nil {
		return nil, err
	}
	st.sess = sess
	st.currentPlayerID = sess.HostID
	st.persist()
	st.log.Info("session created", zap.String("host", hostName))

	host := sess.HostPlayer()
	cp := *host
	return &cp, nil
}

// Reset discards the session and its snapshot.
func (st *Store) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sess = nil
	st.currentPlayerID = ""
	st.isMultiplayerHost = false
	st.hostPeerID = ""
	if err := st.snaps.Delete(st.code); err != nil {
		st.log.Warn("snapshot delete failed", zap.Error(err))
	}
	st.log.Info("session reset")
}

// EnableMultiplayer marks this session as accepting remote joins under
// the given peer address.
func (st *Store) EnableMultiplayer(peerID string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.isMultiplayerHost = true
	st.hostPeerID = peerID
	st.persist()
}

func (st *Store) DisableMultiplayer() {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.isMultiplayerHost = false
	st.hostPeerID = ""
	st.persist()
}

// SetCurrentPlayer tracks which local player is entering words.
func (st *Store) SetCurrentPlayer(playerID string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.currentPlayerID = playerID
	st.persist()
}

// View returns a deep copy of the session, or nil when none exists.
func (st *Store) View() *game.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.sess == nil {
		return nil
	}
	return st.sess.Clone()
}

// Multiplayer reports the multiplayer flags alongside the tracked local
// player, mirroring the persisted record.
func (st *Store) Multiplayer() (isHost bool, hostPeerID, currentPlayerID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.isMultiplayerHost, st.hostPeerID, st.currentPlayerID
}

// mutate runs fn against the live session under the lock and persists
// on success.
func (st *Store) mutate(fn func(*game.Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.sess == nil {
		return ErrNoSession
	}
	if err := fn(st.sess); err != nil {
		return err
	}
	st.persist()
	return nil
}

func (st *Store) UpdateSettings(settings game.Settings) error {
	return st.mutate(func(s *game.Session) error { return s.UpdateSettings(settings) })
}

func (st *Store) AddPlayer(name string) (*game.Player, error) {
	var added game.Player
	err := st.mutate(func(s *game.Session) error {
		p, err := s.AddPlayer(name)
		if err != nil {
			return err
		}
		added = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (st *Store) RemovePlayer(playerID string) error {
	return st.mutate(func(s *game.Session) error { return s.RemovePlayer(playerID) })
}

func (st *Store) AddWord(playerID, word string) error {
	return st.mutate(func(s *game.Session) error { return s.AddWord(playerID, word) })
}

func (st *Store) RemoveWord(playerID, word string) error {
	return st.mutate(func(s *game.Session) error { return s.RemoveWord(playerID, word) })
}

func (st *Store) FinalizePlayerWords(playerID string) error {
	return st.mutate(func(s *game.Session) error { return s.FinalizePlayerWords(playerID) })
}

func (st *Store) GoToTeams() error {
	return st.mutate(func(s *game.Session) error { return s.GoToTeams() })
}

func (st *Store) AssignTeam(playerID string, team game.Team) error {
	return st.mutate(func(s *game.Session) error { return s.AssignTeam(playerID, team) })
}

func (st *Store) RandomizeTeams() error {
	return st.mutate(func(s *game.Session) error { return s.RandomizeTeams() })
}

func (st *Store) StartGame() error {
	err := st.mutate(func(s *game.Session) error { return s.StartGame() })
	if err == nil {
		st.log.Info("game started")
	}
	return err
}

func (st *Store) StartTurn() error {
	return st.mutate(func(s *game.Session) error {
		s.StartTurn()
		return nil
	})
}

// MarkCorrect scores the current word. more=false signals either an
// exhausted queue (the caller must end the turn and complete the phase)
// or a no-op with no active turn.
func (st *Store) MarkCorrect() (next string, more bool, err error) {
	err = st.mutate(func(s *game.Session) error {
		next, more = s.MarkCorrect()
		return nil
	})
	return next, more, err
}

func (st *Store) SkipWord() (next string, err error) {
	mErr := st.mutate(func(s *game.Session) error {
		var skipErr error
		next, skipErr = s.SkipWord()
		return skipErr
	})
	return next, mErr
}

func (st *Store) EndTurn() error {
	return st.mutate(func(s *game.Session) error {
		s.EndTurn()
		return nil
	})
}

func (st *Store) NextPhase() error {
	return st.mutate(func(s *game.Session) error {
		s.NextPhase()
		return nil
	})
}

func (st *Store) ResumePlay() error {
	return st.mutate(func(s *game.Session) error { return s.ResumePlay() })
}

// Remote-player commands, driven by the peer layer.

func (st *Store) AddRemotePlayer(name, peerID string) (*game.Player, error) {
	var added game.Player
	err := st.mutate(func(s *game.Session) error {
		p, err := s.AddRemotePlayer(name, peerID)
		if err != nil {
			return err
		}
		added = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	st.log.Info("remote player joined", zap.String("name", added.Name), zap.String("peer", peerID))
	return &added, nil
}

// AddRemoteWord appends one word for the peer's player. The remote's
// list is advisory until words-complete overwrites it, so per-player
// limits are not enforced here.
func (st *Store) AddRemoteWord(peerID, word string) error {
	return st.mutate(func(s *game.Session) error {
		p := s.RemotePlayer(peerID)
		if p == nil {
			return game.ErrPlayerNotFound
		}
		return s.UpdateRemotePlayerWords(peerID, append(append([]string(nil), p.Words...), word))
	})
}

func (st *Store) RemoveRemoteWord(peerID, word string) error {
	return st.mutate(func(s *game.Session) error {
		p := s.RemotePlayer(peerID)
		if p == nil {
			return game.ErrPlayerNotFound
		}
		words := make([]string, 0, len(p.Words))
		removed := false
		for _, w := range p.Words {
			if !removed && w == word {
				removed = true
				continue
			}
			words = append(words, w)
		}
		return s.UpdateRemotePlayerWords(peerID, words)
	})
}

func (st *Store) FinalizeRemotePlayerWords(peerID string, words []string) error {
	return st.mutate(func(s *game.Session) error { return s.FinalizeRemotePlayerWords(peerID, words) })
}

// DropRemotePlayer removes the peer's player after a lost connection,
// but only while their words are still incomplete. A completed player
// keeps their submitted words; the connection no longer matters.
func (st *Store) DropRemotePlayer(peerID string) (removed bool, err error) {
	err = st.mutate(func(s *game.Session) error {
		p := s.RemotePlayer(peerID)
		if p == nil || p.WordsCompleted {
			return nil
		}
		if err := s.RemoveRemotePlayer(peerID); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if removed {
		st.log.Info("remote player dropped before completing words", zap.String("peer", peerID))
	}
	return removed, err
}
