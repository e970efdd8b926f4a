// Package game implements the authoritative state machine for one
// Time's Up session: word collection, team assignment, the per-turn
// guessing loop and the three-phase score ledger.
//
// Session methods are plain state transitions with no locking of their
// own; the session store in internal/session serializes access.
package game

import (
	"crypto/rand"
	"encoding/hex"
	mathrand "math/rand"
	"strings"
	"time"

	"github.com/vmercier/timesup-backend/internal/wordpool"
)

// NewSession creates a session in the words status with the host as its
// sole player. rng drives every shuffle the session performs; passing nil
// falls back to a time-seeded source.
func NewSession(hostName string, settings Settings, rng *mathrand.Rand) (*Session, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return nil, ErrEmptyName
	}
	if rng == nil {
		rng = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}

	host := &Player{
		ID:     newID(),
		Name:   hostName,
		Words:  []string{},
		IsHost: true,
	}

	now := time.Now()
	return &Session{
		ID:             newID(),
		HostID:         host.ID,
		Status:         StatusWords,
		Phase:          PhaseSetup,
		CurrentTeam:    TeamA,
		Settings:       settings,
		Players:        []*Player{host},
		WordPool:       []string{},
		RemainingWords: []string{},
		GuessedWords:   []string{},
		Scores:         []PhaseScore{},
		CreatedAt:      now,
		UpdatedAt:      now,
		rng:            rng,
	}, nil
}

// SetRand replaces the session's shuffle source. Used after restoring a
// snapshot, where the source is not part of the persisted record.
func (s *Session) SetRand(rng *mathrand.Rand) {
	if rng == nil {
		rng = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	s.rng = rng
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// UpdateSettings replaces the session settings while words are still
// being collected.
func (s *Session) UpdateSettings(settings Settings) error {
	if s.Status != StatusWords {
		return ErrWrongStatus
	}
	s.Settings = settings
	s.touch()
	return nil
}

// AddPlayer appends a new non-host player with an empty word list.
// Display names are not checked for uniqueness; duplicates are told
// apart by id only.
func (s *Session) AddPlayer(name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if s.Status != StatusWords {
		return nil, ErrWrongStatus
	}

	p := &Player{
		ID:    newID(),
		Name:  name,
		Words: []string{},
	}
	s.Players = append(s.Players, p)
	s.touch()
	return p, nil
}

// RemovePlayer drops a player from the roster. Only allowed before
// active play starts, and never for the host.
func (s *Session) RemovePlayer(playerID string) error {
	if s.Status != StatusWords && s.Status != StatusTeams {
		return ErrWrongStatus
	}
	p := s.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.IsHost {
		return ErrHostNotRemovable
	}

	kept := s.Players[:0]
	for _, q := range s.Players {
		if q.ID != playerID {
			kept = append(kept, q)
		}
	}
	s.Players = kept
	s.touch()
	return nil
}

// AddWord appends a word to one player's list. The same word from two
// different players is fine; both copies end up in the pool.
func (s *Session) AddWord(playerID, word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyWord
	}
	if s.Status != StatusWords {
		return ErrWrongStatus
	}
	p := s.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if len(p.Words) >= s.Settings.WordsPerPlayer {
		return ErrWordLimitReached
	}

	p.Words = append(p.Words, word)
	s.touch()
	return nil
}

// RemoveWord removes the first occurrence of word from that player's list.
func (s *Session) RemoveWord(playerID, word string) error {
	if s.Status != StatusWords {
		return ErrWrongStatus
	}
	p := s.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	for i, w := range p.Words {
		if w == word {
			p.Words = append(p.Words[:i], p.Words[i+1:]...)
			s.touch()
			return nil
		}
	}
	return nil
}

// FinalizePlayerWords marks the player's word list as complete. The game
// flow never unsets the flag.
func (s *Session) FinalizePlayerWords(playerID string) error {
	if s.Status != StatusWords {
		return ErrWrongStatus
	}
	p := s.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if len(p.Words) < s.Settings.WordsPerPlayer {
		return ErrTooFewWords
	}

	p.WordsCompleted = true
	s.touch()
	return nil
}

// GoToTeams locks the word pool as the shuffled concatenation of every
// player's words and moves the session to team assignment. At least
// MinPlayers players, all with completed word lists, are required.
func (s *Session) GoToTeams() error {
	if s.Status != StatusWords {
		return ErrWrongStatus
	}
	if len(s.Players) < MinPlayers {
		return ErrNotEnoughPlayers
	}
	for _, p := range s.Players {
		if !p.WordsCompleted {
			return ErrWordsIncomplete
		}
	}

	var all []string
	for _, p := range s.Players {
		all = append(all, p.Words...)
	}
	pool := wordpool.Shuffle(s.rng, all)

	s.WordPool = pool
	s.RemainingWords = append([]string(nil), pool...)
	s.Status = StatusTeams
	s.touch()
	return nil
}

func (s *Session) AssignTeam(playerID string, team Team) error {
	if s.Status != StatusTeams {
		return ErrWrongStatus
	}
	if !team.Valid() {
		return ErrInvalidTeam
	}
	p := s.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	p.Team = team
	s.touch()
	return nil
}

// RandomizeTeams splits the full roster into two contiguous halves after
// an unbiased shuffle; team A gets the larger half on odd counts.
func (s *Session) RandomizeTeams() error {
	if s.Status != StatusTeams {
		return ErrWrongStatus
	}

	first, second := wordpool.Halves(s.rng, s.Players)
	for _, p := range first {
		p.Team = TeamA
	}
	for _, p := range second {
		p.Team = TeamB
	}
	s.touch()
	return nil
}

// StartGame re-shuffles the pool for the first phase's play order and
// enters playing at phase 1. Every player must be on a team and both
// teams must be non-empty.
func (s *Session) StartGame() error {
	if s.Status != StatusTeams {
		return ErrWrongStatus
	}
	for _, p := range s.Players {
		if !p.Team.Valid() {
			return ErrUnassignedPlayers
		}
	}
	if len(s.TeamPlayers(TeamA)) == 0 || len(s.TeamPlayers(TeamB)) == 0 {
		return ErrEmptyTeam
	}

	s.Status = StatusPlaying
	s.Phase = PhaseDescribe
	s.CurrentTeam = TeamA
	s.RemainingWords = wordpool.Shuffle(s.rng, s.WordPool)
	s.GuessedWords = []string{}
	s.TeamAPlayerIndex = 0
	s.TeamBPlayerIndex = 0
	s.TeamAScore = 0
	s.TeamBScore = 0
	s.Scores = []PhaseScore{}
	s.touch()
	return nil
}

// newID returns an opaque 128-bit hex identifier.
func newID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
