package game

import (
	"math/rand"
	"time"
)

type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

func (t Team) Opposite() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

type Status string

const (
	StatusWords        Status = "words"
	StatusTeams        Status = "teams"
	StatusPlaying      Status = "playing"
	StatusPhaseSummary Status = "phase-summary"
	StatusGameOver     Status = "game-over"
)

// Phase 0 is the setup sentinel; phases 1-3 are the guessing rounds
// (free description, one-word clue, mime).
type Phase int

const (
	PhaseSetup    Phase = 0
	PhaseDescribe Phase = 1
	PhaseOneWord  Phase = 2
	PhaseMime     Phase = 3

	MaxPhase = PhaseMime
)

// PassSettings controls whether the active player may skip the current
// word during a given phase, and at what cost in timer seconds.
type PassSettings struct {
	Enabled     bool `json:"enabled"`
	TimePenalty int  `json:"timePenalty"`
}

type Settings struct {
	WordsPerPlayer int                    `json:"wordsPerPlayer"`
	RoundDuration  int                    `json:"roundDuration"` // seconds
	PhaseSettings  map[Phase]PassSettings `json:"phaseSettings"`
}

func DefaultSettings() Settings {
	return Settings{
		WordsPerPlayer: 5,
		RoundDuration:  60,
		PhaseSettings: map[Phase]PassSettings{
			PhaseDescribe: {Enabled: false},
			PhaseOneWord:  {Enabled: true, TimePenalty: 3},
			PhaseMime:     {Enabled: true, TimePenalty: 5},
		},
	}
}

type Player struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Team           Team     `json:"team,omitempty"` // empty until assigned
	Words          []string `json:"words"`
	IsHost         bool     `json:"isHost"`
	WordsCompleted bool     `json:"wordsCompleted"`
	IsRemote       bool     `json:"isRemote,omitempty"`
	PeerID         string   `json:"peerId,omitempty"`
}

// Turn is one player's timed attempt. SkippedWords may contain the same
// word more than once if it comes back around and is skipped again.
type Turn struct {
	Team               Team      `json:"teamId"`
	ActivePlayerID     string    `json:"activePlayerId"`
	StartTime          time.Time `json:"startTime"`
	CorrectCount       int       `json:"correctCount"`
	FoundWords         []string  `json:"foundWords"`
	SkippedWords       []string  `json:"skippedWords"`
	AccumulatedPenalty int       `json:"accumulatedPenalty"` // seconds
}

// PhaseScore is an immutable ledger entry appended once per completed phase.
type PhaseScore struct {
	Phase Phase `json:"phase"`
	TeamA int   `json:"teamA"`
	TeamB int   `json:"teamB"`
}

type Session struct {
	ID          string   `json:"id"`
	HostID      string   `json:"hostId"`
	Status      Status   `json:"status"`
	Phase       Phase    `json:"phase"`
	CurrentTeam Team     `json:"currentTeam"`
	Settings    Settings `json:"settings"`

	Players []*Player `json:"players"`

	// WordPool is locked once at GoToTeams and replayed fresh each phase.
	WordPool       []string `json:"wordPool"`
	RemainingWords []string `json:"remainingWords"`
	GuessedWords   []string `json:"guessedWords"`

	CurrentTurn *Turn `json:"currentTurn,omitempty"`
	LastTurn    *Turn `json:"lastTurn,omitempty"`

	Scores []PhaseScore `json:"scores"`

	// Rotation indices only ever increase; the active player is always
	// resolved as index mod team size at read time.
	TeamAPlayerIndex int `json:"teamAPlayerIndex"`
	TeamBPlayerIndex int `json:"teamBPlayerIndex"`

	// Running scores for the current phase only.
	TeamAScore int `json:"teamAScore"`
	TeamBScore int `json:"teamBScore"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// rng drives shuffles; not part of the persisted snapshot.
	rng *rand.Rand
}
