package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return Settings{
		WordsPerPlayer: 3,
		RoundDuration:  30,
		PhaseSettings: map[Phase]PassSettings{
			PhaseDescribe: {Enabled: false},
			PhaseOneWord:  {Enabled: true, TimePenalty: 3},
			PhaseMime:     {Enabled: true, TimePenalty: 5},
		},
	}
}

// newTestSession builds a session with the host plus n-1 extra players,
// each holding a full finalized word list.
func newTestSession(t *testing.T, names ...string) *Session {
	t.Helper()
	require.NotEmpty(t, names)

	s, err := NewSession(names[0], testSettings(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	players := []*Player{s.HostPlayer()}
	for _, name := range names[1:] {
		p, err := s.AddPlayer(name)
		require.NoError(t, err)
		players = append(players, p)
	}
	for _, p := range players {
		for i := 0; i < s.Settings.WordsPerPlayer; i++ {
			require.NoError(t, s.AddWord(p.ID, fmt.Sprintf("%s-%d", p.Name, i)))
		}
		require.NoError(t, s.FinalizePlayerWords(p.ID))
	}
	return s
}

// playingSession moves a four-player session into phase 1 with teams
// A = {host, second}, B = {third, fourth}.
func playingSession(t *testing.T) *Session {
	t.Helper()

	s := newTestSession(t, "Alice", "Bob", "Charlie", "David")
	require.NoError(t, s.GoToTeams())
	for i, p := range s.Players {
		team := TeamA
		if i >= 2 {
			team = TeamB
		}
		require.NoError(t, s.AssignTeam(p.ID, team))
	}
	require.NoError(t, s.StartGame())
	return s
}

func TestNewSession(t *testing.T) {
	s, err := NewSession("Alice", testSettings(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, StatusWords, s.Status)
	assert.Equal(t, PhaseSetup, s.Phase)
	assert.Equal(t, TeamA, s.CurrentTeam)
	require.Len(t, s.Players, 1)
	assert.True(t, s.Players[0].IsHost)
	assert.Equal(t, s.HostID, s.Players[0].ID)
}

func TestNewSession_EmptyHostName(t *testing.T) {
	_, err := NewSession("  ", testSettings(), nil)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestAddPlayer(t *testing.T) {
	s, _ := NewSession("Alice", testSettings(), rand.New(rand.NewSource(1)))

	p, err := s.AddPlayer("Bob")
	require.NoError(t, err)
	assert.False(t, p.IsHost)
	assert.Empty(t, p.Words)
	assert.Len(t, s.Players, 2)

	// duplicate display names are allowed, told apart by id
	q, err := s.AddPlayer("Bob")
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, q.ID)

	_, err = s.AddPlayer("")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestWordEntry(t *testing.T) {
	s, _ := NewSession("Alice", testSettings(), rand.New(rand.NewSource(1)))
	host := s.HostPlayer()

	require.NoError(t, s.AddWord(host.ID, " chapeau "))
	assert.Equal(t, []string{"chapeau"}, host.Words)

	// the same word twice for one player is the store's business to allow
	require.NoError(t, s.AddWord(host.ID, "chapeau"))
	assert.Equal(t, []string{"chapeau", "chapeau"}, host.Words)

	assert.ErrorIs(t, s.AddWord(host.ID, "   "), ErrEmptyWord)
	assert.ErrorIs(t, s.AddWord("nope", "x"), ErrPlayerNotFound)

	require.NoError(t, s.AddWord(host.ID, "fromage"))
	assert.ErrorIs(t, s.AddWord(host.ID, "trop"), ErrWordLimitReached)

	// RemoveWord drops only the first occurrence
	require.NoError(t, s.RemoveWord(host.ID, "chapeau"))
	assert.Equal(t, []string{"chapeau", "fromage"}, host.Words)

	// removing an absent word is not an error
	require.NoError(t, s.RemoveWord(host.ID, "absent"))
}

func TestFinalizePlayerWords(t *testing.T) {
	s, _ := NewSession("Alice", testSettings(), rand.New(rand.NewSource(1)))
	host := s.HostPlayer()

	require.NoError(t, s.AddWord(host.ID, "un"))
	assert.ErrorIs(t, s.FinalizePlayerWords(host.ID), ErrTooFewWords)
	assert.False(t, host.WordsCompleted)

	require.NoError(t, s.AddWord(host.ID, "deux"))
	require.NoError(t, s.AddWord(host.ID, "trois"))
	require.NoError(t, s.FinalizePlayerWords(host.ID))
	assert.True(t, host.WordsCompleted)
}

func TestGoToTeams_MinimumPlayerGate(t *testing.T) {
	// three fully finished players must not be allowed to proceed
	s := newTestSession(t, "Alice", "Bob", "Charlie")
	assert.ErrorIs(t, s.GoToTeams(), ErrNotEnoughPlayers)
	assert.Equal(t, StatusWords, s.Status)
}

func TestGoToTeams_IncompleteWordsGate(t *testing.T) {
	s := newTestSession(t, "Alice", "Bob", "Charlie", "David")
	_, err := s.AddPlayer("Eve")
	require.NoError(t, err)

	assert.ErrorIs(t, s.GoToTeams(), ErrWordsIncomplete)
	assert.Equal(t, StatusWords, s.Status)
}

func TestGoToTeams_PoolIsUnionOfAllWords(t *testing.T) {
	s := newTestSession(t, "Alice", "Bob", "Charlie", "David")
	require.NoError(t, s.GoToTeams())

	assert.Equal(t, StatusTeams, s.Status)
	require.Len(t, s.WordPool, 12)
	assert.Equal(t, len(s.WordPool), len(s.RemainingWords))

	var all []string
	for _, p := range s.Players {
		all = append(all, p.Words...)
	}
	assert.ElementsMatch(t, all, s.WordPool)
	assert.ElementsMatch(t, s.WordPool, s.RemainingWords)
}

func TestRandomizeTeams(t *testing.T) {
	s := newTestSession(t, "Alice", "Bob", "Charlie", "David", "Eve")
	require.NoError(t, s.GoToTeams())
	require.NoError(t, s.RandomizeTeams())

	a := s.TeamPlayers(TeamA)
	b := s.TeamPlayers(TeamB)
	assert.Len(t, a, 3) // ceil(5/2)
	assert.Len(t, b, 2)
	for _, p := range s.Players {
		assert.True(t, p.Team.Valid())
	}
}

func TestStartGame_RequiresFullAssignment(t *testing.T) {
	s := newTestSession(t, "Alice", "Bob", "Charlie", "David")
	require.NoError(t, s.GoToTeams())

	assert.ErrorIs(t, s.StartGame(), ErrUnassignedPlayers)

	for _, p := range s.Players {
		require.NoError(t, s.AssignTeam(p.ID, TeamA))
	}
	assert.ErrorIs(t, s.StartGame(), ErrEmptyTeam)
}

func TestStartGame(t *testing.T) {
	s := playingSession(t)

	assert.Equal(t, StatusPlaying, s.Status)
	assert.Equal(t, PhaseDescribe, s.Phase)
	assert.Equal(t, TeamA, s.CurrentTeam)
	assert.Len(t, s.RemainingWords, 12)
	assert.Empty(t, s.GuessedWords)
	assert.Zero(t, s.TeamAScore)
	assert.Zero(t, s.TeamBScore)
	assert.ElementsMatch(t, s.WordPool, s.RemainingWords)
}

func TestRemovePlayer(t *testing.T) {
	s := newTestSession(t, "Alice", "Bob", "Charlie", "David")
	bob := s.Players[1]

	require.NoError(t, s.RemovePlayer(bob.ID))
	assert.Len(t, s.Players, 3)
	assert.Nil(t, s.Player(bob.ID))

	assert.ErrorIs(t, s.RemovePlayer(s.HostID), ErrHostNotRemovable)
	assert.ErrorIs(t, s.RemovePlayer("missing"), ErrPlayerNotFound)
}

// End-to-end: four players, three words each, play phase 1 to exhaustion.
func TestFullFirstPhaseScenario(t *testing.T) {
	s := playingSession(t)
	require.Len(t, s.RemainingWords, 12)

	for len(s.RemainingWords) > 0 {
		s.StartTurn()
		require.NotNil(t, s.CurrentTurn)
		_, more := s.MarkCorrect()
		if !more {
			require.Empty(t, s.RemainingWords)
		}
		s.EndTurn()
	}

	total := s.TeamAScore + s.TeamBScore
	assert.Equal(t, 12, total)

	s.NextPhase()
	require.Len(t, s.Scores, 1)
	assert.Equal(t, 12, s.Scores[0].TeamA+s.Scores[0].TeamB)
	assert.Equal(t, PhaseOneWord, s.Phase)
	assert.Equal(t, StatusPhaseSummary, s.Status)
	assert.Zero(t, s.TeamAScore)
	assert.Zero(t, s.TeamBScore)
}
