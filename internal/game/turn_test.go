package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTurn_PicksRotationPlayer(t *testing.T) {
	s := playingSession(t)

	s.StartTurn()
	require.NotNil(t, s.CurrentTurn)
	assert.Equal(t, TeamA, s.CurrentTurn.Team)
	assert.Equal(t, s.TeamPlayers(TeamA)[0].ID, s.CurrentTurn.ActivePlayerID)
	assert.Zero(t, s.CurrentTurn.CorrectCount)
	assert.False(t, s.CurrentTurn.StartTime.IsZero())

	// starting again while a turn is active is a silent no-op
	before := s.CurrentTurn
	s.StartTurn()
	assert.Same(t, before, s.CurrentTurn)
}

func TestMarkCorrect_ScoresAndAdvancesQueue(t *testing.T) {
	s := playingSession(t)
	s.StartTurn()

	head := s.RemainingWords[0]
	second := s.RemainingWords[1]

	next, more := s.MarkCorrect()
	assert.True(t, more)
	assert.Equal(t, second, next)
	assert.Equal(t, []string{head}, s.GuessedWords)
	assert.Equal(t, 1, s.TeamAScore)
	assert.Zero(t, s.TeamBScore)
	assert.Equal(t, 1, s.CurrentTurn.CorrectCount)
	assert.Equal(t, []string{head}, s.CurrentTurn.FoundWords)
}

func TestMarkCorrect_NoTurnIsNoOp(t *testing.T) {
	s := playingSession(t)

	next, more := s.MarkCorrect()
	assert.Empty(t, next)
	assert.False(t, more)
	assert.Len(t, s.RemainingWords, 12)
	assert.Zero(t, s.TeamAScore)
}

func TestMarkCorrect_EmptiesQueue(t *testing.T) {
	s := playingSession(t)
	s.StartTurn()

	var more = true
	for more {
		_, more = s.MarkCorrect()
	}
	assert.Empty(t, s.RemainingWords)
	assert.Len(t, s.GuessedWords, 12)

	// further calls change nothing
	_, more = s.MarkCorrect()
	assert.False(t, more)
	assert.Len(t, s.GuessedWords, 12)
	assert.Equal(t, 12, s.TeamAScore)
}

// Word pool conservation: |remaining| + |guessed| = |pool| after every
// correct/skip, and skip never loses a word from the multiset.
func TestWordPoolConservation(t *testing.T) {
	s := playingSession(t)
	s.Phase = PhaseOneWord // skipping allowed
	s.StartTurn()

	for i := 0; len(s.RemainingWords) > 0; i++ {
		if i%3 == 0 {
			_, err := s.SkipWord()
			require.NoError(t, err)
		} else {
			s.MarkCorrect()
		}
		assert.Equal(t, len(s.WordPool), len(s.RemainingWords)+len(s.GuessedWords))

		combined := append(append([]string{}, s.RemainingWords...), s.GuessedWords...)
		assert.ElementsMatch(t, s.WordPool, combined)
	}
}

func TestSkipWord_IsARotation(t *testing.T) {
	s := playingSession(t)
	s.Phase = PhaseOneWord
	s.RemainingWords = []string{"W", "X", "Y"}
	s.StartTurn()

	next, err := s.SkipWord()
	require.NoError(t, err)
	assert.Equal(t, "X", next)
	assert.Equal(t, []string{"X", "Y", "W"}, s.RemainingWords)
	assert.Equal(t, []string{"W"}, s.CurrentTurn.SkippedWords)
}

func TestSkipWord_SameWordTwiceRecordsTwice(t *testing.T) {
	s := playingSession(t)
	s.Phase = PhaseOneWord
	s.RemainingWords = []string{"W", "X"}
	s.StartTurn()

	_, err := s.SkipWord() // [X, W]
	require.NoError(t, err)
	_, err = s.SkipWord() // [W, X]
	require.NoError(t, err)
	_, err = s.SkipWord() // [X, W]
	require.NoError(t, err)

	assert.Equal(t, []string{"W", "X", "W"}, s.CurrentTurn.SkippedWords)
	assert.Equal(t, []string{"X", "W"}, s.RemainingWords)
}

func TestSkipWord_DisabledPhase(t *testing.T) {
	s := playingSession(t) // phase 1: skipping disabled
	s.StartTurn()

	before := append([]string{}, s.RemainingWords...)
	_, err := s.SkipWord()
	assert.ErrorIs(t, err, ErrSkipDisabled)
	assert.Equal(t, before, s.RemainingWords)
	assert.Empty(t, s.CurrentTurn.SkippedWords)
}

func TestSkipWord_AccumulatesPenalty(t *testing.T) {
	s := playingSession(t)
	s.Phase = PhaseMime // penalty 5
	s.StartTurn()

	_, err := s.SkipWord()
	require.NoError(t, err)
	_, err = s.SkipWord()
	require.NoError(t, err)
	assert.Equal(t, 10, s.CurrentTurn.AccumulatedPenalty)
}

func TestSkipWord_NoTurnIsNoOp(t *testing.T) {
	s := playingSession(t)
	s.Phase = PhaseOneWord

	next, err := s.SkipWord()
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.Len(t, s.RemainingWords, 12)
}

func TestEndTurn_RotationAlternation(t *testing.T) {
	s := playingSession(t)

	for i := 1; i <= 5; i++ {
		prevTeam := s.CurrentTeam
		prevA, prevB := s.TeamAPlayerIndex, s.TeamBPlayerIndex

		s.StartTurn()
		s.EndTurn()

		assert.Equal(t, prevTeam.Opposite(), s.CurrentTeam)
		if prevTeam == TeamA {
			assert.Equal(t, prevA+1, s.TeamAPlayerIndex)
			assert.Equal(t, prevB, s.TeamBPlayerIndex)
		} else {
			assert.Equal(t, prevA, s.TeamAPlayerIndex)
			assert.Equal(t, prevB+1, s.TeamBPlayerIndex)
		}
		assert.Nil(t, s.CurrentTurn)
	}
}

func TestEndTurn_FoldsLastTurn(t *testing.T) {
	s := playingSession(t)
	s.StartTurn()
	s.MarkCorrect()
	turn := s.CurrentTurn

	s.EndTurn()
	assert.Nil(t, s.CurrentTurn)
	require.NotNil(t, s.LastTurn)
	assert.Same(t, turn, s.LastTurn)
	assert.Equal(t, 1, s.LastTurn.CorrectCount)

	// ending again with no active turn changes nothing
	prevTeam := s.CurrentTeam
	s.EndTurn()
	assert.Equal(t, prevTeam, s.CurrentTeam)
}

// Indices exceed team size and wrap only at read time.
func TestRotationIndexWrapsAtReadTime(t *testing.T) {
	s := playingSession(t)
	teamA := s.TeamPlayers(TeamA)
	require.Len(t, teamA, 2)

	for i := 0; i < 6; i++ {
		s.StartTurn()
		s.EndTurn()
	}
	assert.Equal(t, 3, s.TeamAPlayerIndex)
	assert.Equal(t, 3, s.TeamBPlayerIndex)

	// index 3 mod 2 = 1: second player is up again for team A
	assert.Equal(t, teamA[1].ID, s.ActivePlayer().ID)
}
