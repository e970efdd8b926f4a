package game

import "time"

// StartTurn opens a timed turn for the current team's next player in
// rotation. Starting while another turn is active is a silent no-op, as
// is starting outside of active play.
func (s *Session) StartTurn() {
	if s.Status != StatusPlaying || s.CurrentTurn != nil {
		return
	}

	active := s.ActivePlayer()
	if active == nil {
		return
	}

	s.CurrentTurn = &Turn{
		Team:           s.CurrentTeam,
		ActivePlayerID: active.ID,
		StartTime:      time.Now(),
		FoundWords:     []string{},
		SkippedWords:   []string{},
	}
	s.touch()
}

// MarkCorrect scores the head of the remaining queue for the active
// team. It returns the new head word and whether any words remain; when
// the queue empties the caller must end the turn and move to phase
// completion instead of waiting out the timer. With no active turn or an
// already-empty queue this is a no-op returning ("", false).
func (s *Session) MarkCorrect() (next string, more bool) {
	if s.CurrentTurn == nil || len(s.RemainingWords) == 0 {
		return "", false
	}

	word := s.RemainingWords[0]
	s.RemainingWords = s.RemainingWords[1:]
	s.GuessedWords = append(s.GuessedWords, word)

	if s.CurrentTeam == TeamA {
		s.TeamAScore++
	} else {
		s.TeamBScore++
	}
	s.CurrentTurn.CorrectCount++
	s.CurrentTurn.FoundWords = append(s.CurrentTurn.FoundWords, word)
	s.touch()

	if len(s.RemainingWords) == 0 {
		return "", false
	}
	return s.RemainingWords[0], true
}

// SkipWord rotates the head of the queue to its tail and records the
// skip on the turn, charging the phase's time penalty. The word is moved,
// never lost. Returns the new head word, or ErrSkipDisabled when the
// current phase forbids skipping.
func (s *Session) SkipWord() (string, error) {
	if s.CurrentTurn == nil || len(s.RemainingWords) == 0 {
		return "", nil
	}
	pass := s.Settings.PhaseSettings[s.Phase]
	if !pass.Enabled {
		return "", ErrSkipDisabled
	}

	word := s.RemainingWords[0]
	s.RemainingWords = append(s.RemainingWords[1:], word)
	s.CurrentTurn.SkippedWords = append(s.CurrentTurn.SkippedWords, word)
	s.CurrentTurn.AccumulatedPenalty += pass.TimePenalty
	s.touch()

	return s.RemainingWords[0], nil
}

// EndTurn hands play to the opposite team and advances the rotation
// index of the team that just played. Indices are never reduced; wrapping
// happens at read time via modulo. The finished turn is kept as LastTurn
// for the surrounding review screen.
func (s *Session) EndTurn() {
	if s.CurrentTurn == nil {
		return
	}

	if s.CurrentTeam == TeamA {
		s.TeamAPlayerIndex++
	} else {
		s.TeamBPlayerIndex++
	}
	s.CurrentTeam = s.CurrentTeam.Opposite()
	s.LastTurn = s.CurrentTurn
	s.CurrentTurn = nil
	s.touch()
}
