package game

import "github.com/vmercier/timesup-backend/internal/wordpool"

// NextPhase snapshots the running team scores into the ledger and either
// ends the game after the last phase or resets the board for the next
// one: fresh shuffle of the full pool, scores and rotation indices back
// to zero, team A up first. Called outside active play it is a no-op.
func (s *Session) NextPhase() {
	if s.Status != StatusPlaying {
		return
	}

	s.Scores = append(s.Scores, PhaseScore{
		Phase: s.Phase,
		TeamA: s.TeamAScore,
		TeamB: s.TeamBScore,
	})

	if s.Phase+1 > MaxPhase {
		s.Status = StatusGameOver
		s.CurrentTurn = nil
		s.touch()
		return
	}

	s.Phase++
	s.Status = StatusPhaseSummary
	s.RemainingWords = wordpool.Shuffle(s.rng, s.WordPool)
	s.GuessedWords = []string{}
	s.CurrentTeam = TeamA
	s.TeamAPlayerIndex = 0
	s.TeamBPlayerIndex = 0
	s.TeamAScore = 0
	s.TeamBScore = 0
	s.CurrentTurn = nil
	s.touch()
}

// ResumePlay leaves the phase summary screen and resumes the guessing
// loop for the phase set up by NextPhase.
func (s *Session) ResumePlay() error {
	if s.Status != StatusPhaseSummary {
		return ErrWrongStatus
	}
	s.Status = StatusPlaying
	s.touch()
	return nil
}

// TotalScores sums the phase ledger per team. During play the current
// phase's running scores are not included; they only count once folded
// in by NextPhase.
func (s *Session) TotalScores() (teamA, teamB int) {
	for _, sc := range s.Scores {
		teamA += sc.TeamA
		teamB += sc.TeamB
	}
	return teamA, teamB
}
