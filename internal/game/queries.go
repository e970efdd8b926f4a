package game

// Player returns the player with the given id, or nil.
func (s *Session) Player(playerID string) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// RemotePlayer returns the player owned by the given peer, or nil.
func (s *Session) RemotePlayer(peerID string) *Player {
	for _, p := range s.Players {
		if p.IsRemote && p.PeerID == peerID {
			return p
		}
	}
	return nil
}

// TeamPlayers returns the members of a team in roster order.
func (s *Session) TeamPlayers(team Team) []*Player {
	var out []*Player
	for _, p := range s.Players {
		if p.Team == team {
			out = append(out, p)
		}
	}
	return out
}

// ActivePlayer resolves the player currently (or next) on the clock for
// the current team. The rotation index is taken modulo team size here,
// at read time, never at increment time.
func (s *Session) ActivePlayer() *Player {
	if s.CurrentTurn != nil {
		return s.Player(s.CurrentTurn.ActivePlayerID)
	}
	return s.playerInRotation(s.CurrentTeam)
}

// NextPlayer resolves who plays for the opposite team once the current
// turn ends.
func (s *Session) NextPlayer() *Player {
	return s.playerInRotation(s.CurrentTeam.Opposite())
}

func (s *Session) playerInRotation(team Team) *Player {
	players := s.TeamPlayers(team)
	if len(players) == 0 {
		return nil
	}
	idx := s.TeamAPlayerIndex
	if team == TeamB {
		idx = s.TeamBPlayerIndex
	}
	return players[idx%len(players)]
}

// CurrentWord returns the head of the remaining queue, or "" when the
// phase is exhausted.
func (s *Session) CurrentWord() string {
	if len(s.RemainingWords) == 0 {
		return ""
	}
	return s.RemainingWords[0]
}

// HostPlayer returns the session's host.
func (s *Session) HostPlayer() *Player {
	return s.Player(s.HostID)
}

// Clone returns a deep copy safe to hand to readers outside the store's
// lock.
func (s *Session) Clone() *Session {
	out := *s
	out.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp := *p
		cp.Words = append([]string(nil), p.Words...)
		out.Players[i] = &cp
	}
	out.WordPool = append([]string(nil), s.WordPool...)
	out.RemainingWords = append([]string(nil), s.RemainingWords...)
	out.GuessedWords = append([]string(nil), s.GuessedWords...)
	out.Scores = append([]PhaseScore(nil), s.Scores...)
	out.CurrentTurn = cloneTurn(s.CurrentTurn)
	out.LastTurn = cloneTurn(s.LastTurn)
	out.Settings.PhaseSettings = make(map[Phase]PassSettings, len(s.Settings.PhaseSettings))
	for k, v := range s.Settings.PhaseSettings {
		out.Settings.PhaseSettings[k] = v
	}
	return &out
}

func cloneTurn(t *Turn) *Turn {
	if t == nil {
		return nil
	}
	cp := *t
	cp.FoundWords = append([]string(nil), t.FoundWords...)
	cp.SkippedWords = append([]string(nil), t.SkippedWords...)
	return &cp
}
