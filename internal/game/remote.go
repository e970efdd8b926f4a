package game

import "strings"

// AddRemotePlayer joins a participant connecting from another device.
// The peer id is the transport address of the owning connection. Joining
// again with a peer id already on the roster updates the display name
// instead of adding a second entry, so a reconnecting client cannot
// duplicate itself.
func (s *Session) AddRemotePlayer(name, peerID string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if s.Status != StatusWords {
		return nil, ErrWrongStatus
	}

	if p := s.RemotePlayer(peerID); p != nil {
		p.Name = name
		s.touch()
		return p, nil
	}

	p := &Player{
		ID:       newID(),
		Name:     name,
		Words:    []string{},
		IsRemote: true,
		PeerID:   peerID,
	}
	s.Players = append(s.Players, p)
	s.touch()
	return p, nil
}

// UpdateRemotePlayerWords replaces the peer's word list wholesale. The
// host is the source of truth for the session, but for a remote player's
// own words the host simply stores whatever the remote last sent.
func (s *Session) UpdateRemotePlayerWords(peerID string, words []string) error {
	if s.Status != StatusWords {
		return ErrWrongStatus
	}
	p := s.RemotePlayer(peerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	p.Words = append([]string(nil), words...)
	s.touch()
	return nil
}

// FinalizeRemotePlayerWords overwrites the peer's word list with the
// submitted one and marks it complete. No merge is attempted.
func (s *Session) FinalizeRemotePlayerWords(peerID string, words []string) error {
	if s.Status != StatusWords {
		return ErrWrongStatus
	}
	p := s.RemotePlayer(peerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	p.Words = append([]string(nil), words...)
	p.WordsCompleted = true
	s.touch()
	return nil
}

// RemoveRemotePlayer drops the peer's player from the roster, typically
// after a dropped connection. Callers should leave completed players in
// place; their submitted words have no further dependency on the
// connection.
func (s *Session) RemoveRemotePlayer(peerID string) error {
	p := s.RemotePlayer(peerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	return s.RemovePlayer(p.ID)
}
