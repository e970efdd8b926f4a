package peer

import (
	"context"

	"go.uber.org/zap"

	"github.com/vmercier/timesup-backend/internal/game"
	"github.com/vmercier/timesup-backend/internal/session"
)

// Msg is the union of messages the host actor accepts.
type Msg interface{ isHostMsg() }

// Connect registers a remote connection and the channel its outbound
// messages should be written to.
type Connect struct {
	PeerID string
	Outbox chan Message
}

// Disconnect unregisters a connection. A remote that never completed its
// words is dropped from the roster so no stuck empty entry lingers.
type Disconnect struct{ PeerID string }

// Inbound carries one decoded protocol message from a remote.
type Inbound struct {
	PeerID string
	Msg    Message
}

// AnnounceStart broadcasts game-started to every connected remote.
type AnnounceStart struct{}

// Peers is a test-only query for the number of registered connections.
type Peers struct{ Reply chan int }

type Shutdown struct{}

func (Connect) isHostMsg()       {}
func (Disconnect) isHostMsg()    {}
func (Inbound) isHostMsg()       {}
func (AnnounceStart) isHostMsg() {}
func (Peers) isHostMsg()         {}
func (Shutdown) isHostMsg()      {}

// Host is the host-side half of the synchronization protocol: a single
// goroutine that maps inbound peer messages onto session store commands
// and fans roster updates back out. Messages are processed to completion
// one at a time, so the store never sees interleaved peer writes.
type Host struct {
	inbox  chan Msg
	store  *session.Store
	conns  map[string]chan Message
	joined map[string]bool // peers that have sent player-join
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHost(parent context.Context, store *session.Store, log *zap.Logger) *Host {
	ctx, cancel := context.WithCancel(parent)
	h := &Host{
		inbox:  make(chan Msg, 64),
		store:  store,
		conns:  make(map[string]chan Message),
		joined: make(map[string]bool),
		log:    log.Named("peer").With(zap.String("code", store.Code())),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Host) Inbox() chan<- Msg { return h.inbox }

func (h *Host) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Connect:
				h.conns[msg.PeerID] = msg.Outbox

			case Disconnect:
				h.drop(msg.PeerID)

			case Inbound:
				h.handle(msg.PeerID, msg.Msg)

			case AnnounceStart:
				h.broadcast(GameStarted{})

			case Peers:
				msg.Reply <- len(h.conns)

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Host) shutdown() {
	for id, ch := range h.conns {
		close(ch)
		delete(h.conns, id)
	}
	h.cancel()
}

func (h *Host) drop(peerID string) {
	if ch, ok := h.conns[peerID]; ok {
		close(ch)
		delete(h.conns, peerID)
	}
	delete(h.joined, peerID)

	removed, err := h.store.DropRemotePlayer(peerID)
	if err != nil {
		h.log.Warn("drop remote player", zap.String("peer", peerID), zap.Error(err))
		return
	}
	if removed {
		h.syncRoster()
	}
}

// handle dispatches one inbound message. The switch is exhaustive over
// the protocol union: kinds that only ever travel host-to-remote count
// as protocol faults when a remote sends them.
func (h *Host) handle(peerID string, msg Message) {
	switch m := msg.(type) {
	case PlayerJoin:
		p, err := h.store.AddRemotePlayer(m.Name, peerID)
		if err != nil {
			h.reply(peerID, ErrorMessage{Message: err.Error()})
			return
		}
		h.joined[peerID] = true
		h.reply(peerID, PlayerConfirmed{PlayerID: p.ID})
		h.syncRoster()

	case WordAdd:
		if err := h.requireJoined(peerID); err != nil {
			return
		}
		if err := h.store.AddRemoteWord(peerID, m.Word); err != nil {
			h.reply(peerID, ErrorMessage{Message: err.Error()})
		}

	case WordRemove:
		if err := h.requireJoined(peerID); err != nil {
			return
		}
		if err := h.store.RemoveRemoteWord(peerID, m.Word); err != nil {
			h.reply(peerID, ErrorMessage{Message: err.Error()})
		}

	case WordsComplete:
		if err := h.requireJoined(peerID); err != nil {
			return
		}
		if err := h.store.FinalizeRemotePlayerWords(peerID, m.Words); err != nil {
			h.reply(peerID, ErrorMessage{Message: err.Error()})
			return
		}
		h.syncRoster()

	case PlayerConfirmed, SyncPlayers, GameStarted, ErrorMessage:
		h.log.Warn("host-bound connection sent a host-only message",
			zap.String("peer", peerID), zap.String("type", string(msg.kind())))
		h.reply(peerID, ErrorMessage{Message: "protocol error: unexpected message"})
	}
}

func (h *Host) requireJoined(peerID string) error {
	if h.joined[peerID] {
		return nil
	}
	h.reply(peerID, ErrorMessage{Message: "join first"})
	return game.ErrPlayerNotFound
}

func (h *Host) reply(peerID string, msg Message) {
	ch, ok := h.conns[peerID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		// Slow or dead connection; drop it.
		close(ch)
		delete(h.conns, peerID)
	}
}

func (h *Host) broadcast(msg Message) {
	for id, ch := range h.conns {
		select {
		case ch <- msg:
		default:
			close(ch)
			delete(h.conns, id)
		}
	}
}

// syncRoster broadcasts the current roster to every remote. Purely
// informational; remotes render it but never act on it.
func (h *Host) syncRoster() {
	sess := h.store.View()
	if sess == nil {
		return
	}

	entries := make([]RosterEntry, 0, len(sess.Players))
	for _, p := range sess.Players {
		entries = append(entries, RosterEntry{
			ID:             p.ID,
			Name:           p.Name,
			WordsCompleted: p.WordsCompleted,
			WordCount:      len(p.Words),
		})
	}
	h.broadcast(SyncPlayers{Players: entries})
}
