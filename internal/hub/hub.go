// Package hub owns the map from join codes to live sessions. All access
// goes through one actor goroutine, so creation, lookup and removal
// never race.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/vmercier/timesup-backend/internal/peer"
	"github.com/vmercier/timesup-backend/internal/session"
	"github.com/vmercier/timesup-backend/internal/snapshot"
)

// Entry pairs a session store with its peer host actor.
type Entry struct {
	Store *session.Store
	Host  *peer.Host
}

type Msg interface{ isHubMsg() }

type CreateSession struct {
	Code  string
	Reply chan *Entry
}

type GetSession struct {
	Code  string
	Reply chan *Entry
}

// EnsureSession returns the live entry for a code, restoring it from a
// persisted snapshot when one exists, or creating it fresh otherwise.
type EnsureSession struct {
	Code  string
	Reply chan *Entry
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan Msg
	sessions map[string]*Entry
	snaps    snapshot.Store
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, snaps snapshot.Store, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan Msg, 64),
		sessions: make(map[string]*Entry),
		snaps:    snaps,
		log:      log.Named("hub"),
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if e := h.sessions[msg.Code]; e != nil {
					msg.Reply <- e
					break
				}
				msg.Reply <- h.create(msg.Code)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case EnsureSession:
				if e := h.sessions[msg.Code]; e != nil {
					msg.Reply <- e
					break
				}
				msg.Reply <- h.restoreOrCreate(msg.Code)

			case RemoveSession:
				if e := h.sessions[msg.Code]; e != nil {
					e.Host.Inbox() <- peer.Shutdown{}
					delete(h.sessions, msg.Code)
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) create(code string) *Entry {
	st := session.New(code, h.snaps, h.log)
	e := &Entry{Store: st, Host: peer.NewHost(h.ctx, st, h.log)}
	h.sessions[code] = e
	return e
}

func (h *Hub) restoreOrCreate(code string) *Entry {
	rec, ok, err := h.snaps.Load(code)
	if err != nil {
		h.log.Warn("snapshot load failed", zap.String("code", code), zap.Error(err))
	}
	if !ok || rec.Session == nil {
		return h.create(code)
	}

	h.log.Info("session restored from snapshot", zap.String("code", code))
	st := session.Restore(code, rec, h.snaps, h.log)
	e := &Entry{Store: st, Host: peer.NewHost(h.ctx, st, h.log)}
	h.sessions[code] = e
	return e
}

func (h *Hub) shutdown() {
	for code, e := range h.sessions {
		e.Host.Inbox() <- peer.Shutdown{}
		delete(h.sessions, code)
	}
	h.cancel()
}
