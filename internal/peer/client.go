package peer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Client connection lifecycle as seen by the remote participant.
type Status string

const (
	StatusConnecting Status = "connecting"
	StatusConnected  Status = "connected"
	StatusDone       Status = "done" // words submitted and accepted
	StatusError      Status = "error"
)

var ErrJoinTimeout = errors.New("host did not confirm the join in time")

const writeTimeout = 3 * time.Second

// Client is the remote participant's half of the protocol. Its local
// word list is optimistic: the host's view is the single source of
// truth, and whatever the client sends in words-complete is what the
// host keeps. Roster state received via sync-players is a display cache
// overwritten on every broadcast.
type Client struct {
	conn *websocket.Conn
	log  *zap.Logger

	mu          sync.Mutex
	status      Status
	playerID    string
	words       []string
	roster      []RosterEntry
	gameStarted bool
	lastError   string

	confirmed chan struct{}
	rejected  chan struct{}
	done      chan struct{}
}

// Dial connects to a host's session endpoint, announces the player and
// waits for the host's confirmation. The protocol itself defines no
// acknowledgement timeout; this client bounds the wait with ctx so a
// silent host surfaces as ErrJoinTimeout instead of an indefinite
// "connecting" state.
func Dial(ctx context.Context, url, name string, log *zap.Logger) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host: %w", err)
	}

	c := &Client{
		conn:      conn,
		log:       log.Named("peer.client"),
		status:    StatusConnecting,
		words:     []string{},
		confirmed: make(chan struct{}),
		rejected:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	go c.readLoop()

	if err := c.send(ctx, PlayerJoin{Name: name}); err != nil {
		c.Close()
		return nil, err
	}

	select {
	case <-c.confirmed:
	case <-c.rejected:
		c.mu.Lock()
		msg := c.lastError
		c.mu.Unlock()
		c.Close()
		return nil, fmt.Errorf("join rejected: %s", msg)
	case <-c.done:
		return nil, errors.New("connection closed before confirmation")
	case <-ctx.Done():
		c.Close()
		return nil, ErrJoinTimeout
	}
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.conn.Read(context.Background())
		if err != nil {
			c.mu.Lock()
			if c.status != StatusDone {
				c.status = StatusError
			}
			c.mu.Unlock()
			return
		}

		msg, err := Decode(data)
		if err != nil {
			c.log.Warn("bad message from host", zap.Error(err))
			continue
		}
		c.apply(msg)
	}
}

// apply folds one host message into the mirror state. Host state always
// wins; nothing is merged.
func (c *Client) apply(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch m := msg.(type) {
	case PlayerConfirmed:
		if c.playerID == "" {
			c.playerID = m.PlayerID
			c.status = StatusConnected
			close(c.confirmed)
		}

	case SyncPlayers:
		c.roster = m.Players

	case GameStarted:
		c.gameStarted = true

	case ErrorMessage:
		c.lastError = m.Message
		wasConnecting := c.status == StatusConnecting
		c.status = StatusError
		if wasConnecting {
			close(c.rejected)
		}
		c.log.Warn("host reported error", zap.String("message", m.Message))

	case PlayerJoin, WordAdd, WordRemove, WordsComplete:
		// Remote-to-host kinds have no business arriving here.
		c.log.Warn("host sent a client-only message", zap.String("type", string(msg.kind())))
	}
}

func (c *Client) send(ctx context.Context, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.conn.Write(wctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("send %s: %w", msg.kind(), err)
	}
	return nil
}

// AddWord records the word locally and forwards it to the host.
func (c *Client) AddWord(ctx context.Context, word string) error {
	if err := c.send(ctx, WordAdd{Word: word}); err != nil {
		return err
	}
	c.mu.Lock()
	c.words = append(c.words, word)
	c.mu.Unlock()
	return nil
}

func (c *Client) RemoveWord(ctx context.Context, word string) error {
	if err := c.send(ctx, WordRemove{Word: word}); err != nil {
		return err
	}
	c.mu.Lock()
	for i, w := range c.words {
		if w == word {
			c.words = append(c.words[:i], c.words[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// CompleteWords submits the full local list as final. The host replaces
// its copy with exactly this list.
func (c *Client) CompleteWords(ctx context.Context) error {
	c.mu.Lock()
	words := append([]string(nil), c.words...)
	c.mu.Unlock()

	if err := c.send(ctx, WordsComplete{Words: words}); err != nil {
		return err
	}
	c.mu.Lock()
	c.status = StatusDone
	c.mu.Unlock()
	return nil
}

func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) Words() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.words...)
}

// Roster returns the latest roster broadcast from the host.
func (c *Client) Roster() []RosterEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]RosterEntry(nil), c.roster...)
}

func (c *Client) GameStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameStarted
}

func (c *Client) Close() {
	_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
}
