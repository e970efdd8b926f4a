package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/vmercier/timesup-backend/internal/game"
	"github.com/vmercier/timesup-backend/internal/hub"
	"github.com/vmercier/timesup-backend/internal/peer"
	"github.com/vmercier/timesup-backend/internal/session"
)

const Version = "0.1.0"

// GenerateCode draws a 6-character join code uniformly over the
// uppercase base-36 alphabet. Collisions are not prevented here; the
// create handler retries until the code is free.
func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type API struct {
	hub     *hub.Hub
	baseURL string
	log     *zap.Logger
}

func NewAPI(h *hub.Hub, baseURL string, log *zap.Logger) *API {
	return &API{hub: h, baseURL: baseURL, log: log.Named("http")}
}

func (a *API) joinURL(code string) string {
	return a.baseURL + "/join/" + code
}

func (a *API) entry(code string) *hub.Entry {
	reply := make(chan *hub.Entry, 1)
	a.hub.Inbox() <- hub.GetSession{Code: code, Reply: reply}
	return <-reply
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the store's error taxonomy onto status codes:
// validation problems are 422, misuse of the current status 409,
// missing things 404. Nothing here is fatal to the process.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, session.ErrNoSession), errors.Is(err, game.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrSessionExists), errors.Is(err, game.ErrWrongStatus):
		status = http.StatusConflict
	case errors.Is(err, game.ErrEmptyName),
		errors.Is(err, game.ErrEmptyWord),
		errors.Is(err, game.ErrWordLimitReached),
		errors.Is(err, game.ErrTooFewWords),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrWordsIncomplete),
		errors.Is(err, game.ErrInvalidTeam),
		errors.Is(err, game.ErrUnassignedPlayers),
		errors.Is(err, game.ErrEmptyTeam),
		errors.Is(err, game.ErrSkipDisabled):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type sessionView struct {
	Code              string        `json:"code"`
	JoinURL           string        `json:"joinUrl"`
	Session           *game.Session `json:"session"`
	CurrentPlayerID   string        `json:"currentPlayerId,omitempty"`
	IsMultiplayerHost bool          `json:"isMultiplayerHost"`
	HostPeerID        string        `json:"hostPeerId,omitempty"`
}

func (a *API) view(e *hub.Entry) sessionView {
	isHost, peerID, currentID := e.Store.Multiplayer()
	return sessionView{
		Code:              e.Store.Code(),
		JoinURL:           a.joinURL(e.Store.Code()),
		Session:           e.Store.View(),
		CurrentPlayerID:   currentID,
		IsMultiplayerHost: isHost,
		HostPeerID:        peerID,
	}
}

type createSessionRequest struct {
	HostName string         `json:"hostName"`
	Settings *game.Settings `json:"settings,omitempty"`
}

func (a *API) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			http.Error(w, "failed to generate code", http.StatusInternalServerError)
			return
		}
		if a.entry(c) == nil {
			code = c
			break
		}
		a.log.Debug("join code collision, regenerating", zap.String("code", c))
	}

	reply := make(chan *hub.Entry, 1)
	a.hub.Inbox() <- hub.CreateSession{Code: code, Reply: reply}
	e := <-reply
	if e == nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	settings := game.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	host, err := e.Store.CreateSession(req.HostName, settings)
	if err != nil {
		a.hub.Inbox() <- hub.RemoveSession{Code: code}
		writeError(w, err)
		return
	}
	// The session accepts remote joins from the moment it exists; the
	// code doubles as the host's peer address.
	e.Store.EnableMultiplayer(code)

	writeJSON(w, http.StatusCreated, map[string]any{
		"code":    code,
		"joinUrl": a.joinURL(code),
		"hostId":  host.ID,
	})
}

func (a *API) GetSession(w http.ResponseWriter, r *http.Request) {
	e := a.entry(chi.URLParam(r, "code"))
	if e == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a.view(e))
}

func (a *API) ResetSession(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	e := a.entry(code)
	if e == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	e.Store.Reset()
	a.hub.Inbox() <- hub.RemoveSession{Code: code}
	w.WriteHeader(http.StatusNoContent)
}

// JoinQR renders the join URL as a PNG for out-of-band sharing.
func (a *API) JoinQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if a.entry(code) == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	const qrSize = 320
	png, err := qrcode.Encode(a.joinURL(code), qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// withEntry wraps handlers that operate on an existing session.
func (a *API) withEntry(fn func(e *hub.Entry, w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e := a.entry(chi.URLParam(r, "code"))
		if e == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		fn(e, w, r)
	}
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return v, false
	}
	return v, true
}

func (a *API) UpdateSettings(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	req, ok := decode[game.Settings](w, r)
	if !ok {
		return
	}
	if err := e.Store.UpdateSettings(req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.view(e))
}

func (a *API) AddPlayer(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		Name string `json:"name"`
	}](w, r)
	if !ok {
		return
	}
	p, err := e.Store.AddPlayer(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	e.Store.SetCurrentPlayer(p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) RemovePlayer(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.RemovePlayer(chi.URLParam(r, "playerID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) AddWord(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		Word string `json:"word"`
	}](w, r)
	if !ok {
		return
	}
	if err := e.Store.AddWord(chi.URLParam(r, "playerID"), req.Word); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) RemoveWord(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		Word string `json:"word"`
	}](w, r)
	if !ok {
		return
	}
	if err := e.Store.RemoveWord(chi.URLParam(r, "playerID"), req.Word); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) FinalizeWords(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.FinalizePlayerWords(chi.URLParam(r, "playerID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) GoToTeams(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.GoToTeams(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.view(e))
}

func (a *API) AssignTeam(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		PlayerID string    `json:"playerId"`
		Team     game.Team `json:"team"`
	}](w, r)
	if !ok {
		return
	}
	if err := e.Store.AssignTeam(req.PlayerID, req.Team); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) RandomizeTeams(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.RandomizeTeams(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.view(e))
}

func (a *API) StartGame(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.StartGame(); err != nil {
		writeError(w, err)
		return
	}
	// Remotes have no further role, but they get told the game is on.
	e.Host.Inbox() <- peer.AnnounceStart{}
	writeJSON(w, http.StatusOK, a.view(e))
}

func (a *API) StartTurn(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.StartTurn(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.view(e))
}

func (a *API) MarkCorrect(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	next, more, err := e.Store.MarkCorrect()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"word": next, "more": more})
}

func (a *API) SkipWord(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	next, err := e.Store.SkipWord()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"word": next})
}

func (a *API) EndTurn(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.EndTurn(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.view(e))
}

func (a *API) NextPhase(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.NextPhase(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.view(e))
}

func (a *API) ResumePlay(e *hub.Entry, w http.ResponseWriter, r *http.Request) {
	if err := e.Store.ResumePlay(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.view(e))
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func ServeVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("timesup-backend v" + Version + "\n"))
}
