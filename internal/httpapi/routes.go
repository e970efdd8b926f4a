package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vmercier/timesup-backend/internal/hub"
	"github.com/vmercier/timesup-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, baseURL string, log *zap.Logger) http.Handler {
	a := NewAPI(h, baseURL, log)
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/version", ServeVersion)
	r.Get("/ws", ws.Handler(h, log))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", a.CreateSession)

		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", a.GetSession)
			r.Delete("/", a.ResetSession)
			r.Get("/qr", a.JoinQR)
			r.Put("/settings", a.withEntry(a.UpdateSettings))

			r.Post("/players", a.withEntry(a.AddPlayer))
			r.Route("/players/{playerID}", func(r chi.Router) {
				r.Delete("/", a.withEntry(a.RemovePlayer))
				r.Post("/words", a.withEntry(a.AddWord))
				r.Post("/words/remove", a.withEntry(a.RemoveWord))
				r.Post("/finalize", a.withEntry(a.FinalizeWords))
			})

			r.Post("/teams", a.withEntry(a.GoToTeams))
			r.Post("/teams/assign", a.withEntry(a.AssignTeam))
			r.Post("/teams/randomize", a.withEntry(a.RandomizeTeams))

			r.Post("/start", a.withEntry(a.StartGame))

			r.Post("/turn/start", a.withEntry(a.StartTurn))
			r.Post("/turn/correct", a.withEntry(a.MarkCorrect))
			r.Post("/turn/skip", a.withEntry(a.SkipWord))
			r.Post("/turn/end", a.withEntry(a.EndTurn))

			r.Post("/phase/next", a.withEntry(a.NextPhase))
			r.Post("/phase/resume", a.withEntry(a.ResumePlay))
		})
	})

	return r
}
