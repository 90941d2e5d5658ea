package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/swiss-tournament/docs"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/services"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Player     *handlers.PlayerHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	Standings  *handlers.StandingsHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	// Gatherer backs /metrics; nil leaves the endpoint unmounted.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Защищенные маршруты только для организаторов
	organizer := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret, opts.Logger))
		r.Use(middleware.RequireRole(services.RoleOrganizer))
	}

	router.Get("/healthz", h.Health.Healthz)
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.SwaggerJSON)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Post("/auth/token", h.Auth.Token)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", h.Player.Count)
		r.Get("/{playerID}", h.Player.Get)

		r.Group(func(r chi.Router) {
			organizer(r)
			r.Post("/", h.Player.Create)
			r.Delete("/", h.Player.ClearAll)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра турниров
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.Get)
		r.Get("/{tournamentID}/participants", h.Tournament.ListParticipants)
		r.Get("/{tournamentID}/matches", h.Match.List)
		r.Get("/{tournamentID}/standings", h.Standings.Standings)
		r.Get("/{tournamentID}/standings/verify", h.Standings.Verify)
		r.Get("/{tournamentID}/pairings", h.Standings.Pairings)
		r.Get("/{tournamentID}/overview", h.Standings.Overview)

		r.Group(func(r chi.Router) {
			organizer(r)
			r.Post("/", h.Tournament.Create)
			r.Delete("/", h.Tournament.ClearAll)
			r.Post("/{tournamentID}/participants", h.Tournament.Enroll)
			r.Post("/{tournamentID}/matches", h.Match.Record)
			r.Delete("/{tournamentID}/matches", h.Match.ClearTournament)
			r.Post("/{tournamentID}/byes", h.Match.RecordBye)
			r.Post("/{tournamentID}/exports", h.Standings.Export)
		})
	})

	router.Group(func(r chi.Router) {
		organizer(r)
		r.Delete("/matches", h.Match.ClearAll)
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)
}
