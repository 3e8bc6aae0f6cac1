package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/plant-store/docs"
	"github.com/rogerio-castellano/plant-store/internal/http/ban"
	"github.com/rogerio-castellano/plant-store/internal/http/handlers"
	mw "github.com/rogerio-castellano/plant-store/internal/http/middleware"
	rl "github.com/rogerio-castellano/plant-store/internal/http/rate_limiter"
	log "github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Deps struct {
	Plants *handlers.PlantHandler
	Logger *log.Logger
	// Visitors and Bans enable rate limiting on /plants when both are set.
	Visitors *rl.Visitors
	Bans     ban.Store
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(mw.TraceID(logger))
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)

	r.NotFound(handlers.NotFoundHandler)
	r.MethodNotAllowed(handlers.MethodNotAllowedHandler)

	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		if d.Visitors != nil && d.Bans != nil {
			r.Use(mw.RateLimit(d.Visitors, d.Bans))
		}
		r.Get("/plants/{id}", d.Plants.GetPlant)
		r.Patch("/plants/{id}", d.Plants.UpdatePlant)
		r.Delete("/plants/{id}", d.Plants.DeletePlant)
	})

	return r
}
