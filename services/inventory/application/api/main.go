package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/cafestock/pkg/app"
	"github.com/ghuser/cafestock/pkg/auth"
	pkgcache "github.com/ghuser/cafestock/pkg/cache"
	"github.com/ghuser/cafestock/pkg/config"
	"github.com/ghuser/cafestock/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/cafestock/services/inventory/application/services"
)

// InventoryRoutes registers inventory endpoints on the provided chi router.
// svcs must already be loaded.
func InventoryRoutes(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	d := handlers.Deps{
		Services:     svcs,
		IsProduction: a.Config.Environment == config.EnvProduction,
	}
	if a.Redis != nil {
		d.Feed = pkgcache.NewAlertCache(a.Redis, a.Config.ServiceName)
	}
	Routes(r, a, d)
}

// Routes mounts the handlers built from d under /inventory.
func Routes(r chi.Router, a *app.Application, d handlers.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(auth.Actor(a.Logger))
		r.Route("/inventory", func(r chi.Router) {
			r.Route("/items", func(r chi.Router) {
				r.Post("/", handlers.NewPostItemHandler(d).Execute)
				r.Get("/", handlers.NewListItemsHandler(d).Execute)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", handlers.NewGetItemHandler(d).Execute)
					r.Delete("/", handlers.NewDeleteItemHandler(d).Execute)
					r.Put("/threshold", handlers.NewPutThresholdHandler(d).Execute)
					r.Post("/restock", handlers.NewRestockHandler(d).Execute)
					r.Post("/consume", handlers.NewConsumeHandler(d).Execute)
					r.Post("/dispose", handlers.NewDisposeHandler(d).Execute)
					r.Post("/start-day", handlers.NewStartDayHandler(d).Execute)
					r.Post("/end-day", handlers.NewEndDayHandler(d).Execute)
				})
			})
			r.Post("/end-day", handlers.NewBulkEndDayHandler(d).Execute)

			r.Get("/alerts", handlers.NewGetAlertsHandler(d).Execute)
			r.Get("/alerts/feed", handlers.NewGetAlertFeedHandler(d).Execute)

			r.Route("/reservations", func(r chi.Router) {
				r.Post("/", handlers.NewPostReservationHandler(d).Execute)
				r.Get("/", handlers.NewListReservationsHandler(d).Execute)
				r.Get("/monitor", handlers.NewMonitorHandler(d).Execute)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", handlers.NewGetReservationHandler(d).Execute)
					r.Post("/complete", handlers.NewCompleteReservationHandler(d).Execute)
					r.Post("/release", handlers.NewReleaseReservationHandler(d).Execute)
				})
			})

			r.Get("/convert", handlers.NewConvertHandler(d).Execute)
		})
	})
}
