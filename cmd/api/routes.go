package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) router() {
	s.Factory.Router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(s.Factory.Middleware.LoggerMiddleware)

		r.Get("/healthz", s.Handlers.HealthCheckHandler)

		r.Get("/wilayas", s.Handlers.AvailableWilayas)
		r.Get("/baladiyas", s.Handlers.AvailableBaladiyas)
		r.Get("/uploads/url", s.Handlers.GenerateUploadURL)

		r.Route("/members", func(r chi.Router) {
			r.Post("/", s.Handlers.RegisterMember)
			r.Get("/export", s.Handlers.MembersForExport)
			r.Get("/cards", s.Handlers.MembersForCards)
			r.Get("/stats", s.Handlers.DownloadStats)

			r.Route("/{number}", func(r chi.Router) {
				r.Get("/", s.Handlers.MemberByNumber)

				r.Route("/documents", func(r chi.Router) {
					r.Post("/", s.Handlers.UploadDocument)
					r.Get("/", s.Handlers.MemberDocuments)
					r.Delete("/{type}", s.Handlers.DeleteDocument)
				})

				r.Put("/photo", s.Handlers.UpdateProfilePhoto)
				r.Put("/subscription", s.Handlers.UpdateSubscription)
				r.Get("/subscriptions", s.Handlers.SubscriptionHistory)
			})
		})

		r.Route("/admin/settings", func(r chi.Router) {
			r.Get("/", s.Handlers.AdminSettings)
			r.Put("/", s.Handlers.UpsertAdminSettings)
		})
	})
}
