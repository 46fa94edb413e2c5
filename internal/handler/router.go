package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/airline-booking/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса бронирования.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/flights", h.FindFlights)
		r.Get("/flights/{number}", h.GetFlight)
		r.Get("/loyalty/programs", h.ListPrograms)

		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Post("/bookings", h.BookFlight)
				r.Post("/bookings/seat", h.BookSeat)
				r.Get("/bookings", h.ListBookings)
				r.Post("/bookings/{id}/cancel", h.CancelBooking)
				r.Post("/flights/{number}/baggage", h.AddBaggage)

				r.Post("/payments", h.Pay)
				r.Get("/payments", h.ListPayments)
				r.Get("/refunds", h.ListRefunds)

				r.Post("/loyalty/enroll", h.Enroll)
				r.Get("/loyalty", h.LoyaltyStatus)
				r.Post("/loyalty/redeem", h.Redeem)
				r.Get("/redemptions", h.ListRedemptions)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Use(custommiddleware.RequireAdmin)

			r.Get("/customers", h.ListCustomers)

			r.Post("/flights", h.AddFlight)
			r.Patch("/flights/{number}", h.UpdateFlight)
			r.Delete("/flights/{number}", h.DeleteFlight)

			r.Post("/loyalty/programs", h.CreateProgram)
			r.Put("/loyalty/programs/{id}", h.UpdateProgram)
			r.Delete("/loyalty/programs/{id}", h.DeleteProgram)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
