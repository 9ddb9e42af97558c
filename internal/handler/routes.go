package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router with the global middleware stack and every
// API route.
func NewRouter(h *Handler, corsOrigins []string, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(log))             // structured access log
	r.Use(CORS(corsOrigins))
	r.Use(Actor)

	// Health
	r.Get("/health", HealthCheck)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
	})

	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)

		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/", h.GetEvent)
			r.Patch("/", h.UpdateEvent)

			// Participation
			r.Post("/interest", h.ToggleInterest)
			r.Delete("/interest/{userID}", h.RemoveInterest)
			r.Get("/interested", h.ListInterested)
			r.Post("/attendance", h.ConfirmAttendance)
			r.Delete("/attendance/{userID}", h.CancelAttendance)
			r.Get("/attendees", h.ListAttendees)
			r.Post("/attendees", h.AddAttendee)
			r.Delete("/attendees/{userID}", h.RemoveAttendee)
			r.Get("/available-users", h.ListAvailableUsers)
			r.Get("/participants/{userID}", h.GetParticipation)

			// Ledgers
			r.Get("/payments", h.ListEventPayments)
			r.Post("/payments", h.RecordPayment)
			r.Post("/payments/bulk", h.BulkCreatePayments)
			r.Get("/payments/stats", h.PaymentStats)
			r.Get("/expenses", h.ListExpenses)
			r.Post("/expenses", h.AddExpense)
			r.Get("/expenses/summary", h.ExpenseSummary)
			r.Get("/expenses/breakdown", h.ExpenseBreakdown)
			r.Get("/summary", h.EventSummary)

			// Carpooling
			r.Get("/carpool/offers", h.ListOffers)
			r.Post("/carpool/offers", h.OfferLift)
			r.Get("/carpool/requests", h.ListRequests)
			r.Put("/carpool/requests", h.RequestLift)
		})
	})

	r.Route("/payments", func(r chi.Router) {
		r.Get("/", h.ListPayments)
		r.Get("/{paymentID}", h.GetPayment)
		r.Patch("/{paymentID}", h.UpdatePayment)
		r.Delete("/{paymentID}", h.DeletePayment)
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/{expenseID}", h.GetExpense)
		r.Patch("/{expenseID}", h.UpdateExpense)
		r.Delete("/{expenseID}", h.DeleteExpense)
	})

	r.Delete("/carpool/offers/{offerID}", h.WithdrawOffer)
	r.Delete("/carpool/requests/{requestID}", h.WithdrawRequest)

	r.Get("/portfolio", h.Portfolio)
	r.Get("/activity", h.RecentActivity)

	return r
}
