package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers bundles the HTTP surface for router wiring.
type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Promo    *PromoHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Images   *ImageHandler
	Waitlist *WaitlistHandler
	Popups   *PopupHandler
	Emails   *EmailsHandler
	Shipping *ShippingHandler
	Hooks    *HooksHandler
	Admin    *AdminHandler
}

// NewRouter assembles the storefront API under the /api prefix.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(chimw.Compress(5))
	r.Use(SessionMiddleware)
	r.Use(VisitorMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Catalog.List)
		r.Get("/products/{id}", h.Catalog.Get)
		r.Get("/inventory/check/{id}/{color}/{size}", h.Catalog.StockCheck)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Get("/totals", h.Cart.Totals)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items", h.Cart.UpdateItem)
			r.Delete("/items", h.Cart.RemoveItem)
		})

		r.Route("/promo", func(r chi.Router) {
			r.Post("/validate", h.Promo.Validate)
			r.Post("/use", h.Promo.Use)

			r.Group(func(r chi.Router) {
				r.Use(h.Admin.RequireAuth)
				r.Get("/list", h.Promo.List)
				r.Post("/create", h.Promo.Create)
				r.Patch("/{code}", h.Promo.Update)
				r.Delete("/{code}", h.Promo.Delete)
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/create-session", h.Checkout.CreateSession)
			r.Get("/status/{session_id}", h.Checkout.Status)
		})

		r.Get("/orders/track/{order_number}", h.Orders.Track)

		r.Route("/images", func(r chi.Router) {
			r.Post("/sanitize", h.Images.Sanitize)
			r.Get("/sanitized", h.Images.Sanitized)
		})
		r.Get("/proxy-image", h.Images.Proxy)

		r.Route("/waitlist", func(r chi.Router) {
			r.Post("/join", h.Waitlist.Join)
			r.Get("/status", h.Waitlist.Status)
			r.Get("/verify/{code}", h.Waitlist.VerifyCode)
			r.Get("/spots", h.Waitlist.Spots)
		})

		r.Route("/popups/{name}", func(r chi.Router) {
			r.Get("/eligibility", h.Popups.Eligibility)
			r.Post("/shown", h.Popups.Shown)
			r.Post("/dismissed", h.Popups.Dismissed)
		})

		r.Route("/emails", func(r chi.Router) {
			r.Post("/subscribe", h.Emails.Subscribe)
			r.With(h.Admin.RequireAuth).Get("/stats", h.Emails.Stats)
		})

		r.Post("/shipping/rates", h.Shipping.Rates)

		r.Post("/hooks/signup", h.Hooks.Signup)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Admin.Login)
			r.Post("/logout", h.Admin.Logout)
			r.Get("/verify", h.Admin.Verify)

			r.Group(func(r chi.Router) {
				r.Use(h.Admin.RequireAuth)

				r.Get("/stats", h.Admin.Stats)
				r.Get("/users", h.Admin.Users)
				r.Get("/subscribers", h.Admin.Subscribers)
				r.Get("/waitlist", h.Admin.Waitlist)
				r.Get("/orders", h.Admin.Orders)
				r.Put("/orders/{id}/status", h.Admin.UpdateOrderStatus)
				r.Post("/orders/{id}/ship", h.Admin.ShipOrder)
				r.Post("/send-bulk-email", h.Admin.SendBulkEmail)
				r.Delete("/subscriber/{email}", h.Admin.DeleteSubscriber)
				r.Delete("/user/{id}", h.Admin.DeleteUser)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
