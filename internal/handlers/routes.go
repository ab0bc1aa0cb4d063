package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/markjakearzadon/shiftpay-gobackend/internal/auth"
	"github.com/markjakearzadon/shiftpay-gobackend/internal/middleware"
)

// Router bundles everything NewRouter mounts.
type Router struct {
	Users         *UserHandler
	Payments      *PaymentHandler
	Wallets       *WalletHandler
	Notifications *NotificationHandler
	Webhooks      *WebhookHandler
	Tokens        *auth.TokenManager
	Ping          func(ctx context.Context) error
	Log           logrus.FieldLogger
}

func NewRouter(rt Router) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Recover(rt.Log), middleware.RequestLogger(rt.Log))

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")
	router.HandleFunc("/health", rt.health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/user", rt.Users.CreateUser).Methods("POST")
	api.HandleFunc("/login", rt.Users.Login).Methods("POST")
	api.HandleFunc("/webhooks/stripe", rt.Webhooks.Stripe).Methods("POST")

	secured := api.NewRoute().Subrouter()
	secured.Use(middleware.Authenticate(rt.Tokens))
	secured.HandleFunc("/me", rt.Users.Me).Methods("GET")
	secured.HandleFunc("/payments", rt.Payments.CreatePayment).Methods("POST")
	secured.HandleFunc("/payments", rt.Payments.ListPayments).Methods("GET")
	secured.HandleFunc("/payments/{paymentID}", rt.Payments.GetPayment).Methods("GET")
	secured.HandleFunc("/transactions", rt.Payments.ListTransactions).Methods("GET")
	secured.HandleFunc("/wallet", rt.Wallets.GetWallet).Methods("GET")
	secured.HandleFunc("/notifications", rt.Notifications.GetNotifications).Methods("GET")
	secured.HandleFunc("/notifications/{notificationID}/read", rt.Notifications.MarkRead).Methods("PATCH")

	return router
}

func (rt Router) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if rt.Ping != nil {
		if err := rt.Ping(ctx); err != nil {
			rt.Log.WithError(err).Warn("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "mongo": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
