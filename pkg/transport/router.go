package transport

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/nicolasdelfino-123/vape-store/pkg/app/reconciliation"
	"github.com/nicolasdelfino-123/vape-store/pkg/app/session"
	ordermodel "github.com/nicolasdelfino-123/vape-store/pkg/order/domain/model"
)

type Handler struct {
	reconciliations reconciliation.Service
	bridge          session.Service
	orders          ordermodel.OrderRepository
	tokens          session.TokenVerifier
}

func Router(reconciliations reconciliation.Service, bridge session.Service, orders ordermodel.OrderRepository, tokens session.TokenVerifier) http.Handler {
	handler := &Handler{
		reconciliations: reconciliations,
		bridge:          bridge,
		orders:          orders,
		tokens:          tokens,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/mercadopago/webhook", handler.webhookProbeHandler).Methods(http.MethodGet, http.MethodHead)
	api.HandleFunc("/mercadopago/webhook", handler.webhookHandler).Methods(http.MethodPost)
	api.HandleFunc("/mercadopago/session-bridge", handler.sessionBridgeHandler).Methods(http.MethodPost)
	api.HandleFunc("/user/orders", handler.userOrdersHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return logMiddleware(r)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("write response")
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
