package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nicolasdelfino-123/vape-store/pkg/app/session"
	ordermodel "github.com/nicolasdelfino-123/vape-store/pkg/order/domain/model"
)

type sessionBridgeRequest struct {
	PaymentID         string `json:"payment_id"`
	ExternalReference string `json:"external_reference"`
}

func (h *Handler) sessionBridgeHandler(w http.ResponseWriter, r *http.Request) {
	var req sessionBridgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentID == "" {
		http.Error(w, "payment_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.bridge.BridgeFromPayment(req.PaymentID, req.ExternalReference)
	switch {
	case errors.Is(err, ordermodel.ErrOrderNotFound):
		http.Error(w, "no order for this payment", http.StatusNotFound)
		return
	case errors.Is(err, session.ErrNoSessionUser):
		http.Error(w, "order has no associated user", http.StatusUnauthorized)
		return
	case err != nil:
		log.WithError(err).WithField("payment_id", req.PaymentID).Error("session bridge failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type orderItemResponse struct {
	ProductID  string `json:"product_id"`
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
	Flavor     string `json:"flavor,omitempty"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	TotalCents    int64               `json:"total_cents"`
	Status        string              `json:"status"`
	PaymentID     string              `json:"payment_id"`
	CustomerEmail string              `json:"customer_email"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []orderItemResponse `json:"items"`
}

func (h *Handler) userOrdersHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	userID, err := h.tokens.VerifySubject(token)
	if err != nil {
		http.Error(w, "invalid bearer token", http.StatusUnauthorized)
		return
	}

	orders, err := h.orders.ListByUser(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("list orders failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		items := make([]orderItemResponse, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, orderItemResponse{
				ProductID:  item.ProductID.String(),
				Title:      item.Title,
				Quantity:   item.Quantity,
				PriceCents: item.PriceCents,
				Flavor:     item.Flavor,
			})
		}
		response = append(response, orderResponse{
			ID:            order.ID.String(),
			TotalCents:    order.TotalCents,
			Status:        order.Status.String(),
			PaymentID:     order.PaymentID,
			CustomerEmail: order.CustomerEmail,
			CreatedAt:     order.CreatedAt,
			Items:         items,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
