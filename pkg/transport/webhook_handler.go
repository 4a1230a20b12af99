package transport

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type webhookNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// webhookProbeHandler answers gateway liveness checks. No side effects.
func (h *Handler) webhookProbeHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// webhookHandler always acknowledges with 200 once processing was
// attempted: reconciliation errors are operational, and a non-2xx would
// only make the gateway redeliver forever.
func (h *Handler) webhookHandler(w http.ResponseWriter, r *http.Request) {
	var notification webhookNotification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		log.WithError(err).Warn("malformed webhook payload")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	err := h.reconciliations.ProcessNotification(r.Context(), notification.Type, notification.Data.ID)
	if err != nil {
		log.WithError(err).WithField("payment_id", notification.Data.ID).
			Error("payment reconciliation failed")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
