package bot

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"football-matches-notifier-bot/timezone"
)

const (
	TriggerTokenHeader = "X-Trigger-Token"
	fromParam          = "from"
	forceParam         = "force"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Routes mounts the trigger endpoints. An empty token leaves them unauthenticated.
func (t *Triggers) Routes(router *mux.Router, token string) {
	router.Methods(http.MethodGet).Path("/health").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	triggers := router.NewRoute().Subrouter()
	triggers.Use(tokenMiddleware(token))
	triggers.Methods(http.MethodPost).Path("/sync").HandlerFunc(t.handleSync)
	triggers.Methods(http.MethodPost).Path("/notify").HandlerFunc(t.handleNotify)
}

func tokenMiddleware(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(TriggerTokenHeader)
			if token != "" && subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (t *Triggers) handleSync(w http.ResponseWriter, r *http.Request) {
	var from *time.Time
	if value := r.URL.Query().Get(fromParam); value != "" {
		day, err := timezone.ParseDate(value)
		if err != nil {
			t.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from must be YYYY-MM-DD"})
			return
		}
		from = &day
	}
	result, err := t.SyncWeek(r.Context(), from)
	if err != nil {
		t.writeError(w, err)
		return
	}
	t.writeJSON(w, http.StatusOK, result)
}

func (t *Triggers) handleNotify(w http.ResponseWriter, r *http.Request) {
	force := false
	if value := r.URL.Query().Get(forceParam); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			t.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "force must be a boolean"})
			return
		}
		force = parsed
	}
	// A dropped request must not cut a broadcast short.
	report, err := t.Notify(context.WithoutCancel(r.Context()), force)
	if err != nil {
		t.writeError(w, err)
		return
	}
	t.writeJSON(w, http.StatusOK, report)
}

func (t *Triggers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, ErrNotConfigured):
		status = http.StatusNotImplemented
	}
	t.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (t *Triggers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		t.logger.Error("unable to encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		t.logger.Warn("unable to write response", zap.Error(err))
	}
}
