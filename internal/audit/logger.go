package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/convoflow/crm-bridge-go/internal/httputil"
)

type EventType string

const (
	EventDiagnosticAccess EventType = "diagnostic_access"
	EventAuthorizeURL     EventType = "authorize_url_issued"
	EventAccountCreate    EventType = "account_create"
	EventRateLimitExceed  EventType = "rate_limit_exceeded"
)

type Event struct {
	Type       EventType
	LocationID string
	AccountID  string
	RequestID  string
	IP         string
	UserAgent  string
	Details    map[string]any
}

// Log writes a privileged-operation event through the global logger.
func Log(_ context.Context, event Event) {
	logger := log.With().
		Str("audit", "privileged").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.LocationID != "" {
		logger = logger.With().Str("location_id", event.LocationID).Logger()
	}
	if event.AccountID != "" {
		logger = logger.With().Str("account_id", event.AccountID).Logger()
	}
	if event.RequestID != "" {
		logger = logger.With().Str("request_id", event.RequestID).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("audit event")
}

func addField(e *zerolog.Event, key string, value any) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

// LogFromRequest fills the request fields of event before logging it. The
// IP matches the key the rate limiter uses for the same request.
func LogFromRequest(r *http.Request, event Event) {
	event.IP = httputil.ClientIP(r)
	event.UserAgent = r.UserAgent()
	event.RequestID = middleware.GetReqID(r.Context())
	Log(r.Context(), event)
}
