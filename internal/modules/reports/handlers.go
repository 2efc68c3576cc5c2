package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/observability"
)

// defaultWindowDays is the range served when the caller omits both dates.
const defaultWindowDays = 7

// Handler exposes the four report endpoints.
type Handler struct {
	service *Service
	metrics *observability.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// NewHandler creates a new reports handler. metrics may be nil.
func NewHandler(service *Service, metrics *observability.Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
		log:     log.With().Str("handler", "reports").Logger(),
		now:     time.Now,
	}
}

// RegisterRoutes mounts the report endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.HandleOverview)
	r.Get("/visibility", h.HandleVisibility)
	r.Get("/sentiment", h.HandleSentiment)
	r.Get("/intent", h.HandleIntent)
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "overview", func(req Request) (interface{}, error) {
		return h.service.Overview(r.Context(), req)
	})
}

func (h *Handler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "visibility", func(req Request) (interface{}, error) {
		return h.service.Visibility(r.Context(), req)
	})
}

func (h *Handler) HandleSentiment(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "sentiment", func(req Request) (interface{}, error) {
		return h.service.Sentiment(r.Context(), req)
	})
}

func (h *Handler) HandleIntent(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "intent", func(req Request) (interface{}, error) {
		return h.service.Intent(r.Context(), req)
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, report string, compute func(Request) (interface{}, error)) {
	start := time.Now()
	req := h.parseRequest(r)

	resp, err := compute(req)
	status := http.StatusOK
	if err != nil {
		if errors.Is(err, dataset.ErrUnavailable) {
			status = http.StatusServiceUnavailable
			h.writeError(w, status, "dataset unavailable")
		} else {
			status = http.StatusInternalServerError
			h.writeError(w, status, err.Error())
		}
	} else {
		h.writeJSON(w, status, resp)
	}

	if h.metrics != nil {
		h.metrics.ReportRequests.WithLabelValues(report, strconv.Itoa(status)).Inc()
		h.metrics.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	}
}

// rangePresets are the shorthand trailing windows accepted via the range
// query parameter, used when explicit dates are absent.
var rangePresets = map[string]int{
	"1d":  1,
	"7d":  7,
	"14d": 14,
	"30d": 30,
}

// parseRequest reads the shared query parameters. Dates are parsed leniently
// and normalized to the snapshot date format; an omitted or unparsable range
// falls back to a range preset, or failing that the trailing default window
// ending today.
func (h *Handler) parseRequest(r *http.Request) Request {
	q := r.URL.Query()

	days := defaultWindowDays
	if preset, ok := rangePresets[q.Get("range")]; ok {
		days = preset
	}

	end := h.parseDate(q.Get("endDate"), h.now())
	start := h.parseDate(q.Get("startDate"), end.AddDate(0, 0, -days+1))
	if start.After(end) {
		start, end = end, start
	}

	return Request{
		Start:     start.Format(dataset.DateFormat),
		End:       end.Format(dataset.DateFormat),
		ProductID: q.Get("productId"),
		Model:     q.Get("model"),
		Locale:    r.Header.Get("Accept-Language"),
	}
}

func (h *Handler) parseDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		h.log.Debug().Str("value", raw).Msg("unparsable date parameter, using fallback")
		return fallback
	}
	return t
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
