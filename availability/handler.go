package availability

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hupe1980/courtmesh/core"
	"github.com/hupe1980/courtmesh/logging"
)

// wireInterval is one free block on the wire, RFC3339 bounds.
type wireInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// queryRequest is the inbound availability query.
type queryRequest struct {
	Range struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"range"`
}

// queryResponse is the outbound availability document: a mapping of dates to
// free intervals, keyed by the interval's start date.
type queryResponse struct {
	Participant  string                    `json:"participant"`
	AsOf         time.Time                 `json:"as_of"`
	Availability map[string][]wireInterval `json:"availability"`
}

// Handler serves one participant's availability over HTTP.
type Handler struct {
	mux      *http.ServeMux
	calendar *Calendar
	logger   logging.Logger
}

// NewHandler creates the availability handler for a calendar.
func NewHandler(calendar *Calendar, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	h := &Handler{mux: http.NewServeMux(), calendar: calendar, logger: logger}
	h.mux.HandleFunc("POST /availability", h.handleAvailability)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.mux.ServeHTTP(w, r) }

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dateRange, err := core.NewTimeInterval(req.Range.Start, req.Range.End)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "range start must be before range end")
		return
	}

	free := h.calendar.Free(dateRange)
	resp := queryResponse{
		Participant:  h.calendar.Name(),
		AsOf:         time.Now().UTC(),
		Availability: map[string][]wireInterval{},
	}
	for _, iv := range free {
		key := iv.Start.UTC().Format(time.DateOnly)
		resp.Availability[key] = append(resp.Availability[key], wireInterval{Start: iv.Start, End: iv.End})
	}

	h.logger.Debug("availability served", "participant", h.calendar.Name(), "range", dateRange.String(), "intervals", len(free))
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "participant": h.calendar.Name()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
