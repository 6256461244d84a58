package control

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// statusPayload is the JSON body served at /status: a cheap snapshot of
// liveness and score for operators, not a core planning concern (see
// SPEC_FULL.md DOMAIN STACK).
type statusPayload struct {
	Connected     bool    `json:"connected"`
	Mode          string  `json:"mode"`
	Ticks         uint16  `json:"ticks"`
	Score         uint16  `json:"score"`
	Lives         uint8   `json:"lives"`
	PelletsLeft   int     `json:"pelletsLeft"`
	PlanLatencyMs float64 `json:"planLatencyMs"`
	CommandsDrop  float64 `json:"commandsDropped"`
	FramesDrop    float64 `json:"framesDropped"`
}

// StatusRouter builds the /status and /healthz mux.Router for the given
// pipeline.
func StatusRouter(p *Pipeline) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/status", p.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	return r
}

// handleHealthz is a liveness probe: if the process can answer HTTP at
// all, it's up. No world-model access, unlike /status.
func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (p *Pipeline) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s := p.state
	payload := statusPayload{
		Connected:     s.IsConnected(),
		Mode:          s.CurrentMode().String(),
		Ticks:         s.Ticks,
		Score:         s.Score,
		Lives:         s.Lives,
		PelletsLeft:   s.NumPellets(),
		PlanLatencyMs: p.metrics.PlanLatencyMs.Load(),
		CommandsDrop:  p.metrics.CommandsDropped.Load(),
		FramesDrop:    p.metrics.FramesDropped.Load(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

