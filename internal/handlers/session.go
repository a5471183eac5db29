package handlers

import (
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// sessionTick is the countdown resolution. Tests shrink it.
var sessionTick = time.Second

// sessionMessage is one frame of the exercise countdown stream.
type sessionMessage struct {
	Type      string `json:"type"` // "phase", "tick", "done"
	Phase     string `json:"phase,omitempty"`
	Hint      string `json:"hint,omitempty"`
	Seconds   int    `json:"seconds,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Total     int    `json:"total,omitempty"`
}

// handleExerciseSession streams the phase timers of one exercise over a
// websocket: a phase frame at each phase start, a tick frame per second,
// and a final done frame.
func (h *Handlers) handleExerciseSession(w http.ResponseWriter, r *http.Request) {
	lessonID := r.URL.Query().Get("lesson")
	exID := r.URL.Query().Get("ex")
	if lessonID == "" || exID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing lesson or exercise id")
		return
	}

	l, err := h.source.Lesson(r.Context(), lessonID)
	if err != nil {
		h.log.Warn("lesson load failed", "lesson", lessonID, "error", err)
		writeJSONError(w, http.StatusBadGateway, "lesson unavailable")
		return
	}
	ex := l.ExerciseByID(exID)
	if ex == nil {
		writeJSONError(w, http.StatusNotFound, "exercise not found")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	for _, phase := range ex.Phases {
		msg := sessionMessage{Type: "phase", Phase: phase.Name, Hint: phase.Hint, Seconds: phase.Seconds}
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			return
		}
		for remaining := phase.Seconds; remaining > 0; remaining-- {
			select {
			case <-ctx.Done():
				return
			case <-time.After(sessionTick):
			}
			tick := sessionMessage{Type: "tick", Phase: phase.Name, Remaining: remaining - 1}
			if err := wsjson.Write(ctx, conn, tick); err != nil {
				return
			}
		}
	}
	done := sessionMessage{Type: "done", Total: ex.TotalSeconds()}
	if err := wsjson.Write(ctx, conn, done); err != nil {
		return
	}
	conn.Close(websocket.StatusNormalClosure, "session complete")
}
