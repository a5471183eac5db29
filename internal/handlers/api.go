package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parsi-learn/academy/internal/progress"
)

const sessionCookie = "academy_session"

func (h *Handlers) handleAPIDictionary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSONError(w, http.StatusBadRequest, "missing query")
		return
	}
	res, err := h.dict.Search(r.Context(), q)
	if err != nil {
		h.log.Error("dictionary search failed", "query", q, "error", err)
		writeJSONError(w, http.StatusBadGateway, "dictionary unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   res.Query,
		"matches": res.Matches,
		"exact":   res.ExactWord,
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.progress.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, progress.ErrUsernameTaken) {
			writeJSONError(w, http.StatusConflict, "username already taken")
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.startSession(w, u.ID)
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.progress.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, progress.ErrInvalidCredentials) {
			writeJSONError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.log.Error("login failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "login failed")
		return
	}
	h.startSession(w, u.ID)
	writeJSON(w, http.StatusOK, u)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		h.progress.EndSession(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handlers) startSession(w http.ResponseWriter, userID string) {
	token := h.progress.StartSession(userID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionUser resolves the request's session cookie to a user, writing the
// 401 response itself on failure.
func (h *Handlers) sessionUser(w http.ResponseWriter, r *http.Request) *progress.User {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "not signed in")
		return nil
	}
	u, err := h.progress.UserForSession(r.Context(), c.Value)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "session expired")
		return nil
	}
	return u
}

func (h *Handlers) handleProgressQuiz(w http.ResponseWriter, r *http.Request) {
	u := h.sessionUser(w, r)
	if u == nil {
		return
	}
	var result progress.QuizResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.progress.RecordQuiz(r.Context(), u.ID, result); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (h *Handlers) handleProgressAttempt(w http.ResponseWriter, r *http.Request) {
	u := h.sessionUser(w, r)
	if u == nil {
		return
	}
	var attempt progress.Attempt
	if err := json.NewDecoder(r.Body).Decode(&attempt); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.progress.RecordAttempt(r.Context(), u.ID, attempt); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (h *Handlers) handleProgressSummary(w http.ResponseWriter, r *http.Request) {
	u := h.sessionUser(w, r)
	if u == nil {
		return
	}
	sum, err := h.progress.Summary(r.Context(), u.ID)
	if err != nil {
		h.log.Error("progress summary failed", "user", u.ID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "progress unavailable")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
