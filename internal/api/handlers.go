package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/norangai/Minimal-Pair-Test/internal/errors"
	"github.com/norangai/Minimal-Pair-Test/internal/logger"
	"github.com/norangai/Minimal-Pair-Test/internal/models"
	"github.com/norangai/Minimal-Pair-Test/internal/stats"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type questionResponse struct {
	Complete bool             `json:"complete"`
	Question *models.Question `json:"question,omitempty"`
	Today    stats.TodayStat  `json:"today"`
	Target   int              `json:"target"`
}

// handleQuestion returns the open question, creating one when none is open.
// An unanswered question is returned again rather than replaced.
func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	resp := questionResponse{
		Today:  stats.Today(s.Scheduler.State().DailyStats, now),
		Target: s.currentTarget(),
	}

	if s.open != nil {
		resp.Question = s.open
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if s.Scheduler.SessionComplete(s.Catalog, s.DailyTarget, now) {
		resp.Complete = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	pairID, ok := s.Scheduler.SelectNext(s.Catalog, now)
	if !ok {
		resp.Complete = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	pair, ok := s.Catalog.Pair(pairID)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("pair", pairID))
		return
	}

	q := s.Scheduler.BuildQuestion(pair)
	s.open = &q
	resp.Question = &q
	writeJSON(w, http.StatusOK, resp)
}

type answerRequest struct {
	PairID   int `json:"pair_id"`
	Position int `json:"position"`
}

type answerResponse struct {
	Correct         bool                   `json:"correct"`
	CorrectPosition int                    `json:"correct_position"`
	Question        models.Question        `json:"question"`
	Counters        models.SessionCounters `json:"counters"`
	Today           stats.TodayStat        `json:"today"`
}

// handleAnswer resolves the open question. The question is consumed even
// when the persistence write fails: the in-memory update already happened.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open == nil {
		handleError(w, r, errors.NewBadRequestError("no open question"))
		return
	}
	if req.PairID != s.open.PairID {
		handleError(w, r, errors.NewValidationError("pair_id", "does not match the open question"))
		return
	}
	if req.Position < 1 || req.Position > models.SequenceLength {
		handleError(w, r, errors.NewValidationError("position", "must be between 1 and 4"))
		return
	}

	question := *s.open
	s.open = nil

	now := time.Now()
	correct := req.Position == question.CorrectPosition
	if err := s.Scheduler.RecordAnswer(question.PairID, correct, now); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Correct:         correct,
		CorrectPosition: question.CorrectPosition,
		Question:        question,
		Counters:        s.Scheduler.State().Counters,
		Today:           stats.Today(s.Scheduler.State().DailyStats, now),
	})
}

type statsResponse struct {
	Categories []stats.CategoryStat `json:"categories"`
	Overall    stats.OverallStat    `json:"overall"`
	Today      stats.TodayStat      `json:"today"`
	LastDays   []stats.DayStat      `json:"last_days"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	state := s.Scheduler.State()
	writeJSON(w, http.StatusOK, statsResponse{
		Categories: stats.ByCategory(s.Catalog, state.Items),
		Overall:    stats.Overall(s.Catalog, state.Items),
		Today:      stats.Today(state.DailyStats, now),
		LastDays:   stats.LastDays(state.DailyStats, now, 7),
	})
}

type sessionResponse struct {
	Counters models.SessionCounters `json:"counters"`
	Today    stats.TodayStat        `json:"today"`
	Target   int                    `json:"target"`
	Complete bool                   `json:"complete"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	writeJSON(w, http.StatusOK, sessionResponse{
		Counters: s.Scheduler.State().Counters,
		Today:    stats.Today(s.Scheduler.State().DailyStats, now),
		Target:   s.currentTarget(),
		Complete: s.Scheduler.SessionComplete(s.Catalog, s.DailyTarget, now),
	})
}

type countRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleAddExtra(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Count <= 0 {
		handleError(w, r, errors.NewValidationError("count", "must be positive"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Scheduler.AddExtraQuestions(req.Count); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"target": s.currentTarget()})
}

func (s *Server) handleRequeue(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Count <= 0 {
		handleError(w, r, errors.NewValidationError("count", "must be positive"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Scheduler.Requeue(s.Catalog, req.Count, time.Now()); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "requeued"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = nil
	if err := s.Scheduler.Reset(); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleReconcile runs the asset pipeline to completion. Task failures are
// part of the report, not an HTTP error; only structural failures are.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	report, err := s.Pipeline.Reconcile(r.Context(), s.Catalog)
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type feedbackRequest struct {
	PairID int         `json:"pair_id"`
	Slot   models.Slot `json:"slot"`
	Issue  string      `json:"issue"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if _, ok := s.Catalog.Pair(req.PairID); !ok {
		handleError(w, r, errors.NewNotFoundError("pair", req.PairID))
		return
	}
	if !req.Slot.Valid() {
		handleError(w, r, errors.NewValidationError("slot", "must be A or B"))
		return
	}
	if req.Issue == "" {
		handleError(w, r, errors.NewValidationError("issue", "cannot be empty"))
		return
	}

	if err := s.Feedback.Append(req.PairID, req.Slot, req.Issue, time.Now()); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "logged"})
}

func (s *Server) handleFeedbackCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.Feedback.Count()
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// handleAudio streams one artifact. A missing artifact is reported per
// attempt and never mutates scheduling state.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	pairID, err := strconv.Atoi(chi.URLParam(r, "pairID"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("pairID", "must be an integer"))
		return
	}
	slot := models.Slot(chi.URLParam(r, "slot"))
	if !slot.Valid() {
		handleError(w, r, errors.NewValidationError("slot", "must be A or B"))
		return
	}
	if _, ok := s.Catalog.Pair(pairID); !ok {
		handleError(w, r, errors.NewNotFoundError("pair", pairID))
		return
	}

	if !s.AudioStore.Exists(pairID, slot) {
		log := logger.FromContext(r.Context())
		log.Warn("audio artifact missing for %d_%s", pairID, slot)
		handleError(w, r, errors.NewUnavailableError("audio", "artifact not generated yet"))
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	http.ServeFile(w, r, s.AudioStore.PathFor(pairID, slot))
}

func (s *Server) currentTarget() int {
	return s.DailyTarget + s.Scheduler.State().Counters.ExtraQuestionsAdded
}
