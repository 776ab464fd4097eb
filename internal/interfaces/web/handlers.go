package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/laundry-scheduler/internal/application/usecases"
	"github.com/example/laundry-scheduler/internal/domain/schedule"
	"github.com/example/laundry-scheduler/internal/internaltypes"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string, st *stateDTO) {
	writeJSON(w, code, errorDTO{Error: msg, State: st})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := toStateDTO(sessionFrom(r).State())
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	role, err := schedule.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	date, err := sess.Calendar().ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, slotsDTO{
		Date:    date.Format(schedule.DateLayout),
		Role:    role,
		Loading: sess.Catalogue().Loading(),
		Slots:   sess.AvailableSlots(&date, role),
	})
}

// decodeDate reads {"date": "YYYY-MM-DD"} or {"date": null}.
func decodeDate(r *http.Request, sess *usecases.Session) (*time.Time, error) {
	var req dateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if req.Date == nil {
		return nil, nil
	}
	d, err := sess.Calendar().ParseDate(*req.Date)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decodeSlot(r *http.Request) (string, error) {
	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", errors.New("invalid request body")
	}
	if req.SlotID == "" {
		return "", errors.New("slot_id is required")
	}
	return req.SlotID, nil
}

func (s *Server) handlePickupDate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	date, err := decodeDate(r, sess)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	_, err = sess.SelectPickupDate(date)
	s.respondTransition(w, sess, err)
}

func (s *Server) handlePickupSlot(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	id, err := decodeSlot(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	_, err = sess.SelectPickupSlot(id)
	s.respondTransition(w, sess, err)
}

func (s *Server) handleDeliveryDate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	date, err := decodeDate(r, sess)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	_, err = sess.SelectDeliveryDate(date)
	s.respondTransition(w, sess, err)
}

func (s *Server) handleDeliverySlot(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	id, err := decodeSlot(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	_, err = sess.SelectDeliverySlot(id)
	s.respondTransition(w, sess, err)
}

// respondTransition reports the session state after a transition. Rejected
// transitions are a conflict with the current draft, not a server error.
func (s *Server) respondTransition(w http.ResponseWriter, sess *usecases.Session, err error) {
	st := toStateDTO(sess.State())
	if err != nil {
		writeError(w, http.StatusConflict, err.Error(), &st)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	msgs, err := sess.Submit(r.Context())
	switch {
	case errors.Is(err, internaltypes.ErrDraftIncomplete):
		writeJSON(w, http.StatusUnprocessableEntity, submitDTO{Submitted: false, Errors: msgs})
	case errors.Is(err, internaltypes.ErrDraftSubmitted), errors.Is(err, internaltypes.ErrSessionClosed):
		st := toStateDTO(sess.State())
		writeError(w, http.StatusConflict, err.Error(), &st)
	case err != nil:
		s.log.Error("http: submit", zap.String("session_id", sess.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not submit order draft", nil)
	default:
		// the next visit starts a fresh draft
		s.cookies.Clear(w)
		st := toStateDTO(sess.State())
		writeJSON(w, http.StatusOK, submitDTO{Submitted: true, State: &st})
	}
}
