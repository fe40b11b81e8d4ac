package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/matchsafe/internal/api/handlers"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

type stubFeedbackService struct {
	created []*entities.Feedback
}

func (s *stubFeedbackService) Create(ctx context.Context, feedback *entities.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = "test-id"
	}
	s.created = append(s.created, feedback)
	return nil
}

func TestFeedbackHandler_SubmitFeedback_Success(t *testing.T) {
	service := &stubFeedbackService{}
	handler := handlers.NewFeedbackHandler(service, nil)

	body := `{"requester_id":"u1","candidate_id":"c1","rating":5,"message":"Great match"}`
	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()

	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, service.created, 1)

	var response map[string]string
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, "received", response["status"])
	assert.NotEmpty(t, response["id"])
}

func TestFeedbackHandler_SubmitFeedback_RequiresIDs(t *testing.T) {
	service := &stubFeedbackService{}
	handler := handlers.NewFeedbackHandler(service, nil)

	body := `{"rating":5,"message":"no ids"}`
	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()

	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, service.created)
}

func TestFeedbackHandler_SubmitFeedback_RateLimit(t *testing.T) {
	service := &stubFeedbackService{}
	handler := handlers.NewFeedbackHandler(service, nil)

	for i := 0; i < 5; i++ {
		body := `{"requester_id":"u1","candidate_id":"c1","rating":4,"message":"ok-` + strconv.Itoa(i) + `"}`
		req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		handler.SubmitFeedback(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	body := `{"requester_id":"u1","candidate_id":"c1","rating":4,"message":"ok-over"}`
	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestFeedbackHandler_SubmitFeedback_Duplicate(t *testing.T) {
	service := &stubFeedbackService{}
	handler := handlers.NewFeedbackHandler(service, nil)

	body := `{"requester_id":"u1","candidate_id":"c1","rating":5,"message":"Great match"}`

	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.9:1234"
	w := httptest.NewRecorder()
	handler.SubmitFeedback(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.9:1234"
	w = httptest.NewRecorder()
	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Len(t, service.created, 1)
}

func TestFeedbackHandler_SubmitFeedback_InvalidRating(t *testing.T) {
	service := &stubFeedbackService{}
	handler := handlers.NewFeedbackHandler(service, nil)

	body := `{"requester_id":"u1","candidate_id":"c1","rating":9}`
	req := httptest.NewRequest("POST", "/api/feedback", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.4:1234"
	w := httptest.NewRecorder()

	handler.SubmitFeedback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
