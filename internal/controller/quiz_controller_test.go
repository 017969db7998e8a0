package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"valentine_quiz_backend/internal/model"
	"valentine_quiz_backend/internal/repository"
	"valentine_quiz_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullStorage struct{}

func (nullStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	return "https://blobs.test/" + filename, nil
}

func (nullStorage) GetURL(filename string) string {
	return "https://blobs.test/" + filename
}

func newTestRouter() (*gin.Engine, *service.QuizService) {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryQuizRepository()
	svc := service.NewQuizService(repo, nullStorage{}, service.NewImageService(7<<20), nil, 0, 2<<20)

	router := gin.New()
	quizzes := NewQuizController(svc)
	router.POST("/api/quizzes", quizzes.CreateQuiz)
	router.GET("/api/quizzes/:id", quizzes.GetQuiz)
	return router, svc
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"partnerName": "Alex",
		"senderName":  "Sam",
		"questions": []map[string]interface{}{
			{
				"id":           "q-1",
				"question":     "Where was our first date?",
				"options":      []string{"The park", "That tiny ramen place"},
				"correctIndex": 1,
			},
		},
	}
}

func TestCreateQuizEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := postJSON(router, "/api/quizzes", validPayload())
	require.Equal(t, http.StatusOK, w.Code)

	var resp CreateQuizResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, model.IsValidID(resp.ID))
}

func TestCreateQuizRejectsIncomplete(t *testing.T) {
	router, _ := newTestRouter()

	payload := validPayload()
	payload["partnerName"] = ""

	w := postJSON(router, "/api/quizzes", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "partner name")
}

func TestCreateQuizRejectsBadJSON(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/quizzes", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestGetQuizEndpoint(t *testing.T) {
	router, svc := newTestRouter()

	id, err := svc.CreateQuiz(context.Background(), &model.Quiz{
		PartnerName:  "Alex",
		SenderName:   "Sam",
		FinalMessage: "Be mine?",
		Questions: model.QuestionList{
			{ID: "q-1", Question: "p", Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Alex", body["partnerName"])
	assert.Equal(t, "Sam", body["senderName"])
	assert.Equal(t, "Be mine?", body["finalMessage"])
	assert.NotContains(t, body, "id", "the record id travels in the link, not the body")
}

func TestGetQuizNotFound(t *testing.T) {
	router, _ := newTestRouter()

	for name, id := range map[string]string{
		"unknown uuid": model.GenerateUUID(),
		"malformed id": "not-a-uuid",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/quizzes/"+id, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNotFound, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "quiz not found or link expired", resp["error"])
		})
	}
}
