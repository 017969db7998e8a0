package controller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
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

func newUploadRouter(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryQuizRepository()
	svc := service.NewQuizService(repo, nullStorage{}, service.NewImageService(maxBytes), nil, 0, 2<<20)

	router := gin.New()
	uploads := NewUploadController(svc)
	router.POST("/api/quizzes/:id/images", uploads.UploadImage)
	return router
}

func multipartUpload(t *testing.T, path, slot, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("slot", slot))

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestUploadImageEndpoint(t *testing.T) {
	router := newUploadRouter(7 << 20)
	quizID := model.GenerateUUID()

	req := multipartUpload(t, "/api/quizzes/"+quizID+"/images", "final", "photo.png", pngHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "https://blobs.test/"+quizID+"/final.png", resp.Data.URL)
}

func TestUploadImageQuestionSlot(t *testing.T) {
	router := newUploadRouter(7 << 20)
	quizID := model.GenerateUUID()

	req := multipartUpload(t, "/api/quizzes/"+quizID+"/images", "q-abc123", "photo.png", pngHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Body.String(), quizID+"/question-q-abc123.png")
}

func TestUploadImageMissingSlot(t *testing.T) {
	router := newUploadRouter(7 << 20)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "photo.png")
	part.Write(pngHeader)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/quizzes/"+model.GenerateUUID()+"/images", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	router := newUploadRouter(7 << 20)

	req := multipartUpload(t, "/api/quizzes/"+model.GenerateUUID()+"/images", "final", "page.html",
		[]byte("<html><body>not an image</body></html>"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageRejectsOversized(t *testing.T) {
	router := newUploadRouter(8)

	req := multipartUpload(t, "/api/quizzes/"+model.GenerateUUID()+"/images", "final", "photo.png", pngHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUploadImageRejectsBadQuizID(t *testing.T) {
	router := newUploadRouter(7 << 20)

	req := multipartUpload(t, "/api/quizzes/not-a-uuid/images", "final", "photo.png", pngHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
