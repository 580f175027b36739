package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hissenet-chatbot/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.Init("error", "json", "")
}

// mockChatService is a test double for service.ChatService.
type mockChatService struct {
	answer     string
	gotMessage string
}

func (m *mockChatService) Answer(ctx context.Context, message string) string {
	m.gotMessage = message
	return m.answer
}

func newTestRouter(svc *mockChatService) *gin.Engine {
	r := gin.New()
	r.POST("/api/chat", NewChatHandler(svc).Chat)
	r.GET("/healthz", Health)
	return r
}

func TestChat_ReturnsAnswer(t *testing.T) {
	svc := &mockChatService{answer: "Portföyler menüsünden Yeni Portföy Oluştur'a tıklayın."}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"portföy oluşturma"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, svc.answer, body["response"])
	assert.Equal(t, "portföy oluşturma", svc.gotMessage)
}

func TestChat_MalformedBody(t *testing.T) {
	r := newTestRouter(&mockChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Sunucu hatası!", body["error"])
}

func TestChat_EmptyMessageStillAnswered(t *testing.T) {
	svc := &mockChatService{answer: "Bu konuda elimde bilgi bulunmuyor."}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", svc.gotMessage)
}

func TestChat_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(&mockChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&mockChatService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
