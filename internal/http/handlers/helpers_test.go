package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/sovannvath/storefront-gateway/internal/http/middleware"
	"github.com/sovannvath/storefront-gateway/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testContext builds a gin context for a handler call; a non-empty
// sessionID marks the request as signed in with role
func testContext(method, path string, body interface{}, sessionID string, role domain.Role) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)

	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	if sessionID != "" {
		c.Set(middleware.KeySessionID, sessionID)
		c.Set(middleware.KeyResolution, &domain.Resolution{
			State:   domain.StateAuthenticated,
			Session: &domain.Session{ID: sessionID, Token: "upstream-token", UserID: 9, Role: role},
			User:    &domain.User{ID: 9, Name: "Dara", Role: role},
		})
	}
	return c, w
}

func withID(c *gin.Context, id string) *gin.Context {
	c.Params = gin.Params{{Key: "id", Value: id}}
	return c
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func newTestUpstream(auth *mocks.MockAuthService) *Upstream {
	return NewUpstream(auth, zap.NewNop())
}
