package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newBodyLimitRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/pay", func(c *gin.Context) {
		var req struct {
			TxSignature string `json:"txSignature" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestBodyLimit(t *testing.T) {
	router := newBodyLimitRouter(64)

	w := postJSON(router, `{"txSignature":"ref-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	oversized := `{"txSignature":"` + strings.Repeat("a", 256) + `"}`
	w = postJSON(router, oversized)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
