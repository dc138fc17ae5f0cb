package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func scrapeRouter(username, password string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", requireBasicAuth(username, password), func(c *gin.Context) {
		c.String(http.StatusOK, "# HELP")
	})
	return r
}

func TestRequireBasicAuth(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		user, pass string
		noHeader   bool
		wantStatus int
	}{
		{name: "open when password empty", password: "", noHeader: true, wantStatus: http.StatusOK},
		{name: "valid credentials", password: "s3cret", user: "prometheus", pass: "s3cret", wantStatus: http.StatusOK},
		{name: "missing header", password: "s3cret", noHeader: true, wantStatus: http.StatusUnauthorized},
		{name: "wrong user", password: "s3cret", user: "grafana", pass: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "wrong password", password: "s3cret", user: "prometheus", pass: "guess", wantStatus: http.StatusUnauthorized},
		{name: "empty credentials", password: "s3cret", user: "", pass: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := scrapeRouter("prometheus", tt.password)
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if !tt.noHeader {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, metricsChallenge, w.Header().Get("WWW-Authenticate"))
				assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
			} else {
				assert.Equal(t, "# HELP", w.Body.String())
			}
		})
	}
}
