package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentportal/internal/portal"
	"studentportal/internal/session"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "student-portal"
)

func TestIssueParse(t *testing.T) {
	tok, err := Issue("sid-1", "student", testIssuer, testKey, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(tok.Value, testKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.Subject)
	assert.Equal(t, "student", claims.Role)

	_, err = Parse(tok.Value, "other-key", testIssuer)
	assert.Error(t, err)
	_, err = Parse(tok.Value, testKey, "someone-else")
	assert.Error(t, err)

	expired, err := Issue("sid-1", "student", testIssuer, testKey, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired.Value, testKey, testIssuer)
	assert.Error(t, err)
}

func TestSessionAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := session.NewMemory()
	profile := portal.Profile{StudentID: "S-9", SchoolName: "Hill High"}
	require.NoError(t, store.Save(context.Background(), "sid-live", profile, time.Hour))

	r := gin.New()
	r.GET("/me", SessionAuth(testKey, testIssuer, store), func(c *gin.Context) {
		p, ok := CurrentProfile(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": p.StudentID, "sid": c.GetString(SessionIDKey)})
	})

	live, _ := Issue("sid-live", "student", testIssuer, testKey, time.Hour)
	gone, _ := Issue("sid-gone", "student", testIssuer, testKey, time.Hour)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "unknown session", header: "Bearer " + gone.Value, want: http.StatusUnauthorized},
		{name: "header", header: "Bearer " + live.Value, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + live.Value, want: http.StatusOK},
		{name: "query", query: "?token=" + live.Value, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"id":"S-9","sid":"sid-live"}`, w.Body.String())
			}
		})
	}
}
