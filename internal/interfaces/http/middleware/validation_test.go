package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationError(t *testing.T) {
	type request struct {
		Email string   `json:"email" binding:"required,email"`
		Rent  int      `json:"monthly_rent" binding:"gt=0"`
		Tags  []string `json:"tags" binding:"max=2"`
	}
	SetupValidator()

	r := gin.New()
	r.Use(RequestID())
	r.POST("/test", func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serve(r, req)
	}

	t.Run("reports json field names", func(t *testing.T) {
		w := post(`{"email":"nope","monthly_rent":0,"tags":["a","b","c"]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeEnvelope(t, w)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		byField := map[string]string{}
		for _, d := range resp.Error.Details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "Invalid email format", byField["email"])
		assert.Equal(t, "Must be greater than 0", byField["monthly_rent"])
		assert.Equal(t, "Must contain at most 2 items", byField["tags"])
	})

	t.Run("malformed json has no details", func(t *testing.T) {
		w := post(`{"email":`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeEnvelope(t, w)
		assert.Equal(t, "Malformed request body", resp.Error.Message)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("valid body passes", func(t *testing.T) {
		w := post(`{"email":"a@example.com","monthly_rent":1200}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
