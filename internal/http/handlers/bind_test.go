package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/open-gym/backend/internal/http/handlers"
)

type bindProbe struct {
	Email  string `json:"email" binding:"required,email"`
	Limit  int    `json:"limit" binding:"omitempty,min=1"`
	Nested struct {
		Name string `json:"name" binding:"required"`
	} `json:"nested" binding:"required"`
}

func bindRouter() *gin.Engine {
	r := gin.New()

	r.POST("/probe", func(c *gin.Context) {
		var req bindProbe

		if !handlers.BindJSON(c, &req) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantField      string
	}{
		{
			name:           "valid",
			body:           `{"email": "a@b.com", "nested": {"name": "x"}}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing required",
			body:           `{"nested": {"name": "x"}}`,
			wantStatusCode: http.StatusBadRequest,
			wantField:      "email",
		},
		{
			name:           "nested field path uses json names",
			body:           `{"email": "a@b.com", "nested": {}}`,
			wantStatusCode: http.StatusBadRequest,
			wantField:      "nested.name",
		},
		{
			name:           "type mismatch",
			body:           `{"email": "a@b.com", "limit": "ten", "nested": {"name": "x"}}`,
			wantStatusCode: http.StatusBadRequest,
			wantField:      "limit",
		},
		{
			name:           "broken json",
			body:           `{"email": `,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	r := bindRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/probe", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatusCode, w.Code, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				return
			}

			env := readEnvelope(t, w)

			if got := errorCode(t, env); got != "validation_error" {
				t.Fatalf("expected validation_error, got %q", got)
			}

			if tt.wantField == "" {
				return
			}

			var body struct {
				Fields []handlers.FieldError `json:"fields"`
			}

			if err := unmarshalData(env, &body); err != nil {
				t.Fatalf("failed to unmarshal fields: %v", err)
			}

			found := false

			for _, f := range body.Fields {
				if f.Field == tt.wantField {
					found = true
				}
			}

			if !found {
				t.Fatalf("expected a field error on %q, got %+v", tt.wantField, body.Fields)
			}
		})
	}
}
