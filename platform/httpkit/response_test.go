package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadflow_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

func TestHandleErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperr.Validation("name is required"), http.StatusBadRequest},
		{"conflict", apperr.Conflict("duplicate"), http.StatusConflict},
		{"not found", apperr.NotFound("lead not found"), http.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("authentication required"), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("insufficient permissions"), http.StatusForbidden},
		{"dependency", apperr.DependencyFailure("lead update failed", errors.New("db down")), http.StatusBadGateway},
		{"wrapped", fmt.Errorf("service: %w", apperr.NotFound("deal not found")), http.StatusNotFound},
		{"untyped", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			if !HandleError(c, tc.err) {
				t.Fatal("expected error to be handled")
			}
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestHandleErrorIncludesConflictDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	err := apperr.Conflict("A lead with this phone number already exists").
		WithDetails(map[string]string{"matchedField": "phone number"})
	HandleError(c, err)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("decode: %v", decodeErr)
	}
	if body.Details["matchedField"] != "phone number" {
		t.Fatalf("unexpected details: %+v", body.Details)
	}
}

func TestHandleErrorNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if HandleError(c, nil) {
		t.Fatal("nil error must not be handled")
	}
}
