package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("region", "must not be empty"), http.StatusBadRequest},
		{"not found", models.NewNotFoundError("disease", "rabies"), http.StatusNotFound},
		{"wrapped unavailable", fmt.Errorf("sms channel disabled: %w", models.ErrServiceUnavailable), http.StatusServiceUnavailable},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}

			var env models.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if env.Success {
				t.Error("error responses must not claim success")
			}
			if env.Message != tt.err.Error() {
				t.Errorf("message = %q, want %q", env.Message, tt.err.Error())
			}
		})
	}
}

func TestRespondEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respond(c, http.StatusCreated, "created", gin.H{"id": "a-1"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var env models.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !env.Success {
		t.Error("2xx responses must claim success")
	}
	if env.Timestamp.IsZero() {
		t.Error("timestamp missing from envelope")
	}
}
