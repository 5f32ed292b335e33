package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, `{"message":"Course not found"}`},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.ErrCourseNotFound), http.StatusNotFound, `{"message":"Course not found"}`},
		{"validation", apperrors.NewValidationError("credits is required"), http.StatusBadRequest, `{"message":"credits is required"}`},
		{"bad request", apperrors.NewBadRequestError("unexpected EOF"), http.StatusBadRequest, `{"message":"unexpected EOF"}`},
		{"store failure", apperrors.NewStoreError(errors.New("connection reset")), http.StatusInternalServerError, `{"message":"connection reset"}`},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, `{"message":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				HandleAPIError(c, tt.err)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status: got=%d want=%d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Fatalf("body: got=%s want=%s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
