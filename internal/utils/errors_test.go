package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInvalidState, http.StatusUnprocessableEntity},
		{CodeOutOfWindow, http.StatusUnprocessableEntity},
		{CodeNotEligible, http.StatusForbidden},
		{CodeInvalidResume, http.StatusBadRequest},
		{CodeQuotaExceeded, http.StatusConflict},
		{CodeInvalidType, http.StatusUnsupportedMediaType},
		{CodeTooLarge, http.StatusRequestEntityTooLarge},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(E(tc.code, "op", "msg", nil)))
		})
	}
}

func TestHTTPStatusUnwrapsAndFallsBack(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", E(CodeConflict, "op", "dup", nil))
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("x: %w", ErrNotFound)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestAppErrorMessage(t *testing.T) {
	err := E(CodeNotFound, "JobService.Get", "job not found", ErrNotFound)
	assert.Equal(t, "JobService.Get: job not found: not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsCode(err, CodeNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestInvalidCarriesFields(t *testing.T) {
	err := Invalid("op", "invalid job", map[string]string{"name": "name is required"})
	var ae *AppError
	assert.True(t, errors.As(err, &ae))
	assert.Equal(t, CodeInvalidArgument, ae.Code)
	assert.Equal(t, "name is required", ae.Fields["name"])
}
