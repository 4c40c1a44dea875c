package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateDBError(t *testing.T) {
	assert.NoError(t, TranslateDBError(nil))
	assert.ErrorIs(t, TranslateDBError(fmt.Errorf("load: %w", gorm.ErrRecordNotFound)), ErrNotFound)

	dup := TranslateDBError(gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, dup, ErrConflict)
	assert.ErrorIs(t, dup, gorm.ErrDuplicatedKey)

	other := errors.New("boom")
	assert.Same(t, other, TranslateDBError(other))
}

func TestHandleAppError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: bad date", ErrValidation), http.StatusBadRequest, ErrCodeValidation},
		{ErrUnknownService, http.StatusBadRequest, ErrCodeValidation},
		{ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{errors.Join(ErrConflict, gorm.ErrDuplicatedKey), http.StatusConflict, ErrCodeConflict},
		{ErrInvalidTransition, http.StatusConflict, ErrCodeInvalidTransition},
		{ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{errors.New("db down"), http.StatusInternalServerError, ErrCodeInternal},
		{NewAppError(ErrNotFound, "Estimate not found"), http.StatusNotFound, ErrCodeNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		HandleAppError(rec, tc.err)

		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
		if tc.status == http.StatusInternalServerError {
			assert.Equal(t, "An unexpected error occurred", body.Message)
		}
	}
}
