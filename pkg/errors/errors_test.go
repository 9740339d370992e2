package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapsSentinel(t *testing.T) {
	err := Newf(ErrInvalidID, http.StatusConflict, "document id %d already exists", 7)

	assert.True(t, stderrors.Is(err, ErrInvalidID))
	assert.Equal(t, "document id negative or already exists: document id 7 already exists", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatusCode(err))
}

func TestHTTPStatusCodeSentinelFallback(t *testing.T) {
	cases := map[error]int{
		ErrInvalidID:        http.StatusConflict,
		ErrInvalidText:      http.StatusBadRequest,
		ErrInvalidMinusWord: http.StatusBadRequest,
		ErrInvalidInput:     http.StatusBadRequest,
		ErrUnknownDocument:  http.StatusNotFound,
		ErrIndexOutOfRange:  http.StatusNotFound,
		ErrRateLimited:      http.StatusTooManyRequests,
		ErrInternal:         http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatusCode(err), "error %v", err)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusCode(stderrors.New("anything")))
}
