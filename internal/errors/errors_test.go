package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid input", InvalidInput("Only CSV files are allowed"), http.StatusBadRequest},
		{"processing failed", ProcessingFailed(stderrors.New("boom")), http.StatusInternalServerError},
		{"wrapped invalid input", fmt.Errorf("upload: %w", InvalidInput("bad")), http.StatusBadRequest},
		{"plain error", stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestDetailCarriesCause(t *testing.T) {
	err := ProcessingFailed(stderrors.New("record on line 3: wrong number of fields"))
	assert.Equal(t, "record on line 3: wrong number of fields", err.Detail())
	assert.Equal(t, "processing failed: record on line 3: wrong number of fields", err.Error())

	wrapped := Wrap(err, "reading upload")
	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeProcessingFailed, appErr.Code)
	assert.Equal(t, "record on line 3: wrong number of fields", appErr.Detail())
}

func TestDetailInvalidInput(t *testing.T) {
	err := InvalidInput("CSV is empty")
	assert.Equal(t, "CSV is empty", err.Detail())
	assert.True(t, IsInvalidInput(err))
	assert.False(t, IsInvalidInput(ProcessingFailed(nil)))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithCode(CodeInvalidInput, nil))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("too large"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("x")))
}
