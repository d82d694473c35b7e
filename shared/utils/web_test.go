package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whimsyboard/whimsy/shared/errors"
)

func TestDecode(t *testing.T) {
	type TestStruct struct {
		Field1 string `json:"field1"`
		Field2 int    `json:"field2"`
	}

	tests := []struct {
		name        string
		requestBody string
		expectedErr *errors.ErrorWithStatusCode
	}{
		{
			name:        "Valid JSON",
			requestBody: `{"field1": "value", "field2": 123}`,
		},
		{
			name:        "Invalid JSON",
			requestBody: `{"field1": "value", "field2": 123`,
			expectedErr: &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400},
		},
		{
			name:        "Empty Body",
			requestBody: "",
			expectedErr: &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target TestStruct
			err := Decode(strings.NewReader(tt.requestBody), &target)

			if tt.expectedErr == nil {
				assert.NoError(t, err)
				assert.Equal(t, "value", target.Field1)
				return
			}
			e, ok := err.(*errors.ErrorWithStatusCode)
			require.True(t, ok, "Error should be ErrorWithStatusCode")
			assert.Equal(t, tt.expectedErr.Message, e.Message)
			assert.Equal(t, tt.expectedErr.StatusCode, e.StatusCode)
		})
	}
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrorAndStatusCode(rr, errors.New("board not found", http.StatusNotFound))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "board not found\n", rr.Body.String())
}

func TestWriteJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteJSON(rr, http.StatusCreated, map[string]string{"secure_url": "https://img/1.png"})
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"secure_url":"https://img/1.png"}`, rr.Body.String())
	})

	t.Run("unencodable", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteJSON(rr, http.StatusOK, make(chan int))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("error body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteJSONError(rr, errors.New("Image upload failed!", http.StatusBadGateway))
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.JSONEq(t, `{"message":"Image upload failed!"}`, rr.Body.String())
	})
}
