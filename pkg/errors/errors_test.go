package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrDuplicateFeature, "feature already registered")

	assert.Equal(t, ErrDuplicateFeature, err.Code)
	assert.Equal(t, "[DUPLICATE_FEATURE] feature already registered", err.Error())
	assert.Nil(t, err.Wrapped)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrNotFound, "feature '%s' not found", "highlight")

	assert.Equal(t, "[NOT_FOUND] feature 'highlight' not found", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("wraps underlying error", func(t *testing.T) {
		inner := fmt.Errorf("syntax error at line 3")
		err := Wrap(inner, ErrDocumentParse, "failed to parse document")

		require.NotNil(t, err)
		assert.Equal(t, "[DOCUMENT_PARSE] failed to parse document: syntax error at line 3", err.Error())
		assert.True(t, errors.Is(err, inner))
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrInternal, "should not happen"))
		assert.Nil(t, Wrapf(nil, ErrInternal, "should not happen: %d", 42))
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{
			name: "matching code",
			err:  New(ErrDuplicateFeature, "dup"),
			code: ErrDuplicateFeature,
			want: true,
		},
		{
			name: "different code",
			err:  New(ErrDuplicateFeature, "dup"),
			code: ErrNotFound,
			want: false,
		},
		{
			name: "wrapped in plain error",
			err:  fmt.Errorf("outer: %w", New(ErrAbstractInstantiation, "base type")),
			code: ErrAbstractInstantiation,
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			code: ErrUnknown,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrFeatureInit, GetErrorCode(New(ErrFeatureInit, "init failed")))
	assert.Equal(t, ErrUnknown, GetErrorCode(errors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrDuplicateFeature, "dup").
		WithDetail("feature", "highlight").
		WithDetail("element", "div")

	assert.Equal(t, "highlight", err.Details["feature"])
	assert.Equal(t, "div", err.Details["element"])
}

func TestErrorsIsAcrossCodes(t *testing.T) {
	a := New(ErrNotFound, "first")
	b := New(ErrNotFound, "second")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, New(ErrInternal, "other")))
}
