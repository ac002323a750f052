package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_ErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{name: "nil error", err: nil, fallback: "fb", want: "fb"},
		{name: "plain error", err: errors.New("boom"), fallback: "fb", want: "boom"},
		{
			name:     "validation error surfaces the first field",
			err:      NewValidationError(errors.New("invalid"), FieldError{Field: "email", Error: "must be a valid email address"}),
			fallback: "fb",
			want:     "email: must be a valid email address",
		},
		{
			name:     "fieldless validation error uses its message",
			err:      NewValidationError(errors.New("invalid payload")),
			fallback: "fb",
			want:     "invalid payload",
		},
		{
			name:     "wrapped error still resolves",
			err:      errors.Wrap(NewConflictError("Already enrolled in this course"), "enroll"),
			fallback: "fb",
			want:     "enroll: Already enrolled in this course",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err, tt.fallback))
		})
	}
}

func Test_ErrorPredicates(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError(errors.New("bad"))))
	assert.True(t, IsAuthentication(NewAuthenticationError("bad creds")))
	assert.True(t, IsAuthorization(NewAuthorizationError("expired")))
	assert.True(t, IsConflict(NewConflictError("dup")))
	assert.True(t, IsNotFound(NewNotFoundError("gone")))
	assert.True(t, IsNetwork(NewNetworkError(errors.New("refused"))))

	// predicates see through pkg/errors wrapping
	assert.True(t, IsConflict(errors.Wrap(NewConflictError("dup"), "enroll")))
	assert.False(t, IsConflict(NewNotFoundError("gone")))
}

func Test_CleanString(t *testing.T) {
	assert.Equal(t, "Asha", CleanString("  Asha "))
	assert.Equal(t, "asha@test.cd", CleanString(" ASHA@Test.CD ", true))
}
