package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"sentinel", ErrAlreadyFollowing, KindConflict},
		{"wrapped sentinel", fmt.Errorf("follow: %w", ErrInvalidTarget), KindValidation},
		{"constructor", NotFound("user not found"), KindNotFound},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindTimeout},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorIs_MatchesSentinelByKindAndMessage(t *testing.T) {
	err := fmt.Errorf("svc: %w", &Error{Kind: KindConflict, Message: ErrDuplicateEmail.Message})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NotErrorIs(t, err, ErrAlreadyFollowing)
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("load user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, err.Kind)
	assert.Contains(t, err.Error(), "connection refused")
}
