package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidArgument", ErrInvalidArgument},
		{"ErrAllocationFailure", ErrAllocationFailure},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotFound", ErrNotFound},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrEngineNotReady", ErrEngineNotReady},
		{"ErrEngineFailed", ErrEngineFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrInvalidArgument_DistinctFromAllocationFailure(t *testing.T) {
	assert.False(t, errors.Is(ErrInvalidArgument, ErrAllocationFailure))
	assert.False(t, errors.Is(ErrAllocationFailure, ErrInvalidArgument))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid argument", ErrInvalidArgument, CodeInvalidArgument},
		{"wrapped invalid argument", fmt.Errorf("word1: %w", ErrInvalidArgument), CodeInvalidArgument},
		{"invalid input", ErrInvalidInput, CodeInvalidArgument},
		{"unsupported type", ErrUnsupportedType, CodeInvalidArgument},
		{"allocation", fmt.Errorf("arena: %w", ErrAllocationFailure), CodeAllocationFailure},
		{"not ready", ErrEngineNotReady, CodeNotReady},
		{"engine failed", ErrEngineFailed, CodeNotReady},
		{"not found", ErrNotFound, CodeNotFound},
		{"other", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
