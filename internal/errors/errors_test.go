package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusHelpers(t *testing.T) {
	conflict := &ErrorWithStatusCode{Message: "Email already in use", StatusCode: http.StatusConflict}
	notFound := &ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	unauthorized := &ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}

	assert.True(t, IsConflict(conflict))
	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsUnauthorized(unauthorized))

	assert.False(t, IsConflict(notFound))
	assert.False(t, IsNotFound(fmt.Errorf("plain error")))
}

func TestStatusHelpersUnwrap(t *testing.T) {
	conflict := &ErrorWithStatusCode{Message: "Email already in use", StatusCode: http.StatusConflict}
	wrapped := fmt.Errorf("register: %w", conflict)

	assert.True(t, IsConflict(wrapped), "a wrapped status error must keep its status")
	assert.False(t, IsNotFound(wrapped))
}
