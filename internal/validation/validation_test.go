package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUp struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"min=6"`
	FirstName string `json:"firstName" validate:"min=2"`
}

type event struct {
	Date   string `json:"date" validate:"required,rfc3339"`
	Status string `json:"status" validate:"oneof=PENDING APPROVED REJECTED"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	err := v.Struct(signUp{Email: "alice@example.com", Password: "secret1", FirstName: "Alice"})
	assert.NoError(t, err)
}

func TestStruct_CollectsEveryViolationInFieldOrder(t *testing.T) {
	v := New()
	err := v.Struct(signUp{Email: "not-an-email", Password: "123", FirstName: "A"})
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 3)

	assert.Equal(t, Violation{Field: "email", Rule: "email", Message: "email must be a valid email address"}, verrs[0])
	assert.Equal(t, "password", verrs[1].Field)
	assert.Equal(t, "min", verrs[1].Rule)
	assert.Equal(t, "password must be at least 6 characters long", verrs[1].Message)
	assert.Equal(t, "firstName", verrs[2].Field)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestStruct_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(event{Date: "2025-03-01T10:30:00.000Z", Status: "APPROVED"}))

	err := v.Struct(event{Date: "01.03.2025", Status: "DONE"})
	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "rfc3339", verrs[0].Rule)
	assert.Equal(t, "oneof", verrs[1].Rule)
	assert.Equal(t, "status must be one of: PENDING, APPROVED, REJECTED", verrs[1].Message)
}
