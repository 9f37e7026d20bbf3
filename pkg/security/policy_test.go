package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{name: "valid", password: "Abcdef12", ok: true},
		{name: "too short", password: "abc", ok: false},
		{name: "missing uppercase", password: "abcdef12", ok: false},
		{name: "missing lowercase", password: "ABCDEF12", ok: false},
		{name: "missing digit", password: "Abcdefgh", ok: false},
		{name: "empty", password: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := CheckPasswordPolicy(tc.password)
			assert.Equal(t, tc.ok, errs.OK(), "violations: %v", errs)
		})
	}
}

func TestCheckPasswordPolicyListsEveryViolation(t *testing.T) {
	errs := CheckPasswordPolicy("abc")
	assert.Len(t, errs, 3)
}
