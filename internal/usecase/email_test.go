package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail_Accepts(t *testing.T) {
	valid := []string{
		"john@example.com",
		"a.b+tag@sub.domain.org",
		"maria@gmail.com",
		"x@hotmail.com.ar",
		"guest@empresa.museum",
		"someone@mail.co.uk",
	}

	for _, email := range valid {
		t.Run(email, func(t *testing.T) {
			assert.Nil(t, ValidateEmail(email))
		})
	}
}

func TestValidateEmail_Rejects(t *testing.T) {
	cases := []struct {
		email   string
		message string
	}{
		{"", "is required"},
		{"joão@example.com", "must be ASCII only"},
		{"john doe@example.com", "must not contain whitespace"},
		{"john@@example.com", "must contain exactly one @"},
		{"johnexample.com", "must contain exactly one @"},
		{"@example.com", "local part and domain are required"},
		{"john@", "local part and domain are required"},
		{"john@localhost", "domain must contain a dot"},
		{"john@example..com", "domain must not contain consecutive dots"},
		{"john@.example.com", "domain must not start or end with a dot"},
		{"john@example.com.", "domain must not start or end with a dot"},
		{"john@example.com,", "domain must not end with punctuation"},
		{"john@example.com;", "domain must not end with punctuation"},
		{"john@example.c", "top-level domain must be 2-6 alphanumeric characters"},
		{"john@example.company", "top-level domain must be 2-6 alphanumeric characters"},
		{"john@gmail.co", "looks like a mistyped mailbox provider domain"},
		{"john@hotmail.io", "looks like a mistyped mailbox provider domain"},
		{"john@YAHOO.CM", "looks like a mistyped mailbox provider domain"},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			verr := ValidateEmail(tc.email)
			require.NotNil(t, verr)
			assert.Equal(t, "email", verr.Field)
			assert.Equal(t, tc.message, verr.Message)
			assert.Equal(t, tc.email, verr.Value)
		})
	}
}

// Provedor conhecido com TLD curto legítimo de outro domínio não é erro de digitação.
func TestValidateEmail_ShortTLDOnlySuspiciousForProviders(t *testing.T) {
	assert.Nil(t, ValidateEmail("reservas@hotelboutique.co"))
	assert.Nil(t, ValidateEmail("hi@startup.io"))
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "example.com", EmailDomain("John@Example.COM"))
	assert.Equal(t, "", EmailDomain("no-at-sign"))
}
