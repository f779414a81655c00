package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/pkg/model"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(42, model.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ident, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), ident.UserID)
	assert.Equal(t, model.RoleAdmin, ident.Role)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalid, "token %q", tok)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-one", time.Hour)
	verifier := NewManager("secret-two", time.Hour)

	token, err := issuer.Issue(1, model.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Millisecond)

	token, err := m.Issue(1, model.RoleUser)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewManager("s", 0).TTL())
	assert.Equal(t, time.Minute, NewManager("s", time.Minute).TTL())
}
