package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbridge/server/internal/models"
)

func TestIssueAndVerify(t *testing.T) {
	user := models.User{ID: uuid.New(), Username: "klaus"}

	token, err := IssueToken("test-secret", user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := VerifyToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "klaus", got.Username)
}

func TestVerifyWrongSecret(t *testing.T) {
	user := models.User{ID: uuid.New(), Username: "klaus"}
	token, err := IssueToken("secret-a", user)
	require.NoError(t, err)

	_, err = VerifyToken("secret-b", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := VerifyToken("test-secret", "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
