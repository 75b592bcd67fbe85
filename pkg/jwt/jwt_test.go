package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "super-secret"
	testIssuer = "stockmaster-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "inventory_manager", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, role, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "inventory_manager", role)
}

func TestGenerate_SecretVacioFalla(t *testing.T) {
	_, err := Generate("", "user-1", "admin", testIssuer, 60)
	assert.Error(t, err)
}

func TestParse_FirmaIncorrectaFalla(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "admin", testIssuer, 60)
	require.NoError(t, err)

	_, _, err = Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpiradoFalla(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err, "token con expiración en el pasado debe rechazarse")
}

func TestParse_TokenMalformadoFalla(t *testing.T) {
	_, _, err := Parse(testSecret, "no.es.un-jwt")
	assert.Error(t, err)
}
