package notification

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsOptionMissing(t *testing.T) {
	t.Setenv("FCM_SERVICE_ACCOUNT_JSON", "")

	_, err := credentialsOption("")
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = credentialsOption(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialsOptionBadBase64(t *testing.T) {
	t.Setenv("FCM_SERVICE_ACCOUNT_JSON", "not base64!!")

	_, err := credentialsOption("")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialsOptionFromEnv(t *testing.T) {
	t.Setenv("FCM_SERVICE_ACCOUNT_JSON", "e30=")

	opt, err := credentialsOption("")
	require.NoError(t, err)
	assert.NotNil(t, opt)
}
