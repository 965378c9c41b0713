package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"store-service/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssue(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ISSUER", "farm-auth")
	t.Setenv("JWT_AUDIENCE", "store-api")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "issue", "--role", "admin", "--user", "0b7f2a52-8d7c-4c1e-9a57-5b0c2f6f3b11", "--ttl", "1h"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var signed string
	for _, line := range strings.Split(out.String(), "\n") {
		if v, ok := strings.CutPrefix(line, "token:"); ok {
			signed = strings.TrimSpace(v)
		}
	}
	require.NotEmpty(t, signed, out.String())

	claims, err := token.NewHSProvider("s3cret", "farm-auth", "store-api").ParseAndValidateAccess(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "0b7f2a52-8d7c-4c1e-9a57-5b0c2f6f3b11", claims.UserID.String())
	assert.True(t, claims.IsAdmin())
}

func TestTokenIssue_RejectsUnknownRole(t *testing.T) {
	rootCmd.SetArgs([]string{"token", "issue", "--role", "root"})
	assert.Error(t, rootCmd.ExecuteContext(context.Background()))
}
