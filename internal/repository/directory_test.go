// internal/repository/directory_test.go
package repository

import (
	"crypto/sha1"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_hashSSHA(t *testing.T) {
	password := "S3cret-Passw0rd!"

	hashed, err := hashSSHA(password)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hashed, "{SSHA}"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(hashed, "{SSHA}"))
	require.NoError(t, err)
	// SHA-1ダイジェスト20バイト + ソルト4バイト
	require.Len(t, raw, 24)

	digest, salt := raw[:20], raw[20:]
	h := sha1.New()
	h.Write([]byte(password))
	h.Write(salt)
	assert.Equal(t, h.Sum(nil), digest)

	// ソルトにより毎回異なるハッシュになる
	hashed2, err := hashSSHA(password)
	require.NoError(t, err)
	assert.NotEqual(t, hashed, hashed2)
}
