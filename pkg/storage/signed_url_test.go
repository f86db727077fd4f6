package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("submissions/a1/s1-1700000000000-essay.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	key, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "submissions/a1/s1-1700000000000-essay.pdf", key)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("file.txt")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, _, err = signer.Parse(token)
	require.Error(t, err)
}

func TestSignedURLSignerRejectsTamperedKey(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("a.txt")
	require.NoError(t, err)

	other, _, err := NewSignedURLSigner("other", time.Hour).Generate("b.txt")
	require.NoError(t, err)
	forged := strings.Split(other, ".")[0] + token[strings.Index(token, "."):]

	_, _, err = signer.Parse(forged)
	require.Error(t, err)
}

func TestSanitizeKey(t *testing.T) {
	key, err := SanitizeKey("submissions/a 1/../x?.pdf")
	require.NoError(t, err)
	assert.Equal(t, "submissions/x_.pdf", key)

	_, err = SanitizeKey("")
	require.Error(t, err)

	key, err = SanitizeKey("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", key)
}

func TestLocalStoragePutAndOpen(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	store, err := NewLocalStorage(t.TempDir(), "/api/v1/files/", signer)
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "1700000000000-notes.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/api/v1/files/"))

	file, name, err := store.OpenSigned(strings.TrimPrefix(url, "/api/v1/files/"))
	require.NoError(t, err)
	defer file.Close()
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "1700000000000-notes.txt", name)
}

func TestOSSPublicURL(t *testing.T) {
	store := &OSSStorage{cfg: OSSConfig{Endpoint: "http://localhost:9000", Bucket: "lms-files"}}
	assert.Equal(t, "http://localhost:9000/lms-files/a.txt", store.PublicURL("a.txt"))

	store.cfg.PublicBaseURL = "https://cdn.example.edu/"
	assert.Equal(t, "https://cdn.example.edu/a.txt", store.PublicURL("a.txt"))
}
