package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ablemap", "session.json")

	s, err := OpenFileSession(path)
	require.NoError(t, err)
	_, ok := s.Credential()
	assert.False(t, ok)
	deviceID := s.DeviceID()
	assert.Len(t, deviceID, 36)

	require.NoError(t, s.SetCredential("tok-1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFileSession(path)
	require.NoError(t, err)
	cred, ok := reopened.Credential()
	assert.True(t, ok)
	assert.Equal(t, "tok-1", cred)
	assert.Equal(t, deviceID, reopened.DeviceID())

	require.NoError(t, reopened.Clear())
	again, err := OpenFileSession(path)
	require.NoError(t, err)
	_, ok = again.Credential()
	assert.False(t, ok)
	assert.Equal(t, deviceID, again.DeviceID(), "device id survives sign-out")
}

func TestFileSessionRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenFileSession(path)
	assert.Error(t, err)
}

func TestStaticSession(t *testing.T) {
	s := NewStaticSession("tok")
	cred, ok := s.Credential()
	assert.True(t, ok)
	assert.Equal(t, "tok", cred)

	require.NoError(t, s.Clear())
	_, ok = s.Credential()
	assert.False(t, ok)
}
