package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	s, err := Open(t.TempDir(), "https://cdn.example.com")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Get("episode:abc")
	assert.False(t, ok)

	require.NoError(t, s.Put("episode:abc", []byte("v1")))

	got, ok := s.Get("episode:abc")
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Delete("episode:abc"))
	_, ok = s.Get("episode:abc")
	assert.False(t, ok)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, "https://cdn.example.com")
	require.NoError(t, err)
	require.NoError(t, s.Put("project:the-wire", []byte("index")))
	require.NoError(t, s.Close())

	s2, err := Open(dir, "https://cdn.example.com")
	require.NoError(t, err)
	defer s2.Close()

	got, ok := s2.Get("project:the-wire")
	require.True(t, ok)
	assert.Equal(t, []byte("index"), got)
}

func TestStoreSeparateDirsPerRemote(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, "https://one.example.com")
	require.NoError(t, err)
	require.NoError(t, s.Put("k", []byte("v")))
	require.NoError(t, s.Close())

	s2, err := Open(dir, "https://two.example.com")
	require.NoError(t, err)
	defer s2.Close()

	_, ok := s2.Get("k")
	assert.False(t, ok)
}

func TestStoreMemoryOnlyMode(t *testing.T) {
	s, err := Open("", "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("episode:x", []byte("v")))
	got, ok := s.Get("episode:x")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestStoreDeletePrefix(t *testing.T) {
	s, err := Open(t.TempDir(), "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("episode:a", []byte("1")))
	require.NoError(t, s.Put("episode:b", []byte("2")))
	require.NoError(t, s.Put("project:a", []byte("3")))

	require.NoError(t, s.DeletePrefix("episode:"))

	_, ok := s.Get("episode:a")
	assert.False(t, ok)
	_, ok = s.Get("episode:b")
	assert.False(t, ok)
	_, ok = s.Get("project:a")
	assert.True(t, ok)
}

func TestStoreForEachPrefix(t *testing.T) {
	s, err := Open(t.TempDir(), "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("episode:a", []byte("1")))
	require.NoError(t, s.Put("episode:b", []byte("2")))
	require.NoError(t, s.Put("project:a", []byte("3")))

	seen := map[string]string{}
	require.NoError(t, s.ForEachPrefix("episode:", func(key string, value []byte) error {
		seen[key] = string(value)
		return nil
	}))

	assert.Equal(t, map[string]string{"episode:a": "1", "episode:b": "2"}, seen)
}

func TestStoreClear(t *testing.T) {
	s, err := Open(t.TempDir(), "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("episode:a", []byte("1")))
	require.NoError(t, s.Put("project:a", []byte("2")))

	require.NoError(t, s.Clear())

	_, ok := s.Get("episode:a")
	assert.False(t, ok)
	_, ok = s.Get("project:a")
	assert.False(t, ok)
}
