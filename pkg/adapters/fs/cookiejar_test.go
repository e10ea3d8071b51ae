package fs_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCookieJar_SurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cookies.yaml")
	login := mustURL(t, "http://127.0.0.1:5000/api/v1/auth/login")
	refresh := mustURL(t, "http://127.0.0.1:5000/api/v1/auth/refresh")

	j, err := fs.NewCookieJar(path, nil)
	require.NoError(t, err)
	assert.Empty(t, j.Cookies(refresh))

	j.SetCookies(login, []*http.Cookie{
		{Name: "refreshToken", Value: "R1", Path: "/", HttpOnly: true, MaxAge: 3600},
		{Name: "gone", Value: "x", Path: "/", Expires: time.Now().Add(-time.Hour)},
	})

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.Equal(t, 1, j.Len())

	reloaded, err := fs.NewCookieJar(path, nil)
	require.NoError(t, err)
	cookies := reloaded.Cookies(refresh)
	require.Len(t, cookies, 1)
	assert.Equal(t, "refreshToken", cookies[0].Name)
	assert.Equal(t, "R1", cookies[0].Value)

	assert.Empty(t, reloaded.Cookies(mustURL(t, "http://other.example/api/v1/auth/refresh")))
}

func TestCookieJar_ReplaceAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.yaml")
	u := mustURL(t, "http://127.0.0.1:5000/api/v1/auth/refresh")

	j, err := fs.NewCookieJar(path, nil)
	require.NoError(t, err)

	j.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "R1", Path: "/"}})
	j.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "R2", Path: "/"}})
	assert.Equal(t, 1, j.Len(), "same name and path replaces")

	reloaded, err := fs.NewCookieJar(path, nil)
	require.NoError(t, err)
	require.Len(t, reloaded.Cookies(u), 1)
	assert.Equal(t, "R2", reloaded.Cookies(u)[0].Value)

	reloaded.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Path: "/", MaxAge: -1}})
	assert.Equal(t, 0, reloaded.Len())
	assert.Empty(t, reloaded.Cookies(u))

	again, err := fs.NewCookieJar(path, nil)
	require.NoError(t, err)
	assert.Empty(t, again.Cookies(u))
}

func TestCookieJar_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cookies: [unterminated"), 0600))

	j, err := fs.NewCookieJar(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, j.Len())
}

func TestTokenStore_ClearDropsCookies(t *testing.T) {
	dir := t.TempDir()
	jar, err := fs.NewCookieJar(filepath.Join(dir, "cookies.yaml"), nil)
	require.NoError(t, err)
	u := mustURL(t, "http://127.0.0.1:5000/api/v1/auth/login")
	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "R1", Path: "/"}})

	s := fs.NewTokenStore(filepath.Join(dir, "token.yaml"))
	s.Jar = jar
	require.NoError(t, s.Save("tok"))
	assert.Equal(t, 1, s.State().(fs.TokenStoreState).Cookies)

	require.NoError(t, s.Clear())
	assert.Empty(t, jar.Cookies(u))
	assert.NoFileExists(t, filepath.Join(dir, "cookies.yaml"))
	require.NoError(t, s.Clear())
}
