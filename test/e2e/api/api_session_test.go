package api_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jotterhq/jotter/pkg/notesdk"
)

// refreshCookie digs the refresh cookie out of a client's jar.
func refreshCookie(t *testing.T, client *notesdk.Client, baseURL string) *http.Cookie {
	t.Helper()

	u, err := url.Parse(baseURL)
	require.NoError(t, err)

	for _, c := range client.HTTPClient.Jar.Cookies(u) {
		if c.Name == "refreshToken" {
			return c
		}
	}

	t.Fatal("no refresh cookie in jar")
	return nil
}

// plantRefreshCookie replaces the refresh cookie in a client's jar.
func plantRefreshCookie(t *testing.T, client *notesdk.Client, baseURL string, cookie *http.Cookie) {
	t.Helper()

	u, err := url.Parse(baseURL)
	require.NoError(t, err)

	client.HTTPClient.Jar.SetCookies(u, []*http.Cookie{cookie})
}

// TestRefreshRotation verifies that a refresh hands out a fresh token pair
// and the session keeps working afterwards.
func TestRefreshRotation(t *testing.T) {
	baseURL, cleanup := setupJotterContainer(t)
	defer cleanup()

	client := newDeviceClient(t, baseURL, "laptop")
	auth := signupAlice(t, client)

	oldAccess := auth.AccessToken
	oldCookie := refreshCookie(t, client, baseURL)

	require.NoError(t, client.Refresh(t.Context()))

	newAccess := client.AccessToken()
	newCookie := refreshCookie(t, client, baseURL)

	require.NotEqual(t, oldAccess, newAccess, "Access token should be rotated")
	require.NotEqual(t, oldCookie.Value, newCookie.Value, "Refresh token should be rotated")

	// The rotated session is live
	_, err := client.ListNotes(t.Context())
	require.NoError(t, err)

	t.Logf("Refresh rotated both tokens")
}

// TestRefreshTokenSingleUse verifies that a rotated-away refresh token is
// dead on arrival, without harming the live session.
func TestRefreshTokenSingleUse(t *testing.T) {
	baseURL, cleanup := setupJotterContainer(t)
	defer cleanup()

	client := newDeviceClient(t, baseURL, "laptop")
	signupAlice(t, client)

	usedCookie := refreshCookie(t, client, baseURL)

	require.NoError(t, client.Refresh(t.Context()))
	liveCookie := refreshCookie(t, client, baseURL)

	// Replaying the superseded cookie fails
	plantRefreshCookie(t, client, baseURL, usedCookie)
	err := client.Refresh(t.Context())
	assertAPICode(t, err, notesdk.ErrorCodeInvalidToken, "Superseded refresh token rejected")

	// The current session survived the replay attempt
	plantRefreshCookie(t, client, baseURL, liveCookie)
	require.NoError(t, client.Refresh(t.Context()))

	t.Logf("Replayed token rejected, live session intact")
}

// TestDeviceIsolation verifies sessions are scoped per device: each device
// refreshes independently, logout only kills its own session, and logging
// in again on a device replaces that device's session.
func TestDeviceIsolation(t *testing.T) {
	baseURL, cleanup := setupJotterContainer(t)
	defer cleanup()

	laptop := newDeviceClient(t, baseURL, "laptop")
	signupAlice(t, laptop)

	phone := newDeviceClient(t, baseURL, "phone")
	_, err := phone.Login(t.Context(), notesdk.LoginRequest{
		UsernameOrEmail: "alice",
		Password:        alicePassword,
	})
	require.NoError(t, err)

	// Both devices hold independent sessions
	require.NoError(t, laptop.Refresh(t.Context()))
	require.NoError(t, phone.Refresh(t.Context()))

	// Logging out the laptop leaves the phone untouched
	require.NoError(t, laptop.Logout(t.Context()))
	require.NoError(t, phone.Refresh(t.Context()))

	_, err = phone.ListNotes(t.Context())
	require.NoError(t, err)

	t.Logf("Laptop logout left the phone session alive")

	// A second login on the same device replaces that device's session
	phoneAgain := notesdk.NewClient(baseURL, phone.Device)
	_, err = phoneAgain.Login(t.Context(), notesdk.LoginRequest{
		UsernameOrEmail: "alice",
		Password:        alicePassword,
	})
	require.NoError(t, err)

	err = phone.Refresh(t.Context())
	assertAPICode(t, err, notesdk.ErrorCodeInvalidToken, "Replaced device session rejected")

	require.NoError(t, phoneAgain.Refresh(t.Context()))

	t.Logf("Relogin replaced the old phone session")
}

// TestResumeSession verifies a client can silently restore a session from
// its refresh cookie after dropping the access token.
func TestResumeSession(t *testing.T) {
	baseURL, cleanup := setupJotterContainer(t)
	defer cleanup()

	client := newDeviceClient(t, baseURL, "laptop")
	signupAlice(t, client)

	_, err := client.CreateNote(t.Context(), notesdk.NoteRequest{Title: "before", Value: "resume test"})
	require.NoError(t, err)

	// A brand-new client with no cookie has nothing to resume.
	fresh := newDeviceClient(t, baseURL, "fresh")
	restored, err := fresh.Resume(t.Context())
	require.NoError(t, err)
	require.False(t, restored, "Nothing to resume on a fresh client")

	// Hand the cookie to a new client for the same device, like a browser
	// reopening with only the HttpOnly cookie left.
	cookie := refreshCookie(t, client, baseURL)
	reopened := notesdk.NewClient(baseURL, client.Device)
	plantRefreshCookie(t, reopened, baseURL, cookie)

	restored, err = reopened.Resume(t.Context())
	require.NoError(t, err)
	require.True(t, restored, "Resume should restore the session")
	require.NotEmpty(t, reopened.AccessToken())

	notes, err := reopened.ListNotes(t.Context())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "before", notes[0].Title)

	t.Logf("Session resumed from refresh cookie")
}

// TestExpiredAccessTokenTransparentRefresh verifies the client recovers
// from an access token the server no longer accepts without the caller
// noticing.
func TestExpiredAccessTokenTransparentRefresh(t *testing.T) {
	baseURL, cleanup := setupJotterContainer(t)
	defer cleanup()

	client := newDeviceClient(t, baseURL, "laptop")
	signupAlice(t, client)

	// Sabotage the in-memory access token. The next authenticated call
	// gets a 401, refreshes via the cookie and retries on its own.
	client.SetAccessToken("tampered." + client.AccessToken())

	notes, err := client.ListNotes(t.Context())
	require.NoError(t, err, "Authenticated call should survive a rejected access token")
	require.Empty(t, notes)

	require.NotContains(t, client.AccessToken(), "tampered.",
		"Client should hold the refreshed token")

	t.Logf("Rejected access token was refreshed transparently")
}
