package notesdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func testDevice() DeviceInfo {
	return DeviceInfo{
		DeviceID:   "device-test-1",
		DeviceName: "unit-test",
		Platform:   "linux",
	}
}

// writeStubData mimics the server's success envelope.
func writeStubData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "data": data})
}

// writeStubError mimics the server's error envelope.
func writeStubError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": map[string]string{"code": code, "message": message},
	})
}

func stubAuthData(token string) map[string]any {
	return map[string]any{
		"accessToken": token,
		"user": map[string]any{
			"id":       "user-1",
			"email":    "sam@example.com",
			"username": "sam",
		},
	}
}

func TestClientLoginAndAuthedCall(t *testing.T) {
	t.Parallel()

	var sawNotesDeviceHeader atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var device DeviceInfo
		require.NoError(t, json.Unmarshal([]byte(r.Header.Get(DeviceInfoHeader)), &device))
		require.Equal(t, "device-test-1", device.DeviceID)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "sam", req.UsernameOrEmail)

		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/", HttpOnly: true})
		writeStubData(w, http.StatusCreated, stubAuthData("a1"))
	})
	mux.HandleFunc("GET /notes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(DeviceInfoHeader) != "" {
			sawNotesDeviceHeader.Store(true)
		}
		require.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
		writeStubData(w, http.StatusOK, map[string]any{"notes": []map[string]any{
			{"id": "n1", "title": "First", "value": "hello"},
		}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, testDevice())

	auth, err := client.Login(context.Background(), LoginRequest{UsernameOrEmail: "sam", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "a1", auth.AccessToken)
	require.Equal(t, "a1", client.AccessToken())

	user := client.User()
	require.NotNil(t, user)
	require.Equal(t, "sam", user.Username)

	notes, err := client.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "First", notes[0].Title)

	// Device info travels on auth endpoints only.
	require.False(t, sawNotesDeviceHeader.Load())
}

func TestClientRequiresSession(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeStubError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "Unauthorized")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testDevice())

	_, err := client.ListNotes(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)

	// The rejection happens client-side, before any request goes out.
	require.Zero(t, hits.Load())
}

func TestClientSharedRefresh(t *testing.T) {
	t.Parallel()

	const workers = 8

	var (
		refreshCalls atomic.Int32
		staleHits    atomic.Int32
	)
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/", HttpOnly: true})
		writeStubData(w, http.StatusCreated, stubAuthData("stale"))
	})
	mux.HandleFunc("POST /refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)

		cookie, err := r.Cookie("refreshToken")
		require.NoError(t, err)
		require.Equal(t, "r1", cookie.Value)

		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r2", Path: "/", HttpOnly: true})
		writeStubData(w, http.StatusOK, stubAuthData("fresh"))
	})
	mux.HandleFunc("GET /notes", func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer stale":
			// Hold every stale request until all workers are in flight,
			// so each of them reads the stale token before any refresh
			// can finish.
			if staleHits.Add(1) == workers {
				close(release)
			}
			<-release
			writeStubError(w, http.StatusUnauthorized, ErrorCodeInvalidToken, "Invalid access token")
		case "Bearer fresh":
			writeStubData(w, http.StatusOK, map[string]any{"notes": []map[string]any{}})
		default:
			writeStubError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "Unauthorized")
		}
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, testDevice())
	_, err := client.Login(context.Background(), LoginRequest{UsernameOrEmail: "sam", Password: "pw"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.ListNotes(context.Background())
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoErrorf(t, errs[i], "worker %d", i)
	}

	// Every worker saw the 401, but only one refresh reached the server.
	require.Equal(t, int32(workers), staleHits.Load())
	require.Equal(t, int32(1), refreshCalls.Load())
	require.Equal(t, "fresh", client.AccessToken())
}

func TestClientRefreshFailureSurfacesOriginalRejection(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/"})
		writeStubData(w, http.StatusCreated, stubAuthData("stale"))
	})
	mux.HandleFunc("POST /refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeStubError(w, http.StatusUnauthorized, ErrorCodeInvalidToken, "Invalid refresh token")
	})
	mux.HandleFunc("GET /notes", func(w http.ResponseWriter, r *http.Request) {
		writeStubError(w, http.StatusUnauthorized, ErrorCodeInvalidToken, "Invalid access token")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, testDevice())
	_, err := client.Login(context.Background(), LoginRequest{UsernameOrEmail: "sam", Password: "pw"})
	require.NoError(t, err)

	_, err = client.ListNotes(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Invalid access token", apiErr.Message)

	// The failed refresh signed the client out.
	require.Empty(t, client.AccessToken())
	require.Nil(t, client.User())
}

func TestClientResume(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/"})
		writeStubData(w, http.StatusCreated, stubAuthData("a1"))
	})
	mux.HandleFunc("POST /refresh-token", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("refreshToken")
		if err != nil || cookie.Value != "r1" {
			writeStubError(w, http.StatusUnauthorized, ErrorCodeInvalidToken, "Invalid refresh token")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r2", Path: "/"})
		writeStubData(w, http.StatusOK, stubAuthData("a2"))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Run("no session to resume", func(t *testing.T) {
		client := NewClient(srv.URL, testDevice())

		restored, err := client.Resume(context.Background())
		require.NoError(t, err)
		require.False(t, restored)
		require.Empty(t, client.AccessToken())
	})

	t.Run("restores from refresh cookie", func(t *testing.T) {
		client := NewClient(srv.URL, testDevice())
		_, err := client.Login(context.Background(), LoginRequest{UsernameOrEmail: "sam", Password: "pw"})
		require.NoError(t, err)

		// Drop the in-memory token, keeping the cookie jar, like a client
		// whose access token aged out while the app was idle.
		client.clearAuth()

		restored, err := client.Resume(context.Background())
		require.NoError(t, err)
		require.True(t, restored)
		require.Equal(t, "a2", client.AccessToken())

		user := client.User()
		require.NotNil(t, user)
		require.Equal(t, "sam", user.Username)
	})
}

func TestClientLogout(t *testing.T) {
	t.Parallel()

	t.Run("clears auth state", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/"})
			writeStubData(w, http.StatusCreated, stubAuthData("a1"))
		})
		mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("refreshToken")
			require.NoError(t, err)
			require.Equal(t, "r1", cookie.Value)

			http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "", Path: "/", MaxAge: -1})
			writeStubData(w, http.StatusOK, map[string]string{"message": "Logged out"})
		})

		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewClient(srv.URL, testDevice())
		_, err := client.Login(context.Background(), LoginRequest{UsernameOrEmail: "sam", Password: "pw"})
		require.NoError(t, err)

		require.NoError(t, client.Logout(context.Background()))
		require.Empty(t, client.AccessToken())
		require.Nil(t, client.User())
	})

	t.Run("clears auth state even when the server rejects", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
			writeStubData(w, http.StatusCreated, stubAuthData("a1"))
		})
		mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
			writeStubError(w, http.StatusUnauthorized, ErrorCodeInvalidToken, "Invalid refresh token")
		})

		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewClient(srv.URL, testDevice())
		_, err := client.Login(context.Background(), LoginRequest{UsernameOrEmail: "sam", Password: "pw"})
		require.NoError(t, err)

		err = client.Logout(context.Background())
		require.Error(t, err)
		require.Empty(t, client.AccessToken())
	})
}

func TestClientErrorParsing(t *testing.T) {
	t.Parallel()

	t.Run("typed code from envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeStubError(w, http.StatusConflict, ErrorCodeConflict, "Account already exists")
		}))
		defer srv.Close()

		client := NewClient(srv.URL, testDevice())
		_, err := client.Signup(context.Background(), SignupRequest{Email: "a@b.c", Username: "a", Password: "x"})

		require.True(t, IsCode(err, ErrorCodeConflict))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.Status)
		require.Equal(t, "Account already exists", apiErr.Message)
	})

	t.Run("non-envelope body falls back to status text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, testDevice())
		_, err := client.Login(context.Background(), LoginRequest{UsernameOrEmail: "sam", Password: "pw"})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadGateway, apiErr.Status)
		require.Equal(t, ErrorCodeServerError, apiErr.Code)
	})
}
