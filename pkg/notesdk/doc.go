/*
Package notesdk provides a client SDK for the jotter API with transparent
session management.

# Overview

The SDK wraps the jotter HTTP API behind a Client that owns the whole
token lifecycle. Access tokens are short-lived and held in memory only.
The refresh token never passes through application code at all: the server
delivers it as an HttpOnly cookie, the client's cookie jar returns it on
refresh and logout, and the server rotates it on every use.

# Getting Started

Create a client with a stable device identity and sign in:

	device, err := notesdk.LoadOrCreateDeviceInfo(".jotter/device.json")
	if err != nil {
		log.Fatal(err)
	}

	client := notesdk.NewClient("http://localhost:8080", device)

	auth, err := client.Signup(ctx, notesdk.SignupRequest{
		Email:    "sam@example.com",
		Username: "sam",
		Password: "a long passphrase",
	})

From then on every authenticated call manages its own tokens:

	notes, err := client.ListNotes(ctx)

	note, err := client.CreateNote(ctx, notesdk.NoteRequest{
		Title: "Groceries",
		Value: "eggs, coffee",
	})

# Automatic Refresh

When the server rejects an access token with 401, the client exchanges
the refresh cookie for a new token pair and retries the request once.
Concurrent requests that hit 401 at the same time share a single refresh;
only one request reaches the server, and the rest wait for its outcome.
If the refresh itself is rejected the client drops its auth state and the
caller sees the original 401.

# Sessions and Devices

The server keeps one active session per user and device, keyed by the
DeviceID sent in the x-device-info header. Keep the DeviceID stable
across runs (LoadOrCreateDeviceInfo persists it to a file) or every start
will look like a brand-new device.

The default cookie jar is in-memory, so sessions end with the process.
To survive restarts, set HTTPClient to one backed by a persistent jar and
call Resume at startup:

	restored, err := client.Resume(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if !restored {
		// No usable session, show the login flow.
	}

# Error Handling

API failures are returned as *APIError carrying the HTTP status and the
server's error code:

	_, err := client.GetNote(ctx, id)
	if notesdk.IsCode(err, notesdk.ErrorCodeNotFound) {
		// The note does not exist (or belongs to someone else).
	}

Authenticated calls made while signed out fail fast with
ErrNotAuthenticated before touching the network.

# Thread Safety

A Client is safe for concurrent use. Token state is guarded by a lock and
refreshes are deduplicated, so any number of goroutines can share one
Client.
*/
package notesdk
