// Package credential persists the single bearer credential of the client.
//
// Exactly one opaque string is kept under StorageKey. The Session Provider
// writes it on login and logout; the Request Gateway clears it when the
// backend invalidates it, unless a newer sign-in replaced it meanwhile.
// Everything else only reads.
package credential

import "context"

// StorageKey is the fixed key the credential is stored under.
const StorageKey = "access_token"

// Store holds one opaque credential string.
type Store interface {
	// Get returns the stored credential, or "" when none is stored.
	Get(ctx context.Context) (string, error)
	// Set replaces the stored credential.
	Set(ctx context.Context, credential string) error
	// Clear removes the stored credential. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// ClearIf removes the stored credential only while it still equals
	// expected, and reports whether it did.
	ClearIf(ctx context.Context, expected string) (bool, error)
}
