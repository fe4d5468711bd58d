// Package transport abstracts the shared file drop that team members exchange
// sync blobs through. The canonical backend is FTP/FTPS; an S3-compatible
// bucket is supported behind the same contract.
package transport

import (
	"context"
	"errors"
)

// Client is the blob transport contract the sync orchestrator depends on.
//
// A Client is scoped to one unit of work: Connect at entry, Disconnect at
// exit, on every path. There is no automatic retry; failures are classified
// (see the sentinels below) and reported upward once per cycle.
type Client interface {
	// Connect establishes the session and enters the shared namespace.
	Connect(ctx context.Context) error

	// List returns all blob names in the shared namespace.
	List(ctx context.Context) ([]string, error)

	// Upload stores data under the given name.
	Upload(ctx context.Context, name string, data []byte) error

	// Download retrieves the blob with the given name.
	Download(ctx context.Context, name string) ([]byte, error)

	// Delete removes the named blob.
	Delete(ctx context.Context, name string) error

	// Disconnect closes the session. Safe to call when not connected.
	Disconnect() error
}

// Failure classes. Callers match with errors.Is; each class needs different
// remediation (credentials vs. configuration vs. network), so the consuming
// layer must keep them distinguishable.
var (
	// ErrAuth means the server rejected the credentials or denied permission.
	ErrAuth = errors.New("authentication failed")

	// ErrTLSRequired means the server insists on TLS but the configuration
	// has it disabled.
	ErrTLSRequired = errors.New("server requires TLS")

	// ErrTemporary is a transient server-side condition; retrying the cycle
	// later may succeed.
	ErrTemporary = errors.New("temporary transport error")

	// ErrConnection means the host was unreachable or the connection timed
	// out.
	ErrConnection = errors.New("connection failed")

	// ErrNotConnected is a programming error: an operation was attempted
	// outside a Connect/Disconnect pair.
	ErrNotConnected = errors.New("not connected")
)
