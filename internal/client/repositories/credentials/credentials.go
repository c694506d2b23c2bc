// Package credentials persists the signed-in user's access token, refresh
// token and serialized profile as three keys that are always written and
// cleared together.
package credentials

import "context"

// Keys under which the credentials are stored in the metadata table.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Keys lists every persisted credential key.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// Credentials is the persisted form of a session. User holds the profile as
// serialized JSON; it is decoded by the session layer so that a corrupt
// value can be detected there.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         []byte
}

type Repository interface {
	// Load returns whatever is stored; absent keys yield zero values.
	Load(ctx context.Context) (Credentials, error)
	// Save writes all three keys atomically.
	Save(ctx context.Context, c Credentials) error
	// Clear removes all three keys atomically. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}
