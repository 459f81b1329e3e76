// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// User represents an account stored on the server. The password is stored
// as an Argon2id hash with a per-user salt, never in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Name      string
	Email     string // unique
	PwdHash   []byte // Argon2id(password, SaltAuth)
	SaltAuth  []byte // per-user auth salt
	Role      string // "USER" unless promoted out of band
	CreatedAt time.Time
}

// SafeUser is the public projection of a user, safe to return to clients.
type SafeUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role,omitempty"`
}

// Safe returns the client-visible projection of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Collection is a user-uploaded unit of library content: metadata plus a
// cover image and one data file, both referenced by public content paths.
type Collection struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CoverURL    string    `json:"coverUrl"`
	FileURL     string    `json:"fileUrl"`
	AuthorID    uuid.UUID `json:"authorId"`
	IsApproved  bool      `json:"isApproved"` // always false at ingestion time
	CreatedAt   time.Time `json:"createdAt"`

	// Author is populated by reads that join the author relation; nil otherwise.
	Author *SafeUser `json:"author,omitempty"`
}

// IngestInput is the validated input of the collection-ingestion pipeline.
// CoverData and FileData carry data-URL encoded file contents.
type IngestInput struct {
	Title       string
	Description string
	Category    string
	CoverName   string
	CoverData   string
	FileName    string
	FileData    string
	AuthorID    string // optional; trusted verbatim when non-empty
}

// DashboardStats aggregates library-wide counters and recent uploads.
type DashboardStats struct {
	TotalCollections   int64        `json:"totalCollections"`
	TotalUsers         int64        `json:"totalUsers"`
	PendingCollections int64        `json:"pendingCollections"`
	RecentCollections  []Collection `json:"recentCollections"`
}
