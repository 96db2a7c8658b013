package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	"github.com/jetonapp/jeton/internal/domain/model"
)

var userSeq atomic.Int64

// UserRequestBuilder provides a fluent interface for building CreateUserRequest
// objects for testing. Each builder gets a unique email and username so tests
// sharing a database do not collide on the unique indexes.
type UserRequestBuilder struct {
	req *model.CreateUserRequest
}

// NewUserRequest creates a new UserRequestBuilder with sensible defaults.
func NewUserRequest() *UserRequestBuilder {
	n := userSeq.Add(1)
	return &UserRequestBuilder{
		req: &model.CreateUserRequest{
			Email:        fmt.Sprintf("user%d@example.com", n),
			Username:     fmt.Sprintf("user%d", n),
			PasswordHash: "$2a$10$test.hash.placeholder.value.not.a.secret",
			Role:         domainauth.RoleAdmin,
		},
	}
}

// WithEmail sets the email address.
func (b *UserRequestBuilder) WithEmail(email string) *UserRequestBuilder {
	b.req.Email = email
	return b
}

// WithUsername sets the username.
func (b *UserRequestBuilder) WithUsername(username string) *UserRequestBuilder {
	b.req.Username = username
	return b
}

// WithPasswordHash sets the stored password hash.
func (b *UserRequestBuilder) WithPasswordHash(hash string) *UserRequestBuilder {
	b.req.PasswordHash = hash
	return b
}

// WithRole sets the account role.
func (b *UserRequestBuilder) WithRole(role domainauth.Role) *UserRequestBuilder {
	b.req.Role = role
	return b
}

// Build returns the constructed request.
func (b *UserRequestBuilder) Build() *model.CreateUserRequest {
	cp := *b.req
	return &cp
}

// GrantRequestBuilder provides a fluent interface for building
// CreateGrantRequest objects for testing.
type GrantRequestBuilder struct {
	req *model.CreateGrantRequest
}

// NewGrantRequest creates a builder defaulting to a 14-day trial starting now.
func NewGrantRequest(userID string) *GrantRequestBuilder {
	now := time.Now()
	return &GrantRequestBuilder{
		req: &model.CreateGrantRequest{
			UserID:    userID,
			Type:      model.GrantTrial,
			StartDate: now,
			EndDate:   now.Add(14 * 24 * time.Hour),
		},
	}
}

// WithType sets the grant type.
func (b *GrantRequestBuilder) WithType(t model.GrantType) *GrantRequestBuilder {
	b.req.Type = t
	return b
}

// WithWindow sets the validity window.
func (b *GrantRequestBuilder) WithWindow(start, end time.Time) *GrantRequestBuilder {
	b.req.StartDate = start
	b.req.EndDate = end
	return b
}

// Expired shifts the window fully into the past.
func (b *GrantRequestBuilder) Expired() *GrantRequestBuilder {
	now := time.Now()
	b.req.StartDate = now.Add(-30 * 24 * time.Hour)
	b.req.EndDate = now.Add(-1 * 24 * time.Hour)
	return b
}

// Build returns the constructed request.
func (b *GrantRequestBuilder) Build() *model.CreateGrantRequest {
	cp := *b.req
	return &cp
}

// NewStepRequest builds a completed onboarding step submission.
func NewStepRequest(userID string, step model.StepName) *model.UpsertStepRequest {
	return &model.UpsertStepRequest{
		UserID:   userID,
		StepName: step,
		Status:   model.StepStatusCompleted,
		Data:     json.RawMessage(`{}`),
	}
}
