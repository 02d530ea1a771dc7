package cache

import (
	"context"
	"fmt"
	"log"
)

// Entity tags the kind of record a mutation touched.
type Entity string

const (
	EntityProject     Entity = "project"
	EntityContributor Entity = "contributor"
	EntityIssue       Entity = "issue"
	EntityComment     Entity = "comment"
	EntityUser        Entity = "user"
)

// Audience resolves the users who can observe changes scoped to a project:
// the project's author plus all of its contributors.
type Audience interface {
	ProjectAudience(projectID uint64) ([]uint64, error)
}

// Invalidator bumps version counters after successful mutations. Services
// call it synchronously from every mutation path; it is never triggered by
// implicit hooks and never runs for denied requests.
type Invalidator struct {
	client *Client
	store  Audience
}

// NewInvalidator creates an Invalidator backed by the given audience store.
func NewInvalidator(client *Client, store Audience) *Invalidator {
	return &Invalidator{client: client, store: store}
}

// ObjectMutated invalidates every cached list page of every user who can see
// the project the mutation belongs to. Each (user, resource) pair is one
// atomic INCR on the fast store, so concurrent mutations never lose an
// increment. A failed increment is logged and skipped; staleness stays
// bounded by the page TTL.
func (i *Invalidator) ObjectMutated(ctx context.Context, entity Entity, projectID uint64) error {
	users, err := i.AudienceFor(projectID)
	if err != nil {
		return fmt.Errorf("failed to resolve audience for %s mutation: %w", entity, err)
	}

	i.InvalidateUsers(ctx, entity, users)
	return nil
}

// AudienceFor resolves the audience of a project. Exposed for deletes, where
// the audience must be captured before the rows disappear.
func (i *Invalidator) AudienceFor(projectID uint64) ([]uint64, error) {
	return i.store.ProjectAudience(projectID)
}

// InvalidateUsers bumps the version counter of every list endpoint for each
// given user.
func (i *Invalidator) InvalidateUsers(ctx context.Context, entity Entity, users []uint64) {
	for _, userID := range users {
		for _, resource := range allResources {
			if err := i.client.rdb.Incr(ctx, versionKey(resource, userID)).Err(); err != nil {
				log.Printf("cache: version bump failed for %s user %d after %s mutation: %v",
					resource, userID, entity, err)
			}
		}
	}
}
