package permissions

// Context carries everything a predicate needs to know about an inbound
// request: the acting user, the intended action, the object targeted by the
// path, and any resource references present in the payload. Handlers build it
// from the HTTP request; predicates never touch the request directly.
type Context struct {
	// ActorID is the authenticated user, 0 for anonymous requests.
	ActorID uint64

	Action Action

	// ObjectID is the path parameter identifying the target object, 0 when absent.
	ObjectID uint64

	// ProjectRef is the "project" reference from the request body, 0 when absent.
	ProjectRef uint64

	// IssueRef is the "issue" reference from the request body, 0 when absent.
	IssueRef uint64
}

// Authenticated reports whether the request carries an acting user.
func (c Context) Authenticated() bool {
	return c.ActorID != 0
}
