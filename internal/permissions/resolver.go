package permissions

// Object is a loaded record an object-level check can be evaluated against.
// Each model states its owning project and author explicitly; predicates never
// probe attributes at runtime.
type Object interface {
	// OwningProjectID returns the project the object belongs to, 0 when none resolves.
	OwningProjectID() uint64

	// ObjectAuthorID returns the object's author, 0 when the object has none.
	ObjectAuthorID() uint64
}

// Resolver looks up the relationships predicates depend on. A missing record
// is reported through ok=false (and treated as a denial by callers); err is
// reserved for store failures, which propagate untouched.
type Resolver interface {
	// ProjectAuthorID returns the author of the given project.
	ProjectAuthorID(projectID uint64) (authorID uint64, ok bool, err error)

	// IssueProjectID returns the project an issue belongs to.
	IssueProjectID(issueID uint64) (projectID uint64, ok bool, err error)

	// ContributorProjectID returns the project a contributor record belongs to.
	ContributorProjectID(contributorID uint64) (projectID uint64, ok bool, err error)

	// IsContributor reports whether the user is a contributor of the project.
	IsContributor(projectID, userID uint64) (bool, error)

	// IsContributorOrAuthor reports whether the user is a contributor of the
	// project or its author.
	IsContributorOrAuthor(projectID, userID uint64) (bool, error)
}
