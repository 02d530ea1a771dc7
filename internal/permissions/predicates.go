package permissions

// Denial is an authorization failure carrying the predicate's fixed message.
// It is a terminal condition: callers report it to the client and never retry
// it or escalate it into a fault.
type Denial struct {
	Message string
}

func (d *Denial) Error() string {
	return d.Message
}

func deny(message string) error {
	return &Denial{Message: message}
}

// Fixed denial messages, one per predicate.
const (
	MsgAuthenticationRequired = "Authentication required."
	MsgSelfOnly               = "You can only access your own account."
	MsgProjectAuthorOnly      = "Only the project author can perform this action."
	MsgContributorOnly        = "You must be a contributor to this project."
	MsgResourceAuthorOnly     = "Only the resource author can modify or delete."
)

// RequireAuthenticated denies anonymous requests. Used where a resource needs
// no policy beyond an acting user, such as creating a project.
func RequireAuthenticated(rc Context) error {
	if rc.Authenticated() {
		return nil
	}
	return deny(MsgAuthenticationRequired)
}

// SelfOrCreateOnly allows anonymous users to create an account and
// authenticated users to act on their own account only.
type SelfOrCreateOnly struct{}

// Check is the request-level decision.
func (SelfOrCreateOnly) Check(rc Context) error {
	if rc.Action == ActionCreate {
		return nil
	}
	if rc.Authenticated() {
		return nil
	}
	return deny(MsgSelfOnly)
}

// CheckObject allows access only when the target user is the actor.
func (SelfOrCreateOnly) CheckObject(rc Context, targetUserID uint64) error {
	if rc.Authenticated() && rc.ActorID == targetUserID {
		return nil
	}
	return deny(MsgSelfOnly)
}

// ProjectAuthor restricts contributor management to the project's author.
// Safe actions require authentication only.
type ProjectAuthor struct {
	Store Resolver
}

// Check resolves the target project and requires the actor to be its author.
// For a delete the project is resolved through the contributor record; for
// create/update it comes from the body reference first, then the path
// parameter. An unresolvable reference is a denial, not a fault.
func (p ProjectAuthor) Check(rc Context) error {
	if rc.Action.IsSafe() {
		if rc.Authenticated() {
			return nil
		}
		return deny(MsgProjectAuthorOnly)
	}
	if !rc.Authenticated() {
		return deny(MsgProjectAuthorOnly)
	}

	if rc.Action == ActionDelete && rc.ObjectID != 0 {
		projectID, ok, err := p.Store.ContributorProjectID(rc.ObjectID)
		if err != nil {
			return err
		}
		if !ok {
			return deny(MsgProjectAuthorOnly)
		}
		return p.requireAuthor(projectID, rc.ActorID)
	}

	projectID := rc.ProjectRef
	if projectID == 0 {
		projectID = rc.ObjectID
	}
	if projectID == 0 {
		return deny(MsgProjectAuthorOnly)
	}
	return p.requireAuthor(projectID, rc.ActorID)
}

func (p ProjectAuthor) requireAuthor(projectID, actorID uint64) error {
	authorID, ok, err := p.Store.ProjectAuthorID(projectID)
	if err != nil {
		return err
	}
	if !ok || authorID != actorID {
		return deny(MsgProjectAuthorOnly)
	}
	return nil
}

// Contributor restricts project-scoped resources to members of the project.
// Safe actions require authentication; mutations require membership at the
// request level and authorship of the project at the object level.
type Contributor struct {
	Store Resolver
}

// Check is the request-level decision. For create the target project is
// resolved from the body's project reference first, then through a referenced
// issue; for update/delete it comes from the loaded object.
func (p Contributor) Check(rc Context, obj Object) error {
	if rc.Action.IsSafe() {
		if rc.Authenticated() {
			return nil
		}
		return deny(MsgContributorOnly)
	}
	if !rc.Authenticated() {
		return deny(MsgContributorOnly)
	}

	var projectID uint64
	switch rc.Action {
	case ActionCreate:
		projectID = rc.ProjectRef
		if projectID == 0 {
			if rc.IssueRef == 0 {
				return deny(MsgContributorOnly)
			}
			id, ok, err := p.Store.IssueProjectID(rc.IssueRef)
			if err != nil {
				return err
			}
			if !ok {
				return deny(MsgContributorOnly)
			}
			projectID = id
		}
	case ActionUpdate, ActionDelete:
		if obj != nil {
			projectID = obj.OwningProjectID()
		}
	}
	if projectID == 0 {
		return deny(MsgContributorOnly)
	}

	allowed, err := p.Store.IsContributorOrAuthor(projectID, rc.ActorID)
	if err != nil {
		return err
	}
	if !allowed {
		return deny(MsgContributorOnly)
	}
	return nil
}

// CheckObject re-derives the project from the loaded object. Reads require
// contributorship; mutations require the project author specifically.
func (p Contributor) CheckObject(rc Context, obj Object) error {
	projectID := obj.OwningProjectID()
	if projectID == 0 {
		return deny(MsgContributorOnly)
	}

	if !rc.Action.IsSafe() {
		authorID, ok, err := p.Store.ProjectAuthorID(projectID)
		if err != nil {
			return err
		}
		if !ok || authorID != rc.ActorID {
			return deny(MsgContributorOnly)
		}
		return nil
	}

	isContributor, err := p.Store.IsContributor(projectID, rc.ActorID)
	if err != nil {
		return err
	}
	if !isContributor {
		return deny(MsgContributorOnly)
	}
	return nil
}

// ResourceAuthorOrReadOnly lets anyone read and only the resource's author
// mutate. Authorship is compared by identifier, never by instance.
type ResourceAuthorOrReadOnly struct{}

// CheckObject is the object-level decision.
func (ResourceAuthorOrReadOnly) CheckObject(rc Context, obj Object) error {
	if rc.Action.IsSafe() {
		return nil
	}
	if rc.Authenticated() && obj.ObjectAuthorID() == rc.ActorID {
		return nil
	}
	return deny(MsgResourceAuthorOnly)
}
