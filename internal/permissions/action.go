package permissions

// Action is the kind of operation a request intends to perform on a resource.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// IsSafe reports whether the action is read-only.
func (a Action) IsSafe() bool {
	return a == ActionList || a == ActionRetrieve
}
