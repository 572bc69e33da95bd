package domain

// Command is a request to change system state, routed by name.
type Command interface {
	CommandName() string
}
