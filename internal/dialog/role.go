package dialog

import "context"

// RoleID names a role within a session's role table.
type RoleID string

// Role bundles what the model sees and can do while it is active: system
// instructions, the visible tool set, a hook run once each time the role
// becomes active, and a TTS voice hint. Roles are immutable once
// constructed; all mutable conversation state lives with the session.
type Role struct {
	ID           RoleID
	Instructions string
	Tools        *ToolSet
	OnEnter      func(ctx context.Context) []string
	Voice        string // empty means keep the current voice
}

// Enter runs the role's entry hook, if any, and returns its spoken lines.
func (r *Role) Enter(ctx context.Context) []string {
	if r.OnEnter == nil {
		return nil
	}
	return r.OnEnter(ctx)
}
