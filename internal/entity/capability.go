package entity

// Actor is the signed-in user viewing a list.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// Capabilities are the controls shown for one row.
type Capabilities struct {
	Run        bool
	Delete     bool
	Handle     bool
	ChangeRole bool
}

// CapabilitiesFor decides which controls a row exposes to the actor.
func CapabilitiesFor(k Kind, e Entity, actor Actor) Capabilities {
	return Capabilities{
		Run:        k.Runnable(),
		Delete:     actor.IsAdmin && k != KindJoinRequests,
		Handle:     k == KindJoinRequests,
		ChangeRole: k == KindMembers && actor.IsAdmin && e.ID != actor.UserID,
	}
}

// CanCreate reports whether the actor sees the create button for k.
func CanCreate(k Kind, actor Actor) bool {
	return actor.IsAdmin && k.Runnable()
}
