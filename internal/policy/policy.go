// Package policy decides read/write visibility for owned and global
// resources. It is pure: decisions depend only on the caller identity and the
// ownership of the resource, never on storage.
package policy

// Caller is an optional request identity. The zero value is anonymous.
type Caller struct {
	id string
}

func Anonymous() Caller {
	return Caller{}
}

func User(id string) Caller {
	return Caller{id: id}
}

func (c Caller) IsAnonymous() bool {
	return c.id == ""
}

// ID returns the opaque account key, or "" for anonymous callers.
func (c Caller) ID() string {
	return c.id
}

// Ownership is either global (owned by no one, visible to everyone) or owned
// by a single account. Constructing it through Global/OwnedBy keeps the
// "global but with an owner check" state unrepresentable.
type Ownership struct {
	creatorID string
	global    bool
}

func Global() Ownership {
	return Ownership{global: true}
}

// OwnedBy builds an owned resource. An empty creator id means the owner is
// unknown, which reads as global: ownership without an owner cannot gate
// anything.
func OwnedBy(creatorID string) Ownership {
	if creatorID == "" {
		return Global()
	}
	return Ownership{creatorID: creatorID}
}

func (o Ownership) IsGlobal() bool {
	return o.global
}

func (o Ownership) CreatorID() string {
	return o.creatorID
}

// CanRead reports whether caller may see the resource: global resources are
// readable by everyone, owned resources only by their creator.
func CanRead(caller Caller, o Ownership) bool {
	if o.global {
		return true
	}
	return !caller.IsAnonymous() && caller.id == o.creatorID
}

// CanWrite reports whether caller may create, update or delete the resource.
// Anonymous callers never write. Global resources are writable by any
// authenticated caller; owned resources only by their creator.
func CanWrite(caller Caller, o Ownership) bool {
	if caller.IsAnonymous() {
		return false
	}
	if o.global {
		return true
	}
	return caller.id == o.creatorID
}
