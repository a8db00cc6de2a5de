package core

import "github.com/google/uuid"

// ID identifies an entity that is either pending (a temporary id generated locally, not yet saved
// to the backend) or persisted (the id assigned by the backend).
// A pending ID promoted with Persist keeps its local alias, so lookups made with either the
// temporary or the server id keep matching while callers catch up.
type ID struct {
	local  string
	server string
}

// NewPendingID generates a new temporary ID.
func NewPendingID() ID {
	return ID{local: uuid.NewString()}
}

// PendingID wraps an existing temporary id.
func PendingID(local string) ID {
	return ID{local: local}
}

// PersistedID wraps a server assigned id.
func PersistedID(server string) ID {
	return ID{server: server}
}

// Persist returns the ID promoted to the given server id, keeping the local alias.
func (id ID) Persist(server string) ID {
	id.server = server
	return id
}

func (id ID) IsZero() bool    { return id.local == "" && id.server == "" }
func (id ID) IsPending() bool { return id.server == "" }
func (id ID) Local() string   { return id.local }
func (id ID) Server() string  { return id.server }

// String returns the server id if any, the temporary id otherwise.
func (id ID) String() string {
	if id.server != "" {
		return id.server
	}
	return id.local
}

// Matches reports whether ref is either the temporary or the server id.
func (id ID) Matches(ref string) bool {
	return ref != "" && (ref == id.local || ref == id.server)
}

// Equal reports whether both IDs designate the same entity.
func (id ID) Equal(other ID) bool {
	return (id.server != "" && id.server == other.server) || (id.local != "" && id.local == other.local)
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// Wire returns the (_id, id) pair exchanged with the backend: the server id once persisted,
// the temporary id before.
func (id ID) Wire() (server, local string) {
	if id.server != "" {
		return id.server, ""
	}
	return "", id.local
}

// FromWire is the inverse of ID.Wire. An entity received without any id gets a new temporary one.
func FromWire(server, local string) ID {
	switch {
	case server != "":
		return PersistedID(server)
	case local != "":
		return PendingID(local)
	default:
		return NewPendingID()
	}
}
