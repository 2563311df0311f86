package protocol

import "fmt"

// Role is the one-byte node address. Roles are provisioned, never negotiated.
type Role byte

const (
	RoleHost      Role = 0x00
	RolePeer1     Role = 0x01
	RolePeer2     Role = 0x02
	RolePeer3     Role = 0x03
	RolePeer4     Role = 0x04
	RoleBroadcast Role = 0xFF

	MaxPeers = 4
)

// PeerRole returns the role of the zero-based player slot i.
func PeerRole(i int) Role {
	return Role(i + 1)
}

// IsPeer reports whether r addresses one of the four player nodes.
func (r Role) IsPeer() bool {
	return r >= RolePeer1 && r <= RolePeer4
}

// Slot returns the zero-based player index for a peer role.
func (r Role) Slot() (int, bool) {
	if !r.IsPeer() {
		return 0, false
	}
	return int(r) - 1, true
}

// Relevant reports whether a frame with destination dest is meant for self.
func Relevant(dest, self Role) bool {
	return dest == self || dest == RoleBroadcast
}

func (r Role) String() string {
	switch {
	case r == RoleHost:
		return "host"
	case r == RoleBroadcast:
		return "broadcast"
	case r.IsPeer():
		return fmt.Sprintf("peer%d", int(r))
	default:
		return fmt.Sprintf("role(0x%02X)", byte(r))
	}
}

// ParseRole accepts "host" and "peer1".."peer4".
func ParseRole(s string) (Role, error) {
	switch s {
	case "host":
		return RoleHost, nil
	case "peer1":
		return RolePeer1, nil
	case "peer2":
		return RolePeer2, nil
	case "peer3":
		return RolePeer3, nil
	case "peer4":
		return RolePeer4, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}
