package domain

import (
	"fmt"
	"strings"
)

// Role is the staff category a node's guidance is scoped to.
// The set is closed; the zero value is RoleAny.
type Role int

const (
	RoleAny Role = iota
	RoleClassroomTeacher
	RoleHeadTeacher
	RoleDeputyPrincipal
)

// Roles lists every role in display order.
var Roles = []Role{RoleClassroomTeacher, RoleHeadTeacher, RoleDeputyPrincipal, RoleAny}

// String returns the human-readable role name (e.g. "Head Teacher").
func (r Role) String() string {
	switch r {
	case RoleClassroomTeacher:
		return "Classroom Teacher"
	case RoleHeadTeacher:
		return "Head Teacher"
	case RoleDeputyPrincipal:
		return "Deputy Principal"
	default:
		return "Any"
	}
}

// Short returns the two-letter abbreviation used by quick jumps (CT, HT, DP).
func (r Role) Short() string {
	switch r {
	case RoleClassroomTeacher:
		return "CT"
	case RoleHeadTeacher:
		return "HT"
	case RoleDeputyPrincipal:
		return "DP"
	default:
		return ""
	}
}

// ParseRole accepts the display name, the enum name or a slug
// ("Classroom Teacher", "ClassroomTeacher", "classroom-teacher", "ct").
func ParseRole(s string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)

	switch key {
	case "classroomteacher", "ct":
		return RoleClassroomTeacher, nil
	case "headteacher", "ht":
		return RoleHeadTeacher, nil
	case "deputyprincipal", "dp":
		return RoleDeputyPrincipal, nil
	case "any", "":
		return RoleAny, nil
	}
	return RoleAny, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// MarshalText encodes the role as its display name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes any form accepted by ParseRole.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
