// Package permissions holds the workspace permission vocabulary and the
// evaluator that every workspace-scoped operation goes through.
package permissions

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type Permission string

const (
	CreateWorkspace Permission = "create:workspace"
	ReadWorkspace   Permission = "read:workspace"
	UpdateWorkspace Permission = "update:workspace"
	DeleteWorkspace Permission = "delete:workspace"

	CreateRole Permission = "create:role"
	ReadRole   Permission = "read:role"
	UpdateRole Permission = "update:role"
	DeleteRole Permission = "delete:role"

	CreateInvitation Permission = "create:invitation"
	ReadInvitation   Permission = "read:invitation"
	UpdateInvitation Permission = "update:invitation"
	DeleteInvitation Permission = "delete:invitation"

	DeleteMember Permission = "delete:member"

	CreateTodo Permission = "create:todo"
	ReadTodo   Permission = "read:todo"
	UpdateTodo Permission = "update:todo"
	DeleteTodo Permission = "delete:todo"

	CreateStatus Permission = "create:status"
	ReadStatus   Permission = "read:status"
	UpdateStatus Permission = "update:status"
	DeleteStatus Permission = "delete:status"
)

const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var ErrInvalidPermission = errors.New("invalid permission")

var known = map[Permission]struct{}{}

func init() {
	for _, p := range All() {
		known[p] = struct{}{}
	}
}

func All() []Permission {
	return []Permission{
		CreateWorkspace, ReadWorkspace, UpdateWorkspace, DeleteWorkspace,
		CreateRole, ReadRole, UpdateRole, DeleteRole,
		CreateInvitation, ReadInvitation, UpdateInvitation, DeleteInvitation,
		DeleteMember,
		CreateTodo, ReadTodo, UpdateTodo, DeleteTodo,
		CreateStatus, ReadStatus, UpdateStatus, DeleteStatus,
	}
}

func IsKnown(p Permission) bool {
	_, ok := known[p]
	return ok
}

// Set is an exact-match permission set; no token implies any other.
type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

func (s Set) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, p := range sorted {
		out[i] = string(p)
	}
	return out
}

// String is the storage form: sorted and comma-joined.
func (s Set) String() string {
	return strings.Join(s.Strings(), ",")
}

// Parse reads the stored comma-joined form. Tokens are trimmed; empty entries
// and unknown tokens are rejected.
func Parse(stored string) (Set, error) {
	if strings.TrimSpace(stored) == "" {
		return Set{}, nil
	}
	return FromStrings(strings.Split(stored, ","))
}

func FromStrings(tokens []string) (Set, error) {
	s := make(Set, len(tokens))
	for _, raw := range tokens {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			return nil, fmt.Errorf("%w: empty token", ErrInvalidPermission)
		}
		p := Permission(tok)
		if !IsKnown(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPermission, tok)
		}
		s[p] = struct{}{}
	}
	return s, nil
}

// Member and Role are the evaluator's view of the persisted rows.
type Member struct {
	RoleID uuid.UUID
}

type Role struct {
	ID          uuid.UUID
	Name        string
	Permissions Set
}

// HasPermission finds the role the member holds and tests for an exact token.
// A nil member, a missing role or an unknown token is a denial.
func HasPermission(member *Member, roles []Role, required Permission) bool {
	if member == nil {
		return false
	}
	for _, r := range roles {
		if r.ID == member.RoleID {
			return r.Permissions.Has(required)
		}
	}
	return false
}

type RoleTemplate struct {
	Name        string
	Permissions Set
}

// SeedRoles are inserted with every new workspace, owner first.
func SeedRoles() []RoleTemplate {
	return []RoleTemplate{
		{Name: RoleOwner, Permissions: NewSet(All()...)},
		{Name: RoleEditor, Permissions: NewSet(
			ReadWorkspace, UpdateWorkspace,
			ReadRole,
			ReadInvitation,
			CreateTodo, ReadTodo, UpdateTodo,
			CreateStatus, ReadStatus, UpdateStatus,
		)},
		{Name: RoleViewer, Permissions: NewSet(
			ReadWorkspace,
			ReadRole,
			ReadTodo,
			ReadStatus,
		)},
	}
}
