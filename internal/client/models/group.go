package models

// Role of a member inside one group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type Group struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MemberCount int     `json:"member_count"`
	AdminCount  int     `json:"admin_count"`
	CreatedAt   Time    `json:"created_at"`
}

// GroupDetail is the GET /groups/{id} response.
type GroupDetail struct {
	Group
	Members []Member `json:"members"`
}

type Member struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	JoinedAt Time   `json:"joined_at"`
}

// GroupInput is the body for creating or updating a group.
type GroupInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// MemberInput is the body of POST and DELETE /groups/{id}/members.
type MemberInput struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role,omitempty"`
}

// SplitMembers separates admins from regular members, keeping order.
func SplitMembers(members []Member) (admins, regular []Member) {
	for _, m := range members {
		if m.Role == RoleAdmin {
			admins = append(admins, m)
		} else {
			regular = append(regular, m)
		}
	}
	return admins, regular
}

// HasAdmin reports whether userID holds the admin role in members.
func HasAdmin(members []Member, userID int64) bool {
	for _, m := range members {
		if m.ID == userID && m.Role == RoleAdmin {
			return true
		}
	}
	return false
}

// AvailableUsers returns the users that are not yet members.
func AvailableUsers(all []User, members []Member) []User {
	taken := make(map[int64]struct{}, len(members))
	for _, m := range members {
		taken[m.ID] = struct{}{}
	}
	out := make([]User, 0, len(all))
	for _, u := range all {
		if _, ok := taken[u.ID]; !ok {
			out = append(out, u)
		}
	}
	return out
}
