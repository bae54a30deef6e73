package core

import "strings"

// Session identifies who is calling and on behalf of which school (tenant).
// It is built from the request's auth claims and passed explicitly to every service call
// that needs identity or tenant scoping.
type Session struct {
	UserID   string
	SchoolID string
	Username string
	Email    string
	Roles    []string
}

func (sess Session) HasRolePrefix(prefixes ...string) bool {
	for _, role := range sess.Roles {
		for _, prefix := range prefixes {
			if strings.HasPrefix(role, prefix) {
				return true
			}
		}
	}
	return false
}
