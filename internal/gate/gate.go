// Package gate centralizes access control for the billing resources.
// Permissions are "resource:action" strings; a user's effective permission
// set is the role's defaults plus any per-user custom grants. Keeping the
// resolution here, out of the handlers, lets the rules be tested without
// constructing any HTTP machinery.
package gate

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrForbidden  = errors.New("forbidden")
	ErrNoResolver = errors.New("no resolver configured")
)

// Permission names an allowed action on a resource type,
// e.g. "document:create", "payment:delete".
type Permission string

// NewPermission builds a permission from resource type and action.
func NewPermission(resource, action string) Permission {
	return Permission(resource + ":" + action)
}

// Wildcards: "*:*" grants everything, "document:*" every document action.
const (
	WildcardAll            = "*"
	SuperAdmin  Permission = "*:*"
)

// Parse splits a permission into resource and action.
func (p Permission) Parse() (resource, action string) {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// Matches reports whether this granted permission covers the requested one.
func (p Permission) Matches(requested Permission) bool {
	if p == SuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res == reqRes && act == WildcardAll
}

// Resolver resolves a user to their effective permission set.
type Resolver interface {
	Resolve(ctx context.Context, userID uint) ([]Permission, error)
}

// Gate is the central authorization checkpoint.
type Gate struct {
	resolver Resolver
}

func New(r Resolver) *Gate { return &Gate{resolver: r} }

// Authorize returns nil when userID holds a permission covering requested.
func (g *Gate) Authorize(ctx context.Context, userID uint, requested Permission) error {
	if userID == 0 {
		return ErrForbidden
	}
	if g.resolver == nil {
		return ErrNoResolver
	}
	perms, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return err
	}
	for _, p := range perms {
		if p.Matches(requested) {
			return nil
		}
	}
	return ErrForbidden
}

// Can is a convenience wrapper returning bool.
func (g *Gate) Can(ctx context.Context, userID uint, requested Permission) bool {
	return g.Authorize(ctx, userID, requested) == nil
}

// StaticResolver is an in-memory resolver for tests and static setups.
type StaticResolver struct {
	grants map[uint][]Permission
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{grants: map[uint][]Permission{}}
}

func (r *StaticResolver) Set(userID uint, perms ...Permission) {
	r.grants[userID] = perms
}

func (r *StaticResolver) Resolve(_ context.Context, userID uint) ([]Permission, error) {
	return r.grants[userID], nil
}
