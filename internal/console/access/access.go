// Package access decides which console screens and actions an operator may use.
package access

import (
	"context"
	"slices"

	"github.com/simp-lee/coconsole/internal/domain"
)

// Privileges.
const (
	Read   = "read"
	Create = "create"
	Update = "update"
	Delete = "delete"
	// Manage covers state transitions such as lock, approve or activate.
	Manage = "manage"
)

// Resources guarded by gates.
const (
	Member        = "member"
	COAccount     = "co_account"
	KYC           = "kyc"
	SMSContent    = "sms_content"
	Customization = "customization"
	Operator      = "operator"
)

// Roles.
const (
	RolePrincipal = domain.RolePrincipal
	RoleCO        = domain.RoleCO
)

// Gate names a resource and the privileges an action on it needs.
type Gate struct {
	Access     string
	Privileges []string
}

// Need returns a Gate on resource requiring privileges.
func Need(resource string, privileges ...string) Gate {
	return Gate{Access: resource, Privileges: privileges}
}

// Principal is the authenticated operator.
type Principal struct {
	ID          uint
	Name        string
	Email       string
	Role        string
	COAccountID uint
}

// Scoped reports whether the principal only sees data of its own CO account.
func (p Principal) Scoped() bool { return p.Role == RoleCO && p.COAccountID != 0 }

// Policy maps each role to the privileges it holds per resource.
type Policy struct {
	grants map[string]map[string][]string
}

// NewPolicy returns an empty policy.
func NewPolicy() *Policy {
	return &Policy{grants: map[string]map[string][]string{}}
}

// Grant gives role the privileges on resource.
func (p *Policy) Grant(role, resource string, privileges ...string) *Policy {
	byResource, ok := p.grants[role]
	if !ok {
		byResource = map[string][]string{}
		p.grants[role] = byResource
	}
	for _, priv := range privileges {
		if !slices.Contains(byResource[resource], priv) {
			byResource[resource] = append(byResource[resource], priv)
		}
	}
	return p
}

// Allows reports whether role holds every privilege of g. A gate without
// privileges only needs some grant on the resource.
func (p *Policy) Allows(role string, g Gate) bool {
	held, ok := p.grants[role][g.Access]
	if !ok {
		return false
	}
	for _, priv := range g.Privileges {
		if !slices.Contains(held, priv) {
			return false
		}
	}
	return true
}

// Can reports whether principal may pass a gate on resource requiring privileges.
func (p *Policy) Can(principal Principal, resource string, privileges ...string) bool {
	return p.Allows(principal.Role, Need(resource, privileges...))
}

// DefaultPolicy is the console's built-in role table. Principals manage
// everything; CO operators manage the members, KYC requests and app
// customizations of their own CO account.
func DefaultPolicy() *Policy {
	all := []string{Read, Create, Update, Delete, Manage}
	p := NewPolicy()
	for _, r := range []string{Member, COAccount, KYC, SMSContent, Customization, Operator} {
		p.Grant(RolePrincipal, r, all...)
	}
	p.Grant(RoleCO, Member, Read, Create, Update, Manage)
	p.Grant(RoleCO, KYC, Read, Create)
	p.Grant(RoleCO, Customization, Read, Update, Manage)
	return p
}

type principalKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal carried by ctx.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
