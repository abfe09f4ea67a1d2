package operator

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/console/option"
	"github.com/simp-lee/coconsole/internal/console/screen"
	"github.com/simp-lee/coconsole/internal/console/upsert"
	"github.com/simp-lee/coconsole/internal/domain"
)

// Screen is the operator management screen.
type Screen = screen.Screen[domain.Operator, OperatorRequest]

// NewScreen builds the operator screen. coAccounts lists the CO accounts a
// CO operator can belong to.
func NewScreen(env screen.Env, src fetch.Source[domain.Operator, OperatorRequest], v *validator.Validate, coAccounts func(ctx context.Context) ([]option.Option, error)) *Screen {
	roles := option.Static(domain.RolePrincipal, domain.RoleCO)

	return screen.New(env, screen.Config[domain.Operator, OperatorRequest]{
		Name:     "operator",
		Title:    "Operator",
		Base:     "/operators",
		Resource: access.Operator,
		Source:   src,
		Filters: []screen.FilterField{
			screen.Text("name", "Name"),
			screen.Text("email", "Email"),
			screen.Select("role", "Role", roles),
		},
		Sortable:   []string{"name", "email", "role", "created_at"},
		Sort:       listing.Sort{By: "name", Direction: listing.Asc},
		ScopeField: "co_account_id",
		ID:         func(op domain.Operator) uint { return op.ID },
		Draft:      DraftOf,
		Initial:    func() OperatorRequest { return OperatorRequest{Role: domain.RoleCO} },
		Bind: func(c *gin.Context, d *OperatorRequest) error {
			return screen.BindForm(c, d)
		},
		Schema: formSchema(v),
		Options: func(OperatorRequest) []upsert.OptionLoad {
			if coAccounts == nil {
				return nil
			}
			return []upsert.OptionLoad{{Key: "co_accounts", Load: coAccounts}}
		},
		Extra: func(context.Context) gin.H {
			return gin.H{"Roles": roles}
		},
	})
}

func formSchema(v *validator.Validate) *upsert.Schema[OperatorRequest] {
	return upsert.NewSchema[OperatorRequest](v).
		Field("name", "required,min=2,max=100", func(d OperatorRequest) any { return strings.TrimSpace(d.Name) }).
		Field("email", "required,email", func(d OperatorRequest) any { return strings.TrimSpace(d.Email) }).
		Field("role", "required,oneof=principal co", func(d OperatorRequest) any { return d.Role }).
		FieldIf("co_account_id", "required", func(d OperatorRequest) any { return d.COAccountID },
			func(d OperatorRequest) bool { return d.Role == domain.RoleCO }).
		Check("co_account_id", func(d OperatorRequest) string {
			if d.Role == domain.RolePrincipal && d.COAccountID != 0 {
				return "Principal operators cannot belong to a CO account"
			}
			return ""
		}).
		Field("password", "omitempty,password", func(d OperatorRequest) any { return d.Password })
}
