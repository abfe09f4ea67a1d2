package coaccount

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
	"github.com/simp-lee/coconsole/internal/module/region"
)

// Screen is the CO account management screen.
type Screen = screen.Screen[domain.COAccount, COAccountRequest]

// mainFund keeps a single MAIN bank account: storing a MAIN entry turns the
// previous one into SECONDARY.
var mainFund = upsert.Policy[domain.BankAccount]{
	Holds: func(b domain.BankAccount) bool { return b.FundType == domain.FundTypeMain },
	Demote: func(b domain.BankAccount) domain.BankAccount {
		b.FundType = domain.FundTypeSecondary
		return b
	},
}

// NewScreen builds the CO account screen. The country, province and city
// selects are loaded from regions.
func NewScreen(env screen.Env, src fetch.Source[domain.COAccount, COAccountRequest], v *validator.Validate, regions domain.RegionService) *Screen {
	statuses := option.Static(domain.StatusActive, domain.StatusInactive)

	return screen.New(env, screen.Config[domain.COAccount, COAccountRequest]{
		Name:     "coaccount",
		Title:    "CO Account",
		Base:     "/co-accounts",
		Resource: access.COAccount,
		Source:   src,
		Filters: []screen.FilterField{
			screen.Text("code", "Code"),
			screen.Text("name", "Name"),
			screen.Select("status", "Status", statuses),
		},
		Sortable:   []string{"code", "name", "status", "created_at"},
		Sort:       listing.Sort{By: "name", Direction: listing.Asc},
		ScopeField: "id",
		ID:         func(co domain.COAccount) uint { return co.ID },
		Draft:      DraftOf,
		Initial: func() COAccountRequest {
			return COAccountRequest{CountryCode: "ID"}
		},
		Bind: func(c *gin.Context, d *COAccountRequest) error {
			prev := *d
			if err := screen.BindForm(c, d); err != nil {
				return err
			}
			// a new parent invalidates the picks below it
			if d.CountryCode != prev.CountryCode {
				d.ProvinceCode, d.CityCode = "", ""
			} else if d.ProvinceCode != prev.ProvinceCode {
				d.CityCode = ""
			}
			return nil
		},
		Schema: formSchema(v),
		Options: func(d COAccountRequest) []upsert.OptionLoad {
			if regions == nil {
				return nil
			}
			return region.Loads(regions, d.CountryCode, d.ProvinceCode)
		},
		Arrays: []screen.FieldArray[COAccountRequest]{
			screen.Array("bank_accounts", "Bank Account", v,
				func(d *COAccountRequest) *[]domain.BankAccount { return &d.BankAccounts }, mainFund),
			screen.Array("addresses", "Address", v,
				func(d *COAccountRequest) *[]domain.Address { return &d.Addresses }),
			screen.Array("contacts", "Contact", v,
				func(d *COAccountRequest) *[]domain.Contact { return &d.Contacts }),
			screen.Array("pic_users", "PIC User", v,
				func(d *COAccountRequest) *[]domain.PICUserInput { return &d.PICUsers }),
		},
		Actions: []screen.Action[domain.COAccount]{
			{
				Name:      ActionDeactivate,
				Label:     "Deactivate",
				Privilege: access.Manage,
				Confirm: &upsert.ConfirmOptions{
					Title:         "Deactivate CO Account",
					Message:       "Members and PIC users of this account will lose access. Continue?",
					PrimaryText:   "Deactivate",
					SecondaryText: "Cancel",
				},
				Success:  "CO account has been deactivated",
				Fallback: "Failed to deactivate CO account",
				Visible:  func(co domain.COAccount) bool { return co.Status == domain.StatusActive },
				Run: func(ctx context.Context, id uint, _ string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionDeactivate})
				},
			},
			{
				Name:      ActionActivate,
				Label:     "Activate",
				Privilege: access.Manage,
				Confirm: &upsert.ConfirmOptions{
					Title:         "Activate CO Account",
					Message:       "Reactivate this CO account?",
					PrimaryText:   "Activate",
					SecondaryText: "Cancel",
				},
				Success:  "CO account has been activated",
				Fallback: "Failed to activate CO account",
				Visible:  func(co domain.COAccount) bool { return co.Status != domain.StatusActive },
				Run: func(ctx context.Context, id uint, _ string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionActivate})
				},
			},
		},
		Extra: func(context.Context) gin.H {
			return gin.H{"FundTypes": option.Static(domain.FundTypeMain, domain.FundTypeSecondary)}
		},
	})
}

func formSchema(v *validator.Validate) *upsert.Schema[COAccountRequest] {
	return upsert.NewSchema[COAccountRequest](v).
		Field("code", "required,min=3,max=32", func(d COAccountRequest) any { return strings.TrimSpace(d.Code) }).
		Check("code", func(d COAccountRequest) string {
			code := strings.ToUpper(strings.TrimSpace(d.Code))
			if code != "" && !codePattern.MatchString(code) {
				return "Use 3-32 letters, digits or dashes"
			}
			return ""
		}).
		Field("name", "required,min=2,max=150", func(d COAccountRequest) any { return strings.TrimSpace(d.Name) }).
		Field("email", "required,email", func(d COAccountRequest) any { return strings.TrimSpace(d.Email) }).
		Field("phone", "omitempty,numeric,min=8,max=15", func(d COAccountRequest) any { return d.Phone }).
		Field("country_code", "required", func(d COAccountRequest) any { return d.CountryCode }).
		Field("province_code", "required", func(d COAccountRequest) any { return d.ProvinceCode }).
		Field("city_code", "required", func(d COAccountRequest) any { return d.CityCode })
}
