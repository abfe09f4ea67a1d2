package customization

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

// Screen is the app customization screen.
type Screen = screen.Screen[domain.Customization, CustomizationRequest]

// NewScreen builds the customization screen. coAccounts lists the CO accounts
// an app can be built for.
func NewScreen(env screen.Env, src fetch.Source[domain.Customization, CustomizationRequest], v *validator.Validate, coAccounts func(ctx context.Context) ([]option.Option, error)) *Screen {
	statuses := option.Static(domain.ProvisionPending, domain.ProvisionInProgress, domain.ProvisionDone, domain.ProvisionFailed)

	return screen.New(env, screen.Config[domain.Customization, CustomizationRequest]{
		Name:     "customization",
		Title:    "Customization",
		Base:     "/customizations",
		Resource: access.Customization,
		Source:   src,
		Filters: []screen.FilterField{
			screen.Text("app_name", "App name"),
			screen.MultiSelect("status", "Status", statuses),
			screen.DateRange("created_at", "Requested"),
		},
		Sortable:   []string{"app_name", "status", "created_at"},
		Sort:       listing.Sort{By: "created_at", Direction: listing.Desc},
		ScopeField: "co_account_id",
		ID:         func(c domain.Customization) uint { return c.ID },
		Draft:      DraftOf,
		Initial:    func() CustomizationRequest { return CustomizationRequest{PrimaryColor: "#1A73E8"} },
		Bind: func(c *gin.Context, d *CustomizationRequest) error {
			return screen.BindForm(c, d)
		},
		Schema: upsert.NewSchema[CustomizationRequest](v).
			Field("app_name", "required,min=2,max=100", func(d CustomizationRequest) any { return strings.TrimSpace(d.AppName) }).
			Field("primary_color", "required,hexcolor,len=7", func(d CustomizationRequest) any { return strings.TrimSpace(d.PrimaryColor) }),
		Options: func(CustomizationRequest) []upsert.OptionLoad {
			if coAccounts == nil {
				return nil
			}
			return []upsert.OptionLoad{{Key: "co_accounts", Load: coAccounts}}
		},
		Actions: []screen.Action[domain.Customization]{
			{
				Name:      ActionRetry,
				Label:     "Retry",
				Privilege: access.Manage,
				Confirm: &upsert.ConfirmOptions{
					Title:         "Retry Provisioning",
					Message:       "Run the failed provisioning step again?",
					PrimaryText:   "Retry",
					SecondaryText: "Cancel",
				},
				Success:  "Provisioning step has been queued again",
				Fallback: "Failed to retry provisioning",
				Visible:  func(c domain.Customization) bool { return c.Status == domain.ProvisionFailed },
				Run: func(ctx context.Context, id uint, _ string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionRetry})
				},
			},
		},
		NoDelete: true,
	})
}
