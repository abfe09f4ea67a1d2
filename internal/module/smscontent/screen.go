package smscontent

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

// Screen is the SMS content management screen.
type Screen = screen.Screen[domain.SMSContent, SMSContentRequest]

// NewScreen builds the SMS content screen.
func NewScreen(env screen.Env, src fetch.Source[domain.SMSContent, SMSContentRequest], v *validator.Validate) *Screen {
	languages := option.Static(Languages...)
	states := []option.Option{{Label: "Active", Value: "1"}, {Label: "Inactive", Value: "0"}}

	return screen.New(env, screen.Config[domain.SMSContent, SMSContentRequest]{
		Name:     "smscontent",
		Title:    "SMS Content",
		Base:     "/sms-contents",
		Resource: access.SMSContent,
		Source:   src,
		Filters: []screen.FilterField{
			screen.Text("code", "Code"),
			screen.Text("title", "Title"),
			screen.Select("language", "Language", languages),
			screen.Select("active", "State", states),
		},
		Sortable: []string{"code", "title", "language", "updated_at"},
		Sort:     listing.Sort{By: "code", Direction: listing.Asc},
		ID:       func(s domain.SMSContent) uint { return s.ID },
		Draft:    DraftOf,
		Initial:  func() SMSContentRequest { return SMSContentRequest{Language: Languages[0]} },
		Bind: func(c *gin.Context, d *SMSContentRequest) error {
			return screen.BindForm(c, d)
		},
		Schema: formSchema(v),
		Actions: []screen.Action[domain.SMSContent]{
			{
				Name:      ActionActivate,
				Label:     "Activate",
				Privilege: access.Manage,
				Success:   "SMS content has been activated",
				Fallback:  "Failed to activate SMS content",
				Visible:   func(s domain.SMSContent) bool { return !s.Active },
				Run: func(ctx context.Context, id uint, _ string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionActivate})
				},
			},
			{
				Name:      ActionDeactivate,
				Label:     "Deactivate",
				Privilege: access.Manage,
				Confirm: &upsert.ConfirmOptions{
					Title:         "Deactivate SMS Content",
					Message:       "Messages using this content will stop being sent. Continue?",
					PrimaryText:   "Deactivate",
					SecondaryText: "Cancel",
				},
				Success:  "SMS content has been deactivated",
				Fallback: "Failed to deactivate SMS content",
				Visible:  func(s domain.SMSContent) bool { return s.Active },
				Run: func(ctx context.Context, id uint, _ string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionDeactivate})
				},
			},
		},
		Extra: func(context.Context) gin.H {
			return gin.H{"Languages": languages, "MaxBodyLength": MaxBodyLength}
		},
	})
}

func formSchema(v *validator.Validate) *upsert.Schema[SMSContentRequest] {
	return upsert.NewSchema[SMSContentRequest](v).
		Field("code", "required,max=64", func(d SMSContentRequest) any { return strings.TrimSpace(d.Code) }).
		Field("title", "required,max=150", func(d SMSContentRequest) any { return strings.TrimSpace(d.Title) }).
		Field("body", "required,max=480", func(d SMSContentRequest) any { return strings.TrimSpace(d.Body) }).
		Field("language", "required,oneof=en id", func(d SMSContentRequest) any { return d.Language }).
		Check("code", func(d SMSContentRequest) string {
			if !codePattern.MatchString(strings.ToUpper(strings.TrimSpace(d.Code))) {
				return "Use letters, digits and underscores, starting with a letter"
			}
			return ""
		})
}
