package member

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

// Screen is the member management screen.
type Screen = screen.Screen[domain.Member, MemberRequest]

// NewScreen builds the member screen. coAccounts lists the CO accounts a
// member can be registered under.
func NewScreen(env screen.Env, src fetch.Source[domain.Member, MemberRequest], v *validator.Validate, coAccounts func(ctx context.Context) ([]option.Option, error)) *Screen {
	statuses := option.Static(domain.StatusActive, domain.StatusLocked)

	return screen.New(env, screen.Config[domain.Member, MemberRequest]{
		Name:     "member",
		Title:    "Member",
		Base:     "/members",
		Resource: access.Member,
		Source:   src,
		Filters: []screen.FilterField{
			screen.Text("name", "Name"),
			screen.Text("email", "Email"),
			screen.MultiSelect("status", "Status", statuses),
			screen.DateRange("joined_at", "Joined"),
		},
		Sortable:   []string{"name", "email", "status", "joined_at"},
		Sort:       listing.Sort{By: "joined_at", Direction: listing.Desc},
		ScopeField: "co_account_id",
		ID:         func(m domain.Member) uint { return m.ID },
		Draft:      DraftOf,
		Initial:    func() MemberRequest { return MemberRequest{} },
		Bind: func(c *gin.Context, d *MemberRequest) error {
			return screen.BindForm(c, d)
		},
		Schema: formSchema(v),
		Options: func(MemberRequest) []upsert.OptionLoad {
			if coAccounts == nil {
				return nil
			}
			return []upsert.OptionLoad{{Key: "co_accounts", Load: coAccounts}}
		},
		Actions: []screen.Action[domain.Member]{
			{
				Name:      ActionLock,
				Label:     "Lock",
				Privilege: access.Manage,
				Confirm: &upsert.ConfirmOptions{
					Title:         "Lock Member",
					Message:       "The member will not be able to sign in until unlocked. Continue?",
					PrimaryText:   "Lock",
					SecondaryText: "Cancel",
				},
				Success:  "Member has been locked",
				Fallback: "Failed to lock member",
				Visible:  func(m domain.Member) bool { return m.Status != domain.StatusLocked },
				Run: func(ctx context.Context, id uint, _ string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionLock})
				},
			},
			{
				Name:      ActionUnlock,
				Label:     "Unlock",
				Privilege: access.Manage,
				Confirm: &upsert.ConfirmOptions{
					Title:         "Unlock Member",
					Message:       "Allow this member to sign in again?",
					PrimaryText:   "Unlock",
					SecondaryText: "Cancel",
				},
				Success:  "Member has been unlocked",
				Fallback: "Failed to unlock member",
				Visible:  func(m domain.Member) bool { return m.Status == domain.StatusLocked },
				Run: func(ctx context.Context, id uint, _ string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionUnlock})
				},
			},
		},
	})
}

func formSchema(v *validator.Validate) *upsert.Schema[MemberRequest] {
	return upsert.NewSchema[MemberRequest](v).
		Field("name", "required,min=2,max=100", func(d MemberRequest) any { return strings.TrimSpace(d.Name) }).
		Field("email", "required,email", func(d MemberRequest) any { return strings.TrimSpace(d.Email) }).
		Field("phone", "omitempty,numeric,min=8,max=15", func(d MemberRequest) any { return d.Phone }).
		Field("joined_at", "omitempty,datetime=2006-01-02", func(d MemberRequest) any { return d.JoinedAt })
}
