package kyc

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

// Screen is the KYC review screen.
type Screen = screen.Screen[domain.KYCRequest, SubmitRequest]

// NewScreen builds the KYC screen. members lists the members a request can be
// submitted for.
func NewScreen(env screen.Env, src fetch.Source[domain.KYCRequest, SubmitRequest], v *validator.Validate, members func(ctx context.Context) ([]option.Option, error)) *Screen {
	statuses := option.Static(domain.KYCPending, domain.KYCApproved, domain.KYCRejected)
	docTypes := option.Static(DocumentTypes...)
	pending := func(k domain.KYCRequest) bool { return k.Status == domain.KYCPending }

	return screen.New(env, screen.Config[domain.KYCRequest, SubmitRequest]{
		Name:     "kyc",
		Title:    "KYC",
		Base:     "/kyc",
		Resource: access.KYC,
		Source:   src,
		Filters: []screen.FilterField{
			screen.Text("full_name", "Name"),
			screen.Text("reference", "Reference"),
			screen.MultiSelect("status", "Status", statuses),
			screen.Select("document_type", "Document", docTypes),
			screen.DateRange("created_at", "Submitted"),
		},
		Sortable:   []string{"full_name", "status", "document_type", "created_at"},
		Sort:       listing.Sort{By: "created_at", Direction: listing.Desc},
		ScopeField: "co_account_id",
		ID:         func(k domain.KYCRequest) uint { return k.ID },
		Draft:      DraftOf,
		Initial:    func() SubmitRequest { return SubmitRequest{DocumentType: DocumentKTP} },
		Bind: func(c *gin.Context, d *SubmitRequest) error {
			return screen.BindForm(c, d)
		},
		Schema: formSchema(v),
		Options: func(SubmitRequest) []upsert.OptionLoad {
			if members == nil {
				return nil
			}
			return []upsert.OptionLoad{{Key: "members", Load: members}}
		},
		Messages: &upsert.Messages{
			CreateConfirm: &upsert.ConfirmOptions{
				Title:         "Submit KYC",
				Message:       "Submit this identity verification request for review?",
				PrimaryText:   "Submit",
				SecondaryText: "Cancel",
			},
			Created:      "KYC request has been submitted",
			CreateFailed: "Failed to submit KYC request",
			LoadFailed:   "Failed to load KYC request",
		},
		Actions: []screen.Action[domain.KYCRequest]{
			{
				Name:      ActionApprove,
				Label:     "Approve",
				Privilege: access.Manage,
				Confirm: &upsert.ConfirmOptions{
					Title:         "Approve KYC",
					Message:       "Confirm that the document matches the member.",
					PrimaryText:   "Approve",
					SecondaryText: "Cancel",
				},
				Success:  "KYC request has been approved",
				Fallback: "Failed to approve KYC request",
				Note:     true,
				Visible:  pending,
				Run: func(ctx context.Context, id uint, note string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionApprove, Note: note})
				},
			},
			{
				Name:      ActionReject,
				Label:     "Reject",
				Privilege: access.Manage,
				Confirm: &upsert.ConfirmOptions{
					Title:         "Reject KYC",
					Message:       "Tell the member why the request is rejected.",
					PrimaryText:   "Reject",
					SecondaryText: "Cancel",
				},
				Success:  "KYC request has been rejected",
				Fallback: "Failed to reject KYC request",
				Note:     true,
				Visible:  pending,
				Run: func(ctx context.Context, id uint, note string) upsert.Outcome {
					return src.Action(ctx, id, fetch.ActionInput{Name: ActionReject, Note: note})
				},
			},
		},
		NoUpdate: true,
		NoDelete: true,
		Extra: func(context.Context) gin.H {
			return gin.H{"DocumentTypes": docTypes}
		},
	})
}

func formSchema(v *validator.Validate) *upsert.Schema[SubmitRequest] {
	return upsert.NewSchema[SubmitRequest](v).
		Field("member_id", "required", func(d SubmitRequest) any { return d.MemberID }).
		Field("full_name", "required,min=2,max=150", func(d SubmitRequest) any { return strings.TrimSpace(d.FullName) }).
		Field("document_type", "required,oneof=KTP PASSPORT SIM", func(d SubmitRequest) any { return d.DocumentType }).
		Field("document_number", "required,max=32", func(d SubmitRequest) any { return strings.TrimSpace(d.DocumentNumber) }).
		Check("document_number", func(d SubmitRequest) string {
			msg := documentNumberProblem(d.DocumentType, strings.ToUpper(strings.TrimSpace(d.DocumentNumber)))
			if msg == "" {
				return ""
			}
			return "Must " + strings.TrimPrefix(msg, "must ")
		})
}
