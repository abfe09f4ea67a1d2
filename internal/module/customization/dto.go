package customization

import "github.com/simp-lee/coconsole/internal/domain"

// CustomizationRequest is the write payload of a customization.
type CustomizationRequest struct {
	COAccountID  uint   `json:"co_account_id" form:"co_account_id"`
	AppName      string `json:"app_name" form:"app_name" binding:"required,min=2,max=100"`
	PrimaryColor string `json:"primary_color" form:"primary_color" binding:"required,hexcolor,len=7"`
}

// StepReport is the outcome of a provisioning step sent by the build pipeline.
type StepReport struct {
	Failure string `json:"failure" binding:"max=500"`
}

// Input converts the request into service input.
func (r CustomizationRequest) Input() domain.CustomizationInput {
	return domain.CustomizationInput{COAccountID: r.COAccountID, AppName: r.AppName, PrimaryColor: r.PrimaryColor}
}

// DraftOf returns the form draft of an existing customization.
func DraftOf(c domain.Customization) CustomizationRequest {
	return CustomizationRequest{COAccountID: c.COAccountID, AppName: c.AppName, PrimaryColor: c.PrimaryColor}
}
