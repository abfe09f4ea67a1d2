package smscontent

import "github.com/simp-lee/coconsole/internal/domain"

// SMSContentRequest is the write payload of an SMS content.
type SMSContentRequest struct {
	Code     string `json:"code" form:"code" binding:"required,max=64"`
	Title    string `json:"title" form:"title" binding:"required,max=150"`
	Body     string `json:"body" form:"body" binding:"required,max=480"`
	Language string `json:"language" form:"language" binding:"required,oneof=en id"`
}

// Input converts the request into service input.
func (r SMSContentRequest) Input() domain.SMSContentInput {
	return domain.SMSContentInput{Code: r.Code, Title: r.Title, Body: r.Body, Language: r.Language}
}

// DraftOf returns the form draft of an existing SMS content.
func DraftOf(s domain.SMSContent) SMSContentRequest {
	return SMSContentRequest{Code: s.Code, Title: s.Title, Body: s.Body, Language: s.Language}
}
