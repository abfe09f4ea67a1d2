package kyc

import "github.com/simp-lee/coconsole/internal/domain"

// SubmitRequest opens a KYC request for a member.
type SubmitRequest struct {
	MemberID       uint   `json:"member_id" form:"member_id" binding:"required"`
	FullName       string `json:"full_name" form:"full_name" binding:"required,min=2,max=150"`
	DocumentType   string `json:"document_type" form:"document_type" binding:"required,oneof=KTP PASSPORT SIM"`
	DocumentNumber string `json:"document_number" form:"document_number" binding:"required,max=32"`
}

// ReviewRequest carries the reviewer's note on approve or reject.
type ReviewRequest struct {
	Note string `json:"note" form:"note" binding:"max=500"`
}

// Input converts the request into service input.
func (r SubmitRequest) Input() domain.KYCInput {
	return domain.KYCInput{
		MemberID:       r.MemberID,
		FullName:       r.FullName,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
	}
}

// DraftOf returns the submitted fields of a request.
func DraftOf(k domain.KYCRequest) SubmitRequest {
	return SubmitRequest{
		MemberID:       k.MemberID,
		FullName:       k.FullName,
		DocumentType:   k.DocumentType,
		DocumentNumber: k.DocumentNumber,
	}
}
