package kyc

import (
	"context"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// Document types accepted for identity verification.
const (
	DocumentKTP      = "KTP"
	DocumentPassport = "PASSPORT"
	DocumentSIM      = "SIM"
)

// DocumentTypes lists the accepted document types.
var DocumentTypes = []string{DocumentKTP, DocumentPassport, DocumentSIM}

type kycService struct {
	repo    domain.KYCRepository
	members domain.MemberService
	now     func() time.Time
	newRef  func() string
}

// NewKYCService creates a new KYCService. members resolves the member a request
// is submitted for, honouring the CO scope of ctx.
func NewKYCService(repo domain.KYCRepository, members domain.MemberService) domain.KYCService {
	return &kycService{
		repo:    repo,
		members: members,
		now:     time.Now,
		newRef:  func() string { return uuid.NewString() },
	}
}

// SubmitKYC opens a pending request for a member visible under ctx.
func (s *kycService) SubmitKYC(ctx context.Context, in domain.KYCInput) (*domain.KYCRequest, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.DocumentType = strings.ToUpper(strings.TrimSpace(in.DocumentType))
	in.DocumentNumber = strings.ToUpper(strings.TrimSpace(in.DocumentNumber))
	if err := validateKYC(in); err != nil {
		return nil, err
	}

	m, err := s.members.GetMember(ctx, in.MemberID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewAppError(domain.CodeValidation, "member does not exist", nil)
		}
		return nil, err
	}

	k := &domain.KYCRequest{
		Reference:      s.newRef(),
		MemberID:       m.ID,
		COAccountID:    m.COAccountID,
		FullName:       in.FullName,
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		Status:         domain.KYCPending,
	}
	if err := s.repo.Create(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

func (s *kycService) GetKYC(ctx context.Context, id uint) (*domain.KYCRequest, error) {
	k, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.InScope(ctx, k.COAccountID) {
		return nil, domain.ErrNotFound
	}
	return k, nil
}

func (s *kycService) ListKYC(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.KYCRequest], error) {
	return s.repo.List(ctx, pkg.ScopeFilter(ctx, req, "co_account_id"))
}

// ApproveKYC approves a pending request. The note is optional.
func (s *kycService) ApproveKYC(ctx context.Context, id, reviewerID uint, note string) (*domain.KYCRequest, error) {
	return s.review(ctx, id, reviewerID, domain.KYCApproved, strings.TrimSpace(note))
}

// RejectKYC rejects a pending request. The note tells the member why and is required.
func (s *kycService) RejectKYC(ctx context.Context, id, reviewerID uint, note string) (*domain.KYCRequest, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "a note is required to reject a kyc request", nil)
	}
	return s.review(ctx, id, reviewerID, domain.KYCRejected, note)
}

func (s *kycService) review(ctx context.Context, id, reviewerID uint, status, note string) (*domain.KYCRequest, error) {
	if utf8.RuneCountInString(note) > 500 {
		return nil, domain.NewAppError(domain.CodeValidation, "note must be at most 500 characters", nil)
	}
	k, err := s.GetKYC(ctx, id)
	if err != nil {
		return nil, err
	}
	if k.Status != domain.KYCPending {
		return nil, domain.NewAppError(domain.CodeConflict, "kyc request has already been reviewed", nil)
	}

	now := s.now().UTC()
	k.Status = status
	k.Note = note
	k.ReviewedAt = &now
	if reviewerID != 0 {
		k.ReviewedBy = &reviewerID
	}
	if err := s.repo.Update(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

func validateKYC(in domain.KYCInput) error {
	if in.MemberID == 0 {
		return domain.NewAppError(domain.CodeValidation, "member is required", nil)
	}
	n := utf8.RuneCountInString(in.FullName)
	if n < 2 || n > 150 {
		return domain.NewAppError(domain.CodeValidation, "full name must be 2-150 characters", nil)
	}
	if !slices.Contains(DocumentTypes, in.DocumentType) {
		return domain.NewAppError(domain.CodeValidation, "document type must be one of: "+strings.Join(DocumentTypes, ", "), nil)
	}
	if msg := documentNumberProblem(in.DocumentType, in.DocumentNumber); msg != "" {
		return domain.NewAppError(domain.CodeValidation, "document number "+msg, nil)
	}
	return nil
}

// documentNumberProblem describes what is wrong with number for the document
// type, or returns "".
func documentNumberProblem(docType, number string) string {
	switch docType {
	case DocumentKTP:
		if len(number) != 16 || !digits(number) {
			return "must be 16 digits for KTP"
		}
	case DocumentSIM:
		if len(number) < 12 || len(number) > 14 || !digits(number) {
			return "must be 12-14 digits for SIM"
		}
	case DocumentPassport:
		if len(number) < 6 || len(number) > 9 || !alnum(number) {
			return "must be 6-9 letters or digits for passport"
		}
	}
	return ""
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func alnum(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}
