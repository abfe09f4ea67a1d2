package member

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

type memberService struct {
	repo domain.MemberRepository
	now  func() time.Time
}

// NewMemberService creates a new MemberService with the given repository.
// Every call honours the CO scope carried by ctx.
func NewMemberService(repo domain.MemberRepository) domain.MemberService {
	return &memberService{repo: repo, now: time.Now}
}

// CreateMember validates input and registers an active member. Scoped callers
// always create members of their own CO account.
func (s *memberService) CreateMember(ctx context.Context, in domain.MemberInput) (*domain.Member, error) {
	in = s.normalize(ctx, in)
	if err := validateMember(in); err != nil {
		return nil, err
	}

	m := &domain.Member{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Status:      domain.StatusActive,
		COAccountID: in.COAccountID,
		JoinedAt:    in.JoinedAt,
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = s.now().UTC().Truncate(24 * time.Hour)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMember returns a member visible under ctx.
func (s *memberService) GetMember(ctx context.Context, id uint) (*domain.Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.InScope(ctx, m.COAccountID) {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *memberService) ListMembers(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Member], error) {
	return s.repo.List(ctx, pkg.ScopeFilter(ctx, req, "co_account_id"))
}

func (s *memberService) UpdateMember(ctx context.Context, id uint, in domain.MemberInput) (*domain.Member, error) {
	m, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	in = s.normalize(ctx, in)
	if in.COAccountID == 0 {
		in.COAccountID = m.COAccountID
	}
	if err := validateMember(in); err != nil {
		return nil, err
	}

	m.Name = in.Name
	m.Email = in.Email
	m.Phone = in.Phone
	m.COAccountID = in.COAccountID
	if !in.JoinedAt.IsZero() {
		m.JoinedAt = in.JoinedAt
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *memberService) DeleteMember(ctx context.Context, id uint) error {
	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// LockMember blocks a member from signing in.
func (s *memberService) LockMember(ctx context.Context, id uint) (*domain.Member, error) {
	return s.setStatus(ctx, id, domain.StatusLocked, "member is already locked")
}

// UnlockMember reactivates a locked member.
func (s *memberService) UnlockMember(ctx context.Context, id uint) (*domain.Member, error) {
	return s.setStatus(ctx, id, domain.StatusActive, "member is not locked")
}

func (s *memberService) setStatus(ctx context.Context, id uint, status, conflict string) (*domain.Member, error) {
	m, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == status {
		return nil, domain.NewAppError(domain.CodeConflict, conflict, nil)
	}
	m.Status = status
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *memberService) normalize(ctx context.Context, in domain.MemberInput) domain.MemberInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if id, ok := domain.ScopeFrom(ctx); ok {
		in.COAccountID = id
	}
	return in
}

func validateMember(in domain.MemberInput) error {
	n := utf8.RuneCountInString(in.Name)
	switch {
	case in.Name == "":
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	case n < 2:
		return domain.NewAppError(domain.CodeValidation, "name must be at least 2 characters", nil)
	case n > 100:
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	}
	if in.Email == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}
	if in.Phone != "" && !pkg.ValidPhone(in.Phone) {
		return domain.NewAppError(domain.CodeValidation, "phone must be 8-15 digits", nil)
	}
	if in.COAccountID == 0 {
		return domain.NewAppError(domain.CodeValidation, "co account is required", nil)
	}
	return nil
}
