package smscontent

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/coconsole/internal/domain"
)

// MaxBodyLength is the longest SMS body accepted, three concatenated segments.
const MaxBodyLength = 480

// Languages lists the supported SMS languages.
var Languages = []string{"en", "id"}

var codePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

type smsContentService struct {
	repo domain.SMSContentRepository
}

// NewSMSContentService creates a new SMSContentService with the given repository.
func NewSMSContentService(repo domain.SMSContentRepository) domain.SMSContentService {
	return &smsContentService{repo: repo}
}

// CreateSMSContent stores a new, inactive SMS content.
func (s *smsContentService) CreateSMSContent(ctx context.Context, in domain.SMSContentInput) (*domain.SMSContent, error) {
	in = normalize(in)
	if err := validate(in); err != nil {
		return nil, err
	}

	sms := &domain.SMSContent{
		Code:     in.Code,
		Title:    in.Title,
		Body:     in.Body,
		Language: in.Language,
	}
	if err := s.repo.Create(ctx, sms); err != nil {
		return nil, err
	}
	return sms, nil
}

func (s *smsContentService) GetSMSContent(ctx context.Context, id uint) (*domain.SMSContent, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *smsContentService) ListSMSContents(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.SMSContent], error) {
	return s.repo.List(ctx, req)
}

func (s *smsContentService) UpdateSMSContent(ctx context.Context, id uint, in domain.SMSContentInput) (*domain.SMSContent, error) {
	in = normalize(in)
	if err := validate(in); err != nil {
		return nil, err
	}

	sms, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sms.Code = in.Code
	sms.Title = in.Title
	sms.Body = in.Body
	sms.Language = in.Language

	if err := s.repo.Update(ctx, sms); err != nil {
		return nil, err
	}
	return sms, nil
}

// DeleteSMSContent removes an inactive SMS content. Active contents are in use
// and must be deactivated first.
func (s *smsContentService) DeleteSMSContent(ctx context.Context, id uint) error {
	sms, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sms.Active {
		return domain.NewAppError(domain.CodeConflict, "deactivate the sms content before deleting it", nil)
	}
	return s.repo.Delete(ctx, id)
}

func (s *smsContentService) SetSMSContentActive(ctx context.Context, id uint, active bool) (*domain.SMSContent, error) {
	sms, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sms.Active == active {
		msg := "sms content is already inactive"
		if active {
			msg = "sms content is already active"
		}
		return nil, domain.NewAppError(domain.CodeConflict, msg, nil)
	}
	sms.Active = active
	if err := s.repo.Update(ctx, sms); err != nil {
		return nil, err
	}
	return sms, nil
}

func normalize(in domain.SMSContentInput) domain.SMSContentInput {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.Language = strings.ToLower(strings.TrimSpace(in.Language))
	return in
}

func validate(in domain.SMSContentInput) error {
	switch {
	case in.Code == "":
		return domain.NewAppError(domain.CodeValidation, "code is required", nil)
	case len(in.Code) > 64 || !codePattern.MatchString(in.Code):
		return domain.NewAppError(domain.CodeValidation, "code must be upper case letters, digits and underscores", nil)
	case in.Title == "":
		return domain.NewAppError(domain.CodeValidation, "title is required", nil)
	case utf8.RuneCountInString(in.Title) > 150:
		return domain.NewAppError(domain.CodeValidation, "title must be at most 150 characters", nil)
	case in.Body == "":
		return domain.NewAppError(domain.CodeValidation, "body is required", nil)
	case utf8.RuneCountInString(in.Body) > MaxBodyLength:
		return domain.NewAppError(domain.CodeValidation, "body must be at most 480 characters", nil)
	case !slices.Contains(Languages, in.Language):
		return domain.NewAppError(domain.CodeValidation, "language must be one of: "+strings.Join(Languages, ", "), nil)
	}
	return nil
}
