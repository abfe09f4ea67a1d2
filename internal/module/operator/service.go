package operator

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// operatorService implements domain.OperatorService.
type operatorService struct {
	repo domain.OperatorRepository
	cost int
}

// NewOperatorService creates a new OperatorService with the given repository.
func NewOperatorService(repo domain.OperatorRepository) domain.OperatorService {
	return &operatorService{repo: repo, cost: bcrypt.DefaultCost}
}

// CreateOperator validates input, hashes the password and persists the operator.
func (s *operatorService) CreateOperator(ctx context.Context, in domain.OperatorInput) (*domain.Operator, error) {
	if _, scoped := domain.ScopeFrom(ctx); scoped {
		return nil, domain.ErrForbidden
	}
	in = normalize(in)
	if err := validateOperator(in); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "password is required", nil)
	}

	op := &domain.Operator{}
	if err := s.apply(op, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// GetOperator retrieves an operator by ID. A scoped caller only sees the
// operators of its own CO account.
func (s *operatorService) GetOperator(ctx context.Context, id uint) (*domain.Operator, error) {
	op, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, scoped := domain.ScopeFrom(ctx); scoped && (op.COAccountID == nil || !domain.InScope(ctx, *op.COAccountID)) {
		return nil, domain.ErrNotFound
	}
	return op, nil
}

// ListOperators returns a paginated list of operators.
func (s *operatorService) ListOperators(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Operator], error) {
	return s.repo.List(ctx, pkg.ScopeFilter(ctx, req, "co_account_id"))
}

// UpdateOperator applies changes to an operator. An empty password keeps the
// current one.
func (s *operatorService) UpdateOperator(ctx context.Context, id uint, in domain.OperatorInput) (*domain.Operator, error) {
	if _, scoped := domain.ScopeFrom(ctx); scoped {
		return nil, domain.ErrForbidden
	}
	in = normalize(in)
	if err := validateOperator(in); err != nil {
		return nil, err
	}

	op, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(op, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// DeleteOperator removes an operator by ID.
func (s *operatorService) DeleteOperator(ctx context.Context, id uint) error {
	if _, scoped := domain.ScopeFrom(ctx); scoped {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *operatorService) apply(op *domain.Operator, in domain.OperatorInput) error {
	op.Name = in.Name
	op.Email = in.Email
	op.Role = in.Role
	op.COAccountID = in.COAccountID
	if in.Password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}
	op.PasswordHash = string(hash)
	return nil
}

func normalize(in domain.OperatorInput) domain.OperatorInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.COAccountID != nil && *in.COAccountID == 0 {
		in.COAccountID = nil
	}
	return in
}

// validateOperator checks the fields of a normalized input.
func validateOperator(in domain.OperatorInput) error {
	n := utf8.RuneCountInString(in.Name)
	switch {
	case n == 0:
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	case n < 2:
		return domain.NewAppError(domain.CodeValidation, "name must be at least 2 characters", nil)
	case n > 100:
		return domain.NewAppError(domain.CodeValidation, "name must be at most 100 characters", nil)
	}

	if in.Email == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}

	switch in.Role {
	case domain.RolePrincipal:
		if in.COAccountID != nil {
			return domain.NewAppError(domain.CodeValidation, "principal operators cannot belong to a co account", nil)
		}
	case domain.RoleCO:
		if in.COAccountID == nil {
			return domain.NewAppError(domain.CodeValidation, "co operators need a co account", nil)
		}
	default:
		return domain.NewAppError(domain.CodeValidation, "role must be principal or co", nil)
	}

	if in.Password != "" && !pkg.ValidPassword(in.Password) {
		return domain.NewAppError(domain.CodeValidation, "password must be 8-72 characters with upper, lower case letters and a digit", nil)
	}
	return nil
}
