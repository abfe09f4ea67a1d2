package coaccount

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

// codePattern is the shape of a CO account code, checked after upper-casing.
var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,31}$`)

type coAccountService struct {
	repo    domain.COAccountRepository
	regions domain.RegionService
	v       *validator.Validate
	cost    int
}

// NewCOAccountService creates a new COAccountService. When regions is not
// nil, the province and city of an account must belong to its country and
// province.
func NewCOAccountService(repo domain.COAccountRepository, regions domain.RegionService) domain.COAccountService {
	return &coAccountService{
		repo:    repo,
		regions: regions,
		v:       pkg.NewValidator(),
		cost:    bcrypt.DefaultCost,
	}
}

// CreateCOAccount registers an active CO account. Every PIC user needs a password.
func (s *coAccountService) CreateCOAccount(ctx context.Context, in domain.COAccountInput) (*domain.COAccount, error) {
	if _, scoped := domain.ScopeFrom(ctx); scoped {
		return nil, domain.ErrForbidden
	}
	in = normalize(in)
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	pics, err := s.picUsers(in.PICUsers, nil)
	if err != nil {
		return nil, err
	}

	co := &domain.COAccount{Status: domain.StatusActive}
	apply(co, in, pics)
	if err := s.repo.Create(ctx, co); err != nil {
		return nil, err
	}
	return co, nil
}

// GetCOAccount returns a CO account with its sub-lists. A scoped caller only
// sees its own account.
func (s *coAccountService) GetCOAccount(ctx context.Context, id uint) (*domain.COAccount, error) {
	if !domain.InScope(ctx, id) {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *coAccountService) ListCOAccounts(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.COAccount], error) {
	return s.repo.List(ctx, pkg.ScopeFilter(ctx, req, "id"))
}

// UpdateCOAccount replaces the account's fields and sub-lists. A PIC user
// submitted without a password keeps the stored hash of the PIC user with
// the same email.
func (s *coAccountService) UpdateCOAccount(ctx context.Context, id uint, in domain.COAccountInput) (*domain.COAccount, error) {
	co, err := s.GetCOAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	in = normalize(in)
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	pics, err := s.picUsers(in.PICUsers, co.PICUsers)
	if err != nil {
		return nil, err
	}

	apply(co, in, pics)
	if err := s.repo.Update(ctx, co); err != nil {
		return nil, err
	}
	return co, nil
}

func (s *coAccountService) DeleteCOAccount(ctx context.Context, id uint) error {
	if _, scoped := domain.ScopeFrom(ctx); scoped {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// ActivateCOAccount re-enables an inactive account.
func (s *coAccountService) ActivateCOAccount(ctx context.Context, id uint) (*domain.COAccount, error) {
	return s.setStatus(ctx, id, domain.StatusActive, "co account is already active")
}

// DeactivateCOAccount suspends an account.
func (s *coAccountService) DeactivateCOAccount(ctx context.Context, id uint) (*domain.COAccount, error) {
	return s.setStatus(ctx, id, domain.StatusInactive, "co account is already inactive")
}

func (s *coAccountService) setStatus(ctx context.Context, id uint, status, conflict string) (*domain.COAccount, error) {
	co, err := s.GetCOAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if co.Status == status {
		return nil, domain.NewAppError(domain.CodeConflict, conflict, nil)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	co.Status = status
	return co, nil
}

func (s *coAccountService) validate(ctx context.Context, in domain.COAccountInput) error {
	if !codePattern.MatchString(in.Code) {
		return invalid("code must be 3-32 characters of A-Z, 0-9 and -")
	}
	if n := utf8.RuneCountInString(in.Name); n < 2 || n > 150 {
		return invalid("name must be 2-150 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return invalid("email must be a valid email address")
	}
	if in.Phone != "" && !pkg.ValidPhone(in.Phone) {
		return invalid("phone must be 8-15 digits")
	}
	if err := s.validateRegion(ctx, in); err != nil {
		return err
	}

	mains := 0
	for i, b := range in.BankAccounts {
		if err := s.entry("bank account", i, b); err != nil {
			return err
		}
		if b.FundType == domain.FundTypeMain {
			mains++
		}
	}
	if mains > 1 {
		return invalid("only one bank account can be the main fund account")
	}
	for i, a := range in.Addresses {
		if err := s.entry("address", i, a); err != nil {
			return err
		}
	}
	for i, c := range in.Contacts {
		if err := s.entry("contact", i, c); err != nil {
			return err
		}
	}
	emails := make(map[string]bool, len(in.PICUsers))
	for i, p := range in.PICUsers {
		if err := s.entry("pic user", i, p); err != nil {
			return err
		}
		if emails[p.Email] {
			return invalid(fmt.Sprintf("pic user %d: email %s is listed twice", i+1, p.Email))
		}
		emails[p.Email] = true
	}
	return nil
}

func (s *coAccountService) validateRegion(ctx context.Context, in domain.COAccountInput) error {
	if in.CountryCode == "" || in.ProvinceCode == "" || in.CityCode == "" {
		return invalid("country, province and city are required")
	}
	if s.regions == nil {
		return nil
	}
	provinces, err := s.regions.Provinces(ctx, in.CountryCode)
	if err != nil {
		return err
	}
	if !containsCode(provinces, in.ProvinceCode) {
		return invalid("province does not belong to the selected country")
	}
	cities, err := s.regions.Cities(ctx, in.ProvinceCode)
	if err != nil {
		return err
	}
	if !containsCode(cities, in.CityCode) {
		return invalid("city does not belong to the selected province")
	}
	return nil
}

// entry validates one sub-list entry by its `validate` tags and reports the
// first failing field.
func (s *coAccountService) entry(kind string, i int, e any) error {
	err := s.v.Struct(e)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return invalid(fmt.Sprintf("%s %d: %s: %s", kind, i+1, fe.Field(), pkg.FieldMessage(fe)))
	}
	return domain.NewAppError(domain.CodeInternal, "failed to validate "+kind, err)
}

// picUsers hashes submitted passwords. An empty password falls back to the
// hash in existing with the same email.
func (s *coAccountService) picUsers(in []domain.PICUserInput, existing []domain.PICUser) ([]domain.PICUser, error) {
	hashes := make(map[string]string, len(existing))
	for _, p := range existing {
		hashes[p.Email] = p.PasswordHash
	}

	out := make([]domain.PICUser, 0, len(in))
	for i, p := range in {
		u := domain.PICUser{Name: p.Name, Email: p.Email}
		switch {
		case p.Password != "":
			hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.cost)
			if err != nil {
				return nil, domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
			}
			u.PasswordHash = string(hash)
		case hashes[p.Email] != "":
			u.PasswordHash = hashes[p.Email]
		default:
			return nil, invalid(fmt.Sprintf("pic user %d: password is required", i+1))
		}
		out = append(out, u)
	}
	return out, nil
}

func normalize(in domain.COAccountInput) domain.COAccountInput {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.PICUsers = slices.Clone(in.PICUsers)
	for i := range in.PICUsers {
		in.PICUsers[i].Name = strings.TrimSpace(in.PICUsers[i].Name)
		in.PICUsers[i].Email = strings.ToLower(strings.TrimSpace(in.PICUsers[i].Email))
	}
	return in
}

func apply(co *domain.COAccount, in domain.COAccountInput, pics []domain.PICUser) {
	co.Code = in.Code
	co.Name = in.Name
	co.Email = in.Email
	co.Phone = in.Phone
	co.CountryCode = in.CountryCode
	co.ProvinceCode = in.ProvinceCode
	co.CityCode = in.CityCode
	co.BankAccounts = slices.Clone(in.BankAccounts)
	co.Addresses = slices.Clone(in.Addresses)
	co.Contacts = slices.Clone(in.Contacts)
	co.PICUsers = pics
	// sub-list rows are always written fresh
	for i := range co.BankAccounts {
		co.BankAccounts[i].ID = 0
	}
	for i := range co.Addresses {
		co.Addresses[i].ID = 0
	}
	for i := range co.Contacts {
		co.Contacts[i].ID = 0
	}
}

func containsCode(regions []domain.Region, code string) bool {
	return slices.ContainsFunc(regions, func(r domain.Region) bool { return r.Code == code })
}

func invalid(msg string) error {
	return domain.NewAppError(domain.CodeValidation, msg, nil)
}
