package member

import (
	"context"
	"strconv"

	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/console/option"
	"github.com/simp-lee/coconsole/internal/domain"
)

// Member actions.
const (
	ActionLock   = "lock"
	ActionUnlock = "unlock"
)

// optionLimit caps the rows loaded into a select input.
const optionLimit = 100

// Source serves the member screen from the local service.
type Source struct {
	svc domain.MemberService
}

var _ fetch.Source[domain.Member, MemberRequest] = (*Source)(nil)

// NewSource returns a Source backed by svc.
func NewSource(svc domain.MemberService) *Source {
	return &Source{svc: svc}
}

func (s *Source) List(ctx context.Context, req listing.Request) fetch.Response[listing.Page[domain.Member]] {
	return fetch.FromPage(s.svc.ListMembers(ctx, fetch.PageRequest(req)))
}

func (s *Source) Get(ctx context.Context, id uint) fetch.Response[domain.Member] {
	return fetch.FromPtr(s.svc.GetMember(ctx, id))
}

func (s *Source) Create(ctx context.Context, req MemberRequest) fetch.Response[domain.Member] {
	in, err := req.Input()
	if err != nil {
		return fetch.FromPtr[domain.Member](nil, err)
	}
	return fetch.FromPtr(s.svc.CreateMember(ctx, in))
}

func (s *Source) Update(ctx context.Context, id uint, req MemberRequest) fetch.Response[domain.Member] {
	in, err := req.Input()
	if err != nil {
		return fetch.FromPtr[domain.Member](nil, err)
	}
	return fetch.FromPtr(s.svc.UpdateMember(ctx, id, in))
}

func (s *Source) Delete(ctx context.Context, id uint) fetch.Response[struct{}] {
	return fetch.Done(s.svc.DeleteMember(ctx, id))
}

func (s *Source) Action(ctx context.Context, id uint, in fetch.ActionInput) fetch.Response[domain.Member] {
	switch in.Name {
	case ActionLock:
		return fetch.FromPtr(s.svc.LockMember(ctx, id))
	case ActionUnlock:
		return fetch.FromPtr(s.svc.UnlockMember(ctx, id))
	}
	return fetch.Fail[domain.Member]("unknown action " + in.Name)
}

// Options lists the members visible under ctx as select options.
func Options(svc domain.MemberService) func(ctx context.Context) ([]option.Option, error) {
	return func(ctx context.Context) ([]option.Option, error) {
		res, err := svc.ListMembers(ctx, domain.PageRequest{Page: 1, PageSize: optionLimit, Sort: "name:asc"})
		if err != nil {
			return nil, err
		}
		l := option.Plain(res.Items,
			func(m domain.Member) string { return m.Name + " <" + m.Email + ">" },
			func(m domain.Member) string { return strconv.FormatUint(uint64(m.ID), 10) })
		return l.Options, nil
	}
}
