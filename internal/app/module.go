package app

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/simp-lee/coconsole/internal/apiclient"
	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/option"
	"github.com/simp-lee/coconsole/internal/console/screen"
	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/module/auth"
	"github.com/simp-lee/coconsole/internal/module/coaccount"
	"github.com/simp-lee/coconsole/internal/module/customization"
	"github.com/simp-lee/coconsole/internal/module/kyc"
	"github.com/simp-lee/coconsole/internal/module/member"
	"github.com/simp-lee/coconsole/internal/module/operator"
	"github.com/simp-lee/coconsole/internal/module/region"
	"github.com/simp-lee/coconsole/internal/module/smscontent"
)

// Module defines the contract for a self-registering business module.
// Each module registers its own API and page routes.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}

// optionLimit caps the rows loaded into a form select.
const optionLimit = 100

// models lists every table of the console.
var models = []any{
	&domain.COAccount{},
	&domain.BankAccount{},
	&domain.Address{},
	&domain.Contact{},
	&domain.PICUser{},
	&domain.Member{},
	&domain.KYCRequest{},
	&domain.SMSContent{},
	&domain.Customization{},
	&domain.ProvisioningStep{},
	&domain.Region{},
	&domain.Operator{},
}

// services holds the local services of every module.
type services struct {
	regions        domain.RegionService
	members        domain.MemberService
	coAccounts     domain.COAccountService
	kyc            domain.KYCService
	smsContents    domain.SMSContentService
	customizations domain.CustomizationService
	operators      domain.OperatorService
	operatorRepo   domain.OperatorRepository
	regionRepo     domain.RegionRepository
	coAccountRepo  domain.COAccountRepository
}

func newServices(db *gorm.DB) *services {
	s := &services{
		regionRepo:    region.NewRegionRepository(db),
		operatorRepo:  operator.NewOperatorRepository(db),
		coAccountRepo: coaccount.NewCOAccountRepository(db),
	}
	s.regions = region.NewRegionService(s.regionRepo)
	s.members = member.NewMemberService(member.NewMemberRepository(db))
	s.coAccounts = coaccount.NewCOAccountService(s.coAccountRepo, s.regions)
	s.kyc = kyc.NewKYCService(kyc.NewKYCRepository(db), s.members)
	s.smsContents = smscontent.NewSMSContentService(smscontent.NewSMSContentRepository(db))
	s.customizations = customization.NewCustomizationService(customization.NewCustomizationRepository(db))
	s.operators = operator.NewOperatorService(s.operatorRepo)
	return s
}

// sources are the data sources behind the screens. They are the local
// services, or a remote console API when one is configured.
type sources struct {
	members        fetch.Source[domain.Member, member.MemberRequest]
	coAccounts     fetch.Source[domain.COAccount, coaccount.COAccountRequest]
	kyc            fetch.Source[domain.KYCRequest, kyc.SubmitRequest]
	smsContents    fetch.Source[domain.SMSContent, smscontent.SMSContentRequest]
	customizations fetch.Source[domain.Customization, customization.CustomizationRequest]
	operators      fetch.Source[domain.Operator, operator.OperatorRequest]

	memberOptions    func(ctx context.Context) ([]option.Option, error)
	coAccountOptions func(ctx context.Context) ([]option.Option, error)
}

func localSources(svc *services) *sources {
	return &sources{
		members:          member.NewSource(svc.members),
		coAccounts:       coaccount.NewSource(svc.coAccounts),
		kyc:              kyc.NewSource(svc.kyc),
		smsContents:      smscontent.NewSource(svc.smsContents),
		customizations:   customization.NewSource(svc.customizations),
		operators:        operator.NewSource(svc.operators),
		memberOptions:    member.Options(svc.members),
		coAccountOptions: coaccount.Options(svc.coAccounts),
	}
}

// remoteSources reads and writes through the REST API at baseURL. Requests
// carry a token issued for the operator of the screen.
func remoteSources(baseURL string, timeout time.Duration, tokens *auth.Tokens, logger *slog.Logger) *sources {
	client := apiclient.New(baseURL, timeout,
		apiclient.WithLogger(logger),
		apiclient.WithToken(principalToken(tokens)),
	)

	members := apiclient.NewSource[domain.Member, member.MemberRequest](client, "/members")
	coAccounts := apiclient.NewSource[domain.COAccount, coaccount.COAccountRequest](client, "/co-accounts")
	customizations := apiclient.NewSource[domain.Customization, customization.CustomizationRequest](client, "/customizations").
		WithActionPath(func(id uint, in fetch.ActionInput) string {
			p := "/customizations/" + idString(id)
			if in.Target != "" {
				p += "/steps/" + in.Target
			}
			return p + "/" + in.Name
		})

	return &sources{
		members:        members,
		coAccounts:     coAccounts,
		kyc:            apiclient.NewSource[domain.KYCRequest, kyc.SubmitRequest](client, "/kyc"),
		smsContents:    apiclient.NewSource[domain.SMSContent, smscontent.SMSContentRequest](client, "/sms-contents"),
		customizations: customizations,
		operators:      apiclient.NewSource[domain.Operator, operator.OperatorRequest](client, "/operators"),
		memberOptions: fetch.Options(members, "name:asc", optionLimit,
			func(m domain.Member) string { return m.Name + " <" + m.Email + ">" },
			func(m domain.Member) string { return idString(m.ID) }),
		coAccountOptions: fetch.Options(coAccounts, "name:asc", optionLimit,
			func(co domain.COAccount) string { return co.Name + " (" + co.Code + ")" },
			func(co domain.COAccount) string { return idString(co.ID) }),
	}
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// principalToken issues a short-lived token for the principal in ctx.
// Anonymous contexts call the API without one.
func principalToken(tokens *auth.Tokens) apiclient.TokenFunc {
	return func(ctx context.Context) (string, error) {
		p, ok := access.FromContext(ctx)
		if !ok {
			return "", nil
		}
		tok, _, err := tokens.Issue(p)
		return tok, err
	}
}

// moduleDeps holds everything buildModules wires together.
type moduleDeps struct {
	services  *services
	sources   *sources
	env       screen.Env
	validator *validator.Validate
	tokens    *auth.Tokens
	guard     *auth.Guard
	cookie    string
	expiry    time.Duration
}

// buildModules assembles handler, screen and module of every business area.
func buildModules(d moduleDeps) ([]Module, error) {
	if d.services == nil || d.sources == nil {
		return nil, errors.New("services and sources are required")
	}
	svc, src, env, v := d.services, d.sources, d.env, d.validator
	policy := env.Policy

	authSvc := auth.NewService(d.tokens, svc.operatorRepo, d.guard)

	return []Module{
		auth.NewModule(auth.NewHandler(authSvc, d.guard, env.Store, d.cookie, d.expiry)),
		region.NewModule(region.NewRegionHandler(svc.regions)),
		member.NewModule(
			member.NewMemberHandler(svc.members),
			member.NewScreen(env, src.members, v, src.coAccountOptions),
			policy),
		coaccount.NewModule(
			coaccount.NewCOAccountHandler(svc.coAccounts),
			coaccount.NewScreen(env, src.coAccounts, v, svc.regions),
			policy),
		kyc.NewModule(
			kyc.NewKYCHandler(svc.kyc),
			kyc.NewScreen(env, src.kyc, v, src.memberOptions),
			policy),
		smscontent.NewModule(
			smscontent.NewSMSContentHandler(svc.smsContents),
			smscontent.NewScreen(env, src.smsContents, v),
			policy),
		customization.NewModule(
			customization.NewCustomizationHandler(svc.customizations),
			customization.NewScreen(env, src.customizations, v, src.coAccountOptions),
			policy),
		operator.NewModule(
			operator.NewOperatorHandler(svc.operators),
			operator.NewScreen(env, src.operators, v, src.coAccountOptions),
			policy),
	}, nil
}
