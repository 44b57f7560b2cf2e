package services

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly wired dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The tenant service doubles as the authorizer every other service
	// consults, so it comes first.
	container.TenantSvc = NewTenantService(repos.Tenant, repos.Currency)
	authorizer := portssvc.TenantAuthorizerSvc(container.TenantSvc)

	container.UserSvc = NewUserService(repos.User, cfg)
	container.CurrencySvc = NewCurrencyService(repos.Currency)
	container.ExchangeRateSvc = NewExchangeRateService(repos.ExchangeRate, container.CurrencySvc)
	container.CategorySvc = NewCategoryService(repos.Category, authorizer)

	container.AccountSvc = NewAccountService(
		repos.Account,
		repos.Category,
		WithTenantAuthorizer(authorizer),
		WithCurrencyRepository(repos.Currency),
		WithTenantRepository(repos.Tenant),
	)

	container.TransactionSvc = NewTransactionService(
		repos.Transaction,
		repos.Account,
		repos.Tenant,
		repos.Currency,
		container.ExchangeRateSvc,
		authorizer,
	)
	container.GroupSvc = NewGroupService(
		repos.Group,
		repos.Transaction,
		repos.Account,
		repos.Tenant,
		repos.Currency,
		container.ExchangeRateSvc,
		authorizer,
	)
	container.BalanceSvc = NewBalanceService(repos.Balance, repos.Account, repos.Tenant, authorizer)
	container.VoucherSvc = NewVoucherService(repos.Voucher, container.TransactionSvc, authorizer)
	container.DocumentSvc = NewDocumentService(
		repos.Document,
		container.AccountSvc,
		repos.Account,
		repos.Tenant,
		repos.Currency,
		container.ExchangeRateSvc,
		authorizer,
	)
	container.ReportingSvc = NewReportingService(repos.Reporting, authorizer)

	return container
}
