package repositories

// RepositoryProvider aggregates all repository facades for dependency injection.
type RepositoryProvider struct {
	Account      AccountRepositoryFacade
	Category     CategoryRepositoryFacade
	Transaction  TransactionRepositoryFacade
	Group        GroupRepositoryFacade
	Balance      BalanceRepository
	Reporting    ReportingRepository
	Voucher      VoucherRepositoryFacade
	Document     DocumentRepositoryFacade
	Tenant       TenantRepositoryFacade
	User         UserRepositoryFacade
	Currency     CurrencyRepositoryFacade
	ExchangeRate ExchangeRateRepositoryFacade
}
