package services

// ServiceContainer aggregates every service facade for injection into the
// handler layer.
type ServiceContainer struct {
	UserSvc         UserSvcFacade
	TenantSvc       TenantSvcFacade
	CurrencySvc     CurrencySvcFacade
	ExchangeRateSvc ExchangeRateSvcFacade
	CategorySvc     CategorySvcFacade
	AccountSvc      AccountSvcFacade
	TransactionSvc  TransactionSvcFacade
	GroupSvc        GroupSvcFacade
	BalanceSvc      BalanceSvcFacade
	VoucherSvc      VoucherSvcFacade
	DocumentSvc     DocumentSvcFacade
	ReportingSvc    ReportingSvcFacade
}
