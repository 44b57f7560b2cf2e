package pgsql

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all PostgreSQL repositories over a shared
// connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := NewPgAccountRepository(dbPool)

	return portsrepo.RepositoryProvider{
		Account:      accountRepo,
		Category:     NewPgCategoryRepository(dbPool),
		Transaction:  NewPgTransactionRepository(dbPool, accountRepo),
		Group:        NewPgGroupRepository(dbPool, accountRepo),
		Balance:      NewPgBalanceRepository(dbPool),
		Reporting:    NewPgReportingRepository(dbPool),
		Voucher:      NewPgVoucherRepository(dbPool),
		Document:     NewPgDocumentRepository(dbPool, accountRepo),
		Tenant:       NewPgTenantRepository(dbPool),
		User:         NewPgUserRepository(dbPool),
		Currency:     NewPgCurrencyRepository(dbPool),
		ExchangeRate: NewPgExchangeRateRepository(dbPool),
	}
}
