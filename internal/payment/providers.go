package payment

import (
	"github.com/google/wire"

	"github.com/veloretail/backoffice/internal/payment/domain"
	"github.com/veloretail/backoffice/internal/payment/repository"
	"github.com/veloretail/backoffice/internal/payment/usecase/command"
	"github.com/veloretail/backoffice/internal/payment/usecase/query"
	"github.com/veloretail/backoffice/internal/store"
)

// ProvideTransactionRepository provides the settlement repository
func ProvideTransactionRepository(st store.Store, writer *store.AdaptiveWriter) domain.TransactionRepository {
	return repository.NewStoreTransactionRepository(st, writer)
}

func ProvideSettleTransactionHandler(repo domain.TransactionRepository) *command.SettleTransactionHandler {
	return command.NewSettleTransactionHandler(repo)
}

func ProvideMethodTotalsHandler(repo domain.TransactionRepository) *query.MethodTotalsHandler {
	return query.NewMethodTotalsHandler(repo)
}

// Wire sets
var PaymentSet = wire.NewSet(
	ProvideTransactionRepository,
	ProvideSettleTransactionHandler,
	ProvideMethodTotalsHandler,
)
