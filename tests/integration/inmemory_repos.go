// Package integration exercises the full HTTP surface against in-memory
// stores and fake gateway backends.
package integration

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"wallet-gateway/internal/core/domain"
	"wallet-gateway/pkg/apperror"
)

// fakeTx satisfies pgx.Tx for services that group repository calls in a
// database transaction. The in-memory repositories apply writes immediately,
// so commit and rollback are no-ops.
type fakeTx struct{}

func (fakeTx) Begin(context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (fakeTx) Commit(context.Context) error          { return nil }
func (fakeTx) Rollback(context.Context) error        { return nil }
func (fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) pgx.Row       { return nil }
func (fakeTx) Conn() *pgx.Conn                                        { return nil }

type memTransactor struct{}

func (memTransactor) Begin(context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

type memTransactionRepo struct {
	mu  sync.Mutex
	txs map[string]*domain.Transaction
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{txs: make(map[string]*domain.Transaction)}
}

func (r *memTransactionRepo) Create(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	cp := *tx
	r.txs[tx.Reference] = &cp
	return nil
}

func (r *memTransactionRepo) GetByReference(_ context.Context, reference string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[reference]
	if !ok {
		return nil, apperror.ErrNotFound("Transaction")
	}
	cp := *tx
	return &cp, nil
}

func (r *memTransactionRepo) MarkSettled(_ context.Context, _ pgx.Tx, reference string, status domain.TransactionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[reference]
	if !ok || tx.Status != domain.TransactionStatusPending {
		return false, nil
	}
	tx.Status = status
	return true, nil
}

type memWalletRepo struct {
	mu       sync.Mutex
	balances map[uuid.UUID]decimal.Decimal
}

func newMemWalletRepo() *memWalletRepo {
	return &memWalletRepo{balances: make(map[uuid.UUID]decimal.Decimal)}
}

func (r *memWalletRepo) setBalance(userID uuid.UUID, balance decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[userID] = balance
}

func (r *memWalletRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[userID]
	if !ok {
		return nil, apperror.ErrNotFound("Wallet")
	}
	return &domain.Wallet{UserID: userID, Balance: balance}, nil
}

func (r *memWalletRepo) Credit(_ context.Context, _ pgx.Tx, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance := r.balances[userID].Add(amount)
	r.balances[userID] = balance
	return balance, nil
}

func (r *memWalletRepo) Debit(_ context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[userID]
	if !ok || balance.LessThan(amount) {
		return decimal.Zero, false, nil
	}
	balance = balance.Sub(amount)
	r.balances[userID] = balance
	return balance, true, nil
}

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (r *memProfileRepo) add(p *domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
}

func (r *memProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperror.ErrNotFound("Profile")
	}
	return p, nil
}

func (r *memProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, apperror.ErrNotFound("Profile")
}

type memAnomalyRepo struct {
	mu        sync.Mutex
	anomalies []*domain.Anomaly
}

func newMemAnomalyRepo() *memAnomalyRepo {
	return &memAnomalyRepo{}
}

func (r *memAnomalyRepo) Record(_ context.Context, anomaly *domain.Anomaly) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *anomaly
	r.anomalies = append(r.anomalies, &cp)
	return nil
}

func (r *memAnomalyRepo) byKind(kind domain.AnomalyKind) []*domain.Anomaly {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Anomaly
	for _, a := range r.anomalies {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
