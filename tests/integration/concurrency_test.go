package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentWebhookDeliveriesCreditOnce(t *testing.T) {
	e := newEnv(t)

	res := e.initiateDeposit(t, gin.H{"amount": 1000, "email": "user@example.com", "method": "card"})
	body := opayWebhookBody(t, res["reference"].(string), "SUCCESS", "101500", opaySecret)

	const deliveries = 20
	var wg sync.WaitGroup
	wg.Add(deliveries)
	for i := 0; i < deliveries; i++ {
		go func() {
			defer wg.Done()
			w := e.do(http.MethodPost, "/opay-webhook", body, nil)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	wallet, err := e.walletRepo.GetByUserID(context.Background(), e.user.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(1000)),
		"%d concurrent deliveries must credit exactly once, balance is %s", deliveries, wallet.Balance)
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	e := newEnv(t)
	// Enough for exactly two 500+20 withdrawals.
	e.walletRepo.setBalance(e.user.ID, decimal.NewFromInt(1040))

	body := gin.H{"amount": 500, "bank_code": "058", "account_number": "0123456789", "account_name": "Ada Obi"}
	header := e.authHeader(t)

	const attempts = 10
	results := make(chan int, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			w := e.doJSON(http.MethodPost, "/withdraw", body, header)
			results <- w.Code
		}()
	}
	wg.Wait()
	close(results)

	var ok, rejected int
	for code := range results {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
			rejected++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 2, ok, "only two withdrawals fit the balance")
	assert.Equal(t, attempts-2, rejected)

	wallet, err := e.walletRepo.GetByUserID(context.Background(), e.user.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero(), "balance is %s", wallet.Balance)
	assert.False(t, wallet.Balance.IsNegative(), "balance must never go negative")
}

func TestConcurrentMixedSettlementAndWithdrawal(t *testing.T) {
	e := newEnv(t)
	e.walletRepo.setBalance(e.user.ID, decimal.NewFromInt(520))

	res := e.initiateDeposit(t, gin.H{"amount": 1000, "email": "user@example.com", "method": "card"})
	webhook := opayWebhookBody(t, res["reference"].(string), "SUCCESS", "101500", opaySecret)
	withdrawal := gin.H{"amount": 500, "bank_code": "058", "account_number": "0123456789", "account_name": "Ada Obi"}
	header := e.authHeader(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w := e.do(http.MethodPost, "/opay-webhook", webhook, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}()
	go func() {
		defer wg.Done()
		w := e.doJSON(http.MethodPost, "/withdraw", withdrawal, header)
		assert.Equal(t, http.StatusOK, w.Code)
	}()
	wg.Wait()

	// 520 + 1000 - 520 regardless of interleaving.
	wallet, err := e.walletRepo.GetByUserID(context.Background(), e.user.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(1000)), "balance is %s", wallet.Balance)
}
