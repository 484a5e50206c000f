package repositories

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Mafunamiii/zoopwallet/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens an isolated in-memory SQLite database with the full
// schema applied. Each call gets its own named database so tests do not
// share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func mustCreateWallet(t *testing.T, repo WalletRepository, userID uint, balance int64) *models.Wallet {
	t.Helper()
	w := &models.Wallet{
		UserID:             userID,
		Balance:            balance,
		Currency:           "USD",
		ProviderCustomerID: "cus_test",
	}
	if err := repo.Create(w); err != nil {
		t.Fatalf("failed to create wallet: %v", err)
	}
	return w
}
