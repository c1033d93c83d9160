package service

import (
	"testing"
	"time"

	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRecordCreate(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	supplier := env.createCustomer(t, "Mombasa Suppliers")
	product := env.createProduct(t, "Maize Flour", "MF-01", 5000)

	t.Run("purchase adds stock without touching the balance", func(t *testing.T) {
		env.recordSimple(t, enum.TransactionTypePurchase, supplier.ID, product.ID, 10, 4000)

		assert.True(t, env.stock(t, product.ID).Equal(decimal.NewFromInt(10)))
		assert.Equal(t, int64(0), env.balance(t, supplier.ID))
	})

	t.Run("sale consumes stock and raises the balance", func(t *testing.T) {
		txn := env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 4, 5000)

		assert.True(t, env.stock(t, product.ID).Equal(decimal.NewFromInt(6)))
		assert.Equal(t, int64(20000), env.balance(t, customer.ID))
		require.Len(t, txn.Items, 1)
		assert.Equal(t, "Maize Flour", txn.Items[0].ProductName)
		assert.Equal(t, int64(20000), txn.Items[0].LineTotal)
	})

	t.Run("invoice numbers are sequential per tenant", func(t *testing.T) {
		txns, err := env.transactionRepo.ListAll(env.ctx)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, "INV-000001", txns[0].InvoiceNo)
		assert.Equal(t, "INV-000002", txns[1].InvoiceNo)
	})

	t.Run("sale may drive stock negative", func(t *testing.T) {
		env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 20, 5000)
		assert.True(t, env.stock(t, product.ID).Equal(decimal.NewFromInt(-14)))
	})
}

func TestLedgerPurchaseMovement(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.createCustomer(t, "Mombasa Suppliers")
	product := env.createProduct(t, "Maize Flour", "MF-01", 5000)

	env.recordSimple(t, enum.TransactionTypePurchase, supplier.ID, product.ID, 5, 4000)
	txn := env.recordSimple(t, enum.TransactionTypePurchase, supplier.ID, product.ID, 10, 4000)

	assert.True(t, env.stock(t, product.ID).Equal(decimal.NewFromInt(15)))

	movements, err := env.inventoryRepo.ListMovementsByTransaction(env.ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Delta.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, enum.MovementReasonPurchase, movements[0].Reason)
	assert.Equal(t, product.ID, movements[0].ProductID)
}

func TestLedgerFullLifecycleNetsToZero(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	product := env.createProduct(t, "Sugar", "SG-01", 9000)

	txn := env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 7, 9000)

	for _, qty := range []int64{3, 12, 5} {
		total := qty * 9000
		_, err := env.ledger.RecordUpdate(env.ctx, txn.ID, &UpdateTransactionInput{
			TotalAmount: &total,
			Items: []TransactionItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(qty), UnitPrice: 9000},
			},
		})
		require.NoError(t, err)
	}

	require.NoError(t, env.ledger.RecordDelete(env.ctx, txn.ID))

	assert.Equal(t, int64(0), env.balance(t, customer.ID))
	assert.True(t, env.stock(t, product.ID).IsZero())
}

func TestLedgerPaymentClampsBalance(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	product := env.createProduct(t, "Sugar", "SG-01", 10000)

	env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 1, 10000)
	require.Equal(t, int64(10000), env.balance(t, customer.ID))

	t.Run("partial payment reduces the balance", func(t *testing.T) {
		env.recordPayment(t, customer.ID, 4000)
		assert.Equal(t, int64(6000), env.balance(t, customer.ID))
	})

	t.Run("overpayment clamps at zero", func(t *testing.T) {
		env.recordPayment(t, customer.ID, 25000)
		assert.Equal(t, int64(0), env.balance(t, customer.ID))
	})

	t.Run("payments never move stock", func(t *testing.T) {
		assert.True(t, env.stock(t, product.ID).Equal(decimal.NewFromInt(-1)))
	})
}

func TestLedgerRecordCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	product := env.createProduct(t, "Rice", "RC-01", 12000)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input *RecordTransactionInput
	}{
		{
			name: "unknown type",
			input: &RecordTransactionInput{
				Type: "refund", CustomerID: customer.ID, Date: date,
			},
		},
		{
			name: "sale without items",
			input: &RecordTransactionInput{
				Type: enum.TransactionTypeSales, CustomerID: customer.ID, Date: date, TotalAmount: 100,
			},
		},
		{
			name: "total does not match items plus tax",
			input: &RecordTransactionInput{
				Type: enum.TransactionTypeSales, CustomerID: customer.ID, Date: date,
				TotalAmount: 99999,
				Items: []TransactionItemInput{
					{ProductID: product.ID, Quantity: decimal.NewFromInt(1), UnitPrice: 12000},
				},
			},
		},
		{
			name: "payment with items",
			input: &RecordTransactionInput{
				Type: enum.TransactionTypePayment, CustomerID: customer.ID, Date: date, TotalAmount: 100,
				Items: []TransactionItemInput{
					{ProductID: product.ID, Quantity: decimal.NewFromInt(1), UnitPrice: 100},
				},
			},
		},
		{
			name: "negative quantity",
			input: &RecordTransactionInput{
				Type: enum.TransactionTypeSales, CustomerID: customer.ID, Date: date,
				TotalAmount: -12000,
				Items: []TransactionItemInput{
					{ProductID: product.ID, Quantity: decimal.NewFromInt(-1), UnitPrice: 12000},
				},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.ledger.RecordCreate(env.ctx, tc.input)
			require.Error(t, err)
		})
	}

	t.Run("unknown customer", func(t *testing.T) {
		_, err := env.ledger.RecordCreate(env.ctx, &RecordTransactionInput{
			Type: enum.TransactionTypeSales, CustomerID: uuid.New(), Date: date,
			TotalAmount: 12000,
			Items: []TransactionItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(1), UnitPrice: 12000},
			},
		})
		require.Error(t, err)
	})

	t.Run("rejected inputs leave nothing behind", func(t *testing.T) {
		txns, err := env.transactionRepo.ListAll(env.ctx)
		require.NoError(t, err)
		assert.Empty(t, txns)
		assert.True(t, env.stock(t, product.ID).IsZero())
		assert.Equal(t, int64(0), env.balance(t, customer.ID))
	})
}

func TestLedgerRecordUpdate(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	product := env.createProduct(t, "Beans", "BN-01", 8000)

	txn := env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 4, 8000)
	require.Equal(t, int64(32000), env.balance(t, customer.ID))
	require.True(t, env.stock(t, product.ID).Equal(decimal.NewFromInt(-4)))

	t.Run("edit ends where delete plus create would", func(t *testing.T) {
		newTotal := int64(16000)
		updated, err := env.ledger.RecordUpdate(env.ctx, txn.ID, &UpdateTransactionInput{
			TotalAmount: &newTotal,
			Items: []TransactionItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(2), UnitPrice: 8000},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(16000), updated.TotalAmount)
		assert.Equal(t, int64(16000), env.balance(t, customer.ID))
		assert.True(t, env.stock(t, product.ID).Equal(decimal.NewFromInt(-2)))
		require.Len(t, updated.Items, 1)
		assert.True(t, updated.Items[0].Quantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("the movement log keeps the full history", func(t *testing.T) {
		movements, err := env.inventoryRepo.ListMovementsByTransaction(env.ctx, txn.ID)
		require.NoError(t, err)
		// original sale, its reversal, and the new sale
		require.Len(t, movements, 3)

		var reversals int
		net := decimal.Zero
		for _, m := range movements {
			net = net.Add(m.Delta)
			if m.Reason == enum.MovementReasonReversal {
				reversals++
			}
		}
		assert.Equal(t, 1, reversals)
		assert.True(t, net.Equal(decimal.NewFromInt(-2)))
	})

	t.Run("a second edit still cancels cleanly", func(t *testing.T) {
		newTotal := int64(40000)
		_, err := env.ledger.RecordUpdate(env.ctx, txn.ID, &UpdateTransactionInput{
			TotalAmount: &newTotal,
			Items: []TransactionItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(5), UnitPrice: 8000},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(40000), env.balance(t, customer.ID))
		assert.True(t, env.stock(t, product.ID).Equal(decimal.NewFromInt(-5)))
	})
}

func TestLedgerRecordUpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	product := env.createProduct(t, "Beans", "BN-01", 8000)

	sale := env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 3, 8000)
	payment := env.recordPayment(t, customer.ID, 4000)
	balanceBefore := env.balance(t, customer.ID)
	stockBefore := env.stock(t, product.ID)

	t.Run("a negative quantity is rejected even when the totals line up", func(t *testing.T) {
		// +3 and -1 at the same price sum to the stated total, so only
		// the per-item sign check can catch this.
		total := int64(16000)
		_, err := env.ledger.RecordUpdate(env.ctx, sale.ID, &UpdateTransactionInput{
			TotalAmount: &total,
			Items: []TransactionItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(3), UnitPrice: 8000},
				{ProductID: product.ID, Quantity: decimal.NewFromInt(-1), UnitPrice: 8000},
			},
		})
		require.Error(t, err)
	})

	t.Run("a zero quantity is rejected", func(t *testing.T) {
		total := int64(24000)
		_, err := env.ledger.RecordUpdate(env.ctx, sale.ID, &UpdateTransactionInput{
			TotalAmount: &total,
			Items: []TransactionItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(3), UnitPrice: 8000},
				{ProductID: product.ID, Quantity: decimal.Zero, UnitPrice: 0},
			},
		})
		require.Error(t, err)
	})

	t.Run("items cannot be emptied on a sale", func(t *testing.T) {
		_, err := env.ledger.RecordUpdate(env.ctx, sale.ID, &UpdateTransactionInput{
			Items: []TransactionItemInput{},
		})
		require.Error(t, err)
	})

	t.Run("a payment cannot be given items", func(t *testing.T) {
		_, err := env.ledger.RecordUpdate(env.ctx, payment.ID, &UpdateTransactionInput{
			Items: []TransactionItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(1), UnitPrice: 4000},
			},
		})
		require.Error(t, err)

		stored, err := env.ledger.GetTransaction(env.ctx, payment.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Items)
	})

	t.Run("rejected updates leave balance and stock untouched", func(t *testing.T) {
		assert.Equal(t, balanceBefore, env.balance(t, customer.ID))
		assert.True(t, env.stock(t, product.ID).Equal(stockBefore))

		stored, err := env.ledger.GetTransaction(env.ctx, sale.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 1)
		assert.True(t, stored.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
	})
}

func TestLedgerRecordDelete(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	product := env.createProduct(t, "Tea", "TE-01", 30000)

	txn := env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 3, 30000)
	require.Equal(t, int64(90000), env.balance(t, customer.ID))

	require.NoError(t, env.ledger.RecordDelete(env.ctx, txn.ID))

	t.Run("effects are reversed", func(t *testing.T) {
		assert.Equal(t, int64(0), env.balance(t, customer.ID))
		assert.True(t, env.stock(t, product.ID).IsZero())
	})

	t.Run("the record is gone", func(t *testing.T) {
		_, err := env.ledger.GetTransaction(env.ctx, txn.ID)
		require.Error(t, err)
	})
}

func TestLedgerSettledPayments(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	product := env.createProduct(t, "Salt", "SA-01", 2000)

	payment := env.recordPayment(t, customer.ID, 6000)

	sale, err := env.ledger.RecordCreate(env.ctx, &RecordTransactionInput{
		Type:             enum.TransactionTypeSales,
		CustomerID:       customer.ID,
		Date:             time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		TotalAmount:      6000,
		SettledPaymentID: &payment.ID,
		Items: []TransactionItemInput{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(3), UnitPrice: 2000},
		},
	})
	require.NoError(t, err)

	t.Run("the payment is marked settled", func(t *testing.T) {
		stored, err := env.ledger.GetTransaction(env.ctx, payment.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.SettledByID)
		assert.Equal(t, sale.ID, *stored.SettledByID)
	})

	t.Run("a settled payment cannot be consumed twice", func(t *testing.T) {
		_, err := env.ledger.RecordCreate(env.ctx, &RecordTransactionInput{
			Type:             enum.TransactionTypeSales,
			CustomerID:       customer.ID,
			Date:             time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
			TotalAmount:      2000,
			SettledPaymentID: &payment.ID,
			Items: []TransactionItemInput{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(1), UnitPrice: 2000},
			},
		})
		require.Error(t, err)
	})

	t.Run("deleting the invoice frees the payment", func(t *testing.T) {
		require.NoError(t, env.ledger.RecordDelete(env.ctx, sale.ID))

		stored, err := env.ledger.GetTransaction(env.ctx, payment.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.SettledByID)
	})
}

func TestLedgerGetSummary(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	supplier := env.createCustomer(t, "Mombasa Suppliers")
	product := env.createProduct(t, "Cooking Oil", "CO-01", 25000)

	env.recordSimple(t, enum.TransactionTypePurchase, supplier.ID, product.ID, 10, 20000)
	env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 2, 25000)
	env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 1, 25000)
	env.recordPayment(t, customer.ID, 30000)

	t.Run("totals over everything", func(t *testing.T) {
		summary, err := env.ledger.GetSummary(env.ctx, time.Time{}, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, int64(75000), summary.TotalSales)
		assert.Equal(t, int64(200000), summary.TotalPurchases)
		assert.Equal(t, int64(30000), summary.TotalPayments)
		assert.Equal(t, int64(-125000), summary.Profit)
		assert.Equal(t, 2, summary.SalesCount)
		assert.Equal(t, 1, summary.PurchaseCount)
		assert.Equal(t, 1, summary.PaymentCount)
	})

	t.Run("date range excludes outside transactions", func(t *testing.T) {
		from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
		summary, err := env.ledger.GetSummary(env.ctx, from, time.Time{})
		require.NoError(t, err)

		assert.Equal(t, 0, summary.SalesCount)
		assert.Equal(t, 1, summary.PaymentCount)
	})
}

func TestLedgerReconcile(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Wanjiku Stores")
	product := env.createProduct(t, "Wheat", "WH-01", 6000)

	env.recordSimple(t, enum.TransactionTypeSales, customer.ID, product.ID, 5, 6000)
	env.recordPayment(t, customer.ID, 10000)

	t.Run("clean ledger reports no drift", func(t *testing.T) {
		report, err := env.ledger.Reconcile(env.ctx)
		require.NoError(t, err)
		assert.Empty(t, report.Balances)
		assert.Empty(t, report.Stock)
	})

	t.Run("tampered projections are reported", func(t *testing.T) {
		require.NoError(t, env.db.Exec(
			"UPDATE customers SET outstanding_balance = 999 WHERE id = ?", customer.ID,
		).Error)
		require.NoError(t, env.db.Exec(
			"UPDATE inventory_records SET current_stock = 42 WHERE product_id = ?", product.ID,
		).Error)

		report, err := env.ledger.Reconcile(env.ctx)
		require.NoError(t, err)

		require.Len(t, report.Balances, 1)
		assert.Equal(t, int64(999), report.Balances[0].Stored)
		assert.Equal(t, int64(20000), report.Balances[0].Computed)

		require.Len(t, report.Stock, 1)
		assert.True(t, report.Stock[0].Computed.Equal(decimal.NewFromInt(-5)))
	})
}
