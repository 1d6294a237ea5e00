package pantry

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConsumptionTestSuite covers oldest-expiry-first consumption
type ConsumptionTestSuite struct {
	suite.Suite
	userID uuid.UUID
}

func (suite *ConsumptionTestSuite) SetupSuite() {
	suite.userID = uuid.New()
}

func (suite *ConsumptionTestSuite) batch(qty int64, expiryOffsetDays *int) *Batch {
	var bestBefore *time.Time
	if expiryOffsetDays != nil {
		d := time.Now().AddDate(0, 0, *expiryOffsetDays)
		bestBefore = &d
	}
	b, err := NewBatch(suite.userID, "ing-rice", "g", decimal.NewFromInt(qty), bestBefore, "")
	require.NoError(suite.T(), err)
	return b
}

func days(n int) *int { return &n }

// TestConsumeOldestFirst covers the ledger's core drain order
func (suite *ConsumptionTestSuite) TestConsumeOldestFirst() {
	suite.Run("SpansBatches_EarliestExpiryDrainsFirst", func() {
		// 300g expiring in 2 days, 500g expiring in 10 days, need 400g
		early := suite.batch(300, days(2))
		late := suite.batch(500, days(10))

		mutations, deducted, err := ConsumeOldestFirst([]*Batch{late, early}, decimal.NewFromInt(400))

		require.NoError(suite.T(), err)
		assert.True(suite.T(), decimal.NewFromInt(400).Equal(deducted))
		require.Len(suite.T(), mutations, 2)

		assert.Equal(suite.T(), early.ID(), mutations[0].BatchID)
		assert.True(suite.T(), mutations[0].Deleted)
		assert.True(suite.T(), decimal.NewFromInt(300).Equal(mutations[0].Taken))

		assert.Equal(suite.T(), late.ID(), mutations[1].BatchID)
		assert.False(suite.T(), mutations[1].Deleted)
		assert.True(suite.T(), decimal.NewFromInt(400).Equal(late.Quantity()))
	})

	suite.Run("UnknownExpiry_SortsLast", func() {
		noExpiry := suite.batch(1000, nil)
		dated := suite.batch(100, days(5))

		mutations, deducted, err := ConsumeOldestFirst([]*Batch{noExpiry, dated}, decimal.NewFromInt(150))

		require.NoError(suite.T(), err)
		assert.True(suite.T(), decimal.NewFromInt(150).Equal(deducted))
		require.Len(suite.T(), mutations, 2)
		assert.Equal(suite.T(), dated.ID(), mutations[0].BatchID)
		assert.Equal(suite.T(), noExpiry.ID(), mutations[1].BatchID)
		assert.True(suite.T(), decimal.NewFromInt(950).Equal(noExpiry.Quantity()))
	})

	suite.Run("InsufficientStock_ReportsPartialDeduction", func() {
		only := suite.batch(50, days(3))

		mutations, deducted, err := ConsumeOldestFirst([]*Batch{only}, decimal.NewFromInt(200))

		require.NoError(suite.T(), err)
		assert.True(suite.T(), decimal.NewFromInt(50).Equal(deducted))
		require.Len(suite.T(), mutations, 1)
		assert.True(suite.T(), mutations[0].Deleted)
	})

	suite.Run("ExactDrain_MarksBatchDeleted", func() {
		only := suite.batch(200, days(3))

		mutations, deducted, err := ConsumeOldestFirst([]*Batch{only}, decimal.NewFromInt(200))

		require.NoError(suite.T(), err)
		assert.True(suite.T(), decimal.NewFromInt(200).Equal(deducted))
		require.Len(suite.T(), mutations, 1)
		assert.True(suite.T(), mutations[0].Deleted)
		assert.True(suite.T(), only.IsEmpty())
	})

	suite.Run("NonPositiveRequired_ShouldReturnError", func() {
		_, _, err := ConsumeOldestFirst([]*Batch{suite.batch(10, nil)}, decimal.Zero)

		assert.Equal(suite.T(), ErrNonPositiveQuantity, err)
	})
}

func (suite *ConsumptionTestSuite) TestTotalQuantity() {
	batches := []*Batch{suite.batch(300, days(2)), suite.batch(500, days(10)), suite.batch(200, nil)}

	assert.True(suite.T(), decimal.NewFromInt(1000).Equal(TotalQuantity(batches)))
	assert.True(suite.T(), decimal.Zero.Equal(TotalQuantity(nil)))
}

func TestConsumptionTestSuite(t *testing.T) {
	suite.Run(t, new(ConsumptionTestSuite))
}
