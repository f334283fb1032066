package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
)

func TestGenerateHistoryPDF(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	out := entity.NewTransferOut(4, 0, 2, 5)
	out.CreatedAt = now
	added := entity.NewStockAdded(4, 0, 20)
	added.CreatedAt = now.Add(-time.Hour)

	doc, err := pdf.NewStockHistoryPDF().GenerateHistoryPDF(context.Background(), 4, 0,
		&entity.StockLevel{StoredItemID: 4, LocationID: 0, StockLevel: 15, ReorderPoint: 3},
		[]*entity.StockHistory{out, added},
	)
	require.NoError(t, err)
	assert.True(t, len(doc) > 4)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestGenerateHistoryPDF_SinNivelNiHistorial(t *testing.T) {
	doc, err := pdf.NewStockHistoryPDF().GenerateHistoryPDF(context.Background(), 9, 3, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))
}
