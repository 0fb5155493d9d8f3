package export

import (
	"bytes"
	"testing"

	"agriprice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteMonthlyWorkbook(t *testing.T) {
	rows := []models.MonthlyPrice{
		{ProductCode: "P2250004", PriceYear: 2023, PriceMonth: 4, AvgPrice: 1040.2,
			MinPrice: 980, MaxPrice: 1100, PriceCount: 20, PriceChange: 100, PriceChangeRate: 10},
		{ProductCode: "P2250004", PriceYear: 2023, PriceMonth: 5, AvgPrice: 1110,
			MinPrice: 1050, MaxPrice: 1200, PriceCount: 21, PriceChange: -30, PriceChangeRate: -2.6549},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyWorkbook(&buf, 2023, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheetRows, err := f.GetRows("Monthly Prices")
	require.NoError(t, err)
	require.Len(t, sheetRows, 3)
	assert.Equal(t, "Product Code", sheetRows[0][0])
	assert.Equal(t, "P2250004", sheetRows[1][0])
	assert.Equal(t, "5", sheetRows[2][2])
}

func TestWriteMonthlyWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyWorkbook(&buf, 2022, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheetRows, err := f.GetRows("Monthly Prices")
	require.NoError(t, err)
	require.Len(t, sheetRows, 2)
	assert.Contains(t, sheetRows[1][0], "2022")
}
