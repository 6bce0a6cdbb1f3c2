package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
)

type DuckDBReaderTestSuite struct {
	suite.Suite
	dataPath string
	reader   *DuckDBReader
}

func TestDuckDBReaderSuite(t *testing.T) {
	suite.Run(t, new(DuckDBReaderTestSuite))
}

func (suite *DuckDBReaderTestSuite) SetupTest() {
	dataPath, err := os.MkdirTemp("", "duckdb-reader-test")
	suite.Require().NoError(err)
	suite.dataPath = dataPath

	reader, err := NewDuckDBReader(dataPath)
	suite.Require().NoError(err)
	suite.reader = reader
}

func (suite *DuckDBReaderTestSuite) TearDownTest() {
	suite.reader.Close()
	os.RemoveAll(suite.dataPath)
}

func (suite *DuckDBReaderTestSuite) writePrices(coinID string, prices ...float64) {
	fileName, err := writer.PriceFileName(coinID)
	suite.Require().NoError(err)

	w := writer.NewDuckDBWriter(filepath.Join(suite.dataPath, fileName))
	suite.Require().NoError(w.Initialize())
	defer w.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, price := range prices {
		suite.Require().NoError(w.Write(coinID, types.PricePoint{Time: start.AddDate(0, 0, i), Price: price}))
	}

	_, err = w.Finalize()
	suite.Require().NoError(err)
}

func (suite *DuckDBReaderTestSuite) TestReadsMostRecentDaysOldestFirst() {
	suite.writePrices("bitcoin", 100, 101, 102, 103, 104)

	points, err := suite.reader.GetHistoricalPrices(context.Background(), "bitcoin", 3)
	suite.Require().NoError(err)
	suite.Require().Len(points, 3)

	suite.Equal([]float64{102, 103, 104}, []float64(types.ClosingPrices(points)))
	suite.True(points[0].Time.Before(points[2].Time))
}

func (suite *DuckDBReaderTestSuite) TestFewerRowsThanDays() {
	suite.writePrices("cardano", 0.5, 0.6)

	points, err := suite.reader.GetHistoricalPrices(context.Background(), "cardano", 30)
	suite.Require().NoError(err)
	suite.Len(points, 2)
}

func (suite *DuckDBReaderTestSuite) TestMissingFile() {
	_, err := suite.reader.GetHistoricalPrices(context.Background(), "ethereum", 30)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeDataNotFound, errors.GetCode(err))
	suite.NotContains(err.Error(), suite.dataPath)
}

func (suite *DuckDBReaderTestSuite) TestCoinIDCannotLeaveDataPath() {
	// a valid file one level above the reader's directory
	suite.writePrices("outside", 1, 2, 3)

	nested := filepath.Join(suite.dataPath, "data")
	suite.Require().NoError(os.MkdirAll(nested, 0o755))

	reader, err := NewDuckDBReader(nested)
	suite.Require().NoError(err)
	defer reader.Close()

	for _, coinID := range []string{"../outside", "..", "data/../../outside", "/etc/passwd"} {
		points, err := reader.GetHistoricalPrices(context.Background(), coinID, 5)
		suite.Require().Error(err, coinID)
		suite.Nil(points)
		suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(err), coinID)
		suite.NotContains(err.Error(), suite.dataPath)
	}
}

func (suite *DuckDBReaderTestSuite) TestInvalidDays() {
	_, err := suite.reader.GetHistoricalPrices(context.Background(), "bitcoin", 0)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidDays, errors.GetCode(err))
}

func (suite *DuckDBReaderTestSuite) TestRequiresDataPath() {
	_, err := NewDuckDBReader("")
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeMissingParameter, errors.GetCode(err))
	suite.Equal(ProviderDuckDB, suite.reader.Name())
}
