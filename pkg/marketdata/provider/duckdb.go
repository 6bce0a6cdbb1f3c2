package provider

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/writer"
)

// DuckDBReader serves price history from parquet files written by the download command.
// Each coin lives in <dataPath>/<coinID>.parquet.
type DuckDBReader struct {
	db       *sql.DB
	sq       squirrel.StatementBuilderType
	dataPath string
}

// NewDuckDBReader opens an in-memory DuckDB connection used to query files under dataPath.
func NewDuckDBReader(dataPath string) (*DuckDBReader, error) {
	if dataPath == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "duckdb provider requires a data path")
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open DuckDB connection", err)
	}

	return &DuckDBReader{
		db:       db,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		dataPath: dataPath,
	}, nil
}

// Name implements Provider.
func (r *DuckDBReader) Name() ProviderType {
	return ProviderDuckDB
}

// GetHistoricalPrices implements Provider with the most recent days rows stored for coinID.
func (r *DuckDBReader) GetHistoricalPrices(ctx context.Context, coinID string, days int) ([]types.PricePoint, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}

	fileName, err := writer.PriceFileName(coinID)
	if err != nil {
		return nil, err
	}

	// the stat error carries the server path, keep it out of the returned error
	path := filepath.Join(r.dataPath, fileName)
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no downloaded prices for %s", coinID)
	}

	query, args, err := r.sq.
		Select("time", "price").
		From(fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(path, "'", "''"))).
		Where(squirrel.Eq{"symbol": coinID}).
		OrderBy("time DESC").
		Limit(uint64(days)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query prices", err)
	}
	defer rows.Close()

	points := make([]types.PricePoint, 0, days)

	for rows.Next() {
		var (
			at    time.Time
			price float64
		)

		if err := rows.Scan(&at, &price); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan price row", err)
		}

		points = append(points, types.PricePoint{Time: at.UTC(), Price: price})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read price rows", err)
	}

	slices.Reverse(points)

	return points, nil
}

// Close closes the DuckDB connection.
func (r *DuckDBReader) Close() error {
	return r.db.Close()
}
