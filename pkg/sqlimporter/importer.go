package sqlimporter

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/hyunwoo/ledgerops/pkg/banksalad"
	"github.com/hyunwoo/ledgerops/pkg/postgresutils"
)

// SQLTransaction is one imported ledger row. Key is the parser's
// deterministic external id, which makes re-imports upserts instead of
// duplicates.
type SQLTransaction struct {
	bun.BaseModel   `bun:"table:transactions"`
	ID              int64  `bun:",pk,autoincrement"`
	Key             string `bun:",unique"`
	UserID          int64
	TransactionDate time.Time
	TransactionTime string
	Type            string
	Amount          float64
	Currency        string
	Account         string
	CounterAccount  string
	CategoryGroup   string
	Category        string
	Memo            string `bun:"type:text"`
	TransferFlow    string
	UpdatedAt       time.Time
}

// ImportRun records one submission pass for auditing.
type ImportRun struct {
	bun.BaseModel `bun:"table:import_runs"`
	ID            string `bun:",pk"`
	SourceFile    string
	StartedAt     time.Time
	FinishedAt    time.Time
	Status        string
	Created       int
	Duplicates    int
	Suspected     int
	Issues        int
}

// ImportResult reports what one Import call actually wrote.
type ImportResult struct {
	Created            int
	ExistingDuplicates int
	NaturalDuplicates  int
}

func (r *ImportResult) Duplicates() int {
	return r.ExistingDuplicates + r.NaturalDuplicates
}

type Importer struct {
	db        *bun.DB
	batchSize int
}

func NewImporter(db *bun.DB, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = 500
	}

	return &Importer{db: db, batchSize: batchSize}
}

func (imp *Importer) Migrate(ctx context.Context) error {
	_, err := imp.db.NewCreateTable().Model((*SQLTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transactions table: %w", err)
	}

	_, err = imp.db.NewCreateTable().Model((*ImportRun)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create import_runs table: %w", err)
	}

	return nil
}

// Import writes parsed records to Postgres. Records whose external id
// already exists are counted, not re-created; records that look like the
// same physical transaction under a different external id (file re-exported
// with shifted rows) are filtered on their natural key.
func (imp *Importer) Import(ctx context.Context, userID int64, records []banksalad.Record) (*ImportResult, error) {
	result := &ImportResult{}
	if len(records) == 0 {
		return result, nil
	}

	rows := make([]SQLTransaction, 0, len(records))
	for _, rec := range records {
		row, err := rowForRecord(userID, rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}

	existing, err := imp.existingKeys(ctx, userID, rows)
	if err != nil {
		return nil, err
	}

	natural, err := imp.naturalKeys(ctx, userID, rows)
	if err != nil {
		return nil, err
	}

	toInsert := make([]SQLTransaction, 0, len(rows))
	for _, row := range rows {
		if existing[row.Key] {
			result.ExistingDuplicates++
			continue
		}
		if matchesNatural(natural, &row) {
			result.NaturalDuplicates++
			continue
		}
		toInsert = append(toInsert, row)
	}

	for start := 0; start < len(toInsert); start += imp.batchSize {
		end := start + imp.batchSize
		if end > len(toInsert) {
			end = len(toInsert)
		}

		batch := toInsert[start:end]
		_, err := imp.db.NewInsert().
			Model(&batch).
			On("CONFLICT (key) DO UPDATE").
			Set(postgresutils.TableSetString(imp.db, (*SQLTransaction)(nil), "id", "key")).
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("error writing transactions to sql: %w", err)
		}

		result.Created += len(batch)
	}

	return result, nil
}

func (imp *Importer) RecordRun(ctx context.Context, run *ImportRun) error {
	_, err := imp.db.NewInsert().Model(run).Exec(ctx)
	if err != nil {
		return fmt.Errorf("error writing import run: %w", err)
	}

	return nil
}

func (imp *Importer) existingKeys(ctx context.Context, userID int64, rows []SQLTransaction) (map[string]bool, error) {
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.Key)
	}

	var found []string
	err := imp.db.NewSelect().
		Model((*SQLTransaction)(nil)).
		Column("key").
		Where("user_id = ?", userID).
		Where("key IN (?)", bun.In(keys)).
		Scan(ctx, &found)
	if err != nil {
		return nil, fmt.Errorf("error querying existing keys: %w", err)
	}

	existing := make(map[string]bool, len(found))
	for _, k := range found {
		existing[k] = true
	}

	return existing, nil
}

// naturalKeys loads the user's rows for the dates being imported, indexed by
// the conservative natural key used for duplicate detection.
func (imp *Importer) naturalKeys(ctx context.Context, userID int64, rows []SQLTransaction) (map[string][]float64, error) {
	dateSet := make(map[time.Time]bool)
	dates := []time.Time{}
	for _, row := range rows {
		if !dateSet[row.TransactionDate] {
			dateSet[row.TransactionDate] = true
			dates = append(dates, row.TransactionDate)
		}
	}

	var stored []SQLTransaction
	err := imp.db.NewSelect().
		Model(&stored).
		Where("user_id = ?", userID).
		Where("transaction_date IN (?)", bun.In(dates)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error querying natural duplicates: %w", err)
	}

	natural := make(map[string][]float64)
	for _, tx := range stored {
		key := naturalKey(&tx)
		natural[key] = append(natural[key], tx.Amount)
	}

	return natural, nil
}

// matchesNatural reports whether an equivalent row is already stored: same
// date, time, type, currency and account, with the same or sign-flipped
// amount. Only parser-generated rows are filtered this way; anything else is
// conservatively kept.
func matchesNatural(natural map[string][]float64, row *SQLTransaction) bool {
	if !strings.HasPrefix(row.Key, "banksalad-") {
		return false
	}

	for _, amount := range natural[naturalKey(row)] {
		if math.Abs(amount) == math.Abs(row.Amount) {
			return true
		}
	}

	return false
}

func naturalKey(tx *SQLTransaction) string {
	return strings.Join([]string{
		tx.TransactionDate.Format("2006-01-02"),
		tx.TransactionTime,
		tx.Type,
		tx.Currency,
		strings.ToLower(tx.Account),
	}, "|")
}

func rowForRecord(userID int64, rec banksalad.Record) (*SQLTransaction, error) {
	date, err := time.Parse("2006-01-02", rec.Date)
	if err != nil {
		return nil, fmt.Errorf("unable to parse date: %s", err.Error())
	}

	return &SQLTransaction{
		Key:             rec.ExternalID,
		UserID:          userID,
		TransactionDate: date,
		TransactionTime: rec.Time,
		Type:            string(rec.Type),
		Amount:          rec.Amount.InexactFloat64(),
		Currency:        rec.Currency,
		Account:         rec.AccountName,
		CounterAccount:  rec.CounterAccountName,
		CategoryGroup:   rec.CategoryGroupName,
		Category:        rec.CategoryName,
		Memo:            rec.Memo,
		TransferFlow:    string(rec.TransferFlow),
		UpdatedAt:       time.Now(),
	}, nil
}
