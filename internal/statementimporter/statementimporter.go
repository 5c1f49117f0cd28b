package statementimporter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"k8s.io/klog"

	"github.com/hyunwoo/ledgerops/internal/influxhelper"
	"github.com/hyunwoo/ledgerops/pkg/banksalad"
	"github.com/hyunwoo/ledgerops/pkg/config"
	"github.com/hyunwoo/ledgerops/pkg/postgresutils"
	"github.com/hyunwoo/ledgerops/pkg/sqlimporter"
)

// ImportStatementRunner imports BankSalad statement exports (a single file
// or every statement in the watch directory) into Postgres.
type ImportStatementRunner struct {
	db       *bun.DB
	importer *sqlimporter.Importer
	path     string
}

func NewImportStatementRunner(path string) (*ImportStatementRunner, error) {
	db, err := postgresutils.CreatePostgresClient(config.CurrentImportConfig().SQL.ImportDatabase)
	if err != nil {
		return nil, fmt.Errorf("Error connecting to postgres DB: %s", err)
	}

	if path == "" {
		path = config.CurrentImportConfig().WatchDir
	}

	return &ImportStatementRunner{
		db:       db,
		importer: sqlimporter.NewImporter(db, config.CurrentImportConfig().SQL.BatchSize),
		path:     path,
	}, nil
}

func (r *ImportStatementRunner) Run() error {
	err := r.importer.Migrate(context.Background())
	if err != nil {
		return err
	}

	files, err := r.discoverStatements()
	if err != nil {
		return err
	}

	if len(files) == 0 {
		klog.Infof("No statement files found in %s", r.path)
		return nil
	}

	for _, file := range files {
		if err := r.importFile(file); err != nil {
			return err
		}
	}

	return nil
}

func (r *ImportStatementRunner) Close() error {
	return r.db.Close()
}

func (r *ImportStatementRunner) discoverStatements() ([]string, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", r.path, err)
	}

	if !info.IsDir() {
		return []string{r.path}, nil
	}

	entries, err := os.ReadDir(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", r.path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xlsx", ".csv":
			files = append(files, filepath.Join(r.path, entry.Name()))
		}
	}

	return files, nil
}

func (r *ImportStatementRunner) importFile(path string) error {
	ctx := context.Background()

	run := &sqlimporter.ImportRun{
		ID:         uuid.NewString(),
		SourceFile: filepath.Base(path),
		StartedAt:  time.Now(),
		Status:     "RUNNING",
	}

	summary, err := r.parseFile(path)
	if err != nil {
		run.Status = "FAILED"
		run.FinishedAt = time.Now()
		if recordErr := r.importer.RecordRun(ctx, run); recordErr != nil {
			klog.Errorf("Failed to record import run for %s: %v", path, recordErr)
		}
		return err
	}

	for _, issue := range summary.Issues {
		klog.Warningf("%s: %s", filepath.Base(path), issue)
	}

	result, err := r.importer.Import(ctx, config.CurrentImportConfig().UserID, summary.Items)
	if err != nil {
		run.Status = "FAILED"
		run.FinishedAt = time.Now()
		if recordErr := r.importer.RecordRun(ctx, run); recordErr != nil {
			klog.Errorf("Failed to record import run for %s: %v", path, recordErr)
		}
		return err
	}

	run.Status = "SUCCESS"
	run.FinishedAt = time.Now()
	run.Created = result.Created
	run.Duplicates = result.Duplicates()
	run.Suspected = len(summary.SuspectedPairs)
	run.Issues = len(summary.Issues)

	if err := r.importer.RecordRun(ctx, run); err != nil {
		return err
	}

	// Middle-band pairs are never written automatically; they wait for the
	// user to merge or split them.
	for _, pair := range summary.SuspectedPairs {
		klog.Infof("Suspected transfer pair %s (score %d): %s %s -> %s, needs confirmation",
			pair.ID, pair.Confidence.Score, pair.Outgoing.Date, pair.Outgoing.AccountName, pair.Incoming.AccountName)
	}

	r.writeInfluxSummary(path, summary, result)

	klog.Infof("Wrote %d transactions to sql from statement %s (%d duplicates skipped, %d suspected pairs held)",
		result.Created, filepath.Base(path), result.Duplicates(), len(summary.SuspectedPairs))

	return nil
}

func (r *ImportStatementRunner) parseFile(path string) (*banksalad.ParseSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement file %s: %w", path, err)
	}

	opts := optionsFromConfig()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return banksalad.ParseCSV(bytes.NewReader(data), opts)
	}

	return banksalad.ParseWorkbook(data, opts)
}

func optionsFromConfig() banksalad.Options {
	importConfig := config.CurrentImportConfig()

	return banksalad.Options{
		UserID:                  importConfig.UserID,
		DefaultCurrency:         importConfig.DefaultCurrency,
		KnownAccounts:           importConfig.KnownAccounts,
		PrimaryAccount:          importConfig.PrimaryAccount,
		SingleAccountMode:       importConfig.SingleAccountMode,
		NeutralTransferPatterns: importConfig.NeutralTransferPatterns,
	}
}

func (r *ImportStatementRunner) writeInfluxSummary(path string, summary *banksalad.ParseSummary, result *sqlimporter.ImportResult) {
	if config.CurrentInfluxSecrets().InfluxEndpoint == "" {
		return
	}

	influxClient, err := influxhelper.CreateInfluxClient()
	if err != nil {
		klog.Errorf("Error creating InfluxDB Client: %s", err.Error())
		return
	}
	defer influxClient.Close()

	err = influxhelper.CreateDatabase(influxClient, config.CurrentImportConfig().Influx.Database)
	if err != nil {
		klog.Errorf("Error creating influx DB: %s", err.Error())
		return
	}

	if err := influxhelper.WriteImportSummary(influxClient, filepath.Base(path), summary, result); err != nil {
		klog.Errorf("Error writing import summary to influx: %s", err.Error())
	}
}
