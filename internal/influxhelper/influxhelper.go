package influxhelper

import (
	"fmt"
	"strings"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"

	"github.com/hyunwoo/ledgerops/pkg/banksalad"
	"github.com/hyunwoo/ledgerops/pkg/config"
	"github.com/hyunwoo/ledgerops/pkg/sqlimporter"
)

func CreateInfluxClient() (influx.Client, error) {
	return influx.NewHTTPClient(influx.HTTPConfig{
		Addr:     config.CurrentInfluxSecrets().InfluxEndpoint,
		Username: config.CurrentInfluxSecrets().InfluxUsername,
		Password: config.CurrentInfluxSecrets().InfluxPassword,
	})
}

func CreateDatabase(influxClient influx.Client, name string) error {
	name = strings.Split(name, " ")[0]

	createCommand := fmt.Sprintf("CREATE DATABASE %s", name)

	q := influx.NewQuery(createCommand, "", "")
	if response, err := influxClient.Query(q); err == nil && response.Error() != nil {
		return err
	}
	return nil
}

// WriteImportSummary writes one point per import run: per-type counts from
// the parse plus what actually got written.
func WriteImportSummary(influxClient influx.Client, sourceFile string, summary *banksalad.ParseSummary, result *sqlimporter.ImportResult) error {
	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  config.CurrentImportConfig().Influx.Database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("Error creating batch points: %s", err.Error())
	}

	tags := map[string]string{
		"source_file": sourceFile,
	}

	fields := map[string]interface{}{
		"income":     summary.Counts[banksalad.Income],
		"expense":    summary.Counts[banksalad.Expense],
		"transfer":   summary.Counts[banksalad.Transfer],
		"issues":     len(summary.Issues),
		"suspected":  len(summary.SuspectedPairs),
		"created":    result.Created,
		"duplicates": result.Duplicates(),
	}

	pt, err := influx.NewPoint(config.CurrentImportConfig().Influx.Measurement, tags, fields, time.Now())
	if err != nil {
		return fmt.Errorf("Error creating influx point: %s", err.Error())
	}

	bp.AddPoint(pt)

	return influxClient.Write(bp)
}
