package config

type Config struct {
	Import ImportConfig
}

type Secrets struct {
	Influx InfluxSecrets
	SQL    SqlSecrets

	// Alternative to the SQL struct, designed to be used with the heroku
	// env variable.
	DatabaseURL string `env:"DATABASE_URL"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Statement import
///////////////////////////////////////////////////////////////////////////////////////

type ImportConfig struct {
	// Cron spec for re-importing the watch directory. Re-imports dedup on
	// external id.
	UpdateFrequency string
	// Directory scanned for .xlsx/.csv statement exports.
	WatchDir string

	UserID          int64
	DefaultCurrency string

	// Account display names already known to the ledger. Spreadsheet account
	// cells that normalize to one of these are replaced by the canonical name.
	KnownAccounts []string

	// When SingleAccountMode is set every row is pinned to PrimaryAccount and
	// unresolved transfers are downgraded to income/expense.
	PrimaryAccount    string
	SingleAccountMode bool

	// Group/category/memo patterns that keep a row TRANSFER even in
	// single-account mode (credit-card settlement postings and the like).
	NeutralTransferPatterns []string

	SQL struct {
		ImportDatabase string
		BatchSize      int
	}

	Influx struct {
		Database    string
		Measurement string
	}
}

type InfluxSecrets struct {
	InfluxEndpoint string `env:"INFLUX_ENDPOINT"`
	InfluxUsername string `env:"INFLUX_USERNAME"`
	InfluxPassword string `env:"INFLUX_PASSWORD"`
}

type SqlSecrets struct {
	SqlHost     string `env:"SQL_HOST"`
	SqlUsername string `env:"SQL_USERNAME"`
	SqlPassword string `env:"SQL_PASSWORD"`
}
