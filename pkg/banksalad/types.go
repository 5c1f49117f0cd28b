package banksalad

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TxnType string

const (
	Income   TxnType = "INCOME"
	Expense  TxnType = "EXPENSE"
	Transfer TxnType = "TRANSFER"
)

type TransferFlow string

const (
	FlowOut TransferFlow = "OUT"
	FlowIn  TransferFlow = "IN"
)

type ConfidenceLevel string

const (
	LevelCertain   ConfidenceLevel = "CERTAIN"
	LevelSuspected ConfidenceLevel = "SUSPECTED"
	LevelUnlikely  ConfidenceLevel = "UNLIKELY"
)

// MatchConfidence scores how likely an OUT/IN candidate pair represents one
// real-world transfer between two accounts owned by the same person.
type MatchConfidence struct {
	Score   int             `json:"score"`
	Level   ConfidenceLevel `json:"level"`
	Reasons []string        `json:"reasons"`
}

// Record is one finalized transaction ready for bulk submission. Dates and
// times are kept as strings in the backend's wire format.
//
// INCOME/EXPENSE records carry signed amounts (negative for EXPENSE).
// TRANSFER records carry an absolute amount; direction lives in TransferFlow.
type Record struct {
	UserID             int64           `json:"user_id"`
	Date               string          `json:"occurred_at"`
	Time               string          `json:"occurred_time"`
	Type               TxnType         `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	AccountName        string          `json:"account_name"`
	CounterAccountName string          `json:"counter_account_name,omitempty"`
	CategoryGroupName  string          `json:"category_group_name,omitempty"`
	CategoryName       string          `json:"category_name,omitempty"`
	Memo               string          `json:"memo,omitempty"`
	ExternalID         string          `json:"external_id"`
	TransferFlow       TransferFlow    `json:"transfer_flow,omitempty"`
}

// SuspectedPair is an OUT/IN candidate pair whose confidence landed in the
// middle band. Neither side is included in Items; the caller decides whether
// to merge them into one TRANSFER or keep them separate.
type SuspectedPair struct {
	ID         string          `json:"id"`
	Confidence MatchConfidence `json:"confidence"`
	Outgoing   Record          `json:"outgoing"`
	Incoming   Record          `json:"incoming"`
}

// ParseSummary is the full outcome of one parse call.
type ParseSummary struct {
	Items          []Record          `json:"items"`
	Issues         []string          `json:"issues"`
	Counts         map[TxnType]int   `json:"counts"`
	SuspectedPairs []SuspectedPair   `json:"suspected_pairs"`
}

type Options struct {
	UserID          int64
	DefaultCurrency string

	// Canonical account display names. Cells that normalize to one of these
	// are replaced by the canonical spelling.
	KnownAccounts []string

	// SingleAccountMode pins every row to PrimaryAccount and demotes
	// unresolved transfers to income/expense tagged with their direction.
	PrimaryAccount    string
	SingleAccountMode bool

	// Patterns (matched against group/category/content/memo) that keep a row
	// TRANSFER even in single-account mode.
	NeutralTransferPatterns []string
}

const (
	// Account placeholder used when a row has no usable account cell.
	defaultAccountName = "미지정"

	// Time applied when a row carries a date but no time.
	defaultTimeOfDay = 9 * 3600 // 09:00:00

	defaultCurrency = "KRW"
)

// parsedRow is the normalized form of one spreadsheet row. Immutable after
// the resolver finishes with it.
type parsedRow struct {
	line           int
	date           time.Time
	timeOfDay      int // seconds since midnight
	typ            TxnType
	amount         decimal.Decimal // signed
	currency       string
	account        string
	counterAccount string
	categoryGroup  string
	categoryName   string
	content        string
	memo           string
	flow           TransferFlow
}

func (r *parsedRow) dateString() string {
	return r.date.Format("2006-01-02")
}

func (r *parsedRow) timeString() string {
	s := r.timeOfDay
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// externalID is a pure function of the row's line number, date and amount so
// that re-importing the same workbook is idempotent. The "banksalad-" prefix
// is what the submission side keys its natural-duplicate filter on.
func externalID(line int, date time.Time, amount decimal.Decimal) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s", line, date.Format("2006-01-02"), amount.String())))
	return fmt.Sprintf("banksalad-%x", sum[:16])
}
