package banksalad

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parser holds the state of one parse call. Nothing survives the call, so
// repeated parses of the same bytes produce identical output.
type parser struct {
	opts Options
	cols map[column]int

	items     []Record
	issues    []string
	counts    map[TxnType]int
	suspected []SuspectedPair

	pending []parsedRow

	dateCache    map[string]time.Time
	transferSeen map[string]bool
}

// ParseRows runs the full import pipeline over already-extracted tabular
// rows: the first row is the header, the rest are data. The workbook and CSV
// entry points both feed this.
func ParseRows(rows [][]string, opts Options) *ParseSummary {
	p := &parser{
		opts:         opts,
		counts:       make(map[TxnType]int),
		items:        []Record{},
		issues:       []string{},
		suspected:    []SuspectedPair{},
		dateCache:    make(map[string]time.Time),
		transferSeen: make(map[string]bool),
	}

	if len(rows) == 0 {
		p.issues = append(p.issues, "sheet has no rows")
		return p.summary()
	}

	p.cols = resolveColumns(rows[0])

	for i, row := range rows[1:] {
		p.processRow(i+2, row) // 1-based, header is row 1
	}

	p.resolvePending()

	return p.summary()
}

func (p *parser) summary() *ParseSummary {
	return &ParseSummary{
		Items:          p.items,
		Issues:         p.issues,
		Counts:         p.counts,
		SuspectedPairs: p.suspected,
	}
}

func (p *parser) processRow(line int, row []string) {
	pr, reason := p.normalizeRow(line, row)
	if reason != "" {
		p.issues = append(p.issues, fmt.Sprintf("R%d: %s", line, reason))
		return
	}

	if pr.typ != Transfer {
		p.emit(p.recordFor(pr, pr.typ, pr.amount, "", pr.flow))
		return
	}

	// TRANSFER with an explicit, matchable counter-account is emitted
	// directly; everything else is deferred to the pairing pass.
	if pr.counterAccount != "" {
		p.emitTransfer(pr, pr.counterAccount, pr.memo)
		return
	}

	if p.opts.SingleAccountMode {
		if p.isNeutralTransfer(pr) {
			p.emitTransfer(pr, "", pr.memo)
		} else {
			p.emitDowngraded(pr)
		}
		return
	}

	p.pending = append(p.pending, *pr)
}

// normalizeRow maps one data row into a parsedRow. A non-empty reason means
// the row is skipped; parsing continues with the next row.
func (p *parser) normalizeRow(line int, row []string) (*parsedRow, string) {
	cell := func(col column) string {
		idx, ok := p.cols[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	if isEmptyRow(row) {
		return nil, "empty row"
	}

	date, ok := parseDate(cell(colDate), p.dateCache)
	if !ok {
		return nil, fmt.Sprintf("unparsable date %q", cell(colDate))
	}

	pr := &parsedRow{
		line:          line,
		date:          date,
		timeOfDay:     defaultTimeOfDay,
		categoryGroup: cell(colGroup),
		categoryName:  cell(colCategory),
		content:       cell(colContent),
		memo:          cell(colMemo),
	}

	if t, ok := parseTimeOfDay(cell(colTime)); ok {
		pr.timeOfDay = t
	}

	typ, inferType, reason := resolveType(cell(colType))
	if reason != "" {
		return nil, reason
	}

	amountCell := cell(colAmount)
	incomeCell := cell(colIncome)
	expenseCell := cell(colExpense)

	// Positional fallback can land the amount column on top of a header-
	// matched income/expense column; the dedicated column wins in that case.
	if ai, ok := p.cols[colAmount]; ok {
		if ii, ok := p.cols[colIncome]; ok && ii == ai {
			amountCell = ""
		}
		if ei, ok := p.cols[colExpense]; ok && ei == ai {
			amountCell = ""
		}
	}

	if inferType {
		typ = inferTypeFromCells(amountCell, incomeCell, expenseCell)
	}
	pr.typ = typ

	amount, flow, reason := resolveAmount(typ, amountCell, incomeCell, expenseCell)
	if reason != "" {
		return nil, reason
	}
	pr.amount = amount
	pr.flow = flow

	pr.currency = strings.ToUpper(cell(colCurrency))
	if len(pr.currency) != 3 {
		pr.currency = p.defaultCurrency()
	}

	account := cell(colAccount)
	if src := cell(colSourceAccount); src != "" && typ == Transfer {
		account = src
	}
	pr.account = canonicalAccount(account, p.opts.KnownAccounts)
	if pr.account == "" {
		pr.account = defaultAccountName
	}

	if tgt := cell(colTargetAccount); tgt != "" && typ == Transfer {
		pr.counterAccount = canonicalAccount(tgt, p.opts.KnownAccounts)
	}

	if p.opts.SingleAccountMode && p.opts.PrimaryAccount != "" {
		pr.account = p.opts.PrimaryAccount
	}

	return pr, ""
}

func (p *parser) defaultCurrency() string {
	if p.opts.DefaultCurrency != "" {
		return strings.ToUpper(p.opts.DefaultCurrency)
	}
	return defaultCurrency
}

// isNeutralTransfer reports whether the row matches one of the configured
// patterns that keep it TRANSFER even in single-account mode.
func (p *parser) isNeutralTransfer(pr *parsedRow) bool {
	if len(p.opts.NeutralTransferPatterns) == 0 {
		return false
	}

	text := strings.ToLower(strings.Join([]string{pr.categoryGroup, pr.categoryName, pr.content, pr.memo}, " "))
	return containsAny(text, p.opts.NeutralTransferPatterns)
}

// recordFor builds the finalized record for a row. TRANSFER amounts are
// stored absolute; INCOME/EXPENSE keep their sign.
func (p *parser) recordFor(pr *parsedRow, typ TxnType, amount decimal.Decimal, counter string, flow TransferFlow) Record {
	if typ == Transfer {
		amount = amount.Abs()
	}

	return Record{
		UserID:             p.opts.UserID,
		Date:               pr.dateString(),
		Time:               pr.timeString(),
		Type:               typ,
		Amount:             amount,
		Currency:           pr.currency,
		AccountName:        pr.account,
		CounterAccountName: counter,
		CategoryGroupName:  pr.categoryGroup,
		CategoryName:       pr.categoryName,
		Memo:               pr.memo,
		ExternalID:         externalID(pr.line, pr.date, pr.amount),
		TransferFlow:       flow,
	}
}

func (p *parser) emit(rec Record) {
	p.items = append(p.items, rec)
	p.counts[rec.Type]++
}

// emitTransfer emits a TRANSFER record, guarding against double-counting the
// same physical transfer within one parse call.
func (p *parser) emitTransfer(pr *parsedRow, counter, memo string) {
	key := transferKey(pr, counter)
	if p.transferSeen[key] {
		p.issues = append(p.issues, fmt.Sprintf("R%d: duplicate transfer skipped", pr.line))
		return
	}
	p.transferSeen[key] = true

	rec := p.recordFor(pr, Transfer, pr.amount, counter, pr.flow)
	rec.Memo = memo
	p.emit(rec)
}

// emitDowngraded emits a transfer row as an independent INCOME or EXPENSE,
// keeping the original flow tag for bookkeeping traceability.
func (p *parser) emitDowngraded(pr *parsedRow) {
	typ := Income
	if pr.amount.IsNegative() {
		typ = Expense
	}

	p.emit(p.recordFor(pr, typ, pr.amount, "", pr.flow))
}

func transferKey(pr *parsedRow, counter string) string {
	a := normalizeToken(pr.account)
	b := normalizeToken(counter)
	if b < a {
		a, b = b, a
	}

	return strings.Join([]string{pr.dateString(), pr.timeString(), pr.amount.Abs().String(), a, b}, "|")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
