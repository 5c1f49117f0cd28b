package banksalad

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// typeTokens maps normalized type-cell tokens onto the three-way enum.
var typeTokens = map[string]TxnType{
	"수입":       Income,
	"입금":       Income,
	"income":   Income,
	"지출":       Expense,
	"출금":       Expense,
	"expense":  Expense,
	"이체":       Transfer,
	"대체":       Transfer,
	"transfer": Transfer,
}

// resolveType maps the type cell to a TxnType. An empty cell asks the caller
// to infer the type from the amount columns; an unrecognized token rejects
// the row.
func resolveType(cell string) (typ TxnType, infer bool, reason string) {
	if cell == "" {
		return "", true, ""
	}

	if t, ok := typeTokens[normalizeToken(cell)]; ok {
		return t, false, ""
	}

	return "", false, fmt.Sprintf("unknown transaction type %q", cell)
}

// inferTypeFromCells decides the type when no type cell is present: a
// populated income or expense column wins, otherwise the sign of the amount.
func inferTypeFromCells(amountCell, incomeCell, expenseCell string) TxnType {
	if v, ok := parseAmountCell(incomeCell); ok && !v.IsZero() {
		return Income
	}
	if v, ok := parseAmountCell(expenseCell); ok && !v.IsZero() {
		return Expense
	}

	if v, ok := parseAmountCell(amountCell); ok && v.IsNegative() {
		return Expense
	}

	return Income
}

// resolveAmount produces the signed amount and, for transfers, the flow
// direction. A single signed amount column is preferred; otherwise the
// income/expense columns are consulted, the one matching the declared type
// winning when both are populated.
func resolveAmount(typ TxnType, amountCell, incomeCell, expenseCell string) (decimal.Decimal, TransferFlow, string) {
	single, hasSingle := parseAmountCell(amountCell)
	income, hasIncome := parseAmountCell(incomeCell)
	expense, hasExpense := parseAmountCell(expenseCell)

	var magnitude decimal.Decimal
	fromExpense := false

	switch {
	case hasSingle:
		magnitude = single
		fromExpense = single.IsNegative()
	case typ == Income && hasIncome:
		magnitude = income.Abs()
	case typ == Expense && hasExpense:
		magnitude = expense.Abs()
		fromExpense = true
	case hasExpense && !expense.IsZero():
		magnitude = expense.Abs()
		fromExpense = true
	case hasIncome:
		magnitude = income.Abs()
	case hasExpense:
		// zero is a real amount, not a missing one
		magnitude = expense.Abs()
		fromExpense = true
	default:
		return decimal.Zero, "", "missing amount"
	}

	switch typ {
	case Income:
		return magnitude.Abs(), "", ""
	case Expense:
		return magnitude.Abs().Neg(), "", ""
	default: // Transfer
		flow := FlowIn
		signed := magnitude.Abs()
		if fromExpense {
			flow = FlowOut
			signed = signed.Neg()
		}
		return signed, flow, ""
	}
}

// parseAmountCell parses one currency cell: thousands separators, currency
// symbols and unit suffixes are stripped.
func parseAmountCell(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return decimal.Zero, false
	}

	replacer := strings.NewReplacer(",", "", "₩", "", "원", "", " ", "", "+", "")
	s = replacer.Replace(s)
	if s == "" || s == "-" {
		return decimal.Zero, false
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return v, true
}
