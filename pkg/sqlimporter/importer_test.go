package sqlimporter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hyunwoo/ledgerops/pkg/banksalad"
)

func TestRowForRecord(t *testing.T) {
	rec := banksalad.Record{
		UserID:             7,
		Date:               "2024-03-05",
		Time:               "14:30:00",
		Type:               banksalad.Transfer,
		Amount:             decimal.NewFromInt(500000),
		Currency:           "KRW",
		AccountName:        "신한은행",
		CounterAccountName: "카카오뱅크",
		Memo:               "저축",
		ExternalID:         "banksalad-abc",
		TransferFlow:       banksalad.FlowOut,
	}

	row, err := rowForRecord(7, rec)

	assert.NoError(t, err)
	assert.Equal(t, "banksalad-abc", row.Key)
	assert.Equal(t, int64(7), row.UserID)
	assert.Equal(t, "2024-03-05", row.TransactionDate.Format("2006-01-02"))
	assert.Equal(t, "14:30:00", row.TransactionTime)
	assert.Equal(t, "TRANSFER", row.Type)
	assert.Equal(t, 500000.0, row.Amount)
	assert.Equal(t, "카카오뱅크", row.CounterAccount)
	assert.Equal(t, "OUT", row.TransferFlow)
}

func TestRowForRecordBadDate(t *testing.T) {
	_, err := rowForRecord(7, banksalad.Record{Date: "not a date"})
	assert.Error(t, err)
}

func TestMatchesNatural(t *testing.T) {
	stored := &SQLTransaction{
		TransactionDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		TransactionTime: "14:30:00",
		Type:            "EXPENSE",
		Amount:          -8500,
		Currency:        "KRW",
		Account:         "현대카드",
	}

	natural := map[string][]float64{
		naturalKey(stored): {stored.Amount},
	}

	row := *stored
	row.Key = "banksalad-abc"
	assert.True(t, matchesNatural(natural, &row))

	// sign-flipped amount still matches
	flipped := row
	flipped.Amount = 8500
	assert.True(t, matchesNatural(natural, &flipped))

	// only parser-generated keys are filtered on the natural key
	manual := row
	manual.Key = "manual-1"
	assert.False(t, matchesNatural(natural, &manual))

	other := row
	other.Amount = 9000
	assert.False(t, matchesNatural(natural, &other))

	late := row
	late.TransactionTime = "15:00:00"
	assert.False(t, matchesNatural(natural, &late))
}

func TestNaturalKeyLowercasesAccount(t *testing.T) {
	a := &SQLTransaction{
		TransactionDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		TransactionTime: "14:30:00",
		Type:            "EXPENSE",
		Currency:        "KRW",
		Account:         "Toss Bank",
	}
	b := *a
	b.Account = "toss bank"

	assert.Equal(t, naturalKey(a), naturalKey(&b))
}

func TestImportResultDuplicates(t *testing.T) {
	result := &ImportResult{ExistingDuplicates: 2, NaturalDuplicates: 3}
	assert.Equal(t, 5, result.Duplicates())
}
