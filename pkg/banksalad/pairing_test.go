package banksalad

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func transferRow(date, timeOfDay, amount, account, content, memo string) []string {
	return []string{date, timeOfDay, "이체", "", "", content, amount, "KRW", account, memo}
}

func TestPairingCertainMerge(t *testing.T) {
	rows := [][]string{
		statementHeader,
		transferRow("2024-03-05", "14:30:00", "-500,000", "신한은행", "내계좌이체", "저축"),
		transferRow("2024-03-05", "14:30:20", "500,000", "카카오뱅크", "내계좌이체", "저축"),
	}

	summary := ParseRows(rows, testOptions())

	assert.Empty(t, summary.Issues)
	assert.Empty(t, summary.SuspectedPairs)
	assert.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.Counts[Transfer])

	rec := summary.Items[0]
	assert.Equal(t, Transfer, rec.Type)
	assert.Equal(t, "500000", rec.Amount.String())
	assert.Equal(t, FlowOut, rec.TransferFlow)
	// filed against the outgoing account, counter side inferred
	assert.Equal(t, "신한은행", rec.AccountName)
	assert.Equal(t, "카카오뱅크", rec.CounterAccountName)
	assert.Equal(t, "저축 (→ 카카오뱅크)", rec.Memo)
}

func TestPairingOutsideToleranceStaysIndependent(t *testing.T) {
	rows := [][]string{
		statementHeader,
		transferRow("2024-03-05", "14:30:00", "-500,000", "신한은행", "내계좌이체", ""),
		transferRow("2024-03-05", "14:31:30", "500,000", "카카오뱅크", "내계좌이체", ""),
	}

	summary := ParseRows(rows, testOptions())

	assert.Len(t, summary.Items, 2)
	assert.Empty(t, summary.SuspectedPairs)

	assert.Equal(t, Expense, summary.Items[0].Type)
	assert.Equal(t, "-500000", summary.Items[0].Amount.String())
	assert.Equal(t, FlowOut, summary.Items[0].TransferFlow)

	assert.Equal(t, Income, summary.Items[1].Type)
	assert.Equal(t, "500000", summary.Items[1].Amount.String())
	assert.Equal(t, FlowIn, summary.Items[1].TransferFlow)
}

func TestPairingSuspectedWithheld(t *testing.T) {
	rows := [][]string{
		statementHeader,
		transferRow("2024-03-05", "14:30:00", "-500,000", "신한은행", "송금", "점심값"),
		transferRow("2024-03-05", "14:30:00", "500,000", "카카오뱅크", "입금", ""),
	}

	summary := ParseRows(rows, testOptions())

	// neither side reaches the item list until someone confirms the pair
	assert.Empty(t, summary.Items)
	assert.Len(t, summary.SuspectedPairs, 1)

	pair := summary.SuspectedPairs[0]
	assert.True(t, strings.HasPrefix(pair.ID, "pair-banksalad-"))
	assert.Equal(t, LevelSuspected, pair.Confidence.Level)
	assert.Equal(t, FlowOut, pair.Outgoing.TransferFlow)
	assert.Equal(t, FlowIn, pair.Incoming.TransferFlow)
	assert.Equal(t, "신한은행", pair.Outgoing.AccountName)
	assert.Equal(t, "카카오뱅크", pair.Incoming.AccountName)
}

func TestPairingSameAccountNeverMerges(t *testing.T) {
	// strongest possible signals otherwise: exact time, 내계좌이체 on both
	// sides, identical memos
	rows := [][]string{
		statementHeader,
		transferRow("2024-03-05", "14:30:00", "-500,000", "신한은행", "내계좌이체", "저축"),
		transferRow("2024-03-05", "14:30:00", "500,000", "신한 은행", "내계좌이체", "저축"),
	}

	summary := ParseRows(rows, testOptions())

	assert.Len(t, summary.Items, 2)
	assert.Empty(t, summary.SuspectedPairs)
	assert.Equal(t, 0, summary.Counts[Transfer])

	assert.Equal(t, Expense, summary.Items[0].Type)
	assert.Equal(t, FlowOut, summary.Items[0].TransferFlow)
	assert.Empty(t, summary.Items[0].CounterAccountName)

	assert.Equal(t, Income, summary.Items[1].Type)
	assert.Equal(t, FlowIn, summary.Items[1].TransferFlow)
}

func TestPairingUnlikelySplits(t *testing.T) {
	// 30s drift, no transfer keywords, unrelated memos: score 40
	rows := [][]string{
		statementHeader,
		transferRow("2024-03-05", "14:30:00", "-500,000", "신한은행", "", "커피"),
		transferRow("2024-03-05", "14:30:30", "500,000", "카카오뱅크", "", "월세"),
	}

	summary := ParseRows(rows, testOptions())

	assert.Len(t, summary.Items, 2)
	assert.Empty(t, summary.SuspectedPairs)
	assert.Equal(t, Expense, summary.Items[0].Type)
	assert.Equal(t, Income, summary.Items[1].Type)
}

func TestPairingPicksClosestCandidate(t *testing.T) {
	rows := [][]string{
		statementHeader,
		transferRow("2024-03-05", "14:30:00", "-500,000", "신한은행", "내계좌이체", "저축"),
		transferRow("2024-03-05", "14:30:50", "500,000", "현대카드", "내계좌이체", "저축"),
		transferRow("2024-03-05", "14:30:05", "500,000", "카카오뱅크", "내계좌이체", "저축"),
	}

	summary := ParseRows(rows, testOptions())

	// the closer IN wins the pairing, the other is independent income
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, Transfer, summary.Items[0].Type)
	assert.Equal(t, "카카오뱅크", summary.Items[0].CounterAccountName)
	assert.Equal(t, Income, summary.Items[1].Type)
	assert.Equal(t, "현대카드", summary.Items[1].AccountName)
}

func TestPairingOneSidedGroup(t *testing.T) {
	rows := [][]string{
		statementHeader,
		transferRow("2024-03-05", "14:30:00", "-500,000", "신한은행", "이체", ""),
		transferRow("2024-03-05", "15:00:00", "-500,000", "카카오뱅크", "이체", ""),
	}

	summary := ParseRows(rows, testOptions())

	// no incoming side at all: both become independent expenses
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, Expense, summary.Items[0].Type)
	assert.Equal(t, Expense, summary.Items[1].Type)
}

func TestPairingDifferentDatesNeverPair(t *testing.T) {
	rows := [][]string{
		statementHeader,
		transferRow("2024-03-05", "23:59:50", "-500,000", "신한은행", "내계좌이체", ""),
		transferRow("2024-03-06", "00:00:10", "500,000", "카카오뱅크", "내계좌이체", ""),
	}

	summary := ParseRows(rows, testOptions())

	assert.Len(t, summary.Items, 2)
	assert.Empty(t, summary.SuspectedPairs)
}
