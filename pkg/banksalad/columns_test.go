package banksalad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumnsByHeader(t *testing.T) {
	header := []string{"타입", "날짜", "금액", "결제 수단", "메모"}

	cols := resolveColumns(header)

	assert.Equal(t, 0, cols[colType])
	assert.Equal(t, 1, cols[colDate])
	assert.Equal(t, 2, cols[colAmount])
	assert.Equal(t, 3, cols[colAccount])
	assert.Equal(t, 4, cols[colMemo])
}

func TestResolveColumnsEnglishAliases(t *testing.T) {
	header := []string{"Date", "Time", "Type", "Category", "Amount", "Account", "Memo"}

	cols := resolveColumns(header)

	assert.Equal(t, 0, cols[colDate])
	assert.Equal(t, 2, cols[colType])
	assert.Equal(t, 4, cols[colAmount])
	assert.Equal(t, 5, cols[colAccount])
}

func TestResolveColumnsPositionalFallback(t *testing.T) {
	// no recognizable header text: the fixed export order applies
	header := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	cols := resolveColumns(header)

	assert.Equal(t, 0, cols[colDate])
	assert.Equal(t, 6, cols[colAmount])
	assert.Equal(t, 8, cols[colAccount])

	// income/expense and transfer account columns have no fallback
	_, ok := cols[colIncome]
	assert.False(t, ok)
	_, ok = cols[colSourceAccount]
	assert.False(t, ok)
}

func TestResolveColumnsSplitAmounts(t *testing.T) {
	header := []string{"날짜", "구분", "입금액", "출금액", "계좌"}

	cols := resolveColumns(header)

	assert.Equal(t, 2, cols[colIncome])
	assert.Equal(t, 3, cols[colExpense])
	assert.Equal(t, 4, cols[colAccount])
}
