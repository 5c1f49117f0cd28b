package banksalad

type column int

const (
	colDate column = iota
	colTime
	colType
	colGroup
	colCategory
	colContent
	colAmount
	colCurrency
	colAccount
	colMemo
	colIncome
	colExpense
	colSourceAccount
	colTargetAccount
)

// columnAliases maps each logical field to its header synonyms, highest
// priority first. Matching is done on normalized tokens so "결제 수단" and
// "결제수단" resolve the same way.
var columnAliases = map[column][]string{
	colDate:          {"날짜", "일자", "거래일", "date"},
	colTime:          {"시간", "거래시간", "time"},
	colType:          {"타입", "구분", "유형", "type"},
	colGroup:         {"대분류", "분류", "카테고리", "categorygroup", "group"},
	colCategory:      {"소분류", "세부분류", "category"},
	colContent:       {"내용", "적요", "거래내용", "content", "description"},
	colAmount:        {"금액", "거래금액", "amount"},
	colCurrency:      {"화폐", "통화", "currency"},
	colAccount:       {"결제수단", "계좌", "자산", "account"},
	colMemo:          {"메모", "memo", "note"},
	colIncome:        {"입금", "입금액", "수입", "income", "deposit"},
	colExpense:       {"출금", "출금액", "지출", "expense", "withdrawal"},
	colSourceAccount: {"출금계좌", "보내는계좌", "fromaccount", "sourceaccount"},
	colTargetAccount: {"입금계좌", "받는계좌", "상대계좌", "toaccount", "targetaccount"},
}

// columnFallback gives the positional index used when no header alias
// matches. These follow the BankSalad export's fixed column order. Fields
// without an entry are only resolved by header text.
var columnFallback = map[column]int{
	colDate:     0,
	colTime:     1,
	colType:     2,
	colGroup:    3,
	colCategory: 4,
	colContent:  5,
	colAmount:   6,
	colCurrency: 7,
	colAccount:  8,
	colMemo:     9,
}

// resolveColumns maps logical fields to column indexes for one header row.
func resolveColumns(header []string) map[column]int {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = normalizeToken(cell)
	}

	resolved := make(map[column]int)

	for col, aliases := range columnAliases {
		idx := -1

	aliasLoop:
		for _, alias := range aliases {
			key := normalizeToken(alias)
			for i, cell := range normalized {
				if cell != "" && cell == key {
					idx = i
					break aliasLoop
				}
			}
		}

		if idx == -1 {
			if fallback, ok := columnFallback[col]; ok && fallback < len(header) {
				idx = fallback
			}
		}

		if idx >= 0 {
			resolved[col] = idx
		}
	}

	return resolved
}
