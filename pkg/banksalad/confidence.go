package banksalad

import (
	"fmt"
	"strings"
)

const (
	// Seconds of time-of-day drift allowed between the two sides of a
	// candidate pair.
	pairTimeTolerance = 60

	certainThreshold   = 80
	suspectedThreshold = 50
)

// internalTransferKeywords mark a row's category text as describing an
// internal transfer. 내계좌이체 ("transfer between my own accounts") is the
// strongest signal and earns an extra bonus when both sides carry it.
var internalTransferKeywords = []string{"내계좌이체", "계좌이체", "이체", "transfer"}

const ownAccountKeyword = "내계좌이체"

// matchConfidence scores one OUT/IN candidate pair. Pure function of the two
// rows. The hard filters (same date, equal absolute amount and currency,
// time within tolerance) zero the score outright.
func matchConfidence(out, in *parsedRow) MatchConfidence {
	dateMatch := out.date.Equal(in.date)
	amountMatch := out.amount.Abs().Equal(in.amount.Abs()) && out.currency == in.currency

	delta := out.timeOfDay - in.timeOfDay
	if delta < 0 {
		delta = -delta
	}

	if !dateMatch || !amountMatch || delta > pairTimeTolerance {
		return MatchConfidence{
			Score:   0,
			Level:   LevelUnlikely,
			Reasons: []string{"date, amount or time out of tolerance"},
		}
	}

	score := 50
	reasons := []string{"date and amount match"}

	switch {
	case delta == 0:
		// exact time, no penalty
	case delta <= 5:
		score -= 5
		reasons = append(reasons, fmt.Sprintf("time differs by %ds", delta))
	default:
		score -= 10
		reasons = append(reasons, fmt.Sprintf("time differs by %ds", delta))
	}

	outText := categoryText(out)
	inText := categoryText(in)
	outKeyword := containsAny(outText, internalTransferKeywords)
	inKeyword := containsAny(inText, internalTransferKeywords)

	switch {
	case outKeyword && inKeyword:
		score += 30
		reasons = append(reasons, "both sides categorized as internal transfer")

		if strings.Contains(outText, ownAccountKeyword) && strings.Contains(inText, ownAccountKeyword) {
			score += 10
			reasons = append(reasons, "'내계좌이체' on both sides")
		}
	case outKeyword || inKeyword:
		score += 15
		reasons = append(reasons, "one side categorized as internal transfer")
	}

	if normalizeToken(out.account) != normalizeToken(in.account) {
		score += 10
		reasons = append(reasons, "distinct accounts")
	} else {
		score -= 20
		reasons = append(reasons, "same account on both sides")
	}

	memoSim := similarity(out.memo, in.memo)
	if memoSim > 0.7 {
		score += 10
		reasons = append(reasons, fmt.Sprintf("memo similarity %d%%", int(memoSim*100)))
	} else if memoSim < 0.3 {
		score -= 10
		reasons = append(reasons, fmt.Sprintf("memo mismatch %d%%", int(memoSim*100)))
	}

	level := LevelUnlikely
	if score >= certainThreshold {
		level = LevelCertain
	} else if score >= suspectedThreshold {
		level = LevelSuspected
	}

	return MatchConfidence{Score: score, Level: level, Reasons: reasons}
}

// categoryText is the lower-cased concatenation of the descriptive fields
// keyword checks run against.
func categoryText(r *parsedRow) string {
	return strings.ToLower(strings.Join([]string{r.categoryGroup, r.categoryName, r.content}, " "))
}
