package banksalad

import (
	"fmt"
	"strings"
)

// resolvePending is the second pass over TRANSFER rows that had no explicit
// counter-account. Rows are grouped by (date, absolute amount, currency) and
// paired OUT-to-IN by time proximity; each candidate pair is then scored and
// auto-merged, surfaced for confirmation, or split into independent records.
func (p *parser) resolvePending() {
	if len(p.pending) == 0 {
		return
	}

	groups := make(map[string][]int)
	order := []string{}

	for i := range p.pending {
		pr := &p.pending[i]
		key := strings.Join([]string{pr.dateString(), pr.amount.Abs().String(), pr.currency}, "|")
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	for _, key := range order {
		p.resolveGroup(groups[key])
	}
}

func (p *parser) resolveGroup(indexes []int) {
	var outs, ins []int
	for _, i := range indexes {
		if p.pending[i].amount.IsNegative() {
			outs = append(outs, i)
		} else {
			ins = append(ins, i)
		}
	}

	// Without both sides present there is nothing to pair against: every row
	// in the group is an external flow.
	if len(outs) == 0 || len(ins) == 0 {
		for _, i := range indexes {
			p.emitDowngraded(&p.pending[i])
		}
		return
	}

	used := make(map[int]bool)

	for _, oi := range outs {
		out := &p.pending[oi]

		match := p.closestCandidate(out, ins, used)
		if match == -1 {
			p.emitDowngraded(out)
			continue
		}

		in := &p.pending[match]
		conf := matchConfidence(out, in)

		switch conf.Level {
		case LevelCertain:
			used[match] = true
			p.emitMerged(out, in)
		case LevelSuspected:
			used[match] = true
			p.holdSuspected(out, in, conf)
		default:
			used[match] = true
			p.emitDowngraded(out)
			p.emitDowngraded(in)
		}
	}

	for _, ii := range ins {
		if !used[ii] {
			p.emitDowngraded(&p.pending[ii])
		}
	}
}

// closestCandidate picks the unused IN candidate whose time-of-day is
// nearest to the OUT row, within the pairing tolerance. Ties keep the
// earlier row. A→A rows are never candidates; a transfer needs two
// distinct accounts.
func (p *parser) closestCandidate(out *parsedRow, ins []int, used map[int]bool) int {
	best := -1
	bestDelta := pairTimeTolerance + 1

	outAccount := normalizeToken(out.account)

	for _, ii := range ins {
		if used[ii] {
			continue
		}

		if normalizeToken(p.pending[ii].account) == outAccount {
			continue
		}

		delta := out.timeOfDay - p.pending[ii].timeOfDay
		if delta < 0 {
			delta = -delta
		}

		if delta <= pairTimeTolerance && delta < bestDelta {
			best = ii
			bestDelta = delta
		}
	}

	return best
}

// emitMerged collapses a CERTAIN pair into one TRANSFER filed against the
// outgoing account, with the incoming account inferred as the counter side.
func (p *parser) emitMerged(out, in *parsedRow) {
	memo := out.memo
	if in.memo != "" && in.memo != out.memo {
		if memo == "" {
			memo = in.memo
		} else {
			memo = memo + " / " + in.memo
		}
	}
	memo = strings.TrimSpace(fmt.Sprintf("%s (→ %s)", memo, in.account))

	merged := *out
	if merged.categoryGroup == "" && merged.categoryName == "" {
		merged.categoryGroup = in.categoryGroup
		merged.categoryName = in.categoryName
	}
	merged.flow = FlowOut

	p.emitTransfer(&merged, in.account, memo)
}

// holdSuspected withholds both sides of a middle-band pair from the item
// list and surfaces them for external confirmation.
func (p *parser) holdSuspected(out, in *parsedRow, conf MatchConfidence) {
	outRec := p.recordFor(out, Transfer, out.amount, "", FlowOut)
	inRec := p.recordFor(in, Transfer, in.amount, "", FlowIn)

	p.suspected = append(p.suspected, SuspectedPair{
		ID:         "pair-" + outRec.ExternalID,
		Confidence: conf,
		Outgoing:   outRec,
		Incoming:   inRec,
	})
}
