package dub

import (
	"fmt"
)

// matchItem selects notes at one division level. Level 0 counts notes of
// the time signature's denominator, and each further level halves them.
type matchItem struct {
	level   int
	matcher matcher
}

type matcher interface {
	match(i int) bool
}

// rangeMatch matches start..end inclusive. -1 leaves a side open.
type rangeMatch struct {
	start, end int
}

func (r rangeMatch) match(i int) bool {
	return (i >= r.start || r.start == -1) && (i <= r.end || r.end == -1)
}

var matchAll = rangeMatch{-1, -1}

type listMatch []int

func (l listMatch) match(i int) bool {
	for _, k := range l {
		if k == i {
			return true
		}
	}
	return false
}

// EvalMatchExpr returns one entry per step for a bar of numerator/denominator
// with stepSize steps per whole note. Selected steps are 1, the rest 0.
// Items are applied from the finest level up, so a coarser item clears every
// step it does not match.
func EvalMatchExpr(expr MatchExpr, numerator, denominator, stepSize int) ([]int, error) {
	if numerator <= 0 || denominator <= 0 || stepSize < denominator {
		return nil, fmt.Errorf("invalid bar: %d/%d with step size %d", numerator, denominator, stepSize)
	}
	seq := make([]int, (stepSize/denominator)*numerator)

	for i := len(expr.matchers) - 1; i >= 0; i-- {
		item := expr.matchers[i]
		division := denominator << item.level
		if division > stepSize {
			return nil, fmt.Errorf("can't match on %d notes with step size %d", division, stepSize)
		}
		skip := stepSize / division
		perBeat := division / denominator
		finest := i == len(expr.matchers)-1

		for pos, count := 0, 0; pos < len(seq); pos, count = pos+skip, count+1 {
			// number notes within their beat, e.g. 16ths in a 4/4 beat are 1 to 4;
			// at the beat level they are numbered across the bar
			num := count%perBeat + 1
			if perBeat == 1 {
				num = count + 1
			}
			switch {
			case !item.matcher.match(num):
				clear(seq[pos:min(pos+skip, len(seq))])
			case finest:
				seq[pos] = 1
			}
		}
	}
	return seq, nil
}

// MatchSteps returns the indexes of the steps EvalMatchExpr selects.
func MatchSteps(expr MatchExpr, numerator, denominator, stepSize int) ([]int, error) {
	seq, err := EvalMatchExpr(expr, numerator, denominator, stepSize)
	if err != nil {
		return nil, err
	}
	var steps []int
	for i, v := range seq {
		if v != 0 {
			steps = append(steps, i)
		}
	}
	return steps, nil
}
