package engine

// BudgetScenario is the score obtained with a neighbouring budget range.
type BudgetScenario struct {
	Range  BudgetRange `json:"range"`
	Result ScoreResult `json:"result"`
	Delta  int         `json:"delta"`
}

// Comparison shows how one budget step up or down moves the score.
type Comparison struct {
	Current  ScoreResult     `json:"current"`
	Increase *BudgetScenario `json:"withIncrease,omitempty"`
	Decrease *BudgetScenario `json:"withDecrease,omitempty"`
}

// CompareBudgets rescores req with the next higher and next lower range of
// the role's budget scale. Steps are only offered when the request uses a
// named range; the "not sure" bracket is never a target.
func (e *Engine) CompareBudgets(req JobRequest) Comparison {
	at := e.now()
	current := e.ScoreAt(req, nil, at)
	cmp := Comparison{Current: current}

	if req.Budget.Amount != nil || req.Budget.Range == "" {
		return cmp
	}

	scale := ScaleHousehold
	if current.Benchmark.IsCorporate() {
		scale = ScaleCorporate
	}
	ranges := budgetRanges[scale]

	idx := -1
	for i, r := range ranges {
		if r.Value == req.Budget.Range {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cmp
	}

	scenario := func(r BudgetRange) *BudgetScenario {
		value := r.Value
		res := e.ScoreAt(req, &Overrides{BudgetRange: &value}, at)
		return &BudgetScenario{Range: r, Result: res, Delta: res.Score - current.Score}
	}

	// The last entry is "not sure" and the one before it has nothing above.
	if idx < len(ranges)-2 {
		cmp.Increase = scenario(ranges[idx+1])
	}
	if idx > 0 && ranges[idx-1].Midpoint != nil {
		cmp.Decrease = scenario(ranges[idx-1])
	}

	return cmp
}
