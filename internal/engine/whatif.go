package engine

// Projection is a what-if recomputation compared with the committed result.
type Projection struct {
	Result    ScoreResult `json:"result"`
	Risk      *RiskResult `json:"retentionRisk,omitempty"`
	Delta     int         `json:"delta"`
	RiskDelta *int        `json:"riskDelta,omitempty"`
}

// WhatIf scores req with ov applied on top of it. The request is never
// modified, so discarding ov is enough to reset. The committed result's
// time is reused so the delta reflects only the overridden inputs.
func (e *Engine) WhatIf(req JobRequest, committed ScoreResult, ov Overrides) Projection {
	at := committed.ComputedAt
	if at.IsZero() {
		at = e.now()
	}

	res := e.ScoreAt(req, &ov, at)
	risk := RetentionRisk(req, res, &ov)

	p := Projection{
		Result: res,
		Risk:   risk,
		Delta:  res.Score - committed.Score,
	}

	if base := RetentionRisk(req, committed, nil); base != nil && risk != nil {
		d := risk.Score - base.Score
		p.RiskDelta = &d
	}

	return p
}
