package risk

import (
	"fmt"
	"math"

	"github.com/Alias1177/Calibrator/models"
)

// TradeProposal is a candidate trade produced by external analysis.
type TradeProposal struct {
	Direction models.TradeDirection `json:"direction"`
	Entry     float64               `json:"entry"`
	Stop      float64               `json:"stop"`
	Target    float64               `json:"target"`
}

// CalibratedTrade is the proposal after regime adjustments are applied.
type CalibratedTrade struct {
	Proposal     TradeProposal `json:"proposal"`
	Stop         float64       `json:"stop"`
	Target       float64       `json:"target"`
	RR           float64       `json:"rr"`
	PositionSize float64       `json:"position_size"`
	Accepted     bool          `json:"accepted"`
	RejectReason string        `json:"reject_reason,omitempty"`
}

// ProposalRR calculates the risk:reward ratio of a raw proposal.
func ProposalRR(p TradeProposal) float64 {
	riskDistance := math.Abs(p.Entry - p.Stop)
	if riskDistance == 0 {
		return 0
	}
	return math.Abs(p.Target-p.Entry) / riskDistance
}

// Calibrate rescales the proposal's stop and target by the regime
// adjustments, sizes the position from the risk budget, and rejects the
// trade when its R:R falls below the recommended minimum.
func Calibrate(
	p TradeProposal,
	adjustments models.AnalysisAdjustments,
	rec models.RRRecommendation,
	accountSize, riskPerTrade float64,
) CalibratedTrade {
	stopDistance := math.Abs(p.Entry-p.Stop) * adjustments.StopLossAdjustment
	targetDistance := math.Abs(p.Target-p.Entry) * adjustments.TakeProfitAdjustment

	var stop, target float64
	if p.Direction == models.DirectionBuy {
		stop = p.Entry - stopDistance
		target = p.Entry + targetDistance
	} else {
		stop = p.Entry + stopDistance
		target = p.Entry - targetDistance
	}

	rr := 0.0
	if stopDistance > 0 {
		rr = targetDistance / stopDistance
	}

	result := CalibratedTrade{
		Proposal: p,
		Stop:     stop,
		Target:   target,
		RR:       rr,
	}

	if rr < rec.MinRR {
		result.RejectReason = fmt.Sprintf(
			"risk:reward %.2f below recommended minimum %.2f (raw proposal %.2f)",
			rr, rec.MinRR, ProposalRR(p))
		return result
	}

	// Position size = risk budget / stop distance, scaled by the regime
	// risk multiplier.
	if stopDistance > 0 {
		riskAmount := accountSize * riskPerTrade * adjustments.RiskMultiplier
		result.PositionSize = riskAmount / stopDistance
	}

	result.Accepted = true
	return result
}
