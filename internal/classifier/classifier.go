// Package classifier assigns a marker color and a heat weight to each customer.
//
// Rule priority (first match wins):
//  1. "Sem comprar?" is NEGOCIACAO → orange
//  2. ticket médio present and exactly zero → gray
//  3. faixa mentions MÁXIMO, MAXIMO, REGULAR or ACIMA → green
//  4. otherwise → red
//
// The heat weight does not depend on the color: margin below the threshold weighs
// High, at or above it weighs Low, and a missing margin weighs zero.
package classifier

import (
	"strings"

	"github.com/guttosm/tktmap/internal/domain/models"
)

// negotiationSentinel marks a customer currently in negotiation.
const negotiationSentinel = "NEGOCIACAO"

// targetTiers are the faixa tokens that count as meeting the ticket target.
var targetTiers = []string{"MÁXIMO", "MAXIMO", "REGULAR", "ACIMA"}

// Status is the normalized "Sem comprar?" flag.
type Status int

const (
	StatusNone Status = iota
	StatusNegotiating
)

// Tier is the normalized faixa band.
type Tier int

const (
	TierOther Tier = iota
	TierTarget
)

// Input is the classifier's view of a record, with free text already normalized.
type Input struct {
	Status Status
	Tier   Tier
	Ticket models.NullFloat
	Margin models.NullFloat
}

// NewInput trims and uppercases the free-text fields once and maps them to enums.
func NewInput(faixa string, ticket models.NullFloat, semComprar string, margin models.NullFloat) Input {
	in := Input{Ticket: ticket, Margin: margin}

	if strings.ToUpper(strings.TrimSpace(semComprar)) == negotiationSentinel {
		in.Status = StatusNegotiating
	}

	f := strings.ToUpper(strings.TrimSpace(faixa))
	for _, tok := range targetTiers {
		if strings.Contains(f, tok) {
			in.Tier = TierTarget
			break
		}
	}
	return in
}

// Weights tunes the heat layer.
type Weights struct {
	Threshold float64 // margin percent boundary; below it is High
	High      float64
	Low       float64
}

// DefaultWeights returns threshold 25% with weights 100 and 10.
func DefaultWeights() Weights {
	return Weights{Threshold: 25, High: 100, Low: 10}
}

// Outcome is the classifier result for one record.
type Outcome struct {
	Color      models.Color
	HeatWeight float64
}

// Classify applies the color rules and the heat weight. It is total: every input
// yields exactly one color and a weight >= 0.
func Classify(in Input, w Weights) Outcome {
	return Outcome{Color: color(in), HeatWeight: weight(in.Margin, w)}
}

func color(in Input) models.Color {
	switch {
	case in.Status == StatusNegotiating:
		return models.ColorOrange
	case in.Ticket.Valid && in.Ticket.Value == 0:
		return models.ColorGray
	case in.Tier == TierTarget:
		return models.ColorGreen
	default:
		return models.ColorRed
	}
}

func weight(margin models.NullFloat, w Weights) float64 {
	if !margin.Valid {
		return 0
	}
	v := w.Low
	if margin.Value < w.Threshold {
		v = w.High
	}
	if v < 0 {
		return 0
	}
	return v
}

// ClassifyRecord classifies a normalized record.
func ClassifyRecord(rec models.NormalizedRecord, w Weights) models.ClassifiedRecord {
	out := Classify(NewInput(rec.Faixa, rec.TicketMedio, rec.SemComprar, rec.MarginPercent), w)
	return models.ClassifiedRecord{
		NormalizedRecord: rec,
		Color:            out.Color,
		HeatWeight:       out.HeatWeight,
	}
}
