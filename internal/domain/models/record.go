package models

// RawRecord is one input row keyed by trimmed column name.
// It only lives while the row is being normalized.
type RawRecord map[string]string

// NormalizedRecord is one customer row after numeric and text normalization.
//
// Invariants:
//   - Latitude and Longitude are always finite.
//   - TicketMedio keeps its missing state; it is never coerced to 0.
//   - LucroMedio defaults to 0 when the cell is missing or malformed.
//
// Column mapping (default pt-BR headers → fields):
//
//	LATITUDE            → Latitude
//	LONGITUDE           → Longitude
//	TKT MED             → TicketMedio
//	LUCRO MEDIO         → LucroMedio
//	MARGEM              → MarginPercent
//	FAIXA               → Faixa
//	SEM COMPRAR?        → SemComprar
//	SUPERVISOR          → Supervisor
//	CNPJ                → CNPJ
//	FANTASIA            → Fantasia
//	VENDEDOR            → Vendedor
//	ROTA                → Rota
//	FORMA DE PAGAMENTO  → FormaPagamento
type NormalizedRecord struct {
	Line int `json:"line"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	TicketMedio   NullFloat `json:"ticket_medio"`
	LucroMedio    float64   `json:"lucro_medio"`
	MarginPercent NullFloat `json:"margin_percent"`

	Faixa      string `json:"faixa"`
	SemComprar string `json:"sem_comprar"`
	Supervisor string `json:"supervisor"`

	CNPJ           string `json:"cnpj"`
	Fantasia       string `json:"fantasia"`
	Vendedor       string `json:"vendedor"`
	Rota           string `json:"rota"`
	FormaPagamento string `json:"forma_pagamento"`
}

// ClassifiedRecord is a NormalizedRecord with its marker color and heat weight.
// It is computed once and not modified afterwards.
type ClassifiedRecord struct {
	NormalizedRecord
	Color      Color   `json:"color" example:"green"`
	HeatWeight float64 `json:"heat_weight" example:"100"`
}

// HeatPoint is one weighted point of the density layer.
type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
}
