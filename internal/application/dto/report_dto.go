package dto

import "github.com/shopspring/decimal"

// PeriodResponse rango pedido (cadenas tal como llegaron).
type PeriodResponse struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// CollectionStats totales de coleta del período.
type CollectionStats struct {
	TotalRuns        int             `json:"totalRuns"`
	CompletedRuns    int             `json:"completedRuns"`
	TotalStops       int             `json:"totalStops"`
	CompletedStops   int             `json:"completedStops"`
	SkippedStops     int             `json:"skippedStops"`
	CompletionRate   int             `json:"completionRate"` // porcentaje entero
	TotalCollectedKg decimal.Decimal `json:"totalCollectedKg"`
}

// MaterialTotal kg recogidos de un material.
type MaterialTotal struct {
	MaterialTypeID string          `json:"materialTypeId"`
	Name           string          `json:"name"`
	Category       *string         `json:"category"`
	TotalKg        decimal.Decimal `json:"totalKg"`
}

// TeamProductivity productividad de una equipe.
type TeamProductivity struct {
	TeamID         string          `json:"teamId"`
	Name           string          `json:"name"`
	Runs           int             `json:"runs"`
	StopsCompleted int             `json:"stopsCompleted"`
	TotalKg        decimal.Decimal `json:"totalKg"`
}

// StockReport estoque actual.
type StockReport struct {
	TotalAvailableKg decimal.Decimal `json:"totalAvailableKg"`
}

// SkipReasonCount frecuencia de un motivo de no coleta.
type SkipReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// ReportSummaryResponse salida de GET /reports/summary.
type ReportSummaryResponse struct {
	Period              PeriodResponse     `json:"period"`
	Collection          CollectionStats    `json:"collection"`
	CollectedByMaterial []MaterialTotal    `json:"collectedByMaterial"`
	TeamProductivity    []TeamProductivity `json:"teamProductivity"`
	Stock               StockReport        `json:"stock"`
	RecentMovements     []MovementResponse `json:"recentMovements"`
	SkipReasons         []SkipReasonCount  `json:"skipReasons"`
}
