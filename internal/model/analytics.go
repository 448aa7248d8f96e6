package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryStatus classifies how a category is tracking against its limit.
type CategoryStatus string

// Category statuses.
const (
	StatusGood    CategoryStatus = "good"
	StatusWarning CategoryStatus = "warning"
	StatusOver    CategoryStatus = "over"
)

// CategoryAnalysis holds the derived metrics for one budget category.
type CategoryAnalysis struct {
	Name              string          `json:"name"`
	Limit             decimal.Decimal `json:"budget"`
	Spent             decimal.Decimal `json:"spent"`
	Remaining         decimal.Decimal `json:"remaining"`
	SpendRatioPercent float64         `json:"percentage"`
	Status            CategoryStatus  `json:"status"`
}

// GoalAnalysis holds pacing metrics for one goal.
type GoalAnalysis struct {
	Goal            Goal            `json:"goal"`
	ProgressPercent float64         `json:"progress"`
	DaysLeft        int             `json:"daysLeft"`
	MonthlyTarget   decimal.Decimal `json:"monthlyTarget"`
	Remaining       decimal.Decimal `json:"remaining"`
	Overdue         bool            `json:"overdue"`
	Challenging     bool            `json:"challenging"`
}

// InsightKind is the severity of an insight.
type InsightKind string

// Insight kinds.
const (
	InsightWarning InsightKind = "warning"
	InsightInfo    InsightKind = "info"
	InsightSuccess InsightKind = "success"
)

// Insight is one advisory message produced from the analytics.
type Insight struct {
	Kind    InsightKind `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// CategorySpend pairs a category name with an amount.
type CategorySpend struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// DailySpend is the total spent on one calendar day.
type DailySpend struct {
	Date   Date            `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Report is the full analytics view of a snapshot at a point in time.
type Report struct {
	GeneratedAt        time.Time          `json:"generatedAt"`
	TotalBudget        decimal.Decimal    `json:"totalBudget"`
	TotalSpent         decimal.Decimal    `json:"totalSpent"`
	Remaining          decimal.Decimal    `json:"remaining"`
	UtilizationPercent float64            `json:"budgetUtilization"`
	Categories         []CategoryAnalysis `json:"categoryAnalysis"`
	Goals              []GoalAnalysis     `json:"goalAnalysis"`
	HealthScore        int                `json:"healthScore"`
	HealthLabel        string             `json:"healthLabel"`
	Insights           []Insight          `json:"insights"`
	DailySpending      []DailySpend       `json:"dailySpending"`
	AvgDailySpending   decimal.Decimal    `json:"avgDailySpending"`
	Ranking            []CategorySpend    `json:"categorySpending"`
	SavingsRatePercent float64            `json:"savingsRate"`
	Recommendations    []string           `json:"recommendations"`
}
