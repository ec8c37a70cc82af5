package model

import "github.com/m-mizutani/goerr/v2"

// Domain-level errors
var (
	ErrInvalidStreamType = goerr.New("invalid stream type")
	ErrInvalidStatus     = goerr.New("invalid milestone status")
	ErrInvalidProgress   = goerr.New("progress must be between 0 and 100")
	ErrNoRuleSet         = goerr.New("no rule set configured for stream type")
)

// Context keys for error values
const (
	MilestoneIDKey = "milestone_id"
	StreamTypeKey  = "stream_type"
	MetricKey      = "metric"
	GateKey        = "gate"
	CriterionKey   = "criterion"
)
