package types

import "fmt"

// StreamType represents the fixed category of work a milestone belongs to.
// It selects the RuleSet used for validation.
type StreamType string

const (
	StreamSecurityRemediation     StreamType = "security_remediation"
	StreamFrontendAuthMigration   StreamType = "frontend_auth_migration"
	StreamDataMigration           StreamType = "data_migration"
	StreamRealtimeFeatures        StreamType = "realtime_features"
	StreamIntegrationTesting      StreamType = "integration_testing"
	StreamPerformanceOptimization StreamType = "performance_optimization"
)

// AllStreamTypes returns all valid stream types
func AllStreamTypes() []StreamType {
	return []StreamType{
		StreamSecurityRemediation,
		StreamFrontendAuthMigration,
		StreamDataMigration,
		StreamRealtimeFeatures,
		StreamIntegrationTesting,
		StreamPerformanceOptimization,
	}
}

// IsValid checks if the stream type is valid
func (s StreamType) IsValid() bool {
	switch s {
	case StreamSecurityRemediation,
		StreamFrontendAuthMigration,
		StreamDataMigration,
		StreamRealtimeFeatures,
		StreamIntegrationTesting,
		StreamPerformanceOptimization:
		return true
	default:
		return false
	}
}

// String returns the string representation of the stream type
func (s StreamType) String() string {
	return string(s)
}

// ParseStreamType parses a string into a StreamType
func ParseStreamType(s string) (StreamType, error) {
	st := StreamType(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid stream type: %s", s)
	}
	return st, nil
}
