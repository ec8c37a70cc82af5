package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Milestone() MilestoneRepository
	Validation() ValidationRepository
	Assessment() AssessmentRepository

	// Close releases backend resources held by the repository.
	Close() error
}
