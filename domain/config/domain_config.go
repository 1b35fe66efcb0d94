package config

// DomainConfig holds the configurable business constraints for pipeline analysis.
type DomainConfig struct {
	// Pipeline size limits. The checker itself is linear-time, so these exist
	// purely as a resource guard against pathological submissions.
	MaxNodesPerPipeline int
	MaxEdgesPerPipeline int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxNodesPerPipeline: 10000,
		MaxEdgesPerPipeline: 50000,
	}
}
