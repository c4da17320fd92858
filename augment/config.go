package augment

// Config holds configuration for the augmentation pass.
type Config struct {
	// NGramMin is the smallest n-gram length extracted from document text
	NGramMin int

	// NGramMax is the largest n-gram length extracted from document text
	NGramMax int

	// MinScore is the aggregate co-occurrence score a candidate tag must
	// reach before it is added
	MinScore float64

	// MinEvidence is the minimum number of distinct n-grams that must
	// contribute to a candidate tag's score
	MinEvidence int

	// MaxTags is the maximum number of inferred tags added per document
	MaxTags int

	// BatchSize is the number of documents processed between yield points
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		NGramMin:       1,
		NGramMax:       3,
		MinScore:       0.35,
		MinEvidence:    2,
		MaxTags:        6,
		BatchSize:      200,
		ReportInterval: 200,
	}
}
