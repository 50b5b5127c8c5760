package outgoing

import "stockyard/internal/core/numerator"

const (
	// NumberPrefix for generated document numbers (OUT-2026-00001).
	NumberPrefix = "OUT"

	// NumeratorStrategy: shipments are primary accounting documents,
	// so numbers must be sequential without gaps.
	NumeratorStrategy = numerator.StrategyStrict
)
