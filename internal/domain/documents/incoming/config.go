package incoming

import "stockyard/internal/core/numerator"

const (
	// NumberPrefix for generated document numbers (INC-2026-00001).
	NumberPrefix = "INC"

	// NumeratorStrategy: receipts are primary accounting documents,
	// so numbers must be sequential without gaps.
	NumeratorStrategy = numerator.StrategyStrict
)
