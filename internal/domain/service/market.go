package service

import "MarketGate/internal/domain/models"

// SymbolNormalizer canonicalizes raw ticker input.
type SymbolNormalizer interface {
	Normalize(raw string) (string, error)
}

// UniverseResolver resolves a market key to its static symbol list.
type UniverseResolver interface {
	Resolve(market string) (models.Universe, error)
	Markets() []string
}
