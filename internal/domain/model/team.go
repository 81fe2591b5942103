// Package model contains domain models passed between layers.
package model

// Team is a registered team. Identity is ID; Name is a unique secondary key.
type Team struct {
	ID   int
	Name string
}
