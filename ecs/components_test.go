package ecs_test

import "github.com/plus3/planetdrop/ecs"

// Common test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Rank struct {
	Index int
}

type Label string

type Score int

type Grounded struct{}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Rank](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Grounded](registry)
	return registry
}
