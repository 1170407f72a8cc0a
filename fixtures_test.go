package factory

import "fmt"

type Wheel struct {
	Size int
}

type Engine struct {
	Front     *Wheel
	Rear      *Wheel
	Cylinders int
}

func NewEngine(front, rear *Wheel, cylinders int) *Engine {
	return &Engine{Front: front, Rear: rear, Cylinders: cylinders}
}

type Vehicle interface {
	Wheels() int
}

type Car struct {
	Engine *Engine `inject:"<-"`
}

func (c *Car) Wheels() int { return 4 }

type Base struct {
	ID int
}

type Derived struct {
	Base
}

type Other struct {
	*Derived
}

type Unrelated struct{}

type CycA struct{ B *CycB }
type CycB struct{ A *CycA }

func NewCycA(b *CycB) *CycA { return &CycA{B: b} }
func NewCycB(a *CycA) *CycB { return &CycB{A: a} }

type Counter struct {
	N int
}

// mustNew is New for tests.
func mustNew(opts ...Option) *Container {
	c, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("New: %s", err))
	}

	return c
}
