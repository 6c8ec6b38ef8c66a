package space

import "fmt"

// Vector — целочисленный вектор на плоскости.
type Vector struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add возвращает v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// String возвращает "(x, y)".
func (v Vector) String() string {
	return fmt.Sprintf("(%d, %d)", v.X, v.Y)
}
