// SPDX-License-Identifier: MIT
//
// shapes.go - synthetic mesh shapes for demos, load tests and fixtures.
//
// Contract:
//   - Every Shape adds nodes via IDFn in ascending index order, then links
//     in a stable order, all with the same weight.
//   - Undirected builders mirror links; directed ones keep the stated
//     direction (Cycle and Path are one-way, the rest emit both ways).
//   - Size violations return ErrTooFewNodes before anything is added;
//     Generate discards a partially populated builder on any error.

package topology

import (
	"fmt"
	"strconv"
)

// Shape populates a Builder.
type Shape func(b *Builder, id IDFn, weight float64) error

// IDFn names the node at a zero-based index.
type IDFn func(idx int) NodeID

// DefaultIDFn returns "n0", "n1", ...
func DefaultIDFn(idx int) NodeID { return NodeID("n" + strconv.Itoa(idx)) }

// HubID is the fixed identifier of the Star and Wheel hub.
const HubID NodeID = "hub"

const (
	methodComplete = "Complete"
	methodCycle    = "Cycle"
	methodPath     = "Path"
	methodStar     = "Star"
	methodWheel    = "Wheel"
	methodGrid     = "Grid"
)

// Generate builds a fresh Builder from shape.
// A nil id uses DefaultIDFn.
func Generate(shape Shape, id IDFn, weight float64, opts ...BuilderOption) (*Builder, error) {
	if id == nil {
		id = DefaultIDFn
	}
	b := NewBuilder(opts...)
	if err := shape(b, id, weight); err != nil {
		return nil, err
	}

	return b, nil
}

func minNodes(method string, n, min int) error {
	if n < min {
		return fmt.Errorf("%s: n=%d < min=%d: %w", method, n, min, ErrTooFewNodes)
	}

	return nil
}

func addNodes(b *Builder, id IDFn, n int) error {
	for i := 0; i < n; i++ {
		if err := b.AddNode(id(i)); err != nil {
			return err
		}
	}

	return nil
}

// both links u↔v, also on directed builders.
func both(b *Builder, u, v NodeID, w float64) error {
	if err := b.SetLink(u, v, w); err != nil {
		return err
	}
	if b.Directed() {
		return b.SetLink(v, u, w)
	}

	return nil
}

// Complete links every pair of n ≥ 2 nodes (K_n).
func Complete(n int) Shape {
	return func(b *Builder, id IDFn, w float64) error {
		if err := minNodes(methodComplete, n, 2); err != nil {
			return err
		}
		if err := addNodes(b, id, n); err != nil {
			return fmt.Errorf("%s: %w", methodComplete, err)
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if err := both(b, id(i), id(j), w); err != nil {
					return fmt.Errorf("%s: %w", methodComplete, err)
				}
			}
		}

		return nil
	}
}

// Cycle links i → (i+1) mod n for n ≥ 3 nodes.
func Cycle(n int) Shape {
	return func(b *Builder, id IDFn, w float64) error {
		if err := minNodes(methodCycle, n, 3); err != nil {
			return err
		}
		if err := addNodes(b, id, n); err != nil {
			return fmt.Errorf("%s: %w", methodCycle, err)
		}
		for i := 0; i < n; i++ {
			if err := b.SetLink(id(i), id((i+1)%n), w); err != nil {
				return fmt.Errorf("%s: %w", methodCycle, err)
			}
		}

		return nil
	}
}

// Path links i → i+1 for n ≥ 2 nodes; the ends are not joined.
func Path(n int) Shape {
	return func(b *Builder, id IDFn, w float64) error {
		if err := minNodes(methodPath, n, 2); err != nil {
			return err
		}
		if err := addNodes(b, id, n); err != nil {
			return fmt.Errorf("%s: %w", methodPath, err)
		}
		for i := 0; i+1 < n; i++ {
			if err := b.SetLink(id(i), id(i+1), w); err != nil {
				return fmt.Errorf("%s: %w", methodPath, err)
			}
		}

		return nil
	}
}

// Star links a HubID gateway to n-1 ≥ 1 leaves.
func Star(n int) Shape {
	return func(b *Builder, id IDFn, w float64) error {
		if err := minNodes(methodStar, n, 2); err != nil {
			return err
		}
		for i := 1; i < n; i++ {
			if err := both(b, HubID, id(i), w); err != nil {
				return fmt.Errorf("%s: %w", methodStar, err)
			}
		}

		return nil
	}
}

// Wheel is a Star whose n-1 ≥ 3 leaves also form a ring.
func Wheel(n int) Shape {
	return func(b *Builder, id IDFn, w float64) error {
		if err := minNodes(methodWheel, n, 4); err != nil {
			return err
		}
		if err := Star(n)(b, id, w); err != nil {
			return fmt.Errorf("%s: %w", methodWheel, err)
		}
		rim := n - 1
		for i := 0; i < rim; i++ {
			if err := both(b, id(1+i), id(1+(i+1)%rim), w); err != nil {
				return fmt.Errorf("%s: %w", methodWheel, err)
			}
		}

		return nil
	}
}

// Grid lays out rows×cols nodes with 4-neighbour links, index r*cols+c.
func Grid(rows, cols int) Shape {
	return func(b *Builder, id IDFn, w float64) error {
		if rows < 1 || cols < 1 || rows*cols < 2 {
			return fmt.Errorf("%s: %dx%d: %w", methodGrid, rows, cols, ErrTooFewNodes)
		}
		if err := addNodes(b, id, rows*cols); err != nil {
			return fmt.Errorf("%s: %w", methodGrid, err)
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				cur := r*cols + c
				if c+1 < cols {
					if err := both(b, id(cur), id(cur+1), w); err != nil {
						return fmt.Errorf("%s: %w", methodGrid, err)
					}
				}
				if r+1 < rows {
					if err := both(b, id(cur), id(cur+cols), w); err != nil {
						return fmt.Errorf("%s: %w", methodGrid, err)
					}
				}
			}
		}

		return nil
	}
}

// ShapeByName resolves the CLI shape names complete|cycle|path|star|wheel
// for n nodes.
func ShapeByName(name string, n int) (Shape, error) {
	switch name {
	case "complete":
		return Complete(n), nil
	case "cycle":
		return Cycle(n), nil
	case "path":
		return Path(n), nil
	case "star":
		return Star(n), nil
	case "wheel":
		return Wheel(n), nil
	default:
		return nil, fmt.Errorf("shape %q: %w", name, ErrUnknownShape)
	}
}
