/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing Turing machines.

It allows developers to define transition tables using a fluent builder pattern instead of
relying on bulk, YAML or JSON files. This is particularly useful for generated machines,
unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/aretw0/turing/pkg/domain"
		"github.com/aretw0/turing/pkg/dsl"
	)

	func main() {
		b := dsl.New("flipper")

		b.Start("q0").
			On('0', '1', domain.MoveRight, "q0").
			On('1', '0', domain.MoveRight, "q0").
			Rule("%:%,S", "qf")

		b.Add("qf").Accept()

		// The resulting loader can be passed to turing.Load(...)
		loader, err := b.Build()
		// ...
	}
*/
package dsl
