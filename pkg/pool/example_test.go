// Package pool provides example usage of the typed pools.
package pool_test

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/tabprep/pkg/pool"
)

// Example demonstrates a custom typed pool.
func Example() {
	builders := pool.New(
		func() *strings.Builder { return &strings.Builder{} },
		func(b *strings.Builder) { b.Reset() },
	)

	b := builders.Get()
	b.WriteString("ohe_region_")
	b.WriteString("north")
	fmt.Println(b.String())
	builders.Put(b)

	// Output:
	// ohe_region_north
}

// ExamplePool_Stats shows the allocation counters.
func ExamplePool_Stats() {
	p := pool.New(func() *[]byte { b := make([]byte, 0, 8); return &b }, nil)

	buf := p.Get()
	allocated, inUse, _, _ := p.Stats()
	fmt.Println(allocated, inUse)
	p.Put(buf)

	_, inUse, _, _ = p.Stats()
	fmt.Println(inUse)

	// Output:
	// 1 1
	// 0
}
