package mempool_test

import (
	"fmt"

	"github.com/tinywheels/mempool"
)

func Example() {
	p, err := mempool.New[int32](nil)
	if err != nil {
		panic(err)
	}
	defer p.Teardown()

	s, err := p.Allocate(3)
	if err != nil {
		panic(err)
	}
	p.ConstructWith(s, 3, 7)
	fmt.Println(s, len(s), cap(s))

	p.Destruct(s, 3)
	if err := p.Deallocate(s, 3); err != nil {
		panic(err)
	}

	again, _ := p.Allocate(3)
	fmt.Println(&again[0] == &s[0])
	// Output:
	// [7 7 7] 3 4
	// true
}
