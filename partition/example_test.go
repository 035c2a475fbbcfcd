package partition_test

import (
	"fmt"

	"github.com/katalvlaran/matbench/partition"
)

func ExampleNew() {
	p, _ := partition.New(7, 3, partition.WithPolicy(partition.Remainder))
	fmt.Println(p)
	fmt.Println(p.Counts(7))
	// Output:
	// [{0 3} {3 5} {5 7}]
	// [21 14 14]
}
