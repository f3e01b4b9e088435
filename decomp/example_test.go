package decomp_test

import (
	"fmt"

	"github.com/katalvlaran/mrio/decomp"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/table"
)

// ExampleDecompose splits the CO2 footprint of US construction.
func ExampleDecompose() {
	us := producer.K("US", "Construction")
	cn := producer.K("CN", "Construction")
	idx := producer.MustIndex(us, cn)

	s, _ := table.NewStressorTable([]string{"CO2"}, idx, [][]float64{{5.0, 2.0}})
	l, _ := table.NewLeontiefInverse(idx, idx, [][]float64{{1.2, 0.1}, {0.3, 1.05}})

	res, err := decomp.Decompose(s, l, decomp.Query{Stressor: "CO2", Target: us})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("direct=%.1f domestic=%.1f foreign=%.1f total=%.1f\n",
		res.Direct, res.DomesticIndirect, res.ForeignIndirect, res.Total)

	// Output:
	// direct=5.0 domestic=1.0 foreign=0.6 total=6.6
}
