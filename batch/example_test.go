package batch_test

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/connectops/batch"
)

func ExampleChunk() {
	items := []batch.Item{
		{ID: "acct-1"}, {ID: "acct-2"}, {ID: "acct-3"},
		{ID: "acct-4"}, {ID: "acct-5"},
	}

	for _, chunk := range batch.Chunk(items, 2) {
		ids := make([]string, len(chunk))
		for i, item := range chunk {
			ids[i] = item.ID
		}
		fmt.Println(strings.Join(ids, ","))
	}

	// Output:
	// acct-1,acct-2
	// acct-3,acct-4
	// acct-5
}
