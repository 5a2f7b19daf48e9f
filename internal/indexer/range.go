package indexer

import "fmt"

// BlockRange is an inclusive block span.
type BlockRange struct {
	From uint64
	To   uint64
}

// SplitRange cuts an inclusive block range into consecutive spans of at most
// batchSize blocks.
func SplitRange(from, to, batchSize uint64) ([]BlockRange, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to block must be >= from block")
	}

	ranges := make([]BlockRange, 0, (to-from)/batchSize+1)
	start := from
	for {
		end := start + batchSize - 1
		if end > to || end < start {
			end = to
		}
		ranges = append(ranges, BlockRange{From: start, To: end})
		if end == to {
			return ranges, nil
		}
		start = end + 1
	}
}
