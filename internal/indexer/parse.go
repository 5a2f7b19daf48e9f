package indexer

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseAddresses converts configured contract addresses into common.Address.
// Blank entries are skipped and a factory or pool listed twice is kept once,
// so the log filter never carries duplicates.
func ParseAddresses(inputs []string) ([]common.Address, error) {
	addresses := make([]common.Address, 0, len(inputs))
	seen := make(map[common.Address]struct{}, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !common.IsHexAddress(input) {
			return nil, fmt.Errorf("invalid address: %s", input)
		}
		addr := common.HexToAddress(input)
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// ParseTopic0 converts configured event signature hashes into common.Hash,
// with the same blank and duplicate handling as ParseAddresses.
func ParseTopic0(inputs []string) ([]common.Hash, error) {
	topics := make([]common.Hash, 0, len(inputs))
	seen := make(map[common.Hash]struct{}, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		data, err := hexutil.Decode(input)
		if err != nil {
			return nil, fmt.Errorf("invalid topic0: %s", input)
		}
		if len(data) != 32 {
			return nil, fmt.Errorf("invalid topic0 length: %s", input)
		}
		topic := common.BytesToHash(data)
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	return topics, nil
}
