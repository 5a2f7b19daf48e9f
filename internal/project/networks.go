package project

import "fmt"

// NetworkConfig fixes the pricing anchor addresses for a deployment network.
// ReferenceAsset is the stable-valued token all prices are quoted against;
// WrappedNative is kept for symmetry with the deployed contracts.
type NetworkConfig struct {
	Network        string
	WrappedNative  string
	ReferenceAsset string
}

var networks = map[string]NetworkConfig{
	"mainnet": {
		Network:        "mainnet",
		WrappedNative:  "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		ReferenceAsset: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
	},
	"kovan": {
		Network:        "kovan",
		WrappedNative:  "0xd0a1e359811322d97991e03f863a0c30c2cf029c",
		ReferenceAsset: "0x1528f3fcc26d13f7079325fb78d9442607781c8c", // DAI
	},
}

// ForNetwork returns the anchor configuration for a known network name.
func ForNetwork(name string) (NetworkConfig, error) {
	cfg, ok := networks[name]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("unknown network: %s", name)
	}
	return cfg, nil
}
