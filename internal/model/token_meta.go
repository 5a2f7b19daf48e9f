package model

// TokenMeta captures ERC20 metadata resolved from contract state. Symbol and
// name stay empty when both ABI encodings revert; decimals default to 18.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}
