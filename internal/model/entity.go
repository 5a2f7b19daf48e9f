package model

// Entity kinds understood by the entity store.
const (
	KindPool        = "pool"
	KindPoolToken   = "poolToken"
	KindPoolShare   = "poolShare"
	KindTokenPrice  = "tokenPrice"
	KindSwap        = "swap"
	KindTransaction = "transaction"
	KindUser        = "user"
	KindBalancer    = "balancer"
)

// Entity is a keyed record persisted through the entity store.
type Entity interface {
	Kind() string
	ID() string
}
