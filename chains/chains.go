// Package chains holds the registry of networks the SDK can request and
// redeem permissions on. Wallets that implement ERC-7715 today run on EVM
// chains only, so the registry is keyed by EVM chain ID.
package chains

import (
	"fmt"
	"sort"
)

// Chain describes a supported network.
type Chain struct {
	// ID is the numeric EVM chain ID.
	ID uint64

	// Name is the human-readable network name.
	Name string

	// NativeSymbol is the ticker of the chain's native asset.
	NativeSymbol string

	// NativeDecimals is the precision of the native asset (18 on all
	// supported chains, kept explicit so callers never hardcode it).
	NativeDecimals int

	// Testnet marks non-production networks.
	Testnet bool
}

// DefaultChainID is used when a configuration does not name a chain.
const DefaultChainID uint64 = 11155111 // Ethereum Sepolia

// Mainnet chain IDs
const (
	Ethereum uint64 = 1
	Base     uint64 = 8453
	Polygon  uint64 = 137
	Arbitrum uint64 = 42161
	Optimism uint64 = 10
	Linea    uint64 = 59144
)

// Testnet chain IDs
const (
	Sepolia      uint64 = 11155111
	BaseSepolia  uint64 = 84532
	LineaSepolia uint64 = 59141
	PolygonAmoy  uint64 = 80002
)

var registry = map[uint64]Chain{
	Ethereum:     {ID: Ethereum, Name: "Ethereum", NativeSymbol: "ETH", NativeDecimals: 18},
	Base:         {ID: Base, Name: "Base", NativeSymbol: "ETH", NativeDecimals: 18},
	Polygon:      {ID: Polygon, Name: "Polygon", NativeSymbol: "POL", NativeDecimals: 18},
	Arbitrum:     {ID: Arbitrum, Name: "Arbitrum One", NativeSymbol: "ETH", NativeDecimals: 18},
	Optimism:     {ID: Optimism, Name: "OP Mainnet", NativeSymbol: "ETH", NativeDecimals: 18},
	Linea:        {ID: Linea, Name: "Linea", NativeSymbol: "ETH", NativeDecimals: 18},
	Sepolia:      {ID: Sepolia, Name: "Sepolia", NativeSymbol: "ETH", NativeDecimals: 18, Testnet: true},
	BaseSepolia:  {ID: BaseSepolia, Name: "Base Sepolia", NativeSymbol: "ETH", NativeDecimals: 18, Testnet: true},
	LineaSepolia: {ID: LineaSepolia, Name: "Linea Sepolia", NativeSymbol: "ETH", NativeDecimals: 18, Testnet: true},
	PolygonAmoy:  {ID: PolygonAmoy, Name: "Polygon Amoy", NativeSymbol: "POL", NativeDecimals: 18, Testnet: true},
}

// IsSupported reports whether the chain ID is in the registry.
func IsSupported(id uint64) bool {
	_, ok := registry[id]
	return ok
}

// Get returns the chain entry for the given ID.
func Get(id uint64) (Chain, error) {
	c, ok := registry[id]
	if !ok {
		return Chain{}, fmt.Errorf("unsupported chain ID: %d", id)
	}
	return c, nil
}

// HexID formats a chain ID the way wallet RPC payloads expect it.
func HexID(id uint64) string {
	return fmt.Sprintf("0x%x", id)
}

// List returns all supported chains ordered by chain ID.
func List() []Chain {
	out := make([]Chain, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
