package domain

// Chain identifies one supported blockchain network.
type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainBSC      Chain = "bsc"
	ChainBase     Chain = "base"
	ChainSolana   Chain = "solana"
)

// AllChains lists every chain the relay can route to.
var AllChains = []Chain{ChainEthereum, ChainBSC, ChainBase, ChainSolana}

// ChainDisplayNames maps a Chain to its human-readable name.
var ChainDisplayNames = map[Chain]string{
	ChainEthereum: "Ethereum",
	ChainBSC:      "BNB Chain",
	ChainBase:     "Base",
	ChainSolana:   "Solana",
}

// Valid reports whether c is one of the supported chains.
func (c Chain) Valid() bool {
	switch c {
	case ChainEthereum, ChainBSC, ChainBase, ChainSolana:
		return true
	}
	return false
}

// SupportsGasPriority reports whether the chain accepts an explicit gas price,
// which is what frontrun mode relies on. Solana fees work differently.
func (c Chain) SupportsGasPriority() bool {
	return c != ChainSolana
}

// HeadProbeMethod returns the lightweight RPC method used for liveness probes.
func (c Chain) HeadProbeMethod() string {
	if c == ChainSolana {
		return "getSlot"
	}
	return "eth_blockNumber"
}

// DisplayName returns the human-readable chain name.
func (c Chain) DisplayName() string {
	if name, ok := ChainDisplayNames[c]; ok {
		return name
	}
	return string(c)
}
