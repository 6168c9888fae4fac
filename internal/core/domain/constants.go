package domain

// Venue identifies one of the two trading backends the router can
// execute against.
type Venue string

const (
	// VenueMarketMaker is the peer-to-peer on-chain offer market.
	VenueMarketMaker Venue = "MARKET_MAKER"
	// VenueBroker is the centralized market bridge settled through an
	// on-chain escrow transfer.
	VenueBroker Venue = "BROKER"
)

// TradeType distinguishes the direction of a trade with respect to the
// traded symbol.
type TradeType int

const (
	// TradeBuy ...
	TradeBuy TradeType = iota
	// TradeSell ...
	TradeSell
)

// Validate returns an error if the trade type is neither buy nor sell.
func (t TradeType) Validate() error {
	if t != TradeBuy && t != TradeSell {
		return ErrInvalidTradeType
	}
	return nil
}

// IsBuy ...
func (t TradeType) IsBuy() bool {
	return t == TradeBuy
}

// String ...
func (t TradeType) String() string {
	if t == TradeBuy {
		return "BUY"
	}
	return "SELL"
}

// Network is one of the supported settlement chains.
type Network string

const (
	NetworkEthereum Network = "ethereum"
	NetworkPolygon  Network = "polygon"
	NetworkBase     Network = "base"
	NetworkSepolia  Network = "sepolia"
)

// Validate returns an error if the network is not one of the supported
// chain identifiers.
func (n Network) Validate() error {
	switch n {
	case NetworkEthereum, NetworkPolygon, NetworkBase, NetworkSepolia:
		return nil
	default:
		return ErrInvalidNetwork
	}
}
