package ccxt

import "fmt"

// NetworkError indicates that an upstream endpoint (RPC, GraphQL or REST)
// was unreachable or answered with a non-2xx status.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolDataError indicates malformed or missing upstream data.
type ProtocolDataError struct {
	Detail string
	Err    error
}

func (e *ProtocolDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol data error: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("protocol data error: %s", e.Detail)
}

func (e *ProtocolDataError) Unwrap() error { return e.Err }

// UnsupportedSymbolError indicates a unified symbol missing from the
// loaded market catalog.
type UnsupportedSymbolError struct {
	Symbol string
}

func (e *UnsupportedSymbolError) Error() string {
	return fmt.Sprintf("unsupported symbol %s", e.Symbol)
}

// UnsupportedTimeframeError indicates a timeframe string outside the
// supported set.
type UnsupportedTimeframeError struct {
	Timeframe string
}

func (e *UnsupportedTimeframeError) Error() string {
	return fmt.Sprintf("unsupported timeframe %s", e.Timeframe)
}

// MarketsNotLoadedError indicates a call that requires the market catalog
// before LoadMarkets has populated it.
type MarketsNotLoadedError struct {
	Op string
}

func (e *MarketsNotLoadedError) Error() string {
	return fmt.Sprintf("markets not loaded, call LoadMarkets before %s", e.Op)
}
