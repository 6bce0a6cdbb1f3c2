package provider

import (
	"sort"

	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// Coin maps a market-data coin identifier to its exchange ticker.
type Coin struct {
	ID     string `json:"id" yaml:"id"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name" yaml:"name"`
}

var supportedCoins = map[string]Coin{
	"bitcoin":  {ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"},
	"ethereum": {ID: "ethereum", Symbol: "ETH", Name: "Ethereum"},
	"cardano":  {ID: "cardano", Symbol: "ADA", Name: "Cardano"},
	"solana":   {ID: "solana", Symbol: "SOL", Name: "Solana"},
	"ripple":   {ID: "ripple", Symbol: "XRP", Name: "XRP"},
}

// LookupCoin returns the coin registered under id.
func LookupCoin(id string) (Coin, bool) {
	coin, ok := supportedCoins[id]

	return coin, ok
}

// SupportedCoins lists the known coins sorted by id.
func SupportedCoins() []Coin {
	coins := make([]Coin, 0, len(supportedCoins))
	for _, coin := range supportedCoins {
		coins = append(coins, coin)
	}

	sort.Slice(coins, func(i, j int) bool { return coins[i].ID < coins[j].ID })

	return coins
}

// exchangeSymbol returns the ticker of a known coin, or ErrCodeUnsupportedCoin.
func exchangeSymbol(coinID string) (string, error) {
	coin, ok := LookupCoin(coinID)
	if !ok {
		return "", errors.Newf(errors.ErrCodeUnsupportedCoin, "coin %q has no exchange symbol", coinID)
	}

	return coin.Symbol, nil
}
