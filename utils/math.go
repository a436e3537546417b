package utils

import "math"

// RoundFloat rounds a float64 to the specified number of decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// RoundBTC rounds a BTC amount to satoshi precision (8 decimals).
func RoundBTC(val float64) float64 {
	return RoundFloat(val, 8)
}

// Satoshis converts a BTC amount to integer satoshis. Balance comparisons must
// go through this so float representation error can never make an affordable
// purchase fail or vice versa.
func Satoshis(btc float64) int64 {
	return int64(math.Round(btc * 100_000_000))
}

// BTCFromSats converts integer satoshis back to a BTC amount.
func BTCFromSats(sats int64) float64 {
	return float64(sats) / 100_000_000.0
}
