package domain

import "regexp"

// CoinGecko ids are lowercase slugs, e.g. "bitcoin" or "usd-coin".
var coinIDRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func ValidateCoinID(id string) bool {
	return coinIDRe.MatchString(id)
}
