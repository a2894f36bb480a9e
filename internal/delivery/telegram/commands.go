package telegram

import (
	"strconv"
	"strings"

	"github.com/ndedov/coinwatch/internal/domain"
)

// ParseAddArgs splits "/add COIN PRICE [above|below]". Direction is optional
// and normalized later; extra tokens beyond the third are rejected.
func ParseAddArgs(args string) (symbol, price, direction string, err error) {
	parts := strings.Fields(args)
	if len(parts) < 2 || len(parts) > 3 {
		return "", "", "", domain.ErrInvalidArguments
	}
	direction = ""
	if len(parts) == 3 {
		direction = parts[2]
	}
	return parts[0], parts[1], direction, nil
}

// ParsePosition parses the 1-based alert number for /remove.
func ParsePosition(args string) (int, error) {
	value := strings.TrimSpace(args)
	if value == "" {
		return 0, domain.ErrInvalidArguments
	}
	position, err := strconv.Atoi(value)
	if err != nil {
		return 0, domain.ErrInvalidArguments
	}
	return position, nil
}

// ParseTargetUser parses "/approve USER_ID" style arguments.
func ParseTargetUser(args string) (string, error) {
	target := strings.TrimSpace(args)
	if target == "" || len(strings.Fields(target)) != 1 {
		return "", domain.ErrInvalidArguments
	}
	return target, nil
}

// ParseTargetUserCoin parses "/approve_coin USER_ID COIN" style arguments.
func ParseTargetUserCoin(args string) (userID, coin string, err error) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return "", "", domain.ErrInvalidArguments
	}
	return parts[0], parts[1], nil
}

// ParseNewCoinArgs parses "/new_coin SYMBOL COINGECKO_ID".
func ParseNewCoinArgs(args string) (symbol, coinID string, err error) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return "", "", domain.ErrInvalidArguments
	}
	return parts[0], parts[1], nil
}

// ParseSymbols parses "/price COIN [COIN2 ...]".
func ParseSymbols(args string) ([]string, error) {
	symbols := strings.Fields(args)
	if len(symbols) == 0 {
		return nil, domain.ErrInvalidArguments
	}
	return symbols, nil
}

// ParseCoinSymbol parses "/request_coin COIN".
func ParseCoinSymbol(args string) (string, error) {
	parts := strings.Fields(args)
	if len(parts) != 1 {
		return "", domain.ErrInvalidArguments
	}
	return parts[0], nil
}
