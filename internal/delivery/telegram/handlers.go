package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/ndedov/coinwatch/internal/usecase"
	"go.uber.org/zap"
)

type Handlers struct {
	accessUC   *usecase.AccessUsecase
	alertUC    *usecase.AlertUsecase
	registryUC *usecase.RegistryUsecase
	logger     *zap.Logger
}

func NewHandlers(accessUC *usecase.AccessUsecase, alertUC *usecase.AlertUsecase, registryUC *usecase.RegistryUsecase, logger *zap.Logger) *Handlers {
	return &Handlers{accessUC: accessUC, alertUC: alertUC, registryUC: registryUC, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
	}
}

func (h *Handlers) handleCommand(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID
	userID := strconv.FormatInt(update.Message.From.ID, 10)
	username := update.Message.From.UserName
	if username == "" {
		username = update.Message.From.FirstName
	}

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.String("user_id", userID),
		zap.String("username", username),
		zap.String("command", command),
		zap.String("args", args),
	)

	switch command {
	case "start":
		h.reply(api, chatID, h.startText(ctx, userID))
	case "help":
		h.reply(api, chatID, h.helpText(ctx, userID))
	case "request":
		if err := h.accessUC.RequestAccess(ctx, userID, username); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, "✅ Your request has been sent to the admin.")
	case "approve":
		target, err := ParseTargetUser(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /approve USER_ID")
			return
		}
		if err := h.accessUC.Approve(ctx, userID, target); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✅ Approved access for user %s", target))
	case "decline":
		target, err := ParseTargetUser(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /decline USER_ID")
			return
		}
		if err := h.accessUC.Decline(ctx, userID, target); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("❌ Declined access for user %s", target))
	case "new_coin":
		symbol, coinID, err := ParseNewCoinArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /new_coin SYMBOL COINGECKO_ID\nExample: /new_coin btc bitcoin")
			return
		}
		if err := h.registryUC.Register(ctx, userID, symbol, coinID); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf(
			"✅ Added new coin:\n\nSymbol: %s\nCoinGecko ID: %s\n\nUsers can now set alerts for %s.",
			strings.ToUpper(symbol), strings.ToLower(coinID), strings.ToUpper(symbol),
		))
	case "request_coin":
		symbol, err := ParseCoinSymbol(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /request_coin COIN")
			return
		}
		if err := h.accessUC.RequestCoin(ctx, userID, username, symbol); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✅ Request for %s sent to the admin.", strings.ToUpper(symbol)))
	case "approve_coin":
		target, symbol, err := ParseTargetUserCoin(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /approve_coin USER_ID COIN")
			return
		}
		if err := h.accessUC.ApproveCoin(ctx, userID, target, symbol); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("✅ Approved %s for user %s", strings.ToUpper(symbol), target))
	case "decline_coin":
		target, symbol, err := ParseTargetUserCoin(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /decline_coin USER_ID COIN")
			return
		}
		if err := h.accessUC.DeclineCoin(ctx, userID, target, symbol); err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf("❌ Declined %s for user %s", strings.ToUpper(symbol), target))
	case "list_users":
		root, err := h.accessUC.ListUsers(ctx, userID)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, formatUsers(root))
	case "add":
		symbol, price, direction, err := ParseAddArgs(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /add COIN PRICE [above|below]")
			return
		}
		alert, err := h.alertUC.Add(ctx, userID, symbol, price, direction)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf(
			"✅ Alert set for %s $%s (%s)\n\nYou will be notified when the price condition is met.",
			strings.ToUpper(alert.Symbol), alert.Price, alert.Direction,
		))
	case "list":
		alerts, err := h.alertUC.List(ctx, userID)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		if len(alerts) == 0 {
			h.reply(api, chatID, "You have no active alerts.")
			return
		}
		var builder strings.Builder
		builder.WriteString("📋 Your alerts:\n")
		for i, alert := range alerts {
			fmt.Fprintf(&builder, "%d. %s %s $%s\n", i+1, strings.ToUpper(alert.Symbol), alert.Direction, alert.Price)
		}
		h.reply(api, chatID, builder.String())
	case "remove":
		position, err := ParsePosition(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /remove ALERT_NUMBER")
			return
		}
		removed, err := h.alertUC.Remove(ctx, userID, position)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		h.reply(api, chatID, fmt.Sprintf(
			"✅ Removed alert for %s $%s (%s)",
			strings.ToUpper(removed.Symbol), removed.Price, removed.Direction,
		))
	case "coin":
		h.reply(api, chatID, h.coinOverview(ctx, userID))
	case "price":
		symbols, err := ParseSymbols(args)
		if err != nil {
			h.reply(api, chatID, "Usage: /price COIN [COIN2 ...]")
			return
		}
		quotes, err := h.alertUC.Prices(ctx, userID, symbols)
		if err != nil {
			h.reply(api, chatID, h.errorMessage(err))
			return
		}
		lines := make([]string, 0, len(quotes))
		for _, quote := range quotes {
			if quote.Found {
				lines = append(lines, fmt.Sprintf("💰 %s: $%s", strings.ToUpper(quote.Symbol), quote.Price))
			} else {
				lines = append(lines, fmt.Sprintf("⚠️ %s: price not found. Try again later.", strings.ToUpper(quote.Symbol)))
			}
		}
		h.reply(api, chatID, strings.Join(lines, "\n"))
	default:
		h.logger.Warn("unknown command", zap.String("user_id", userID), zap.String("command", command))
		h.reply(api, chatID, "❌ Unknown command. Use /help for available commands.")
	}
}

func (h *Handlers) errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		return "❌ You are not authorized to do that.\nUse /request to ask for access."
	case errors.Is(err, domain.ErrForbidden):
		return "❌ No access to that coin. Use /request_coin COIN to request access."
	case errors.Is(err, domain.ErrUnknownAsset):
		return "❗ Unsupported coin. Use /coin to see available coins."
	case errors.Is(err, domain.ErrNoSuchRequest):
		return "❗ No pending request for that user."
	case errors.Is(err, domain.ErrInvalidPosition):
		return "❗ Invalid alert number."
	case errors.Is(err, domain.ErrInvalidPrice):
		return "❗ Invalid price."
	case errors.Is(err, domain.ErrAlreadyExists):
		return "⚠️ That symbol is already registered."
	case errors.Is(err, domain.ErrValidationFailed):
		return "❌ CoinGecko ID not found. Please check the ID."
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "⚠️ Failed to fetch prices. Try again later."
	case errors.Is(err, domain.ErrAlreadyPending):
		return "⏳ Your request is already pending."
	case errors.Is(err, domain.ErrAlreadyApproved):
		return "✅ You already have access!"
	case errors.Is(err, domain.ErrAlreadyEntitled):
		return "✅ You already have access to that coin."
	case errors.Is(err, domain.ErrInvalidArguments):
		return "❗ Invalid arguments. Use /help for command syntax."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return "Something went wrong. Please try again."
}

const addExamples = "Examples:\n" +
	"/add BTC 100000 - alert if price goes above 100000\n" +
	"/add BTC 100000 below - alert if price drops below 100000\n"

func (h *Handlers) startText(ctx context.Context, userID string) string {
	profile := h.accessUC.Profile(ctx, userID)
	switch profile.Role {
	case usecase.RoleOwner:
		return "👋 Welcome to Coinwatch!\n\n" +
			"Use /add COIN PRICE or /add COIN PRICE below to set a price alert.\n\n" +
			addExamples + "\n" + ownerHelp + "\nUse /help to see all available commands."
	case usecase.RoleUser:
		coins := make([]string, 0, len(profile.Coins))
		for _, coin := range profile.Coins {
			coins = append(coins, strings.ToUpper(coin))
		}
		return fmt.Sprintf(
			"👋 Welcome to Coinwatch!\n\n✅ Your coins: %s\n\nUse /add COIN PRICE or /add COIN PRICE below to set a price alert.\n\n%s\nUse /help to see all available commands.",
			strings.Join(coins, ", "), addExamples,
		)
	default:
		return "👋 Welcome to Coinwatch!\n\nYou are not authorized to use this bot.\nUse /request to ask for access."
	}
}

const userHelp = "📌 User commands:\n" +
	"/add COIN PRICE [above|below] - Set a price alert\n" +
	"/list - Show your active alerts\n" +
	"/remove NUMBER - Remove an alert\n" +
	"/coin - Show available coins\n" +
	"/price COIN [COIN2 ...] - Check current price(s)\n" +
	"/request_coin COIN - Request coin access\n"

const ownerHelp = "📌 Owner commands:\n" +
	"/approve USER_ID - Approve user\n" +
	"/decline USER_ID - Decline user\n" +
	"/approve_coin USER_ID COIN - Approve coin\n" +
	"/decline_coin USER_ID COIN - Decline coin\n" +
	"/list_users - List all users\n" +
	"/new_coin SYMBOL COINGECKO_ID - Add new cryptocurrency\n"

func (h *Handlers) helpText(ctx context.Context, userID string) string {
	profile := h.accessUC.Profile(ctx, userID)
	basic := "📌 Basic commands:\n/start - Start the bot\n/help - Show this help message\n\n"

	switch profile.Role {
	case usecase.RoleOwner:
		return basic + userHelp + "\n" + ownerHelp
	case usecase.RoleUser:
		return basic + userHelp
	default:
		return basic + "❌ You are not authorized to use this bot.\nUse /request to ask for access."
	}
}

func (h *Handlers) coinOverview(ctx context.Context, userID string) string {
	profile := h.accessUC.Profile(ctx, userID)
	symbols := h.registryUC.Symbols()

	var builder strings.Builder
	switch profile.Role {
	case usecase.RoleOwner:
		builder.WriteString("📊 Owner access: you can manage all coins.\n")
		builder.WriteString("Use /add COIN PRICE [above|below] to set an alert.\n")
	case usecase.RoleUser:
		builder.WriteString("📊 Your coins:\n")
		for _, coin := range profile.Coins {
			fmt.Fprintf(&builder, "• %s (%s)\n", strings.ToUpper(coin), symbols[coin])
		}
		builder.WriteString("\nUse /request_coin COIN to request more coins.\n")
	default:
		builder.WriteString("❌ You are not authorized to use this bot.\nUse /request to ask for access.\n")
	}

	names := make([]string, 0, len(symbols))
	for symbol := range symbols {
		names = append(names, symbol)
	}
	sort.Strings(names)

	builder.WriteString("\n🌐 All available coins:\n")
	for _, symbol := range names {
		fmt.Fprintf(&builder, "• %s (%s)\n", strings.ToUpper(symbol), symbols[symbol])
	}
	return builder.String()
}

func formatUsers(root *domain.AccessRoot) string {
	var builder strings.Builder

	if len(root.Users) == 0 {
		builder.WriteString("No approved users.\n")
	} else {
		builder.WriteString("Approved users:\n\n")
		ids := make([]string, 0, len(root.Users))
		for id := range root.Users {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			user := root.Users[id]
			coins := make([]string, 0, len(user.Coins))
			for _, coin := range user.Coins {
				coins = append(coins, strings.ToUpper(coin))
			}
			fmt.Fprintf(&builder, "- %s (ID: %s)\n  Coins: %s\n", user.Username, id, strings.Join(coins, ", "))
		}
	}

	if len(root.Requests) == 0 {
		builder.WriteString("\nNo pending access requests.")
	} else {
		builder.WriteString("\nPending access requests:\n")
		for _, req := range root.Requests {
			fmt.Fprintf(&builder, "- %s (ID: %s)\n", req.Username, req.UserID)
		}
	}

	if len(root.CoinRequests) == 0 {
		builder.WriteString("\nNo pending coin requests.")
	} else {
		builder.WriteString("\nPending coin requests:\n")
		for _, req := range root.CoinRequests {
			fmt.Fprintf(&builder, "- %s (ID: %s) for %s\n", req.Username, req.UserID, strings.ToUpper(req.Coin))
		}
	}

	return builder.String()
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
