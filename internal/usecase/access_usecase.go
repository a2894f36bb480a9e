package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/ndedov/coinwatch/internal/repo"
	"go.uber.org/zap"
)

type Role int

const (
	RoleStranger Role = iota
	RoleUser
	RoleOwner
)

// Profile is the caller's standing, used by the transport for greeting and
// help rendering.
type Profile struct {
	Role  Role
	Coins []string
}

// AccessUsecase drives the request → approve/decline workflow for both
// account access and per-coin entitlements. State changes commit first; the
// resulting notification is best-effort afterwards.
type AccessUsecase struct {
	access      *repo.AccessRepo
	registry    *RegistryUsecase
	notifier    domain.Notifier
	defaultCoin string
	logger      *zap.Logger
}

func NewAccessUsecase(access *repo.AccessRepo, registry *RegistryUsecase, notifier domain.Notifier, defaultCoin string, logger *zap.Logger) *AccessUsecase {
	return &AccessUsecase{
		access:      access,
		registry:    registry,
		notifier:    notifier,
		defaultCoin: strings.ToLower(defaultCoin),
		logger:      logger,
	}
}

func (u *AccessUsecase) Profile(ctx context.Context, userID string) Profile {
	root := u.access.View(ctx)
	if root.IsOwner(userID) {
		return Profile{Role: RoleOwner}
	}
	if user, ok := root.Users[userID]; ok {
		return Profile{Role: RoleUser, Coins: append([]string(nil), user.Coins...)}
	}
	return Profile{Role: RoleStranger}
}

// RequestAccess appends a pending account request. Duplicate requests are
// idempotent no-ops reported as ErrAlreadyPending / ErrAlreadyApproved.
func (u *AccessUsecase) RequestAccess(ctx context.Context, userID, username string) error {
	var ownerID string
	var pending int
	err := u.access.Update(ctx, func(root *domain.AccessRoot) (bool, error) {
		if root.IsOwner(userID) || root.HasUser(userID) {
			return false, domain.ErrAlreadyApproved
		}
		if root.FindRequest(userID) >= 0 {
			return false, domain.ErrAlreadyPending
		}
		root.Requests = append(root.Requests, domain.AccessRequest{
			UserID:    userID,
			Username:  username,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		ownerID = root.Owner
		pending = len(root.Requests)
		return true, nil
	})
	if err != nil {
		return err
	}

	u.notify(ownerID, fmt.Sprintf(
		"🆕 Access request\n\nUser: %s\nID: %s\nPending requests: %d\n\nUse /approve %s or /decline %s",
		username, userID, pending, userID, userID,
	))
	return nil
}

// Approve turns a pending request into a user seeded with the default coin.
func (u *AccessUsecase) Approve(ctx context.Context, callerID, targetID string) error {
	err := u.access.Update(ctx, func(root *domain.AccessRoot) (bool, error) {
		if !root.IsOwner(callerID) {
			return false, domain.ErrNotAuthorized
		}
		idx := root.FindRequest(targetID)
		if idx < 0 {
			return false, domain.ErrNoSuchRequest
		}
		root.Users[targetID] = &domain.User{
			Username: root.Requests[idx].Username,
			Coins:    []string{u.defaultCoin},
		}
		root.Requests = append(root.Requests[:idx], root.Requests[idx+1:]...)
		return true, nil
	})
	if err != nil {
		return err
	}

	u.notify(targetID, fmt.Sprintf(
		"🎉 Your access has been approved!\n\nYou can now set alerts for %s.\nUse /add COIN PRICE or /add COIN PRICE below to set a price alert.\nUse /request_coin COIN to request more coins.\nUse /help to see all available commands.",
		strings.ToUpper(u.defaultCoin),
	))
	return nil
}

func (u *AccessUsecase) Decline(ctx context.Context, callerID, targetID string) error {
	err := u.access.Update(ctx, func(root *domain.AccessRoot) (bool, error) {
		if !root.IsOwner(callerID) {
			return false, domain.ErrNotAuthorized
		}
		idx := root.FindRequest(targetID)
		if idx < 0 {
			return false, domain.ErrNoSuchRequest
		}
		root.Requests = append(root.Requests[:idx], root.Requests[idx+1:]...)
		return true, nil
	})
	if err != nil {
		return err
	}

	u.notify(targetID, "⚠️ Your access request has been declined.")
	return nil
}

// RequestCoin appends a pending per-coin request for an approved user.
func (u *AccessUsecase) RequestCoin(ctx context.Context, userID, username, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if _, ok := u.registry.Resolve(symbol); !ok {
		return domain.ErrUnknownAsset
	}

	var ownerID string
	err := u.access.Update(ctx, func(root *domain.AccessRoot) (bool, error) {
		if !root.HasUser(userID) {
			return false, domain.ErrNotAuthorized
		}
		if root.Entitled(userID, symbol) {
			return false, domain.ErrAlreadyEntitled
		}
		if root.FindCoinRequest(userID, symbol) >= 0 {
			return false, domain.ErrAlreadyPending
		}
		root.CoinRequests = append(root.CoinRequests, domain.CoinAccessRequest{
			UserID:    userID,
			Coin:      symbol,
			Username:  username,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		ownerID = root.Owner
		return true, nil
	})
	if err != nil {
		return err
	}

	u.notify(ownerID, fmt.Sprintf(
		"🆕 Coin access request\n\nUser: %s\nID: %s\nCoin: %s\n\nUse /approve_coin %s %s or /decline_coin %s %s",
		username, userID, strings.ToUpper(symbol), userID, symbol, userID, symbol,
	))
	return nil
}

// ApproveCoin grants the symbol to the user, without duplicate entries.
func (u *AccessUsecase) ApproveCoin(ctx context.Context, callerID, targetID, symbol string) error {
	symbol = normalizeSymbol(symbol)
	if _, ok := u.registry.Resolve(symbol); !ok {
		return domain.ErrUnknownAsset
	}

	err := u.access.Update(ctx, func(root *domain.AccessRoot) (bool, error) {
		if !root.IsOwner(callerID) {
			return false, domain.ErrNotAuthorized
		}
		idx := root.FindCoinRequest(targetID, symbol)
		if idx < 0 {
			return false, domain.ErrNoSuchRequest
		}
		user, ok := root.Users[targetID]
		if !ok {
			user = &domain.User{Username: root.CoinRequests[idx].Username}
			root.Users[targetID] = user
		}
		if !root.Entitled(targetID, symbol) {
			user.Coins = append(user.Coins, symbol)
		}
		root.CoinRequests = append(root.CoinRequests[:idx], root.CoinRequests[idx+1:]...)
		return true, nil
	})
	if err != nil {
		return err
	}

	u.notify(targetID, fmt.Sprintf("🎉 You now have access to %s!", strings.ToUpper(symbol)))
	return nil
}

func (u *AccessUsecase) DeclineCoin(ctx context.Context, callerID, targetID, symbol string) error {
	symbol = normalizeSymbol(symbol)
	err := u.access.Update(ctx, func(root *domain.AccessRoot) (bool, error) {
		if !root.IsOwner(callerID) {
			return false, domain.ErrNotAuthorized
		}
		idx := root.FindCoinRequest(targetID, symbol)
		if idx < 0 {
			return false, domain.ErrNoSuchRequest
		}
		root.CoinRequests = append(root.CoinRequests[:idx], root.CoinRequests[idx+1:]...)
		return true, nil
	})
	if err != nil {
		return err
	}

	u.notify(targetID, fmt.Sprintf("⚠️ Your request for %s was declined.", strings.ToUpper(symbol)))
	return nil
}

// ListUsers returns a snapshot of approved users and both pending queues.
func (u *AccessUsecase) ListUsers(ctx context.Context, callerID string) (*domain.AccessRoot, error) {
	root := u.access.View(ctx)
	if !root.IsOwner(callerID) {
		return nil, domain.ErrNotAuthorized
	}
	return root, nil
}

func (u *AccessUsecase) notify(userID, text string) {
	if err := u.notifier.Notify(userID, text); err != nil {
		u.logger.Warn("failed to deliver notification", zap.String("user_id", userID), zap.Error(err))
	}
}
