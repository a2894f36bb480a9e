package domain

// User is an approved account holder and the coin symbols they may track.
type User struct {
	Username string   `json:"username"`
	Coins    []string `json:"coins"`
}

// AccessRequest is a pending account-access request awaiting the owner.
type AccessRequest struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// CoinAccessRequest is a pending per-coin entitlement request, keyed by
// (user, coin). A user may have several outstanding requests for different
// coins at once.
type CoinAccessRequest struct {
	UserID    string `json:"user_id"`
	Coin      string `json:"coin"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// AccessRoot is the full persisted entitlement state. It is always loaded and
// saved as one document.
type AccessRoot struct {
	Owner        string              `json:"owner"`
	Users        map[string]*User    `json:"users"`
	Requests     []AccessRequest     `json:"requests"`
	CoinRequests []CoinAccessRequest `json:"coin_requests"`
}

func (r *AccessRoot) IsOwner(userID string) bool {
	return userID == r.Owner
}

func (r *AccessRoot) HasUser(userID string) bool {
	_, ok := r.Users[userID]
	return ok
}

// Entitled reports whether userID may track symbol. The owner is entitled to
// everything.
func (r *AccessRoot) Entitled(userID, symbol string) bool {
	if r.IsOwner(userID) {
		return true
	}
	user, ok := r.Users[userID]
	if !ok {
		return false
	}
	for _, coin := range user.Coins {
		if coin == symbol {
			return true
		}
	}
	return false
}

// FindRequest returns the index of the pending account request for userID, or
// -1 when none exists.
func (r *AccessRoot) FindRequest(userID string) int {
	for i, req := range r.Requests {
		if req.UserID == userID {
			return i
		}
	}
	return -1
}

// FindCoinRequest returns the index of the pending coin request for
// (userID, coin), or -1 when none exists.
func (r *AccessRoot) FindCoinRequest(userID, coin string) int {
	for i, req := range r.CoinRequests {
		if req.UserID == userID && req.Coin == coin {
			return i
		}
	}
	return -1
}
