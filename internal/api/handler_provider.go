package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/coinhunter/gameserver/internal/infra/pgutils"
	"github.com/coinhunter/gameserver/internal/repos/killfeed"
	"github.com/coinhunter/gameserver/internal/repos/ledger"
	repoplayers "github.com/coinhunter/gameserver/internal/repos/players"
	"github.com/coinhunter/gameserver/internal/services/battle"
	"github.com/coinhunter/gameserver/internal/services/wallet"
)

// Service interfaces consumed by the handlers; the concrete services
// satisfy them and tests substitute stubs.
type playerService interface {
	Get(ctx context.Context, id string) (*repoplayers.Player, error)
	Register(ctx context.Context, id, wallet, name string) error
}

type battleService interface {
	Start(ctx context.Context, playerID string, monsterID int) (int64, error)
	Action(ctx context.Context, playerID string, hand []int) (*battle.Round, error)
}

type walletService interface {
	BuyCoins(ctx context.Context, playerID, reference string, amount int64) (int64, error)
	AuthorizeWithdrawal(ctx context.Context, playerID string, amount int64) (*wallet.Claim, error)
	SettleWithdrawal(ctx context.Context, playerID string, amount int64, nonce int64) (int64, error)
}

type feedService interface {
	Recent(ctx context.Context) ([]killfeed.Entry, error)
}

// HandlerProvider exposes the game operations as HTTP handlers.
type HandlerProvider struct {
	players playerService
	battles battleService
	wallet  walletService
	feed    feedService
}

func NewHandler(players playerService, battles battleService, wallet walletService, feed feedService) *HandlerProvider {
	return &HandlerProvider{
		players: players,
		battles: battles,
		wallet:  wallet,
		feed:    feed,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

// decodeBody reads a bounded JSON body into dst, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}

	return true
}

// writeServiceError maps domain errors to HTTP statuses. Everything not in
// the map is an internal error and the raw detail stays server-side.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repoplayers.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "player not found")
	case errors.Is(err, battle.ErrMonsterNotFound):
		writeError(w, http.StatusNotFound, "monster not found")
	case errors.Is(err, repoplayers.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "already registered")
	case errors.Is(err, repoplayers.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient funds")
	case errors.Is(err, ledger.ErrDuplicateReference):
		writeError(w, http.StatusConflict, "reference already processed")
	case errors.Is(err, battle.ErrBattleInProgress):
		writeError(w, http.StatusConflict, "battle already in progress")
	case errors.Is(err, battle.ErrNoActiveBattle):
		writeError(w, http.StatusConflict, "no active battle")
	case errors.Is(err, wallet.ErrWalletNotBound):
		writeError(w, http.StatusConflict, "wallet not bound")
	case errors.Is(err, battle.ErrCheatDetected):
		writeError(w, http.StatusBadRequest, "invalid hand")
	case errors.Is(err, wallet.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid amount")
	case errors.Is(err, pgutils.ErrTxConflict):
		writeError(w, http.StatusServiceUnavailable, "conflict, retry")
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// --- Handlers ---

type getPlayerRequest struct {
	UserID string `json:"userId"`
}

// GetPlayer handles POST /api/get-player.
func (h *HandlerProvider) GetPlayer(w http.ResponseWriter, r *http.Request) {
	var req getPlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	p, err := h.players.Get(r.Context(), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    newPlayerDTO(p),
	})
}

type registerRequest struct {
	UserID string `json:"userId"`
	Wallet string `json:"wallet"`
	Name   string `json:"name"`
}

// Register handles POST /api/register.
func (h *HandlerProvider) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.UserID == "" || req.Wallet == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing userId, wallet or name")
		return
	}

	err := h.players.Register(r.Context(), req.UserID, req.Wallet, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type buyCoinsRequest struct {
	UserID       string `json:"userId"`
	AmountBought int64  `json:"amountBought"`
	Reference    string `json:"reference"`
}

// BuyCoins handles POST /api/buy-coins.
func (h *HandlerProvider) BuyCoins(w http.ResponseWriter, r *http.Request) {
	var req buyCoinsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.UserID == "" || req.Reference == "" {
		writeError(w, http.StatusBadRequest, "missing userId or reference")
		return
	}

	newBalance, err := h.wallet.BuyCoins(r.Context(), req.UserID, req.Reference, req.AmountBought)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("purchase credited",
		"player", req.UserID, "amount", req.AmountBought, "reference", req.Reference)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "newBalance": newBalance})
}

type battleStartRequest struct {
	UserID    string `json:"userId"`
	MonsterID int    `json:"monsterId"`
}

// BattleStart handles POST /api/battle-start.
func (h *HandlerProvider) BattleStart(w http.ResponseWriter, r *http.Request) {
	var req battleStartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.UserID == "" || req.MonsterID == 0 {
		writeError(w, http.StatusBadRequest, "missing userId or monsterId")
		return
	}

	newBalance, err := h.battles.Start(r.Context(), req.UserID, req.MonsterID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "newBalance": newBalance})
}

type battleActionRequest struct {
	UserID     string `json:"userId"`
	PlayerDeck []int  `json:"playerDeck"`
}

// BattleAction handles POST /api/battle-action.
func (h *HandlerProvider) BattleAction(w http.ResponseWriter, r *http.Request) {
	var req battleActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.UserID == "" || len(req.PlayerDeck) == 0 {
		writeError(w, http.StatusBadRequest, "missing userId or playerDeck")
		return
	}

	round, err := h.battles.Action(r.Context(), req.UserID, req.PlayerDeck)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    newRoundDTO(round),
	})
}

type withdrawRequest struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`
}

// WithdrawAuthorize handles POST /api/withdraw. Read-only: it issues the
// claim but debits nothing.
func (h *HandlerProvider) WithdrawAuthorize(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	claim, err := h.wallet.AuthorizeWithdrawal(r.Context(), req.UserID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"claimData": claimDTO{
			Amount:       claim.AmountWei,
			Nonce:        claim.Nonce,
			Signature:    claim.Signature,
			VaultAddress: claim.VaultAddress,
		},
	})
}

type withdrawSettleRequest struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`

	// Nonce is the numeric value the authorize step issued in claimData.
	Nonce int64 `json:"nonce"`
}

// WithdrawSettle handles POST /api/withdraw-success.
func (h *HandlerProvider) WithdrawSettle(w http.ResponseWriter, r *http.Request) {
	var req withdrawSettleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.UserID == "" || req.Nonce == 0 {
		writeError(w, http.StatusBadRequest, "missing userId or nonce")
		return
	}

	newBalance, err := h.wallet.SettleWithdrawal(r.Context(), req.UserID, req.Amount, req.Nonce)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("withdrawal settled",
		"player", req.UserID, "amount", req.Amount, "nonce", req.Nonce)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "newBalance": newBalance})
}

// KillFeed handles GET /api/kill-feed.
func (h *HandlerProvider) KillFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := h.feed.Recent(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	feed := make([]feedEntryDTO, 0, len(entries))
	for _, e := range entries {
		feed = append(feed, feedEntryDTO{
			PlayerName:  e.PlayerName,
			Level:       e.Level,
			MonsterName: e.MonsterName,
			Reward:      e.Reward,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": feed})
}
