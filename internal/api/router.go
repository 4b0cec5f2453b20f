package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/gigpay/wallet-service/internal/api/httpx"
	"github.com/gigpay/wallet-service/internal/api/validate"
	"github.com/gigpay/wallet-service/internal/auth"
	"github.com/gigpay/wallet-service/internal/config"
	"github.com/gigpay/wallet-service/internal/metrics"
	"github.com/gigpay/wallet-service/internal/middleware"
	"github.com/gigpay/wallet-service/internal/models"
	repo "github.com/gigpay/wallet-service/internal/repository"
	"github.com/gigpay/wallet-service/internal/services"
	"github.com/shopspring/decimal"
)

type Deps struct {
	Cfg       config.Config
	TM        *auth.TokenManager
	UserSvc   *services.UserService
	WalletSvc *services.WalletService
	LedgerSvc *services.LedgerService
	PayoutSvc *services.PayoutService
}

// writeServiceErr maps domain errors to HTTP responses; anything unknown is a 500.
func writeServiceErr(w http.ResponseWriter, err error) {
	var ib *services.InsufficientBalanceError
	var ve validate.Errs
	switch {
	case errors.As(err, &ve):
		httpx.WriteError(w, http.StatusBadRequest, "validation", "invalid request", ve)
	case errors.As(err, &ib):
		httpx.WriteError(w, http.StatusBadRequest, "insufficient_balance", ib.Error(), map[string]string{
			"balance":   ib.Balance.String(),
			"requested": ib.Requested.String(),
		})
	case errors.Is(err, services.ErrInsufficientBalance):
		httpx.WriteError(w, http.StatusBadRequest, "insufficient_balance", err.Error(), nil)
	case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrInvalidStatus):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	case errors.Is(err, services.ErrPayoutFinalized):
		httpx.WriteError(w, http.StatusConflict, "payout_finalized", err.Error(), nil)
	case errors.Is(err, repo.ErrUserNotFound),
		errors.Is(err, repo.ErrCandidateNotFound),
		errors.Is(err, repo.ErrWalletNotFound),
		errors.Is(err, repo.ErrPayoutNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	am := middleware.NewAuthMiddleware(d.TM)

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- auth ----------
		r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Username string `json:"username"`
				Email    string `json:"email"`
				Password string `json:"password"`
				FullName string `json:"full_name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
				return
			}
			u, err := d.UserSvc.Register(r.Context(), req.Username, req.Email, req.Password, req.FullName)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusCreated, u)
		})

		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
				return
			}
			u, err := d.UserSvc.Authenticate(r.Context(), req.Email, req.Password)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
				return
			}
			access, refresh, exp, err := d.TM.GeneratePair(u.ID, u.Role)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed", nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, tokenResp{
				AccessToken:  access,
				RefreshToken: refresh,
				ExpiresIn:    int64(time.Until(exp).Seconds()),
			})
		})

		r.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				RefreshToken string `json:"refresh_token"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
				return
			}
			claims, isRefresh, err := d.TM.ParseAny(req.RefreshToken)
			if err != nil || !isRefresh {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
				return
			}
			access, refresh, exp, err := d.TM.GeneratePair(claims.UserID, claims.Role)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed", nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, tokenResp{
				AccessToken:  access,
				RefreshToken: refresh,
				ExpiresIn:    int64(time.Until(exp).Seconds()),
			})
		})

		// ---------- payments ----------
		r.Route("/payments", func(r chi.Router) {
			r.Use(am.Auth)

			// candidate wallet with recent history
			r.With(middleware.RequireRole(models.RoleCandidate)).
				Get("/wallet", func(w http.ResponseWriter, r *http.Request) {
					uid, _ := middleware.UserID(r.Context())
					cand, err := d.UserSvc.CandidateForUser(r.Context(), uid)
					if err != nil {
						writeServiceErr(w, err)
						return
					}
					wallet, err := d.WalletSvc.GetOrCreateWallet(r.Context(), cand.ID)
					if err != nil {
						writeServiceErr(w, err)
						return
					}
					httpx.WriteJSON(w, http.StatusOK, wallet)
				})

			// record a ledger transaction (work completion credits, manual
			// bonuses/deductions)
			r.With(middleware.RequireRole(models.RoleAdmin, models.RoleOperations)).
				Post("/transactions", func(w http.ResponseWriter, r *http.Request) {
					var req struct {
						CandidateID string          `json:"candidate_id"`
						Type        string          `json:"type"`
						Amount      decimal.Decimal `json:"amount"`
						Description string          `json:"description"`
						Metadata    map[string]any  `json:"metadata"`
					}
					if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
						httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
						return
					}
					var ve validate.Errs
					for _, e := range []*validate.ErrField{
						validate.Required("candidate_id", req.CandidateID),
						validate.OneOf("type", req.Type,
							string(models.TxnEarning), string(models.TxnBonus), string(models.TxnRefund),
							string(models.TxnPayout), string(models.TxnDeduction)),
						validate.Positive("amount", req.Amount),
					} {
						if e != nil {
							ve = append(ve, *e)
						}
					}
					if len(ve) > 0 {
						writeServiceErr(w, ve)
						return
					}
					txn, err := d.LedgerSvc.RecordTransaction(r.Context(), req.CandidateID,
						models.TransactionType(req.Type), req.Amount, req.Description, req.Metadata)
					if err != nil {
						writeServiceErr(w, err)
						return
					}
					httpx.WriteJSON(w, http.StatusCreated, txn)
				})

			// candidate payout request
			r.With(middleware.RequireRole(models.RoleCandidate)).
				Post("/payout/request", func(w http.ResponseWriter, r *http.Request) {
					var req struct {
						Amount         decimal.Decimal `json:"amount"`
						PaymentMethod  string          `json:"payment_method"`
						PaymentDetails map[string]any  `json:"payment_details"`
					}
					if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
						httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
						return
					}
					var ve validate.Errs
					for _, e := range []*validate.ErrField{
						validate.Positive("amount", req.Amount),
						validate.Required("payment_method", req.PaymentMethod),
					} {
						if e != nil {
							ve = append(ve, *e)
						}
					}
					if len(ve) > 0 {
						writeServiceErr(w, ve)
						return
					}
					uid, _ := middleware.UserID(r.Context())
					cand, err := d.UserSvc.CandidateForUser(r.Context(), uid)
					if err != nil {
						writeServiceErr(w, err)
						return
					}
					p, err := d.PayoutSvc.RequestPayout(r.Context(), cand.ID, req.Amount, req.PaymentMethod, req.PaymentDetails)
					if err != nil {
						writeServiceErr(w, err)
						return
					}
					httpx.WriteJSON(w, http.StatusCreated, p)
				})

			// admin payout listing, optional ?status=
			r.With(middleware.RequireRole(models.RoleAdmin, models.RoleOperations)).
				Get("/payouts", func(w http.ResponseWriter, r *http.Request) {
					var status *models.PayoutStatus
					if v := r.URL.Query().Get("status"); v != "" {
						if e := validate.OneOf("status", v,
							string(models.PayoutPending), string(models.PayoutCompleted), string(models.PayoutFailed)); e != nil {
							writeServiceErr(w, validate.Errs{*e})
							return
						}
						s := models.PayoutStatus(v)
						status = &s
					}
					out, err := d.PayoutSvc.ListPayouts(r.Context(), status)
					if err != nil {
						writeServiceErr(w, err)
						return
					}
					httpx.WriteJSON(w, http.StatusOK, out)
				})

			// admin payout resolution (terminal transition only)
			r.With(middleware.RequireRole(models.RoleAdmin, models.RoleOperations)).
				Patch("/payout/{id}", func(w http.ResponseWriter, r *http.Request) {
					id := chi.URLParam(r, "id")
					var req struct {
						Status           string `json:"status"`
						FailureReason    string `json:"failure_reason"`
						PaymentGatewayID string `json:"payment_gateway_id"`
					}
					if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
						httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body", nil)
						return
					}
					p, err := d.PayoutSvc.ResolvePayout(r.Context(), id,
						models.PayoutStatus(req.Status), req.FailureReason, req.PaymentGatewayID)
					if err != nil {
						writeServiceErr(w, err)
						return
					}
					httpx.WriteJSON(w, http.StatusOK, p)
				})
		})
	})

	return r
}
