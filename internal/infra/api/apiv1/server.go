// File: internal/infra/api/apiv1/server.go
package apiv1

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"umrah-booking-platform/internal/domain"
	"umrah-booking-platform/internal/domain/model"
	"umrah-booking-platform/internal/infra/api"
	"umrah-booking-platform/internal/infra/logging"
	"umrah-booking-platform/internal/infra/metrics"
	red "umrah-booking-platform/internal/infra/redis"
	"umrah-booking-platform/internal/infra/security"
	"umrah-booking-platform/internal/usecase"
)

// RateLimiter is the narrow slice of the Redis limiter the server needs.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

const (
	verifyRateLimit  = 10
	verifyRateWindow = time.Minute
)

// Server exposes the booking and payment API over chi.
type Server struct {
	verifyUC   usecase.VerificationUseCase
	checkoutUC usecase.CheckoutUseCase
	bookingUC  usecase.BookingUseCase
	statsUC    usecase.StatsUseCase
	auth       *AuthManager
	webhook    *security.WebhookVerifier
	limiter    RateLimiter // nil disables rate limiting
	log        *zerolog.Logger
}

func NewServer(
	verifyUC usecase.VerificationUseCase,
	checkoutUC usecase.CheckoutUseCase,
	bookingUC usecase.BookingUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	webhook *security.WebhookVerifier,
	limiter RateLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		verifyUC:   verifyUC,
		checkoutUC: checkoutUC,
		bookingUC:  bookingUC,
		statsUC:    statsUC,
		auth:       auth,
		webhook:    webhook,
		limiter:    limiter,
		log:        logger,
	}
}

// Routes builds the router with the ambient middleware stack applied.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(api.TraceID(s.log), api.RequestLog(s.log), api.Recover(s.log), api.CORS())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// The webhook authenticates by signature, not session.
		r.Post("/payments/webhook", s.handleWebhook)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireAuth)
			r.Post("/payments/verify", s.handleVerify)
			r.Post("/payments/checkout", s.handleCheckout)

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", s.handleBookingCreate)
				r.Get("/", s.handleBookingList)
				r.Get("/{id}", s.handleBookingGet)
				r.Post("/{id}/cancel", s.handleBookingCancel)
			})

			r.Get("/stats", s.handleStats)
		})
	})
	return r
}

// ---------------- payments ----------------

type verifyRequest struct {
	Reference string `json:"reference"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	caller := identityFrom(ctx)

	if s.limiter != nil && !caller.Internal {
		if ok, err := s.limiter.Allow(ctx, red.VerifyKey(caller.UserID), verifyRateLimit, verifyRateWindow); err == nil && !ok {
			writeError(w, http.StatusTooManyRequests, "Too many verification attempts")
			return
		}
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reference == "" {
		metrics.IncVerifyRequest("fail", "bad_json")
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "failed", "message": "reference is required"})
		return
	}

	res, err := s.verifyUC.VerifyAndConfirm(ctx, caller, req.Reference, model.SourceAPI)
	s.writeVerifyOutcome(ctx, w, res, err, start)
}

// writeVerifyOutcome maps verification sentinels onto the wire contract.
// Amount mismatch deliberately gets its own status code so frontends can
// distinguish "pay the difference" from "payment never happened".
func (s *Server) writeVerifyOutcome(ctx context.Context, w http.ResponseWriter, res *usecase.VerifyResult, err error, start time.Time) {
	l := logging.With(ctx, s.log)
	switch {
	case err == nil:
		metrics.IncVerifyRequest("ok", "")
		metrics.ObserveVerifyDuration("ok", time.Since(start).Seconds())
		metrics.IncPayment("verified")
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, domain.ErrGatewayDeclined):
		metrics.IncVerifyRequest("fail", "gateway_declined")
		metrics.ObserveVerifyDuration("fail", time.Since(start).Seconds())
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "failed", "message": "Payment was not successful"})
	case errors.Is(err, domain.ErrAmountMismatch):
		metrics.IncVerifyRequest("fail", "amount_mismatch")
		metrics.ObserveVerifyDuration("fail", time.Since(start).Seconds())
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"status": "failed", "message": "Payment amount does not match booking price"})
	case errors.Is(err, domain.ErrAccessDenied):
		metrics.IncVerifyRequest("fail", "access_denied")
		metrics.ObserveVerifyDuration("fail", time.Since(start).Seconds())
		writeError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, domain.ErrInvalidArgument):
		metrics.IncVerifyRequest("fail", "bad_request")
		metrics.ObserveVerifyDuration("fail", time.Since(start).Seconds())
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "failed", "message": "invalid request"})
	default:
		// Missing metadata, unknown booking, storage faults. The client can
		// not fix these; support has to look at the reference.
		l.Error().Err(err).Msg("verification failed")
		metrics.IncVerifyRequest("fail", "internal")
		metrics.ObserveVerifyDuration("fail", time.Since(start).Seconds())
		writeError(w, http.StatusInternalServerError, "Verification failed")
	}
}

// webhookEvent is the envelope Paystack posts. Only charge.success carries a
// settlement we act on.
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logging.With(ctx, s.log)

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if s.webhook == nil || !s.webhook.Verify(body, r.Header.Get("x-paystack-signature")) {
		l.Warn().Msg("webhook with missing or invalid signature")
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if ev.Event != "charge.success" || ev.Data.Reference == "" {
		// Acknowledge everything else so the gateway stops retrying.
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	_, err = s.verifyUC.VerifyAndConfirm(ctx, usecase.InternalCaller, ev.Data.Reference, model.SourceWebhook)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
	case errors.Is(err, domain.ErrGatewayDeclined), errors.Is(err, domain.ErrAmountMismatch):
		// Terminal for this delivery; retrying the webhook will not change it.
		l.Warn().Err(err).Str("reference", ev.Data.Reference).Msg("webhook settlement rejected")
		writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
	default:
		// Transient (storage, lookup). Non-2xx makes the gateway redeliver.
		l.Error().Err(err).Str("reference", ev.Data.Reference).Msg("webhook processing failed")
		writeError(w, http.StatusInternalServerError, "processing failed")
	}
}

type checkoutRequest struct {
	BookingID string `json:"booking_id"`
}

type checkoutResponse struct {
	PaymentID        string `json:"payment_id"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == "" {
		writeError(w, http.StatusBadRequest, "booking_id is required")
		return
	}

	payment, authURL, err := s.checkoutUC.Start(ctx, identityFrom(ctx), req.BookingID)
	if err != nil {
		s.writeDomainError(ctx, w, err, "checkout failed")
		return
	}
	metrics.IncPayment("pending")
	writeJSON(w, http.StatusCreated, checkoutResponse{
		PaymentID:        payment.ID,
		Reference:        payment.Reference,
		AuthorizationURL: authURL,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
	})
}

// ---------------- bookings ----------------

type bookingCreateRequest struct {
	PackageID string  `json:"package_id"`
	AgentID   *string `json:"agent_id,omitempty"`
	Pilgrims  int     `json:"pilgrims"`
}

type bookingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PackageID string    `json:"package_id"`
	AgentID   *string   `json:"agent_id,omitempty"`
	Pilgrims  int       `json:"pilgrims"`
	Total     int64     `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		PackageID: b.PackageID,
		AgentID:   b.AgentID,
		Pilgrims:  b.Pilgrims,
		Total:     b.Total,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func (s *Server) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req bookingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PackageID == "" {
		writeError(w, http.StatusBadRequest, "package_id is required")
		return
	}
	if req.Pilgrims <= 0 {
		req.Pilgrims = 1
	}

	booking, err := s.bookingUC.Create(ctx, identityFrom(ctx), req.PackageID, req.AgentID, req.Pilgrims)
	if err != nil {
		s.writeDomainError(ctx, w, err, "create booking failed")
		return
	}
	metrics.IncBooking("created")
	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (s *Server) handleBookingList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookings, err := s.bookingUC.ListMine(ctx, identityFrom(ctx))
	if err != nil {
		s.writeDomainError(ctx, w, err, "list bookings failed")
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (s *Server) handleBookingGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	booking, err := s.bookingUC.Get(ctx, identityFrom(ctx), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(ctx, w, err, "get booking failed")
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *Server) handleBookingCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.bookingUC.Cancel(ctx, identityFrom(ctx), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(ctx, w, err, "cancel booking failed")
		return
	}
	metrics.IncBooking("cancelled")
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// ---------------- stats ----------------

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := identityFrom(ctx)
	if !caller.Internal && caller.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	week, month, year, err := s.statsUC.Revenue(ctx)
	if err != nil {
		s.writeDomainError(ctx, w, err, "stats failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"revenue": map[string]int64{"week": week, "month": month, "year": year},
	})
}

// ---------------- shared helpers ----------------

func (s *Server) writeDomainError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	l := logging.With(ctx, s.log)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, domain.ErrBookingNotPending):
		writeError(w, http.StatusConflict, "Booking is not pending")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		l.Error().Err(err).Msg(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
