// Package handler содержит HTTP-обработчики API сервиса вовлечённости.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bhutanwine/engagement-system/internal/config"
	"github.com/bhutanwine/engagement-system/internal/discount"
	"github.com/bhutanwine/engagement-system/internal/middleware"
	"github.com/bhutanwine/engagement-system/internal/model"
	"github.com/bhutanwine/engagement-system/internal/repository"
	"github.com/bhutanwine/engagement-system/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterCustomer(ctx context.Context, name, email string) (string, error)
	InitializeEngagement(ctx context.Context, customerID string) (*service.EngagementState, error)
	RecordGoogleReview(ctx context.Context, customerID string) (*service.EngagementState, error)
	RecordInstagramFollow(ctx context.Context, customerID string) (*service.EngagementState, error)
	SearchCustomers(ctx context.Context, term string, field model.SearchField) ([]model.CustomerEngagement, error)
	RedeemDiscount(ctx context.Context, customerID string) error
	ExportCSV(ctx context.Context, start, end *time.Time) (*service.Export, error)
	ExportAllCSV(ctx context.Context) (*service.Export, error)
}

// Handler реализует HTTP-обработчики API сервиса вовлечённости.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	cfg            *config.Config
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, cfg *config.Config) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		cfg:            cfg,
	}
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registerResponse struct {
	ID string `json:"id"`
}

// RegisterCustomer принимает контактные данные посетителя и создаёт клиента.
func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	id, err := h.service.RegisterCustomer(r.Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidName) || errors.Is(err, service.ErrInvalidEmail) {
			http.Error(w, "Please fill in all fields correctly.", http.StatusBadRequest)
			return
		}
		h.logger.Error("register customer error", zap.Error(err))
		http.Error(w, "There was an error submitting your information. Please try again.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(registerResponse{ID: id}); err != nil {
		h.logger.Error("encode register response", zap.Error(err))
	}
}

type engagementResponse struct {
	GoogleReviewed    bool   `json:"google_reviewed"`
	InstagramFollowed bool   `json:"instagram_followed"`
	Discount          int    `json:"discount"`
	Completed         bool   `json:"completed"`
	JustCompleted     bool   `json:"just_completed,omitempty"`
	Reveal            []int  `json:"reveal,omitempty"`
	GoogleReviewURL   string `json:"google_review_url,omitempty"`
	InstagramURL      string `json:"instagram_url,omitempty"`
}

func (h *Handler) engagementJSON(w http.ResponseWriter, state *service.EngagementState, shown int, withLinks bool) {
	resp := engagementResponse{
		GoogleReviewed:    state.GoogleReviewed,
		InstagramFollowed: state.InstagramFollowed,
		Discount:          state.Discount,
		Completed:         state.Completed,
		JustCompleted:     state.JustCompleted,
		Reveal:            discount.RevealSteps(shown, state.Discount),
	}
	if withLinks {
		resp.GoogleReviewURL = h.cfg.GoogleReviewURL
		resp.InstagramURL = h.cfg.InstagramURL
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode engagement response", zap.Error(err))
	}
}

// GetEngagement возвращает состояние вовлечённости клиента, создавая запись при первом визите.
func (h *Handler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	state, err := h.service.InitializeEngagement(r.Context(), customerID)
	if err != nil {
		h.logger.Error("initialize engagement error", zap.Error(err), zap.String("customerID", customerID))
		http.Error(w, "Failed to load your discount status. Please try again.", http.StatusInternalServerError)
		return
	}

	shown := 0
	if v := r.URL.Query().Get("shown"); v != "" {
		if parsed, parseErr := strconv.Atoi(v); parseErr == nil && parsed > 0 {
			shown = parsed
		}
	}

	h.engagementJSON(w, state, shown, true)
}

// RecordGoogleReview отмечает, что клиент оставил отзыв в Google.
func (h *Handler) RecordGoogleReview(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.service.RecordGoogleReview, "record google review error")
}

// RecordInstagramFollow отмечает, что клиент подписался на Instagram.
func (h *Handler) RecordInstagramFollow(w http.ResponseWriter, r *http.Request) {
	h.recordAction(w, r, h.service.RecordInstagramFollow, "record instagram follow error")
}

func (h *Handler) recordAction(
	w http.ResponseWriter,
	r *http.Request,
	record func(context.Context, string) (*service.EngagementState, error),
	logMsg string,
) {
	customerID := chi.URLParam(r, "customerID")

	state, err := record(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, repository.ErrEngagementNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error(logMsg, zap.Error(err), zap.String("customerID", customerID))
		http.Error(w, "Failed to update your discount status. Please try again.", http.StatusInternalServerError)
		return
	}

	// Счётчик анимируется от значения до этого действия к новому итогу.
	h.engagementJSON(w, state, state.Discount-discount.PerAction, false)
}

type loginRequest struct {
	Password string `json:"password"`
}

// AdminLogin проверяет пароль администратора и устанавливает cookie сессии.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if h.cfg.AdminPassword == "" || req.Password != h.cfg.AdminPassword {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.authMiddleware.SetAuthCookie(w)
	w.WriteHeader(http.StatusOK)
}

// AdminLogout завершает сессию администратора.
func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.authMiddleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusOK)
}

type customerResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	CreatedAt         string `json:"created_at"`
	GoogleReviewed    bool   `json:"google_reviewed"`
	InstagramFollowed bool   `json:"instagram_followed"`
	DiscountRedeemed  bool   `json:"discount_redeemed"`
	Discount          int    `json:"discount"`
}

// SearchCustomers ищет клиентов по имени или email для панели администратора.
func (h *Handler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		http.Error(w, "Search term is required.", http.StatusBadRequest)
		return
	}

	field := model.SearchField(r.URL.Query().Get("field"))
	if field == "" {
		field = model.SearchByName
	}

	matches, err := h.service.SearchCustomers(r.Context(), term, field)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSearchField) {
			http.Error(w, "Search field must be name or email.", http.StatusBadRequest)
			return
		}
		h.logger.Error("search customers error", zap.Error(err), zap.String("field", string(field)))
		http.Error(w, "An error occurred while searching. Please try again.", http.StatusInternalServerError)
		return
	}

	if len(matches) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]customerResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, customerResponse{
			ID:                m.Customer.ID,
			Name:              m.Customer.Name,
			Email:             m.Customer.Email,
			CreatedAt:         m.Customer.CreatedAt.Format(time.RFC3339),
			GoogleReviewed:    m.Engagement.GoogleReviewed,
			InstagramFollowed: m.Engagement.InstagramFollowed,
			DiscountRedeemed:  m.Engagement.DiscountRedeemed,
			Discount:          discount.Total(m.Engagement.GoogleReviewed, m.Engagement.InstagramFollowed),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

// RedeemDiscount отмечает скидку клиента использованной.
func (h *Handler) RedeemDiscount(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	if err := h.service.RedeemDiscount(r.Context(), customerID); err != nil {
		if errors.Is(err, repository.ErrEngagementNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("redeem discount error", zap.Error(err), zap.String("customerID", customerID))
		http.Error(w, "Failed to redeem discount. Please try again.", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ExportCSV выгружает клиентов за указанный интервал дат в CSV.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateParam(r, "start")
	if err != nil {
		http.Error(w, "Start date must be in YYYY-MM-DD format.", http.StatusBadRequest)
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		http.Error(w, "End date must be in YYYY-MM-DD format.", http.StatusBadRequest)
		return
	}

	res, err := h.service.ExportCSV(r.Context(), start, end)
	h.writeExport(w, res, err)
}

// ExportAllCSV выгружает всех клиентов без фильтрации по датам.
func (h *Handler) ExportAllCSV(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ExportAllCSV(r.Context())
	h.writeExport(w, res, err)
}

func (h *Handler) writeExport(w http.ResponseWriter, res *service.Export, err error) {
	if err != nil {
		if errors.Is(err, service.ErrNoCustomers) {
			http.Error(w, "No customers found matching the date criteria.", http.StatusNotFound)
			return
		}
		h.logger.Error("export csv error", zap.Error(err))
		http.Error(w, "Failed to export CSV. Please try again.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	if _, err := w.Write(res.Data); err != nil {
		h.logger.Error("write export response", zap.Error(err))
	}
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
