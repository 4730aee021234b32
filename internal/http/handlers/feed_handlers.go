package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/circlehq/circles-api/internal/domain"
	custommw "github.com/circlehq/circles-api/internal/http/middleware"
	"github.com/circlehq/circles-api/internal/http/response"
)

// CreatePost handles POST /v1/posts
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CircleID string   `json:"circle_id"`
		Content  string   `json:"content"`
		Lane     string   `json:"lane"`
		Kind     string   `json:"kind"`
		MediaURL string   `json:"media_url"`
		Tags     []string `json:"tags"`
		TTLHours int      `json:"ttl_hours"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Lane == "" {
		req.Lane = string(domain.LaneHelp)
	}
	if req.Kind == "" {
		req.Kind = string(domain.KindSignal)
	}

	post, err := h.feedService.CreatePost(r.Context(), &domain.Post{
		AuthorID: custommw.UserID(r),
		CircleID: req.CircleID,
		Content:  req.Content,
		Lane:     domain.Lane(req.Lane),
		Kind:     domain.PostKind(req.Kind),
		MediaURL: req.MediaURL,
		Tags:     req.Tags,
		TTLHours: req.TTLHours,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// GetFeed handles GET /v1/feed?circleId=&lane=&after=&limit=
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	circleID := r.URL.Query().Get("circleId")

	var lane *domain.Lane
	if raw := r.URL.Query().Get("lane"); raw != "" {
		l, ok := domain.ParseLane(raw)
		if !ok {
			response.BadRequest(w, "lane must be help or show")
			return
		}
		lane = &l
	}

	page, err := h.feedService.GetFeed(r.Context(), circleID, lane, r.URL.Query().Get("after"), parseLimit(r, 20))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if page.Posts == nil {
		page.Posts = []domain.FeedPost{}
	}

	writeJSON(w, http.StatusOK, page)
}

// ReactToPost handles POST /v1/posts/{id}/react
func (h *Handlers) ReactToPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	_ = decodeOptionalJSON(r, &req)
	if req.Type != "" && req.Type != "thank" {
		response.BadRequest(w, "only thank reactions are supported")
		return
	}

	post, err := h.feedService.Thank(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// ClaimAsk handles POST /v1/asks/{id}/claim
func (h *Handlers) ClaimAsk(w http.ResponseWriter, r *http.Request) {
	ask, err := h.feedService.ClaimAsk(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ask)
}

// ThankAsk handles POST /v1/asks/{id}/thank
func (h *Handlers) ThankAsk(w http.ResponseWriter, r *http.Request) {
	ask, err := h.feedService.CompleteAsk(r.Context(), chi.URLParam(r, "id"), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ask)
}

// GetStage handles GET /v1/circles/{id}/stage
func (h *Handlers) GetStage(w http.ResponseWriter, r *http.Request) {
	stage, err := h.feedService.GetStage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if stage.StagePosts == nil {
		stage.StagePosts = []domain.StagePost{}
	}
	writeJSON(w, http.StatusOK, stage)
}

// CreateReport handles POST /v1/report
func (h *Handlers) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Reason     string `json:"reason"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.feedService.Report(r.Context(), custommw.UserID(r), req.TargetType, req.TargetID, req.Reason)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// CreateBlock handles POST /v1/block
func (h *Handlers) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BlockedID string `json:"blocked_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	block, err := h.feedService.Block(r.Context(), custommw.UserID(r), req.BlockedID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, block)
}

// ListReports handles GET /v1/reports
func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, _, totals, err := h.feedService.ModQueue(r.Context(), parseLimit(r, 50))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"total":   totals[0],
	})
}

// ListBlocks handles GET /v1/blocks
func (h *Handlers) ListBlocks(w http.ResponseWriter, r *http.Request) {
	_, blocks, totals, err := h.feedService.ModQueue(r.Context(), parseLimit(r, 50))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if blocks == nil {
		blocks = []domain.Block{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"blocks": blocks,
		"total":  totals[1],
	})
}

// CleanupTTL handles POST /v1/admin/cleanup-ttl
func (h *Handlers) CleanupTTL(w http.ResponseWriter, r *http.Request) {
	result, err := h.feedService.CleanupExpired(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SwitchNowCell handles POST /v1/now-cell
func (h *Handlers) SwitchNowCell(w http.ResponseWriter, r *http.Request) {
	cellID, err := h.guardService.SwitchNowCell(r.Context(), custommw.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cell_id": cellID})
}
