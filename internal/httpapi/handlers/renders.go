package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"rosterboard/internal/httpkit"
	"rosterboard/internal/pkg/errors"
	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/pkg/middleware"
	"rosterboard/internal/render"
)

type CreateRenderRequest struct {
	ClubID         string              `json:"clubId"`
	Categories     []render.Category   `json:"categories"`
	CategorizedIDs map[string][]string `json:"categorizedIds"`

	Quality int `json:"quality,omitempty"`
	Width   int `json:"width,omitempty"`
	Height  int `json:"height,omitempty"`

	// OptimizeForSpeed defaults to true when omitted; callers must say
	// "false" explicitly to get the slower full-fidelity load path.
	OptimizeForSpeed *bool `json:"optimizeForSpeed,omitempty"`

	// TargetID, when present, asks for the image to be delivered
	// instead of returned inline.
	TargetID string `json:"targetId,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// PostRender renders a roster image and either returns it inline or hands
// it to the delivery dispatcher when targetId is set.
func (h *Handler) PostRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRenderRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "invalid json body", nil)
		return
	}

	req.ClubID = strings.TrimSpace(req.ClubID)
	if req.ClubID == "" {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "clubId is required", map[string]any{"field": "clubId"})
		return
	}
	if len(req.Categories) == 0 {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "categories must not be empty", map[string]any{"field": "categories"})
		return
	}

	renderID := uuid.NewString()
	ctx = logger.ContextWithRenderID(ctx, renderID)
	log := h.log.FromContext(ctx)

	opts := render.QualityOptions{
		Quality:          req.Quality,
		Width:            req.Width,
		Height:           req.Height,
		OptimizeForSpeed: req.OptimizeForSpeed == nil || *req.OptimizeForSpeed,
	}

	img, clubName, err := h.renderer.Render(ctx, render.Request{
		ClubID:         req.ClubID,
		Categories:     req.Categories,
		CategorizedIDs: req.CategorizedIDs,
	}, opts)
	if err != nil {
		middleware.HandleError(w, r, log, errors.Wrap(err, "handlers.PostRender", "render failed"))
		return
	}

	body := map[string]any{
		"renderId": renderID,
		"clubName": clubName,
		"bytes":    len(img),
	}

	if req.TargetID != "" {
		delivered := h.dispatcher.Deliver(ctx, req.TargetID, img, req.Caption)
		body["delivered"] = delivered
		if !delivered {
			log.Warn("render delivered flag false", "target_id", req.TargetID)
		}
		httpkit.WriteJSON(w, 200, body)
		return
	}

	body["image"] = base64.StdEncoding.EncodeToString(img)
	httpkit.WriteJSON(w, 200, body)
}
