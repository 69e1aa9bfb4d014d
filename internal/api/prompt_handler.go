package api

import (
	"net/http"
	"strconv"

	"github.com/promptoid/promptoid-api/internal/api/shared"
	"github.com/promptoid/promptoid-api/internal/service"
)

// PromptHandler serves the saved prompt library.
type PromptHandler struct {
	prompts service.PromptService
}

// NewPromptHandler creates a PromptHandler.
func NewPromptHandler(prompts service.PromptService) *PromptHandler {
	return &PromptHandler{prompts: prompts}
}

// List handles GET /api/prompts.
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	prompts, err := h.prompts.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch prompts")
		return
	}

	resp := make([]PromptResponse, 0, len(prompts))
	for _, p := range prompts {
		resp = append(resp, promptToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Create handles POST /api/prompts.
func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SavePromptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	prompt, err := h.prompts.Save(r.Context(), userID, req.OriginalPrompt, req.RefinedPrompt)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, promptToResponse(prompt))
}

// Count handles GET /api/prompts/count. ?favorite=true counts favorites only.
func (h *PromptHandler) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	favoritesOnly := false
	if raw := r.URL.Query().Get("favorite"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid favorite filter", err)
			return
		}
		favoritesOnly = parsed
	}

	n, err := h.prompts.Count(r.Context(), userID, favoritesOnly)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count prompts")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: n})
}

// Get handles GET /api/prompts/{id}.
func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	prompt, err := h.prompts.Get(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, promptToResponse(prompt))
}

// Update handles PATCH /api/prompts/{id}. Only the favorite flag is mutable.
func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdatePromptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	prompt, err := h.prompts.SetFavorite(r.Context(), userID, id, *req.IsFavorite)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, promptToResponse(prompt))
}

// Delete handles DELETE /api/prompts/{id}.
func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.prompts.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}
