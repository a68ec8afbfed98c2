package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/draft"
	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
)

// SplitHandler serves split previews and drafts.
type SplitHandler struct {
	drafts    *draft.Store
	directory storage.Store
	recorder  draft.Recorder
}

// NewSplitHandler creates a SplitHandler. directory resolves group_id inputs.
func NewSplitHandler(drafts *draft.Store, directory storage.Store, recorder draft.Recorder) *SplitHandler {
	return &SplitHandler{drafts: drafts, directory: directory, recorder: recorder}
}

// splitRequest carries everything that resets a split.
// Participants come either inline or from a directory group.
type splitRequest struct {
	Strategy     string               `json:"strategy" binding:"required"`
	Total        flexNumber           `json:"total"`
	Participants []models.Participant `json:"participants"`
	GroupID      string               `json:"group_id"`
	PayerID      string               `json:"payer_id"`
}

type editRequest struct {
	Percentage flexNumber `json:"percentage"`
	Amount     flexNumber `json:"amount"`
}

// previewResponse is a stateless split: what a draft would start as.
type previewResponse struct {
	Strategy   models.Strategy     `json:"strategy"`
	Total      float64             `json:"total"`
	Entries    []models.ShareEntry `json:"entries"`
	Aggregates models.Aggregates   `json:"aggregates"`
	CanSubmit  bool                `json:"can_submit"`
	Problems   []string            `json:"problems,omitempty"`
}

// Preview handles POST /splits/preview.
func (h *SplitHandler) Preview(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	entries := calculator.Initialize(input.Strategy, input.Total, input.Participants, input.PayerID)
	agg := calculator.ComputeAggregates(entries, input.Total)
	h.recorder.SplitInitialized(input.Strategy)

	slog.Debug("Split preview",
		"strategy", input.Strategy,
		"total", input.Total,
		"participants", len(input.Participants),
		"total_amount", agg.TotalAmount,
	)

	respondOK(c, http.StatusOK, previewResponse{
		Strategy:   input.Strategy,
		Total:      input.Total,
		Entries:    entries,
		Aggregates: agg,
		CanSubmit:  len(entries) > 0 && agg.CanSubmit(input.Strategy),
		Problems:   calculator.Problems(input.Strategy, input.Total, agg),
	})
}

// CreateDraft handles POST /drafts.
func (h *SplitHandler) CreateDraft(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	d := h.drafts.Create(input)
	slog.Info("Draft created", "draft_id", d.ID, "strategy", d.Strategy, "participants", len(d.Participants))
	respondOK(c, http.StatusCreated, d)
}

// GetDraft handles GET /drafts/:id.
func (h *SplitHandler) GetDraft(c *gin.Context) {
	d, err := h.drafts.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, d)
}

// ResetDraft handles PUT /drafts/:id. Any manual edits are discarded.
func (h *SplitHandler) ResetDraft(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	d, err := h.drafts.Reset(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	slog.Info("Draft reset", "draft_id", d.ID, "strategy", d.Strategy)
	respondOK(c, http.StatusOK, d)
}

// EditShare handles PATCH /drafts/:id/shares/:participant_id.
// The body sets exactly one of percentage or amount.
func (h *SplitHandler) EditShare(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Percentage.Set() == req.Amount.Set() {
		badRequest(c, "exactly one of percentage or amount is required")
		return
	}

	id, participantID := c.Param("id"), c.Param("participant_id")

	var (
		d   *draft.Draft
		err error
	)
	if req.Percentage.Set() {
		d, err = h.drafts.EditPercentage(id, participantID, req.Percentage.Raw())
	} else {
		d, err = h.drafts.EditAmount(id, participantID, req.Amount.Raw())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Debug("Share edited",
		"draft_id", id,
		"participant_id", participantID,
		"total_amount", d.Aggregates.TotalAmount,
		"total_percentage", d.Aggregates.TotalPercentage,
		"can_submit", d.CanSubmit,
	)
	respondOK(c, http.StatusOK, d)
}

// SubmitDraft handles POST /drafts/:id/submit. A split that does not
// reconcile is rejected with 422 and its problems; the draft is kept.
func (h *SplitHandler) SubmitDraft(c *gin.Context) {
	d, err := h.drafts.Submit(c.Param("id"))
	if errors.Is(err, draft.ErrInvalidSplit) {
		_ = c.Error(err)
		respondFail(c, http.StatusUnprocessableEntity, strings.Join(d.Problems, "; "), d)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	slog.Info("Draft submitted", "draft_id", d.ID, "strategy", d.Strategy, "total", d.Total)
	respondOK(c, http.StatusOK, d)
}

// DeleteDraft handles DELETE /drafts/:id.
func (h *SplitHandler) DeleteDraft(c *gin.Context) {
	if err := h.drafts.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindInput decodes and validates a splitRequest. On failure it has already
// written the response.
func (h *SplitHandler) bindInput(c *gin.Context) (draft.Input, bool) {
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return draft.Input{}, false
	}

	strategy, err := calculator.ParseStrategy(req.Strategy)
	if err != nil {
		badRequest(c, err.Error())
		return draft.Input{}, false
	}

	participants := req.Participants
	if len(participants) == 0 && req.GroupID != "" {
		group, err := h.directory.GetGroup(c.Request.Context(), req.GroupID)
		if err != nil {
			respondError(c, err)
			return draft.Input{}, false
		}
		participants = group.Members
	}

	if err := validateParticipants(participants); err != nil {
		badRequest(c, err.Error())
		return draft.Input{}, false
	}
	if err := validatePayerID(req.PayerID, participants); err != nil {
		badRequest(c, err.Error())
		return draft.Input{}, false
	}

	return draft.Input{
		Strategy:     strategy,
		Total:        req.Total.Float(),
		Participants: participants,
		PayerID:      req.PayerID,
	}, true
}

// validateParticipants requires a unique, non-empty ID per participant.
func validateParticipants(participants []models.Participant) error {
	seen := make(map[string]bool, len(participants))
	for i, p := range participants {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("participant %d has no id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("participant '%s' appears more than once", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// validatePayerID checks if the payer is one of the participants.
func validatePayerID(payerID string, participants []models.Participant) error {
	if payerID == "" {
		return nil // Optional field
	}
	for _, p := range participants {
		if p.ID == payerID {
			return nil
		}
	}
	return fmt.Errorf("payer_id '%s' must be one of the participants", payerID)
}
