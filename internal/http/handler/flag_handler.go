package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-flag-graph-service/internal/depgraph"
	"go-flag-graph-service/internal/domain"
	"go-flag-graph-service/internal/http/middleware"
	"go-flag-graph-service/internal/http/response"
	"go-flag-graph-service/internal/observability"
	"go-flag-graph-service/internal/repository"
	"go-flag-graph-service/internal/service"
)

var flagKeyRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]{0,127}$`)

type FlagHandler struct {
	svc    service.FlagService
	logger *slog.Logger
}

func NewFlagHandler(svc service.FlagService, logger *slog.Logger) *FlagHandler {
	return &FlagHandler{svc: svc, logger: logger}
}

type flagBody struct {
	Key     string                `json:"key"`
	Name    string                `json:"name"`
	Active  bool                  `json:"active"`
	Filters domain.TargetingRules `json:"filters"`
}

func (h *FlagHandler) ListFlags(w http.ResponseWriter, r *http.Request) {
	teamID, ok := authTeamID(w, r)
	if !ok {
		return
	}
	page := repository.PageRequest{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	result, err := h.svc.ListFlags(r.Context(), teamID, page)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list feature flags", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"items":       result.Items,
		"page":        result.Page,
		"page_size":   result.PageSize,
		"total":       result.Total,
		"total_pages": result.TotalPages,
	})
}

func (h *FlagHandler) GetFlag(w http.ResponseWriter, r *http.Request) {
	teamID, ok := authTeamID(w, r)
	if !ok {
		return
	}
	flagID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid flag id", nil)
		return
	}
	flag, err := h.svc.GetFlag(r.Context(), teamID, flagID)
	if err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "feature flag not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load feature flag", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, flag)
}

func (h *FlagHandler) CreateFlag(w http.ResponseWriter, r *http.Request) {
	teamID, ok := authTeamID(w, r)
	if !ok {
		return
	}
	var body flagBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	key := strings.TrimSpace(strings.ToLower(body.Key))
	if !flagKeyRe.MatchString(key) {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid feature flag key", nil)
		return
	}
	flag := &domain.Flag{
		TeamID:  teamID,
		Key:     key,
		Name:    strings.TrimSpace(body.Name),
		Active:  body.Active,
		Filters: body.Filters,
	}
	if err := h.svc.CreateFlag(r.Context(), flag); err != nil {
		if h.writeValidationError(w, r, err) {
			return
		}
		if isConflictError(err) {
			response.Error(w, r, http.StatusConflict, "CONFLICT", "feature flag already exists", nil)
			return
		}
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "failed to create feature flag", nil)
		return
	}
	observability.EmitAudit(r.Context(), h.logger, observability.AuditInput{
		EventName:  "flag.create",
		ActorTeam:  teamID,
		TargetType: "flag",
		TargetID:   strconv.FormatUint(uint64(flag.ID), 10),
		Action:     "create",
		Outcome:    "success",
		Reason:     "flag_created",
	}, "key", flag.Key)
	response.JSON(w, r, http.StatusCreated, flag)
}

func (h *FlagHandler) UpdateFlag(w http.ResponseWriter, r *http.Request) {
	teamID, ok := authTeamID(w, r)
	if !ok {
		return
	}
	flagID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid flag id", nil)
		return
	}
	var body flagBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	key := strings.TrimSpace(strings.ToLower(body.Key))
	if !flagKeyRe.MatchString(key) {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid feature flag key", nil)
		return
	}
	flag := &domain.Flag{
		ID:      flagID,
		TeamID:  teamID,
		Key:     key,
		Name:    strings.TrimSpace(body.Name),
		Active:  body.Active,
		Filters: body.Filters,
	}
	if err := h.svc.UpdateFlag(r.Context(), flag); err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "feature flag not found", nil)
			return
		}
		if h.writeValidationError(w, r, err) {
			return
		}
		if isConflictError(err) {
			response.Error(w, r, http.StatusConflict, "CONFLICT", "feature flag already exists", nil)
			return
		}
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "failed to update feature flag", nil)
		return
	}
	observability.EmitAudit(r.Context(), h.logger, observability.AuditInput{
		EventName:  "flag.update",
		ActorTeam:  teamID,
		TargetType: "flag",
		TargetID:   strconv.FormatUint(uint64(flagID), 10),
		Action:     "update",
		Outcome:    "success",
		Reason:     "flag_updated",
	}, "key", flag.Key)
	response.JSON(w, r, http.StatusOK, flag)
}

func (h *FlagHandler) DeleteFlag(w http.ResponseWriter, r *http.Request) {
	teamID, ok := authTeamID(w, r)
	if !ok {
		return
	}
	flagID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid flag id", nil)
		return
	}
	if err := h.svc.DeleteFlag(r.Context(), teamID, flagID); err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "feature flag not found", nil)
			return
		}
		if h.writeValidationError(w, r, err) {
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete feature flag", nil)
		return
	}
	observability.EmitAudit(r.Context(), h.logger, observability.AuditInput{
		EventName:  "flag.delete",
		ActorTeam:  teamID,
		TargetType: "flag",
		TargetID:   strconv.FormatUint(uint64(flagID), 10),
		Action:     "delete",
		Outcome:    "success",
		Reason:     "flag_soft_deleted",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

func (h *FlagHandler) Dependents(w http.ResponseWriter, r *http.Request) {
	teamID, ok := authTeamID(w, r)
	if !ok {
		return
	}
	flagID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid flag id", nil)
		return
	}
	view, err := h.svc.Dependents(r.Context(), teamID, flagID)
	if err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "feature flag not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to inspect dependents", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, view)
}

// writeValidationError maps graph admission failures to responses and
// reports whether it handled the error. Cycles and blocked deletions are
// conflicts with current state; the rest are bad input.
func (h *FlagHandler) writeValidationError(w http.ResponseWriter, r *http.Request, err error) bool {
	var verr *depgraph.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	status := http.StatusBadRequest
	switch verr.Kind {
	case depgraph.ErrKindCircularDependency, depgraph.ErrKindBlockedDeletion:
		status = http.StatusConflict
	}
	response.Error(w, r, status, strings.ToUpper(string(verr.Kind)), verr.Message, verr.Flags)
	return true
}

func authTeamID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.TeamID == 0 {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid team", nil)
		return 0, false
	}
	return claims.TeamID, true
}

func parsePathID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func queryInt(r *http.Request, name string) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
