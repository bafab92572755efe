package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/warmpath/internal/service"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// PathService is the search surface the handlers need.
type PathService interface {
	FindPaths(ctx context.Context, params service.FindPathsParams) ([]service.PathResult, error)
	SearchPaths(ctx context.Context, params service.SearchPathsParams) (service.SearchResult, error)
	Network(ctx context.Context, userID string) (service.NetworkView, error)
}

// IngestService is the write surface the handlers need.
type IngestService interface {
	UpsertUser(ctx context.Context, input service.UserInput) error
	UpsertContact(ctx context.Context, input service.ContactInput) error
	UpsertRelationship(ctx context.Context, input service.RelationshipInput) error
	UpsertTeam(ctx context.Context, input service.TeamInput) error
	ShareContact(ctx context.Context, input service.ShareInput) error
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger *slog.Logger
	paths  PathService
	ingest IngestService
}

// NewAPIHandlers constructs an APIHandlers instance. ingest may be nil to
// serve a read-only API.
func NewAPIHandlers(logger *slog.Logger, paths PathService, ingest IngestService) *APIHandlers {
	return &APIHandlers{
		logger: logger,
		paths:  paths,
		ingest: ingest,
	}
}

// findPathsRequest and searchPathsRequest accept any non-negative limits.
// maxHops above the ceiling (6) is searched at the ceiling and topK above 50
// returns at most 50 paths; zero selects the configured default.
type findPathsRequest struct {
	UserID          string `json:"userId" validate:"required,max=256"`
	TargetContactID string `json:"targetContactId" validate:"required,max=512"`
	MaxHops         int    `json:"maxHops" validate:"gte=0"`
	TopK            int    `json:"topK" validate:"gte=0"`
}

type searchPathsRequest struct {
	UserID            string `json:"userId" validate:"required,max=256"`
	TargetDescription string `json:"targetDescription" validate:"required,max=1000"`
	MaxHops           int    `json:"maxHops" validate:"gte=0"`
	TopK              int    `json:"topK" validate:"gte=0"`
}

type findPathsResponse struct {
	Paths []service.PathResult `json:"paths"`
}

type userRequest struct {
	ID    string `json:"id" validate:"required,max=256"`
	Name  string `json:"name" validate:"max=256"`
	Email string `json:"email" validate:"omitempty,email"`
}

type contactRequest struct {
	ID          string `json:"id" validate:"required,max=256"`
	OwnerUserID string `json:"ownerUserId" validate:"required,max=256"`
	Name        string `json:"name" validate:"required,max=256"`
	Email       string `json:"email" validate:"omitempty,email"`
	Company     string `json:"company" validate:"max=256"`
	Title       string `json:"title" validate:"max=256"`
	Industry    string `json:"industry" validate:"max=256"`
}

type relationshipRequest struct {
	ID                 string  `json:"id" validate:"required,max=256"`
	OwnerUserID        string  `json:"ownerUserId" validate:"required,max=256"`
	ContactAID         string  `json:"contactAId" validate:"required,max=256"`
	ContactBID         string  `json:"contactBId" validate:"required_without=IsUserRelationship,max=256"`
	IsUserRelationship bool    `json:"isUserRelationship"`
	RelationshipType   string  `json:"relationshipType" validate:"max=64"`
	Strength           int     `json:"strength" validate:"gte=0,lte=5"`
	Verified           bool    `json:"verified"`
	AIInferred         bool    `json:"aiInferred"`
	Confidence         float64 `json:"confidence" validate:"gte=0,lte=1"`
}

type teamRequest struct {
	ID        string   `json:"id" validate:"required,max=256"`
	Name      string   `json:"name" validate:"max=256"`
	MemberIDs []string `json:"memberIds" validate:"dive,required"`
}

type shareRequest struct {
	TeamID    string `json:"teamId" validate:"required"`
	ContactID string `json:"contactId" validate:"required"`
	Visible   *bool  `json:"visible"`
}

func (h *APIHandlers) handleFindPaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req findPathsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	paths, err := h.paths.FindPaths(r.Context(), service.FindPathsParams{
		UserID:          req.UserID,
		TargetContactID: req.TargetContactID,
		MaxHops:         req.MaxHops,
		TopK:            req.TopK,
	})
	if err != nil {
		h.writeServiceError(w, r, "find paths", err)
		return
	}

	respondJSON(w, http.StatusOK, findPathsResponse{Paths: paths})
}

func (h *APIHandlers) handleSearchPaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req searchPathsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.paths.SearchPaths(r.Context(), service.SearchPathsParams{
		UserID:            req.UserID,
		TargetDescription: req.TargetDescription,
		MaxHops:           req.MaxHops,
		TopK:              req.TopK,
	})
	if err != nil {
		h.writeServiceError(w, r, "search paths", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) handleNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	userID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/network/"), "/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	view, err := h.paths.Network(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, "load network", err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *APIHandlers) handleUsers(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	h.handleUpsert(w, r, &req, func(ctx context.Context) error {
		return h.ingest.UpsertUser(ctx, service.UserInput{ID: req.ID, Name: req.Name, Email: req.Email})
	})
}

func (h *APIHandlers) handleContacts(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	h.handleUpsert(w, r, &req, func(ctx context.Context) error {
		return h.ingest.UpsertContact(ctx, service.ContactInput{
			ID:          req.ID,
			OwnerUserID: req.OwnerUserID,
			Name:        req.Name,
			Email:       req.Email,
			Company:     req.Company,
			Title:       req.Title,
			Industry:    req.Industry,
		})
	})
}

func (h *APIHandlers) handleRelationships(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	h.handleUpsert(w, r, &req, func(ctx context.Context) error {
		return h.ingest.UpsertRelationship(ctx, service.RelationshipInput{
			ID:                 req.ID,
			OwnerUserID:        req.OwnerUserID,
			ContactAID:         req.ContactAID,
			ContactBID:         req.ContactBID,
			IsUserRelationship: req.IsUserRelationship,
			RelationshipType:   req.RelationshipType,
			Strength:           req.Strength,
			Verified:           req.Verified,
			AIInferred:         req.AIInferred,
			Confidence:         req.Confidence,
		})
	})
}

func (h *APIHandlers) handleTeams(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	h.handleUpsert(w, r, &req, func(ctx context.Context) error {
		return h.ingest.UpsertTeam(ctx, service.TeamInput{ID: req.ID, Name: req.Name, MemberIDs: req.MemberIDs})
	})
}

func (h *APIHandlers) handleShares(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	h.handleUpsert(w, r, &req, func(ctx context.Context) error {
		visible := true
		if req.Visible != nil {
			visible = *req.Visible
		}
		return h.ingest.ShareContact(ctx, service.ShareInput{TeamID: req.TeamID, ContactID: req.ContactID, Visible: visible})
	})
}

// handleUpsert decodes a POST body into req and runs write on success.
func (h *APIHandlers) handleUpsert(w http.ResponseWriter, r *http.Request, req any, write func(ctx context.Context) error) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !h.decodeAndValidate(w, r, req) {
		return
	}
	if err := write(r.Context()); err != nil {
		h.writeServiceError(w, r, "upsert", err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *APIHandlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn(op+" timed out", "error", err, "request_id", requestIDFrom(r.Context()))
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		h.logger.Error(op+" failed", "error", err, "request_id", requestIDFrom(r.Context()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// validationMessage renders validator failures as "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), rule))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

const maxBodyBytes = 1 << 20

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
