package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vanshika/warmpath/internal/config"
	"github.com/vanshika/warmpath/internal/domain"
	"github.com/vanshika/warmpath/internal/hints"
	"github.com/vanshika/warmpath/internal/metrics"
	"github.com/vanshika/warmpath/internal/pathfinder"
	"github.com/vanshika/warmpath/internal/repository"
)

var (
	// ErrInvalidInput marks caller mistakes such as a missing user id.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotFound is returned when the requesting user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

var tracer = otel.Tracer("github.com/vanshika/warmpath/internal/service")

// DefaultHintTimeout bounds hint extraction when the config leaves it unset.
const DefaultHintTimeout = 3 * time.Second

// NetworkReader loads the records a user's graph is built from.
type NetworkReader interface {
	FetchUser(ctx context.Context, userID string) (domain.User, error)
	FetchOwnedContacts(ctx context.Context, userID string) ([]domain.Contact, error)
	FetchRelationships(ctx context.Context, userID string) ([]domain.Relationship, error)
	FetchTeamNetworks(ctx context.Context, userID string) ([]domain.TeamNetwork, error)
}

// NetworkWriter persists network records.
type NetworkWriter interface {
	UpsertUser(ctx context.Context, user domain.User) error
	UpsertContact(ctx context.Context, contact domain.Contact) error
	UpsertRelationship(ctx context.Context, rel domain.Relationship) error
	UpsertTeam(ctx context.Context, team domain.Team) error
	ShareContact(ctx context.Context, share domain.TeamShare) error
}

// NetworkRepository is the storage contract required by IntroService.
type NetworkRepository interface {
	NetworkReader
	NetworkWriter
}

// IntroService finds ranked introduction paths and ingests the records they
// are built from.
type IntroService struct {
	repo      NetworkRepository
	extractor hints.Extractor
	search    config.SearchConfig
	logger    *slog.Logger
	nowFn     func() time.Time
}

// NewIntroService wires the service. A nil extractor disables hint
// extraction; zero search limits fall back to the pathfinder defaults and a
// non-positive hint timeout to DefaultHintTimeout.
func NewIntroService(repo NetworkRepository, extractor hints.Extractor, search config.SearchConfig, logger *slog.Logger) *IntroService {
	if search.MaxHopsCeiling <= 0 || search.MaxHopsCeiling > pathfinder.MaxHopsCeiling {
		search.MaxHopsCeiling = pathfinder.MaxHopsCeiling
	}
	if search.DefaultMaxHops <= 0 {
		search.DefaultMaxHops = pathfinder.DefaultMaxHops
	}
	search.DefaultMaxHops = min(search.DefaultMaxHops, search.MaxHopsCeiling)
	if search.DefaultTopK <= 0 {
		search.DefaultTopK = pathfinder.DefaultTopK
	}
	if search.HintTimeout <= 0 {
		search.HintTimeout = DefaultHintTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IntroService{
		repo:      repo,
		extractor: extractor,
		search:    search,
		logger:    logger.With("component", "intro_service"),
		nowFn:     time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *IntroService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// FindPaths ranks the introduction paths from the user to an explicit target.
// The target may be an owned contact id, a team contact id of the form
// team:<teamId>:<contactId>, or a raw contact id only visible through team
// shares, in which case paths through every sharing team compete together.
// An unknown or unreachable target yields an empty list.
func (s *IntroService) FindPaths(ctx context.Context, params FindPathsParams) (_ []PathResult, err error) {
	started := time.Now()
	outcome := metrics.OutcomeFound
	ctx, span := tracer.Start(ctx, "IntroService.FindPaths", trace.WithAttributes(
		attribute.String("user.id", params.UserID),
		attribute.String("target.id", params.TargetContactID),
	))
	defer func() {
		finishSpan(span, err)
		metrics.ObserveSearch("find", outcomeFor(err, outcome), started)
	}()

	userID := strings.TrimSpace(params.UserID)
	targetID := strings.TrimSpace(params.TargetContactID)
	if userID == "" || targetID == "" {
		return nil, fmt.Errorf("%w: userId and targetContactId are required", ErrInvalidInput)
	}
	maxHops, topK, err := s.limits(params.MaxHops, params.TopK)
	if err != nil {
		return nil, err
	}

	network, err := s.loadNetwork(ctx, userID)
	if err != nil {
		return nil, err
	}
	g, err := pathfinder.BuildGraph(network)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	var paths []pathfinder.Path
	for _, id := range s.targetNodes(g, targetID) {
		found, err := g.EnumeratePaths(ctx, id, maxHops)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}

	ranked := pathfinder.Rank(paths, topK)
	metrics.ObserveGraph(g.NodeCount(), g.EdgeCount(), len(paths))
	if len(ranked) == 0 {
		outcome = metrics.OutcomeNoPath
	}
	s.logger.Debug("paths found",
		"user_id", userID,
		"target_id", targetID,
		"candidates", len(paths),
		"returned", len(ranked),
		"skipped_records", g.SkippedRecords(),
	)
	return toPathResults(g, ranked), nil
}

// SearchPaths resolves a free-text description to the best matching contact
// and ranks the paths to it. Hint extraction runs alongside the network load
// and degrades to plain text matching on failure or timeout.
func (s *IntroService) SearchPaths(ctx context.Context, params SearchPathsParams) (_ SearchResult, err error) {
	started := time.Now()
	outcome := metrics.OutcomeFound
	ctx, span := tracer.Start(ctx, "IntroService.SearchPaths", trace.WithAttributes(
		attribute.String("user.id", params.UserID),
	))
	defer func() {
		finishSpan(span, err)
		metrics.ObserveSearch("search", outcomeFor(err, outcome), started)
	}()

	userID := strings.TrimSpace(params.UserID)
	description := strings.TrimSpace(params.TargetDescription)
	if userID == "" || description == "" {
		return SearchResult{}, fmt.Errorf("%w: userId and targetDescription are required", ErrInvalidInput)
	}
	maxHops, topK, err := s.limits(params.MaxHops, params.TopK)
	if err != nil {
		return SearchResult{}, err
	}

	var (
		network domain.Network
		h       pathfinder.Hints
	)
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		network, err = s.loadNetwork(grpCtx, userID)
		return err
	})
	grp.Go(func() error {
		h = s.extractHints(grpCtx, description)
		return nil
	})
	if err := grp.Wait(); err != nil {
		return SearchResult{}, err
	}

	g, err := pathfinder.BuildGraph(network)
	if err != nil {
		return SearchResult{}, fmt.Errorf("build graph: %w", err)
	}

	candidate, ok := pathfinder.ResolveTarget(g, description, h)
	if !ok {
		outcome = metrics.OutcomeNoMatch
		return SearchResult{Matched: false, Message: NoMatchMessage, Paths: []PathResult{}}, nil
	}
	span.SetAttributes(
		attribute.String("target.id", candidate.Node.ID),
		attribute.Int("target.score", candidate.Score),
	)

	paths, err := g.EnumeratePaths(ctx, candidate.Node.ID, maxHops)
	if err != nil {
		return SearchResult{}, err
	}
	ranked := pathfinder.Rank(paths, topK)
	metrics.ObserveGraph(g.NodeCount(), g.EdgeCount(), len(paths))
	if len(ranked) == 0 {
		outcome = metrics.OutcomeNoPath
	}

	target := toPathNode(g, candidate.Node)
	s.logger.Debug("description resolved",
		"user_id", userID,
		"target_id", candidate.Node.ID,
		"score", candidate.Score,
		"team_contact", candidate.IsTeamContact,
		"returned", len(ranked),
	)
	return SearchResult{
		Matched:       true,
		TargetContact: &target,
		IsTeamContact: candidate.IsTeamContact,
		Paths:         toPathResults(g, ranked),
	}, nil
}

// Network returns the graph the user's searches run over.
func (s *IntroService) Network(ctx context.Context, userID string) (NetworkView, error) {
	ctx, span := tracer.Start(ctx, "IntroService.Network")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return NetworkView{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	network, err := s.loadNetwork(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return NetworkView{}, err
	}
	g, err := pathfinder.BuildGraph(network)
	if err != nil {
		return NetworkView{}, fmt.Errorf("build graph: %w", err)
	}

	view := NetworkView{
		UserID:         userID,
		Nodes:          make([]PathNode, 0, g.NodeCount()),
		Edges:          make([]PathEdge, 0, g.EdgeCount()),
		SkippedRecords: g.SkippedRecords(),
	}
	for _, n := range g.Nodes() {
		view.Nodes = append(view.Nodes, toPathNode(g, n))
	}
	for _, e := range g.Edges() {
		view.Edges = append(view.Edges, toPathEdge(g, e))
	}
	return view, nil
}

// loadNetwork reads the four parts of the user's network concurrently.
func (s *IntroService) loadNetwork(ctx context.Context, userID string) (domain.Network, error) {
	ctx, span := tracer.Start(ctx, "IntroService.loadNetwork")
	defer span.End()

	var network domain.Network
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		user, err := s.repo.FetchUser(grpCtx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		network.User = user
		return err
	})
	grp.Go(func() error {
		var err error
		network.Contacts, err = s.repo.FetchOwnedContacts(grpCtx, userID)
		return err
	})
	grp.Go(func() error {
		var err error
		network.Relationships, err = s.repo.FetchRelationships(grpCtx, userID)
		return err
	})
	grp.Go(func() error {
		var err error
		network.Teams, err = s.repo.FetchTeamNetworks(grpCtx, userID)
		return err
	})
	if err := grp.Wait(); err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrUserNotFound) {
			return domain.Network{}, err
		}
		return domain.Network{}, fmt.Errorf("load network for %s: %w", userID, err)
	}

	span.SetAttributes(
		attribute.Int("network.contacts", len(network.Contacts)),
		attribute.Int("network.relationships", len(network.Relationships)),
		attribute.Int("network.teams", len(network.Teams)),
	)
	return network, nil
}

// extractHints never fails: errors and timeouts are logged and yield no hints.
func (s *IntroService) extractHints(ctx context.Context, description string) pathfinder.Hints {
	if s.extractor == nil {
		return pathfinder.Hints{}
	}
	ctx, cancel := context.WithTimeout(ctx, s.search.HintTimeout)
	defer cancel()

	h, err := s.extractor.Extract(ctx, description)
	if err != nil {
		metrics.HintExtractions.WithLabelValues(metrics.OutcomeHintFailed).Inc()
		s.logger.Warn("hint extraction failed, matching on description only", "error", err)
		return pathfinder.Hints{}
	}
	if h.Empty() {
		metrics.HintExtractions.WithLabelValues(metrics.OutcomeHintEmpty).Inc()
		return h
	}
	metrics.HintExtractions.WithLabelValues(metrics.OutcomeHintOK).Inc()
	return h
}

// targetNodes maps an explicit target id to the graph nodes it names.
func (s *IntroService) targetNodes(g *pathfinder.Graph, targetID string) []string {
	if targetID == pathfinder.SelfNodeID {
		return nil
	}
	if g.HasNode(targetID) {
		return []string{targetID}
	}
	var ids []string
	for _, n := range g.Nodes() {
		if n.Tier != pathfinder.TierTeamShared {
			continue
		}
		if _, contactID, ok := pathfinder.SplitTeamSharedID(n.ID); ok && contactID == targetID {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// limits applies configured defaults. maxHops is clamped to the ceiling and
// topK to pathfinder.MaxTopK; only negative values are rejected.
func (s *IntroService) limits(maxHops, topK int) (int, int, error) {
	if maxHops < 0 || topK < 0 {
		return 0, 0, fmt.Errorf("%w: maxHops and topK must not be negative", ErrInvalidInput)
	}
	if maxHops == 0 {
		maxHops = s.search.DefaultMaxHops
	}
	maxHops = min(maxHops, s.search.MaxHopsCeiling)
	if topK == 0 {
		topK = s.search.DefaultTopK
	}
	return maxHops, pathfinder.ClampTopK(topK), nil
}

func toPathResults(g *pathfinder.Graph, ranked []pathfinder.ScoredPath) []PathResult {
	out := make([]PathResult, 0, len(ranked))
	for _, sp := range ranked {
		res := PathResult{
			Path:                 make([]PathNode, 0, len(sp.Nodes)),
			Edges:                make([]PathEdge, 0, len(sp.Edges)),
			PathStrength:         sp.Strength,
			Hops:                 sp.Hops(),
			EstimatedSuccessRate: sp.SuccessRate,
		}
		for _, n := range sp.Nodes {
			res.Path = append(res.Path, toPathNode(g, n))
		}
		for _, e := range sp.Edges {
			res.Edges = append(res.Edges, toPathEdge(g, e))
		}
		out = append(out, res)
	}
	return out
}

// externalID reports the self node under the requesting user's id.
func externalID(g *pathfinder.Graph, id string) string {
	if id == pathfinder.SelfNodeID {
		return g.UserID()
	}
	return id
}

func toPathNode(g *pathfinder.Graph, n pathfinder.Node) PathNode {
	return PathNode{
		ContactID: externalID(g, n.ID),
		Name:      n.DisplayName,
		Company:   n.Company,
		Title:     n.Title,
		Tier:      n.Tier,
	}
}

func toPathEdge(g *pathfinder.Graph, e pathfinder.Edge) PathEdge {
	return PathEdge{
		From:     externalID(g, e.From),
		To:       externalID(g, e.To),
		Strength: e.Strength,
		Type:     e.Kind,
		Verified: e.Verified,
	}
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func outcomeFor(err error, outcome string) string {
	switch {
	case err == nil:
		return outcome
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUserNotFound):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
