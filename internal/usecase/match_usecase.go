package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"skillbridge/internal/domain/match"
	"skillbridge/internal/domain/matching"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/infrastructure/matcher"
	"skillbridge/internal/repository"
	"skillbridge/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrMatchForbidden  = errors.New("match forbidden")
	ErrMatchConflict   = errors.New("match conflict")
)

type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type MatchUsecase interface {
	TriggerMatch(ctx context.Context, requesterID uuid.UUID, query string, intent matching.Intent) ([]match.Result, error)
	ListMatches(ctx context.Context, userID uuid.UUID) ([]match.Result, error)
	RespondToMatch(ctx context.Context, userID, matchID uuid.UUID, accept bool) (match.Result, error)
}

type Match struct {
	profiles repository.ProfileRepository
	matches  repository.MatchRepository
	remote   matcher.Client
	cache    MatchCache
	logger   *log.Logger

	warmupDelay time.Duration
	sleep       func(ctx context.Context, d time.Duration)
}

func NewMatchUsecase(
	profiles repository.ProfileRepository,
	matches repository.MatchRepository,
	remote matcher.Client,
	cache MatchCache,
	logger *log.Logger,
	warmupDelay time.Duration,
) *Match {
	if warmupDelay <= 0 {
		warmupDelay = 800 * time.Millisecond
	}
	return &Match{
		profiles:    profiles,
		matches:     matches,
		remote:      remote,
		cache:       cache,
		logger:      logger,
		warmupDelay: warmupDelay,
		sleep:       sleepContext,
	}
}

// TriggerMatch ranks candidate peers for the requester and persists every
// scored pair as a pending match. Scoring is delegated to the external
// matcher service when a query and intent are given and the service is
// reachable; in every other case the local heuristic runs. Remote failures
// are never surfaced, only the fallback.
func (u *Match) TriggerMatch(ctx context.Context, requesterID uuid.UUID, query string, intent matching.Intent) ([]match.Result, error) {
	if requesterID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	requester, err := u.profiles.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, ErrInternal
	}

	ranked, ok := u.remoteScores(ctx, query, intent)
	if !ok {
		ranked, err = u.localScores(ctx, requester, query, intent)
		if err != nil {
			return nil, err
		}
	}

	results := make([]match.Result, 0, len(ranked))
	for _, rc := range ranked {
		m, err := u.matches.Insert(ctx, repository.MatchInsert{
			RequesterID: requesterID,
			CandidateID: rc.UserID,
			Score:       rc.Score,
		})
		if err != nil {
			// No transaction spans the loop: rows written so far stay
			// persisted, the run aborts here.
			return nil, ErrInternal
		}
		results = append(results, m)

		u.invalidateMatchList(ctx, m.CandidateID)
		ws.NotifyMatchCreated(m.CandidateID, m.ID, m.RequesterID, m.Score)
	}
	u.invalidateMatchList(ctx, requesterID)

	return results, nil
}

// remoteScores attempts the delegated scoring path. The second return value
// is false whenever the local fallback should run instead.
func (u *Match) remoteScores(ctx context.Context, query string, intent matching.Intent) ([]matching.RankedCandidate, bool) {
	if u.remote == nil || query == "" || intent == matching.IntentNone {
		return nil, false
	}

	if !u.remote.Healthy(ctx) {
		// Cold start: kick the service once, give it a moment, probe again.
		u.remote.WarmUp(ctx)
		u.sleep(ctx, u.warmupDelay)
		if !u.remote.Healthy(ctx) {
			return nil, false
		}
	}

	// The service searches the candidate list complementary to the intent,
	// so the requested mode is the opposite of the requester's intent.
	mode := matcher.ModeLearn
	if intent == matching.IntentLearning {
		mode = matcher.ModeTeach
	}

	scores, err := u.remote.ComputeMatch(ctx, query, mode)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Match] remote scoring failed, falling back to local: %v", err)
		}
		return nil, false
	}

	out := make([]matching.RankedCandidate, 0, len(scores))
	for _, s := range scores {
		if s.UserID == uuid.Nil {
			continue
		}
		out = append(out, matching.RankedCandidate{UserID: s.UserID, Score: s.Score})
	}
	return out, true
}

func (u *Match) localScores(ctx context.Context, requester user.Profile, query string, intent matching.Intent) ([]matching.RankedCandidate, error) {
	candidates, err := u.profiles.ListAll(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	profiles := make([]matching.Profile, 0, len(candidates))
	for _, c := range candidates {
		profiles = append(profiles, matchingProfile(c))
	}

	return matching.Rank(matchingProfile(requester), profiles, query, intent), nil
}

func matchingProfile(p user.Profile) matching.Profile {
	return matching.Profile{
		ID:             p.ID,
		Name:           p.Name,
		TeachingSkills: p.TeachingSkills,
		LearningSkills: p.LearningSkills,
		Timezone:       p.Timezone,
	}
}

func (u *Match) ListMatches(ctx context.Context, userID uuid.UUID) ([]match.Result, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	key := matchListCacheKey(userID)
	if u.cache != nil {
		var cached []match.Result
		if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	out, err := u.matches.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, out, 0)
	}
	return out, nil
}

// RespondToMatch lets the candidate side accept or reject a pending match.
func (u *Match) RespondToMatch(ctx context.Context, userID, matchID uuid.UUID, accept bool) (match.Result, error) {
	if userID == uuid.Nil {
		return match.Result{}, ErrUnauthorized
	}

	m, err := u.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return match.Result{}, ErrMatchNotFound
		}
		return match.Result{}, ErrInternal
	}
	if m.CandidateID != userID {
		return match.Result{}, ErrMatchForbidden
	}

	to := match.StatusRejected
	if accept {
		to = match.StatusAccepted
	}

	updated, err := u.matches.UpdateStatus(ctx, matchID, match.StatusPending, to)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchStatusConflict):
			return match.Result{}, ErrMatchConflict
		case errors.Is(err, repository.ErrMatchNotFound):
			return match.Result{}, ErrMatchNotFound
		default:
			return match.Result{}, ErrInternal
		}
	}

	u.invalidateMatchList(ctx, updated.RequesterID)
	u.invalidateMatchList(ctx, updated.CandidateID)

	return updated, nil
}

func (u *Match) invalidateMatchList(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	_ = u.cache.Delete(ctx, matchListCacheKey(userID))
}

func matchListCacheKey(userID uuid.UUID) string {
	return "matches:user:" + userID.String()
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
