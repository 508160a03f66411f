package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"skillbridge/internal/domain/match"
	"skillbridge/internal/domain/matching"
	"skillbridge/internal/domain/user"
	"skillbridge/internal/infrastructure/matcher"
	"skillbridge/internal/repository"

	"github.com/google/uuid"
)

type mockProfileRepo struct {
	profiles map[uuid.UUID]user.Profile
	order    []uuid.UUID
	listErr  error
}

func (m *mockProfileRepo) GetByID(_ context.Context, id uuid.UUID) (user.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return user.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) ListAll(context.Context) ([]user.Profile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]user.Profile, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.profiles[id])
	}
	return out, nil
}

func (m *mockProfileRepo) Update(context.Context, uuid.UUID, repository.ProfileUpdate) (user.Profile, error) {
	return user.Profile{}, errors.New("not implemented")
}

func (m *mockProfileRepo) add(p user.Profile) {
	if m.profiles == nil {
		m.profiles = make(map[uuid.UUID]user.Profile)
	}
	m.profiles[p.ID] = p
	m.order = append(m.order, p.ID)
}

type mockMatchRepo struct {
	inserted  []match.Result
	failAfter int // fail the insert at this index (0-based); -1 disables
	byID      map[uuid.UUID]match.Result
	updated   []match.Result
}

func newMockMatchRepo() *mockMatchRepo {
	return &mockMatchRepo{failAfter: -1, byID: make(map[uuid.UUID]match.Result)}
}

func (m *mockMatchRepo) Insert(_ context.Context, in repository.MatchInsert) (match.Result, error) {
	if m.failAfter >= 0 && len(m.inserted) == m.failAfter {
		return match.Result{}, errors.New("write failed")
	}
	r := match.Result{
		ID:          uuid.New(),
		RequesterID: in.RequesterID,
		CandidateID: in.CandidateID,
		Score:       in.Score,
		Status:      match.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	m.inserted = append(m.inserted, r)
	m.byID[r.ID] = r
	return r, nil
}

func (m *mockMatchRepo) GetByID(_ context.Context, id uuid.UUID) (match.Result, error) {
	r, ok := m.byID[id]
	if !ok {
		return match.Result{}, repository.ErrMatchNotFound
	}
	return r, nil
}

func (m *mockMatchRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]match.Result, error) {
	out := make([]match.Result, 0)
	for _, r := range m.inserted {
		if r.RequesterID == userID || r.CandidateID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockMatchRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to match.Status) (match.Result, error) {
	r, ok := m.byID[id]
	if !ok {
		return match.Result{}, repository.ErrMatchNotFound
	}
	if r.Status != from {
		return match.Result{}, repository.ErrMatchStatusConflict
	}
	r.Status = to
	m.byID[id] = r
	m.updated = append(m.updated, r)
	return r, nil
}

type fakeRemote struct {
	healthySeq   []bool
	healthyCalls int
	warmups      int
	scores       []matcher.Score
	err          error
	gotQuery     string
	gotMode      string
}

func (f *fakeRemote) Healthy(context.Context) bool {
	healthy := false
	if f.healthyCalls < len(f.healthySeq) {
		healthy = f.healthySeq[f.healthyCalls]
	}
	f.healthyCalls++
	return healthy
}

func (f *fakeRemote) WarmUp(context.Context) { f.warmups++ }

func (f *fakeRemote) ComputeMatch(_ context.Context, query, mode string) ([]matcher.Score, error) {
	f.gotQuery = query
	f.gotMode = mode
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func noSleep(context.Context, time.Duration) {}

func newTestMatchUsecase(profiles *mockProfileRepo, matches *mockMatchRepo, remote matcher.Client) *Match {
	u := NewMatchUsecase(profiles, matches, remote, nil, nil, time.Millisecond)
	u.sleep = noSleep
	return u
}

func TestTriggerMatch_LocalFallback_NoQuery(t *testing.T) {
	requester := user.Profile{
		ID:             uuid.New(),
		TeachingSkills: []string{"Python"},
		LearningSkills: []string{"Guitar"},
		Timezone:       "UTC",
	}
	a := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "UTC"}
	b := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "PST"}

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	profiles.add(a)
	profiles.add(b)
	matches := newMockMatchRepo()

	u := newTestMatchUsecase(profiles, matches, nil)

	got, err := u.TriggerMatch(context.Background(), requester.ID, "", matching.IntentNone)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].CandidateID != a.ID || got[0].Score != 3.5 {
		t.Fatalf("first result: expected candidate A at 3.5, got %s at %v", got[0].CandidateID, got[0].Score)
	}
	if got[1].CandidateID != b.ID || got[1].Score != 3.0 {
		t.Fatalf("second result: expected candidate B at 3.0, got %s at %v", got[1].CandidateID, got[1].Score)
	}
	for _, r := range got {
		if r.Status != match.StatusPending {
			t.Fatalf("expected pending status, got %s", r.Status)
		}
		if r.RequesterID != requester.ID {
			t.Fatalf("unexpected requester id %s", r.RequesterID)
		}
	}
	if len(matches.inserted) != 2 {
		t.Fatalf("expected 2 persisted rows, got %d", len(matches.inserted))
	}
}

func TestTriggerMatch_MissingRequesterProfile(t *testing.T) {
	u := newTestMatchUsecase(&mockProfileRepo{}, newMockMatchRepo(), nil)

	_, err := u.TriggerMatch(context.Background(), uuid.New(), "", matching.IntentNone)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestTriggerMatch_RemoteDelegation_ModeIsOppositeOfIntent(t *testing.T) {
	requester := user.Profile{ID: uuid.New(), Timezone: "UTC"}
	candidate := uuid.New()

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	matches := newMockMatchRepo()
	remote := &fakeRemote{
		healthySeq: []bool{true},
		scores:     []matcher.Score{{UserID: candidate, Score: 92.1}},
	}

	u := newTestMatchUsecase(profiles, matches, remote)

	got, err := u.TriggerMatch(context.Background(), requester.ID, "guitar", matching.IntentLearning)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if remote.gotMode != matcher.ModeTeach {
		t.Fatalf("learning intent must request mode %q, got %q", matcher.ModeTeach, remote.gotMode)
	}
	if remote.gotQuery != "guitar" {
		t.Fatalf("unexpected query %q", remote.gotQuery)
	}
	if len(got) != 1 || got[0].CandidateID != candidate || got[0].Score != 92.1 {
		t.Fatalf("unexpected results: %+v", got)
	}

	remote2 := &fakeRemote{healthySeq: []bool{true}}
	u2 := newTestMatchUsecase(profiles, matches, remote2)
	if _, err := u2.TriggerMatch(context.Background(), requester.ID, "guitar", matching.IntentTeaching); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if remote2.gotMode != matcher.ModeLearn {
		t.Fatalf("teaching intent must request mode %q, got %q", matcher.ModeLearn, remote2.gotMode)
	}
}

func TestTriggerMatch_ColdStartWarmupThenRemote(t *testing.T) {
	requester := user.Profile{ID: uuid.New()}
	profiles := &mockProfileRepo{}
	profiles.add(requester)
	remote := &fakeRemote{
		healthySeq: []bool{false, true},
		scores:     []matcher.Score{{UserID: uuid.New(), Score: 55}},
	}

	u := newTestMatchUsecase(profiles, newMockMatchRepo(), remote)

	got, err := u.TriggerMatch(context.Background(), requester.ID, "guitar", matching.IntentLearning)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if remote.warmups != 1 {
		t.Fatalf("expected 1 warm-up call, got %d", remote.warmups)
	}
	if len(got) != 1 {
		t.Fatalf("expected remote result after warm-up, got %d results", len(got))
	}
}

func TestTriggerMatch_RemoteFailureFallsBackToLocal(t *testing.T) {
	requester := user.Profile{ID: uuid.New(), Timezone: "UTC"}
	candidate := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "CET"}

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	profiles.add(candidate)
	remote := &fakeRemote{healthySeq: []bool{true}, err: errors.New("boom")}

	u := newTestMatchUsecase(profiles, newMockMatchRepo(), remote)

	got, err := u.TriggerMatch(context.Background(), requester.ID, "guitar", matching.IntentLearning)
	if err != nil {
		t.Fatalf("remote failure must not surface: %v", err)
	}
	if len(got) != 1 || got[0].CandidateID != candidate.ID || got[0].Score != 5.0 {
		t.Fatalf("expected local exact-match result at 5.0, got %+v", got)
	}
}

func TestTriggerMatch_LocalQueryScoring_UsesRequesterTimezone(t *testing.T) {
	requester := user.Profile{ID: uuid.New(), Timezone: "UTC"}
	near := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "UTC"}
	far := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "CET"}

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	profiles.add(near)
	profiles.add(far)

	u := newTestMatchUsecase(profiles, newMockMatchRepo(), nil)

	got, err := u.TriggerMatch(context.Background(), requester.ID, "guitar", matching.IntentLearning)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].CandidateID != near.ID || got[0].Score != 5.5 {
		t.Fatalf("expected timezone peer first at 5.5, got %s at %v", got[0].CandidateID, got[0].Score)
	}
	if got[1].CandidateID != far.ID || got[1].Score != 5.0 {
		t.Fatalf("expected other candidate at 5.0, got %s at %v", got[1].CandidateID, got[1].Score)
	}
}

func TestTriggerMatch_RemoteStaysColdFallsBackToLocal(t *testing.T) {
	requester := user.Profile{ID: uuid.New()}
	candidate := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}}

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	profiles.add(candidate)
	remote := &fakeRemote{healthySeq: []bool{false, false}}

	u := newTestMatchUsecase(profiles, newMockMatchRepo(), remote)

	got, err := u.TriggerMatch(context.Background(), requester.ID, "guitar", matching.IntentLearning)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if remote.warmups != 1 {
		t.Fatalf("expected exactly one warm-up attempt, got %d", remote.warmups)
	}
	if len(got) != 1 || got[0].Score != 5.0 {
		t.Fatalf("expected local fallback result, got %+v", got)
	}
}

func TestTriggerMatch_MissingIntentSkipsRemote(t *testing.T) {
	requester := user.Profile{ID: uuid.New()}
	candidate := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}}

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	profiles.add(candidate)
	remote := &fakeRemote{healthySeq: []bool{true, true}}

	u := newTestMatchUsecase(profiles, newMockMatchRepo(), remote)

	if _, err := u.TriggerMatch(context.Background(), requester.ID, "guitar", matching.IntentNone); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if remote.healthyCalls != 0 {
		t.Fatalf("remote must not be probed without an intent, got %d probes", remote.healthyCalls)
	}
}

func TestTriggerMatch_PersistFailureAbortsMidLoop(t *testing.T) {
	requester := user.Profile{
		ID:             uuid.New(),
		LearningSkills: []string{"Guitar"},
		Timezone:       "UTC",
	}
	a := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "UTC"}
	b := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "PST"}

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	profiles.add(a)
	profiles.add(b)

	matches := newMockMatchRepo()
	matches.failAfter = 1

	u := newTestMatchUsecase(profiles, matches, nil)

	_, err := u.TriggerMatch(context.Background(), requester.ID, "", matching.IntentNone)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	// The first write committed before the failure and stays persisted.
	if len(matches.inserted) != 1 {
		t.Fatalf("expected 1 persisted row before abort, got %d", len(matches.inserted))
	}
}

func TestRespondToMatch(t *testing.T) {
	requester := user.Profile{ID: uuid.New(), LearningSkills: []string{"Guitar"}, Timezone: "UTC"}
	candidate := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "UTC"}

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	profiles.add(candidate)
	matches := newMockMatchRepo()

	u := newTestMatchUsecase(profiles, matches, nil)

	created, err := u.TriggerMatch(context.Background(), requester.ID, "", matching.IntentNone)
	if err != nil || len(created) != 1 {
		t.Fatalf("setup failed: %v (%d results)", err, len(created))
	}
	matchID := created[0].ID

	// The requester side cannot accept their own match.
	if _, err := u.RespondToMatch(context.Background(), requester.ID, matchID, true); !errors.Is(err, ErrMatchForbidden) {
		t.Fatalf("expected ErrMatchForbidden, got %v", err)
	}

	got, err := u.RespondToMatch(context.Background(), candidate.ID, matchID, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != match.StatusAccepted {
		t.Fatalf("expected accepted, got %s", got.Status)
	}

	// A second response hits the status guard.
	if _, err := u.RespondToMatch(context.Background(), candidate.ID, matchID, false); !errors.Is(err, ErrMatchConflict) {
		t.Fatalf("expected ErrMatchConflict, got %v", err)
	}

	if _, err := u.RespondToMatch(context.Background(), candidate.ID, uuid.New(), true); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

type fakeCache struct {
	data map[string][]byte
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.data == nil {
		f.data = make(map[string][]byte)
	}
	f.data[key] = b
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestListMatches_CacheInvalidation(t *testing.T) {
	requester := user.Profile{ID: uuid.New(), LearningSkills: []string{"Guitar"}, Timezone: "UTC"}
	candidate := user.Profile{ID: uuid.New(), TeachingSkills: []string{"Guitar"}, Timezone: "UTC"}

	profiles := &mockProfileRepo{}
	profiles.add(requester)
	profiles.add(candidate)
	matches := newMockMatchRepo()
	cache := &fakeCache{}

	u := NewMatchUsecase(profiles, matches, nil, cache, nil, time.Millisecond)
	u.sleep = noSleep

	if _, err := u.ListMatches(context.Background(), requester.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := cache.data[matchListCacheKey(requester.ID)]; !ok {
		t.Fatalf("expected list cached after read")
	}

	if _, err := u.TriggerMatch(context.Background(), requester.ID, "", matching.IntentNone); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := cache.data[matchListCacheKey(requester.ID)]; ok {
		t.Fatalf("expected requester cache invalidated by trigger")
	}

	got, err := u.ListMatches(context.Background(), requester.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
}
