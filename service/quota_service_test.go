package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"training-hub-api/model"

	"github.com/stretchr/testify/assert"
)

// countingUsageRepo is an in-memory counter with the same atomic
// increment-and-fetch contract as the SQL upsert.
type countingUsageRepo struct {
	mu     sync.Mutex
	counts map[string]int
	calls  int
}

func newCountingUsageRepo() *countingUsageRepo {
	return &countingUsageRepo{counts: map[string]int{}}
}

func (r *countingUsageRepo) IncrementAndGet(_ context.Context, userID int, day, feature string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	key := fmt.Sprintf("%d|%s|%s", userID, day, feature)
	r.counts[key]++
	return r.counts[key], nil
}

func TestQuotaService_BypassRoles(t *testing.T) {
	repo := newCountingUsageRepo()
	quota := NewQuotaService(repo)

	for _, role := range []model.Role{model.RoleAdmin, model.RoleTeacher} {
		for i := 0; i < 50; i++ {
			status, err := quota.CheckAndConsume(context.Background(), 1, string(role), FeatureEssayFeedback, 20)
			assert.NoError(t, err)
			assert.Equal(t, 0, status.Count)
		}
	}

	// No counter row may be read or written for exempt roles.
	assert.Equal(t, 0, repo.calls)
}

func TestQuotaService_SequentialLedger(t *testing.T) {
	repo := newCountingUsageRepo()
	quota := NewQuotaService(repo)
	ctx := context.Background()
	limit := 20

	// Calls 1..20 are admitted and report their exact position.
	for i := 1; i <= limit; i++ {
		status, err := quota.CheckAndConsume(ctx, 42, string(model.RoleStudent), FeatureEssayFeedback, limit)
		assert.NoError(t, err)
		assert.Equal(t, i, status.Count)
		assert.Equal(t, limit, status.DailyLimit)
	}

	// Call 21 is rejected, but its increment has already been committed.
	_, err := quota.CheckAndConsume(ctx, 42, string(model.RoleStudent), FeatureEssayFeedback, limit)
	var quotaErr *QuotaExceededError
	assert.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, limit, quotaErr.DailyLimit)
	assert.Equal(t, FeatureEssayFeedback, quotaErr.Feature)
	assert.Equal(t, 21, quotaErr.Count, "rejected attempts still consume a slot")
}

func TestQuotaService_SeparateFeaturesAndUsers(t *testing.T) {
	repo := newCountingUsageRepo()
	quota := NewQuotaService(repo)
	ctx := context.Background()

	s1, err := quota.CheckAndConsume(ctx, 1, string(model.RoleStudent), "essay_feedback", 5)
	assert.NoError(t, err)
	s2, err := quota.CheckAndConsume(ctx, 1, string(model.RoleStudent), "quiz_generator", 5)
	assert.NoError(t, err)
	s3, err := quota.CheckAndConsume(ctx, 2, string(model.RoleStudent), "essay_feedback", 5)
	assert.NoError(t, err)

	assert.Equal(t, 1, s1.Count)
	assert.Equal(t, 1, s2.Count)
	assert.Equal(t, 1, s3.Count)
}

// TestQuotaService_ConcurrentIncrements checks that concurrent callers observe
// a strict total order of counts: no two see the same post-increment value.
func TestQuotaService_ConcurrentIncrements(t *testing.T) {
	repo := newCountingUsageRepo()
	quota := NewQuotaService(repo)

	const calls = 40
	counts := make(chan int, calls)
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := quota.CheckAndConsume(context.Background(), 9, string(model.RoleStudent), FeatureEssayFeedback, calls)
			assert.NoError(t, err)
			counts <- status.Count
		}()
	}
	wg.Wait()
	close(counts)

	seen := map[int]bool{}
	for c := range counts {
		assert.False(t, seen[c], "count %d observed twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, calls)
}
