package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"training-hub-api/config"
	"training-hub-api/logger"
	"training-hub-api/model"
	"training-hub-api/repository"

	"github.com/sirupsen/logrus"
)

// ErrUpstreamFailure marks a failed or timed-out AI provider call. The caller
// may retry; the result is never cached and the already-consumed quota slot is
// not refunded.
var ErrUpstreamFailure = errors.New("ai provider request failed")

const (
	// FeatureEssayFeedback keys the quota counter and the response cache.
	FeatureEssayFeedback = "essay_feedback"

	// essayFeedbackVersion is baked into the cache key; bump it when the
	// prompt changes so stale responses stop matching.
	essayFeedbackVersion = 1

	defaultCacheTTL = 30 * 24 * time.Hour
)

// EssayFeedbackResult is the output of the metered essay feedback feature.
type EssayFeedbackResult struct {
	Feedback string       `json:"feedback"`
	Cached   bool         `json:"cached"`
	Quota    *QuotaStatus `json:"quota,omitempty"`
}

// AIService wraps the external AI provider with quota enforcement and a
// content-addressed response cache.
type AIService struct {
	cacheRepo repository.IAICacheRepository
	quota     *QuotaService
	client    *http.Client
	cfg       config.AIConfig
	now       func() time.Time
}

func NewAIService(cacheRepo repository.IAICacheRepository, quota *QuotaService, cfg config.AIConfig) *AIService {
	return &AIService{
		cacheRepo: cacheRepo,
		quota:     quota,
		client:    &http.Client{},
		cfg:       cfg,
		now:       time.Now,
	}
}

// EssayFeedback runs the full metered pipeline: quota, cache lookup, provider
// call, cache store. Only a successful provider response ever reaches the
// cache.
func (s *AIService) EssayFeedback(ctx context.Context, userID int, role string, req model.EssayFeedbackRequest) (*EssayFeedbackResult, error) {
	status, err := s.quota.CheckAndConsume(ctx, userID, role, FeatureEssayFeedback, s.cfg.DailyLimit)
	if err != nil {
		return nil, err
	}

	parts := []string{req.Topic, req.Essay}
	key := CacheKey(FeatureEssayFeedback, essayFeedbackVersion, parts)

	if entry, ok := s.lookup(ctx, key); ok {
		return &EssayFeedbackResult{Feedback: entry.Response, Cached: true, Quota: status}, nil
	}

	feedback, err := s.complete(ctx, essayFeedbackPrompt(req))
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, FeatureEssayFeedback, feedback)

	return &EssayFeedbackResult{Feedback: feedback, Cached: false, Quota: status}, nil
}

// lookup returns the cached entry only while its expiry is strictly in the
// future. An expired row is a logical miss regardless of when the sweep
// physically removes it.
func (s *AIService) lookup(ctx context.Context, key string) (*model.AIResponseCacheEntry, bool) {
	entry, err := s.cacheRepo.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithError(err).Warn("AI cache lookup failed, treating as miss")
		}
		return nil, false
	}
	if !entry.ExpiresAt.After(s.now()) {
		return nil, false
	}
	return entry, true
}

// store caches a successful response. A cache write failure is logged and
// swallowed: the user already has their answer.
func (s *AIService) store(ctx context.Context, key, feature, response string) {
	ttl := defaultCacheTTL
	if s.cfg.CacheTTLDays > 0 {
		ttl = time.Duration(s.cfg.CacheTTLDays) * 24 * time.Hour
	}

	entry := &model.AIResponseCacheEntry{
		Key:       key,
		Feature:   feature,
		Provider:  s.cfg.Provider,
		Model:     s.cfg.Model,
		Response:  response,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.cacheRepo.Upsert(ctx, entry); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Failed to store AI response in cache")
	}
}

// CacheKey digests (feature, version, normalized parts) into a stable hex key.
// Part order is preserved: it is semantically significant, not sorted away.
func CacheKey(feature string, version int, parts []string) string {
	h := sha256.New()
	h.Write([]byte(feature))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(version)))
	for _, part := range parts {
		h.Write([]byte{0})
		h.Write([]byte(NormalizePart(part)))
	}
	return hex.EncodeToString(h.Sum(nil))
}

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	extraNewlinesRe   = regexp.MustCompile(`\n{3,}`)
)

// NormalizePart absorbs cosmetic formatting differences so semantically
// identical prompts share a cache entry: line endings unified, horizontal
// whitespace runs collapsed, three or more newlines squeezed to two, and the
// result trimmed.
func NormalizePart(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalSpaceRe.ReplaceAllString(s, " ")
	s = extraNewlinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func essayFeedbackPrompt(req model.EssayFeedbackRequest) string {
	return fmt.Sprintf(
		"You are a writing teacher. Give concise, constructive feedback on the following student essay.\n\nTopic: %s\n\nEssay:\n%s",
		req.Topic, req.Essay,
	)
}

// chatRequest / chatResponse mirror the provider's chat completion API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete calls the provider, bounded by the configured timeout. Timeouts and
// non-200s surface as ErrUpstreamFailure.
func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	timeout := 30 * time.Second
	if s.cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(s.cfg.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:    s.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	url := strings.TrimSuffix(s.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		logger.Log.WithError(err).Error("AI provider request failed")
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		logger.Log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(raw),
		}).Error("AI provider returned non-OK status")
		return "", fmt.Errorf("%w: status %d", ErrUpstreamFailure, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUpstreamFailure)
	}

	return parsed.Choices[0].Message.Content, nil
}
