package quiz

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
)

// ErrNoQuestion signals that neither the static pool nor the remote
// generator could produce a question. Battles treat this as an
// automatic victory for the player, never as a hard failure.
var ErrNoQuestion = errors.New("no question available")

// PrefetchBatchSize is how many remote questions are requested per
// fetch; extras are cached and drained one at a time.
const PrefetchBatchSize = 3

// RemoteRequest carries the opponent and player context sent to the
// remote question generator. AskedPrompts and RecentRemoteIDs are
// filled in by the provider from the session history.
type RemoteRequest struct {
	OpponentID      string   `json:"opponent_id"`
	OpponentName    string   `json:"opponent_name"`
	Zone            string   `json:"zone"`
	IsBoss          bool     `json:"is_boss"`
	DifficultyTier  int      `json:"difficulty_tier"`
	PlayerLevel     int      `json:"player_level"`
	AskedPrompts    []string `json:"asked_prompts,omitempty"`
	RecentRemoteIDs []string `json:"recent_remote_ids,omitempty"`
}

// RemoteQuestion is one generated question plus the metadata the
// remote service attaches to it.
type RemoteQuestion struct {
	Question Question `json:"question"`
	RemoteID string   `json:"remote_id,omitempty"`
	Taunt    string   `json:"taunt,omitempty"`
}

// RemoteService is the abstract remote question generator. A nil
// RemoteService is valid; the provider then always falls back to the
// static pool.
type RemoteService interface {
	// GenerateQuestions produces up to count questions for the given
	// request. An empty result is not an error.
	GenerateQuestions(ctx context.Context, req RemoteRequest, count int) ([]RemoteQuestion, error)

	// ReportAnswered reports whether a remote question was answered
	// correctly. Best-effort; callers log failures and move on.
	ReportAnswered(ctx context.Context, remoteID string, correct bool) error
}

// Source is the per-opponent view the provider selects from: the static
// question pool plus the parameters for a remote fetch. PoolOnly is set
// for bosses and pool-locked opponents, which never query the remote
// generator.
type Source struct {
	OpponentID string
	StaticPool []Question
	PoolOnly   bool
	Remote     RemoteRequest
}

// PoolPrompts returns the prompts of the static pool.
func (s *Source) PoolPrompts() []string {
	prompts := make([]string, len(s.StaticPool))
	for i, q := range s.StaticPool {
		prompts[i] = q.Prompt
	}
	return prompts
}

// Result is a selected question plus an optional one-shot taunt from
// the remote generator, shown before the question appears.
type Result struct {
	Question Question
	Taunt    string
}

// Provider selects the next trivia question for an opponent, combining
// the opponent's static pool with remote-generated questions and
// tracking recently asked history to avoid repeats. A Provider is safe
// for concurrent use.
type Provider struct {
	remote RemoteService
	log    *slog.Logger

	// mu guards rng and the prefetch cache below.
	mu  sync.Mutex
	rng *rand.Rand

	// Prefetched remote questions, drained FIFO. Valid only for the
	// opponent they were fetched for.
	cache    []RemoteQuestion
	cacheFor string
}

// NewProvider creates a question provider. remote may be nil.
func NewProvider(remote RemoteService, rng *rand.Rand, log *slog.Logger) *Provider {
	return &Provider{
		remote: remote,
		rng:    rng,
		log:    log,
	}
}

// NextQuestion returns the next question for the given source. The
// selected prompt is recorded in the history before returning, and any
// remote ID is recorded in the recent ring.
//
// Priority: pool-locked/boss opponents draw static only; otherwise a
// cached remote question is drained first, then a remote fetch is
// attempted, and the static pool is the fallback for any remote
// failure. Returns ErrNoQuestion when nothing can be produced.
func (p *Provider) NextQuestion(ctx context.Context, src *Source, hist *History) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if src.PoolOnly || p.remote == nil {
		return p.staticQuestion(src, hist)
	}

	if rq, ok := p.drainCache(src, hist); ok {
		hist.RecordPrompt(rq.Question.Prompt)
		hist.RecordRemoteID(rq.RemoteID)
		return &Result{Question: rq.Question, Taunt: rq.Taunt}, nil
	}

	rq, err := p.fetchRemote(ctx, src, hist)
	if err != nil {
		p.log.Warn("Remote question fetch failed, falling back to static pool",
			"opponent", src.OpponentID, "error", err)
		return p.staticQuestion(src, hist)
	}
	if rq == nil {
		return p.staticQuestion(src, hist)
	}

	hist.RecordPrompt(rq.Question.Prompt)
	hist.RecordRemoteID(rq.RemoteID)
	return &Result{Question: rq.Question, Taunt: rq.Taunt}, nil
}

// ReportAnswered forwards answer feedback for a remote question.
// Failures are logged, never surfaced.
func (p *Provider) ReportAnswered(ctx context.Context, remoteID string, correct bool) {
	if p.remote == nil || remoteID == "" {
		return
	}
	if err := p.remote.ReportAnswered(ctx, remoteID, correct); err != nil {
		p.log.Warn("Failed to report answer to remote service",
			"remote_id", remoteID, "correct", correct, "error", err)
	}
}

// drainCache pops the first cached remote question whose prompt has not
// been asked yet. The cache is discarded when the opponent changes.
func (p *Provider) drainCache(src *Source, hist *History) (RemoteQuestion, bool) {
	if p.cacheFor != src.OpponentID {
		p.cache = nil
		p.cacheFor = src.OpponentID
		return RemoteQuestion{}, false
	}
	for len(p.cache) > 0 {
		rq := p.cache[0]
		p.cache = p.cache[1:]
		if !hist.HasAsked(rq.Question.Prompt) {
			return rq, true
		}
	}
	return RemoteQuestion{}, false
}

// fetchRemote requests a batch from the remote service, returns the
// first usable question and caches the rest.
func (p *Provider) fetchRemote(ctx context.Context, src *Source, hist *History) (*RemoteQuestion, error) {
	req := src.Remote
	req.AskedPrompts = append([]string(nil), hist.AskedPrompts...)
	req.RecentRemoteIDs = append([]string(nil), hist.RecentRemoteIDs...)

	batch, err := p.remote.GenerateQuestions(ctx, req, PrefetchBatchSize)
	if err != nil {
		return nil, err
	}

	var first *RemoteQuestion
	for _, rq := range batch {
		if err := rq.Question.Validate(); err != nil {
			p.log.Warn("Discarding malformed remote question", "error", err)
			continue
		}
		if hist.HasAsked(rq.Question.Prompt) {
			continue
		}
		if first == nil {
			q := rq
			first = &q
			continue
		}
		p.cache = append(p.cache, rq)
	}
	p.cacheFor = src.OpponentID
	return first, nil
}

// staticQuestion applies the static-selection rule: pick uniformly from
// the unasked part of the pool; once the pool is exhausted across
// battles, forget this opponent's prompts and pick from the full pool
// excluding only the single most recently asked prompt. A pool of size
// one is allowed to repeat.
func (p *Provider) staticQuestion(src *Source, hist *History) (*Result, error) {
	if len(src.StaticPool) == 0 {
		return nil, ErrNoQuestion
	}

	var fresh []Question
	for _, q := range src.StaticPool {
		if !hist.HasAsked(q.Prompt) {
			fresh = append(fresh, q)
		}
	}

	if len(fresh) == 0 {
		lastPrompt := hist.LastPrompt
		hist.Forget(src.PoolPrompts())
		for _, q := range src.StaticPool {
			if q.Prompt != lastPrompt {
				fresh = append(fresh, q)
			}
		}
		if len(fresh) == 0 {
			// Single-question pool: the immediate repeat is allowed.
			fresh = src.StaticPool
		}
	}

	q := fresh[p.rng.Intn(len(fresh))]
	hist.RecordPrompt(q.Prompt)
	return &Result{Question: q}, nil
}
