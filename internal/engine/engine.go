// Package engine wires the evaluator, advisor and cache behind one facade.
// Construction never fails on a missing model; the engine degrades to
// heuristic-only scoring and says so in the log.
package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"chessadvisor/internal/advisor"
	"chessadvisor/internal/config"
	"chessadvisor/internal/eval"
	"chessadvisor/internal/model"
	"chessadvisor/internal/rules"
	"chessadvisor/internal/storage"
)

// Engine is the top-level analysis facade.
type Engine struct {
	cfg     config.Config
	log     zerolog.Logger
	blender *eval.Blender
	advisor *advisor.Advisor
	cache   *storage.Cache
	scorer  advisor.Evaluator
}

// New builds an engine from configuration. Optional pieces degrade instead
// of failing: a model that does not load pins scoring to the heuristic, and
// a cache that does not open leaves evaluation uncached. Both are logged.
func New(cfg config.Config, log zerolog.Logger) (*Engine, error) {
	artifact, err := model.Load(cfg.ModelPath)
	if err != nil {
		if errors.Is(err, model.ErrSchemaMismatch) {
			log.Warn().Err(err).Str("path", cfg.ModelPath).Msg("model artifact schema mismatch, using heuristic evaluation only")
		} else {
			log.Warn().Err(err).Str("path", cfg.ModelPath).Msg("model artifact not loaded, using heuristic evaluation only")
		}
		artifact = nil
	} else {
		log.Info().Str("path", cfg.ModelPath).Str("fingerprint", artifact.Fingerprint()).Msg("model artifact loaded")
	}

	e := &Engine{
		cfg:     cfg,
		log:     log,
		blender: eval.NewBlender(artifact, cfg.MLWeight, cfg.HeuristicWeight, log),
	}
	e.scorer = e.blender

	if cfg.Cache.Enabled {
		if cache, dir, err := openCache(cfg.Cache.Dir); err != nil {
			log.Warn().Err(err).Msg("evaluation cache unavailable, evaluating uncached")
		} else {
			e.cache = cache
			e.scorer = &cachedScorer{
				cache:       cache,
				blender:     e.blender,
				fingerprint: e.blender.Fingerprint(),
				log:         log,
			}
			log.Info().Str("dir", dir).Msg("evaluation cache enabled")
		}
	}

	e.advisor = advisor.New(e.scorer)
	return e, nil
}

func openCache(dir string) (*storage.Cache, string, error) {
	if dir == "" {
		var err error
		dir, err = storage.CacheDir()
		if err != nil {
			return nil, "", fmt.Errorf("resolve cache dir: %w", err)
		}
	}
	cache, err := storage.Open(dir)
	if err != nil {
		return nil, "", err
	}
	return cache, dir, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	if e.cache != nil {
		return e.cache.Close()
	}
	return nil
}

// ModelLoaded reports whether the learned evaluator is active.
func (e *Engine) ModelLoaded() bool {
	return e.blender.ModelLoaded()
}

// Evaluate scores a position.
func (e *Engine) Evaluate(pos rules.Position) eval.Result {
	return e.scorer.Evaluate(pos)
}

// SuggestMoves returns the top k candidate moves for the side to move. k <= 0
// selects the configured count.
func (e *Engine) SuggestMoves(pos rules.Position, k int) []advisor.Candidate {
	if k <= 0 {
		k = e.cfg.SuggestCount
	}
	return e.advisor.Suggest(pos, k)
}

// CheckBlunder analyzes a played move against the configured threshold.
func (e *Engine) CheckBlunder(before rules.Position, played rules.Move, after rules.Position) advisor.Report {
	return e.advisor.CheckBlunder(before, played, after, e.cfg.BlunderThreshold)
}

// ClassifyState reports the game state of a position.
func (e *Engine) ClassifyState(pos rules.Position) advisor.GameState {
	return advisor.Classify(pos)
}

// cachedScorer checks the persistent cache before evaluating. Cache write
// failures are logged and swallowed; the score is still correct without
// them.
type cachedScorer struct {
	cache       *storage.Cache
	blender     *eval.Blender
	fingerprint string
	log         zerolog.Logger
}

// key includes the halfmove clock because the Zobrist hash does not cover
// it, and the fifty-move rule changes the score.
func (s *cachedScorer) key(pos rules.Position) string {
	return fmt.Sprintf("eval:%016x:%d:%s", pos.Hash(), pos.HalfmoveClock(), s.fingerprint)
}

func (s *cachedScorer) Evaluate(pos rules.Position) eval.Result {
	key := s.key(pos)
	if result, ok := s.cache.Get(key); ok {
		return result
	}
	result := s.blender.Evaluate(pos)
	if err := s.cache.Put(key, result); err != nil {
		s.log.Warn().Err(err).Msg("evaluation cache write failed")
	}
	return result
}
