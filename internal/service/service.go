package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/MimeLyc/idiom-merger/internal/config"
	"github.com/MimeLyc/idiom-merger/internal/errs"
	"github.com/MimeLyc/idiom-merger/internal/idioms"
	"github.com/MimeLyc/idiom-merger/internal/matcher"
	"github.com/MimeLyc/idiom-merger/internal/merger"
	"github.com/MimeLyc/idiom-merger/pkg/file"
	"github.com/MimeLyc/idiom-merger/pkg/icron"
	"github.com/MimeLyc/idiom-merger/pkg/log"
)

// VocabularyService keeps the working idiom vocabulary and its matcher
// in memory and swaps them atomically on reload.
type VocabularyService struct {
	cfg   config.Config
	cron  *cron.Cron
	group singleflight.Group

	mu         sync.RWMutex
	vocabulary []string
	matcher    *matcher.PhraseMatcher
	merger     *merger.Merger
	loadedAt   time.Time
}

func NewVocabularyService(cfg config.Config, cron *cron.Cron) *VocabularyService {
	return &VocabularyService{
		cfg:  cfg,
		cron: cron,
	}
}

// Reload loads the vocabulary and the matcher blob. Concurrent callers
// share one load. On error the previous state stays in place.
func (s *VocabularyService) Reload(ctx context.Context) error {
	_, err, _ := s.group.Do("reload", func() (any, error) {
		return nil, s.reload(ctx)
	})
	return err
}

func (s *VocabularyService) reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()

	loader, err := s.cfg.IdiomsLoader()
	if err != nil {
		return err
	}

	var (
		vocabulary []string
		loaded     *matcher.PhraseMatcher
		g          errgroup.Group
	)

	g.Go(func() error {
		v, err := idioms.Collect(loader.Load(s.cfg.Dictionary.TargetOnly))
		if err != nil {
			return err
		}
		vocabulary = v
		return nil
	})

	g.Go(func() error {
		m, err := matcher.NewLoader(s.cfg.Matcher.Path).Load()
		if err != nil {
			if s.cfg.Matcher.BuildIfMissing && errs.IsKind(err, errs.FileNotFound) {
				return nil
			}
			return err
		}
		loaded = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	stamp := started
	if loaded == nil {
		log.Info("Matcher blob %s missing, building from %d idioms", s.cfg.Matcher.Path, len(vocabulary))
		loaded, err = matcher.Build(idioms.Values(vocabulary), s.cfg.Matcher.FoldCase)
		if err != nil {
			return err
		}
		if err := matcher.Save(s.cfg.Matcher.Path, loaded, s.cfg.Compression()); err != nil {
			return err
		}
		// the blob written here is not a change to reload for
		if saved, err := file.ModTime(s.cfg.Matcher.Path); err == nil && saved.After(stamp) {
			stamp = saved
		}
	}

	opts := []merger.Option{merger.WithLanguage(s.cfg.Merge.Language)}

	s.mu.Lock()
	s.vocabulary = vocabulary
	s.matcher = loaded
	s.merger = merger.New(loaded, opts...)
	s.loadedAt = stamp
	s.mu.Unlock()

	log.Info("Loaded %d idioms from %s and %d patterns from %s in %s",
		len(vocabulary), s.cfg.Dictionary.Path, loaded.Len(), s.cfg.Matcher.Path, time.Since(started).Round(time.Millisecond))
	return nil
}

// Schedule registers a cron job that reloads when the dictionary, the
// cases file or the matcher blob changed since the last load. It is a
// no-op without a reload expression.
func (s *VocabularyService) Schedule(ctx context.Context) error {
	if s.cfg.Reload.CronExpr == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Reload.CronExpr, func() {
		s.tick(ctx)
	}); err != nil {
		return errs.Wrap(err, errs.Config, "schedule reload").WithContext("cron", s.cfg.Reload.CronExpr)
	}

	if info, err := icron.GetTriggerInfo(s.cfg.Reload.CronExpr, time.Now()); err == nil {
		log.Info("Reload scheduled %s", info)
	}
	return nil
}

// tick reports whether it reloaded.
func (s *VocabularyService) tick(ctx context.Context) bool {
	watched := []string{s.cfg.Dictionary.Path, s.cfg.Matcher.Path}
	if s.cfg.Dictionary.CasesFile != "" {
		watched = append(watched, s.cfg.Dictionary.CasesFile)
	}

	if !file.ChangedSince(s.LoadedAt(), watched...) {
		log.Debug("Idiom sources unchanged since %s", s.LoadedAt().Format(time.RFC3339))
		return false
	}

	if err := s.Reload(ctx); err != nil {
		errs.Handle(err)
		return false
	}
	return true
}

// Merge merges idioms in text using the current matcher.
func (s *VocabularyService) Merge(text string) (merger.Result, error) {
	s.mu.RLock()
	m := s.merger
	s.mu.RUnlock()

	if m == nil {
		return merger.Result{}, errs.New(errs.Validation, "vocabulary not loaded")
	}
	return m.Merge(text), nil
}

func (s *VocabularyService) Vocabulary() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.vocabulary)
}

func (s *VocabularyService) Matcher() *matcher.PhraseMatcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher
}

func (s *VocabularyService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
