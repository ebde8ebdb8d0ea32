package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"pdfqa/internal/answer"
	"pdfqa/internal/answer/huggingface"
	"pdfqa/internal/answer/lexical"
	"pdfqa/internal/config"
	"pdfqa/internal/docstore/memory"
	"pdfqa/internal/domain"
	"pdfqa/internal/language"
	"pdfqa/internal/pdftext"
	"pdfqa/internal/service"
	"pdfqa/internal/translate"
	"pdfqa/internal/translate/google"
	"pdfqa/internal/translate/vertex"
)

// app holds the assembled pipeline and everything that needs closing.
type app struct {
	svc     *service.QAService
	engine  *answer.Engine
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// assemble wires components selected by cfg.
func assemble(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*app, error) {
	a := &app{}

	var backend domain.TranslationService
	switch cfg.Translator.Type {
	case "google", "":
		g := cfg.Translator.Google
		if g == nil {
			g = &config.GoogleTranslateConfig{}
		}
		backend = google.NewClient(google.Config{
			BaseURL:    g.BaseURL,
			Timeout:    time.Duration(g.TimeoutSecs) * time.Second,
			MaxRetries: g.MaxRetries,
		})
	case "vertex":
		if cfg.Translator.Vertex == nil {
			return nil, errors.New("vertex translator config missing")
		}
		v := cfg.Translator.Vertex
		tr, err := vertex.NewTranslator(ctx, vertex.Config{
			ProjectID:       v.ProjectID,
			Region:          v.Region,
			Model:           v.Model,
			CredentialsFile: v.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("vertex translator init failed: %w", err)
		}
		a.closers = append(a.closers, tr.Close)
		backend = tr
	case "noop", "none":
		backend = translate.Identity{}
	default:
		return nil, fmt.Errorf("unknown translator: %s", cfg.Translator.Type)
	}

	var cache translate.Cache
	switch cfg.Translator.Cache.Type {
	case "memory", "":
		cache = translate.NewMemoryCache(cfg.Translator.Cache.MaxEntries)
	case "redis":
		r := cfg.Translator.Cache.Redis
		if r == nil {
			_ = a.Close()
			return nil, errors.New("redis cache config missing")
		}
		rc, err := translate.NewRedisCache(ctx, translate.RedisOptions{
			Addr:     r.Addr,
			Password: os.Getenv(r.PasswordEnv),
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		cache = rc
	case "none":
	default:
		_ = a.Close()
		return nil, fmt.Errorf("unknown translation cache: %s", cfg.Translator.Cache.Type)
	}
	if cache != nil {
		a.closers = append(a.closers, cache.Close)
		backend = translate.NewCachedService(backend, cache, time.Duration(cfg.Translator.Cache.TTLSecs)*time.Second, log)
	}

	var load answer.Loader
	switch cfg.Answer.Type {
	case "lexical", "":
		load = lexical.Load
	case "huggingface":
		h := cfg.Answer.HuggingFace
		if h == nil {
			_ = a.Close()
			return nil, errors.New("huggingface answer config missing")
		}
		load = huggingface.Loader(huggingface.Config{
			BaseURL:   h.BaseURL,
			APIKeyEnv: h.APIKeyEnv,
			Model:     h.Model,
			Timeout:   time.Duration(h.TimeoutSecs) * time.Second,
		})
	default:
		_ = a.Close()
		return nil, fmt.Errorf("unknown answer model: %s", cfg.Answer.Type)
	}
	a.engine = answer.NewEngine(load, log)
	a.closers = append(a.closers, a.engine.Close)

	a.svc = service.NewQAService(
		pdftext.NewExtractor(),
		memory.NewStorage(),
		language.NewDetector(cfg.Language.MinConfidence),
		translate.NewAdapter(backend, log),
		a.engine,
		service.Options{FallbackToEnglish: cfg.Translator.FallbackToEnglish},
		log,
	)
	return a, nil
}
