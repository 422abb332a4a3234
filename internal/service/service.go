package service

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-prompt-panel/internal/catalog"
	"github.com/dpshade/pocket-prompt-panel/internal/config"
	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
	"github.com/dpshade/pocket-prompt-panel/internal/filter"
	"github.com/dpshade/pocket-prompt-panel/internal/models"
	"github.com/dpshade/pocket-prompt-panel/internal/storage"
)

// Service provides business logic for prompt management
type Service struct {
	prompts []*models.Prompt // Loaded once, in catalog order
	tags    []string
	source  string
	logger  *zap.Logger
}

// NewService creates a new service instance. The catalog comes from
// cfg.CatalogDir when set, otherwise from the built-in list.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg == nil || cfg.CatalogDir == "" {
		return newService(catalog.Default(), "builtin", logger), nil
	}

	store, err := storage.NewStorage(cfg.CatalogDir, logger)
	if err != nil {
		return nil, err
	}
	prompts, err := store.ListPrompts()
	if err != nil {
		return nil, err
	}
	return newService(prompts, store.GetBaseDir(), logger), nil
}

// NewServiceWithPrompts creates a service over a fixed prompt list
func NewServiceWithPrompts(prompts []*models.Prompt, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newService(prompts, "memory", logger)
}

func newService(prompts []*models.Prompt, source string, logger *zap.Logger) *Service {
	svc := &Service{
		prompts: prompts,
		tags:    filter.CollectTags(prompts),
		source:  source,
		logger:  logger,
	}
	logger.Debug("Service ready",
		zap.String("source", source),
		zap.Int("prompts", len(prompts)),
		zap.Int("tags", len(svc.tags)))
	return svc
}

// Source describes where the catalog was loaded from
func (s *Service) Source() string {
	return s.source
}

// ListPrompts returns all prompts in catalog order
func (s *Service) ListPrompts() []*models.Prompt {
	out := make([]*models.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// GetPrompt returns a prompt by ID
func (s *Service) GetPrompt(id string) (*models.Prompt, error) {
	for _, p := range s.prompts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NotFoundError(fmt.Sprintf("prompt %q", id)).WithContext("id", id)
}

// GetAllTags returns every tag in first-appearance order
func (s *Service) GetAllTags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// FilterPromptsByTags returns prompts carrying any selected tag. An empty
// selection returns everything.
func (s *Service) FilterPromptsByTags(selected filter.Selection) []*models.Prompt {
	return filter.Filter(s.prompts, selected)
}

// SearchPrompts fuzzy matches the query against title and tags, best match
// first. An empty query returns all prompts in catalog order.
func (s *Service) SearchPrompts(query string) []*models.Prompt {
	return search(s.prompts, query)
}

// Browse narrows by search query, then by tag selection
func (s *Service) Browse(query string, selected filter.Selection) []*models.Prompt {
	return filter.Filter(search(s.prompts, query), selected)
}

func search(prompts []*models.Prompt, query string) []*models.Prompt {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]*models.Prompt, len(prompts))
		copy(out, prompts)
		return out
	}

	// Create searchable strings for each prompt
	searchStrings := make([]string, 0, len(prompts))
	for _, p := range prompts {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s %s",
			p.Name,
			p.ID,
			strings.Join(p.Tags, " ")))
	}

	matches := fuzzy.Find(query, searchStrings)

	results := make([]*models.Prompt, 0, len(matches))
	for _, match := range matches {
		results = append(results, prompts[match.Index])
	}
	return results
}
