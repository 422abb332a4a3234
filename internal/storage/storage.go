package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
	"github.com/dpshade/pocket-prompt-panel/internal/models"
)

// Storage reads a prompt catalog from a directory of markdown files with
// YAML frontmatter. It never writes.
type Storage struct {
	rootPath string
	logger   *zap.Logger
}

// NewStorage creates a storage reading from rootPath
func NewStorage(rootPath string, logger *zap.Logger) (*Storage, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, apperrors.CatalogError(rootPath, err)
	}
	if !info.IsDir() {
		return nil, apperrors.CatalogError(rootPath, fmt.Errorf("not a directory"))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Storage{
		rootPath: rootPath,
		logger:   logger,
	}, nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// LoadPrompt loads a prompt from a markdown file relative to the root
func (s *Storage) LoadPrompt(path string) (*models.Prompt, error) {
	content, err := os.ReadFile(filepath.Join(s.rootPath, path))
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	prompt, err := parsePromptFile(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt: %w", err)
	}

	prompt.FilePath = path
	if prompt.ID == "" {
		prompt.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return prompt, nil
}

// ListPrompts returns every prompt under the root in lexical path order.
// Files that fail to parse are logged and skipped.
func (s *Storage) ListPrompts() ([]*models.Prompt, error) {
	var prompts []*models.Prompt

	err := filepath.Walk(s.rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		relPath, _ := filepath.Rel(s.rootPath, path)
		prompt, err := s.LoadPrompt(relPath)
		if err != nil {
			appErr := apperrors.CorruptedFileError(relPath, err)
			s.logger.Warn(appErr.Message, zap.String("path", relPath), zap.Error(err))
			return nil
		}

		prompts = append(prompts, prompt)
		return nil
	})
	if err != nil {
		return nil, apperrors.CatalogError(s.rootPath, err)
	}

	s.logger.Info("Catalog loaded", zap.String("dir", s.rootPath), zap.Int("prompts", len(prompts)))
	return prompts, nil
}

// Helper functions

func parsePromptFile(content []byte) (*models.Prompt, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))

	// Check for frontmatter delimiter
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return nil, fmt.Errorf("missing frontmatter delimiter")
	}

	var frontmatterLines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}
	if !closed {
		return nil, fmt.Errorf("unterminated frontmatter")
	}

	var prompt models.Prompt
	if err := yaml.Unmarshal([]byte(strings.Join(frontmatterLines, "\n")), &prompt); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if prompt.Name == "" {
		return nil, fmt.Errorf("frontmatter has no title")
	}

	var contentLines []string
	for scanner.Scan() {
		contentLines = append(contentLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	prompt.Content = strings.TrimSpace(strings.Join(contentLines, "\n"))

	return &prompt, nil
}
