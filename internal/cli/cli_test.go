package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dpshade/pocket-prompt-panel/internal/clipboard"
	"github.com/dpshade/pocket-prompt-panel/internal/clock"
	"github.com/dpshade/pocket-prompt-panel/internal/config"
	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
	"github.com/dpshade/pocket-prompt-panel/internal/optimize"
	"github.com/dpshade/pocket-prompt-panel/internal/service"
)

type fakeClipboard struct {
	writes []string
	err    error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

func newTestCLI(t *testing.T) (*CLI, *fakeClipboard) {
	t.Helper()

	cfg := config.Default()
	cfg.Animation = config.AnimationConfig{
		AnalyzeDelay:   "1ms",
		GenerateDelay:  "1ms",
		CompleteDelay:  "1ms",
		RevealInterval: "1ms",
		CopiedDuration: "1s",
	}

	logger := zap.NewNop()
	svc, err := service.NewService(cfg, logger)
	require.NoError(t, err)

	clip := &fakeClipboard{}
	return &CLI{
		cfg:       cfg,
		logger:    logger,
		service:   svc,
		clipboard: clip,
		scheduler: clock.Real{},
	}, clip
}

func run(c *CLI, args ...string) (string, error) {
	cmd := newRootCommand(c, "test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListTable(t *testing.T) {
	c, _ := newTestCLI(t)

	out, err := run(c, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2+7)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "--"))
	assert.True(t, strings.HasPrefix(lines[2], "writing-assistant"))
	assert.Contains(t, lines[2], "写作助手")
}

func TestListByTag(t *testing.T) {
	c, _ := newTestCLI(t)

	out, err := run(c, "list", "--tag", "#写作", "--format", "ids")
	require.NoError(t, err)
	assert.Equal(t, "writing-assistant\narticle-outline\n", out)

	out, err = run(c, "list", "-t", "#翻译", "-t", "#雅思", "-f", "ids")
	require.NoError(t, err)
	assert.Equal(t, "translation-assistant\nielts-course\n", out)
}

func TestListNoMatches(t *testing.T) {
	c, _ := newTestCLI(t)

	out, err := run(c, "list", "--tag", "#不存在")
	require.NoError(t, err)
	assert.Equal(t, "没有匹配的提示词\n", out)
}

func TestListJSON(t *testing.T) {
	c, _ := newTestCLI(t)

	out, err := run(c, "list", "--format", "json")
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 7)
	assert.Equal(t, "writing-assistant", decoded[0]["id"])
	assert.Equal(t, "写作助手", decoded[0]["title"])
}

func TestListRejectsUnknownFormat(t *testing.T) {
	c, _ := newTestCLI(t)

	_, err := run(c, "list", "--format", "csv")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

func TestTags(t *testing.T) {
	c, _ := newTestCLI(t)

	out, err := run(c, "tags")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(c.service.GetAllTags(), "\n")+"\n", out)
}

func TestShow(t *testing.T) {
	c, _ := newTestCLI(t)
	prompt, err := c.service.GetPrompt("code-debugging")
	require.NoError(t, err)

	out, err := run(c, "show", "code-debugging")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimRight(prompt.Content, "\n")+"\n", out)

	out, err = run(c, "show", "code-debugging", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"role": "user"`)

	out, err = run(c, "show", "code-debugging", "-f", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# 代码调试"))
}

func TestShowErrors(t *testing.T) {
	c, _ := newTestCLI(t)

	_, err := run(c, "show", "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	_, err = run(c, "show", "code-debugging", "--format", "yaml")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))

	_, err = run(c, "show")
	assert.Error(t, err)
}

func TestCopy(t *testing.T) {
	c, clip := newTestCLI(t)
	prompt, err := c.service.GetPrompt("reading-notes")
	require.NoError(t, err)

	out, err := run(c, "copy", "reading-notes")
	require.NoError(t, err)
	assert.Equal(t, clipboard.CopiedMessage+"\n", out)
	assert.Equal(t, []string{prompt.Content}, clip.writes)
}

func TestCopyWithoutClipboardUtility(t *testing.T) {
	c, clip := newTestCLI(t)
	clip.err = clipboard.NewClipboardError()

	out, err := run(c, "copy", "reading-notes")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeClipboardUnavailable))
	assert.NotEmpty(t, apperrors.GetAppError(err).Details)
}

func TestOptimizeStreamsResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, clip := newTestCLI(t)
	c.errHandler = apperrors.NewCLIErrorHandler(c.logger, false)

	var out, errOut bytes.Buffer
	require.NoError(t, c.optimize(context.Background(), &out, &errOut, "ab", true))

	result := optimize.CannedResults[2]
	assert.True(t, strings.HasPrefix(out.String(), optimize.PhaseAnalyzing.Label()+"\n"))
	assert.Contains(t, out.String(), result+"\n"+clipboard.CopiedMessage+"\n")
	assert.Equal(t, []string{result}, clip.writes)
	assert.Empty(t, errOut.String())
}

func TestOptimizeCopyFailureIsWarning(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, clip := newTestCLI(t)
	c.errHandler = apperrors.NewCLIErrorHandler(c.logger, false)
	clip.err = clipboard.NewClipboardError()

	var out, errOut bytes.Buffer
	require.NoError(t, c.optimize(context.Background(), &out, &errOut, "abc", true))

	assert.Contains(t, out.String(), optimize.CannedResults[0])
	assert.NotContains(t, out.String(), clipboard.CopiedMessage)
	assert.Contains(t, errOut.String(), "WARNING")
}

func TestOptimizeBlankInputPrintsNotice(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, clip := newTestCLI(t)

	var out, errOut bytes.Buffer
	require.NoError(t, c.optimize(context.Background(), &out, &errOut, "   ", true))

	assert.Equal(t, optimize.EmptyInputNotice+"\n", out.String())
	assert.Empty(t, clip.writes)
}

func TestOptimizeCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, _ := newTestCLI(t)
	c.cfg.Animation.AnalyzeDelay = "1h"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	err := c.optimize(ctx, &out, &errOut, "hello", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCancelled))
	assert.Equal(t, apperrors.SeverityInfo, apperrors.GetAppError(err).Severity)
}

func TestSetupFillsMissingCollaborators(t *testing.T) {
	c, _ := newTestCLI(t)
	core, logs := observer.New(zapcore.DebugLevel)
	c.logger = zap.New(core)
	c.clipboard = nil
	c.scheduler = nil

	require.NoError(t, c.setup())

	assert.IsType(t, &clipboard.System{}, c.clipboard)
	assert.Equal(t, clock.Real{}, c.scheduler)
	assert.NotNil(t, c.errHandler)

	entries := logs.FilterMessage("System clipboard").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "available")
	assert.Equal(t, false, entries[0].ContextMap()["osc52"])
}

func TestOptimizeCommand(t *testing.T) {
	c, _ := newTestCLI(t)

	out, err := run(c, "optimize", "a", "b")
	require.NoError(t, err)
	// "a b" is three characters
	assert.Contains(t, out, optimize.CannedResults[0])
}
