package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-prompt-panel/internal/clipboard"
	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
	"github.com/dpshade/pocket-prompt-panel/internal/filter"
	"github.com/dpshade/pocket-prompt-panel/internal/models"
	"github.com/dpshade/pocket-prompt-panel/internal/optimize"
	"github.com/dpshade/pocket-prompt-panel/internal/renderer"
)

func (c *CLI) listCommand() *cobra.Command {
	var tags []string
	var query string
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List prompts",
		Long:    `List prompts, optionally narrowed by a fuzzy search and by tags. A prompt matches when it carries any of the given tags.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts := c.service.Browse(query, filter.NewSelection(tags...))
			return formatOutput(cmd.OutOrStdout(), prompts, format)
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "only prompts with this tag (repeatable)")
	cmd.Flags().StringVarP(&query, "search", "s", "", "fuzzy search on title and tags")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, ids or json")
	return cmd
}

func (c *CLI) tagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List all tags in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, tag := range c.service.GetAllTags() {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

func (c *CLI) showCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		Short:   "Show a prompt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			prompt, err := c.service.GetPrompt(args[0])
			if err != nil {
				return err
			}
			out, err := renderer.NewRenderer(prompt).Render(format)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "Failed to render prompt")
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", renderer.FormatText, "output format: text, json or markdown")
	return cmd
}

func (c *CLI) copyCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a prompt to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			prompt, err := c.service.GetPrompt(args[0])
			if err != nil {
				return err
			}
			content, err := renderer.NewRenderer(prompt).Render(format)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "Failed to render prompt")
			}

			statusMsg, err := clipboard.CopyWithFallback(c.clipboard, content)
			if err != nil {
				return err
			}
			c.logger.Info("Prompt copied", zap.String("prompt", prompt.ID), zap.String("format", format))
			fmt.Fprintln(cmd.OutOrStdout(), statusMsg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", renderer.FormatText, "copy format: text, json or markdown")
	return cmd
}

func (c *CLI) optimizeCommand() *cobra.Command {
	var copyResult bool

	cmd := &cobra.Command{
		Use:   "optimize <text...>",
		Short: "Optimize a prompt and print the result as it is revealed",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return c.optimize(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), strings.Join(args, " "), copyResult)
		},
	}

	cmd.Flags().BoolVarP(&copyResult, "copy", "c", false, "copy the result to the clipboard")
	return cmd
}

// optimize runs one session on the configured scheduler, printing each phase
// label and then the result as its characters are revealed.
func (c *CLI) optimize(ctx context.Context, out, errOut io.Writer, input string, copyResult bool) error {
	machine := c.newMachine()
	defer machine.Stop()

	machine.Optimize(input)
	s := machine.Snapshot()
	if s.IsNotice() {
		fmt.Fprintln(out, s.Result)
		return nil
	}

	fmt.Fprintln(out, s.Phase.Label())
	lastPhase := s.Phase
	printed := 0

	for s.Optimizing || s.Phase != optimize.PhaseIdle {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return apperrors.Cancelled("Optimization cancelled", ctx.Err())
		case <-machine.Changes():
		}

		s = machine.Snapshot()
		if s.Phase != lastPhase {
			if label := s.Phase.Label(); label != "" {
				fmt.Fprintln(out, label)
			}
			lastPhase = s.Phase
		}

		if !s.Optimizing && s.Revealed > printed {
			runes := []rune(s.Result)
			fmt.Fprint(out, string(runes[printed:s.Revealed]))
			printed = s.Revealed
		}
	}
	fmt.Fprintln(out)

	if copyResult && s.Result != "" {
		if err := machine.Copy(c.clipboard); err != nil {
			// The result is already on screen; a clipboard problem is only a warning
			fmt.Fprintln(errOut, c.errHandler.FormatError(err))
			return nil
		}
		fmt.Fprintln(out, clipboard.CopiedMessage)
	}
	return nil
}

func checkFormat(format string) error {
	switch format {
	case renderer.FormatText, renderer.FormatJSON, renderer.FormatMarkdown:
		return nil
	default:
		return apperrors.InputError(fmt.Sprintf("Unknown format %q", format)).
			WithDetails("use text, json or markdown")
	}
}

// formatOutput formats prompts for output
func formatOutput(out io.Writer, prompts []*models.Prompt, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(prompts)
	case "ids":
		for _, p := range prompts {
			fmt.Fprintln(out, p.ID)
		}
	case "table", "":
		if len(prompts) == 0 {
			fmt.Fprintln(out, "没有匹配的提示词")
			return nil
		}
		rows := [][]string{{"ID", "标题", "标签", "标记"}}
		for _, p := range prompts {
			rows = append(rows, []string{p.ID, p.Name, strings.Join(p.Tags, " "), p.Badge()})
		}
		writeTable(out, rows)
	default:
		return apperrors.InputError(fmt.Sprintf("Unknown format %q", format)).
			WithDetails("use table, ids or json")
	}
	return nil
}

// writeTable pads columns by display width so CJK titles line up
func writeTable(out io.Writer, rows [][]string) {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
			} else {
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " "))

		if r == 0 {
			rules := make([]string, len(widths))
			for i, w := range widths {
				rules[i] = strings.Repeat("-", w)
			}
			fmt.Fprintln(out, strings.Join(rules, "  "))
		}
	}
}
