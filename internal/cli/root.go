package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-prompt-panel/internal/clipboard"
	"github.com/dpshade/pocket-prompt-panel/internal/clock"
	"github.com/dpshade/pocket-prompt-panel/internal/config"
	apperrors "github.com/dpshade/pocket-prompt-panel/internal/errors"
	"github.com/dpshade/pocket-prompt-panel/internal/logging"
	"github.com/dpshade/pocket-prompt-panel/internal/optimize"
	"github.com/dpshade/pocket-prompt-panel/internal/service"
	"github.com/dpshade/pocket-prompt-panel/internal/ui"
)

// CLI holds what every command needs once the root command has loaded
// configuration.
type CLI struct {
	cfgFile string
	verbose bool

	cfg        *config.Config
	logger     *zap.Logger
	service    *service.Service
	clipboard  clipboard.Writer
	scheduler  clock.Scheduler
	errHandler apperrors.ErrorHandler
}

// NewRootCommand builds the prompt-panel command tree
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&CLI{}, version)
}

func newRootCommand(c *CLI, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prompt-panel",
		Short: "Terminal prompt manager with tag filtering and prompt optimization",
		Long: `prompt-panel is a small prompt manager for the terminal:
  • 收藏: browse prompts, filter by tag, copy one to the clipboard
  • 优化: rewrite a prompt into a clearer version
  • 推荐: recommendations (coming soon)

Run without a command to open the interactive panel.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ~/.prompt-panel/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging and detailed errors")

	rootCmd.AddCommand(c.listCommand())
	rootCmd.AddCommand(c.tagsCommand())
	rootCmd.AddCommand(c.showCommand())
	rootCmd.AddCommand(c.copyCommand())
	rootCmd.AddCommand(c.optimizeCommand())

	return rootCmd
}

// setup loads configuration, the logger and the prompt catalog. Collaborators
// that are already set are kept.
func (c *CLI) setup() error {
	if c.cfg == nil {
		cfg, err := config.Load(c.cfgFile)
		if err != nil {
			return err
		}
		c.cfg = cfg
	}

	if c.logger == nil {
		logger, err := logging.New(c.cfg.LogFile, c.cfg.LogLevel, c.verbose)
		if err != nil {
			return apperrors.ConfigError("Cannot open log file", err).WithContext("log_file", c.cfg.LogFile)
		}
		c.logger = logger
	}
	c.errHandler = apperrors.NewCLIErrorHandler(c.logger, c.verbose)

	if c.service == nil {
		svc, err := service.NewService(c.cfg, c.logger)
		if err != nil {
			return err
		}
		c.service = svc
	}
	if c.clipboard == nil {
		c.clipboard = clipboard.NewSystem(c.cfg.OSC52)
		c.logger.Debug("System clipboard",
			zap.Bool("available", clipboard.IsClipboardAvailable()),
			zap.Bool("osc52", c.cfg.OSC52))
	}
	if c.scheduler == nil {
		c.scheduler = clock.Real{}
	}
	return nil
}

func (c *CLI) newMachine() *optimize.Machine {
	return optimize.NewMachine(c.scheduler,
		optimize.WithTimings(c.cfg.Timings()),
		optimize.WithLogger(c.logger.Named("optimize")))
}

// runTUI starts the interactive panel
func (c *CLI) runTUI() error {
	machine := c.newMachine()
	defer machine.Stop()

	model := ui.NewModel(ui.Options{
		Service:   c.service,
		Machine:   machine,
		Clipboard: c.clipboard,
		Logger:    c.logger.Named("ui"),
		Theme:     c.cfg.Theme,
		TagLimit:  c.cfg.TagLimit,
	})

	c.logger.Info("Starting panel", zap.String("catalog", c.service.Source()))
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "Panel exited with an error")
	}
	return nil
}

// Execute runs the root command and reports any error on stderr
func Execute(version string) error {
	c := &CLI{}
	err := newRootCommand(c, version).Execute()
	if err == nil {
		return nil
	}

	// Errors raised by cobra itself are usage mistakes
	if !apperrors.IsAppError(err) {
		err = apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, err.Error())
	}

	handler := c.errHandler
	if handler == nil {
		handler = apperrors.NewCLIErrorHandler(c.logger, c.verbose)
	}
	reported := handler.HandleError(err)
	fmt.Fprintln(os.Stderr, reported)
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	return err
}
