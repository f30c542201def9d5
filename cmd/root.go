package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/config"
	"github.com/samzong/lmc/internal/git"
	"github.com/samzong/lmc/internal/gitcmd"
	"github.com/samzong/lmc/internal/gitutil"
	"github.com/samzong/lmc/internal/llm"
	"github.com/samzong/lmc/internal/logging"
	"github.com/samzong/lmc/internal/synth"
	"github.com/samzong/lmc/internal/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var ErrMissingRepoPath = errors.New("missing repository path")

// skipConfigAnnotation marks commands that run without loading configuration.
const skipConfigAnnotation = "lmc/skip-config"

var (
	cfgFile     string
	interactive bool
	autoYes     bool
	dryRun      bool
	noVerify    bool
	verbose     bool
	jsonOutput  bool
	rootCtx     context.Context = context.Background()
	rootCmd                     = &cobra.Command{
		Use:   "lmc <repo-path>",
		Short: "lmc - commit messages from a language model",
		Long: `lmc inspects a git working tree, sends the diff of each changed file to a ` +
			`completion service and turns the reply into a commit message.

By default every modified or untracked file gets a suggested message and nothing
is committed. With --interactive each suggestion is shown and, once accepted,
that single file is staged and committed.`,
		Args:              requireRepoPath,
		Version:           fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		PersistentPreRunE: initConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handleErrors(runPipeline(cmd, args[0]))
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// RootCmd returns the root command, for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

// SetContext sets the context used for every blocking operation of a run.
func SetContext(ctx context.Context) {
	rootCtx = ctx
}

func Execute() error {
	rootCmd.SetContext(rootCtx)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $XDG_CONFIG_HOME/lmc/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Show debug logging, including git invocations")

	flags := rootCmd.Flags()
	flags.BoolVarP(&interactive, "interactive", "i", false, "Review each suggestion and commit accepted files one by one")
	flags.BoolVarP(&autoYes, "yes", "y", false, "Accept every suggestion without prompting (interactive mode)")
	flags.BoolVar(&dryRun, "dry-run", false, "Do not stage or commit accepted files (interactive mode)")
	flags.BoolVar(&noVerify, "no-verify", false, "Skip pre-commit and commit-msg hooks")
	flags.BoolVar(&jsonOutput, "json", false, "Print batch results as JSON")
	flags.String("endpoint", "", "Completion endpoint URL (overrides config)")
	flags.String("token", "", "Bearer token for the completion endpoint (overrides config)")
	flags.String("model", "", "Model identifier sent with each request (overrides config)")
	flags.String("provider", "", "Transport: completions or openai (overrides config)")
	flags.Duration("timeout", 0, "Limit for each completion request, 0 for none (overrides config)")
}

// flagKeys maps root command flags onto configuration keys.
var flagKeys = map[string]string{
	"endpoint": "endpoint",
	"token":    "token",
	"model":    "model",
	"provider": "provider",
	"timeout":  "request_timeout",
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfigAnnotation] == "true" {
		return nil
	}
	if err := config.LoadDotEnv("."); err != nil {
		return err
	}
	if err := config.InitConfig(cfgFile); err != nil {
		return errors.Wrap(err, "configuration error")
	}
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "bind --%s", flag)
			}
		}
	}
	return nil
}

func requireRepoPath(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return errors.WithHint(ErrMissingRepoPath, "usage: lmc <repo-path> [--interactive]")
	case 1:
		return nil
	default:
		return errors.Newf("expected one repository path, received %d arguments", len(args))
	}
}

func handleErrors(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workflow.ErrNoChanges):
		fmt.Fprintln(errWriter(), "No changes detected.")
		return nil
	case errors.Is(err, workflow.ErrNoValidFiles):
		fmt.Fprintln(errWriter(), "No valid files to process.")
		return nil
	default:
		return err
	}
}

func runPipeline(cmd *cobra.Command, repoPath string) error {
	info, err := os.Stat(repoPath)
	if err != nil {
		return errors.Newf("the specified path does not exist: %s", repoPath)
	}
	if !info.IsDir() {
		return errors.Wrapf(git.ErrInvalidRepoPath, "%s is not a directory", repoPath)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return errors.Wrap(err, "configuration error")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration error")
	}

	logger := logging.New(logging.Options{Verbose: verbose, Writer: errWriter()})
	defer func() { _ = logger.Sync() }()

	root := repoPath
	if repo, err := gitutil.Probe(repoPath); err != nil {
		fmt.Fprintf(errWriter(), "Warning: %s does not look like a git repository: %v\n", repoPath, err)
	} else {
		root = repo.Root
		logger.Debug("repository opened", zap.String("root", repo.Root), zap.String("branch", repo.Branch))
	}

	gitClient := git.NewClient(git.Options{
		Dir:      root,
		Logger:   logger,
		Executor: gitcmd.Runner{Dir: root, Timeout: cfg.GitTimeout, Logger: logger},
	})

	completer, err := llm.NewClient(llm.Options{
		Provider: cfg.Provider,
		Endpoint: cfg.Endpoint,
		Token:    cfg.Token,
		Timeout:  cfg.RequestTimeout,
		Logger:   logger,
	})
	if err != nil {
		return errors.Wrap(err, "configuration error")
	}

	synthesizer := synth.New(gitClient, completer, synth.Options{Model: cfg.Model, Logger: logger})
	pipeline := workflow.NewPipeline(gitClient, synthesizer, workflow.Options{
		Root:      root,
		DryRun:    dryRun,
		NoVerify:  noVerify,
		OutWriter: outWriter(),
		ErrWriter: errWriter(),
		Logger:    logger,
	})
	pipeline.SetPrompter(&workflow.InteractivePrompter{
		ErrWriter: errWriter(),
		Stdin:     cmd.InOrStdin(),
		AutoYes:   autoYes,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if interactive {
		fmt.Fprintln(errWriter(), "Starting interactive mode...")
		result, err := pipeline.RunInteractive(ctx)
		printInteractiveSummary(result)
		return err
	}

	result, err := pipeline.RunBatch(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printBatchJSON(result)
	}
	printBatchResult(result)
	return nil
}
