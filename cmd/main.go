package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/thomas-vilte/jiralink/internal/action"
	"github.com/thomas-vilte/jiralink/internal/cli/command/checkbranch"
	"github.com/thomas-vilte/jiralink/internal/cli/command/compareversion"
	"github.com/thomas-vilte/jiralink/internal/cli/command/extractkey"
	"github.com/thomas-vilte/jiralink/internal/cli/command/link"
	"github.com/thomas-vilte/jiralink/internal/cli/flags"
	"github.com/thomas-vilte/jiralink/internal/cli/registry"
	cfg "github.com/thomas-vilte/jiralink/internal/config"
	domainErrors "github.com/thomas-vilte/jiralink/internal/errors"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/infrastructure/factory"
	"github.com/thomas-vilte/jiralink/internal/infrastructure/httpclient"
	"github.com/thomas-vilte/jiralink/internal/logger"
	"github.com/thomas-vilte/jiralink/internal/ui"
	"github.com/thomas-vilte/jiralink/internal/version"
	"github.com/urfave/cli/v3"
)

const (
	flushTimeout = 2 * time.Second
	httpTimeout  = 30 * time.Second
)

func main() {
	os.Exit(run(context.Background(), os.Args))
}

func run(ctx context.Context, args []string) int {
	runtime := action.New()

	cfgApp, err := loadConfig(runtime)
	if err != nil {
		ui.HandleAppError(os.Stderr, err, nil)
		return 1
	}

	onRunner := os.Getenv("GITHUB_ACTIONS") == "true"
	environment := "local"
	if onRunner {
		environment = "github-actions"
	}
	if err := logger.Initialize(logger.Options{
		Debug:       cfgApp.Debug || os.Getenv("RUNNER_DEBUG") == "1",
		Verbose:     onRunner,
		Pretty:      !onRunner,
		SentryDSN:   cfgApp.SentryDSN,
		Environment: environment,
		Release:     version.FullVersion(),
	}); err != nil {
		log.Printf("Warning: error reporting is disabled: %v", err)
	}
	defer logger.Flush(flushTimeout)

	ctx, _ = logger.NewRun(ctx)

	translations, err := i18n.NewTranslations(cfgApp.Language, os.Getenv("JIRALINK_LOCALES_DIR"))
	if err != nil {
		log.Printf("Error loading translations: %v", err)
		return 1
	}

	app, err := initializeApp(cfgApp, translations, runtime)
	if err != nil {
		log.Printf("Error starting the cli: %v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, domainErrors.ErrFixVersionMismatch) {
			logger.Warn(ctx, "fix version check failed", "error", err)
		} else {
			logger.Error(ctx, "jiralink failed", err)
		}
		ui.HandleAppError(os.Stderr, err, translations)
		return 1
	}
	return 0
}

// loadConfig reads the optional TOML file named by the config-file input or
// JIRALINK_CONFIG, then overlays the action inputs.
func loadConfig(runtime *action.Runtime) (*cfg.Config, error) {
	path := runtime.Input("config-file")
	if path == "" {
		path = os.Getenv("JIRALINK_CONFIG")
	}

	cfgApp, err := cfg.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	flags.Apply(nil, runtime.Input, cfgApp)
	cfgApp.Language = cfg.GetLocaleConfig(cfgApp.Language)
	return cfgApp, nil
}

func initializeApp(cfgApp *cfg.Config, translations *i18n.Translations, runtime *action.Runtime) (*cli.Command, error) {
	httpClient := httpclient.New("jiralink/"+version.FullVersion(), httpTimeout)
	linkCommand := link.NewLinkCommand(runtime, factory.NewLinkServiceFactory(translations, httpClient))

	registerCommand := registry.NewRegistry(cfgApp, translations)

	if err := registerCommand.Register("link", linkCommand); err != nil {
		return nil, err
	}
	if err := registerCommand.Register("extract-key", extractkey.NewExtractKeyCommand()); err != nil {
		return nil, err
	}
	if err := registerCommand.Register("check-branch", checkbranch.NewCheckBranchCommand()); err != nil {
		return nil, err
	}
	if err := registerCommand.Register("compare-version", compareversion.NewCompareVersionCommand()); err != nil {
		return nil, err
	}

	commands := registerCommand.CreateCommands()

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
	commands = append(commands, helpCommand)

	// Without a subcommand the binary behaves like "link", which is what
	// the action entrypoint runs.
	defaultCommand := linkCommand.CreateCommand(translations, cfgApp)

	return &cli.Command{
		Name:                  "jiralink",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.FullVersion(),
		Description:           translations.GetMessage("app_description", 0, nil),
		Commands:              commands,
		Flags:                 defaultCommand.Flags,
		Action:                defaultCommand.Action,
		EnableShellCompletion: true,
	}, nil
}
