// Command berliner resolves location descriptions against a UN/LOCODE
// catalog.
//
// Usage:
//
//	berliner query 3 Springfield [CO] US
//	berliner point 40.71 -74.00 25
//	berliner shell
//
// The catalog path and options come from the environment (or a .env file):
// BERLIN_DATA, BERLIN_SCORING, BERLIN_LOG_LEVEL.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreiashu/berlin"
	"github.com/andreiashu/berlin/internal/commands"
)

type app struct {
	logger  *zap.Logger
	handler *commands.Handler
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "berliner",
		Short:         "Resolve location descriptions against a UN/LOCODE catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.OutOrStdout())
		},
	}

	for _, c := range commands.Commands() {
		if c == commands.Help {
			continue
		}
		root.AddCommand(a.commandFor(c))
	}
	root.AddCommand(a.shellCmd())

	err := root.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) init(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a.logger, err = newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	scoring, err := cfg.scoring()
	if err != nil {
		return err
	}

	cat, err := berlin.Load(cfg.DataPath, berlin.WithLogger(a.logger), berlin.WithScoring(scoring))
	if err != nil {
		return err
	}
	if report := cat.Report(); !report.OK() {
		a.logger.Warn("catalog loaded with defects", zap.Int("defects", len(report.Defects)))
	}

	a.handler, err = commands.NewHandler(cat, out, a.logger)
	return err
}

// commandFor wraps one command. Flag parsing is disabled so that negative
// coordinates and [TAG] tokens reach the handler untouched.
func (a *app) commandFor(c commands.Command) *cobra.Command {
	aliases := make([]string, 0, len(c.Aliases()))
	for _, al := range c.Aliases() {
		aliases = append(aliases, strings.ToLower(al))
	}
	return &cobra.Command{
		Use:                strings.TrimSpace(strings.ToLower(c.String()) + " " + c.Usage()),
		Aliases:            aliases,
		Short:              c.Doc(),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.handler.Run(c, args)
		},
	}
}

func (a *app) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Read commands from standard input, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.shell(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func (a *app) shell(in io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToUpper(line) {
		case "QUIT", "EXIT":
			return nil
		}
		if err := a.handler.Exec(line); err != nil {
			fmt.Fprintf(errOut, "[ERROR] %v\n", err)
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
