// Command sketchtool is a front end over a sketch file: create one, feed
// it keys to get/set/inc/add, or list its header fields.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	root := newRootCommand(logger.Sugar())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	var cfg zap.Config
	if term.IsTerminal(int(os.Stdout.Fd())) {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sketchtool: failed to build logger:", err)
		os.Exit(1)
	}
	return logger
}

func newRootCommand(log *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{
		Use:           "sketchtool",
		Short:         "Inspect and update Count-Min sketch files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newCreateCommand(log),
		newGetCommand(log),
		newSetCommand(log),
		newIncCommand(log),
		newAddCommand(log),
		newListCommand(log),
	)
	return root
}
