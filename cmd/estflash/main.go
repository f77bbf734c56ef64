package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/estflash/internal/cli"
	"codeberg.org/snonux/estflash/internal/processor"
)

// errReported marks failures whose message was already printed
var errReported = errors.New("reported")

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, &cli.Handlers{
		GUI: func(cmd *cobra.Command) error {
			return withProcessor(flags, func(p *processor.Processor) error {
				return p.RunGUIMode(cmd.Context())
			})
		},
		Study: func(cmd *cobra.Command) error {
			return withProcessor(flags, func(p *processor.Processor) error {
				return p.RunStudy(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
		Import: func(cmd *cobra.Command, path string) error {
			return withProcessor(flags, func(p *processor.Processor) error {
				msg, err := p.ImportFile(cmd.Context(), path)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), msg)
					return errReported
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
		AudioURL: func(cmd *cobra.Command, id string) error {
			return withProcessor(flags, func(p *processor.Processor) error {
				url, err := p.AudioURL(id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			stop()
			os.Exit(130)
		}
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

// withProcessor loads the configuration and runs fn with a processor
func withProcessor(flags *cli.Flags, fn func(*processor.Processor) error) error {
	config, err := cli.LoadConfig(flags)
	if err != nil {
		return err
	}

	p, err := processor.NewProcessor(config)
	if err != nil {
		return err
	}
	defer p.Close()

	return fn(p)
}
