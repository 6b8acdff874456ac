package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modserve-project/modserve-go/external"
	"github.com/modserve-project/modserve-go/internal/server"
	"github.com/modserve-project/modserve-go/internal/version"
	"github.com/modserve-project/modserve-go/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "modserve",
		Short:         "modserve is a modular HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), validateCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <configDir>",
		Short: "Start the server with the given config directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := args[0]
			if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
				return fmt.Errorf("not a valid config directory: %s", configDir)
			}

			logger.Infof("starting modserve %s", version.Version)
			srv, err := server.New(configDir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <configDir>",
		Short: "Validate the site configuration without serving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := server.NewRegistry(external.NewManager(""))
			if err != nil {
				return err
			}
			snap, err := reg.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("configuration valid (%d sites)\n", len(snap.Sites.All()))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Version)
		},
	}
}
