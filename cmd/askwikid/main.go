package main

import (
	"fmt"
	"os"

	"github.com/askwiki/askwiki/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "askwikid",
		Short: "AskWiki daemon and CLI",
		Long:  "AskWiki daemon for running the Wikipedia chat API server and talking to it",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.RegisterCmd())
	rootCmd.AddCommand(cli.ChatCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
