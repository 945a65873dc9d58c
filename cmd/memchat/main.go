package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/memchat/memchat/chatmem"
	"github.com/memchat/memchat/internal/cli"
	"github.com/memchat/memchat/internal/config"
	"github.com/memchat/memchat/internal/logging"
	"github.com/memchat/memchat/llmcall"
	"github.com/memchat/memchat/tweetgen"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "memchat",
		Short:         "CLI chatbot with sliding-window memory and retrying LLM calls",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newTweetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRemoteCall(cfg *config.Config) (llmcall.RemoteCall, error) {
	caller, err := llmcall.NewGollmCaller(cfg.Provider, cfg.Model, llmcall.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return caller.Call, nil
}

func newChatCmd() *cobra.Command {
	var (
		windowCapacity int
		logLevel       string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation with sliding-window memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("window") {
				cfg.WindowCapacity = windowCapacity
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

			call, err := newRemoteCall(cfg)
			if err != nil {
				return err
			}

			sessionCfg := cfg.SessionConfig()
			sessionCfg.Logger = logger
			session := chatmem.NewSession(call, &sessionCfg)
			logger.Info("session started",
				"provider", cfg.Provider,
				"model", cfg.Model,
				"window_capacity", cfg.WindowCapacity)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return cli.NewChat(session, os.Stdin, os.Stdout).Run(ctx)
		},
	}

	cmd.Flags().IntVar(&windowCapacity, "window", chatmem.DefaultCapacity, "number of conversation turns to remember")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func newTweetCmd() *cobra.Command {
	var (
		req     tweetgen.Request
		asJSON  bool
		retries int
	)

	cmd := &cobra.Command{
		Use:   "tweet",
		Short: "Generate a validated tweet about a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

			call, err := newRemoteCall(cfg)
			if err != nil {
				return err
			}

			gen := tweetgen.NewGenerator(call, cfg.RetryPolicy(), logger)
			gen.SetValidationRetries(retries)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result := gen.Generate(ctx, req)

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(result)
			}
			if !result.Success {
				return fmt.Errorf("tweet generation failed: %s", result.Error)
			}

			color.New(color.FgCyan, color.Bold).Println(result.Data.Tweet)
			fmt.Printf("words: %d  sentiment: %s  retries: %d\n",
				result.Data.WordCount, result.Data.Sentiment, result.RetryCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Topic, "topic", "", "topic to tweet about (required)")
	cmd.Flags().StringVar(&req.Tone, "tone", "casual", "tone: professional, humorous, casual, excited, informative, sarcastic")
	cmd.Flags().IntVar(&req.MaxWords, "max-words", 25, "maximum words in the tweet (5-50)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().IntVar(&retries, "retries", tweetgen.DefaultValidationRetries, "validation retry budget")
	cmd.MarkFlagRequired("topic")
	return cmd
}
