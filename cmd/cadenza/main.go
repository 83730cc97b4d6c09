package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/solenne-ai/cadenza/audio"
	"github.com/solenne-ai/cadenza/audio/capture"
	"github.com/solenne-ai/cadenza/collab"
	"github.com/solenne-ai/cadenza/companion"
	"github.com/solenne-ai/cadenza/companion/config"
	"github.com/solenne-ai/cadenza/logging"
	"github.com/solenne-ai/cadenza/presentation"
	"github.com/solenne-ai/cadenza/transcode"
)

var version = "dev"

var (
	configPath string
	verbose    bool
	pretty     bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "cadenza",
		Short: "Real-time musical companion",
		Long:  "Cadenza listens to a live audio signal, analyzes what it hears, and drives a reactive companion.",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to yaml configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Human-readable log output")

	rootCmd.AddCommand(listenCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger installs the process-wide zerolog-backed logger
func setupLogger() logging.Logger {
	logger := logging.NewZerologLogger(os.Stderr, pretty)
	if verbose {
		logger.SetLevel(logging.DebugLevel)
	} else {
		logger.SetLevel(logging.InfoLevel)
	}
	logging.SetGlobalLogger(logger)
	return logger
}

// loadConfig reads the yaml file and applies environment overrides for
// the values usually kept out of it
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CADENZA_TRANSCRIPTION_URL"); v != "" {
		cfg.Collab.TranscriptionURL = v
	}
	if v := os.Getenv("CADENZA_CHAT_URL"); v != "" {
		cfg.Collab.ChatURL = v
	}
	if v := os.Getenv("CADENZA_TOKEN_SECRET"); v != "" {
		cfg.Collab.TokenSecret = v
	}
	return cfg, nil
}

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Analyze the default microphone until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			source := audio.NewFrameSource(cfg.Engine.SampleRate)

			var transcriber companion.Transcriber
			if cfg.Collab.TranscriptionURL != "" {
				transcriber = collab.NewTranscribeClient(cfg.Collab, logger)
			}
			var chatter companion.Chatter
			if cfg.Collab.ChatURL != "" {
				chatter = collab.NewChatClient(cfg.Collab, logger)
			}
			if transcriber == nil {
				logger.Info("no transcription collaborator configured, running analysis only")
			}

			hub := presentation.NewHub(logger)
			server := presentation.NewServer(cfg.Presentation, hub, logger)
			engine := companion.NewEngine(cfg, source, transcriber, chatter, hub, logger)

			micConfig := capture.DefaultConfig()
			micConfig.SampleRate = cfg.Engine.SampleRate
			mic := capture.NewMicrophone(micConfig, source)

			signalCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(signalCtx)
			defer cancel()

			if err := mic.Start(); err != nil {
				return fmt.Errorf("start capture: %w", err)
			}
			defer func() {
				if err := mic.Stop(); err != nil {
					logger.Error(err, "stop capture")
				}
			}()

			go func() {
				defer cancel()
				if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error(err, "presentation server failed")
				}
			}()

			if err := engine.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	var maxSeconds int

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Review a recorded practice clip and print the summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			decoderCfg := transcode.DefaultConfig()
			decoderCfg.SampleRate = cfg.Engine.SampleRate
			if maxSeconds > 0 {
				decoderCfg.MaxDuration = time.Duration(maxSeconds) * time.Second
			}

			clip, err := transcode.NewDecoder(decoderCfg, logger).Decode(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			logger.Info("clip decoded", logging.Fields{
				"path":     args[0],
				"codec":    clip.Codec,
				"duration": clip.Duration.Seconds(),
			})

			review := companion.NewReviewer(cfg).Review(clip.Samples, clip.SampleRate)

			out, err := json.MarshalIndent(review, "", "  ")
			if err != nil {
				return fmt.Errorf("encode review: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSeconds, "max-seconds", 0, "Only review the first N seconds")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cadenza %s\n", version)
		},
	}
}
