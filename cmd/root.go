// Package cmd implements the thin CLI adapter over the downloader engine.
// It owns argument parsing, env-var loading of the log settings, signal
// handling and progress rendering; none of that lives in package
// downloader itself. No configuration file is read.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"segfetch/downloader"
	"segfetch/internal"
	"segfetch/progress"
)

var (
	outputPath string
	segments   int
	proxyURL   string
	userAgent  string
	retryTimes int
	chunkSize  int
	timeoutSec int
	quiet      bool
	debug      bool
	logLevel   string
	logFile    string
	noResume   bool
)

var rootCmd = &cobra.Command{
	Use:   "segfetch [OPTIONS] <URL>",
	Short: "Segmented, resumable parallel downloader",
	Long: `segfetch fetches a remote resource as a single local file by issuing
concurrent HTTP byte-range requests against the same origin, writing each
range directly into its final offset in a pre-allocated output file.
Downloads are resumable across process restarts via a sidecar state file.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg := internal.DefaultLogConfig()
		logCfg.LoadFromEnv()
		if logLevel != "" {
			logCfg.LogLevel = logLevel
		}
		logCfg.EnableDebug = debug
		logCfg.QuietMode = quiet
		if logFile != "" {
			logCfg.LogFile = logFile
		}
		return internal.InitLogger(logCfg)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDownload(args[0], !noResume)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <URL>",
	Short: "Resume a previously paused download",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDownload(args[0], true)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output file path or directory")
	rootCmd.PersistentFlags().IntVarP(&segments, "segments", "s", 0, "number of concurrent segments (0 = engine default)")
	rootCmd.PersistentFlags().StringVar(&proxyURL, "proxy", "", "proxy URL (http://, https://, or socks5://)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "User-Agent header sent on every request")
	rootCmd.PersistentFlags().IntVar(&retryTimes, "retry-times", 0, "max attempts per segment (0 = engine default)")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "streaming chunk size in bytes (0 = engine default)")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 0, "per-request timeout in seconds (0 = engine default)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.Flags().BoolVar(&noResume, "no-resume", false, "ignore any existing sidecar state file and start fresh")

	rootCmd.AddCommand(resumeCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func buildConfig() downloader.Config {
	cfg := downloader.DefaultConfig()
	if userAgent != "" {
		cfg.UserAgent = userAgent
	}
	if segments > 0 {
		cfg.SegmentsAmount = segments
	}
	if retryTimes > 0 {
		cfg.RetryTimes = retryTimes
	}
	if chunkSize > 0 {
		cfg.ChunkSize = chunkSize
	}
	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}
	cfg.ProxyURL = proxyURL
	return cfg
}

func runDownload(uri string, resume bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		internal.LogInfo("received signal %v, shutting down gracefully", sig)
		if !quiet {
			fmt.Printf("\nreceived %v, shutting down gracefully...\n", sig)
		}
		cancel()
	}()

	cfg := buildConfig()
	observer := progress.NewBarObserver(quiet)
	coordinator := downloader.NewCoordinator(cfg, observer)

	internal.LogInfo("starting download: %s", uri)

	path, err := coordinator.Download(ctx, uri, downloader.DownloadOptions{
		OutputPathOrDir: outputPath,
		Segments:        segments,
		Resume:          resume,
	})
	if err != nil {
		internal.LogError("download failed: %v", err)
		return err
	}

	internal.LogInfo("download complete: %s", path)
	return nil
}
