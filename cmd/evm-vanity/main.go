package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/screa/evm-vanity-miner/internal/config"
	"github.com/screa/evm-vanity-miner/internal/crypto"
	logpkg "github.com/screa/evm-vanity-miner/internal/logger"
	"github.com/screa/evm-vanity-miner/internal/sysinfo"
	minerpkg "github.com/screa/evm-vanity-miner/pkg/miner"
	"github.com/screa/evm-vanity-miner/pkg/types"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "evm-vanity",
		Short: "Parallel EVM vanity address search",
		Long: `A command line utility that searches for an EVM account whose address
starts and/or ends with a given hex pattern. Each attempt draws a fresh
secp256k1 secret from the OS CSPRNG and hashes the public key with keccak256.`,
		Example: `  evm-vanity --prefix dead
  evm-vanity --prefix dead --suffix beef -t 8
  evm-vanity -p cafe -s`,
		Run: runMiner,
	}

	rootCmd.Flags().StringVar(&cfg.Prefix, "prefix", "", "Require the address to start with this hex")
	rootCmd.Flags().StringVar(&cfg.Suffix, "suffix", "", "Require the address to end with this hex")
	rootCmd.Flags().StringVarP(&cfg.Pattern, "pattern", "p", "", "Legacy: single pattern, a prefix unless -s is set")
	rootCmd.Flags().BoolVarP(&cfg.SuffixMode, "suffix-mode", "s", false, "Legacy: treat -p as a suffix instead of a prefix")
	rootCmd.Flags().BoolVarP(&cfg.CaseSensitive, "case-sensitive", "c", false, "Compare byte for byte against the lowercase address")
	rootCmd.Flags().IntVarP(&cfg.Workers, "threads", "t", runtime.NumCPU(), "Number of worker goroutines")
	rootCmd.Flags().StringVarP(&cfg.Engine, "engine", "e", crypto.EngineDecred, "Derivation engine: "+strings.Join(crypto.Engines, ", "))
	rootCmd.Flags().IntVarP(&cfg.LogInterval, "log-interval", "i", 5, "Progress interval in seconds")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Also append output to this file")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	rootCmd.MarkFlagsMutuallyExclusive("pattern", "prefix")
	rootCmd.MarkFlagsMutuallyExclusive("pattern", "suffix")

	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error and usage
		os.Exit(1)
	}
}

func runMiner(cmd *cobra.Command, args []string) {
	// Validate configuration before anything is spawned
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	setupLogging()
	miner, err := minerpkg.NewMiner(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	spec := miner.Spec()
	logger.Printf("Searching for EVM vanity address...")
	logger.Printf("Pattern: %s", spec)
	logger.Printf("Case sensitive: %v", spec.CaseSensitive)
	logger.Printf("Threads: %d (%s)", cfg.Workers, sysinfo.Summary())
	logger.Printf("Engine: %s", cfg.Engine)
	logger.Printf("Expected attempts: ~%.0f", spec.Difficulty())
	if spec.Unmatchable() {
		logger.Warnf("Case-sensitive pattern has uppercase letters but addresses are compared in lowercase: this search will never finish")
	}
	logger.Printf("Press Ctrl+C to stop")

	result, err := miner.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if result == nil {
		logger.Printf("Search stopped by user after %d attempts", miner.Stats().Attempts)
		return
	}
	printResult(result)
}

func printResult(r *types.Result) {
	logger.Successf("Found vanity address after %d attempts in %v!", r.Attempts, r.Duration.Round(time.Millisecond))
	logger.Printf("Address:     %s", r.Wallet.Address)
	logger.Printf("Checksum:    %s", r.Wallet.Checksum)
	logger.Printf("Private key: %s", r.Wallet.SecretHex)
	if r.Wallet.HasMnemonic() {
		logger.Printf("Mnemonic:    %s", r.Wallet.Mnemonic)
		logger.Warnf("The mnemonic encodes the private key bytes as BIP-39 entropy, it is NOT a BIP-32/44 wallet seed")
	}
	logger.Printf("Rate: %.2f addr/sec", r.Rate())
	if cfg.Verbose {
		logger.Printf("Winning worker: #%d after %d local attempts", r.WorkerID, r.WorkerAttempts)
	}
}

func setupLogging() {
	if cfg.NoColor {
		logpkg.SetColor(false)
	}
	if cfg.LogFile != "" {
		// Log to stdout and file
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		logger = logpkg.NewWriter(io.MultiWriter(os.Stdout, file))
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		logger = logpkg.New()
		logger.SetFlags(log.LstdFlags)
	}
}
