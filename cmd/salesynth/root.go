package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/salesynth/salesynth/internal/config"
	"github.com/salesynth/salesynth/internal/logging"
)

var (
	cfg     config.Config
	logger  *logrus.Logger
	verbose bool

	configDir string
	outputDir string
	seed      int64
)

var rootCmd = &cobra.Command{
	Use:   "salesynth [command]",
	Short: "Synthetic enterprise sales dataset generator",
	Long: `Generates a referentially consistent synthetic sales dataset: ERP master
data and document chains (orders, deliveries, billing), an independent CRM
side (accounts, opportunities, quotes), and cross-system link tables joining
the two. Equal seeds reproduce the dataset byte for byte.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(verbose)
		loaded, err := config.Load(configDir)
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("output") {
			cfg.Output = outputDir
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing config.yaml")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "./dataset", "dataset root directory")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "generation seed")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.WithError(err).Error("command failed")
		}
		os.Exit(1)
	}
}
