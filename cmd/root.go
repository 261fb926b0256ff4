package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel string // Log verbosity level
	cfgFile  string // Optional YAML config file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "wh-autoscaler",
	Short: "Q-learning warehouse size recommender",
	Long: `wh-autoscaler replays per-query warehouse observations through a tabular
Q-learning controller and recommends the next warehouse size for every row.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file; flags and WH_AUTOSCALER_* env vars override it")

	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newPriorCmd())
}
