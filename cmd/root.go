package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pkoerner/revise/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "revise",
	Short: "Spaced-repetition flashcard study in the terminal",
	Long:  "Revise is a terminal client for studying course flashcards with an FSRS spaced-repetition scheduler.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudy(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaults := config.Defaults()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (overrides REVISE_CONFIG)")
	pf.String("api.base_url", defaults.API.BaseURL, "Base URL of the study API")
	pf.String("api.token", defaults.API.Token, "Bearer token for the study API")
	pf.String("log.level", defaults.Log.Level, "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the config path and merges file, env and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	return config.Load(path, cmd.Flags())
}
