package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "washsim",
	Short: "Washsim simulates a single-washer car wash, one second at a time.",
	Long: `Washsim simulates a car wash where cars arrive at random and wait ` +
		`in line for a single washer. It can run one simulation, run a batch ` +
		`of independently seeded replications, or summarize a recorded ` +
		`result database.`,
}

// Execute loads the optional .env file, adds all child commands to the root
// command, and sets flags appropriately.
func Execute() {
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// stringOption reads a string flag, falling back to an environment variable
// when the flag is not set on the command line.
func stringOption(cmd *cobra.Command, flag, envKey string) string {
	if !cmd.Flags().Changed(flag) {
		if env, ok := os.LookupEnv(envKey); ok {
			return env
		}
	}

	value, _ := cmd.Flags().GetString(flag)

	return value
}

// intOption reads an integer flag, falling back to an environment variable
// when the flag is not set on the command line.
func intOption(cmd *cobra.Command, flag, envKey string) int {
	if !cmd.Flags().Changed(flag) {
		if env, ok := os.LookupEnv(envKey); ok {
			parsed, err := strconv.Atoi(env)
			if err != nil {
				log.Fatalf("Error: %s must be an integer: %v", envKey, err)
			}

			return parsed
		}
	}

	value, _ := cmd.Flags().GetInt(flag)

	return value
}
