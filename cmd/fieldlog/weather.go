package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Inspect the weather feed used for diary entries",
}

var currentWeatherCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the reading the capture form would record right now",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := newWeatherReader()
		if err != nil {
			return err
		}

		reading := reader.FetchCurrent(cmd.Context())

		fmt.Printf("Location:    %s\n", reader.Location())
		fmt.Printf("Provider:    %s\n", cfg.WeatherProvider)
		if reading.IsFallback() {
			fmt.Printf("Weather:     unavailable (%s)\n", reading.Reason())
			return nil
		}
		fmt.Printf("Weather:     %s\n", reading)
		fmt.Printf("Observed At: %s\n", reading.ObservedAt().Format(time.RFC3339))
		return nil
	},
}

func initWeatherCmd() {
	weatherCmd.AddCommand(currentWeatherCmd)
}
