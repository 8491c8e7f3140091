package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	pkgdb "github.com/unowned-ai/fieldlog/pkg/db"
	"github.com/unowned-ai/fieldlog/pkg/diary"
	"github.com/unowned-ai/fieldlog/pkg/utils"
	"github.com/unowned-ai/fieldlog/pkg/weather"
	"github.com/unowned-ai/fieldlog/pkg/weather/providers"
)

func resolveDSN() (string, error) {
	return utils.ResolveDSN(dbPath)
}

// openDB opens the configured database and makes sure the diary schema is current.
func openDB() (*sql.DB, string, error) {
	dsn, err := resolveDSN()
	if err != nil {
		return nil, "", err
	}

	dbConn, err := pkgdb.Open(dsn, walMode, syncMode)
	if err != nil {
		return nil, "", err
	}

	if err := pkgdb.UpgradeDB(dbConn, dsn, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, "", err
	}
	return dbConn, dsn, nil
}

func requireUser() (string, error) {
	if userID == "" {
		return "", errors.New("a user is required: pass --user or set FIELDLOG_USER_ID")
	}
	return userID, nil
}

// newWeatherReader builds the configured provider behind a Reader for the fixed site.
func newWeatherReader() (*weather.Reader, error) {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	provider, err := providers.New(cfg.WeatherProvider, client, providers.Keys{
		OpenWeather: cfg.OpenWeatherAPIKey,
		WeatherAPI:  cfg.WeatherAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return weather.NewReader(provider, cfg.Location, cfg.WeatherTimeout), nil
}

// formatTimestamp converts a Unix timestamp (float64, seconds since epoch)
// to a human-readable string in RFC3339 format.
func formatTimestamp(timestamp float64) string {
	return time.Unix(int64(timestamp), 0).Format(time.RFC3339)
}

func formatReading(temperature, humidity *float64) string {
	if temperature == nil || humidity == nil {
		return "not recorded"
	}
	return fmt.Sprintf("%.1f°C, %.0f%%", *temperature, *humidity)
}

func printEntry(entry diary.Entry) {
	fmt.Println("Entry Details:")
	fmt.Printf("ID:          %s\n", entry.ID)
	fmt.Printf("User:        %s\n", entry.UserID)
	fmt.Printf("Action:      %s\n", entry.Action)
	fmt.Printf("Weather:     %s\n", formatReading(entry.Temperature, entry.Humidity))
	fmt.Printf("Location:    %s\n", entry.WeatherLocation)
	fmt.Printf("Created At:  %s\n", formatTimestamp(entry.CreatedAt))
	if entry.Note != nil {
		fmt.Println("\nNote:")
		fmt.Println("------------------------------------------------------------")
		fmt.Println(*entry.Note)
		fmt.Println("------------------------------------------------------------")
	}
}
