package main

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"time"

	"jetacademy/config"
	"jetacademy/database"
	"jetacademy/logging"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"

	"github.com/jinzhu/now"
)

// Imports enrollment codes from a CSV with a "code" column and an optional
// "expiresAt" column (RFC3339 or YYYY-MM-DD). Existing codes are left alone.
//
//	go run ./scripts enrollment_codes.csv
func main() {
	config.LoadConfig()
	logging.Init(logging.Config{Level: config.AppConfig.LogLevel, Format: "console"})

	path := "enrollment_codes.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	db, err := database.ConnectDb(config.AppConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect database")
	}
	store := storage.NewDatabaseStorage(db)

	file, err := os.Open(path)
	if err != nil {
		logging.Fatal().Err(err).Str("file", path).Msg("open CSV")
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		logging.Fatal().Err(err).Msg("read CSV")
	}
	if len(records) < 2 {
		logging.Fatal().Msg("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}
	if _, ok := headerIndex["code"]; !ok {
		logging.Fatal().Strs("headers", records[0]).Msg("CSV has no code column")
	}

	ctx := context.Background()
	inserted, existing, skipped := 0, 0, 0
	for i, row := range records[1:] {
		code := utils.NormalizeCode(getField(row, headerIndex, "code"))
		if code == "" {
			skipped++
			continue
		}
		expiresAt, err := parseExpiry(getField(row, headerIndex, "expiresAt"))
		if err != nil {
			logging.Warn().Err(err).Int("row", i+2).Str("code", code).Msg("bad expiry, skipping")
			skipped++
			continue
		}

		err = store.CreateEnrollmentCode(ctx, &models.EnrollmentCode{
			Code:      code,
			StateCode: utils.StateCodeOf(code),
			ExpiresAt: expiresAt,
		})
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			existing++
		case err != nil:
			logging.Error().Err(err).Str("code", code).Msg("insert enrollment code")
			skipped++
		default:
			inserted++
		}
	}

	logging.Info().
		Int("inserted", inserted).
		Int("existing", existing).
		Int("skipped", skipped).
		Msg("enrollment code import complete")
}

func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseExpiry returns nil for a blank value. Date-only values expire at the end of that day.
func parseExpiry(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := now.ParseInLocation(time.UTC, s)
	if err != nil {
		return nil, err
	}
	end := now.With(t).EndOfDay()
	return &end, nil
}
