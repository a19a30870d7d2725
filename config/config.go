package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/CharlesLiangZHY/IPO-Automation/models"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort string
	LogLevel   string

	// DataDir holds the daily Wind exports, one subdirectory per day code.
	DataDir string
	// OutputDir receives the rendered xlsx reports.
	OutputDir string

	// HistoryPath is the JSON name-history file. DatabaseURL, when set,
	// switches the history to Postgres instead.
	HistoryPath string
	DatabaseURL string

	// OverlayPath is the optional JSON file with the manual exception
	// tables.
	OverlayPath string

	SMTPHost       string
	SMTPPort       string
	MailSender     string
	MailAuthCode   string
	MailRecipients string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DataDir:        getEnv("DATA_DIR", "RawData"),
		OutputDir:      getEnv("OUTPUT_DIR", "IPO_calendar"),
		HistoryPath:    getEnv("HISTORY_PATH", "history.json"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		OverlayPath:    getEnv("OVERLAY_PATH", ""),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "25"),
		MailSender:     getEnv("MAIL_SENDER", ""),
		MailAuthCode:   getEnv("MAIL_AUTH_CODE", ""),
		MailRecipients: getEnv("MAIL_RECIPIENTS", ""),
	}
}

// Recipients splits the comma-separated recipient list.
func (c *Config) Recipients() []string {
	if c.MailRecipients == "" {
		return nil
	}
	parts := strings.Split(c.MailRecipients, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SMTPPortNumber parses the SMTP port, falling back to 25 on junk input.
func (c *Config) SMTPPortNumber() int {
	port, err := strconv.Atoi(c.SMTPPort)
	if err != nil {
		logrus.Warnf("Invalid SMTP_PORT value: %s, using default 25", c.SMTPPort)
		return 25
	}
	return port
}

// overlayFile is the JSON shape of the manual exception tables. Lottery
// values are either 8-digit day codes or free-text markers.
type overlayFile struct {
	LotteryDates  map[string]string `json:"lottery_dates"`
	LowCollateral []string          `json:"low_collateral"`
	DisplayNames  map[string]string `json:"display_names"`
}

// LoadOverlays reads the exception tables from path. An empty path or a
// missing file yields empty tables; overlays are optional by design of the
// data, most days have none.
func LoadOverlays(path string) (models.Overlays, error) {
	overlays := models.EmptyOverlays()
	if path == "" {
		return overlays, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("path", path).Info("No overlay file found, using empty exception tables")
		return overlays, nil
	}
	if err != nil {
		return overlays, fmt.Errorf("failed to read overlay file %s: %w", path, err)
	}

	var file overlayFile
	if err := json.Unmarshal(data, &file); err != nil {
		return overlays, fmt.Errorf("overlay file %s is not valid JSON: %w", path, err)
	}

	for code, value := range file.LotteryDates {
		if isDayCode(value) {
			overlays.LotteryDates[code] = models.LotteryAt(models.DayCode(value))
		} else {
			overlays.LotteryDates[code] = models.LotteryNote(value)
		}
	}
	for _, code := range file.LowCollateral {
		overlays.LowCollateral[code] = true
	}
	for code, name := range file.DisplayNames {
		overlays.DisplayNames[code] = name
	}
	logrus.WithFields(logrus.Fields{
		"path":           path,
		"lottery_dates":  len(overlays.LotteryDates),
		"low_collateral": len(overlays.LowCollateral),
		"display_names":  len(overlays.DisplayNames),
	}).Info("Loaded overlay tables")
	return overlays, nil
}

func isDayCode(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
