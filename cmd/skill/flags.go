package main

import (
	"flag"
	"os"
	"strconv"

	"bitbucket.org/sotavant/rolldice-skill/internal/dispatch"
	"bitbucket.org/sotavant/rolldice-skill/internal/identity"
)

var flagRunAddr string
var flagLogLevel string
var flagLocalesFile string
var flagSkillID string
var flagSkipVerify bool
var flagGraphURL string
var flagDefaultName string
var flagRateLimit float64
var flagRateBurst int

func parseFlags() {
	flag.StringVar(&flagRunAddr, "a", ":8080", "address and port")
	flag.StringVar(&flagLogLevel, "l", "info", "log level")
	flag.StringVar(&flagLocalesFile, "locales", "", "path to YAML locale resources, built-in resources if empty")
	flag.StringVar(&flagSkillID, "skill-id", "", "accept only requests for this skill id")
	flag.BoolVar(&flagSkipVerify, "skip-verify", false, "do not verify request signatures (development only)")
	flag.StringVar(&flagGraphURL, "graph-url", identity.DefaultGraphURL, "identity provider base URL")
	flag.StringVar(&flagDefaultName, "default-name", dispatch.DefaultName, "name used when the caller is unknown")
	flag.Float64Var(&flagRateLimit, "rate", 5, "requests per second per client, 0 disables limiting")
	flag.IntVar(&flagRateBurst, "burst", 10, "request burst per client")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDR"); envRunAddr != "" {
		flagRunAddr = envRunAddr
	}

	if envLogLevel := os.Getenv("LOG_LEVEL"); envLogLevel != "" {
		flagLogLevel = envLogLevel
	}

	if envLocales := os.Getenv("LOCALES_FILE"); envLocales != "" {
		flagLocalesFile = envLocales
	}

	if envSkillID := os.Getenv("SKILL_ID"); envSkillID != "" {
		flagSkillID = envSkillID
	}

	if envSkipVerify := os.Getenv("SKIP_VERIFY"); envSkipVerify != "" {
		if v, err := strconv.ParseBool(envSkipVerify); err == nil {
			flagSkipVerify = v
		}
	}

	if envGraphURL := os.Getenv("GRAPH_URL"); envGraphURL != "" {
		flagGraphURL = envGraphURL
	}

	if envDefaultName := os.Getenv("DEFAULT_NAME"); envDefaultName != "" {
		flagDefaultName = envDefaultName
	}

	if envRate := os.Getenv("RATE_LIMIT"); envRate != "" {
		if v, err := strconv.ParseFloat(envRate, 64); err == nil {
			flagRateLimit = v
		}
	}

	if envBurst := os.Getenv("RATE_BURST"); envBurst != "" {
		if v, err := strconv.Atoi(envBurst); err == nil {
			flagRateBurst = v
		}
	}
}
