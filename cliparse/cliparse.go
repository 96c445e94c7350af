package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-vote/election"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	OwnerAddress string
	EnvFile      string

	// Election policy
	TieBreak                 string
	TieBreakSeed             uint64
	MinDescriptionLength     int
	ViewsRequireRegistration bool
}

// ParseFlags reads flags, then .env, then the process environment.
// Flags win over both.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.EnvFile, "env", ".env", "Optional dotenv file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	// Election
	fs.StringVar(&cfg.OwnerAddress, "owner", "", "Owner address (0x...)")
	fs.StringVar(&cfg.TieBreak, "tie-break", "", "Tie-break policy: simple, keccak or seeded")
	fs.Uint64Var(&cfg.TieBreakSeed, "tie-seed", 0, "Seed for the seeded tie-break")
	fs.IntVar(&cfg.MinDescriptionLength, "min-desc", 10, "Proposal descriptions need more characters than this (0 disables)")
	fs.BoolVar(&cfg.ViewsRequireRegistration, "private-views", true, "Only registered voters may read proposals and votes")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// .env never overrides variables already present in the environment
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", cfg.EnvFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.OwnerAddress == "" {
		cfg.OwnerAddress = os.Getenv("OWNER_ADDRESS")
	}
	if !common.IsHexAddress(cfg.OwnerAddress) || common.HexToAddress(cfg.OwnerAddress) == (common.Address{}) {
		return Config{}, errors.New("OWNER_ADDRESS must be a non-zero hex address")
	}

	if cfg.TieBreak == "" {
		cfg.TieBreak = os.Getenv("TIE_BREAK")
	}
	if !set["tie-seed"] {
		if s := os.Getenv("TIE_BREAK_SEED"); s != "" {
			seed, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return Config{}, errors.New("invalid TIE_BREAK_SEED env variable")
			}
			cfg.TieBreakSeed = seed
		}
	}
	if _, err := election.ParseTieBreak(cfg.TieBreak, cfg.TieBreakSeed); err != nil {
		return Config{}, err
	}

	if !set["min-desc"] {
		if s := os.Getenv("MIN_DESCRIPTION_LENGTH"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid MIN_DESCRIPTION_LENGTH env variable")
			}
			cfg.MinDescriptionLength = n
		}
	}
	if cfg.MinDescriptionLength < 0 {
		return Config{}, errors.New("minimum description length cannot be negative")
	}

	if !set["private-views"] {
		if s := os.Getenv("VIEWS_REQUIRE_REGISTRATION"); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return Config{}, errors.New("invalid VIEWS_REQUIRE_REGISTRATION env variable")
			}
			cfg.ViewsRequireRegistration = b
		}
	}

	return cfg, nil
}

// Owner returns the parsed owner address.
func (c Config) Owner() common.Address {
	return common.HexToAddress(c.OwnerAddress)
}

// Policy builds the election policy described by the config.
func (c Config) Policy() (election.Policy, error) {
	tb, err := election.ParseTieBreak(c.TieBreak, c.TieBreakSeed)
	if err != nil {
		return election.Policy{}, err
	}
	return election.Policy{
		MinDescriptionLength:     c.MinDescriptionLength,
		TieBreak:                 tb,
		ViewsRequireRegistration: c.ViewsRequireRegistration,
	}, nil
}
