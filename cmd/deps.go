package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/auth"
	"github.com/abhisek/learnpulse/internal/nudge"
	"github.com/abhisek/learnpulse/internal/simulator"
	"github.com/abhisek/learnpulse/internal/store"
)

// seed returns the configured seed, or a random one when unset.
func seed() uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return rand.Uint64()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath, store.WithLogger(appLog))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func newSimulator(s uint64) *simulator.Simulator {
	return simulator.New(rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)))
}

func newAuthService(st *store.Store, s uint64) *auth.Service {
	return auth.NewService(st.UserRepo(), st.StatsRepo(), newSimulator(s), auth.WithLogger(appLog))
}

// newEngine builds the nudge engine from the loaded configuration.
func newEngine(s uint64) (*nudge.Engine, error) {
	opts := []nudge.Option{
		nudge.WithSeed(s),
		nudge.WithLogger(appLog),
		nudge.WithActiveLimit(cfg.Nudges.ActiveLimit),
		nudge.WithParallelism(cfg.Nudges.Parallelism),
	}
	if p := cfg.Nudges.CatalogPath; p != "" {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		c, err := nudge.LoadCatalog(f)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", p, err)
		}
		opts = append(opts, nudge.WithCatalog(c))
	}
	return nudge.NewEngine(opts...)
}
