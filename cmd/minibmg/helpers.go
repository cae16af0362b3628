package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg"
	"github.com/aretw0/minibmg/internal/config"
	"github.com/aretw0/minibmg/pkg/adapters/file"
	"github.com/aretw0/minibmg/pkg/adapters/memory"
	"github.com/aretw0/minibmg/pkg/adapters/redis"
	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/jsongraph"
	"github.com/aretw0/minibmg/pkg/ports"
)

// engine returns an Engine named after the document it works on.
func (a *app) engine(path string, opts ...minibmg.Option) *minibmg.Engine {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	opts = append([]minibmg.Option{minibmg.WithLogger(a.logger), minibmg.WithSeed(a.cfg.Seed)}, opts...)
	return minibmg.New(name, opts...)
}

// readGraph decodes the document at path; "-" reads JSON from stdin.
func (a *app) readGraph(cmd *cobra.Command, path string) (*graph.Graph, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read graph: %w", err)
	}
	g, err := a.engine(path).Decode(data, jsongraph.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// openStore builds the configured GraphStore. The returned function
// releases it.
func (a *app) openStore() (ports.GraphStore, func() error, error) {
	switch a.cfg.Store {
	case config.StoreFile:
		return file.New(a.cfg.StorePath), func() error { return nil }, nil
	case config.StoreRedis:
		s := redis.New(a.cfg.RedisAddr, "", 0, redis.WithPrefix(a.cfg.RedisPrefix))
		return s, s.Close, nil
	case config.StoreMemory:
		return memory.NewStore(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", a.cfg.Store)
}

// parseVars turns name=value pairs into a variable map.
func parseVars(pairs []string) (map[string]float64, error) {
	vars := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: want name=value", p)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --var %q: %w", p, err)
		}
		vars[name] = v
	}
	return vars, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
