// Command naviscope is the CLI and MCP entry point for the persistent
// cross-file semantic graph engine (spec C11). Flags, global config
// loading, and command layout are grounded on the teacher's cmd/lci
// main.go: a single urfave/cli/v2 App with --config/--root/--include/
// --exclude overrides applied in loadConfigWithOverrides, plus one
// subcommand per shell verb.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/naviscope/naviscope/internal/assets"
	"github.com/naviscope/naviscope/internal/config"
	"github.com/naviscope/naviscope/internal/engine"
	"github.com/naviscope/naviscope/internal/lang/cpp"
	"github.com/naviscope/naviscope/internal/lang/csharp"
	golang "github.com/naviscope/naviscope/internal/lang/go"
	"github.com/naviscope/naviscope/internal/lang/java"
	"github.com/naviscope/naviscope/internal/lang/javascript"
	"github.com/naviscope/naviscope/internal/lang/php"
	"github.com/naviscope/naviscope/internal/lang/python"
	"github.com/naviscope/naviscope/internal/lang/rust"
	"github.com/naviscope/naviscope/internal/lang/typescript"
	"github.com/naviscope/naviscope/internal/lang/zig"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/mcpserver"
	"github.com/naviscope/naviscope/internal/storage"
	"github.com/naviscope/naviscope/internal/types"
	"github.com/naviscope/naviscope/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "naviscope",
		Usage:                  "Persistent cross-file semantic graph over multi-module source trees",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".naviscope.kdl",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include 'src/**/*.java')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/build/**')",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to index (overrides config)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "index",
				Aliases: []string{"rebuild"},
				Usage:   "Scan the project root and build the graph from scratch",
				Action:  rebuildCommand,
			},
			{
				Name:   "refresh",
				Usage:  "Re-scan and ingest only files changed since the last scan",
				Action: refreshCommand,
			},
			{
				Name:      "find",
				Usage:     "Find nodes by regex against FQN or display name",
				ArgsUsage: "<pattern>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kinds", Usage: "Comma-separated node kinds to filter"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum matches, 0 = unlimited"},
				},
				Action: findCommand,
			},
			{
				Name:      "ls",
				Usage:     "List the contents of a container FQN, or the workspace roots",
				ArgsUsage: "[fqn]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kinds", Usage: "Comma-separated node kinds to filter"},
				},
				Action: lsCommand,
			},
			{
				Name:      "cat",
				Usage:     "Show a single node by FQN",
				ArgsUsage: "<fqn>",
				Action:    catCommand,
			},
			{
				Name:      "deps",
				Usage:     "Show a node's dependencies or dependents",
				ArgsUsage: "<fqn>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "reverse", Usage: "Show dependents instead of dependencies"},
					&cli.StringFlag{Name: "edge-types", Usage: "Comma-separated edge types to filter"},
				},
				Action: depsCommand,
			},
			{
				Name:   "watch",
				Usage:  "Rebuild once, then watch the project root and refresh on change until interrupted",
				Action: watchCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Start the MCP server with stdio transport",
				Action: mcpCommand,
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
			{
				Name:  "debug",
				Usage: "Inspection commands for the asset stub cache",
				Subcommands: []*cli.Command{
					{
						Name:  "cache",
						Usage: "Summarize every cached stub, or inspect one by hash prefix",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "hash", Usage: "Hex hash prefix of one cache entry to inspect"},
						},
						Action: debugCacheCommand,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "naviscope:", err)
		os.Exit(1)
	}
}

// loadConfigWithOverrides loads configuration and applies CLI flag
// overrides, mirroring the teacher's function of the same name.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	if rootFlag := c.String("root"); rootFlag != "" && configPath == ".naviscope.kdl" {
		configPath = filepath.Join(rootFlag, ".naviscope.kdl")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}

	return cfg, nil
}

// buildRegistry registers every language plugin named in
// cfg.Languages.Enabled (every plugin, if the list is empty), in a
// fixed order so Registry.ForPath's tie-breaking is deterministic
// across runs.
func buildRegistry(cfg *config.Config) *langplugin.Registry {
	candidates := []langplugin.Plugin{
		java.New(),
		golang.New(),
		python.New(),
		javascript.New(),
		typescript.New(),
		rust.New(),
		cpp.New(),
		csharp.New(),
		php.New(),
		zig.New(),
	}

	enabled := make(map[string]bool, len(cfg.Languages.Enabled))
	for _, name := range cfg.Languages.Enabled {
		enabled[name] = true
	}

	reg := langplugin.NewRegistry()
	for _, p := range candidates {
		if len(enabled) == 0 || enabled[p.Name()] {
			reg.Register(p)
		}
	}
	return reg
}

func resolveUnderRoot(cfg *config.Config, path string) string {
	if path == "" || filepath.IsAbs(path) || cfg.Project.Root == "" {
		return path
	}
	return filepath.Join(cfg.Project.Root, path)
}

// buildEngine constructs the engine façade for cfg: the language
// registry, the asset stub-cache service, and -- when
// Index.StorePath is set -- the on-disk graph store (internal/storage).
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	reg := buildRegistry(cfg)

	var assetSvc *assets.Service
	if cfg.Assets.StubCacheDir != "" {
		assetSvc = assets.NewService(assets.NewCache(resolveUnderRoot(cfg, cfg.Assets.StubCacheDir)))
	}

	var store engine.Store
	if cfg.Index.StorePath != "" {
		store = storage.New(resolveUnderRoot(cfg, cfg.Index.StorePath), reg)
	}

	return engine.New(cfg, reg, assetSvc, store)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func rebuildCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	stats, err := eng.Rebuild(context.Background())
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func refreshCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	stats, err := eng.Refresh(context.Background())
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func findCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: naviscope find <pattern>")
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	res, err := eng.Query(context.Background(), engine.GraphQuery{
		Verb:    engine.VerbFind,
		Pattern: c.Args().First(),
		Kinds:   parseKinds(c.String("kinds")),
		Limit:   c.Int("limit"),
	})
	if err != nil {
		return err
	}
	return printJSON(res)
}

func lsCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	res, err := eng.Query(context.Background(), engine.GraphQuery{
		Verb:  engine.VerbLs,
		FQN:   c.Args().First(),
		Kinds: parseKinds(c.String("kinds")),
	})
	if err != nil {
		return err
	}
	return printJSON(res)
}

func catCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: naviscope cat <fqn>")
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	res, err := eng.Query(context.Background(), engine.GraphQuery{Verb: engine.VerbCat, FQN: c.Args().First()})
	if err != nil {
		return err
	}
	return printJSON(res)
}

func depsCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: naviscope deps <fqn>")
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	res, err := eng.Query(context.Background(), engine.GraphQuery{
		Verb:      engine.VerbDeps,
		FQN:       c.Args().First(),
		Reverse:   c.Bool("reverse"),
		EdgeTypes: parseEdgeTypes(c.String("edge-types")),
	})
	if err != nil {
		return err
	}
	return printJSON(res)
}

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	if _, err := eng.Rebuild(context.Background()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Watch(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	eng.StopWatching()
	return nil
}

func mcpCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	if eng.Snapshot().NodeCount() == 0 {
		if _, err := eng.Rebuild(context.Background()); err != nil {
			return fmt.Errorf("initial index build: %w", err)
		}
	}

	server := mcpserver.New(eng)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}

func debugCacheCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	if cfg.Assets.StubCacheDir == "" {
		return errors.New("assets.stub_cache_dir is empty, nothing to inspect")
	}
	cache := assets.NewCache(resolveUnderRoot(cfg, cfg.Assets.StubCacheDir))

	if hash := c.String("hash"); hash != "" {
		result, ok := cache.InspectAsset(hash)
		if !ok {
			return fmt.Errorf("no cache entry matching hash prefix %q", hash)
		}
		return printJSON(result)
	}
	return printJSON(cache.ScanAssets())
}

func parseKinds(s string) []types.NodeKind {
	if s == "" {
		return nil
	}
	var kinds []types.NodeKind
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			kinds = append(kinds, types.ParseNodeKind(part))
		}
	}
	return kinds
}

func parseEdgeTypes(s string) []types.EdgeType {
	if s == "" {
		return nil
	}
	var out []types.EdgeType
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		if et, ok := types.ParseEdgeType(part); ok {
			out = append(out, et)
		}
	}
	return out
}
