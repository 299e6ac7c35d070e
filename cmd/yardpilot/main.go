package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/redis/go-redis/v9"
	"github.com/yardpilot/yardpilot/internal/audit"
	"github.com/yardpilot/yardpilot/internal/cache"
	"github.com/yardpilot/yardpilot/internal/config"
	"github.com/yardpilot/yardpilot/internal/dedup"
	"github.com/yardpilot/yardpilot/internal/inventory"
	"github.com/yardpilot/yardpilot/internal/llm"
	"github.com/yardpilot/yardpilot/internal/mcp"
	"github.com/yardpilot/yardpilot/internal/resolve"
	"github.com/yardpilot/yardpilot/internal/store"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "ask":
		err = runAsk(os.Args[2:])
	case "add":
		err = runAdd(os.Args[2:])
	case "subtract":
		err = runSubtract(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "duplicates":
		err = runDuplicates(os.Args[2:])
	case "merge":
		err = runMerge(os.Args[2:])
	case "report":
		err = runReport(os.Args[2:])
	case "transactions":
		err = runTransactions(os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("yardpilot %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// deps is everything a command needs, wired once from the resolved config.
type deps struct {
	store   store.Store
	cache   cache.AnswerCache
	service *inventory.Service
	orch    *resolve.Orchestrator
	cfg     config.ResolvedConfig
}

func (d *deps) close() {
	if d.store != nil {
		d.store.Close()
	}
}

// flagSink collects the shared flags every command understands.
type flagSink struct {
	configPath string
	dbPath     string
	model      string
	backend    string
	redisAddr  string
}

// take consumes a shared flag at args[i], returning how many arguments it
// used (0 when the flag is not one of ours).
func (f *flagSink) take(args []string, i int) (int, error) {
	needsValue := func(name string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		return args[i+1], nil
	}

	switch args[i] {
	case "--config":
		v, err := needsValue("--config")
		if err != nil {
			return 0, err
		}
		f.configPath = v
		return 2, nil
	case "--db":
		v, err := needsValue("--db")
		if err != nil {
			return 0, err
		}
		f.dbPath = v
		return 2, nil
	case "--model":
		v, err := needsValue("--model")
		if err != nil {
			return 0, err
		}
		f.model = v
		return 2, nil
	case "--cache":
		v, err := needsValue("--cache")
		if err != nil {
			return 0, err
		}
		f.backend = v
		return 2, nil
	case "--redis":
		v, err := needsValue("--redis")
		if err != nil {
			return 0, err
		}
		f.redisAddr = v
		return 2, nil
	}
	return 0, nil
}

func (f *flagSink) wire() (*deps, error) {
	cfg, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath: f.configPath,
		CLIDBPath:  f.dbPath,
		CLIModel:   f.model,
		CLICache:   f.backend,
		CLIRedis:   f.redisAddr,
	})
	if err != nil {
		return nil, err
	}

	st, err := store.Open(store.Config{DBPath: cfg.DBPath.Value})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	ttl := time.Duration(cfg.CacheTTL.Int(int(cache.DefaultTTL/time.Second))) * time.Second
	var c cache.AnswerCache
	switch cfg.CacheBackend.Value {
	case "redis":
		addr := cfg.RedisAddr.Value
		if addr == "" {
			addr = "localhost:6379"
		}
		c = cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: addr}), ttl)
	default:
		c = cache.NewMemoryCache(ttl)
	}

	var assistant llm.Assistant
	if model := strings.TrimSpace(cfg.LLMModel.Value); model != "" {
		llmCfg, err := llm.ParseModelFlag(model)
		if err != nil {
			return nil, err
		}
		llmCfg.APIKey = cfg.APIKeyForProvider(model).Value
		assistant, err = llm.New(llmCfg)
		if err != nil {
			return nil, fmt.Errorf("configuring assistant: %w", err)
		}
	}

	svc := inventory.NewService(st, c, audit.NewStoreSink(st))
	orch := resolve.New(resolve.Config{
		Store:              st,
		Cache:              c,
		Assistant:          assistant,
		FleetDisabled:      cfg.FleetDisabled.Bool(),
		KnowledgeThreshold: cfg.KnowledgeThreshold.Float(resolve.DefaultKnowledgeThreshold),
	})

	return &deps{store: st, cache: c, service: svc, orch: orch, cfg: cfg}, nil
}

func runAsk(args []string) error {
	var flags flagSink
	var words []string
	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n > 0 {
			i += n
			continue
		}
		if strings.HasPrefix(args[i], "-") {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		words = append(words, args[i])
		i++
	}
	if len(words) == 0 {
		return fmt.Errorf("usage: yardpilot ask <question>")
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	answer := d.orch.Resolve(context.Background(), strings.Join(words, " "))
	fmt.Println(answer.Text)
	fmt.Printf("(source: %s)\n", answer.Source)
	return nil
}

func runMCP(args []string) error {
	var flags flagSink
	for i := 0; i < len(args); {
		n, err := flags.take(args, i)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("unknown flag: %s", args[i])
		}
		i += n
	}

	d, err := flags.wire()
	if err != nil {
		return err
	}
	defer d.close()

	srv := mcp.NewServer(mcp.ServerConfig{
		Store:        d.store,
		Service:      d.service,
		Orchestrator: d.orch,
		Version:      version,
		DupThreshold: d.cfg.DuplicateThreshold.Float(dedup.DefaultThreshold),
	})
	return server.ServeStdio(srv)
}

func printUsage() {
	fmt.Printf(`yardpilot %s — Operational assistant for the supply yard

Usage:
  yardpilot <command> [arguments]

Commands:
  ask <question>        Answer a question from stock, fleet, and yard notes
  add <name> <qty>      Add stock, creating the item when new
  subtract <name> <qty> Remove stock; rejected when it would go negative
  update <name>         Rewrite fields of an existing item
  import <file.csv>     Batch-import stock rows from a CSV file
  duplicates            Scan the catalog for near-duplicate names
  merge <a> <b>         Merge two duplicate rows (keeps the first by default)
  report                Print the stock report with low-stock flags
  transactions          Show the recent audit trail
  mcp                   Serve the MCP tool surface over stdio
  version               Print version

Shared Flags:
  --config <path>       Config file (default ~/.yardpilot/config.yaml)
  --db <path>           SQLite database path
  --model <p/model>     AI assistant, e.g. google/gemini-2.5-flash
  --cache <backend>     Answer cache backend: memory or redis
  --redis <addr>        Redis address for --cache redis

Flags:
  -h, --help            Show this help message
  -v, --version         Print version
`, version)
}
