package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mirahq/mira/internal/profile"
	"github.com/mirahq/mira/plugin/ai/cache"
	"github.com/mirahq/mira/plugin/ai/clarify"
	"github.com/mirahq/mira/plugin/ai/router"
	"github.com/mirahq/mira/plugin/ai/skill"
	"github.com/mirahq/mira/plugin/ai/taxonomy"
	"github.com/mirahq/mira/server"
	"github.com/mirahq/mira/internal/observability"
	"github.com/mirahq/mira/store"
	"github.com/mirahq/mira/store/db/sqlite"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "mira",
	Short: "Intent classification and routing service for the Mira advisor assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the classification HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify [message]",
	Short: "Classify one message and print the routing decision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClassify(cmd, args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `server mode, "dev" or "prod"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address")
	rootCmd.PersistentFlags().Int("port", 8091, "binding port")
	rootCmd.PersistentFlags().String("taxonomy", "", "path to a taxonomy YAML overriding the embedded one")
	rootCmd.PersistentFlags().String("dsn", "", "SQLite DSN for the intent log")

	for _, key := range []string{"mode", "addr", "port", "taxonomy", "dsn"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("mira")
	viper.AutomaticEnv()

	classifyCmd.Flags().String("module", "", "UI module the message originates from")
	classifyCmd.Flags().String("page", "", "UI page the message originates from")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
}

func loadProfile() (*profile.Profile, error) {
	prof := &profile.Profile{
		Mode:         viper.GetString("mode"),
		Addr:         viper.GetString("addr"),
		Port:         viper.GetInt("port"),
		TaxonomyPath: viper.GetString("taxonomy"),
		DSN:          viper.GetString("dsn"),
		Version:      version,
	}
	prof.FromEnv()
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	return prof, nil
}

func loadTaxonomy(prof *profile.Profile) (*taxonomy.Index, error) {
	if prof.TaxonomyPath != "" {
		return taxonomy.LoadFile(prof.TaxonomyPath)
	}
	return taxonomy.Default()
}

func newRouter(prof *profile.Profile, idx *taxonomy.Index, resultCache *cache.Cache[router.Classification]) *router.Service {
	var llm *router.LLMClassifier
	if prof.IsLLMEnabled() {
		llm = router.NewLLMClassifier(router.LLMClassifierConfig{
			APIKey:  prof.LLMAPIKey,
			BaseURL: prof.LLMBaseURL,
			Model:   prof.LLMModel,
		}, idx)
	}
	metrics := observability.GlobalMetrics()
	return router.NewService(router.ServiceConfig{
		Taxonomy:     idx,
		Cache:        resultCache,
		LLM:          llm,
		OnCacheHit:   metrics.RecordCacheHit,
		OnLLMRefined: metrics.RecordLLMRefinement,
	})
}

func runServe(ctx context.Context) error {
	prof, err := loadProfile()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if prof.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	idx, err := loadTaxonomy(prof)
	if err != nil {
		return err
	}
	slog.Info("taxonomy loaded", "intents", idx.Len())

	var st *store.Store
	if prof.DSN != "" {
		driver, err := sqlite.NewDB(prof.DSN)
		if err != nil {
			return err
		}
		st = store.New(driver)
	}

	resultCache := cache.New[router.Classification](cache.Config{
		TTL:             prof.CacheTTL,
		MaxSize:         prof.CacheMaxSize,
		CleanupInterval: prof.CacheCleanupInterval,
	})
	defer resultCache.Destroy()

	srv := server.NewServer(prof, st, idx, newRouter(prof, idx, resultCache))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

func runClassify(cmd *cobra.Command, message string) error {
	prof, err := loadProfile()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	idx, err := loadTaxonomy(prof)
	if err != nil {
		return err
	}

	reqCtx := router.Context{}
	if raw, _ := cmd.Flags().GetString("module"); raw != "" {
		module, err := router.ParseModule(raw)
		if err != nil {
			return err
		}
		reqCtx.Module = module
	}
	reqCtx.Page, _ = cmd.Flags().GetString("page")

	rt := newRouter(prof, idx, nil)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	classification, err := rt.ClassifyIntent(ctx, message, reqCtx, router.ClassifyOptions{})
	if err != nil {
		return err
	}
	selection := rt.SelectAgent(classification)
	decision := skill.Decide(skill.DecideInput{
		Classification: classification,
		AgentSelection: selection,
		UserMessage:    message,
	})

	out := map[string]any{
		"classification": classification,
		"selected_agent": selection,
		"decision":       decision,
	}
	if clarify.NeedsClarification(classification.ConfidenceTier) {
		out["clarification"] = clarify.BuildMessage(idx, clarify.MessageInput{
			Intent: classification.Intent,
			Tier:   classification.ConfidenceTier,
		})
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
