package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"household-ledger-go/internal/client"
	"household-ledger-go/pkg/logger"
)

var (
	flagServer     string
	flagToken      string
	flagActiveFile string
)

var rootCmd = &cobra.Command{
	Use:   "hlctl",
	Short: "Command-line client for the household ledger",
	Long: `hlctl drives the household collaboration API: listing and managing
households, changing member roles, and handling invitations. The active
household selection is kept in a local state file and reconciled against
the server's membership list on every run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", envOr("HLCTL_SERVER", "http://localhost:8080"), "base URL of the ledger server")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", os.Getenv("HLCTL_TOKEN"), "bearer token for the identity service")
	rootCmd.PersistentFlags().StringVar(&flagActiveFile, "active-file", defaultActiveFile(), "file that persists the active household id")
}

// session wires a Registry against the configured server, restores the
// persisted active household id, and reconciles it against a fresh list.
type session struct {
	ctx      context.Context
	registry *client.Registry
	api      *client.HTTPSyncClient
}

func newSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	api := client.NewHTTPSyncClient(flagServer, func() string { return flagToken }, nil)
	me, err := api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	registry := client.NewRegistry(api, me.ID, logger.Discard())
	if _, err := registry.List(ctx); err != nil {
		return nil, fmt.Errorf("load households: %w", err)
	}
	if saved := readActiveFile(); saved != "" {
		registry.RestoreActive(saved)
	}

	return &session{ctx: ctx, registry: registry, api: api}, nil
}

// saveActive writes the current active id back to the state file so the
// selection survives across runs.
func (s *session) saveActive() {
	if flagActiveFile == "" {
		return
	}
	active := s.registry.ActiveID()
	if err := os.MkdirAll(filepath.Dir(flagActiveFile), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(flagActiveFile, []byte(active+"\n"), 0o644)
}

func readActiveFile() string {
	if flagActiveFile == "" {
		return ""
	}
	data, err := os.ReadFile(flagActiveFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func defaultActiveFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hlctl", "active")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
