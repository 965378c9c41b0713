package cli

import (
	"fmt"

	"store-service/config"
	"store-service/internal/cache"
	"store-service/internal/cleanup"
	"store-service/internal/database"
	"store-service/internal/repository"
	"store-service/internal/service"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:       "cleanup [notifications|carts|all]",
	Short:     "Run the retention jobs once",
	Long:      "Deletes read notifications past NOTIFICATION_RETENTION and cart lines untouched for CART_RETENTION.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"notifications", "carts", "all"},
	RunE:      runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	job := "all"
	if len(args) == 1 {
		job = args[0]
	}

	l := log()
	cfg := config.Load(l)

	db := database.ConnectDB(&cfg.DB.Config, l)
	defer database.CloseDB(db, l)

	var carts service.CartCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CartTTL, l)
		if err != nil {
			return err
		}
		defer rc.Close()
		carts = rc
	}

	svc := cleanup.NewCleanupService(repository.New(db), cfg.NotificationRetention, cfg.CartRetention, carts, l)
	ctx := cmd.Context()

	var err error
	switch job {
	case "notifications":
		err = svc.CleanupReadNotifications(ctx)
	case "carts":
		err = svc.CleanupStaleCarts(ctx)
	default:
		err = svc.RunFullCleanup(ctx)
	}
	if err != nil {
		return fmt.Errorf("cleanup %s: %w", job, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleanup %s completed\n", job)
	return nil
}
