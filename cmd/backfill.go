package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/internal/app"
	"github.com/akira-dev/gif-bed/utils"
)

// backfillCmd 部署域名变更后重写历史记录的链接列
var backfillCmd = &cobra.Command{
	Use:   "backfill-urls",
	Short: "Rewrite stored file and share URLs against a new base URL",
	Run: func(cmd *cobra.Command, args []string) {
		baseURL, _ := cmd.Flags().GetString("base-url")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if err := runBackfill(baseURL, dryRun); err != nil {
			log.Fatalf("Backfill failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillCmd.Flags().String("base-url", "", "new base URL (eg: https://gifs.example.com)")
	backfillCmd.Flags().Bool("dry-run", false, "Only show what would be rewritten")
}

func runBackfill(baseURL string, dryRun bool) error {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return fmt.Errorf("--base-url is required")
	}

	config.InitConfig()
	container := app.NewContainer(config.Get())
	if err := container.Init(); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer container.Close()

	gifs, err := container.GifsRepo.ListAllGifs()
	if err != nil {
		return fmt.Errorf("failed to fetch gifs: %w", err)
	}

	updated := 0
	for _, gif := range gifs {
		filepath := utils.BuildFileURL(baseURL, gif.Filename)
		shareURL := utils.BuildShareURL(baseURL, gif.Filename)
		if gif.Filepath == filepath && gif.ShareURL == shareURL {
			continue
		}

		if dryRun {
			log.Printf("[dry-run] Would rewrite gif %d: %s", gif.ID, filepath)
			updated++
			continue
		}
		if err := container.GifsRepo.UpdateShareURLs(gif.ID, filepath, shareURL); err != nil {
			log.Printf("Warning: failed to update gif %d: %v", gif.ID, err)
			continue
		}
		updated++
	}

	log.Printf("Backfill complete: %d of %d records updated", updated, len(gifs))
	return nil
}
