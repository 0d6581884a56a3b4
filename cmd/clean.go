package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/database/models"
	"github.com/akira-dev/gif-bed/internal/app"
	"github.com/akira-dev/gif-bed/storage/local"
)

// cleanCmd 清理孤儿记录、重复记录与过期会话
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean orphan records, duplicate gifs and expired sessions",
	Long: `Clean orphan records, duplicate gifs and expired sessions.
This includes:
  - Delete database records without corresponding files
  - Delete storage files without corresponding database records
  - Delete duplicate gif records (same owner, title and size), keeping the oldest
  - Delete expired sessions`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		dbOnly, _ := cmd.Flags().GetBool("db-only")
		storageOnly, _ := cmd.Flags().GetBool("storage-only")

		if err := runClean(dryRun, dbOnly, storageOnly); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("dry-run", false, "Only show what would be cleaned, don't actually delete")
	cleanCmd.Flags().Bool("db-only", false, "Only clean orphan database records")
	cleanCmd.Flags().Bool("storage-only", false, "Only clean orphan storage files")
}

// cleanStats 清理统计信息
type cleanStats struct {
	orphanDBRecords     int
	orphanStorageFiles  int
	duplicateRecords    int
	expiredSessions     int
	deletedDBRecords    int
	deletedStorageFiles int
	errors              []string
}

// runClean 执行清理
func runClean(dryRun, dbOnly, storageOnly bool) error {
	config.InitConfig()
	cfg := config.Get()

	container := app.NewContainer(cfg)
	if err := container.Init(); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer container.Close()

	stats := &cleanStats{}

	if !storageOnly {
		if err := cleanOrphanDBRecords(container, stats, dryRun); err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("clean orphan DB records failed: %v", err))
		}
		if err := cleanDuplicateGifs(container, stats, dryRun); err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("clean duplicate gifs failed: %v", err))
		}
		if err := cleanExpiredSessions(container, stats, dryRun); err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("clean expired sessions failed: %v", err))
		}
	}

	if !dbOnly {
		if err := cleanOrphanStorageFiles(container, stats, dryRun); err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("clean orphan storage files failed: %v", err))
		}
	}

	printCleanStats(stats, dryRun)

	if len(stats.errors) > 0 {
		return fmt.Errorf("encountered %d errors during cleanup", len(stats.errors))
	}
	return nil
}

// cleanOrphanDBRecords 清理不存在对应文件的记录
func cleanOrphanDBRecords(container *app.Container, stats *cleanStats, dryRun bool) error {
	log.Println("Checking for orphan database records...")

	gifs, err := container.GifsRepo.ListAllGifs()
	if err != nil {
		return fmt.Errorf("failed to fetch gifs: %w", err)
	}

	ctx := context.Background()
	for _, gif := range gifs {
		exists, err := container.Storage.Exists(ctx, gif.Filename)
		if err != nil {
			log.Printf("Warning: failed to check existence of %s: %v", gif.Filename, err)
			continue
		}
		if exists {
			continue
		}

		stats.orphanDBRecords++
		if dryRun {
			log.Printf("[dry-run] Would delete orphan record %d (%s)", gif.ID, gif.Filename)
			continue
		}
		if err := container.GifsRepo.DeleteGif(gif); err != nil {
			log.Printf("Warning: failed to delete orphan record %d: %v", gif.ID, err)
			continue
		}
		stats.deletedDBRecords++
	}
	return nil
}

// cleanOrphanStorageFiles 清理没有记录的存储文件，仅本地存储支持遍历
func cleanOrphanStorageFiles(container *app.Container, stats *cleanStats, dryRun bool) error {
	ls, ok := container.Storage.(*local.Storage)
	if !ok {
		log.Printf("Skipping orphan file scan: storage %s does not support listing", container.Storage.Name())
		return nil
	}

	log.Println("Checking for orphan storage files...")

	files, err := ls.ListByModTime()
	if err != nil {
		return fmt.Errorf("failed to list storage files: %w", err)
	}

	ctx := context.Background()
	for _, filename := range files {
		_, err := container.GifsRepo.GetGifByFilename(filename)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Warning: failed to look up %s: %v", filename, err)
			continue
		}

		stats.orphanStorageFiles++
		if dryRun {
			log.Printf("[dry-run] Would delete orphan file %s", filename)
			continue
		}
		if err := container.Storage.Delete(ctx, filename); err != nil {
			log.Printf("Warning: failed to delete orphan file %s: %v", filename, err)
			continue
		}
		stats.deletedStorageFiles++
	}
	return nil
}

// cleanDuplicateGifs 清理同属主、同标题、同大小的重复记录，保留最早一条
func cleanDuplicateGifs(container *app.Container, stats *cleanStats, dryRun bool) error {
	log.Println("Checking for duplicate gif records...")

	gifs, err := container.GifsRepo.ListAllGifs()
	if err != nil {
		return fmt.Errorf("failed to fetch gifs: %w", err)
	}

	ctx := context.Background()
	seen := make(map[string]*models.Gif)
	for _, gif := range gifs {
		key := fmt.Sprintf("%d|%s|%d", gif.UserID, gif.Title, gif.FileSize)
		first, ok := seen[key]
		if !ok {
			seen[key] = gif
			continue
		}

		// 保留最早创建的一条，其余视为重复
		dup := gif
		if dup.CreatedAt.Before(first.CreatedAt) {
			seen[key] = dup
			dup = first
		}

		stats.duplicateRecords++
		if dryRun {
			log.Printf("[dry-run] Would delete duplicate record %d (%s)", dup.ID, dup.Filename)
			continue
		}
		if err := container.GifsRepo.DeleteGif(dup); err != nil {
			log.Printf("Warning: failed to delete duplicate record %d: %v", dup.ID, err)
			continue
		}
		if err := container.Storage.Delete(ctx, dup.Filename); err != nil {
			log.Printf("Warning: failed to delete duplicate file %s: %v", dup.Filename, err)
		}
		stats.deletedDBRecords++
	}
	return nil
}

// cleanExpiredSessions 清理过期会话
func cleanExpiredSessions(container *app.Container, stats *cleanStats, dryRun bool) error {
	log.Println("Checking for expired sessions...")

	if dryRun {
		count, err := container.SessionsRepo.CountExpiredSessions(time.Now())
		if err != nil {
			return fmt.Errorf("failed to count expired sessions: %w", err)
		}
		stats.expiredSessions = int(count)
		log.Printf("[dry-run] Would delete %d expired sessions", count)
		return nil
	}

	deleted, err := container.SessionsRepo.PurgeExpiredSessions()
	if err != nil {
		return fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	stats.expiredSessions = int(deleted)
	return nil
}

func printCleanStats(stats *cleanStats, dryRun bool) {
	prefix := ""
	if dryRun {
		prefix = "[dry-run] "
	}
	log.Printf("%sOrphan DB records: %d", prefix, stats.orphanDBRecords)
	log.Printf("%sOrphan storage files: %d", prefix, stats.orphanStorageFiles)
	log.Printf("%sDuplicate records: %d", prefix, stats.duplicateRecords)
	log.Printf("%sExpired sessions: %d", prefix, stats.expiredSessions)
	if !dryRun {
		log.Printf("Deleted DB records: %d", stats.deletedDBRecords)
		log.Printf("Deleted storage files: %d", stats.deletedStorageFiles)
	}
	for _, e := range stats.errors {
		log.Printf("Error: %s", e)
	}
}
