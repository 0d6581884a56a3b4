package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akira-dev/gif-bed/api/core"
	"github.com/akira-dev/gif-bed/config"
	"github.com/akira-dev/gif-bed/database"
	"github.com/akira-dev/gif-bed/internal/app"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	container := app.NewContainer(cfg)
	if err := container.Init(); err != nil {
		// 数据库重试在 Init 内部完成，到这里就是无法恢复的启动失败
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// 自动DDL
	if err := database.AutoMigrate(container.DB); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	// 启动gin
	server, cleanup := core.StartServer(container)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cleanup != nil {
		cleanup()
		log.Println("Cleanup tasks finished.")
	}

	if err := server.Shutdown(ctx); err != nil {
		container.Close()
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	container.Close()
	log.Println("Server exited successfully")
}
