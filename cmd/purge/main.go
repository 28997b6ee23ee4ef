package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"account_purge/biz/model/errs"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		// 2 marks a refused deletion, 1 anything else
		if errs.CodeOf(err) != 0 {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
