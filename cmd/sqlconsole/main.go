package main

import (
	"context"
	"os"
	"os/signal"

	"qipai-scores/internal/console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := console.Execute(ctx)
	stop()
	os.Exit(code)
}
