package main

import (
	"log/slog"
	"os"

	"hrinsight/internal/app/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	server.Run()
}
