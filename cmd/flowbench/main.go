package main

import (
	"log/slog"

	"github.com/flowbenchhq/flowbench/pkg/flowbench"
)

func main() {
	flowbench.SetupLogger()

	if err := flowbench.Start(nil); err != nil {
		slog.Error("Server exited with error", "error", err)
	}
}
