package main

import (
	"context"
	"fmt"
	"os"

	"lienterminal-backend/cmd/lienterm/commands"
	"lienterminal-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()

	tel, err := telemetry.SetupFromEnv(ctx, "lienterm")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize telemetry:", err)
		os.Exit(1)
	}
	telemetry.InstrumentPerfStats(ctx)

	err = commands.ExecuteContext(ctx)

	// flush batched spans before deciding the exit code
	if shutdownErr := tel.Shutdown(ctx); shutdownErr != nil {
		fmt.Fprintln(os.Stderr, "telemetry shutdown:", shutdownErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
