package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitStatus(os.Stderr, err))
	}
}

// exitStatus prints err and returns the process exit code for it.
func exitStatus(w io.Writer, err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintln(w, ee.Error())
		return ee.code
	}
	fmt.Fprintln(w, "Error:", err)
	return 1
}
