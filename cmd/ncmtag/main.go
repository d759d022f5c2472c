// Command ncmtag writes catalog metadata, lyrics and cover art into
// downloaded MP3 and FLAC files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = colorError.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
