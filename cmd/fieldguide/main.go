// Command fieldguide lists the bird and fish catalogue and optionally
// downloads a piece of artwork.
package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adamwoolhether/fetchr"
	"github.com/adamwoolhether/fetchr/client"
	"github.com/adamwoolhether/fetchr/client/fetch"
	"github.com/adamwoolhether/fetchr/internal/config"
	"github.com/adamwoolhether/fetchr/internal/guide"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fieldguide: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var envFile, imageURL string

	cmd := &cobra.Command{
		Use:           "fieldguide",
		Short:         "List the bird and fish catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), envFile, imageURL)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")
	flags.StringVar(&imageURL, "image", "", "Image URL to fetch, overriding FIELDGUIDE_IMAGE_URL")

	return cmd
}

func run(ctx context.Context, envFile, imageURL string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if imageURL != "" {
		cfg.ImageURL = imageURL
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	log.Info("fieldguide starting", "host", cfg.BaseHost, "scheme", cfg.Scheme)

	c, err := fetchr.NewClient(cfg.BaseHost,
		client.WithScheme(cfg.Scheme),
		client.WithTimeout(cfg.Timeout),
		client.WithUserAgent(cfg.UserAgent),
		client.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("build client: %w", err)
	}

	imgOpts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithLogger(log),
		fetch.WithMaxBytes(cfg.MaxImageBytes),
	}
	if cfg.Progress {
		imgOpts = append(imgOpts, fetch.WithProgress())
	}

	images, err := fetchr.NewImageFetcher(imgOpts...)
	if err != nil {
		return fmt.Errorf("build image fetcher: %w", err)
	}
	defer images.Close()

	cat := guide.New(c, images, log).Load(ctx, cfg.ImageURL)

	for _, b := range cat.Birds() {
		log.Info("bird", "name", b.Name, "colour", b.Colour)
	}
	for _, f := range cat.Fish() {
		log.Info("fish", "name", f.Name, "water", f.Water)
	}
	if img := cat.Image(); img != nil {
		logImage(log, cfg.ImageURL, img)
	}

	if err := ctx.Err(); err != nil {
		log.Info("fieldguide interrupted")
		return nil
	}

	if err := cat.Err(); err != nil {
		return fmt.Errorf("load catalogue: %w", err)
	}

	return nil
}

func logImage(log *slog.Logger, u string, img image.Image) {
	b := img.Bounds()
	log.Info("image", "url", u, "width", b.Dx(), "height", b.Dy())
}
