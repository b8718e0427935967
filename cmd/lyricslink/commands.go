package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/lyricslink/internal/adapters/localfile"
	"github.com/ewilliams-labs/lyricslink/internal/adapters/rest"
	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
	"github.com/ewilliams-labs/lyricslink/internal/core/services"
	"github.com/ewilliams-labs/lyricslink/internal/worker"
)

func newNowCmd(a *app) *cobra.Command {
	var noCache bool
	cmd := &cobra.Command{
		Use:   "now",
		Short: "Resolve the track playing on Spotify",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			svc, err := a.orchestrator(cmd.Context(), true, !noCache)
			if err != nil {
				return err
			}
			res, err := svc.ResolveNowPlaying(cmd.Context())
			if err != nil {
				return err
			}
			printResolution(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "probe even when a stored link is fresh")
	return cmd
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		title   string
		artists []string
		dryRun  bool
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a track given its title and artists",
		Example: `  lyricslink resolve --title "No Role Modelz" --artist "J. Cole"
  lyricslink resolve -t "Sure Thing" -a Miguel -a "Kendrick Lamar" --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			meta := domain.TrackMetadata{Title: title}
			for _, name := range artists {
				meta.Artists = append(meta.Artists, domain.Artist{Name: name})
			}
			if err := meta.Validate(); err != nil {
				return err
			}

			if dryRun {
				printCandidates(cmd.OutOrStdout(), a.resolver(a.genius()).Candidates(meta))
				return nil
			}

			svc, err := a.orchestrator(cmd.Context(), false, !noCache)
			if err != nil {
				return err
			}
			res, err := svc.ResolveTrack(cmd.Context(), meta)
			if err != nil {
				return err
			}
			printResolution(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&title, "title", "t", "", "track title")
	f.StringArrayVarP(&artists, "artist", "a", nil, "contributing artist, primary first (repeatable)")
	f.BoolVar(&dryRun, "dry-run", false, "print the candidate URLs without probing")
	f.BoolVar(&noCache, "no-cache", false, "probe even when a stored link is fresh")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("artist")
	return cmd
}

func newFileCmd(a *app) *cobra.Command {
	var noCache bool
	cmd := &cobra.Command{
		Use:   "file PATH...",
		Short: "Resolve tracks from the ID3 tags of local MP3 files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			svc, err := a.orchestrator(cmd.Context(), false, !noCache)
			if err != nil {
				return err
			}
			reader := localfile.NewReader(a.log.Named("localfile"))

			var failed int
			for _, path := range args {
				meta, err := reader.Read(path)
				if err != nil {
					cmd.PrintErrln(errorStyle.Render(err.Error()))
					failed++
					continue
				}
				res, err := svc.ResolveTrack(cmd.Context(), meta)
				if err != nil {
					return err
				}
				printResolution(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
			}
			if failed == len(args) {
				return fmt.Errorf("no readable track among %d file(s)", len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "probe even when a stored link is fresh")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "watch",
		Short:       "Print the link of every new track played on Spotify",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{daemonAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := a.orchestrator(ctx, true, true)
			if err != nil {
				return err
			}
			var mu sync.Mutex
			pool, watcher, err := a.watcher(ctx, svc, func(res domain.Resolution) {
				mu.Lock()
				defer mu.Unlock()
				printResolution(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
			})
			if err != nil {
				return err
			}
			pool.Start(ctx, a.cfg.Watch.Workers)
			defer pool.Stop()

			a.log.Infow("watching now playing", "interval", a.cfg.Watch.Interval)
			return watcher.Run(ctx)
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Serve link resolution over HTTP",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{daemonAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			withNowPlaying := a.cfg.Spotify.Configured()
			if watch && !withNowPlaying {
				return errors.New("--watch needs spotify credentials")
			}
			svc, err := a.orchestrator(ctx, withNowPlaying, true)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.Server.ListenAddr,
				Handler:           rest.NewHandler(svc, a.log.Named("rest")),
				ReadHeaderTimeout: 15 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.log.Infow("http server listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.log.Infow("shutting down server")
				return srv.Shutdown(shutdownCtx)
			})
			if watch {
				pool, watcher, err := a.watcher(gctx, svc, nil)
				if err != nil {
					stop()
					_ = g.Wait()
					return err
				}
				pool.Start(gctx, a.cfg.Watch.Workers)
				g.Go(func() error {
					defer pool.Stop()
					return watcher.Run(gctx)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "also resolve every new track played on Spotify in the background")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent resolutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			svc, err := a.orchestrator(cmd.Context(), false, false)
			if err != nil {
				return err
			}
			items, err := svc.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}

func (a *app) watcher(ctx context.Context, svc *services.Orchestrator, onResult func(domain.Resolution)) (*worker.Pool, *worker.Watcher, error) {
	np, err := a.nowPlaying(ctx)
	if err != nil {
		return nil, nil, err
	}
	pool := worker.NewPool(svc, a.cfg.Watch.QueueSize, a.log.Named("worker"))
	pool.OnResult = onResult
	return pool, worker.NewWatcher(np, pool, a.cfg.Watch.Interval, a.log.Named("watcher")), nil
}
