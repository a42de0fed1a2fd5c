package cmd

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chartel-dev/chartel/internal/animate"
	"github.com/chartel-dev/chartel/internal/config"
	"github.com/chartel-dev/chartel/internal/engine"
	"github.com/chartel-dev/chartel/internal/export"
	"github.com/chartel-dev/chartel/internal/logging"
	"github.com/chartel-dev/chartel/internal/render"
	"github.com/chartel-dev/chartel/internal/scene"
	"github.com/chartel-dev/chartel/internal/server"
	"github.com/chartel-dev/chartel/internal/spec"
	"github.com/chartel-dev/chartel/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:     "serve <spec-file>",
	Aliases: []string{"s"},
	Short:   "Start the live preview server",
	Long: `Serve renders the spec, serves a preview page, and watches the spec and
data files: changes re-render the chart and push the new markup to
connected browsers over a websocket. Race charts stream their animation
frames continuously until the server stops.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := logging.NewLogger(&logging.Config{
			Level:  logging.ParseLevel(cfg.Logging.Level),
			Format: cfg.Logging.Format,
			Output: cmd.ErrOrStderr(),
		})

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		eng := engine.New(logger)
		preview := server.New(cfg.Server, logger)
		session := &previewSession{
			engine:   eng,
			preview:  preview,
			logger:   logger.WithComponent("serve"),
			specPath: args[0],
		}

		if err := session.reload(ctx); err != nil {
			return err
		}
		defer session.teardown()

		w, err := watcher.New(time.Duration(cfg.Watch.DebounceMs)*time.Millisecond, func(paths []string) {
			session.logger.Info(ctx, "change detected, re-rendering", "paths", paths)
			if err := session.reload(ctx); err != nil {
				session.logger.Error(ctx, err, "re-render failed; previous scene kept")
			}
		}, logger)
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Add(args[0]); err != nil {
			return err
		}
		if src := session.dataSource(); src != "" {
			if err := w.Add(src); err != nil {
				session.logger.Warn(ctx, err, "cannot watch data source", "source", src)
			}
		}
		go w.Run(ctx)

		return preview.ListenAndServe(ctx)
	},
}

// previewSession holds the state of one serve run: the current spec, its
// surface, and the race controller when the spec is a race chart. Reload
// replaces all three; teardown stops the controller before the surface
// goes away.
type previewSession struct {
	engine   *engine.Engine
	preview  *server.Preview
	logger   logging.Logger
	specPath string

	mu         sync.Mutex
	spec       *spec.ChartSpec
	surface    *scene.Surface
	controller *animate.RaceController
}

func (s *previewSession) dataSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spec == nil || s.spec.Data.Kind == "http" {
		return ""
	}
	return s.spec.Data.Query.Source
}

func (s *previewSession) reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	parsed, err := spec.ParseFile(s.specPath)
	if err != nil {
		return err
	}

	// Stop the previous race loop before its surface is replaced.
	s.stopControllerLocked()

	records, err := s.engine.Fetch(ctx, parsed)
	if err != nil {
		return err
	}

	surface := scene.NewSurface(parsed.Layout.Width, parsed.Layout.Height)

	if parsed.Type == spec.TypeRace {
		controller, err := s.engine.StartRace(ctx, surface, parsed, records, func(frame animate.Frame) {
			s.push(surface, frame.Label)
		})
		if err != nil {
			return err
		}
		s.controller = controller
	} else {
		if _, err := s.engine.Render(ctx, surface, parsed, records, render.Options{}); err != nil {
			return err
		}
		surface.Finalize()
		s.push(surface, "")
	}

	s.spec = parsed
	s.surface = surface
	return nil
}

func (s *previewSession) push(surface *scene.Surface, label string) {
	surface.Advance(time.Now())
	markup, err := export.Vector(surface.Snapshot(), export.VectorOptions{})
	if err != nil {
		s.logger.Error(context.Background(), err, "serializing preview markup")
		return
	}
	msgType := "renderUpdate"
	if label != "" {
		msgType = "raceFrame"
	}
	s.preview.Broadcast(server.Message{Type: msgType, SVG: string(markup), Label: label})
}

func (s *previewSession) stopControllerLocked() {
	if s.controller != nil {
		s.controller.Stop()
		s.controller = nil
	}
}

func (s *previewSession) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopControllerLocked()
	if s.surface != nil {
		s.surface.Clear()
	}
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "preview server port")
	serveCmd.Flags().String("host", "", "preview server host")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	rootCmd.AddCommand(serveCmd)
}
