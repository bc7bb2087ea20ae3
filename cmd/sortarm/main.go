// Sortarm runs the live color sorting loop: camera capture, blob
// detection, object tracking, the simulated pick-and-place arm and the
// web dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sortarm/go-sortarm/internal/config"
	"github.com/sortarm/go-sortarm/internal/log"
	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/mission"
	"github.com/sortarm/go-sortarm/pkg/segment"
	"github.com/sortarm/go-sortarm/pkg/stats"
	"github.com/sortarm/go-sortarm/pkg/system"
	"github.com/sortarm/go-sortarm/pkg/tracking"
	"github.com/sortarm/go-sortarm/pkg/web"
)

func main() {
	camera := flag.Int("camera", config.CameraID(), "capture device index")
	port := flag.String("port", config.DashboardPort(), "dashboard listen port")
	gripFailure := flag.Float64("grip-failure", 0, "simulated grip failure probability (0-1)")
	kalman := flag.Bool("kalman", false, "use Kalman centroid smoothing instead of EWMA")
	hungarian := flag.Bool("hungarian", false, "use Hungarian assignment instead of greedy")
	noAnnotate := flag.Bool("no-annotate", false, "disable frame annotation")
	logLevel := flag.String("log-level", config.LogLevel(), "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	source, err := system.OpenCamera(*camera)
	if err != nil {
		log.Error("opening camera", "device", *camera, "error", err)
		os.Exit(1)
	}

	trkCfg := tracking.DefaultConfig()
	if *kalman {
		trkCfg.Smoother = tracking.SmootherKalman
	}
	if *hungarian {
		trkCfg.Matching = tracking.MatchingHungarian
	}

	mCfg := mission.DefaultConfig()
	mCfg.GripFailureProb = *gripFailure

	sysCfg := system.DefaultConfig()
	sysCfg.Annotate = !*noAnnotate

	sys, server, err := buildSystem(source, trkCfg, mCfg, sysCfg, *port)
	if err != nil {
		log.Error("wiring system", "error", err)
		os.Exit(1)
	}
	defer sys.Close()

	// A color-name dataset is optional; without it objects just carry
	// their range-based color.
	if ds, err := colorspec.LoadDataset(config.DatasetPath()); err != nil {
		log.Debug("color dataset unavailable", "path", config.DatasetPath(), "error", err)
	} else {
		log.Info("color dataset loaded", "path", config.DatasetPath(), "entries", ds.Len())
		sys.SetDataset(ds)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server.StartAsync()
	defer server.Shutdown()

	log.Info("sorting loop starting", "camera", *camera, "port", *port)
	if err := sys.Run(ctx); err != nil &&
		!errors.Is(err, context.Canceled) && !errors.Is(err, system.ErrSourceClosed) {
		log.Error("sorting loop stopped", "error", err)
		os.Exit(1)
	}
}

// buildSystem wires the sorting core and its dashboard together.
func buildSystem(source system.FrameSource, trkCfg tracking.Config, mCfg mission.Config,
	sysCfg system.Config, port string) (*system.System, *web.Server, error) {
	seg, err := segment.New(segment.DefaultConfig())
	if err != nil {
		return nil, nil, err
	}

	tracker, err := tracking.NewTracker(trkCfg)
	if err != nil {
		return nil, nil, err
	}

	rec := stats.NewRecorder()
	ctrl, err := mission.NewController(mCfg, tracker, rec)
	if err != nil {
		return nil, nil, err
	}

	sys, err := system.New(sysCfg, source, seg, tracker, ctrl, rec, nil)
	if err != nil {
		return nil, nil, err
	}

	server := web.NewServer(port, sys, rec)
	sys.SetPublisher(server)
	return sys, server, nil
}
