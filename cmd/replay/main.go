// Replay runs the sorting pipeline headless over a recorded video and
// prints the final statistics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sortarm/go-sortarm/internal/config"
	"github.com/sortarm/go-sortarm/internal/log"
	"github.com/sortarm/go-sortarm/pkg/colorspec"
	"github.com/sortarm/go-sortarm/pkg/mission"
	"github.com/sortarm/go-sortarm/pkg/segment"
	"github.com/sortarm/go-sortarm/pkg/stats"
	"github.com/sortarm/go-sortarm/pkg/system"
	"github.com/sortarm/go-sortarm/pkg/tracking"
)

func main() {
	file := flag.String("file", "", "video file to replay")
	batch := flag.String("batch", "", "queue a color batch at start (Red, Green, Blue; empty for all)")
	autoBatch := flag.Bool("auto-batch", false, "queue a batch once tracking settles")
	gripFailure := flag.Float64("grip-failure", 0, "simulated grip failure probability (0-1)")
	logLevel := flag.String("log-level", config.LogLevel(), "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -file <video> [-auto-batch] [-batch <color>]")
		os.Exit(2)
	}

	source, err := system.OpenVideo(*file)
	if err != nil {
		log.Error("opening video", "file", *file, "error", err)
		os.Exit(1)
	}

	seg, err := segment.New(segment.DefaultConfig())
	if err != nil {
		log.Error("building segmenter", "error", err)
		os.Exit(1)
	}

	tracker, err := tracking.NewTracker(tracking.DefaultConfig())
	if err != nil {
		log.Error("building tracker", "error", err)
		os.Exit(1)
	}

	rec := stats.NewRecorder()
	mCfg := mission.DefaultConfig()
	mCfg.GripFailureProb = *gripFailure
	ctrl, err := mission.NewController(mCfg, tracker, rec)
	if err != nil {
		log.Error("building controller", "error", err)
		os.Exit(1)
	}

	sysCfg := system.DefaultConfig()
	sysCfg.Annotate = false
	// Replay processes frames as fast as Step allows.
	sysCfg.TickInterval = 1

	sys, err := system.New(sysCfg, source, seg, tracker, ctrl, rec, nil)
	if err != nil {
		log.Error("wiring system", "error", err)
		os.Exit(1)
	}
	defer sys.Close()

	batchQueued := false
	queueBatch := func() {
		cmd := system.Command{Kind: system.CommandBatch}
		if *batch != "" {
			cmd.Color = colorName(*batch)
		}
		if err := sys.Enqueue(cmd); err != nil {
			log.Warn("queueing batch", "error", err)
			return
		}
		batchQueued = true
	}
	if *batch != "" && !*autoBatch {
		*autoBatch = true
	}

	frames := 0
	for {
		if err := sys.Step(); err != nil {
			if errors.Is(err, system.ErrSourceClosed) {
				break
			}
			log.Error("step failed", "frame", frames, "error", err)
			os.Exit(1)
		}
		frames++

		// Give tracking time to confirm objects before batching.
		if *autoBatch && !batchQueued && frames == 30 {
			queueBatch()
		}
	}

	printStats(frames, rec)
}

// colorName normalizes a user-supplied color argument.
func colorName(raw string) colorspec.Color {
	switch strings.ToLower(raw) {
	case "red":
		return colorspec.Red
	case "green":
		return colorspec.Green
	case "blue":
		return colorspec.Blue
	default:
		return colorspec.Color(raw)
	}
}

func printStats(frames int, rec *stats.Recorder) {
	s := rec.Snapshot()
	fmt.Printf("frames processed: %d\n", frames)
	fmt.Printf("missions: %d attempted, %d succeeded, %d failed (%.0f%% success)\n",
		s.Attempts, s.Successes, s.Failures, s.SuccessRate*100)
	for color, cs := range s.ByColor {
		fmt.Printf("  %-6s %d/%d\n", color, cs.Successes, cs.Attempts)
	}
	if s.Attempts > 0 && s.Successes > 0 {
		fmt.Printf("mission duration: mean %.2fs, stddev %.2fs\n", s.MeanDuration, s.StdDevDuration)
	}
}
