package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/bt/internal/core/agent"
	"github.com/zeusync/bt/internal/core/blackboard"
	"github.com/zeusync/bt/internal/core/bt/loader"
	"github.com/zeusync/bt/internal/core/events/bus"
	"github.com/zeusync/bt/internal/core/observability/log"
	"github.com/zeusync/bt/internal/injector"
)

//go:embed guard.yaml
var defaultTree []byte

func main() {
	var (
		treePath    = flag.String("tree", "", "tree definition (.yaml, .yml or .json); the built-in guard tree when empty")
		agents      = flag.Int("agents", 3, "number of agents")
		steps       = flag.Int("steps", 0, "steps to run; 0 runs until interrupted")
		interval    = flag.Duration("interval", 200*time.Millisecond, "time between steps")
		parallel    = flag.Int("parallel", 0, "agents stepped concurrently; 0 means no limit")
		inspectAddr = flag.String("inspect", "", "inspector listen address, e.g. :8090")
		logLevel    = flag.String("log-level", "info", "debug, info, warn or error")
	)
	flag.Parse()

	app := injector.InitializeApp(injector.Config{
		LogLevel:    log.ParseLevel(*logLevel),
		StepLimit:   *parallel,
		InspectAddr: *inspectAddr,
	})
	logger := app.Logger

	if err := run(app, *treePath, *agents, *steps, *interval); err != nil {
		logger.Error("btdemo failed", log.Error(err))
		os.Exit(1)
	}
}

func run(app *injector.App, treePath string, agents, steps int, interval time.Duration) error {
	logger := app.Logger

	doc, err := loadDocument(treePath)
	if err != nil {
		return err
	}
	for i := 0; i < agents; i++ {
		rng := rand.New(rand.NewSource(int64(i) + 1))
		tree, err := doc.Build(loader.Options{Rand: rng})
		if err != nil {
			return fmt.Errorf("build %s: %w", doc.Name, err)
		}
		a := agent.New(fmt.Sprintf("%s-%d", doc.Name, i), tree,
			agent.WithLogger(logger),
			agent.WithSensors(noiseSensor(rng), agent.NewThresholdSensor("enemy", "noise", "enemy_visible", 0.8)),
		)
		if err := app.Manager.Add(a); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stopCh)
	go func() {
		select {
		case <-stopCh:
			logger.Info("interrupted")
			cancel()
		case <-ctx.Done():
		}
	}()

	if app.Inspector != nil {
		if err := app.Inspector.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := app.Inspector.Stop(shutdownCtx); err != nil {
				logger.Warn("inspector stop failed", log.Error(err))
			}
		}()
	}

	stepSub, err := app.Events.Subscribe(agent.EventStep, func(e bus.Event) error {
		ev := e.Data().(agent.StepEvent)
		if ev.Err != nil {
			return nil
		}
		logger.Debug("step",
			log.String("agent", ev.Agent.Name()),
			log.Uint64("step", ev.Result.Step),
			log.String("status", ev.Result.Status.String()),
			log.String("origin", originName(ev.Result)),
		)
		return nil
	})
	if err != nil {
		return err
	}
	defer app.Events.Unsubscribe(stepSub)

	changeSub, err := app.Events.Subscribe(agent.EventStatusChanged, func(e bus.Event) error {
		ev := e.Data().(agent.StepEvent)
		logger.Info("status changed",
			log.String("agent", ev.Agent.Name()),
			log.Uint64("step", ev.Result.Step),
			log.String("from", ev.Result.Previous.String()),
			log.String("to", ev.Result.Status.String()),
		)
		return nil
	})
	if err != nil {
		return err
	}
	defer app.Events.Unsubscribe(changeSub)

	logger.Info("running",
		log.String("tree", doc.Name),
		log.Int("agents", agents),
		log.Int("steps", steps),
		log.Duration("interval", interval),
	)

	if steps <= 0 {
		if err := app.Manager.Run(ctx, interval); err != nil && ctx.Err() == nil {
			return err
		}
	} else {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
	loop:
		for i := 0; i < steps; i++ {
			_ = app.Manager.StepAll(ctx)
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
			}
		}
	}

	for _, a := range app.Manager.Agents() {
		fmt.Print(a.Snapshot().String())
		if d, ok := a.History().Last(); ok {
			fmt.Printf("  last step %d: %s via %s\n", d.Step, d.State, d.Origin)
		}
	}
	return nil
}

func originName(res agent.Result) string {
	if res.Origin == nil {
		return ""
	}
	return res.Origin.Name()
}

func loadDocument(path string) (*loader.Document, error) {
	if path == "" {
		return loader.LoadYAML(bytes.NewReader(defaultTree))
	}
	return loader.LoadFile(path)
}

// noiseSensor feeds a random reading that the threshold sensor turns into a
// sighting.
func noiseSensor(rng *rand.Rand) agent.Sensor {
	return agent.SensorFunc{ID: "noise", Fn: func(_ context.Context, bb *blackboard.Blackboard) error {
		bb.Set("noise", rng.Float64())
		return nil
	}}
}
