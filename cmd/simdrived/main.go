package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/simviz/simdrive/pkg/driver"
	fx "github.com/simviz/simdrive/pkg/framework"
	"github.com/simviz/simdrive/pkg/mqtt"
	"github.com/simviz/simdrive/pkg/sim/bodies"
	"github.com/simviz/simdrive/pkg/viz"
	"github.com/simviz/simdrive/pkg/viz/mqttviz"
)

var (
	configFile = "default.yaml"
	freq       = driver.DefaultFreq
	mqttURL    = "mqtt://localhost:1883/sim/"
	queueDepth = viz.DefaultQueueDepth
	catchUp    bool
)

func init() {
	if val := os.Getenv("SIMDRIVE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&configFile, "config", configFile, "World configuration file.")
	flag.Float64Var(&freq, "freq", freq, "Tick rate (ticks/s).")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, empty to write markers to stdout.")
	flag.IntVar(&queueDepth, "queue-depth", queueDepth, "Outbound marker queue depth.")
	flag.BoolVar(&catchUp, "catch-up", catchUp, "Compensate tick overruns instead of skipping the sleep.")
}

func main() {
	flag.Parse()

	world, err := bodies.New(configFile)
	if err != nil {
		glog.Exitf("simulator init error: %v", err)
	}

	var out viz.Sink = &viz.WriterSink{W: os.Stdout}
	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL)
		if err != nil {
			glog.Exitf("mqtt error: %v", err)
		}
		if err = q.Connect(); err != nil {
			glog.Exitf("mqtt connect error: %v", err)
		}
		defer q.Close()
		out = mqttviz.New(q)
	}
	queue := viz.NewPublishQueue(out, queueDepth)

	drv := driver.New(world, queue)
	drv.Freq = freq
	if catchUp {
		drv.Policy = driver.PaceCatchUp
	}

	runner := fx.NewRunner().HandleSignals()
	ctx, cancel := context.WithCancel(runner.Context)
	runner.GoWith(ctx, queue)
	runner.Go(fx.NamedRun(drv.Name(), fx.RunFunc(func(ctx context.Context) error {
		defer cancel()
		return drv.Run(ctx)
	})))
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
