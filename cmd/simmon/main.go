package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/abiosoft/ishell"

	fx "github.com/simviz/simdrive/pkg/framework"
	"github.com/simviz/simdrive/pkg/mqtt"
	"github.com/simviz/simdrive/pkg/viz"
	"github.com/simviz/simdrive/pkg/viz/mqttviz"
)

var (
	mqttURL  = "mqtt://localhost:1883/sim/"
	topic    = mqttviz.DefaultTopic
	evalOnly bool
)

func init() {
	if val := os.Getenv("SIMDRIVE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topic, "topic", topic, "Marker topic to watch.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Watch and print only, no interactive shell.")
}

type monitor struct {
	queue *mqtt.Queue

	lock  sync.Mutex
	sub   *mqtt.Subscription
	count map[string]int
}

func (m *monitor) handle(topic string, payload []byte) {
	var marker viz.Marker
	if err := json.Unmarshal(payload, &marker); err != nil {
		log.Printf("%s: bad marker: %v", topic, err)
		return
	}
	m.lock.Lock()
	if id := marker.ID(); id != "" {
		m.count[id]++
	}
	m.lock.Unlock()
	log.Printf("%s: %s", topic, string(payload))
}

func (m *monitor) watch() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.sub != nil {
		return false
	}
	m.sub = m.queue.Sub(topic, m.handle)
	return true
}

func (m *monitor) unwatch() bool {
	m.lock.Lock()
	sub := m.sub
	m.sub = nil
	m.lock.Unlock()
	if sub == nil {
		return false
	}
	sub.Close()
	return true
}

func (m *monitor) stats() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	ids := make([]string, 0, len(m.count))
	for id := range m.count {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = fmt.Sprintf("%s: %d", id, m.count[id])
	}
	return lines
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}

	mon := &monitor{queue: q, count: make(map[string]int)}

	if evalOnly {
		mon.watch()
		runner := fx.NewRunner().HandleSignals()
		runner.Go(fx.RunFunc(func(ctx context.Context) error {
			return fx.RunWithContextCloser(ctx, q, func() error {
				<-ctx.Done()
				return ctx.Err()
			})
		}))
		if err := runner.Wait(); err != nil {
			log.Fatalln(err)
		}
		return
	}
	defer q.Close()

	shell := ishell.New()
	shell.SetPrompt(fmt.Sprintf("[%s] > ", topic))
	shell.AddCmd(&ishell.Cmd{
		Name: "watch",
		Help: "subscribe the marker topic and print markers",
		Func: func(c *ishell.Context) {
			if !mon.watch() {
				c.Println("already watching")
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "unwatch",
		Help: "unsubscribe the marker topic",
		Func: func(c *ishell.Context) {
			if !mon.unwatch() {
				c.Println("not watching")
			}
		},
	})
	shell.AddCmd(&ishell.Cmd{
		Name: "stats",
		Help: "print publish counts per marker ID",
		Func: func(c *ishell.Context) {
			for _, line := range mon.stats() {
				c.Println(line)
			}
		},
	})
	shell.Run()
}
