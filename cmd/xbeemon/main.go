package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/robotalks/xbee.go/pkg/bridge/mqtt"
	fx "github.com/robotalks/xbee.go/pkg/framework"
	"github.com/robotalks/xbee.go/pkg/msgs"
)

var (
	mqttURL  = mqtt.DefaultBrokerURL
	node     = "+"
	discover bool
)

func init() {
	if val := os.Getenv("XBEE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&node, "node", node, "Node ID to monitor, + for all.")
	flag.BoolVar(&discover, "discover", discover, "List running nodes and exit.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL, "")
	if err != nil {
		log.Fatalln(err)
	}
	runner := fx.NewRunner().HandleSignals()
	if err = q.ConnectWait(runner.Context); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	if discover {
		nodes, err := mqtt.Discover(runner.Context, q, 0)
		if err != nil {
			log.Fatalln(err)
		}
		for _, meta := range nodes {
			fmt.Printf("%s\t%s\t%s\t%s\n", meta.NodeID, meta.Port, meta.Version, meta.Started.Format("2006-01-02 15:04:05"))
		}
		return
	}

	q.Sub(node+"/#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/meta") {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: [%s] %s", topic,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.(msgs.SerializableMessage).Serializable().String())
	}))
	runner.Go(fx.RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	if err = runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
