package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/ampbridge/pkg/config"
	"github.com/robotalks/ampbridge/pkg/hid"
	"github.com/robotalks/ampbridge/pkg/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/ampbridge/"
)

func init() {
	if val := os.Getenv(config.EnvMQTTURL); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(hid.DefaultConnectTimeout); err != nil {
		log.Fatalf("connect %s: %v", mqttURL, err)
	}
	defer q.Close()

	q.Sub(hid.ReportTopic, mqtt.Handler(func(topic string, payload []byte) {
		r, err := hid.DecodeReport(payload)
		if err != nil {
			log.Printf("%s: bad report: %v", topic, err)
			return
		}
		action := "release"
		if r.Pressed {
			action = "press"
		}
		log.Printf("%s: %s %s #%d from %s", topic, hid.UsageName(r.Usage), action, r.Seq, r.Source)
	}))
	<-(chan struct{})(nil)
}
