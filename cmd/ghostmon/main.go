package main

import (
	"flag"
	"log"

	"github.com/robotalks/ghosthunt/pkg/env"
	"github.com/robotalks/ghosthunt/pkg/link/mqtt"
	"github.com/robotalks/ghosthunt/pkg/status"
)

var (
	mqttURL = env.Default().MonitorURL()
)

func init() {
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	status.Watch(q, func(topic string, m *status.BoardStatus, err error) {
		if err != nil {
			log.Printf("%s: bad status: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, m.String())
	})
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
