package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"net/http"

	"github.com/golang/glog"

	"github.com/robotalks/ghosthunt/pkg/link/websocket"
)

var (
	listenAddr = ":8080"
	lossRate   float64
	seed       int64 = 1
)

func init() {
	flag.StringVar(&listenAddr, "listen", listenAddr, "Listen address.")
	flag.Float64Var(&lossRate, "loss", lossRate, "Frame loss rate [0, 1).")
	flag.Int64Var(&seed, "seed", seed, "Random seed of frame loss.")
}

func main() {
	flag.Parse()

	bridge := websocket.NewBridge(lossRate, seed)
	http.Handle("/link/", http.StripPrefix("/link", bridge.Handler()))
	glog.Infof("bridging boards at ws://%s/link/CHANNEL", listenAddr)
	log.Fatalln(http.ListenAndServe(listenAddr, nil))
}
