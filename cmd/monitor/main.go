// Monitor tails a running sortarm dashboard's status feed and prints
// compact one-line updates.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/sortarm/go-sortarm/internal/config"
	"github.com/sortarm/go-sortarm/internal/log"
	"github.com/sortarm/go-sortarm/pkg/system"
)

func main() {
	host := flag.String("host", "localhost:"+config.DashboardPort(), "dashboard host:port")
	logLevel := flag.String("log-level", config.LogLevel(), "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	url := "ws://" + *host + "/ws/status"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Error("connecting to dashboard", "url", url, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupt
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	log.Info("watching status feed", "url", url)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var snap system.StatusSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			log.Warn("bad status payload", "error", err)
			continue
		}
		printStatus(snap)
	}
}

// printStatus renders one snapshot as a single line.
func printStatus(snap system.StatusSnapshot) {
	line := fmt.Sprintf("frame %6d  objects %2d", snap.Frame, len(snap.Objects))
	if snap.Mission != nil {
		line += fmt.Sprintf("  mission %s %s -> %s (%.0f%%)",
			snap.Mission.Color, snap.Mission.Phase, snap.Mission.Zone, snap.Mission.Progress)
	}
	s := snap.Stats
	line += fmt.Sprintf("  sorted %d/%d", s.Successes, s.Attempts)
	fmt.Println(line)
}
