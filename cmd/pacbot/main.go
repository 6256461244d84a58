// Command pacbot runs the client-side planning/control core: it
// connects to the game server, runs the planner against the shared
// world model, and dispatches moves to a physical robot or back to the
// server in simulation mode.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pacbot/internal/config"
	"pacbot/internal/control"
	"pacbot/internal/world"
)

var (
	configPath *string
	statusAddr *string
)

func init() {
	configPath = flag.String("config", "./config.yaml", "path to the client config file")
	statusAddr = flag.String("statusAddr", ":8081", "address for the /status endpoint")
	flag.Parse()
}

func runApp() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	go func() {
		<-sigCh
		appCancel()
	}()

	state := world.New()

	serverURL := fmt.Sprintf("ws://%s:%d", cfg.ServerIP, cfg.WebSocketPort)
	session, err := control.DialServer(serverURL, state, cfg.CoalesceCommands)
	if err != nil {
		return err
	}

	var robot *control.RobotSession
	if !cfg.PythonSimulation {
		robot, err = control.DialRobot(cfg.RobotIP, cfg.RobotPort)
		if err != nil {
			return err
		}
		defer robot.Close()
	}

	pipeline := control.NewPipeline(cfg, state, session, robot)

	go serveStatus(*statusAddr, pipeline)

	return pipeline.Run(appCtx)
}

func serveStatus(addr string, p *control.Pipeline) {
	srv := &http.Server{Addr: addr, Handler: control.StatusRouter(p)}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Println("status server:", err)
	}
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
