package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/ribbonwm/internal/config"
	"github.com/1broseidon/ribbonwm/internal/engine"
	"github.com/1broseidon/ribbonwm/internal/hotkeys"
	"github.com/1broseidon/ribbonwm/internal/ipc"
	"github.com/1broseidon/ribbonwm/internal/platform"
	"github.com/1broseidon/ribbonwm/internal/runtimepath"
	"github.com/1broseidon/ribbonwm/internal/tui"
)

const version = "0.3.1"

func main() {
	if len(os.Args) < 2 {
		printMainUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "daemon":
		err = runDaemon(os.Args[2:])
	case "status":
		err = runStatus(os.Args[2:])
	case "send":
		err = runSend(os.Args[2:])
	case "tui":
		err = runTUI(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("ribbonwm %s\n", version)
	case "help", "-h", "--help":
		printMainUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printMainUsage() {
	fmt.Println(`ribbonwm - animated ribbon tiling for X11

Usage:
  ribbonwm <command> [options]

Commands:
  daemon    Run the window manager daemon
  status    Show the current layout
  send      Send a command to the running daemon
  tui       Live status view
  config    Show or check the configuration
  version   Print the version

Run 'ribbonwm <command> -h' for command options.`)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func runDaemon(args []string) error {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	backend, err := platform.NewLinuxBackend()
	if err != nil {
		return err
	}
	defer backend.Disconnect()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	eng, err := engine.New(backend, cfg, logger)
	if err != nil {
		return err
	}

	handler := hotkeys.NewHandler(backend.XUtil(), eng)
	if err := handler.Register(cfg.Hotkeys); err != nil {
		return err
	}

	sock := runtimepath.SocketPath()
	server, err := ipc.NewServer(sock, func(req ipc.Request) *ipc.Response {
		return handleRequest(eng, req)
	})
	if err != nil {
		return err
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)
	go backend.EventLoop()

	log.Printf("ribbonwm %s listening on %s", version, sock)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Printf("Received %v, restoring windows", sig)
		eng.Shutdown()
	case <-eng.Done():
		log.Println("Shutdown requested")
	}

	backend.Quit()
	return nil
}

func handleRequest(eng *engine.Engine, req ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CmdGetStatus:
		resp, err := ipc.NewOKResponse(eng.Status())
		if err != nil {
			return ipc.NewErrorResponse(err)
		}
		return resp

	case ipc.CmdSend:
		var payload ipc.SendPayload
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return ipc.NewErrorResponse(fmt.Errorf("malformed payload: %w", err))
		}
		kind, err := engine.ParseCommandKind(payload.Name)
		if err != nil {
			return ipc.NewErrorResponse(err)
		}
		eng.Enqueue(kind, platform.WindowID(payload.Window))
		resp, _ := ipc.NewOKResponse(nil)
		return resp

	case ipc.CmdShutdown:
		eng.Enqueue(engine.CmdShutdown, 0)
		resp, _ := ipc.NewOKResponse(nil)
		return resp

	default:
		return ipc.NewErrorResponse(fmt.Errorf("unsupported command %q", req.Command))
	}
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print raw JSON")
	fs.Parse(args)

	client, err := ipc.NewClient(runtimepath.SocketPath())
	if err != nil {
		return err
	}
	defer client.Close()

	data, err := client.GetStatus()
	if err != nil {
		return err
	}

	if *asJSON {
		fmt.Println(string(data))
		return nil
	}

	var s engine.Status
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	fmt.Printf("Windows:  %d managed, %d floating\n", s.Managed, s.Floating)
	fmt.Printf("Strategy: %s\n", s.Strategy)
	fmt.Printf("Row:      %d\n", s.Row)
	fmt.Printf("Offset:   %d of %d\n", s.OffsetX, s.MaxOffset)
	fmt.Printf("Screen:   %dx%d\n", s.Screen.Width, s.Screen.Height)
	for _, w := range s.Windows {
		fmt.Printf("  0x%08x  row %d  x %-6d %s\n", w.ID, w.Row, w.X, w.Size)
	}
	return nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	window := fs.Uint("window", 0, "target window id (default: focused)")
	fs.Usage = func() {
		fmt.Println("Usage: ribbonwm send [options] <command>")
		fmt.Println("\nCommands: add_window, remove_window, pan_left, pan_right,")
		fmt.Println("  pan_row_up, pan_row_down, resize_left, resize_right,")
		fmt.Println("  move_left, move_right, move_up, move_down, transparency_up,")
		fmt.Println("  transparency_down, margins_up, margins_down, cycle_rate,")
		fmt.Println("  force_recalc, scroll_to_focused, shutdown")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("send takes exactly one command name")
	}
	name := fs.Arg(0)

	// Validate locally for a friendlier error than a daemon round trip.
	if _, err := engine.ParseCommandKind(name); err != nil {
		return err
	}

	client, err := ipc.NewClient(runtimepath.SocketPath())
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Send(name, uint32(*window))
}

func runTUI(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	fs.Parse(args)
	return tui.Run(runtimepath.SocketPath())
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	check := fs.Bool("check", false, "validate and exit")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	if *check {
		fmt.Println("Config OK")
		return nil
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
