package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivlev/keyframer/internal/config"
	"github.com/ivlev/keyframer/internal/console"
	"github.com/ivlev/keyframer/internal/engine"
	"github.com/ivlev/keyframer/internal/scene"
	"github.com/ivlev/keyframer/internal/script"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPtr := flag.String("config", "", "YAML settings file (defaults are used when empty)")
	scriptPtr := flag.String("script", "", "Script to load, YAML or text (default: newest file in the script dir)")
	msPtr := flag.Int("ms", 0, "Milliseconds between keyframes (0 keeps the configured value)")
	fpsPtr := flag.Int("fps", 0, "Playback frames per second (0 keeps the configured value)")
	workersPtr := flag.Int("workers", 0, "Bake workers (0 keeps the configured value)")
	statsPtr := flag.Bool("stats", false, "Print a performance report after baking")
	batchPtr := flag.String("batch", "", "Run commands from a file instead of the terminal")
	exportPtr := flag.String("export", "", "Write the loaded script as text and exit")
	bakePtr := flag.String("bake", "", "Bake the loaded script to a file and exit")
	saveConfigPtr := flag.String("save-config", "", "Write the effective settings to a YAML file and exit")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
		cfg = loaded
	}
	if *msPtr > 0 {
		cfg.MsBetweenKeyframes = *msPtr
	}
	if *fpsPtr > 0 {
		cfg.AnimateFPS = *fpsPtr
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	if *statsPtr {
		cfg.ShowStats = true
	}
	cfg.BuildVersion = version

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	if *saveConfigPtr != "" {
		if err := cfg.Save(*saveConfigPtr); err != nil {
			log.Fatalf("[-] Could not save settings: %v", err)
		}
		fmt.Printf("[+] Settings written to %s\n", *saveConfigPtr)
		return
	}

	if err := os.MkdirAll(cfg.ScriptDir, 0755); err != nil {
		log.Fatalf("[-] Could not create %s: %v", cfg.ScriptDir, err)
	}

	sc := scene.Default()
	s := script.New(sc, sc.Slots())
	project := engine.NewProject(cfg, s)
	con := console.New(sc, s, project, os.Stdout)

	scriptPath := *scriptPtr
	if scriptPath == "" {
		if latest, err := script.FindLatestScript(cfg.ScriptDir); err == nil {
			scriptPath = latest
			fmt.Printf("[*] Selected script: %s\n", scriptPath)
		}
	}
	if scriptPath != "" {
		if err := con.Load(scriptPath); err != nil {
			log.Fatalf("[-] Could not load script: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *exportPtr != "":
		if err := s.WriteScript(*exportPtr); err != nil {
			log.Fatalf("[-] Export failed: %v", err)
		}
		fmt.Printf("[+] Script exported: %s\n", *exportPtr)
	case *bakePtr != "":
		if err := project.Bake(ctx, *bakePtr); err != nil {
			log.Fatalf("[-] Bake failed: %v", err)
		}
	case *batchPtr != "":
		f, err := os.Open(*batchPtr)
		if err != nil {
			log.Fatalf("[-] Could not open batch file: %v", err)
		}
		defer f.Close()
		if err := con.Run(ctx, f, false); err != nil {
			log.Fatalf("[-] Batch stopped: %v", err)
		}
	default:
		fmt.Printf("[*] keyframer %s: %d objects, %d keyframes. Type h for help.\n", version, sc.Len(), s.KeyframeCount())
		if err := con.Run(ctx, os.Stdin, true); err != nil && ctx.Err() == nil {
			log.Fatalf("[-] Input error: %v", err)
		}
	}
}
