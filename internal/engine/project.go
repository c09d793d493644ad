package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/keyframer/internal/config"
	"github.com/ivlev/keyframer/internal/script"
	"github.com/ivlev/keyframer/internal/system"
)

// Project ties a script to the settings used to play and export it
type Project struct {
	Config *config.Config
	Script *script.Script
	Player *Player

	// BenchmarkLog receives one line per bake when stats are enabled
	BenchmarkLog string
}

func NewProject(cfg *config.Config, s *script.Script) *Project {
	return &Project{
		Config:       cfg,
		Script:       s,
		Player:       NewPlayer(s, cfg),
		BenchmarkLog: "benchmark.log",
	}
}

// Bake samples the current timeline and writes the frames to outputPath
func (p *Project) Bake(ctx context.Context, outputPath string) error {
	startTime := time.Now()

	kfs := p.Script.Keyframes()
	frames, err := Bake(ctx, kfs, p.Config)
	if err != nil {
		return fmt.Errorf("bake: %w", err)
	}
	bakeTime := time.Since(startTime)

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	writeStart := time.Now()
	if err := WriteFrames(outputPath, frames); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	writeTime := time.Since(writeStart)

	fmt.Printf("[+] Baked %d frames from %d keyframes: %s\n", len(frames), len(kfs), outputPath)

	if p.Config.ShowStats {
		p.report(len(kfs), len(frames), bakeTime, writeTime, time.Since(startTime))
	}
	return nil
}

func (p *Project) report(keyframes, frames int, bakeTime, writeTime, totalTime time.Duration) {
	host := "host stats unavailable"
	if hs, err := system.CollectHostStats(); err == nil {
		host = hs.String()
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"%s\n"+
			"Total Time: %.3fs\n"+
			"Interpolation: %.3fs (%d workers)\n"+
			"Writing: %.3fs\n"+
			"Frames/s: %.0f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, host, totalTime.Seconds(), bakeTime.Seconds(), p.Config.Workers,
		writeTime.Seconds(), float64(frames)/totalTime.Seconds(),
	)
	fmt.Print(report)

	if p.BenchmarkLog == "" {
		return
	}

	logEntry := fmt.Sprintf("[%s] Build: %s | Keyframes: %d | Frames: %d | Total: %.3fs | Interpolation: %.3fs | Write: %.3fs\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		keyframes,
		frames,
		totalTime.Seconds(),
		bakeTime.Seconds(),
		writeTime.Seconds(),
	)

	f, err := os.OpenFile(p.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Could not write %s: %v\n", p.BenchmarkLog, err)
		return
	}
	f.WriteString(logEntry)
	f.Close()
}
