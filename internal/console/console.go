// Package console is the interactive front end of the editor: it turns
// command lines into script and scene operations.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mattn/go-shellwords"

	"github.com/ivlev/keyframer/internal/engine"
	"github.com/ivlev/keyframer/internal/scene"
	"github.com/ivlev/keyframer/internal/script"
)

// ErrQuit is returned by Exec when the user asks to leave
var ErrQuit = errors.New("quit")

type Console struct {
	Scene   *scene.Scene
	Script  *script.Script
	Project *engine.Project
	Out     io.Writer

	active scene.SlotID // object being manipulated
	eye    scene.SlotID // frame whose axes manipulation uses
}

// New creates a console that manipulates the first object after the eye
func New(sc *scene.Scene, s *script.Script, p *engine.Project, out io.Writer) *Console {
	c := &Console{
		Scene:   sc,
		Script:  s,
		Project: p,
		Out:     out,
	}
	if sc.Len() > 1 {
		c.active = 1
	}
	return c
}

// Run reads commands from in until it is exhausted, the user quits, or ctx
// is cancelled. Command errors are reported and do not stop the loop.
func (c *Console) Run(ctx context.Context, in io.Reader, prompt bool) error {
	sc := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(c.Out, "> ")
		}
		if !sc.Scan() {
			return sc.Err()
		}

		err := c.Exec(ctx, sc.Text())
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			fmt.Fprintf(c.Out, "[!] %v\n", err)
		}
	}
}

// Exec runs one command line. Arguments follow shell quoting rules so file
// names may contain spaces. Blank lines and # comments are ignored.
func (c *Console) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	word := strings.Fields(line)[0]
	action, ok := Lookup(strings.ToLower(word))
	if !ok {
		return fmt.Errorf("unknown command %q, type h for help", word)
	}

	// only the arguments are shell-split: < and > are commands here
	args, err := shellwords.Parse(strings.TrimSpace(line[len(word):]))
	if err != nil {
		return fmt.Errorf("%s: %w", word, err)
	}

	switch action {
	case ActionHelp:
		fmt.Fprint(c.Out, helpText)
	case ActionCopy:
		c.Script.CopyToScene()
	case ActionNew:
		c.Script.AddFromScene()
	case ActionUpdate:
		c.Script.UpdateFromScene()
	case ActionPrev:
		c.Script.Retreat()
	case ActionNext:
		c.Script.Advance()
	case ActionDelete:
		c.Script.DeleteCurrentFrame()
	case ActionPlay:
		return c.play(ctx)
	case ActionFaster:
		fmt.Fprintf(c.Out, "[*] %d ms between keyframes\n", c.Project.Config.Faster())
	case ActionSlower:
		fmt.Fprintf(c.Out, "[*] %d ms between keyframes\n", c.Project.Config.Slower())
	case ActionWrite:
		return c.withPath(args, func(path string) error {
			if err := c.Script.WriteScript(path); err != nil {
				return err
			}
			fmt.Fprintf(c.Out, "[+] Script written to %s\n", path)
			return nil
		})
	case ActionRead:
		return c.withPath(args, c.Script.ReadScript)
	case ActionSave:
		path := script.GenerateScriptPath(c.Project.Config.ScriptDir)
		if len(args) > 0 {
			path = args[0]
		}
		return c.Save(path)
	case ActionLoad:
		return c.withPath(args, c.Load)
	case ActionSelect:
		return c.withObject(args, func(id scene.SlotID) {
			c.active = id
			fmt.Fprintf(c.Out, "[*] Manipulating %s\n", c.Scene.Name(id))
		})
	case ActionView:
		return c.withObject(args, func(id scene.SlotID) {
			c.eye = id
			fmt.Fprintf(c.Out, "[*] Eye frame is %s\n", c.Scene.Name(id))
		})
	case ActionTranslate:
		v, err := parseVec3(args)
		if err != nil {
			return fmt.Errorf("translate: %w", err)
		}
		c.Scene.Translate(c.active, c.eye, v)
	case ActionRotate:
		return c.rotate(args)
	case ActionPrint:
		return c.Script.PrintCurrent(c.Out)
	case ActionStatus:
		c.status()
	case ActionBake:
		path := filepath.Join(c.Project.Config.ScriptDir, fmt.Sprintf("bake_%s.txt", time.Now().Format("2006-01-02_15-04-05")))
		if len(args) > 0 {
			path = args[0]
		}
		return c.Project.Bake(ctx, path)
	case ActionQuit:
		return ErrQuit
	}
	return nil
}

// Save writes the timeline as a YAML document
func (c *Console) Save(path string) error {
	doc, err := script.NewDocument(c.Scene.Names(), c.Script.Keyframes())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := script.WriteDocument(doc, path); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "[+] Script saved: %s\n", path)
	return nil
}

// Load replaces the timeline with a script file, text or YAML by extension
func (c *Console) Load(path string) error {
	if script.IsTextScript(path) {
		if err := c.Script.ReadScript(path); err != nil {
			return err
		}
	} else {
		doc, err := script.ReadDocument(path)
		if err != nil {
			return fmt.Errorf("read script %s: %w", path, err)
		}
		kfs, err := doc.KeyframesFor(c.Scene.Names())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := c.Script.ReplaceKeyframes(kfs); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.Out, "[*] Loaded %d keyframes from %s\n", c.Script.KeyframeCount(), path)
	return nil
}

func (c *Console) play(ctx context.Context) error {
	err := c.Project.Player.Run(ctx, nil)
	if errors.Is(err, script.ErrTooFewKeyframes) {
		fmt.Fprintln(c.Out, "Warning: You cannot start an animation with less than 2 keyframes.")
		return nil
	}
	return err
}

func (c *Console) rotate(args []string) error {
	if len(args) != 2 && len(args) != 4 {
		return errors.New("rotate: usage rotate <x|y|z|ax ay az> <degrees>")
	}

	var axis mgl32.Vec3
	switch strings.ToLower(args[0]) {
	case "x":
		axis = mgl32.Vec3{1, 0, 0}
	case "y":
		axis = mgl32.Vec3{0, 1, 0}
	case "z":
		axis = mgl32.Vec3{0, 0, 1}
	default:
		if len(args) != 4 {
			return fmt.Errorf("rotate: unknown axis %q", args[0])
		}
		v, err := parseVec3(args[:3])
		if err != nil {
			return fmt.Errorf("rotate: %w", err)
		}
		axis = v
	}

	deg, err := strconv.ParseFloat(args[len(args)-1], 32)
	if err != nil {
		return fmt.Errorf("rotate: bad angle %q", args[len(args)-1])
	}
	return c.Scene.Rotate(c.active, c.eye, axis, float32(deg))
}

func (c *Console) status() {
	cfg := c.Project.Config
	fmt.Fprintf(c.Out, "[*] Keyframes: %d | Current: %d | %d ms between keyframes @ %d FPS\n",
		c.Script.KeyframeCount(), c.Script.CurrentIndex(), cfg.MsBetweenKeyframes, cfg.AnimateFPS)
	fmt.Fprintf(c.Out, "[*] Manipulating %s relative to %s\n", c.Scene.Name(c.active), c.Scene.Name(c.eye))
}

func (c *Console) withPath(args []string, fn func(string) error) error {
	if len(args) == 0 {
		return errors.New("missing file name")
	}
	return fn(args[0])
}

func (c *Console) withObject(args []string, fn func(scene.SlotID)) error {
	if len(args) == 0 {
		return fmt.Errorf("missing object name, one of %s", strings.Join(c.Scene.Names(), ", "))
	}
	id, ok := c.Scene.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown object %q, one of %s", args[0], strings.Join(c.Scene.Names(), ", "))
	}
	fn(id)
	return nil
}

func parseVec3(args []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(args) != 3 {
		return v, fmt.Errorf("expected 3 numbers, got %d", len(args))
	}
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return v, fmt.Errorf("bad number %q", a)
		}
		v[i] = float32(f)
	}
	return v, nil
}
