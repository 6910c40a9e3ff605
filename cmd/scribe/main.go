// Package main is a terminal host for the scribe editing core. It
// renders the block array onto an in-memory surface, routes keystrokes
// through the public mutation API and draws the caret from the
// tracker's rectangle. It exists to exercise the whole pipeline; real
// hosts embed the editor the same way against their own surface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"github.com/dhollis/scribe/internal/config"
	"github.com/dhollis/scribe/internal/editor"
	"github.com/dhollis/scribe/internal/engine/block"
	"github.com/dhollis/scribe/internal/script"
	"github.com/dhollis/scribe/internal/surface"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "scribe.toml", "path to the configuration file")
	scriptPath := flag.String("script", "", "Lua script to run against the buffer before editing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log := zerolog.Nop()
	if f, err := os.OpenFile("scribe.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		defer f.Close()
		level, perr := zerolog.ParseLevel(cfg.LogLevel)
		if perr != nil {
			level = zerolog.InfoLevel
		}
		log = zerolog.New(f).Level(level).With().Timestamp().Logger()
	}

	ed := editor.New(
		editor.WithLogger(log),
		editor.WithHistoryLimit(cfg.HistoryLimit),
		editor.WithLineBreaks(cfg.LineBreaks),
	)

	if *scriptPath != "" {
		if err := script.NewRunner(ed).RunFile(*scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	mem := surface.NewMemory()
	ed.Sync(mem)

	for {
		draw(screen, mem, ed, cfg.Placeholder)
		ev := screen.PollEvent()
		switch tev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !handleKey(tev, ed, cfg) {
				return 0
			}
			ed.Sync(mem)
		}
	}
}

// handleKey routes one keystroke through the editor API. It returns
// false when the host should quit.
func handleKey(ev *tcell.EventKey, ed *editor.Editor, cfg config.Config) bool {
	off := ed.CharacterPosition()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyCtrlZ:
		ed.Undo()
	case tcell.KeyCtrlL:
		ed.Clear()
	case tcell.KeyEnter:
		if cfg.LineBreaks {
			ed.Insert("\n", off)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.Delete(off-1, off)
	case tcell.KeyLeft:
		ed.SetCharacterPosition(off - 1)
	case tcell.KeyRight:
		ed.SetCharacterPosition(off + 1)
	case tcell.KeyRune:
		ed.Insert(string(ev.Rune()), off)
	}
	return true
}

// draw paints the surface children onto the screen and places the
// terminal cursor at the tracked caret cell.
func draw(screen tcell.Screen, mem *surface.Memory, ed *editor.Editor, placeholder string) {
	screen.Clear()

	if mem.Len() == 0 {
		style := tcell.StyleDefault.Foreground(tcell.ColorGray)
		for i, r := range placeholder {
			screen.SetContent(i, 0, r, nil, style)
		}
		screen.ShowCursor(0, 0)
		screen.Show()
		return
	}

	x, y := 0, 0
	for i := 0; i < mem.Len(); i++ {
		n := mem.Child(i)
		if n.Kind() == surface.NodeBreak {
			x, y = 0, y+1
			continue
		}
		style := nodeStyle(n)
		text := n.Text()
		if n.Kind() == surface.NodeElement && text == "" {
			// Media placeholder cell.
			screen.SetContent(x, y, '▣', nil, style)
			x++
			continue
		}
		for _, r := range text {
			if r == '\n' {
				x, y = 0, y+1
				continue
			}
			screen.SetContent(x, y, r, nil, style)
			x++
		}
	}

	if rect, ok := mem.CursorRect(); ok {
		screen.ShowCursor(rect.X, rect.Y)
	}
	screen.Show()
}

// nodeStyle maps a node's style attribute onto terminal colors.
func nodeStyle(n surface.Node) tcell.Style {
	style := tcell.StyleDefault
	if n.Kind() != surface.NodeElement {
		return style
	}
	attrs := block.ParseStyle(n.Attr("style"))
	if c, ok := attrs["color"]; ok {
		if col, err := colorful.Hex(c); err == nil {
			r, g, b := col.RGB255()
			style = style.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		}
	}
	if c, ok := attrs["background-color"]; ok {
		if col, err := colorful.Hex(c); err == nil {
			r, g, b := col.RGB255()
			style = style.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		}
	}
	return style
}
