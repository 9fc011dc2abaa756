package main

import (
	"context"
	"fmt"
	"image"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/softraster/pkg/render"
)

// showTerminal draws fb in the alternate screen until a key is pressed.
func showTerminal(fb *render.Framebuffer) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	term.EnterAltScreen()
	term.HideCursor()

	draw := func() error {
		term.Resize(width, height)
		term.Erase()
		fb.Draw(term, image.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		return nil
	}
	if err := draw(); err != nil {
		return err
	}

	for ev := range term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			if err := draw(); err != nil {
				return err
			}
		case uv.KeyPressEvent:
			return nil
		}
	}
	return nil
}
