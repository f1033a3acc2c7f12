package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/heimdex/heimdex-timeline/internal/action"
	"github.com/heimdex/heimdex-timeline/internal/history"
	"github.com/heimdex/heimdex-timeline/internal/session"
)

// actionTimeout bounds how long a menu click waits for the session.
const actionTimeout = 5 * time.Second

type Tray struct {
	session *session.Session
	logger  *slog.Logger

	statusItem *systray.MenuItem
	undoItem   *systray.MenuItem
	redoItem   *systray.MenuItem

	mu          sync.Mutex
	unsubscribe func()

	onQuit func()
}

type TrayConfig struct {
	Session *session.Session
	Logger  *slog.Logger
	OnQuit  func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		session: cfg.Session,
		logger:  cfg.Logger,
		onQuit:  cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Timeline")
	systray.SetTooltip("Heimdex Timeline")

	t.statusItem = systray.AddMenuItem(statusLabel(history.Event{}), "Undo and redo depth")
	t.statusItem.Disable()

	systray.AddSeparator()

	t.undoItem = systray.AddMenuItem("Undo", "Undo the last edit")
	t.redoItem = systray.AddMenuItem("Redo", "Redo the last undone edit")
	undoGroupItem := systray.AddMenuItem("Undo Group", "Undo the last group of edits")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Heimdex Timeline")

	h := t.session.History()
	t.UpdateHistory(history.Event{UndoDepth: h.UndoCount(), RedoDepth: h.RedoCount()})
	t.mu.Lock()
	t.unsubscribe = h.Subscribe(t.UpdateHistory)
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.undoItem.ClickedCh:
				t.report("undo", t.withTimeout(t.session.Undo))
			case <-t.redoItem.ClickedCh:
				t.report("redo", t.withTimeout(t.session.Redo))
			case <-undoGroupItem.ClickedCh:
				ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
				for _, res := range t.session.UndoGroup(ctx) {
					t.report("undo group", res)
				}
				cancel()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.mu.Lock()
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	t.mu.Unlock()
	t.logger.Info("system tray exiting")
}

func (t *Tray) withTimeout(fn func(context.Context) action.Result) action.Result {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	return fn(ctx)
}

func (t *Tray) report(op string, res action.Result) {
	if res.Success {
		return
	}
	t.logger.Warn("tray "+op+" failed", "code", res.Error.Code, "error", res.Error.Message)
}

// UpdateHistory refreshes the menu from a history event. It runs on the
// goroutine that changed the history.
func (t *Tray) UpdateHistory(ev history.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.statusItem == nil {
		return
	}
	t.statusItem.SetTitle(statusLabel(ev))
	setEnabled(t.undoItem, ev.UndoDepth > 0)
	setEnabled(t.redoItem, ev.RedoDepth > 0)
}

func (t *Tray) Quit() {
	systray.Quit()
}

func setEnabled(item *systray.MenuItem, on bool) {
	if on {
		item.Enable()
	} else {
		item.Disable()
	}
}

func statusLabel(ev history.Event) string {
	if ev.UndoDepth == 0 && ev.RedoDepth == 0 {
		return "History: empty"
	}
	return fmt.Sprintf("History: %d undo, %d redo", ev.UndoDepth, ev.RedoDepth)
}
