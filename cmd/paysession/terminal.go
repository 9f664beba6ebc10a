package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/vitwit/paysession/ui"
)

var labels = map[ui.ElementKey]string{
	ui.StatusTitle:     "status",
	ui.QRCodeID:        "qr id",
	ui.TimeLeft:        "time left",
	ui.AmountRow:       "amount",
	ui.AmountValue:     "amount",
	ui.ItemRow:         "item",
	ui.ItemValue:       "item",
	ui.NetworkSelect:   "network",
	ui.CoinSelect:      "coin",
	ui.PayButton:       "pay",
	ui.QRCode:          "qr",
	ui.PaymentInfo:     "info",
	ui.WalletPayButton: "wallet pay",
	ui.WalletButton:    "wallet",
}

// terminal renders the payment screen as a log of changes.
type terminal struct {
	mu        sync.Mutex
	out       io.Writer
	quietTime bool
	alerts    []string
}

func newTerminal(out io.Writer, quietTime bool) *terminal {
	return &terminal{out: out, quietTime: quietTime}
}

// Elements binds one terminal element per screen control.
func (t *terminal) Elements() ui.Elements {
	els := ui.Elements{}
	for key, label := range labels {
		els[key] = &termElement{term: t, key: key, label: label, visible: true}
	}
	return els
}

func (t *terminal) ShowTerminal(title, message string) {
	t.printf("\n== %s ==\n%s\n", title, message)
}

func (t *terminal) Alert(message string) {
	t.mu.Lock()
	t.alerts = append(t.alerts, message)
	t.mu.Unlock()
	t.printf("! %s\n", message)
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

type termElement struct {
	term  *terminal
	key   ui.ElementKey
	label string

	mu      sync.Mutex
	text    string
	visible bool
	enabled bool
}

func (e *termElement) SetText(text string) {
	e.mu.Lock()
	changed := text != e.text
	e.text = text
	visible := e.visible
	e.mu.Unlock()

	if !changed || !visible || text == "" {
		return
	}
	if e.key == ui.TimeLeft && e.term.quietTime {
		return
	}
	e.term.printf("%-10s %s\n", e.label, text)
}

func (e *termElement) SetVisible(visible bool) {
	e.mu.Lock()
	e.visible = visible
	e.mu.Unlock()
}

func (e *termElement) SetEnabled(enabled bool) {
	e.mu.Lock()
	e.enabled = enabled
	e.mu.Unlock()
}

func (e *termElement) SetTone(ui.Tone) {}

func (e *termElement) SetImage(src, alt string) {
	e.term.printf("%-10s %s (%s)\n", e.label, src, alt)
}
