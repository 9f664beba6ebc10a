package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/paysession/ui"
)

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminal(&buf, true)
	els := term.Elements()
	require.NoError(t, els.Check())

	els[ui.StatusTitle].SetText("Waiting for Payment")
	els[ui.StatusTitle].SetText("Waiting for Payment")
	els[ui.TimeLeft].SetText("1:59")
	els[ui.PayButton].SetVisible(false)
	els[ui.PayButton].SetText("Pay Now")
	term.Alert("Transaction rejected by user")
	term.ShowTerminal("Session Expired", "This payment session has expired.")

	out := buf.String()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Waiting for Payment")))
	assert.NotContains(t, out, "1:59")
	assert.NotContains(t, out, "Pay Now")
	assert.Contains(t, out, "! Transaction rejected by user")
	assert.Contains(t, out, "== Session Expired ==")
}
