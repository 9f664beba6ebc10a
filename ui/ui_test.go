package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/paysession/types"
)

type stub struct{}

func (stub) SetText(string) {}
func (stub) SetVisible(bool) {}
func (stub) SetEnabled(bool) {}
func (stub) SetTone(Tone) {}
func (stub) SetImage(string, string) {}

func full() Elements {
	els := Elements{}
	for _, k := range RequiredKeys {
		els[k] = stub{}
	}
	return els
}

func TestElementsCheck(t *testing.T) {
	require.NoError(t, full().Check())

	els := full()
	delete(els, TimeLeft)
	err := els.Check()

	var missing *MissingElementError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, TimeLeft, missing.Key)
	assert.True(t, errors.Is(err, types.NewError(types.ErrMissingElement, "", nil)))
}

func TestElementsCheck_NilElement(t *testing.T) {
	els := full()
	els[PayButton] = nil

	var missing *MissingElementError
	require.True(t, errors.As(els.Check(), &missing))
	assert.Equal(t, PayButton, missing.Key)
}
