package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, "Importing actuals...")

	p.Update(0, 0)
	assert.Nil(t, p.bar)

	p.Update(1, 4)
	require.NotNil(t, p.bar)
	assert.Equal(t, int64(4), p.bar.GetMax64())

	p.Update(4, 4)
	p.Finish()
	assert.True(t, p.bar.IsFinished())
}

func TestProgress_FinishWithoutBar(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, "Nothing")
	p.Finish()
	assert.Empty(t, out.String())
}
