package browsertest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nextXPath = "//li[11]/button"

func TestStatic_OnlyNextXPathAdvances(t *testing.T) {
	b := &Static{
		Pages:     map[string][]string{"https://example.com": {"<p>1</p>", "<p>2</p>"}},
		NextXPath: nextXPath,
	}

	p, err := b.Open(context.Background(), "https://example.com")
	require.NoError(t, err)
	html, _ := p.HTML()
	assert.Equal(t, "<p>1</p>", html)

	ok, err := p.ClickXPath("//button[1]")
	require.NoError(t, err)
	assert.False(t, ok)
	html, _ = p.HTML()
	assert.Equal(t, "<p>1</p>", html)

	ok, err = p.ClickXPath(nextXPath)
	require.NoError(t, err)
	assert.True(t, ok)
	html, _ = p.HTML()
	assert.Equal(t, "<p>2</p>", html)

	ok, _ = p.ClickXPath(nextXPath)
	assert.False(t, ok)
	assert.Equal(t, []string{"//button[1]", nextXPath, nextXPath}, b.Clicked)

	out := filepath.Join(t.TempDir(), "shot", "a.png")
	require.NoError(t, p.ScreenshotElement("#cover", out))
	_, err = os.Stat(out)
	assert.NoError(t, err)

	_, err = b.Open(context.Background(), "https://missing")
	assert.Error(t, err)
	assert.Equal(t, []string{"https://example.com"}, b.Opened)
}
