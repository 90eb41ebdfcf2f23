package render

import (
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, 0, statusOf(nil))
	assert.Equal(t, 404, statusOf(&network.Response{Status: 404}))
	assert.Equal(t, 200, statusOf(&network.Response{Status: 200}))
}

func TestNewChromeSource_DoesNotLaunchBrowser(t *testing.T) {
	// The allocator only starts Chrome on the first page load.
	src := NewChromeSource(0, "lightbox-test/1.0", zap.NewNop())
	assert.NotNil(t, src.allocCtx)
	src.Close()
	assert.Error(t, src.allocCtx.Err())
}
