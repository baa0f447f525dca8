// Package chrome executes render jobs in a crash-isolated headless browser.
// Every job gets a fresh browser process that is torn down unconditionally,
// so a renderer hang or crash never affects the serving process.
package chrome

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"rosterboard/internal/pkg/errors"
	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/ports"
)

// DefaultTimeout bounds one render call wall-clock; on expiry the browser
// process is killed and the caller gets a timeout error.
const DefaultTimeout = 60 * time.Second

// MinQuality is the floor applied to the caller-requested JPEG quality so
// embedded photos stay legible.
const MinQuality = 85

// Engine implements ports.RenderEngine with one headless Chrome per call.
type Engine struct {
	timeout  time.Duration
	execPath string
	log      *logger.Logger
}

func New(timeout time.Duration, execPath string, log *logger.Logger) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		timeout:  timeout,
		execPath: execPath,
		log:      log.WithComponent("chrome"),
	}
}

// RenderImage rasterizes the markup into JPEG bytes clipped exactly to the
// viewport rectangle. It never returns partial bytes: launch failures,
// in-call exceptions and timeouts all normalize to a coded error.
func (e *Engine) RenderImage(ctx context.Context, p ports.RenderParams) ([]byte, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}

	// Canceling allocCtx kills the browser process, which is the teardown
	// path for both success and failure.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	if p.OptimizeForSpeed {
		e.blockNonImageFetches(taskCtx)
	}

	quality := p.Quality
	if quality < MinQuality {
		quality = MinQuality
	}

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(p.Width), int64(p.Height), chromedp.EmulateScale(p.Scale)),
	}
	if p.OptimizeForSpeed {
		tasks = append(tasks,
			fetch.Enable(),
			chromedp.ActionFunc(func(ctx context.Context) error {
				return emulation.SetScriptExecutionDisabled(true).Do(ctx)
			}),
		)
	}
	tasks = append(tasks,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, p.HTML).Do(ctx)
		}),
		e.waitLoaded(p.OptimizeForSpeed),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatJpeg).
				WithQuality(int64(quality)).
				WithClip(&page.Viewport{
					X:      0,
					Y:      0,
					Width:  float64(p.Width),
					Height: float64(p.Height),
					Scale:  p.Scale,
				}).
				Do(ctx)
			return err
		}),
	)

	if err := chromedp.Run(taskCtx, tasks); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			e.log.Warn("render timed out, browser killed",
				"timeout", e.timeout.String(), "duration_ms", time.Since(start).Milliseconds())
			return nil, errors.Timeout("render")
		}
		return nil, errors.WrapWithCode(err, errors.CodeRenderFailed, "chrome.run", "headless render failed")
	}

	if len(buf) == 0 {
		return nil, errors.RenderFailed("empty screenshot")
	}

	e.log.Debug("render completed",
		"bytes", len(buf), "duration_ms", time.Since(start).Milliseconds())
	return buf, nil
}

// waitLoaded returns the content-ready condition: DOM-ready when optimizing
// for speed, otherwise a short settle window for image fetches to land.
func (e *Engine) waitLoaded(optimizeForSpeed bool) chromedp.Action {
	if optimizeForSpeed {
		return chromedp.WaitReady("body", chromedp.ByQuery)
	}
	return chromedp.Tasks{
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(750 * time.Millisecond),
	}
}

// blockNonImageFetches intercepts requests so that only image fetches reach
// the network. Stylesheets, fonts and scripts must already be embedded.
func (e *Engine) blockNonImageFetches(taskCtx context.Context) {
	chromedp.ListenTarget(taskCtx, func(ev any) {
		evt, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(taskCtx)
			ectx := cdp.WithExecutor(taskCtx, c.Target)

			switch evt.ResourceType {
			case network.ResourceTypeImage, network.ResourceTypeDocument:
				_ = fetch.ContinueRequest(evt.RequestID).Do(ectx)
			default:
				_ = fetch.FailRequest(evt.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
			}
		}()
	})
}
