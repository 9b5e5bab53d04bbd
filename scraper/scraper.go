// api/scraper/scraper.go
package scraper

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/chiragvadhavana/shopdeck-monitoring-api/models"
)

const (
	// Path substring identifying the purchase-notification API among the
	// responses fired during the page render.
	notificationAPIPath = "/api/prashth/page/"

	recentPurchaseWidget = "RECENT PURCHASE"

	navigationTimeout = 30 * time.Second
	// No in-flight requests for this long counts as network quiescence.
	quietInterval = 500 * time.Millisecond
	// Extra pause after quiescence so the widget poller can still fire.
	settleDelay = 2 * time.Second
)

// Rotated per session to avoid trivial bot fingerprinting.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
}

// Scraper renders product pages in a disposable headless Chrome session
// and intercepts the purchase-notification response emitted during the
// render.
type Scraper struct {
	navTimeout time.Duration
}

func NewScraper() *Scraper {
	return &Scraper{navTimeout: navigationTimeout}
}

// FetchPurchases navigates to pageURL, waits for network quiescence plus a
// settle pause, and returns the entities of the RECENT PURCHASE widget
// from the intercepted payload. Launch failures, navigation timeouts and
// malformed intercepted bodies all degrade to an empty result with a log
// line; only cancellation of the caller's context is returned as an error.
func (s *Scraper) FetchPurchases(ctx context.Context, pageURL string) ([]models.RawEvent, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgents[rand.Intn(len(userAgents))]),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelNav := context.WithTimeout(browserCtx, s.navTimeout)
	defer cancelNav()

	capture := newPayloadCapture()
	inflight := newInflightTracker()

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			inflight.add(e.RequestID)
		case *network.EventLoadingFinished:
			inflight.remove(e.RequestID)
		case *network.EventLoadingFailed:
			inflight.remove(e.RequestID)
		case *network.EventResponseReceived:
			if !strings.Contains(e.Response.URL, notificationAPIPath) || e.Response.Status != 200 {
				return
			}
			requestID := e.RequestID
			c := chromedp.FromContext(browserCtx)
			// Body retrieval is a CDP call of its own and must not block
			// the event dispatcher.
			go func() {
				body, err := network.GetResponseBody(requestID).Do(cdp.WithExecutor(browserCtx, c.Target))
				if err != nil {
					log.Printf("scraper: failed to read intercepted body: %v", err)
					return
				}
				var payload models.PagePayload
				if err := json.Unmarshal(body, &payload); err != nil {
					log.Printf("scraper: malformed intercepted payload: %v", err)
					return
				}
				if payload.Code != 200 {
					return
				}
				capture.set(payload)
			}()
		}
	})

	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("scraper: navigation failed for %s: %v", pageURL, err)
		return nil, nil
	}

	inflight.awaitQuiet(browserCtx, quietInterval)
	select {
	case <-browserCtx.Done():
	case <-time.After(settleDelay):
	}

	payload, ok := capture.get()
	if !ok {
		return nil, nil
	}
	return recentPurchases(payload), nil
}

// recentPurchases returns the entity list of the RECENT PURCHASE widget,
// or nil when the payload carries no such widget.
func recentPurchases(payload models.PagePayload) []models.RawEvent {
	for _, w := range payload.Data.Widgets {
		if w.Title == recentPurchaseWidget {
			return w.Entities
		}
	}
	return nil
}

// payloadCapture holds the accepted payload across listener callbacks.
// Every accepted match overwrites the previous one (keep-last): the page
// re-polls the widget API during the render and the latest poll carries
// the freshest data.
type payloadCapture struct {
	mu      sync.Mutex
	payload models.PagePayload
	ok      bool
}

func newPayloadCapture() *payloadCapture {
	return &payloadCapture{}
}

func (p *payloadCapture) set(payload models.PagePayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payload = payload
	p.ok = true
}

func (p *payloadCapture) get() (models.PagePayload, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payload, p.ok
}

// inflightTracker counts requests that have been sent but not yet
// finished or failed, to approximate the network-idle condition.
type inflightTracker struct {
	mu       sync.Mutex
	pending  map[network.RequestID]struct{}
	lastSeen time.Time
}

func newInflightTracker() *inflightTracker {
	return &inflightTracker{
		pending:  make(map[network.RequestID]struct{}),
		lastSeen: time.Now(),
	}
}

func (t *inflightTracker) add(id network.RequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[id] = struct{}{}
	t.lastSeen = time.Now()
}

func (t *inflightTracker) remove(id network.RequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, id)
	t.lastSeen = time.Now()
}

func (t *inflightTracker) quietSince(d time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending) == 0 && time.Since(t.lastSeen) >= d
}

// awaitQuiet blocks until no request has been in flight for quiet, or the
// context (which carries the navigation deadline) is done.
func (t *inflightTracker) awaitQuiet(ctx context.Context, quiet time.Duration) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.quietSince(quiet) {
				return
			}
		}
	}
}
