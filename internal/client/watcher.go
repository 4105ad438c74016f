package client

import (
	"context"
	"sync"
	"time"

	"github.com/ewhitmore/cardtable/internal/models"
)

// DefaultPollInterval matches the browser frontend's convergence loop.
const DefaultPollInterval = 4 * time.Second

// ChangeFunc is invoked once per suit whose card differs from the last
// applied snapshot. card is nil when a suit transitions back to unset.
type ChangeFunc func(suit models.Suit, card *models.Card)

// Watcher follows a shared game by polling it on a fixed interval and
// reporting per-suit differences. Consistency is eventual within one
// polling interval, not strict.
type Watcher struct {
	client   *Client
	interval time.Duration
	onChange ChangeFunc

	mu      sync.Mutex
	onError func(error)
	gameID  string
	paused  bool
	seen    map[models.Suit]string
	cancel  context.CancelFunc
	done    chan struct{}
}

// SetOnError installs a hook for fetch failures. Errors never clear the
// last applied snapshot; the loop keeps polling.
func (w *Watcher) SetOnError(fn func(error)) {
	w.mu.Lock()
	w.onError = fn
	w.mu.Unlock()
}

// Watch starts a convergence loop for gameID. The loop stops when ctx is
// cancelled or Stop is called.
func (c *Client) Watch(ctx context.Context, gameID string, interval time.Duration, onChange ChangeFunc) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		client:   c,
		interval: interval,
		onChange: onChange,
		gameID:   gameID,
		seen:     make(map[models.Suit]string),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Converge immediately on join rather than waiting one interval.
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick performs one fetch-and-reconcile pass. Only one fetch is ever in
// flight per watcher: ticks run on the loop goroutine.
func (w *Watcher) tick(ctx context.Context) {
	w.mu.Lock()
	paused := w.paused
	id := w.gameID
	onError := w.onError
	w.mu.Unlock()
	if paused || id == "" {
		return
	}

	game, err := w.client.GetGame(ctx, id)
	if err != nil {
		if onError != nil && ctx.Err() == nil {
			onError(err)
		}
		return
	}

	w.mu.Lock()
	// Discard superseded responses for a game we are no longer watching.
	if w.gameID != id {
		w.mu.Unlock()
		return
	}
	changed := w.diffLocked(game.Cards)
	w.mu.Unlock()

	for _, ch := range changed {
		w.onChange(ch.suit, ch.card)
	}
}

type change struct {
	suit models.Suit
	card *models.Card
}

func (w *Watcher) diffLocked(cards map[models.Suit]*models.Card) []change {
	var changed []change
	for _, suit := range models.Suits() {
		card := cards[suit]
		key := ""
		if card != nil {
			key = card.ID + ":" + card.Name
		}
		if w.seen[suit] != key {
			w.seen[suit] = key
			changed = append(changed, change{suit: suit, card: card})
		}
	}
	return changed
}

// SwitchGame points the watcher at a different session. Responses still
// in flight for the previous session are discarded, and every suit of
// the new session reports as changed on the next poll.
func (w *Watcher) SwitchGame(gameID string) {
	w.mu.Lock()
	w.gameID = gameID
	w.seen = make(map[models.Suit]string)
	w.mu.Unlock()
}

// Pause suspends polling (the visibility-hidden analogue). The loop and
// its state survive; Resume picks up where it left off.
func (w *Watcher) Pause() {
	w.mu.Lock()
	w.paused = true
	w.mu.Unlock()
}

// Resume re-enables polling after Pause.
func (w *Watcher) Resume() {
	w.mu.Lock()
	w.paused = false
	w.mu.Unlock()
}

// Stop ends the convergence loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.cancel()
	<-w.done
}
