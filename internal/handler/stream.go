package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/novacart/internal/domain"
	"github.com/msomdec/novacart/internal/service"
	"github.com/msomdec/novacart/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// streamBuffer bounds updates queued for a slow event stream.
const streamBuffer = 32

// streamUpdate is one write to the event stream.
type streamUpdate func(sse *datastar.ServerSentEventGenerator) error

// HandleStream keeps a Datastar event stream open for the browser. It patches
// the user and cart signals after every store mutation, appends toasts to
// #toasts, and follows navigation requests with a redirect.
// GET /api/stream
func HandleStream(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())
	updates := make(chan streamUpdate, streamBuffer)

	push := func(u streamUpdate) {
		select {
		case updates <- u:
		default:
			slog.Warn("event stream full, dropping update", "browser_id", ws.ID)
		}
	}

	unsubscribeSession := ws.Session.Subscribe(func(id *domain.Identity) {
		push(patchSignals(sessionSignals(id)))
	})
	defer unsubscribeSession()

	unsubscribeCart := ws.Cart.Subscribe(func(c domain.Cart) {
		push(patchSignals(map[string]any{"cart": toCartDTO(c)}))
	})
	defer unsubscribeCart()

	unsubscribeFeed := ws.Feed.Subscribe(func(e service.Event) {
		switch e.Kind {
		case service.EventToast:
			push(func(sse *datastar.ServerSentEventGenerator) error {
				return sse.PatchElementTempl(
					view.Toast(e.Severity, e.Message),
					datastar.WithSelectorID("toasts"),
					datastar.WithModeAppend(),
				)
			})
		case service.EventNavigate:
			push(func(sse *datastar.ServerSentEventGenerator) error {
				return sse.Redirect(e.Path)
			})
		}
	})
	defer unsubscribeFeed()

	sse := datastar.NewSSE(w, r)

	// Subscriptions are in place before the initial state is sent, so no
	// mutation falls between the two.
	var current *domain.Identity
	if id, ok := ws.Session.CurrentIdentity(); ok {
		current = &id
	}
	initial := sessionSignals(current)
	initial["cart"] = toCartDTO(ws.Cart.Snapshot())
	if err := sse.MarshalAndPatchSignals(initial); err != nil {
		slog.Debug("event stream closed", "browser_id", ws.ID, "error", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case u := <-updates:
			if err := u(sse); err != nil {
				slog.Debug("event stream closed", "browser_id", ws.ID, "error", err)
				return
			}
		}
	}
}

func patchSignals(signals map[string]any) streamUpdate {
	return func(sse *datastar.ServerSentEventGenerator) error {
		return sse.MarshalAndPatchSignals(signals)
	}
}

func sessionSignals(id *domain.Identity) map[string]any {
	if id == nil {
		return map[string]any{"authenticated": false, "user": nil}
	}
	return map[string]any{"authenticated": true, "user": toIdentityDTO(*id)}
}
