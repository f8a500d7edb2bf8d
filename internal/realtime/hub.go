// Package realtime routes permission and vote events between live
// websocket connections. Delivery is best effort: a frame is attempted
// once if the target is currently registered, never retried, and is
// deliberately not coupled to whether the underlying vote row was
// persisted.
package realtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/voxlive/vox-backend/internal/session"
	"github.com/voxlive/vox-backend/internal/types"
)

// Client is one live websocket connection as the hub sees it. The handler
// drains outbox into the socket; the hub is the only writer. gone is
// touched exclusively from the hub loop.
type Client struct {
	outbox chan types.ServerMessage
	gone   bool
}

func NewClient() *Client {
	return &Client{outbox: make(chan types.ServerMessage, 16)}
}

// Outbox is the stream of frames to write to the socket. Closed by the hub
// once the client leaves or falls too far behind.
func (c *Client) Outbox() <-chan types.ServerMessage { return c.outbox }

type HubMsg interface{ isHubMsg() }

// Join registers the client, assigns it a code and queues the new-id frame.
// Reply receives the code, or "" if no code could be assigned.
type Join struct {
	Client *Client
	Reply  chan string
}

// Leave releases the client's code and subscriptions. When Done is non-nil
// it is closed after cleanup, so a handler can hold the socket open until
// its code can no longer resolve to it.
type Leave struct {
	Client *Client
	Done   chan struct{}
}

// Watch subscribes the client to a group's vote channel.
type Watch struct {
	Client *Client
	Group  string
}

// Unwatch drops the subscription.
type Unwatch struct {
	Client *Client
	Group  string
}

// AllowVote grants voting permission to whichever connection currently
// holds Target. An unresolvable target is dropped silently: the holder may
// simply have disconnected.
type AllowVote struct {
	Target string
}

// CastVote fans a vote event out to every connection watching the group.
type CastVote struct {
	Group       string
	Participant string
}

// NotifyError pushes an error frame to one client. Routed through the hub
// so the hub stays the only writer on any outbox.
type NotifyError struct {
	Client *Client
	Text   string
}

type Shutdown struct{}

func (Join) isHubMsg()        {}
func (Leave) isHubMsg()       {}
func (Watch) isHubMsg()       {}
func (Unwatch) isHubMsg()     {}
func (AllowVote) isHubMsg()   {}
func (CastVote) isHubMsg()    {}
func (NotifyError) isHubMsg() {}
func (Shutdown) isHubMsg()    {}

// Hub owns the subscription sets and serializes all fan-out through a
// single loop. The session directory is injected so the websocket handler
// and tests share one registry.
type Hub struct {
	inbox  chan HubMsg
	dir    *session.Directory[*Client]
	groups map[string]map[*Client]struct{}
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, dir *session.Directory[*Client], log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		dir:    dir,
		groups: make(map[string]map[*Client]struct{}),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				code, err := h.dir.Register(msg.Client)
				if err != nil {
					h.log.Error("assigning session code failed", zap.Error(err))
					msg.Reply <- ""
					break
				}
				h.deliver(msg.Client, types.ServerMessage{Type: "new-id", ID: code})
				msg.Reply <- code

			case Leave:
				h.remove(msg.Client)
				if msg.Done != nil {
					close(msg.Done)
				}

			case Watch:
				if msg.Client.gone {
					break
				}
				set := h.groups[msg.Group]
				if set == nil {
					set = make(map[*Client]struct{})
					h.groups[msg.Group] = set
				}
				set[msg.Client] = struct{}{}

			case Unwatch:
				h.unsubscribe(msg.Client, msg.Group)

			case AllowVote:
				target, ok := h.dir.Resolve(msg.Target)
				if !ok {
					h.log.Debug("allow-vote target not registered", zap.String("target", msg.Target))
					break
				}
				h.deliver(target, types.ServerMessage{Type: "vote-allowed"})

			case CastVote:
				frame := types.ServerMessage{
					Type:        "vote-" + msg.Group,
					Participant: msg.Participant,
				}
				for c := range h.groups[msg.Group] {
					h.deliver(c, frame)
				}

			case NotifyError:
				h.deliver(msg.Client, types.ServerMessage{Type: "error", Error: msg.Text})

			case Shutdown:
				for _, set := range h.groups {
					for c := range set {
						h.remove(c)
					}
				}
				clear(h.groups)
				h.cancel()
				return
			}
		}
	}
}

// deliver attempts one non-blocking send. A client whose outbox is full is
// slow or wedged and gets dropped, same as any other disconnect.
func (h *Hub) deliver(c *Client, msg types.ServerMessage) {
	if c.gone {
		return
	}
	select {
	case c.outbox <- msg:
	default:
		h.log.Warn("dropping slow client")
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	if c.gone {
		return
	}
	c.gone = true
	h.dir.Deregister(c)
	for group, set := range h.groups {
		delete(set, c)
		if len(set) == 0 {
			delete(h.groups, group)
		}
	}
	close(c.outbox)
}

func (h *Hub) unsubscribe(c *Client, group string) {
	set := h.groups[group]
	if set == nil {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.groups, group)
	}
}
