// Package realtime implements the in-process channel registry that fans
// group change events out to connected members. The registry only tracks
// send handles; it never owns the underlying transport, and delivery is
// best-effort — a dropped client is expected to re-fetch state when it
// reconnects.
package realtime

import (
	"log"
	"sync"

	"github.com/fadhlanhapp/groupcart-backend/models"
)

// SendFunc delivers one event to a subscriber. Implementations are
// opaque to the registry.
type SendFunc func(event models.Event) error

// Connection is a registered subscriber on a channel
type Connection struct {
	ChannelKey     string
	MemberID       string
	send           SendFunc
	closeTransport func()
}

// CloseTransport runs the close hook supplied at registration, if any.
// The registry never calls this itself: closing a replaced or dead
// transport is the collaborator's job.
func (c *Connection) CloseTransport() {
	if c.closeTransport != nil {
		c.closeTransport()
	}
}

// Registry maps channel keys (typically group ids) to their active
// subscribers. All state is process-local and guarded by a mutex; a
// multi-instance deployment needs an external pub/sub backbone on top.
type Registry struct {
	mu       sync.Mutex
	channels map[string]map[string]*Connection
	logf     func(format string, args ...interface{})
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]map[string]*Connection),
		logf:     log.Printf,
	}
}

// SetLogger overrides where delivery failures are logged
func (r *Registry) SetLogger(logf func(format string, args ...interface{})) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logf = logf
}

// CreateConnection registers a subscriber on a channel. A member holds at
// most one connection per channel: registering again replaces the old
// entry, and the replaced handle is returned so the caller can close its
// transport. closeTransport is an optional hook the caller provides for
// exactly that; the registry never invokes it.
func (r *Registry) CreateConnection(channelKey, memberID string, send SendFunc, closeTransport func()) (*Connection, *Connection) {
	conn := &Connection{
		ChannelKey:     channelKey,
		MemberID:       memberID,
		send:           send,
		closeTransport: closeTransport,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	subscribers, ok := r.channels[channelKey]
	if !ok {
		subscribers = make(map[string]*Connection)
		r.channels[channelKey] = subscribers
	}
	replaced := subscribers[memberID]
	subscribers[memberID] = conn

	return conn, replaced
}

// RemoveConnection drops a subscriber. Removing a connection that does
// not exist is a no-op, and a channel left without subscribers is pruned.
func (r *Registry) RemoveConnection(channelKey, memberID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscribers, ok := r.channels[channelKey]
	if !ok {
		return
	}

	delete(subscribers, memberID)
	if len(subscribers) == 0 {
		delete(r.channels, channelKey)
	}
}

// RemoveIfCurrent drops conn only while it is still the active
// registration for its (channel, member) pair. A stale handle whose slot
// was taken over by a newer connection is left alone, so a lingering read
// loop winding down cannot unregister its replacement. Reports whether
// anything was removed.
func (r *Registry) RemoveIfCurrent(conn *Connection) bool {
	if conn == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	subscribers, ok := r.channels[conn.ChannelKey]
	if !ok || subscribers[conn.MemberID] != conn {
		return false
	}

	delete(subscribers, conn.MemberID)
	if len(subscribers) == 0 {
		delete(r.channels, conn.ChannelKey)
	}
	return true
}

// Broadcast delivers an event to every subscriber on a channel except
// excludeMemberID (pass "" to reach everyone). Delivery is synchronous
// and best-effort: one subscriber failing never stops the others.
func (r *Registry) Broadcast(channelKey string, event models.Event, excludeMemberID string) {
	for _, conn := range r.snapshot(channelKey) {
		if conn.MemberID == excludeMemberID {
			continue
		}
		r.deliver(conn, event)
	}
}

// SendToUser delivers an event to a single member; a member with no
// active connection on the channel is silently skipped.
func (r *Registry) SendToUser(channelKey, memberID string, event models.Event) {
	r.mu.Lock()
	var conn *Connection
	if subscribers, ok := r.channels[channelKey]; ok {
		conn = subscribers[memberID]
	}
	r.mu.Unlock()

	if conn != nil {
		r.deliver(conn, event)
	}
}

// ConnectionCount returns the number of active subscribers on a channel
func (r *Registry) ConnectionCount(channelKey string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels[channelKey])
}

// ActiveChannels returns the keys of all channels with subscribers
func (r *Registry) ActiveChannels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.channels))
	for key := range r.channels {
		keys = append(keys, key)
	}
	return keys
}

// Cleanup drops all registry state. Meant for process shutdown and test
// isolation; the underlying transports are still the callers' to close.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels = make(map[string]map[string]*Connection)
}

// snapshot copies a channel's subscribers so delivery happens outside
// the lock. Map iteration makes the order arbitrary; only per-subscriber
// ordering across sequential broadcasts is guaranteed.
func (r *Registry) snapshot(channelKey string) []*Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscribers, ok := r.channels[channelKey]
	if !ok {
		return nil
	}

	conns := make([]*Connection, 0, len(subscribers))
	for _, conn := range subscribers {
		conns = append(conns, conn)
	}
	return conns
}

// deliver invokes one subscriber's send handle, isolating failures and
// panics so the rest of a broadcast is unaffected
func (r *Registry) deliver(conn *Connection, event models.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logf("realtime: send to %s on channel %s panicked: %v", conn.MemberID, conn.ChannelKey, rec)
		}
	}()

	if err := conn.send(event); err != nil {
		r.logf("realtime: send to %s on channel %s failed: %v", conn.MemberID, conn.ChannelKey, err)
	}
}
