// Package session owns the live registry of short shareable codes for open
// transport connections. Codes exist only while their connection is open;
// nothing is persisted.
package session

import "sync"

// Directory maps codes to live connections and back. It is generic over the
// connection handle so the transport layer registers its own client type and
// tests can register anything comparable. Both maps are kept in step under
// one lock, which makes disconnect O(1) instead of a value scan.
//
// A Directory is meant to be constructed once and passed by reference to the
// connection handler and the broadcast router.
type Directory[C comparable] struct {
	mu     sync.RWMutex
	byCode map[string]C
	byConn map[C]string
}

func NewDirectory[C comparable]() *Directory[C] {
	return &Directory[C]{
		byCode: make(map[string]C),
		byConn: make(map[C]string),
	}
}

// Register assigns a fresh unique code to conn and returns it. Registering
// an already-registered connection returns its existing code. Code
// generation and insertion happen under the same lock, so concurrent
// connects can never be handed the same code.
func (d *Directory[C]) Register(conn C) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if code, ok := d.byConn[conn]; ok {
		return code, nil
	}

	code, err := GenerateCode(func(candidate string) bool {
		_, taken := d.byCode[candidate]
		return taken
	})
	if err != nil {
		return "", err
	}

	d.byCode[code] = conn
	d.byConn[conn] = code
	return code, nil
}

// Deregister releases conn's code. Deregistering a connection that was
// never registered is a no-op.
func (d *Directory[C]) Deregister(conn C) {
	d.mu.Lock()
	defer d.mu.Unlock()

	code, ok := d.byConn[conn]
	if !ok {
		return
	}
	delete(d.byConn, conn)
	delete(d.byCode, code)
}

// Resolve returns the live connection a code is bound to, if any.
func (d *Directory[C]) Resolve(code string) (C, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	conn, ok := d.byCode[code]
	return conn, ok
}

// Len reports how many codes are currently live.
func (d *Directory[C]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byCode)
}
