// Package notify announces phase changes as desktop notifications over the
// D-Bus session bus.
package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsService = "org.freedesktop.Notifications"
	notificationsPath    = "/org/freedesktop/Notifications"
	notifyMethod         = notificationsService + ".Notify"
	expireTimeoutMillis  = int32(4000)
)

// Caller is the subset of a D-Bus object used to post notifications.
type Caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Notifier sends notifications and replaces its previous one in place.
type Notifier struct {
	mu        sync.Mutex
	appName   string
	object    Caller
	conn      *dbus.Conn
	replaceID uint32
}

// NewSessionNotifier connects to the user's session bus.
func NewSessionNotifier(appName string) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	notifier := NewWithCaller(appName, conn.Object(notificationsService, dbus.ObjectPath(notificationsPath)))
	notifier.conn = conn
	return notifier, nil
}

// NewWithCaller builds a Notifier on an existing D-Bus object.
func NewWithCaller(appName string, object Caller) *Notifier {
	return &Notifier{appName: appName, object: object}
}

// Notify posts summary and body, replacing the last notification.
func (notifier *Notifier) Notify(summary, body string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	call := notifier.object.Call(notifyMethod, 0,
		notifier.appName,
		notifier.replaceID,
		"alarm-symbolic",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(1)),
		},
		expireTimeoutMillis,
	)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err == nil {
		notifier.replaceID = id
	}
	return nil
}

// Close releases the bus connection.
func (notifier *Notifier) Close() error {
	if notifier.conn == nil {
		return nil
	}
	return notifier.conn.Close()
}
