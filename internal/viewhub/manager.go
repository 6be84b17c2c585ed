// Package viewhub keeps every connected viewer's screen in step with the
// complaint store. Each viewer gets one subscription scoped to the rows their
// role entitles them to; any matching change triggers a refresh notice and the
// viewer re-fetches its filtered result set. Correctness over bandwidth: no
// incremental patches are pushed.
package viewhub

import (
	"github.com/sirupsen/logrus"

	"hostelcare/backend/internal/models"
)

// ChangeSource delivers the store's change feed. Satisfied by the storage
// service; tests substitute a plain channel.
type ChangeSource interface {
	SubscribeChanges() (<-chan models.ChangeEvent, func())
}

// Manager is the hub: it owns the viewer registry and fans change events out
// to entitled viewers. All registry access happens on the Run goroutine.
type Manager struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.ChangeEvent

	source ChangeSource
	cancel func()
	log    *logrus.Entry
}

// NewManager builds a hub reading from the given change source.
func NewManager(source ChangeSource, log *logrus.Logger) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.ChangeEvent),
		source:       source,
		log:          logrus.NewEntry(log),
	}
}

// Run is the hub's main loop. Start it once, on its own goroutine.
func (m *Manager) Run() {
	m.startFeedListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.GetID()] = client
			m.log.WithFields(logrus.Fields{
				"client_id": client.GetID(),
				"user_id":   client.GetActor().UserID,
				"role":      client.GetActor().Role,
			}).Info("viewer connected")

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.GetID()]; ok {
				delete(m.Clients, client.GetID())
				client.Close()
				m.log.WithField("client_id", client.GetID()).Info("viewer disconnected")
			}

		case event := <-m.EventsCh:
			m.dispatch(event)
		}
	}
}

// Stop releases the change feed subscription.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// dispatch sends a refresh notice to every entitled viewer. A viewer whose
// send buffer is full is dropped; it reconnects and re-fetches anyway.
func (m *Manager) dispatch(event models.ChangeEvent) {
	notice := models.ViewerNotice{
		Type:        "refresh",
		Action:      event.Action,
		ComplaintID: event.ComplaintID,
	}

	for id, client := range m.Clients {
		if !entitled(client.GetActor(), event) {
			continue
		}
		select {
		case client.GetSendChannel() <- notice:
		default:
			m.log.WithField("client_id", id).Warn("viewer too slow, dropping connection")
			delete(m.Clients, id)
			client.Close()
		}
	}
}

func (m *Manager) startFeedListener() {
	if m.source == nil {
		return
	}
	events, cancel := m.source.SubscribeChanges()
	m.cancel = cancel

	go func() {
		for event := range events {
			m.EventsCh <- event
		}
	}()
}
