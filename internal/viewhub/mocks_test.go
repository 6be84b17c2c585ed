package viewhub_test

import (
	"sync/atomic"

	"hostelcare/backend/internal/models"
	"hostelcare/backend/internal/viewhub"
)

// mockClient implements viewhub.Client with an inspectable receive channel.
type mockClient struct {
	id     string
	actor  models.Actor
	Recv   chan models.ViewerNotice
	closed atomic.Bool
}

func newMockClient(id string, actor models.Actor, buffer int) *mockClient {
	return &mockClient{
		id:    id,
		actor: actor,
		Recv:  make(chan models.ViewerNotice, buffer),
	}
}

func (c *mockClient) GetID() string                              { return c.id }
func (c *mockClient) GetActor() models.Actor                     { return c.actor }
func (c *mockClient) GetSendChannel() chan<- models.ViewerNotice { return c.Recv }
func (c *mockClient) Run()                                       {}
func (c *mockClient) Close()                                     { c.closed.Store(true) }

// fakeSource feeds the hub from a plain channel and records cancellation.
type fakeSource struct {
	events    chan models.ChangeEvent
	cancelled atomic.Bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan models.ChangeEvent)}
}

func (f *fakeSource) SubscribeChanges() (<-chan models.ChangeEvent, func()) {
	return f.events, func() { f.cancelled.Store(true) }
}

var _ viewhub.Client = (*mockClient)(nil)
var _ viewhub.ChangeSource = (*fakeSource)(nil)
