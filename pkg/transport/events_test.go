package transport

import "testing"

func TestDispatcherToleratesNilHandlers(t *testing.T) {
	d := newDispatcher(StateDisconnected)

	d.Open()
	d.Close()
	d.Error(nil)
	d.Message(Message{Type: "edit"})
	d.StateChange(StateConnecting)
}

func TestDispatcherRegisterMergesFieldByField(t *testing.T) {
	d := newDispatcher(StateDisconnected)

	var opens, closes int
	d.Register(Handlers{
		OnOpen:  func() { opens++ },
		OnClose: func() { closes++ },
	})

	// A later registration with only OnOpen set must leave OnClose intact.
	var replaced int
	d.Register(Handlers{OnOpen: func() { replaced++ }})

	d.Open()
	d.Close()

	if opens != 0 {
		t.Fatalf("original OnOpen fired %d times after replacement", opens)
	}
	if replaced != 1 {
		t.Fatalf("replacement OnOpen fired %d times, want 1", replaced)
	}
	if closes != 1 {
		t.Fatalf("OnClose fired %d times, want 1", closes)
	}
}

func TestDispatcherSuppressesRepeatedStates(t *testing.T) {
	d := newDispatcher(StateDisconnected)

	var seen []State
	d.Register(Handlers{OnStateChange: func(s State) { seen = append(seen, s) }})

	d.StateChange(StateDisconnected)
	d.StateChange(StateConnecting)
	d.StateChange(StateConnecting)
	d.StateChange(StateConnected)
	d.StateChange(StateConnected)
	d.StateChange(StateDisconnected)

	want := []State{StateConnecting, StateConnected, StateDisconnected}
	if len(seen) != len(want) {
		t.Fatalf("got transitions %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d: got %s want %s", i, seen[i], want[i])
		}
	}
}

func TestDispatcherHandlerMayReRegister(t *testing.T) {
	d := newDispatcher(StateDisconnected)

	var second int
	d.Register(Handlers{OnOpen: func() {
		d.Register(Handlers{OnOpen: func() { second++ }})
	}})

	d.Open()
	d.Open()

	if second != 1 {
		t.Fatalf("re-registered handler fired %d times, want 1", second)
	}
}
