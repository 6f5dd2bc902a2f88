package domain

import "testing"

func conn(id, from, to int64, status string) Connection {
	return Connection{
		ID:        id,
		Requester: User{ID: from, Name: "user" + string(rune('a'+from))},
		Receiver:  User{ID: to, Name: "user" + string(rune('a'+to))},
		Status:    status,
	}
}

func TestContactsFrom(t *testing.T) {
	conns := []Connection{
		conn(1, 1, 2, StatusAccepted),
		conn(2, 3, 1, StatusAccepted),
		conn(3, 1, 4, StatusPending),
		conn(4, 2, 1, StatusAccepted), // duplicate of 1<->2
		conn(5, 5, 1, StatusRejected),
	}
	got := ContactsFrom(conns, 1)
	if len(got) != 2 {
		t.Fatalf("got %d contacts, want 2: %+v", len(got), got)
	}
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("contacts = [%d %d], want [2 3]", got[0].ID, got[1].ID)
	}
}

func TestContactsFrom_Empty(t *testing.T) {
	if got := ContactsFrom(nil, 1); len(got) != 0 {
		t.Errorf("got %d contacts, want 0", len(got))
	}
}

func TestStatusWith(t *testing.T) {
	conns := []Connection{
		conn(1, 1, 2, StatusAccepted),
		conn(2, 3, 1, StatusPending),
	}
	tests := []struct {
		other int64
		want  string
	}{
		{2, StatusAccepted},
		{3, StatusPending},
		{4, ""},
	}
	for _, tt := range tests {
		if got := StatusWith(conns, 1, tt.other); got != tt.want {
			t.Errorf("StatusWith(1, %d) = %q, want %q", tt.other, got, tt.want)
		}
	}
}

func TestConnectionOther(t *testing.T) {
	c := conn(1, 1, 2, StatusAccepted)
	if got := c.Other(1).ID; got != 2 {
		t.Errorf("Other(1) = %d, want 2", got)
	}
	if got := c.Other(2).ID; got != 1 {
		t.Errorf("Other(2) = %d, want 1", got)
	}
}
