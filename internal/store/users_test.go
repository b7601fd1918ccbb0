package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/models"
)

func TestUserDirectoryStatusReconciliation(t *testing.T) {
	b := newFakeBackend(t)
	d := NewUserDirectory(b.client(), false, zerolog.Nop())
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(d.Users()); got != 2 {
		t.Fatalf("loaded %d users, want 2", got)
	}

	d.ApplyStatusChange(models.UserStatusEvent{UserID: resident.ID, Status: models.UserStatusBanned})
	if u := findUser(t, d, resident.ID); !u.IsBanned {
		t.Fatal("ban event did not flip is_banned")
	}

	d.ApplyStatusChange(models.UserStatusEvent{UserID: resident.ID, Status: models.UserStatusUnbanned})
	if u := findUser(t, d, resident.ID); u.IsBanned {
		t.Fatal("unban event did not clear is_banned")
	}

	d.ApplyStatusChange(models.UserStatusEvent{UserID: neighbor.ID, Status: models.UserStatusApproved})
	if u := findUser(t, d, neighbor.ID); !u.IsApproved {
		t.Fatal("approve event did not flip is_approved")
	}

	// Rejection removes the account even outside pending mode.
	d.ApplyStatusChange(models.UserStatusEvent{UserID: neighbor.ID, Status: models.UserStatusRejected})
	if got := len(d.Users()); got != 1 {
		t.Fatalf("rejected user not removed: %d users", got)
	}
}

func TestUserDirectoryPendingModeRemovesOnAnyStatus(t *testing.T) {
	b := newFakeBackend(t)
	d := NewUserDirectory(b.client(), true, zerolog.Nop())

	pending := models.User{ID: 55, Username: "applicant"}
	d.ApplyRegistered(pending)
	d.ApplyRegistered(pending) // duplicate push delivery
	if got := len(d.Users()); got != 1 {
		t.Fatalf("duplicate registration double-inserted: %d users", got)
	}

	d.ApplyStatusChange(models.UserStatusEvent{UserID: 55, Status: models.UserStatusApproved})
	if got := len(d.Users()); got != 0 {
		t.Fatalf("approved applicant stayed in pending list: %d users", got)
	}
}

func TestUserDirectorySearch(t *testing.T) {
	b := newFakeBackend(t)
	d := NewUserDirectory(b.client(), false, zerolog.Nop())

	d.ApplyRegistered(models.User{ID: 1, Username: "samir", FullName: "Samir Adel", BuildingNumber: 4, ApartmentNumber: 12})
	d.ApplyRegistered(models.User{ID: 2, Username: "nour", FullName: "Nour Hassan", BuildingNumber: 7, ApartmentNumber: 3})

	if got := d.Search("sam"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("username search = %v", got)
	}
	if got := d.Search("hassan"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("full name search = %v", got)
	}
	if got := d.Search("7"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("building search = %v", got)
	}
	if got := d.Search("  "); len(got) != 2 {
		t.Fatalf("blank query should return everyone, got %d", len(got))
	}
}

func findUser(t *testing.T, d *UserDirectory, id int64) models.User {
	t.Helper()
	for _, u := range d.Users() {
		if u.ID == id {
			return u
		}
	}
	t.Fatalf("user %d not in directory", id)
	return models.User{}
}
