package console

import (
	"context"
	"fmt"
)

// Result is the discriminated outcome of a console action. Failures
// are surfaced to the view instead of being logged and swallowed; a
// failed action leaves the state exactly as it was.
type Result struct {
	OK      bool
	Message string
}

func ok(format string, args ...interface{}) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failed(err error) Result {
	return Result{OK: false, Message: err.Error()}
}

// Session binds the client to the state and implements the console's
// interaction flows. Tests drive it against an httptest server.
type Session struct {
	client *Client
	State  *State
}

func NewSession(client *Client) *Session {
	return &Session{
		client: client,
		State:  NewState(),
	}
}

// Load replaces the local list with the server's. On failure the list
// stays as it was (empty on initial mount).
func (s *Session) Load(ctx context.Context) Result {
	users, err := s.client.ListUsers(ctx)

	if err != nil {
		return failed(err)
	}

	s.State.SetList(users)

	return ok("%d users loaded", len(users))
}

// Submit routes the form: update when an edit target is set (name and
// email only, optimistic patch), create otherwise (all three fields,
// append the response). Either way a success clears the form.
func (s *Session) Submit(ctx context.Context) Result {
	form := s.State.Form

	if target := s.State.Editing; target != nil {
		err := s.client.UpdateUser(ctx, target.ID, form.Name, form.Email)

		if err != nil {
			return failed(err)
		}

		s.State.PatchByID(target.ID, form.Name, form.Email)
		s.State.ClearForm()

		return ok("user %d updated", target.ID)
	}

	created, err := s.client.CreateUser(ctx, form.Name, form.Email, form.Password)

	if err != nil {
		return failed(err)
	}

	s.State.AppendOne(created)
	s.State.ClearForm()

	return ok("user %d created", created.ID)
}

// Remove deletes on the server and, on success, drops the local entry.
func (s *Session) Remove(ctx context.Context, id int64) Result {
	err := s.client.DeleteUser(ctx, id)

	if err != nil {
		return failed(err)
	}

	s.State.RemoveByID(id)

	return ok("user %d deleted", id)
}

// View selects a locally known entry for the detail overlay.
func (s *Session) View(id int64) Result {
	u, found := s.State.FindByID(id)

	if !found {
		return Result{OK: false, Message: fmt.Sprintf("user %d is not in the list", id)}
	}

	s.State.Select(u)

	return ok("viewing user %d", id)
}

// Edit populates the form from a locally known entry.
func (s *Session) Edit(id int64) Result {
	u, found := s.State.FindByID(id)

	if !found {
		return Result{OK: false, Message: fmt.Sprintf("user %d is not in the list", id)}
	}

	s.State.StartEdit(u)

	return ok("editing user %d", id)
}

// Clear resets form and edit state without contacting the server.
func (s *Session) Clear() Result {
	s.State.ClearForm()

	return ok("form cleared")
}
