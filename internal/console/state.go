package console

import "github.com/geocoder89/userhub/internal/domain/user"

// Form holds the pending input fields. Password is ignored while an
// edit target is set.
type Form struct {
	Name     string
	Email    string
	Password string
}

// State is the console's single source of truth: the fetched list, the
// form, the edit target and the detail selection. All mutation goes
// through the reducer-style methods below so the optimistic-patch
// behavior stays explicit and testable.
type State struct {
	Users    []user.User
	Form     Form
	Editing  *user.User
	Selected *user.User
}

func NewState() *State {
	return &State{Users: []user.User{}}
}

// SetList replaces the local list with the server's authoritative one.
func (s *State) SetList(users []user.User) {
	if users == nil {
		users = []user.User{}
	}
	s.Users = users
}

// AppendOne adds a freshly created user to the end of the list.
func (s *State) AppendOne(u user.User) {
	s.Users = append(s.Users, u)
}

// PatchByID overwrites name and email of the matching entry in place.
// Unknown ids are a no-op.
func (s *State) PatchByID(id int64, name, email string) {
	for i := range s.Users {
		if s.Users[i].ID == id {
			s.Users[i].Name = name
			s.Users[i].Email = email
			return
		}
	}
}

// RemoveByID drops the matching entry. Unknown ids are a no-op.
func (s *State) RemoveByID(id int64) {
	for i := range s.Users {
		if s.Users[i].ID == id {
			s.Users = append(s.Users[:i], s.Users[i+1:]...)
			return
		}
	}
}

// StartEdit populates the form from an entry and remembers the target.
// The password field is cleared; it is not editable.
func (s *State) StartEdit(u user.User) {
	s.Editing = &u
	s.Form = Form{Name: u.Name, Email: u.Email}
}

// ClearForm resets form and edit state without contacting the server.
func (s *State) ClearForm() {
	s.Editing = nil
	s.Form = Form{}
}

// Select stores an entry as the detail target.
func (s *State) Select(u user.User) {
	s.Selected = &u
}

// ClearSelection dismisses the detail view.
func (s *State) ClearSelection() {
	s.Selected = nil
}

// FindByID looks an entry up in the local list.
func (s *State) FindByID(id int64) (user.User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return user.User{}, false
}
