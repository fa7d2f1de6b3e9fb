package domain

// User is the aggregate for an authenticated account.
type User struct {
	AggregateRoot

	id        string
	name      string
	firstName string
	lastName  string
	email     string
}

// UserCreateData carries the fields required to sign up a user. The user id is
// supplied by the authentication collaborator rather than generated here.
type UserCreateData struct {
	UserID    string
	ActorID   string
	Name      string
	FirstName string
	LastName  string
	Email     string
}

// UserStreamID returns the event stream id for a user id.
func UserStreamID(id string) string {
	return "user-" + id
}

// NewUser returns an empty user ready to be loaded from history.
func NewUser() *User {
	u := &User{}
	u.Init(u.apply)
	return u
}

// SignUpUser creates a new user account, emitting UserSignedUp.
func SignUpUser(data UserCreateData) *User {
	u := NewUser()
	u.ApplyChange(UserSignedUp{
		BaseEvent: NewBaseEvent(data.ActorID),
		UserID:    data.UserID,
		Name:      data.Name,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Email:     data.Email,
	})
	return u
}

// ID returns the user id.
func (u *User) ID() string { return u.id }

// StreamID returns the user's event stream id.
func (u *User) StreamID() string { return UserStreamID(u.id) }

// Email returns the user's email address.
func (u *User) Email() string { return u.email }

// UpdateName changes the user's display and legal names.
func (u *User) UpdateName(firstName, lastName, name, actorID string) {
	u.ApplyChange(UserNameUpdated{
		BaseEvent: NewBaseEvent(actorID),
		UserID:    u.id,
		Name:      name,
		FirstName: firstName,
		LastName:  lastName,
	})
}

// UpdateEmail changes the user's email address.
func (u *User) UpdateEmail(email, actorID string) {
	u.ApplyChange(UserEmailUpdated{
		BaseEvent: NewBaseEvent(actorID),
		UserID:    u.id,
		Email:     email,
	})
}

func (u *User) apply(event Event) {
	switch e := event.(type) {
	case UserSignedUp:
		u.id = e.UserID
		u.name = e.Name
		u.firstName = e.FirstName
		u.lastName = e.LastName
		u.email = e.Email
	case UserNameUpdated:
		u.name = e.Name
		u.firstName = e.FirstName
		u.lastName = e.LastName
	case UserEmailUpdated:
		u.email = e.Email
	}
}
