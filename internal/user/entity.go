package user

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kazz187/taskdesk/pkg/cerr"
)

// CredentialDelimiter separates the name and password in a credential line.
const CredentialDelimiter = ", "

// User is a login identity. Passwords are kept in plaintext.
type User struct {
	Name     string
	Password string
}

func (u User) Validate() error {
	for field, v := range map[string]string{"username": u.Name, "password": u.Password} {
		if strings.TrimSpace(v) == "" {
			return cerr.NewError(cerr.InvalidArgument, field+" cannot be empty", ErrInvalidCredential)
		}
		if strings.Contains(v, CredentialDelimiter) || strings.ContainsAny(v, "\r\n") {
			return cerr.NewError(cerr.InvalidArgument,
				fmt.Sprintf("%s must not contain %q or line breaks", field, CredentialDelimiter),
				ErrInvalidCredential)
		}
	}
	return nil
}

// Directory is the ordered set of known users. Order is the order in which
// users were loaded or added.
type Directory struct {
	names []string
	users map[string]User
}

func NewDirectory(users ...User) *Directory {
	d := &Directory{users: make(map[string]User, len(users))}
	for _, u := range users {
		// Later duplicates win, keeping the first position.
		if _, ok := d.users[u.Name]; !ok {
			d.names = append(d.names, u.Name)
		}
		d.users[u.Name] = u
	}
	return d
}

func (d *Directory) Has(name string) bool {
	_, ok := d.users[name]
	return ok
}

func (d *Directory) Get(name string) (User, error) {
	u, ok := d.users[name]
	if !ok {
		return User{}, unknownUser(name)
	}
	return u, nil
}

// Names returns user names in directory order.
func (d *Directory) Names() []string {
	return slices.Clone(d.names)
}

func (d *Directory) Len() int {
	return len(d.names)
}

// Add inserts u at the end. It fails if the name is already taken.
func (d *Directory) Add(u User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if d.Has(u.Name) {
		return cerr.NewError(cerr.AlreadyExists, fmt.Sprintf("user %q already exists", u.Name), ErrDuplicateUser)
	}
	d.names = append(d.names, u.Name)
	d.users[u.Name] = u
	return nil
}

// Authenticate checks name and password. An unknown name and a wrong password
// are reported separately.
func (d *Directory) Authenticate(name, password string) (User, error) {
	u, err := d.Get(name)
	if err != nil {
		return User{}, err
	}
	if u.Password != password {
		return User{}, cerr.NewError(cerr.Unauthenticated, "incorrect password", ErrInvalidPassword)
	}
	return u, nil
}

func unknownUser(name string) error {
	return cerr.NewError(cerr.NotFound, fmt.Sprintf("user %q does not exist", name), ErrUnknownUser)
}
