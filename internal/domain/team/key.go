package team

import "fmt"

// Key addresses a team either by id or by name.
type Key struct {
	id     int
	name   string
	byName bool
}

// ByID addresses a team by its identifier.
func ByID(id int) Key { return Key{id: id} }

// ByName addresses a team by its unique name.
func ByName(name string) Key { return Key{name: name, byName: true} }

// IsName reports whether the key addresses a team by name.
func (k Key) IsName() bool { return k.byName }

// ID returns the addressed id; zero for name keys.
func (k Key) ID() int { return k.id }

// Name returns the addressed name; empty for id keys.
func (k Key) Name() string { return k.name }

func (k Key) String() string {
	if k.byName {
		return fmt.Sprintf("team name '%s'", k.name)
	}
	return fmt.Sprintf("team ID '%d'", k.id)
}
