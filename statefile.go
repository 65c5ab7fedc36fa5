package main

import (
	"encoding/json"
	"os"
)

// StateFile persists the single Mode A admin flag under a fixed key, so a
// shared-secret login survives restarts until explicit logout. It lives in a
// plain JSON file because Mode A must keep working when no database is
// configured.
type StateFile struct {
	path string
}

type persistedState struct {
	AdminLoggedIn bool `json:"admin_logged_in"`
}

func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// AdminLoggedIn reads the persisted flag. A missing or unreadable file counts
// as logged out.
func (f *StateFile) AdminLoggedIn() bool {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return false
	}
	return state.AdminLoggedIn
}

// SetAdminLoggedIn writes the flag. Setting it false removes the file so a
// fresh deployment and a logged-out one look the same.
func (f *StateFile) SetAdminLoggedIn(v bool) error {
	if !v {
		err := os.Remove(f.path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	data, err := json.Marshal(persistedState{AdminLoggedIn: true})
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}
