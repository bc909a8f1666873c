package main

import (
	"path/filepath"
	"sync"

	"github.com/danmuck/nsmclient/internal/client"
	"github.com/rs/zerolog"
)

// notesHost keeps a list of notes in a YAML file under the session path.
type notesHost struct {
	stateFile string
	log       zerolog.Logger
	done      func()

	mu    sync.Mutex
	path  string
	state notesState
}

func newNotesHost(stateFile string, log zerolog.Logger, done func()) *notesHost {
	if done == nil {
		done = func() {}
	}
	return &notesHost{stateFile: stateFile, log: log, done: done}
}

func (h *notesHost) Open(s client.Session) error {
	path := filepath.Join(s.Path, h.stateFile)
	st, err := loadState(path)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.path = path
	h.state = st
	h.mu.Unlock()
	h.log.Info().Str("state", path).Int("notes", len(st.Notes)).Msg("opened notes")
	return nil
}

func (h *notesHost) Save(client.Session) error {
	h.mu.Lock()
	path, st := h.path, h.state
	h.mu.Unlock()
	if err := saveState(path, st); err != nil {
		return err
	}
	h.log.Info().Str("state", path).Int("notes", len(st.Notes)).Msg("saved notes")
	return nil
}

func (h *notesHost) Exit(client.Session) {
	h.log.Info().Msg("notes closing")
	h.done()
}

func (h *notesHost) ReceiveBroadcast(_ client.Session, path string, args []any) {
	h.log.Info().Str("path", path).Interface("args", args).Msg("broadcast from session")
}

func (h *notesHost) addNote(note string) {
	h.mu.Lock()
	h.state.Notes = append(h.state.Notes, note)
	h.mu.Unlock()
}

func (h *notesHost) addResource(path string) {
	h.mu.Lock()
	h.state.Resources = append(h.state.Resources, path)
	h.mu.Unlock()
}

func (h *notesHost) snapshot() notesState {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := h.state
	st.Notes = append([]string(nil), h.state.Notes...)
	st.Resources = append([]string(nil), h.state.Resources...)
	return st
}

// guiNotesHost advertises optional-gui. The "window" is a log line.
type guiNotesHost struct {
	*notesHost
	visible func(bool)
}

func (h *guiNotesHost) ShowGUI() {
	h.log.Info().Msg("notes window shown")
	h.visible(true)
}

func (h *guiNotesHost) HideGUI() {
	h.log.Info().Msg("notes window hidden")
	h.visible(false)
}
